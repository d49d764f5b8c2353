package session

import (
	"errors"
	"sync"

	"github.com/cocowutech/placement/internal/cefr"
	"github.com/cocowutech/placement/internal/evaluate"
	"github.com/cocowutech/placement/internal/item"
	"github.com/cocowutech/placement/internal/prefetch"
	"github.com/cocowutech/placement/internal/score"
	"github.com/cocowutech/placement/internal/track"
)

// ErrSessionClosed indicates a submit against a finished session.
var ErrSessionClosed = errors.New("session closed")

// ErrNotFound indicates an unknown session id.
var ErrNotFound = errors.New("session not found")

// Attempt is one entry in a session's append-only history.
type Attempt struct {
	// Position is the 1-based index of the item within the session.
	Position int

	// Item is the item as served.
	Item item.Item

	// Level is the level the item was served at.
	Level cefr.Level

	// Correct is the outcome for multiple-choice and speaking items.
	Correct bool

	// Score is the rubric score for writing and speaking items.
	// Nil for multiple-choice items.
	Score *evaluate.PromptScore
}

// State is the mutable state of one active session. The Service
// serializes all access through the embedded mutex; callers outside
// this package treat a State as read-only between calls.
type State struct {
	mu sync.Mutex

	ID         string
	Track      track.Track
	StartLevel cefr.Level
	Level      cefr.Level

	// At most one streak counter is non-zero at a time.
	CorrectStreak   int
	IncorrectStreak int

	Asked int
	Total int

	// Finished is terminal: once set it never clears, and further
	// submissions return ErrSessionClosed.
	Finished   bool
	FinalLevel cefr.Level

	// History grows by exactly one entry per accepted submission, so
	// len(History) == Asked at all times.
	History []Attempt

	// Outcomes mirrors History's correctness flags, oldest first.
	Outcomes []bool

	// CorrectInUnit counts correct answers in the current unit; it
	// resets at every unit boundary.
	CorrectInUnit int

	// Agg accumulates scores for the final report.
	Agg score.Aggregator

	unit      *item.Unit
	unitIndex int
	pf        *prefetch.Coordinator
}

// currentItem returns the item awaiting an answer.
func (st *State) currentItem() *item.Item {
	if st.unit == nil || st.unitIndex >= len(st.unit.Items) {
		return nil
	}
	return &st.unit.Items[st.unitIndex]
}

// priorTexts lists the texts of all served items, for prompt dedup.
func (st *State) priorTexts() []string {
	texts := make([]string, 0, len(st.History)+1)
	for _, a := range st.History {
		texts = append(texts, a.Item.Text)
	}
	if cur := st.currentItem(); cur != nil {
		texts = append(texts, cur.Text)
	}
	return texts
}

// Store holds active sessions. Implementations must be safe for
// concurrent use.
type Store interface {
	Put(st *State) error
	Get(id string) (*State, error)
	Delete(id string) error
}

// MemoryStore is the in-process Store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*State
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*State)}
}

func (m *MemoryStore) Put(st *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[st.ID] = st
	return nil
}

func (m *MemoryStore) Get(id string) (*State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return st, nil
}

func (m *MemoryStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
