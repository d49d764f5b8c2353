package track

import (
	"fmt"
	"strings"

	"github.com/cocowutech/placement/internal/cefr"
)

// Track identifies one of the five assessment skill tracks. The track
// fixes which adaptation policy applies, the item cadence, and the
// session length. Immutable once a session is created.
type Track string

const (
	Reading    Track = "reading"
	Listening  Track = "listening"
	Speaking   Track = "speaking"
	Vocabulary Track = "vocabulary"
	Writing    Track = "writing"
)

// AllTracks returns the five tracks in presentation order.
func AllTracks() []Track {
	return []Track{Reading, Listening, Speaking, Vocabulary, Writing}
}

// Parse converts a track name to a Track.
func Parse(s string) (Track, error) {
	switch Track(strings.ToLower(strings.TrimSpace(s))) {
	case Reading:
		return Reading, nil
	case Listening:
		return Listening, nil
	case Speaking:
		return Speaking, nil
	case Vocabulary:
		return Vocabulary, nil
	case Writing:
		return Writing, nil
	}
	return "", fmt.Errorf("unknown track %q", s)
}

// Total returns the fixed number of items administered per session.
func (t Track) Total() int {
	switch t {
	case Reading:
		return 15 // 3 passages x 5 questions
	case Listening:
		return 10 // 5 pairs of clips
	case Speaking, Vocabulary:
		return 15
	case Writing:
		return 3
	default:
		return 0
	}
}

// UnitSize returns the number of items per content unit: a reading
// passage carries 5 questions, listening clips come in pairs, and the
// remaining tracks serve one item per unit.
func (t Track) UnitSize() int {
	switch t {
	case Reading:
		return 5
	case Listening:
		return 2
	default:
		return 1
	}
}

// DefaultStart returns the initial level used when the caller supplies
// none. Listening always starts at A2 for a consistent baseline.
func (t Track) DefaultStart() cefr.Level {
	switch t {
	case Listening:
		return cefr.A2
	case Speaking:
		return cefr.A2
	default:
		return cefr.B1
	}
}

// FixedStart reports whether the track ignores a caller-supplied start
// level. Listening pins its starting level so every learner is measured
// from the same baseline.
func (t Track) FixedStart() bool {
	return t == Listening
}

func (t Track) String() string {
	return string(t)
}
