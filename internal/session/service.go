package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/cocowutech/placement/internal/adapt"
	"github.com/cocowutech/placement/internal/cefr"
	"github.com/cocowutech/placement/internal/evaluate"
	"github.com/cocowutech/placement/internal/item"
	"github.com/cocowutech/placement/internal/prefetch"
	"github.com/cocowutech/placement/internal/score"
	"github.com/cocowutech/placement/internal/store"
	"github.com/cocowutech/placement/internal/track"
)

// defaultTimeout bounds each generator or scorer call.
const defaultTimeout = 90 * time.Second

// Service orchestrates placement sessions: it starts them, routes
// submissions through evaluation and adaptation, keeps content flowing
// via prefetch, and produces the final report.
type Service struct {
	sessions Store
	gen      item.Generator
	scorer   evaluate.Scorer
	events   store.EventRepo
	timeout  time.Duration
	logf     func(format string, args ...any)
}

// Option configures a Service.
type Option func(*Service)

// WithEvents enables event persistence.
func WithEvents(repo store.EventRepo) Option {
	return func(s *Service) { s.events = repo }
}

// WithTimeout overrides the per-call generation/scoring timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithLogf overrides the destination for absorbed background errors.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(s *Service) { s.logf = logf }
}

// NewService creates a session Service.
func NewService(sessions Store, gen item.Generator, scorer evaluate.Scorer, opts ...Option) *Service {
	s := &Service{
		sessions: sessions,
		gen:      gen,
		scorer:   scorer,
		timeout:  defaultTimeout,
		logf:     log.Printf,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current describes the item awaiting an answer.
type Current struct {
	Item     *item.Item
	Passage  string
	Position int // 1-based number this item will have once submitted
	Total    int
	Level    cefr.Level
}

// Submission carries the learner's answer for the current item.
type Submission struct {
	// Choice is the selected option index for multiple-choice tracks.
	Choice int

	// Text is the written response (Writing) or the spoken-response
	// transcript (Speaking).
	Text string

	// ImageText optionally carries a second, independent signal for a
	// writing prompt (e.g. an OCR extraction of a photographed page),
	// merged with Text's score before recording.
	ImageText string
}

// SubmitResult reports the outcome of one accepted submission.
type SubmitResult struct {
	Position     int
	Correct      bool
	CorrectIndex int
	Rationale    string
	Score        *evaluate.PromptScore
	Level        cefr.Level
	Finished     bool
	Report       *FinalReport
	Next         *Current
}

// FinalReport summarizes a finished session.
type FinalReport struct {
	SessionID  string
	Track      track.Track
	StartLevel cefr.Level
	FinalLevel cefr.Level
	Asked      int
	Correct    int

	// FinalScore and the dimension averages are populated for tracks
	// with rubric scoring (Writing, Speaking).
	FinalScore         int
	ContentAvg         int
	OrganizationAvg    int
	LanguageControlAvg int

	History []Attempt
}

// Start creates a session on the given track and generates its first
// content unit synchronously. startLevel is ignored for tracks with a
// fixed start; nil selects the track default.
func (s *Service) Start(ctx context.Context, t track.Track, startLevel *cefr.Level) (*State, *Current, error) {
	level := t.DefaultStart()
	if startLevel != nil && !t.FixedStart() {
		level = *startLevel
	}

	unit, err := s.generateUnit(ctx, t, level, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("start %s session: %w", t, err)
	}

	st := &State{
		ID:         uuid.NewString(),
		Track:      t,
		StartLevel: level,
		Level:      level,
		Total:      t.Total(),
		unit:       unit,
	}
	st.pf = prefetch.New(t.UnitSize(), triggerOffset(t), s.prefetchGenerate, func(err error) {
		s.logf("session %s: prefetch: %v", st.ID, err)
	})

	if err := s.sessions.Put(st); err != nil {
		return nil, nil, fmt.Errorf("store session: %w", err)
	}
	s.recordSessionEvent(ctx, st, "start")
	return st, s.current(st), nil
}

// CurrentItem returns the item awaiting an answer for the session.
func (s *Service) CurrentItem(sessionID string) (*Current, error) {
	st, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.Finished {
		return nil, ErrSessionClosed
	}
	return s.current(st), nil
}

// Submit evaluates the learner's answer for the session's current item,
// applies the track's adaptation policy, and advances to the next item.
// On any error the session state is unchanged.
func (s *Service) Submit(ctx context.Context, sessionID string, sub Submission) (*SubmitResult, error) {
	st, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.Finished {
		return nil, ErrSessionClosed
	}
	cur := st.currentItem()
	if cur == nil {
		return nil, fmt.Errorf("session %s has no current item", st.ID)
	}

	// Evaluate. Nothing is mutated until every fallible step succeeds.
	var (
		correct     bool
		choiceRes   evaluate.ChoiceResult
		promptScore *evaluate.PromptScore
	)
	switch st.Track {
	case track.Writing:
		promptScore, err = s.scoreSubmission(ctx, st.Track, cur, sub)
		if err != nil {
			return nil, err
		}
	case track.Speaking:
		promptScore, err = s.scoreSubmission(ctx, st.Track, cur, sub)
		if err != nil {
			return nil, err
		}
		// A spoken response counts as correct when it demonstrates at
		// least the level it was prompted at.
		correct = promptScore.Band >= st.Level
	default:
		choiceRes, err = evaluate.Choice(cur, sub.Choice)
		if err != nil {
			return nil, err
		}
		correct = choiceRes.Correct
	}

	// Adapt.
	position := st.Asked + 1
	correctInUnit := st.CorrectInUnit
	if correct {
		correctInUnit++
	}
	outcomes := make([]bool, len(st.Outcomes), len(st.Outcomes)+1)
	copy(outcomes, st.Outcomes)
	outcomes = append(outcomes, correct)

	policy, err := adapt.ForTrack(st.Track)
	if err != nil {
		return nil, err
	}
	in := adapt.Input{
		Level:           st.Level,
		CorrectStreak:   st.CorrectStreak,
		IncorrectStreak: st.IncorrectStreak,
		Position:        position,
		Total:           st.Total,
		UnitSize:        st.Track.UnitSize(),
		Correct:         correct,
		CorrectInUnit:   correctInUnit,
		Outcomes:        outcomes,
	}
	if promptScore != nil {
		in.Score = promptScore.Overall
	}
	res, err := policy.Apply(in)
	if err != nil {
		return nil, err
	}

	finished := position >= st.Total

	// Acquire the next unit before committing, so a generation failure
	// leaves the session untouched.
	nextUnit, nextIndex := st.unit, st.unitIndex+1
	if !finished && nextIndex >= len(st.unit.Items) {
		nextUnit, err = s.nextUnit(ctx, st, res.Level)
		if err != nil {
			return nil, err
		}
		nextIndex = 0
	}

	// Commit.
	st.History = append(st.History, Attempt{
		Position: position,
		Item:     *cur,
		Level:    st.Level,
		Correct:  correct,
		Score:    promptScore,
	})
	st.Outcomes = outcomes
	st.Asked = position
	st.Level = res.Level
	st.CorrectStreak = res.CorrectStreak
	st.IncorrectStreak = res.IncorrectStreak
	st.CorrectInUnit = correctInUnit
	if position%st.Track.UnitSize() == 0 {
		st.CorrectInUnit = 0
	}
	if promptScore != nil {
		st.Agg.AddPrompt(*promptScore)
	} else {
		st.Agg.AddChoice(correct)
	}
	s.recordAttemptEvent(ctx, st, position, correct, promptScore)

	result := &SubmitResult{
		Position:     position,
		Correct:      correct,
		CorrectIndex: choiceRes.CorrectIndex,
		Rationale:    choiceRes.Rationale,
		Score:        promptScore,
		Level:        st.Level,
		Finished:     finished,
	}

	if finished {
		s.finishLocked(ctx, st)
		result.Level = st.FinalLevel
		result.Report = s.reportLocked(st)
		return result, nil
	}

	st.unit = nextUnit
	st.unitIndex = nextIndex
	st.pf.MaybeTrigger(context.WithoutCancel(ctx), position, item.GenerateInput{
		Track:      st.Track,
		Level:      st.Level,
		PriorTexts: st.priorTexts(),
	})
	result.Next = s.current(st)
	return result, nil
}

// Finish returns the session's report. A session only closes once its
// full item count has been administered; before that point Finish
// previews the report from the outcomes so far and leaves the session
// open. On a finished session it returns the same report every time.
func (s *Service) Finish(ctx context.Context, sessionID string) (*FinalReport, error) {
	st, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	if !st.Finished && st.Asked >= st.Total {
		s.finishLocked(ctx, st)
	}
	return s.reportLocked(st), nil
}

// finishLocked marks the session finished and records the event.
// Callers hold st.mu.
func (s *Service) finishLocked(ctx context.Context, st *State) {
	st.Finished = true
	st.FinalLevel = resolvedLevel(st)
	st.pf.Invalidate()
	s.recordSessionEvent(ctx, st, "finish")
}

// resolvedLevel is the level a report shows: for Writing the band of
// the mean of all prompt scores, not the level used to pick the last
// prompt; for every other track the current level.
func resolvedLevel(st *State) cefr.Level {
	if st.Track == track.Writing && len(st.Agg.Prompts()) > 0 {
		return st.Agg.FinalBand()
	}
	return st.Level
}

func (s *Service) reportLocked(st *State) *FinalReport {
	level := st.FinalLevel
	if !st.Finished {
		level = resolvedLevel(st)
	}
	r := &FinalReport{
		SessionID:  st.ID,
		Track:      st.Track,
		StartLevel: st.StartLevel,
		FinalLevel: level,
		Asked:      st.Asked,
		FinalScore: st.Agg.FinalScore(),
		History:    st.History,
	}
	for _, o := range st.Outcomes {
		if o {
			r.Correct++
		}
	}
	r.ContentAvg, r.OrganizationAvg, r.LanguageControlAvg = st.Agg.DimensionAverages()
	return r
}

func (s *Service) current(st *State) *Current {
	cur := st.currentItem()
	if cur == nil {
		return nil
	}
	return &Current{
		Item:     cur,
		Passage:  st.unit.Passage,
		Position: st.Asked + 1,
		Total:    st.Total,
		Level:    st.Level,
	}
}

// nextUnit serves the prefetched unit when it matches the level the
// session just moved to, and generates synchronously otherwise.
func (s *Service) nextUnit(ctx context.Context, st *State, level cefr.Level) (*item.Unit, error) {
	if u := st.pf.Consume(); u != nil && u.Level == level {
		return u, nil
	}
	return s.generateUnit(ctx, st.Track, level, st.priorTexts())
}

func (s *Service) generateUnit(ctx context.Context, t track.Track, level cefr.Level, prior []string) (*item.Unit, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.gen.Generate(ctx, item.GenerateInput{Track: t, Level: level, PriorTexts: prior})
}

// prefetchGenerate is the coordinator's generate hook; it applies the
// same timeout as foreground generation.
func (s *Service) prefetchGenerate(ctx context.Context, input item.GenerateInput) (*item.Unit, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.gen.Generate(ctx, input)
}

func (s *Service) scoreSubmission(ctx context.Context, t track.Track, cur *item.Item, sub Submission) (*evaluate.PromptScore, error) {
	sctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	primary, err := s.scorer.Score(sctx, evaluate.ScoreInput{
		Track:    t,
		Prompt:   cur.Text,
		Response: sub.Text,
	})
	if err != nil {
		return nil, err
	}
	if t != track.Writing || sub.ImageText == "" {
		return primary, nil
	}

	secondary, err := s.scorer.Score(sctx, evaluate.ScoreInput{
		Track:    t,
		Prompt:   cur.Text,
		Response: sub.ImageText,
	})
	if err != nil {
		return nil, err
	}
	merged := score.Merge(*primary, *secondary, "typed text", "image text")
	return &merged, nil
}

// triggerOffset is the 1-based position within a unit at which the next
// unit's prefetch fires: after the 3rd question of a reading passage,
// after the first clip of a listening pair, and immediately for
// single-item units.
func triggerOffset(t track.Track) int {
	switch t {
	case track.Reading:
		return 3
	case track.Listening:
		return 1
	default:
		return 1
	}
}

func (s *Service) recordSessionEvent(ctx context.Context, st *State, action string) {
	if s.events == nil {
		return
	}
	data := store.SessionEventData{
		SessionID:  st.ID,
		Track:      string(st.Track),
		Action:     action,
		StartLevel: st.StartLevel.String(),
	}
	if action == "finish" {
		data.FinalLevel = st.FinalLevel.String()
		data.Asked = st.Asked
		for _, o := range st.Outcomes {
			if o {
				data.Correct++
			}
		}
		data.FinalScore = st.Agg.FinalScore()
	}
	if err := s.events.AppendSessionEvent(ctx, data); err != nil {
		s.logf("session %s: record %s event: %v", st.ID, action, err)
	}
}

func (s *Service) recordAttemptEvent(ctx context.Context, st *State, position int, correct bool, ps *evaluate.PromptScore) {
	if s.events == nil {
		return
	}
	data := store.AttemptEventData{
		SessionID: st.ID,
		Track:     string(st.Track),
		Position:  position,
		Correct:   correct,
	}
	if len(st.History) > 0 {
		// The level the item was served at, not the post-adaptation one.
		data.Level = st.History[len(st.History)-1].Level.String()
	}
	if ps != nil {
		data.Score = ps.Overall
		data.Rationale = ps.Feedback
	} else if len(st.History) > 0 {
		data.Rationale = st.History[len(st.History)-1].Item.Rationale
	}
	if err := s.events.AppendAttemptEvent(ctx, data); err != nil {
		s.logf("session %s: record attempt: %v", st.ID, err)
	}
}
