package adapt

import (
	"errors"
	"fmt"

	"github.com/cocowutech/placement/internal/cefr"
	"github.com/cocowutech/placement/internal/track"
)

// ErrInvalidOutcome indicates outcome data a policy cannot apply:
// inconsistent streaks, out-of-range positions or scores. Policies
// return it without producing a result, so the caller's state is
// untouched.
var ErrInvalidOutcome = errors.New("invalid outcome")

// Input carries one submitted outcome plus the slice of session state a
// policy needs. Policies are pure functions of Input; they never hold
// state of their own.
type Input struct {
	// Level is the current session level.
	Level cefr.Level

	// CorrectStreak and IncorrectStreak are the session's running
	// streak counters. At most one may be non-zero.
	CorrectStreak   int
	IncorrectStreak int

	// Position is the 1-based index of the submitted item within the
	// session.
	Position int

	// Total is the session's fixed item count.
	Total int

	// UnitSize is the number of items per generated unit (5 for a
	// reading passage, 2 for a listening pair, 1 otherwise).
	UnitSize int

	// Correct reports whether the submitted answer was correct.
	// Meaningless for Writing.
	Correct bool

	// CorrectInUnit counts correct answers in the current unit,
	// including this one. Reading's end-of-passage rule reads it.
	CorrectInUnit int

	// Outcomes lists every outcome so far, oldest first, including
	// this one. Listening reads the last pair; Reading's final
	// smoothing reads the last five.
	Outcomes []bool

	// Score is the 0-100 overall score of a Writing submission.
	Score int
}

// Result is the state a policy hands back: the next level and streak
// counters. The caller applies it atomically.
type Result struct {
	Level           cefr.Level
	CorrectStreak   int
	IncorrectStreak int
}

// Policy computes the next level for one submitted outcome.
// Implementations must not mutate Input and must return
// ErrInvalidOutcome (wrapped or bare) for outcome data they cannot
// apply.
type Policy interface {
	Apply(in Input) (Result, error)
}

// ForTrack returns the policy for the given track.
func ForTrack(t track.Track) (Policy, error) {
	switch t {
	case track.Reading:
		return ReadingPolicy{}, nil
	case track.Listening:
		return ListeningPolicy{}, nil
	case track.Vocabulary, track.Speaking:
		return StreakPolicy{}, nil
	case track.Writing:
		return WritingPolicy{}, nil
	}
	return nil, fmt.Errorf("no policy for track %q", t)
}

// validate checks the fields every track relies on.
func (in Input) validate() error {
	if in.CorrectStreak < 0 || in.IncorrectStreak < 0 {
		return fmt.Errorf("negative streak: %w", ErrInvalidOutcome)
	}
	if in.CorrectStreak > 0 && in.IncorrectStreak > 0 {
		return fmt.Errorf("both streaks non-zero: %w", ErrInvalidOutcome)
	}
	if in.Position < 1 || in.Position > in.Total {
		return fmt.Errorf("position %d out of range 1-%d: %w", in.Position, in.Total, ErrInvalidOutcome)
	}
	return nil
}

// stepStreak applies the shared two-in-a-row rule to res. Streaks reset
// after any level change attempt, so a run of four correct answers
// moves the level twice, not three times.
func stepStreak(res *Result, correct bool) {
	if correct {
		res.CorrectStreak++
		res.IncorrectStreak = 0
		if res.CorrectStreak >= 2 {
			res.Level = res.Level.Step(1)
			res.CorrectStreak = 0
		}
	} else {
		res.IncorrectStreak++
		res.CorrectStreak = 0
		if res.IncorrectStreak >= 2 {
			res.Level = res.Level.Step(-1)
			res.IncorrectStreak = 0
		}
	}
}
