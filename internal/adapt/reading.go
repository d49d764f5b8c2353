package adapt

import (
	"fmt"

	"github.com/cocowutech/placement/internal/cefr"
)

// ReadingPolicy adapts across 5-question passages. Mid-passage it runs
// the two-in-a-row streak rule; when a passage completes it applies an
// additional discrete adjustment from the passage's correct count; and
// when the last passage completes it smooths the level once from the
// last five individual outcomes.
type ReadingPolicy struct{}

func (ReadingPolicy) Apply(in Input) (Result, error) {
	if err := in.validate(); err != nil {
		return Result{}, err
	}
	if in.UnitSize <= 0 {
		return Result{}, fmt.Errorf("unit size %d: %w", in.UnitSize, ErrInvalidOutcome)
	}
	if in.CorrectInUnit < 0 || in.CorrectInUnit > in.UnitSize {
		return Result{}, fmt.Errorf("correct-in-unit %d out of range 0-%d: %w", in.CorrectInUnit, in.UnitSize, ErrInvalidOutcome)
	}

	res := Result{
		Level:           in.Level,
		CorrectStreak:   in.CorrectStreak,
		IncorrectStreak: in.IncorrectStreak,
	}
	stepStreak(&res, in.Correct)

	if in.Position%in.UnitSize != 0 {
		return res, nil
	}

	// Passage complete: discrete adjustment, then fresh streaks for the
	// next passage.
	res.Level = res.Level.Step(passageDelta(in.CorrectInUnit, res.Level))
	res.CorrectStreak = 0
	res.IncorrectStreak = 0

	if in.Position == in.Total {
		res.Level = smoothFinal(res.Level, in.Outcomes)
	}
	return res, nil
}

// passageDelta maps a passage's correct count to a level delta.
// A perfect passage jumps two levels; 4/5 moves up one unless the
// level is already C1 (the ceiling exception applies to the 4/5 case
// only, never to 5/5).
func passageDelta(correct int, level cefr.Level) int {
	switch {
	case correct >= 5:
		return 2
	case correct == 4:
		if level == cefr.C1 {
			return 0
		}
		return 1
	case correct == 3:
		return 0
	case correct == 2:
		return -1
	default: // 0 or 1 correct
		return -2
	}
}

// smoothFinal nudges the level by at most one step based on the last
// up-to-5 outcomes. It inspects raw outcomes only; the C1 ceiling
// exception does not apply here.
func smoothFinal(level cefr.Level, outcomes []bool) cefr.Level {
	if len(outcomes) == 0 {
		return level
	}
	if len(outcomes) > 5 {
		outcomes = outcomes[len(outcomes)-5:]
	}
	correct := 0
	for _, o := range outcomes {
		if o {
			correct++
		}
	}
	switch {
	case correct >= 4:
		return level.Step(1)
	case correct <= 1:
		return level.Step(-1)
	}
	return level
}
