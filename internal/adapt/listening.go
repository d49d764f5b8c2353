package adapt

import (
	"fmt"

	"github.com/cocowutech/placement/internal/cefr"
)

// ListeningPolicy adapts on pairs of outcomes. The level only moves
// when the second item of a pair is submitted: both correct moves up
// one, both incorrect moves down one, a mixed pair holds. At C2 the
// rule is asymmetric: any mistake in the pair moves down one.
type ListeningPolicy struct{}

func (ListeningPolicy) Apply(in Input) (Result, error) {
	if err := in.validate(); err != nil {
		return Result{}, err
	}
	if in.UnitSize != 2 {
		return Result{}, fmt.Errorf("unit size %d, want 2: %w", in.UnitSize, ErrInvalidOutcome)
	}

	res := Result{Level: in.Level}
	if in.Position%2 != 0 {
		// First item of a pair: wait for its partner.
		return res, nil
	}

	if len(in.Outcomes) < 2 {
		return Result{}, fmt.Errorf("pair incomplete, %d outcomes: %w", len(in.Outcomes), ErrInvalidOutcome)
	}
	first := in.Outcomes[len(in.Outcomes)-2]
	second := in.Outcomes[len(in.Outcomes)-1]
	bothCorrect := first && second
	bothIncorrect := !first && !second

	if in.Level == cefr.C2 {
		if !bothCorrect {
			res.Level = in.Level.Step(-1)
		}
		return res, nil
	}

	switch {
	case bothCorrect:
		res.Level = in.Level.Step(1)
	case bothIncorrect:
		res.Level = in.Level.Step(-1)
	}
	return res, nil
}
