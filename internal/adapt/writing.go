package adapt

import (
	"fmt"

	"github.com/cocowutech/placement/internal/score"
)

// WritingPolicy keeps no streaks. The level used for the next prompt is
// the band of the most recent score; the session's final reported level
// comes from the score aggregator's mean, not from this policy.
type WritingPolicy struct{}

func (WritingPolicy) Apply(in Input) (Result, error) {
	if err := in.validate(); err != nil {
		return Result{}, err
	}
	if in.Score < 0 || in.Score > 100 {
		return Result{}, fmt.Errorf("score %d out of range 0-100: %w", in.Score, ErrInvalidOutcome)
	}
	return Result{Level: score.Band(in.Score)}, nil
}
