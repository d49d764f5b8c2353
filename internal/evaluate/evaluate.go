package evaluate

import (
	"errors"
	"fmt"

	"github.com/cocowutech/placement/internal/cefr"
	"github.com/cocowutech/placement/internal/item"
)

// ErrInvalidOutcome indicates a response or score that cannot be
// evaluated: an out-of-range choice, or rubric output with scores
// outside 0-100.
var ErrInvalidOutcome = errors.New("invalid outcome")

// ChoiceResult is the outcome of evaluating a multiple-choice response.
type ChoiceResult struct {
	Correct      bool
	CorrectIndex int
	Rationale    string
}

// Choice evaluates a multiple-choice response locally, with no LLM
// involvement. The chosen index must select one of the item's choices.
func Choice(it *item.Item, chosen int) (ChoiceResult, error) {
	if len(it.Choices) == 0 {
		return ChoiceResult{}, fmt.Errorf("item %s has no choices: %w", it.ID, ErrInvalidOutcome)
	}
	if chosen < 0 || chosen >= len(it.Choices) {
		return ChoiceResult{}, fmt.Errorf("choice %d out of range 0-%d: %w", chosen, len(it.Choices)-1, ErrInvalidOutcome)
	}
	return ChoiceResult{
		Correct:      chosen == it.CorrectIndex,
		CorrectIndex: it.CorrectIndex,
		Rationale:    it.Rationale,
	}, nil
}

// PromptScore is the result of rubric-scoring one free-form response
// (a writing submission or a speaking transcript). All numeric scores
// are on a 0-100 scale.
type PromptScore struct {
	Content         int
	Organization    int
	LanguageControl int
	Overall         int
	Band            cefr.Level
	Feedback        string
}

// Validate checks that all scores are in range.
func (s *PromptScore) Validate() error {
	for _, v := range []int{s.Content, s.Organization, s.LanguageControl, s.Overall} {
		if v < 0 || v > 100 {
			return fmt.Errorf("score %d out of range 0-100: %w", v, ErrInvalidOutcome)
		}
	}
	return nil
}
