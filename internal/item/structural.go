package item

import (
	"fmt"

	"github.com/cocowutech/placement/internal/track"
)

// StructuralValidator checks that a unit has the right number of items
// for its track and that each item's fields are complete and in range.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(u *Unit, input GenerateInput) *ValidationError {
	want := input.Track.UnitSize()
	if len(u.Items) != want {
		return v.fail(fmt.Sprintf("expected %d items, got %d", want, len(u.Items)))
	}

	if input.Track == track.Reading && u.Passage == "" {
		return v.fail("passage is empty")
	}

	for i := range u.Items {
		if verr := v.validateItem(&u.Items[i], input.Track); verr != nil {
			return verr
		}
	}
	return nil
}

func (v *StructuralValidator) validateItem(it *Item, t track.Track) *ValidationError {
	if it.Text == "" {
		return v.fail("item text is empty")
	}

	switch t {
	case track.Reading, track.Listening, track.Vocabulary:
		if len(it.Choices) != 4 {
			return v.fail(fmt.Sprintf("expected 4 choices, got %d", len(it.Choices)))
		}
		for _, c := range it.Choices {
			if c == "" {
				return v.fail("empty choice text")
			}
		}
		if it.CorrectIndex < 0 || it.CorrectIndex > 3 {
			return v.fail(fmt.Sprintf("correct_index %d out of range 0-3", it.CorrectIndex))
		}
	}

	switch t {
	case track.Listening:
		if it.Transcript == "" {
			return v.fail("listening transcript is empty")
		}
	case track.Vocabulary:
		if it.Context == "" {
			return v.fail("vocabulary context is empty")
		}
	case track.Speaking:
		if it.PrepSeconds < 10 || it.PrepSeconds > 120 {
			return v.fail(fmt.Sprintf("prep_seconds %d out of range 10-120", it.PrepSeconds))
		}
		if it.RecordSeconds < 10 || it.RecordSeconds > 180 {
			return v.fail(fmt.Sprintf("record_seconds %d out of range 10-180", it.RecordSeconds))
		}
	}
	return nil
}

func (v *StructuralValidator) fail(msg string) *ValidationError {
	return &ValidationError{Validator: v.Name(), Message: msg, Retryable: true}
}
