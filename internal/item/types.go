package item

import (
	"github.com/cocowutech/placement/internal/cefr"
	"github.com/cocowutech/placement/internal/track"
)

// Item is a single assessment item ready to be served to the learner.
// The populated fields depend on the track: multiple-choice tracks carry
// Choices and CorrectIndex, listening items carry Title and Transcript,
// speaking items carry timing and guidance, and writing items are just
// the prompt in Text.
type Item struct {
	// ID uniquely identifies this item within a session.
	ID string

	// Level is the CEFR level this item was generated for.
	Level cefr.Level

	// Text is the question stem, speaking prompt, or writing prompt.
	Text string

	// Choices holds exactly 4 options for multiple-choice items.
	// Nil for speaking and writing.
	Choices []string

	// CorrectIndex is the 0-based index of the correct choice.
	CorrectIndex int

	// Rationale explains why the correct choice is correct. Shown after
	// the learner answers.
	Rationale string

	// Title is a short label for a listening clip.
	Title string

	// Transcript is the exact text of a listening clip as spoken.
	Transcript string

	// Context is the short passage or sentence a vocabulary item is
	// embedded in (gap-fill or synonym-in-context).
	Context string

	// PrepSeconds and RecordSeconds bound a speaking task.
	PrepSeconds   int
	RecordSeconds int

	// Guidance describes what a good speaking answer should include.
	Guidance string
}

// Unit is the amount of content generated in one request: a reading
// passage with its 5 questions, a pair of listening clips, or a single
// item for the remaining tracks. Units are the granularity at which
// content is prefetched.
type Unit struct {
	Track track.Track
	Level cefr.Level

	// Passage is the shared reading passage for reading units.
	// Empty for other tracks.
	Passage string

	Items []Item
}

// GenerateInput holds all context needed to generate a unit.
type GenerateInput struct {
	// Track selects the content shape and prompt.
	Track track.Track

	// Level is the target CEFR level.
	Level cefr.Level

	// PriorTexts contains the Text of items already served in this
	// session. Used for deduplication in the prompt.
	PriorTexts []string
}
