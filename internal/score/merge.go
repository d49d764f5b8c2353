package score

import (
	"fmt"
	"math"

	"github.com/cocowutech/placement/internal/cefr"
	"github.com/cocowutech/placement/internal/evaluate"
)

// mergeThreshold is the largest score gap treated as agreement between
// two signals. Within it the signals are blended; beyond it the higher
// one wins outright.
const mergeThreshold = 10

// primaryWeight favors the primary signal slightly in blends.
const primaryWeight = 0.55

// Merge combines two independent rubric signals for the same prompt
// (e.g. a typed text and an OCR transcription submitted together) into
// one per-prompt score. Each numeric dimension is merged independently:
// scores within mergeThreshold of each other are blended with
// primaryWeight on the primary signal, scores further apart resolve to
// the max. The merged band is the higher of the two bands. Feedback
// from both signals is kept, each attributed to its source.
//
// Scores are integers, so a blend of adjacent scores rounds back onto
// one of them; a blended result lands strictly between the inputs only
// when they differ by at least 2.
func Merge(primary, secondary evaluate.PromptScore, primaryName, secondaryName string) evaluate.PromptScore {
	return evaluate.PromptScore{
		Content:         mergeDim(primary.Content, secondary.Content),
		Organization:    mergeDim(primary.Organization, secondary.Organization),
		LanguageControl: mergeDim(primary.LanguageControl, secondary.LanguageControl),
		Overall:         mergeDim(primary.Overall, secondary.Overall),
		Band:            cefr.Max(primary.Band, secondary.Band),
		Feedback:        mergeFeedback(primary.Feedback, secondary.Feedback, primaryName, secondaryName),
	}
}

func mergeDim(primary, secondary int) int {
	diff := primary - secondary
	if diff < 0 {
		diff = -diff
	}
	if diff > mergeThreshold {
		if primary > secondary {
			return primary
		}
		return secondary
	}
	blended := primaryWeight*float64(primary) + (1-primaryWeight)*float64(secondary)
	return clampScore(int(math.Round(blended)))
}

func mergeFeedback(primary, secondary, primaryName, secondaryName string) string {
	switch {
	case primary == "" && secondary == "":
		return ""
	case secondary == "":
		return fmt.Sprintf("%s: %s", primaryName, primary)
	case primary == "":
		return fmt.Sprintf("%s: %s", secondaryName, secondary)
	}
	return fmt.Sprintf("%s: %s\n%s: %s", primaryName, primary, secondaryName, secondary)
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
