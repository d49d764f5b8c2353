package score

import (
	"math"

	"github.com/cocowutech/placement/internal/cefr"
	"github.com/cocowutech/placement/internal/evaluate"
)

// Aggregator accumulates per-item outcomes into running and final
// session scores. Multiple-choice tracks feed AddChoice and read
// Fraction; Writing feeds AddPrompt and reads the per-dimension
// averages, final score, and bands.
type Aggregator struct {
	asked   int
	correct int
	prompts []evaluate.PromptScore
}

// AddChoice records one multiple-choice outcome.
func (a *Aggregator) AddChoice(correct bool) {
	a.asked++
	if correct {
		a.correct++
	}
}

// AddPrompt records one rubric-scored prompt outcome. For prompts
// evaluated from two signals, merge them with Merge before recording.
func (a *Aggregator) AddPrompt(s evaluate.PromptScore) {
	a.asked++
	a.prompts = append(a.prompts, s)
}

// Asked returns the number of recorded outcomes.
func (a *Aggregator) Asked() int { return a.asked }

// Correct returns the number of correct multiple-choice outcomes.
func (a *Aggregator) Correct() int { return a.correct }

// Fraction returns correct/asked, or 0 before any outcome.
func (a *Aggregator) Fraction() float64 {
	if a.asked == 0 {
		return 0
	}
	return float64(a.correct) / float64(a.asked)
}

// DimensionAverages returns the mean of each rubric sub-dimension
// across all prompts so far, rounded. Zero values before any prompt.
func (a *Aggregator) DimensionAverages() (content, organization, languageControl int) {
	if len(a.prompts) == 0 {
		return 0, 0, 0
	}
	var c, o, l int
	for _, p := range a.prompts {
		c += p.Content
		o += p.Organization
		l += p.LanguageControl
	}
	n := float64(len(a.prompts))
	return roundDiv(c, n), roundDiv(o, n), roundDiv(l, n)
}

// FinalScore returns the mean of all per-prompt overall scores,
// rounded and clamped to [0,100].
func (a *Aggregator) FinalScore() int {
	if len(a.prompts) == 0 {
		return 0
	}
	var sum int
	for _, p := range a.prompts {
		sum += p.Overall
	}
	return clampScore(roundDiv(sum, float64(len(a.prompts))))
}

// FinalBand maps FinalScore to its CEFR band.
func (a *Aggregator) FinalBand() cefr.Level {
	return Band(a.FinalScore())
}

// LatestBand returns the band of the most recent prompt score. This is
// the level used to pick the next prompt, deliberately distinct from
// FinalBand which reports the session outcome.
func (a *Aggregator) LatestBand() cefr.Level {
	if len(a.prompts) == 0 {
		return cefr.A1
	}
	return Band(a.prompts[len(a.prompts)-1].Overall)
}

// Prompts returns all recorded prompt scores, oldest first.
func (a *Aggregator) Prompts() []evaluate.PromptScore {
	return a.prompts
}

func roundDiv(sum int, n float64) int {
	return int(math.Round(float64(sum) / n))
}
