package score

import (
	"strings"
	"testing"

	"github.com/cocowutech/placement/internal/cefr"
	"github.com/cocowutech/placement/internal/evaluate"
)

func TestBand(t *testing.T) {
	tests := []struct {
		score int
		want  cefr.Level
	}{
		{100, cefr.C2},
		{96, cefr.C2},
		{95, cefr.C1},
		{88, cefr.C1},
		{87, cefr.B2},
		{75, cefr.B2},
		{74, cefr.B1},
		{65, cefr.B1},
		{60, cefr.B1},
		{59, cefr.A2},
		{50, cefr.A2},
		{49, cefr.A1},
		{0, cefr.A1},
	}
	for _, tt := range tests {
		if got := Band(tt.score); got != tt.want {
			t.Errorf("Band(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func ps(overall int) evaluate.PromptScore {
	return evaluate.PromptScore{
		Content:         overall,
		Organization:    overall,
		LanguageControl: overall,
		Overall:         overall,
		Band:            Band(overall),
	}
}

func TestMerge_CloseScoresBlendStrictlyBetween(t *testing.T) {
	merged := Merge(ps(70), ps(80), "text", "image")
	if merged.Overall <= 70 || merged.Overall >= 80 {
		t.Errorf("Overall = %d, want strictly between 70 and 80", merged.Overall)
	}
	// 0.55*70 + 0.45*80 = 74.5
	if merged.Overall != 75 {
		t.Errorf("Overall = %d, want 75", merged.Overall)
	}
}

func TestMerge_AdjacentScoresRoundToEndpoint(t *testing.T) {
	// Integer rounding: a 1-point gap cannot produce a value strictly
	// between the inputs. 0.55*70 + 0.45*71 = 70.45 -> 70.
	merged := Merge(ps(70), ps(71), "text", "image")
	if merged.Overall != 70 {
		t.Errorf("Overall = %d, want 70", merged.Overall)
	}
}

func TestMerge_DistantScoresTakeMax(t *testing.T) {
	merged := Merge(ps(50), ps(85), "text", "image")
	if merged.Overall != 85 {
		t.Errorf("Overall = %d, want exactly 85", merged.Overall)
	}
	merged = Merge(ps(85), ps(50), "text", "image")
	if merged.Overall != 85 {
		t.Errorf("Overall = %d, want exactly 85 regardless of order", merged.Overall)
	}
}

func TestMerge_DimensionsIndependent(t *testing.T) {
	primary := evaluate.PromptScore{Content: 90, Organization: 40, LanguageControl: 70, Overall: 70, Band: cefr.B1}
	secondary := evaluate.PromptScore{Content: 60, Organization: 44, LanguageControl: 75, Overall: 75, Band: cefr.B2}

	merged := Merge(primary, secondary, "text", "image")
	// Content gap 30 > 10: max wins.
	if merged.Content != 90 {
		t.Errorf("Content = %d, want 90", merged.Content)
	}
	// Organization gap 4 <= 10: blended. 0.55*40 + 0.45*44 = 41.8 -> 42.
	if merged.Organization != 42 {
		t.Errorf("Organization = %d, want 42", merged.Organization)
	}
}

func TestMerge_BandIsHigher(t *testing.T) {
	merged := Merge(ps(60), ps(76), "text", "image")
	if merged.Band != cefr.B2 {
		t.Errorf("Band = %s, want B2 (the higher of B1 and B2)", merged.Band)
	}
}

func TestMerge_FeedbackAttributed(t *testing.T) {
	a := ps(70)
	a.Feedback = "good flow"
	b := ps(72)
	b.Feedback = "handwriting legible"

	merged := Merge(a, b, "text", "image")
	if !strings.Contains(merged.Feedback, "text: good flow") {
		t.Errorf("missing attributed primary feedback: %q", merged.Feedback)
	}
	if !strings.Contains(merged.Feedback, "image: handwriting legible") {
		t.Errorf("missing attributed secondary feedback: %q", merged.Feedback)
	}
}

func TestAggregator_Fraction(t *testing.T) {
	var a Aggregator
	if a.Fraction() != 0 {
		t.Error("empty aggregator should report 0")
	}
	a.AddChoice(true)
	a.AddChoice(true)
	a.AddChoice(false)
	a.AddChoice(true)
	if a.Asked() != 4 || a.Correct() != 3 {
		t.Errorf("asked/correct = %d/%d, want 4/3", a.Asked(), a.Correct())
	}
	if a.Fraction() != 0.75 {
		t.Errorf("Fraction = %v, want 0.75", a.Fraction())
	}
}

func TestAggregator_WritingScenario(t *testing.T) {
	// Three prompts scored 70, 85, 40: final = round(195/3) = 65 -> B1.
	var a Aggregator
	a.AddPrompt(ps(70))
	a.AddPrompt(ps(85))
	a.AddPrompt(ps(40))

	if got := a.FinalScore(); got != 65 {
		t.Errorf("FinalScore = %d, want 65", got)
	}
	if got := a.FinalBand(); got != cefr.B1 {
		t.Errorf("FinalBand = %s, want B1", got)
	}
	// The level for the next prompt tracks the latest score, not the mean.
	if got := a.LatestBand(); got != cefr.A1 {
		t.Errorf("LatestBand = %s, want A1 (band of 40)", got)
	}
}

func TestAggregator_DimensionAverages(t *testing.T) {
	var a Aggregator
	a.AddPrompt(evaluate.PromptScore{Content: 80, Organization: 60, LanguageControl: 70, Overall: 70})
	a.AddPrompt(evaluate.PromptScore{Content: 70, Organization: 65, LanguageControl: 75, Overall: 70})

	c, o, l := a.DimensionAverages()
	if c != 75 || o != 63 || l != 73 {
		t.Errorf("averages = %d/%d/%d, want 75/63/73", c, o, l)
	}
}
