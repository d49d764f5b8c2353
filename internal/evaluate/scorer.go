package evaluate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cocowutech/placement/internal/cefr"
	"github.com/cocowutech/placement/internal/llm"
	"github.com/cocowutech/placement/internal/track"
)

// Scorer rubric-scores a free-form response against its prompt.
type Scorer interface {
	Score(ctx context.Context, input ScoreInput) (*PromptScore, error)
}

// ScoreInput describes one response to score.
type ScoreInput struct {
	// Track is Writing or Speaking; it selects the rubric framing.
	Track track.Track

	// Prompt is the task the learner responded to.
	Prompt string

	// Response is the typed text (writing) or spoken transcript
	// (speaking) to score.
	Response string
}

// LLMScorer implements Scorer using the LLM provider.
type LLMScorer struct {
	provider  llm.Provider
	maxTokens int
}

// NewScorer creates an LLMScorer with the given provider.
func NewScorer(provider llm.Provider) *LLMScorer {
	return &LLMScorer{provider: provider, maxTokens: 1024}
}

const writingSystemPrompt = `You are an English writing examiner. Read the student's text and score it against the task.

Score three dimensions, each 0-100:
- content: task response, relevance, completeness, clear stance with reasons
- organization: coherence, cohesion, paragraphing, sequencing words and linkers
- language_control: vocabulary range and appropriacy, grammar variety (verb patterns, comparatives, conditionals), accuracy of grammar, spelling and punctuation

Compute overall as the simple average of the three dimensions. Estimate an overall CEFR band (A1-C2) from holistic evidence. Write a short constructive comment.
Return only the requested JSON.`

const speakingSystemPrompt = `You are an English speaking examiner. Read the transcript of the student's spoken response and score it against the task.

Score three dimensions, each 0-100:
- content: task achievement, relevance, development of ideas
- organization: discourse management, sequencing, use of linkers
- language_control: vocabulary range, grammatical variety and accuracy, as evidenced in the transcript

Compute overall as the simple average of the three dimensions. Estimate an overall CEFR band (A1-C2) from holistic evidence. Write a short constructive comment.
Return only the requested JSON.`

// rubricSchema constrains the scorer's output.
var rubricSchema = &llm.Schema{
	Name:        "rubric-score",
	Description: "Rubric scores for one free-form response",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"content":          map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"organization":     map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"language_control": map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"overall":          map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"band": map[string]any{
				"type": "string",
				"enum": []any{"A1", "A2", "B1", "B2", "C1", "C2"},
			},
			"feedback": map[string]any{"type": "string"},
		},
		"required":             []any{"content", "organization", "language_control", "overall", "band", "feedback"},
		"additionalProperties": false,
	},
}

type rubricOutput struct {
	Content         int    `json:"content"`
	Organization    int    `json:"organization"`
	LanguageControl int    `json:"language_control"`
	Overall         int    `json:"overall"`
	Band            string `json:"band"`
	Feedback        string `json:"feedback"`
}

// Score sends the response to the LLM for rubric scoring.
func (s *LLMScorer) Score(ctx context.Context, input ScoreInput) (*PromptScore, error) {
	system := writingSystemPrompt
	purpose := "writing-score"
	responseLabel := "Student writing"
	if input.Track == track.Speaking {
		system = speakingSystemPrompt
		purpose = "speaking-score"
		responseLabel = "Transcript"
	}
	ctx = llm.WithPurpose(ctx, purpose)

	var b strings.Builder
	fmt.Fprintf(&b, "Task:\n%s\n\n", input.Prompt)
	fmt.Fprintf(&b, "%s:\n%s\n", responseLabel, input.Response)

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: system,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: b.String()},
		},
		Schema:    rubricSchema,
		MaxTokens: s.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM scoring failed: %w", err)
	}

	var raw rubricOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse scorer response: %w", err)
	}

	band, err := cefr.Parse(raw.Band)
	if err != nil {
		return nil, fmt.Errorf("scorer band: %v: %w", err, ErrInvalidOutcome)
	}

	score := &PromptScore{
		Content:         raw.Content,
		Organization:    raw.Organization,
		LanguageControl: raw.LanguageControl,
		Overall:         raw.Overall,
		Band:            band,
		Feedback:        raw.Feedback,
	}
	if err := score.Validate(); err != nil {
		return nil, err
	}
	return score, nil
}
