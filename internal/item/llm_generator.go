package item

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/cocowutech/placement/internal/llm"
	"github.com/cocowutech/placement/internal/track"
)

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// mcqOutput is one raw multiple-choice item before validation.
type mcqOutput struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Rationale    string   `json:"rationale"`
}

type readingOutput struct {
	Passage   string      `json:"passage"`
	Questions []mcqOutput `json:"questions"`
}

type clipOutput struct {
	mcqOutput
	Title      string `json:"title"`
	Transcript string `json:"transcript"`
}

type listeningOutput struct {
	Clips []clipOutput `json:"clips"`
}

type vocabularyOutput struct {
	mcqOutput
	Passage string `json:"passage"`
}

type speakingOutput struct {
	Prompt        string `json:"prompt"`
	PrepSeconds   int    `json:"prep_seconds"`
	RecordSeconds int    `json:"record_seconds"`
	Guidance      string `json:"guidance"`
}

type writingOutput struct {
	Prompt string `json:"prompt"`
}

// Generate produces one content unit for the given input context.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) (*Unit, error) {
	ctx = llm.WithPurpose(ctx, purposeFor(input.Track))

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input, g.config)},
		},
		Schema:      schemaFor(input.Track),
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	unit, err := g.parse(input, resp.Content)
	if err != nil {
		return nil, err
	}

	// Run validators in order.
	for _, v := range g.config.Validators {
		if verr := v.Validate(unit, input); verr != nil {
			return nil, verr
		}
	}

	return unit, nil
}

func (g *LLMGenerator) parse(input GenerateInput, content json.RawMessage) (*Unit, error) {
	unit := &Unit{Track: input.Track, Level: input.Level}

	switch input.Track {
	case track.Reading:
		var raw readingOutput
		if err := json.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse LLM response: %w", err)
		}
		unit.Passage = raw.Passage
		for _, q := range raw.Questions {
			unit.Items = append(unit.Items, g.mcqItem(input, q))
		}

	case track.Listening:
		var raw listeningOutput
		if err := json.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse LLM response: %w", err)
		}
		for _, c := range raw.Clips {
			it := g.mcqItem(input, c.mcqOutput)
			it.Title = c.Title
			it.Transcript = c.Transcript
			unit.Items = append(unit.Items, it)
		}

	case track.Vocabulary:
		var raw vocabularyOutput
		if err := json.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse LLM response: %w", err)
		}
		it := g.mcqItem(input, raw.mcqOutput)
		it.Context = raw.Passage
		unit.Items = append(unit.Items, it)

	case track.Speaking:
		var raw speakingOutput
		if err := json.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse LLM response: %w", err)
		}
		unit.Items = append(unit.Items, Item{
			ID:            uuid.NewString(),
			Level:         input.Level,
			Text:          raw.Prompt,
			PrepSeconds:   raw.PrepSeconds,
			RecordSeconds: raw.RecordSeconds,
			Guidance:      raw.Guidance,
		})

	case track.Writing:
		var raw writingOutput
		if err := json.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse LLM response: %w", err)
		}
		unit.Items = append(unit.Items, Item{
			ID:    uuid.NewString(),
			Level: input.Level,
			Text:  raw.Prompt,
		})

	default:
		return nil, fmt.Errorf("unknown track %q", input.Track)
	}

	return unit, nil
}

func (g *LLMGenerator) mcqItem(input GenerateInput, raw mcqOutput) Item {
	return Item{
		ID:           uuid.NewString(),
		Level:        input.Level,
		Text:         raw.Question,
		Choices:      raw.Options,
		CorrectIndex: raw.CorrectIndex,
		Rationale:    raw.Rationale,
	}
}

func schemaFor(t track.Track) *llm.Schema {
	switch t {
	case track.Reading:
		return ReadingUnitSchema
	case track.Listening:
		return ListeningUnitSchema
	case track.Vocabulary:
		return VocabularyItemSchema
	case track.Speaking:
		return SpeakingTaskSchema
	case track.Writing:
		return WritingPromptSchema
	}
	return nil
}

func purposeFor(t track.Track) string {
	switch t {
	case track.Reading:
		return "passage-gen"
	case track.Listening:
		return "clip-gen"
	case track.Vocabulary:
		return "vocab-gen"
	case track.Speaking:
		return "speaking-gen"
	case track.Writing:
		return "prompt-gen"
	}
	return "item-gen"
}
