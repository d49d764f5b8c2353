package item

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/cocowutech/placement/internal/cefr"
	"github.com/cocowutech/placement/internal/llm"
	"github.com/cocowutech/placement/internal/track"
)

func readingJSON() json.RawMessage {
	questions := make([]map[string]any, 5)
	for i := range questions {
		questions[i] = map[string]any{
			"question":      "What does the author suggest?",
			"options":       []string{"a", "b", "c", "d"},
			"correct_index": i % 4,
			"rationale":     "Stated in the second sentence.",
		}
	}
	raw, _ := json.Marshal(map[string]any{
		"passage":   "Maria takes the same bus to work every morning. One day the bus did not come.",
		"questions": questions,
	})
	return raw
}

func TestGenerate_ReadingUnit(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: readingJSON()})
	gen := New(mock, DefaultConfig())

	unit, err := gen.Generate(context.Background(), GenerateInput{
		Track: track.Reading,
		Level: cefr.B1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unit.Passage == "" {
		t.Error("expected non-empty passage")
	}
	if len(unit.Items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(unit.Items))
	}
	for i, it := range unit.Items {
		if it.ID == "" {
			t.Errorf("item %d: empty ID", i)
		}
		if it.Level != cefr.B1 {
			t.Errorf("item %d: level = %s, want B1", i, it.Level)
		}
		if len(it.Choices) != 4 {
			t.Errorf("item %d: %d choices", i, len(it.Choices))
		}
	}
}

func TestGenerate_ListeningPair(t *testing.T) {
	clips := make([]map[string]any, 2)
	for i := range clips {
		clips[i] = map[string]any{
			"title":         "At the station",
			"transcript":    "The next train to Cambridge leaves from platform four in ten minutes.",
			"question":      "Where does the train leave from?",
			"options":       []string{"Platform two", "Platform four", "Platform six", "Platform one"},
			"correct_index": 1,
			"rationale":     "The announcement says platform four.",
		}
	}
	raw, _ := json.Marshal(map[string]any{"clips": clips})

	mock := llm.NewMockProvider(llm.MockResponse{Content: raw})
	gen := New(mock, DefaultConfig())

	unit, err := gen.Generate(context.Background(), GenerateInput{
		Track: track.Listening,
		Level: cefr.A2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(unit.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(unit.Items))
	}
	for i, it := range unit.Items {
		if it.Transcript == "" {
			t.Errorf("item %d: empty transcript", i)
		}
		if it.Title == "" {
			t.Errorf("item %d: empty title", i)
		}
	}
}

func TestGenerate_VocabularyItem(t *testing.T) {
	raw, _ := json.Marshal(map[string]any{
		"passage":       "The museum was so crowded that we could ___ move.",
		"question":      "Choose the word that best completes the sentence.",
		"options":       []string{"hardly", "nearly", "mostly", "shortly"},
		"correct_index": 0,
		"rationale":     "Hardly expresses near-impossibility.",
	})

	mock := llm.NewMockProvider(llm.MockResponse{Content: raw})
	gen := New(mock, DefaultConfig())

	unit, err := gen.Generate(context.Background(), GenerateInput{
		Track: track.Vocabulary,
		Level: cefr.B1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(unit.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(unit.Items))
	}
	if unit.Items[0].Context == "" {
		t.Error("expected vocabulary context to be set")
	}
}

func TestGenerate_SpeakingTask(t *testing.T) {
	raw, _ := json.Marshal(map[string]any{
		"prompt":         "Describe a journey you remember well. Say where you went and why it was memorable.",
		"prep_seconds":   30,
		"record_seconds": 60,
		"guidance":       "Use past tenses and give at least two details.",
	})

	mock := llm.NewMockProvider(llm.MockResponse{Content: raw})
	gen := New(mock, DefaultConfig())

	unit, err := gen.Generate(context.Background(), GenerateInput{
		Track: track.Speaking,
		Level: cefr.A2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	it := unit.Items[0]
	if it.PrepSeconds != 30 || it.RecordSeconds != 60 {
		t.Errorf("timing = %d/%d, want 30/60", it.PrepSeconds, it.RecordSeconds)
	}
	if it.Guidance == "" {
		t.Error("expected guidance to be set")
	}
}

func TestGenerate_WritingPrompt(t *testing.T) {
	raw, _ := json.Marshal(map[string]any{
		"prompt": "Write approximately 200 words about a hobby you enjoy and how you started it.",
	})

	mock := llm.NewMockProvider(llm.MockResponse{Content: raw})
	gen := New(mock, DefaultConfig())

	unit, err := gen.Generate(context.Background(), GenerateInput{
		Track: track.Writing,
		Level: cefr.B1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(unit.Items) != 1 || unit.Items[0].Text == "" {
		t.Fatalf("expected one non-empty prompt, got %+v", unit.Items)
	}
}

func TestGenerate_StructuralFailure(t *testing.T) {
	// Only 3 options: passes parsing but fails the structural validator.
	raw, _ := json.Marshal(map[string]any{
		"passage":       "Short context.",
		"question":      "Pick one.",
		"options":       []string{"a", "b", "c"},
		"correct_index": 0,
		"rationale":     "r",
	})

	mock := llm.NewMockProvider(llm.MockResponse{Content: raw})
	gen := New(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), GenerateInput{
		Track: track.Vocabulary,
		Level: cefr.B1,
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if !verr.Retryable {
		t.Error("structural failures should be retryable")
	}
}

func TestGenerate_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider() // empty queue errors
	gen := New(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), GenerateInput{
		Track: track.Writing,
		Level: cefr.B1,
	})
	if err == nil {
		t.Fatal("expected error from provider")
	}
}
