package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMockProviderServesQueueInOrder(t *testing.T) {
	passage := json.RawMessage(`{"passage":"Maria takes the early train to work."}`)
	rubric := json.RawMessage(`{"content":62,"organization":58,"language_control":60,"overall":60,"band":"B1","feedback":"Clear but short."}`)
	mock := NewMockProvider(
		MockResponse{Content: passage, Usage: Usage{InputTokens: 120, OutputTokens: 340, TotalTokens: 460}},
		MockResponse{Content: rubric},
	)

	first, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "CEFR level: A2"}}})
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}
	if string(first.Content) != string(passage) {
		t.Errorf("first content = %s", first.Content)
	}
	if first.Usage.TotalTokens != 460 {
		t.Errorf("total tokens = %d, want 460", first.Usage.TotalTokens)
	}
	if first.StopReason != "end" {
		t.Errorf("stop reason = %q, want end", first.StopReason)
	}

	second, err := mock.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if string(second.Content) != string(rubric) {
		t.Errorf("second content = %s", second.Content)
	}
}

func TestMockProviderExhaustedQueue(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("err = %v, want ErrProviderUnavailable", err)
	}
}

func TestMockProviderRecordsRequests(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})

	req := Request{
		System:   "You are an ESL assessment item writer.",
		Messages: []Message{{Role: RoleUser, Content: "Write one B1 gap-fill item."}},
	}
	if _, err := mock.Generate(context.Background(), req); err != nil {
		t.Fatalf("generate: %v", err)
	}

	if mock.CallCount() != 1 {
		t.Fatalf("calls = %d, want 1", mock.CallCount())
	}
	got := mock.Calls[0]
	if got.System != req.System {
		t.Errorf("recorded system = %q", got.System)
	}
	if len(got.Messages) != 1 || got.Messages[0].Content != req.Messages[0].Content {
		t.Errorf("recorded messages = %+v", got.Messages)
	}
}

func TestPurposeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{"set", WithPurpose(context.Background(), "clip-gen"), "clip-gen"},
		{"unset", context.Background(), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PurposeFrom(tt.ctx); got != tt.want {
				t.Errorf("PurposeFrom = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gemini-2.0-flash-lite")
	if c == nil {
		t.Fatal("expected pricing for gemini-2.0-flash-lite")
	}
	// At exactly 1M tokens each way the cost is the sum of the two rates.
	if got, want := c.Cost(1_000_000, 1_000_000), c.InputPerMTok+c.OutputPerMTok; got != want {
		t.Errorf("Cost = %v, want %v", got, want)
	}
	if LookupCost("placement-does-not-price-this") != nil {
		t.Error("expected nil for unknown model")
	}
}
