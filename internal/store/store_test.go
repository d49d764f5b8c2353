package store

import (
	"context"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAndQuerySessionEvents(t *testing.T) {
	s := testStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	err := repo.AppendSessionEvent(ctx, SessionEventData{
		SessionID:  "s1",
		Track:      "vocabulary",
		Action:     "start",
		StartLevel: "B1",
	})
	if err != nil {
		t.Fatalf("append start: %v", err)
	}

	err = repo.AppendSessionEvent(ctx, SessionEventData{
		SessionID:  "s1",
		Track:      "vocabulary",
		Action:     "finish",
		StartLevel: "B1",
		FinalLevel: "B2",
		Asked:      15,
		Correct:    11,
	})
	if err != nil {
		t.Fatalf("append finish: %v", err)
	}

	sessions, err := repo.RecentSessions(ctx, 10)
	if err != nil {
		t.Fatalf("recent sessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 finished session, got %d", len(sessions))
	}
	got := sessions[0]
	if got.SessionID != "s1" || got.FinalLevel != "B2" || got.Asked != 15 || got.Correct != 11 {
		t.Errorf("unexpected summary: %+v", got)
	}
}

func TestAppendAttemptEvents(t *testing.T) {
	s := testStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		err := repo.AppendAttemptEvent(ctx, AttemptEventData{
			SessionID: "s2",
			Track:     "reading",
			Position:  i,
			Level:     "B1",
			Correct:   i%2 == 1,
		})
		if err != nil {
			t.Fatalf("append attempt %d: %v", i, err)
		}
	}

	var count int
	err := s.DB().QueryRow(`SELECT COUNT(*) FROM attempt_events WHERE session_id = 's2'`).Scan(&count)
	if err != nil {
		t.Fatalf("count attempts: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 attempts, got %d", count)
	}
}

func TestLLMUsageAggregation(t *testing.T) {
	s := testStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Model: "gemini-2.0-flash-lite", Purpose: "passage-gen", InputTokens: 100, OutputTokens: 200, Success: true},
		{Model: "gemini-2.0-flash-lite", Purpose: "question-gen", InputTokens: 50, OutputTokens: 150, Success: true},
		{Model: "gpt-4o-mini", Purpose: "writing-score", InputTokens: 300, OutputTokens: 100, Success: true},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append llm event: %v", err)
		}
	}

	usage, err := repo.LLMUsage(ctx)
	if err != nil {
		t.Fatalf("llm usage: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("expected 2 models, got %d", len(usage))
	}
	// Sorted by model name: gemini first.
	if usage[0].Model != "gemini-2.0-flash-lite" || usage[0].Requests != 2 || usage[0].InputTokens != 150 || usage[0].OutputTokens != 350 {
		t.Errorf("unexpected gemini usage: %+v", usage[0])
	}
	if usage[1].Model != "gpt-4o-mini" || usage[1].Requests != 1 {
		t.Errorf("unexpected openai usage: %+v", usage[1])
	}
}
