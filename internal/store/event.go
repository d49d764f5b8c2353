package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SessionEventData captures a session lifecycle event (start or finish).
type SessionEventData struct {
	SessionID  string
	Track      string
	Action     string // "start" or "finish"
	StartLevel string
	FinalLevel string
	Asked      int
	Correct    int
	FinalScore int
}

// AttemptEventData captures one submitted item outcome.
type AttemptEventData struct {
	SessionID string
	Track     string
	Position  int // 1-based position within the session
	Level     string
	Correct   bool
	Score     int // 0-100 for scored tracks, 0 otherwise
	Rationale string
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMUsageRow aggregates LLM requests per model.
type LLMUsageRow struct {
	Model        string
	Requests     int
	InputTokens  int
	OutputTokens int
}

// SessionSummary is a finished session as recorded in session_events.
type SessionSummary struct {
	Timestamp  time.Time
	SessionID  string
	Track      string
	StartLevel string
	FinalLevel string
	Asked      int
	Correct    int
	FinalScore int
}

// EventRepo provides append access to domain events and read access to
// aggregate views.
type EventRepo interface {
	// AppendSessionEvent records a session start or finish.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendAttemptEvent records a single submitted outcome.
	AppendAttemptEvent(ctx context.Context, data AttemptEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// LLMUsage returns per-model request and token totals.
	LLMUsage(ctx context.Context) ([]LLMUsageRow, error)

	// RecentSessions returns the most recent finished sessions, newest first.
	RecentSessions(ctx context.Context, limit int) ([]SessionSummary, error)
}

type eventRepo struct {
	db *sql.DB
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO session_events (session_id, track, action, start_level, final_level, asked, correct, final_score)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		data.SessionID, data.Track, data.Action, data.StartLevel, data.FinalLevel, data.Asked, data.Correct, data.FinalScore,
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendAttemptEvent(ctx context.Context, data AttemptEventData) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO attempt_events (session_id, track, position, level, correct, score, rationale)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		data.SessionID, data.Track, data.Position, data.Level, data.Correct, data.Score, data.Rationale,
	)
	if err != nil {
		return fmt.Errorf("save attempt event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO llm_events (model, purpose, input_tokens, output_tokens, latency_ms, success, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		data.Model, data.Purpose, data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("save llm event: %w", err)
	}
	return nil
}

func (r *eventRepo) LLMUsage(ctx context.Context) ([]LLMUsageRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT model, COUNT(*), COALESCE(SUM(input_tokens), 0), COALESCE(SUM(output_tokens), 0)
		 FROM llm_events GROUP BY model ORDER BY model`,
	)
	if err != nil {
		return nil, fmt.Errorf("query llm usage: %w", err)
	}
	defer rows.Close()

	var out []LLMUsageRow
	for rows.Next() {
		var u LLMUsageRow
		if err := rows.Scan(&u.Model, &u.Requests, &u.InputTokens, &u.OutputTokens); err != nil {
			return nil, fmt.Errorf("scan llm usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *eventRepo) RecentSessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT timestamp, session_id, track, start_level, final_level, asked, correct, final_score
		 FROM session_events WHERE action = 'finish' ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var s SessionSummary
		if err := rows.Scan(&s.Timestamp, &s.SessionID, &s.Track, &s.StartLevel, &s.FinalLevel, &s.Asked, &s.Correct, &s.FinalScore); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
