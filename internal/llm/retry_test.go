package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

var vocabItemJSON = json.RawMessage(`{"question":"She ___ the bus to school.","correct_index":1}`)

func fastRetry(p Provider) Provider {
	return WithRetry(p, RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	})
}

func TestRetryPassesThroughSuccess(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: vocabItemJSON})

	resp, err := fastRetry(mock).Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(resp.Content) != string(vocabItemJSON) {
		t.Errorf("content = %s", resp.Content)
	}
	if mock.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", mock.CallCount())
	}
}

func TestRetryRecoversFromOutage(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}},
		MockResponse{Err: &ErrRateLimit{Err: errors.New("429")}},
		MockResponse{Content: vocabItemJSON},
	)

	resp, err := fastRetry(mock).Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(resp.Content) != string(vocabItemJSON) {
		t.Errorf("content = %s", resp.Content)
	}
	if mock.CallCount() != 3 {
		t.Errorf("calls = %d, want 3", mock.CallCount())
	}
}

func TestRetryGivesUpAfterMaxAttempts(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}},
		MockResponse{Content: vocabItemJSON}, // never reached
	)

	_, err := fastRetry(mock).Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("err = %v, want ErrProviderUnavailable", err)
	}
	if mock.CallCount() != 3 {
		t.Errorf("calls = %d, want 3", mock.CallCount())
	}
}

func TestRetryInvalidResponseGetsOneSecondChance(t *testing.T) {
	badJSON := json.RawMessage(`Here is your item: {`)
	mock := NewMockProvider(
		MockResponse{Err: &ErrInvalidResponse{Content: badJSON, Err: errors.New("truncated")}},
		MockResponse{Err: &ErrInvalidResponse{Content: badJSON, Err: errors.New("truncated")}},
		MockResponse{Content: vocabItemJSON},
	)

	_, err := fastRetry(mock).Generate(context.Background(), Request{})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("err = %v, want ErrInvalidResponse", err)
	}
	if mock.CallCount() != 2 {
		t.Errorf("calls = %d, want 2 (one retry only)", mock.CallCount())
	}
}

func TestRetryMaxTokensStopsImmediately(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrMaxTokensExceeded{Content: json.RawMessage(`{`)}},
		MockResponse{Content: vocabItemJSON},
	)

	_, err := fastRetry(mock).Generate(context.Background(), Request{})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("err = %v, want ErrMaxTokensExceeded", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", mock.CallCount())
	}
}

func TestRetryStopsOnCanceledContext(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}},
		MockResponse{Content: vocabItemJSON},
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fastRetry(mock).Generate(ctx, Request{})
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
	if mock.CallCount() > 1 {
		t.Errorf("calls = %d, want at most 1", mock.CallCount())
	}
}

func TestRetryHonorsRetryAfterHint(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}},
		MockResponse{Content: vocabItemJSON},
	)

	start := time.Now()
	_, err := fastRetry(mock).Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if elapsed := time.Since(start); elapsed < time.Millisecond {
		t.Errorf("returned after %v, want at least the RetryAfter hint", elapsed)
	}
	if mock.CallCount() != 2 {
		t.Errorf("calls = %d, want 2", mock.CallCount())
	}
}

func TestRetryModelIDDelegates(t *testing.T) {
	p := fastRetry(NewMockProvider())
	if p.ModelID() != "mock" {
		t.Errorf("ModelID = %q, want mock", p.ModelID())
	}
}
