package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts: attempts,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestRetryProvider_Generate(t *testing.T) {
	ok := MockResponse{Content: json.RawMessage(`{"ok":true}`)}
	down := MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
	invalid := MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`bad`), Err: errors.New("bad")}}

	tests := []struct {
		name      string
		attempts  int
		responses []MockResponse
		wantCalls int
		wantErr   func(error) bool
	}{
		{
			name:      "first attempt",
			attempts:  3,
			responses: []MockResponse{ok},
			wantCalls: 1,
		},
		{
			name:      "unavailable then ok",
			attempts:  3,
			responses: []MockResponse{down, ok},
			wantCalls: 2,
		},
		{
			name:     "rate limit honours retry-after",
			attempts: 3,
			responses: []MockResponse{
				{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}},
				ok,
			},
			wantCalls: 2,
		},
		{
			name:      "gives up after max attempts",
			attempts:  3,
			responses: []MockResponse{down, down, down, ok},
			wantCalls: 3,
			wantErr: func(err error) bool {
				var e *ErrProviderUnavailable
				return errors.As(err, &e)
			},
		},
		{
			name:      "invalid response retried once",
			attempts:  5,
			responses: []MockResponse{invalid, invalid, ok},
			wantCalls: 2,
			wantErr: func(err error) bool {
				var e *ErrInvalidResponse
				return errors.As(err, &e)
			},
		},
		{
			name:      "invalid then ok",
			attempts:  3,
			responses: []MockResponse{invalid, ok},
			wantCalls: 2,
		},
		{
			name:      "truncation is final",
			attempts:  3,
			responses: []MockResponse{{Err: &ErrMaxTokensExceeded{Content: json.RawMessage(`{}`)}}, ok},
			wantCalls: 1,
			wantErr: func(err error) bool {
				var e *ErrMaxTokensExceeded
				return errors.As(err, &e)
			},
		},
		{
			name:      "deadline is final",
			attempts:  3,
			responses: []MockResponse{{Err: context.DeadlineExceeded}, ok},
			wantCalls: 1,
			wantErr:   func(err error) bool { return errors.Is(err, context.DeadlineExceeded) },
		},
		{
			name:      "zero attempts still calls once",
			attempts:  0,
			responses: []MockResponse{ok},
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			resp, err := WithRetry(mock, fastRetry(tt.attempts)).Generate(context.Background(), Request{})

			if tt.wantErr != nil {
				if err == nil || !tt.wantErr(err) {
					t.Fatalf("unexpected error: %v", err)
				}
			} else {
				if err != nil {
					t.Fatalf("Generate: %v", err)
				}
				if string(resp.Content) != `{"ok":true}` {
					t.Errorf("content = %s", resp.Content)
				}
			}
			if got := mock.CallCount(); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestRetryProvider_CancelledContext(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Content: json.RawMessage(`{"ok":true}`)},
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WithRetry(mock, fastRetry(3)).Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if got := mock.CallCount(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestRetryProvider_Wait(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{
		MaxAttempts: 5,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     300 * time.Millisecond,
		Multiplier:  2.0,
	}}
	down := &ErrProviderUnavailable{}

	within := func(d, base time.Duration) bool {
		return d >= base*8/10 && d <= base*12/10
	}
	if d := r.wait(0, down); !within(d, 100*time.Millisecond) {
		t.Errorf("attempt 0: wait = %v", d)
	}
	if d := r.wait(1, down); !within(d, 200*time.Millisecond) {
		t.Errorf("attempt 1: wait = %v", d)
	}
	if d := r.wait(4, down); !within(d, 300*time.Millisecond) {
		t.Errorf("attempt 4: wait = %v, want capped near 300ms", d)
	}
	if d := r.wait(0, &ErrRateLimit{RetryAfter: 2 * time.Second}); d != 2*time.Second {
		t.Errorf("retry-after: wait = %v", d)
	}
}

func TestRetryProvider_ModelID(t *testing.T) {
	if got := WithRetry(NewMockProvider(), fastRetry(1)).ModelID(); got != "mock" {
		t.Fatalf("ModelID = %q", got)
	}
}
