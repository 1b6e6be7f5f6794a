package httputil

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	ctx := context.Background()
	transient := &RetryableError{Err: errors.New("503")}
	permanent := errors.New("404")

	tests := []struct {
		name      string
		failures  int
		failWith  error
		attempts  int
		wantCalls int
		wantErr   bool
	}{
		{"success first try", 0, nil, 3, 1, false},
		{"transient then success", 2, transient, 3, 3, false},
		{"transient exhausts attempts", 5, transient, 3, 3, true},
		{"permanent stops immediately", 5, permanent, 3, 1, true},
		{"zero attempts still runs once", 0, nil, 0, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(ctx, tt.attempts, time.Millisecond, func() error {
				calls++
				if calls <= tt.failures {
					return tt.failWith
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("Retry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestBackoffWaits(t *testing.T) {
	var waits []time.Duration
	b := Backoff{
		Attempts: 4,
		Delay:    time.Millisecond,
		MaxDelay: 3 * time.Millisecond,
		OnRetry:  func(_ int, _ error, wait time.Duration) { waits = append(waits, wait) },
	}

	calls := 0
	err := b.Do(context.Background(), func() error {
		calls++
		if calls == 2 {
			return &RetryableError{Err: errors.New("429"), After: time.Hour}
		}
		return &RetryableError{Err: errors.New("503")}
	})
	if err == nil {
		t.Fatal("Do() should return the last error")
	}

	// 1ms, then Retry-After capped to 3ms, then 4ms capped to 3ms.
	want := []time.Duration{time.Millisecond, 3 * time.Millisecond, 3 * time.Millisecond}
	if len(waits) != len(want) {
		t.Fatalf("waits = %v, want %v", waits, want)
	}
	for i := range want {
		if waits[i] != want[i] {
			t.Errorf("waits[%d] = %v, want %v", i, waits[i], want[i])
		}
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Hour, func() error {
		return &RetryableError{Err: errors.New("timeout")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() = %v, want context.Canceled", err)
	}
}

func TestRetryAfter(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", 0},
		{"5", 5 * time.Second},
		{"0", 0},
		{"-1", 0},
		{"Wed, 21 Oct 2015 07:28:00 GMT", 0},
	}
	for _, tt := range tests {
		h := http.Header{}
		if tt.value != "" {
			h.Set("Retry-After", tt.value)
		}
		if got := RetryAfter(h); got != tt.want {
			t.Errorf("RetryAfter(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestRetryableErrorUnwrap(t *testing.T) {
	base := errors.New("conn reset")
	err := &RetryableError{Err: base}
	if !errors.Is(err, base) {
		t.Error("RetryableError should unwrap to its cause")
	}
}
