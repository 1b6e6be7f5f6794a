package httputil

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"
)

// RetryableError marks a transient failure. After, when positive, is the
// wait the server asked for and replaces the backoff delay once.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Backoff is an exponential retry policy.
type Backoff struct {
	Attempts int           // total tries, at least 1
	Delay    time.Duration // wait before the second try, doubled after each
	MaxDelay time.Duration // cap on a single wait; zero means no cap

	// OnRetry, when set, is called before each wait with the 1-based number
	// of the attempt that failed.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// DefaultBackoff is 3 attempts starting at one second, capped at 10s.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second, MaxDelay: 10 * time.Second}

// Do runs fn until it succeeds, returns an error not wrapped in
// [RetryableError], or runs out of attempts. The last error is returned,
// or ctx.Err() if ctx ends while waiting.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Delay
	var lastErr error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		var re *RetryableError
		if !errors.As(err, &re) || i == attempts-1 {
			break
		}

		wait := delay
		if re.After > 0 {
			wait = re.After
		}
		if b.MaxDelay > 0 && wait > b.MaxDelay {
			wait = b.MaxDelay
		}
		if b.OnRetry != nil {
			b.OnRetry(i+1, err, wait)
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
	return lastErr
}

// Retry runs fn with attempts tries and an initial delay; see [Backoff.Do].
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	return Backoff{Attempts: attempts, Delay: delay}.Do(ctx, fn)
}

// RetryAfter parses a Retry-After header given in seconds. HTTP dates and
// malformed values yield zero.
func RetryAfter(h http.Header) time.Duration {
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
