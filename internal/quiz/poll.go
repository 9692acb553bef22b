package quiz

import (
	"context"
	"time"
)

// PollPolicy bounds how long a caller waits for a question set.
type PollPolicy struct {
	MaxRetries int
	Interval   time.Duration
}

// DefaultPollPolicy retries five times, five seconds apart.
func DefaultPollPolicy() PollPolicy {
	return PollPolicy{MaxRetries: 5, Interval: 5 * time.Second}
}

// FetchFunc reads the current question set. It must be safe to repeat.
type FetchFunc func(ctx context.Context) ([]Question, error)

// WaitForQuestions calls fetch until it returns a non-empty set, retrying up
// to policy.MaxRetries times. When retries run out it returns ErrNotReady.
// Fetch errors are returned immediately.
func WaitForQuestions(ctx context.Context, fetch FetchFunc, policy PollPolicy) ([]Question, error) {
	for attempt := 0; ; attempt++ {
		qs, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if len(qs) > 0 {
			return qs, nil
		}
		if attempt >= policy.MaxRetries {
			return nil, ErrNotReady
		}

		timer := time.NewTimer(policy.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
