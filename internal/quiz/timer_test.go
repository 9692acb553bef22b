package quiz

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCountdown(t *testing.T) {
	c := NewCountdown(3 * time.Second)
	if c.Tick(time.Second) {
		t.Fatal("stopped countdown must not expire")
	}

	c.Reset()
	if c.Tick(time.Second) || c.Tick(time.Second) {
		t.Fatal("expired early")
	}
	if got := c.Remaining(); got != time.Second {
		t.Fatalf("remaining = %s, want 1s", got)
	}
	if !c.Tick(2 * time.Second) {
		t.Fatal("expected expiry")
	}
	if c.Remaining() != 0 {
		t.Fatalf("remaining should clamp to 0, got %s", c.Remaining())
	}
	if !c.Tick(time.Second) {
		t.Fatal("expired countdown should keep reporting expiry")
	}

	c.Stop()
	if c.Tick(time.Second) {
		t.Fatal("stopped countdown must not report expiry")
	}
	c.Reset()
	if c.Remaining() != 3*time.Second || !c.Running() {
		t.Fatal("reset should restore the full limit")
	}
}

func TestWaitForQuestions(t *testing.T) {
	policy := PollPolicy{MaxRetries: 3, Interval: time.Millisecond}
	ready := []Question{{ID: "q1"}}

	t.Run("ready immediately", func(t *testing.T) {
		calls := 0
		qs, err := WaitForQuestions(context.Background(), func(context.Context) ([]Question, error) {
			calls++
			return ready, nil
		}, policy)
		if err != nil || len(qs) != 1 || calls != 1 {
			t.Fatalf("got %v, %v after %d calls", qs, err, calls)
		}
	})

	t.Run("ready after retries", func(t *testing.T) {
		calls := 0
		qs, err := WaitForQuestions(context.Background(), func(context.Context) ([]Question, error) {
			calls++
			if calls < 3 {
				return nil, nil
			}
			return ready, nil
		}, policy)
		if err != nil || len(qs) != 1 || calls != 3 {
			t.Fatalf("got %v, %v after %d calls", qs, err, calls)
		}
	})

	t.Run("retries exhausted", func(t *testing.T) {
		calls := 0
		_, err := WaitForQuestions(context.Background(), func(context.Context) ([]Question, error) {
			calls++
			return nil, nil
		}, policy)
		if !errors.Is(err, ErrNotReady) {
			t.Fatalf("expected ErrNotReady, got %v", err)
		}
		if calls != policy.MaxRetries+1 {
			t.Fatalf("expected %d calls, got %d", policy.MaxRetries+1, calls)
		}
	})

	t.Run("fetch error", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := WaitForQuestions(context.Background(), func(context.Context) ([]Question, error) {
			return nil, boom
		}, policy)
		if !errors.Is(err, boom) {
			t.Fatalf("expected fetch error, got %v", err)
		}
	})

	t.Run("context canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := WaitForQuestions(ctx, func(context.Context) ([]Question, error) {
			return nil, nil
		}, PollPolicy{MaxRetries: 3, Interval: time.Hour})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}
