package quiz

import "time"

// Countdown is the per-question timer. It holds no goroutine: the driver
// feeds elapsed time through Tick.
type Countdown struct {
	limit     time.Duration
	remaining time.Duration
	running   bool
}

// NewCountdown creates a stopped countdown with the given limit.
func NewCountdown(limit time.Duration) *Countdown {
	return &Countdown{limit: limit, remaining: limit}
}

// Reset restarts the countdown from the full limit.
func (c *Countdown) Reset() {
	c.remaining = c.limit
	c.running = true
}

// Stop cancels the countdown.
func (c *Countdown) Stop() {
	c.running = false
}

// Running reports whether the countdown is live.
func (c *Countdown) Running() bool {
	return c.running
}

// Remaining returns the time left.
func (c *Countdown) Remaining() time.Duration {
	return c.remaining
}

// Limit returns the full duration.
func (c *Countdown) Limit() time.Duration {
	return c.limit
}

// Tick subtracts elapsed and reports whether the countdown has expired.
// An expired countdown keeps reporting true until it is stopped or reset.
func (c *Countdown) Tick(elapsed time.Duration) bool {
	if !c.running {
		return false
	}
	c.remaining -= elapsed
	if c.remaining <= 0 {
		c.remaining = 0
		return true
	}
	return false
}
