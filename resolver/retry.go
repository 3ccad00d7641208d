package resolver

import "time"

// BackoffConfig holds the retry timing knobs.
type BackoffConfig struct {
	// BaseDelay is the wait before the first retry; each further
	// retry doubles it.
	BaseDelay time.Duration

	// AttemptTimeout bounds each individual network attempt.
	AttemptTimeout time.Duration
}

// DefaultBackoffConfig returns the stock timing: 1s base delay with
// exponential growth, 15s per attempt.
func DefaultBackoffConfig() *BackoffConfig {
	return &BackoffConfig{
		BaseDelay:      time.Second,
		AttemptTimeout: 15 * time.Second,
	}
}

// Delay returns the backoff before retry attempt i (zero-based), i.e.
// BaseDelay * 2^i.
func (b *BackoffConfig) Delay(i int) time.Duration {
	return b.BaseDelay << uint(i)
}
