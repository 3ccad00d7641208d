// Package ratelimit provides a token-bucket pacer used to space out
// best-effort prefetch requests so warmup never hammers the data API.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Config holds pacer configuration.
type Config struct {
	// RequestsPerSecond is the sustained refill rate.
	RequestsPerSecond float64

	// Burst is the bucket capacity.
	Burst int

	// Enabled turns pacing off entirely when false.
	Enabled bool
}

// DefaultConfig paces to one request per second, which matches the
// one-second spacing the warmup path has always used.
func DefaultConfig() *Config {
	return &Config{
		RequestsPerSecond: 1,
		Burst:             1,
		Enabled:           true,
	}
}

// Pacer is a single token bucket.
type Pacer struct {
	mu         sync.Mutex
	config     *Config
	tokens     float64
	lastRefill time.Time
}

// New creates a Pacer. A nil config selects DefaultConfig; a
// non-positive rate falls back to the default one per second.
func New(config *Config) *Pacer {
	if config == nil {
		config = DefaultConfig()
	}
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = 1
	}
	if config.Burst < 1 {
		config.Burst = 1
	}
	return &Pacer{
		config:     config,
		tokens:     float64(config.Burst),
		lastRefill: time.Now(),
	}
}

// refill tops up the bucket. Caller holds the lock.
func (p *Pacer) refill(now time.Time) {
	elapsed := now.Sub(p.lastRefill).Seconds()
	p.tokens += elapsed * p.config.RequestsPerSecond
	if max := float64(p.config.Burst); p.tokens > max {
		p.tokens = max
	}
	p.lastRefill = now
}

// Allow reports whether a request may proceed right now, consuming a
// token when it may.
func (p *Pacer) Allow() bool {
	if !p.config.Enabled {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refill(time.Now())
	if p.tokens >= 1 {
		p.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available or the context is done.
func (p *Pacer) Wait(ctx context.Context) error {
	for {
		if p.Allow() {
			return nil
		}
		p.mu.Lock()
		deficit := 1 - p.tokens
		delay := time.Duration(deficit / p.config.RequestsPerSecond * float64(time.Second))
		p.mu.Unlock()
		if delay < 10*time.Millisecond {
			delay = 10 * time.Millisecond
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}
