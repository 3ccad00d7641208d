package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultSizeThreshold is the serialized-size boundary between the
// small and large backends: payloads below it go to the small store.
const DefaultSizeThreshold = 100 * 1024

// ErrorFunc receives backend failures that the durable tier has
// absorbed. source is the backend name, op the operation that failed.
// The tier never lets a backend error escape to its caller; a failed
// read becomes a miss and a failed write becomes a no-op.
type ErrorFunc func(source, op, key string, err error)

// Durable unifies the two persistent backends behind one interface.
// Writes are routed by payload size; reads probe the small backend
// first and then the large one, because the same key may historically
// have landed in either (a payload crossing the threshold after a
// schema change, for instance).
type Durable struct {
	small     Backend
	large     Backend
	threshold int
	onError   ErrorFunc
	now       func() time.Time
}

// NewDurable builds the durable tier from its two backends. threshold
// defaults to DefaultSizeThreshold when non-positive; onError may be
// nil.
func NewDurable(small, large Backend, threshold int, onError ErrorFunc) *Durable {
	if threshold <= 0 {
		threshold = DefaultSizeThreshold
	}
	if onError == nil {
		onError = func(string, string, string, error) {}
	}
	return &Durable{
		small:     small,
		large:     large,
		threshold: threshold,
		onError:   onError,
		now:       time.Now,
	}
}

// Get probes both backends for a fresh entry. It returns the payload,
// the name of the backend that served it, and the probe outcome.
// Expired entries are left in place: they remain reachable through
// GetStale until a successful fetch overwrites them.
func (d *Durable) Get(ctx context.Context, key string) ([]byte, string, Outcome) {
	return d.get(ctx, key, false)
}

// GetStale is the degraded-mode read: it accepts a logically expired
// entry. Used only after the network path has exhausted its retries.
func (d *Durable) GetStale(ctx context.Context, key string) ([]byte, string, Outcome) {
	return d.get(ctx, key, true)
}

func (d *Durable) get(ctx context.Context, key string, stale bool) ([]byte, string, Outcome) {
	outcome := Miss
	for _, b := range []Backend{d.small, d.large} {
		e, ok, err := b.Get(ctx, key)
		if err != nil {
			d.onError(b.Name(), "get", key, err)
			continue
		}
		if !ok {
			continue
		}
		if e.Expired(d.now()) && !stale {
			outcome = Expired
			continue
		}
		return e.Data, b.Name(), Hit
	}
	return nil, "", outcome
}

// Set stores the payload with the caller-supplied TTL, choosing the
// backend by serialized size. It returns the name of the backend that
// took the write. Backend failures are absorbed into a no-op.
func (d *Durable) Set(ctx context.Context, key string, data []byte, ttl time.Duration) string {
	b := d.route(len(data))
	e := &Entry{Data: data, StoredAt: d.now(), TTL: ttl}
	if err := b.Set(ctx, key, e); err != nil {
		d.onError(b.Name(), "set", key, err)
		return ""
	}
	return b.Name()
}

// route picks the backend for a payload of the given serialized size.
func (d *Durable) route(size int) Backend {
	if size < d.threshold {
		return d.small
	}
	return d.large
}

// Remove deletes the key from both backends.
func (d *Durable) Remove(ctx context.Context, key string) {
	for _, b := range []Backend{d.small, d.large} {
		if err := b.Remove(ctx, key); err != nil {
			d.onError(b.Name(), "remove", key, err)
		}
	}
}

// Clear removes every key with the given prefix from both backends,
// concurrently. An empty prefix clears the whole namespace.
func (d *Durable) Clear(ctx context.Context, prefix string) {
	if prefix == "" {
		prefix = Namespace
	}
	var wg sync.WaitGroup
	for _, b := range []Backend{d.small, d.large} {
		wg.Add(1)
		go func(b Backend) {
			defer wg.Done()
			if err := b.Clear(ctx, prefix); err != nil {
				d.onError(b.Name(), "clear", prefix, err)
			}
		}(b)
	}
	wg.Wait()
}

// Stats aggregates item counts and sizes across both backends and
// combines the oldest/newest timestamps via min/max.
func (d *Durable) Stats(ctx context.Context) BackendStats {
	var out BackendStats
	for _, b := range []Backend{d.small, d.large} {
		s, err := b.Stats(ctx)
		if err != nil {
			d.onError(b.Name(), "stats", "", err)
			continue
		}
		out = out.merge(s)
	}
	return out
}
