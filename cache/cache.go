package cache

import (
	"context"
	"time"
)

// Entry is a single cached value together with the metadata needed
// for expiry decisions. Data is the serialized (JSON) payload.
type Entry struct {
	Data     []byte        `json:"data"`
	StoredAt time.Time     `json:"stored_at"`
	TTL      time.Duration `json:"ttl"`
}

// Expired reports whether the entry is past its TTL at the given time.
// An entry with a zero TTL never expires.
func (e *Entry) Expired(now time.Time) bool {
	if e.TTL <= 0 {
		return false
	}
	return now.Sub(e.StoredAt) > e.TTL
}

// Size returns the approximate serialized size of the entry in bytes.
func (e *Entry) Size() int {
	return len(e.Data)
}

// Outcome classifies the result of a tier probe.
type Outcome int

const (
	// Miss means the key was not present.
	Miss Outcome = iota
	// Hit means a fresh value was found.
	Hit
	// Expired means a value was found but was past its TTL.
	Expired
)

// Backend is a persistent key-value store for cache entries. Two
// implementations exist: a small synchronous file store and a larger
// transactional SQLite store. The Durable router selects between them
// by payload size on write and probes both on read.
type Backend interface {
	// Name identifies the backend in analytics events ("durable-small"
	// or "durable-large").
	Name() string

	// Get retrieves an entry. The boolean is false when the key is
	// absent. Expiry is not checked here; that is the router's job.
	Get(ctx context.Context, key string) (*Entry, bool, error)

	// Set stores an entry, overwriting any previous value.
	Set(ctx context.Context, key string, e *Entry) error

	// Remove deletes a key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Clear deletes every key with the given prefix.
	Clear(ctx context.Context, prefix string) error

	// Stats returns item count, total payload bytes and the
	// oldest/newest stored timestamps.
	Stats(ctx context.Context) (BackendStats, error)
}

// BackendStats describes the contents of a single backend.
type BackendStats struct {
	Items  int64
	Bytes  int64
	Oldest time.Time
	Newest time.Time
}

// merge combines stats from two backends into one view.
func (s BackendStats) merge(o BackendStats) BackendStats {
	out := BackendStats{
		Items: s.Items + o.Items,
		Bytes: s.Bytes + o.Bytes,
	}
	out.Oldest = s.Oldest
	if out.Oldest.IsZero() || (!o.Oldest.IsZero() && o.Oldest.Before(out.Oldest)) {
		out.Oldest = o.Oldest
	}
	out.Newest = s.Newest
	if !o.Newest.IsZero() && o.Newest.After(out.Newest) {
		out.Newest = o.Newest
	}
	return out
}
