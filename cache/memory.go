package cache

import (
	"sync"
	"time"
)

// DefaultFastTTL is the fixed lifetime of fast-tier entries.
const DefaultFastTTL = 5 * time.Minute

// Memory is the fast tier: an in-process map with a fixed TTL.
// Entries are evicted lazily when a read finds them expired; there is
// no background sweep. The tier is small and short-lived enough that
// a sweep would buy nothing.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*Entry
	now     func() time.Time
}

// NewMemory creates a fast tier with the given TTL. A non-positive
// TTL falls back to DefaultFastTTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultFastTTL
	}
	return &Memory{
		ttl:     ttl,
		entries: make(map[string]*Entry),
		now:     time.Now,
	}
}

// Get returns the cached payload for key and the probe outcome. An
// expired entry is deleted on the way out and reported as Expired.
func (m *Memory) Get(key string) ([]byte, Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, Miss
	}
	if e.Expired(m.now()) {
		delete(m.entries, key)
		return nil, Expired
	}
	return e.Data, Hit
}

// Set unconditionally overwrites the entry for key, stamping it with
// the current time.
func (m *Memory) Set(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = &Entry{Data: data, StoredAt: m.now(), TTL: m.ttl}
}

// Clear drops every entry.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*Entry)
}

// Len returns the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
