// Package analytics collects cache events into a bounded ring buffer
// and derives runtime statistics and a health classification from
// them. It is strictly observational: disabling it changes nothing
// about cache behavior.
package analytics

import (
	"sync"
	"time"
)

// Kind classifies a cache event.
type Kind string

const (
	KindHit     Kind = "hit"
	KindMiss    Kind = "miss"
	KindSet     Kind = "set"
	KindExpired Kind = "expired"
	KindError   Kind = "error"
	// KindStale marks a degraded-mode serve of an expired entry after
	// the network path failed.
	KindStale Kind = "stale"

	// KindAny subscribes a listener to every event.
	KindAny Kind = "*"
)

// Source identifies which tier an event came from.
type Source string

const (
	SourceFast         Source = "fast"
	SourceDurableSmall Source = "durable-small"
	SourceDurableLarge Source = "durable-large"
	SourceNetwork      Source = "network"
)

// Event is one recorded cache occurrence. Immutable once tracked.
type Event struct {
	Time     time.Time
	Kind     Kind
	Source   Source
	Key      string
	Size     int
	Duration time.Duration
	Err      string
}

// Listener receives events from Subscribe.
type Listener func(Event)

// DefaultCapacity is the ring buffer size when none is configured.
const DefaultCapacity = 100

// Collector is the bounded event log. Insertion is O(1); once the
// buffer is full the oldest event is overwritten.
type Collector struct {
	mu        sync.Mutex
	buf       []Event
	next      int
	full      bool
	enabled   bool
	listeners map[Kind][]Listener
	metrics   *Metrics
	now       func() time.Time
}

// NewCollector creates a collector with the given capacity
// (DefaultCapacity when non-positive). metrics may be nil.
func NewCollector(capacity int, metrics *Metrics) *Collector {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Collector{
		buf:       make([]Event, capacity),
		enabled:   true,
		listeners: make(map[Kind][]Listener),
		metrics:   metrics,
		now:       time.Now,
	}
}

// SetEnabled toggles collection. When disabled, Track is a no-op.
func (c *Collector) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
}

// Track records an event, stamping it with the current time if the
// caller left Time zero, and notifies matching subscribers.
func (c *Collector) Track(ev Event) {
	c.mu.Lock()
	if !c.enabled {
		c.mu.Unlock()
		return
	}
	if ev.Time.IsZero() {
		ev.Time = c.now()
	}
	c.buf[c.next] = ev
	c.next++
	if c.next == len(c.buf) {
		c.next = 0
		c.full = true
	}
	notify := append([]Listener(nil), c.listeners[ev.Kind]...)
	notify = append(notify, c.listeners[KindAny]...)
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.observe(ev)
	}
	for _, fn := range notify {
		fn(ev)
	}
}

// Events returns the recorded events, most recent first.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.next
	if c.full {
		n = len(c.buf)
	}
	out := make([]Event, 0, n)
	for i := 0; i < n; i++ {
		idx := c.next - 1 - i
		if idx < 0 {
			idx += len(c.buf)
		}
		out = append(out, c.buf[idx])
	}
	return out
}

// Clear empties the event log. Subscriptions survive.
func (c *Collector) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buf = make([]Event, len(c.buf))
	c.next = 0
	c.full = false
}

// Subscribe registers a listener for events of the given kind, or for
// every event when kind is KindAny. Listeners run synchronously on
// the tracking goroutine and should be quick.
func (c *Collector) Subscribe(kind Kind, fn Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners[kind] = append(c.listeners[kind], fn)
}
