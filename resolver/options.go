package resolver

import "time"

// Options controls a single Resolve call.
type Options struct {
	// ResourceType namespaces the derived cache key ("races",
	// "drivers", ...) so prefix-scoped clearing can find it.
	ResourceType string

	// UseCache enables the tier probes before the network fetch.
	UseCache bool

	// TTL is the durable-tier lifetime for the fetched value.
	TTL time.Duration

	// MaxRetries is the number of retry attempts after the first
	// failed fetch.
	MaxRetries int

	// ForceFresh skips the tier probes but still writes the result
	// through the cache.
	ForceFresh bool

	// PrefetchOnly fetches and caches in the background without
	// returning data; failures are swallowed.
	PrefetchOnly bool
}

// DefaultOptions returns the standard options for a resource type:
// cached, one-hour TTL, two retries.
func DefaultOptions(resourceType string) Options {
	return Options{
		ResourceType: resourceType,
		UseCache:     true,
		TTL:          time.Hour,
		MaxRetries:   2,
	}
}
