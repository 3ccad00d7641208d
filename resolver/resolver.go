// Package resolver is the request orchestrator: it resolves a logical
// resource request through the fast tier, the durable tier and the
// network, applies retry with exponential backoff and per-attempt
// timeouts, writes successful results back through both tiers and
// falls back to stale durable data when the network path is exhausted.
package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/apexview/apexview-go/analytics"
	"github.com/apexview/apexview-go/cache"
	"github.com/apexview/apexview-go/config"
)

// Params wires the resolver's collaborators.
type Params struct {
	Fast      *cache.Memory
	Durable   *cache.Durable
	Analytics *analytics.Collector
	Settings  *config.Runtime
	Client    *http.Client
	Logger    *zap.Logger
	Backoff   *BackoffConfig
}

// Resolver coordinates the lookup chain. Two concurrent Resolve calls
// for the same key may both fetch; writes are idempotent, so this is
// an accepted inefficiency rather than a correctness problem.
type Resolver struct {
	fast      *cache.Memory
	durable   *cache.Durable
	collector *analytics.Collector
	settings  *config.Runtime
	client    *http.Client
	logger    *zap.Logger
	nop       *zap.Logger
	backoff   *BackoffConfig
}

// New creates a Resolver. Client, Logger and Backoff fall back to
// sane defaults when nil.
func New(p Params) *Resolver {
	if p.Client == nil {
		p.Client = &http.Client{}
	}
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	if p.Backoff == nil {
		p.Backoff = DefaultBackoffConfig()
	}
	return &Resolver{
		fast:      p.Fast,
		durable:   p.Durable,
		collector: p.Analytics,
		settings:  p.Settings,
		client:    p.Client,
		logger:    p.Logger,
		nop:       zap.NewNop(),
		backoff:   p.Backoff,
	}
}

// Resolve returns the JSON payload for url, consulting the cache
// tiers before the network. Settings are re-read on every call.
func (r *Resolver) Resolve(ctx context.Context, url string, opts Options) ([]byte, error) {
	key := cache.Key(opts.ResourceType, url)
	set := r.settings.Snapshot()
	log := r.log(set).With(
		zap.String("request_id", uuid.NewString()),
		zap.String("key", key),
		zap.String("url", url),
	)

	if opts.PrefetchOnly {
		go r.prefetch(url, key, opts, log)
		return nil, nil
	}

	if opts.UseCache && !opts.ForceFresh {
		if data, ok := r.probe(ctx, key, set, log); ok {
			return data, nil
		}
	}

	data, err := r.fetch(ctx, url, key, opts.MaxRetries, set, log)
	if err != nil {
		if set.UseDurableTier {
			if stale, source, outcome := r.durable.GetStale(ctx, key); outcome == cache.Hit {
				r.track(set, analytics.Event{
					Kind:   analytics.KindStale,
					Source: analytics.Source(source),
					Key:    key,
					Size:   len(stale),
				})
				log.Warn("network exhausted, serving stale cached data",
					zap.String("source", source))
				return stale, nil
			}
		}
		return nil, err
	}

	r.store(ctx, key, data, opts, set)
	return data, nil
}

// probe walks the fast and durable tiers. It returns the payload and
// true on a fresh hit, backfilling the fast tier from the durable one.
func (r *Resolver) probe(ctx context.Context, key string, set config.Settings, log *zap.Logger) ([]byte, bool) {
	if set.UseFastTier {
		data, outcome := r.fast.Get(key)
		switch outcome {
		case cache.Hit:
			r.track(set, analytics.Event{
				Kind: analytics.KindHit, Source: analytics.SourceFast, Key: key, Size: len(data),
			})
			log.Debug("fast tier hit")
			return data, true
		case cache.Expired:
			r.track(set, analytics.Event{
				Kind: analytics.KindExpired, Source: analytics.SourceFast, Key: key,
			})
		case cache.Miss:
			r.track(set, analytics.Event{
				Kind: analytics.KindMiss, Source: analytics.SourceFast, Key: key,
			})
		}
	}

	if set.UseDurableTier {
		data, source, outcome := r.durable.Get(ctx, key)
		switch outcome {
		case cache.Hit:
			r.track(set, analytics.Event{
				Kind: analytics.KindHit, Source: analytics.Source(source), Key: key, Size: len(data),
			})
			if set.UseFastTier {
				r.fast.Set(key, data)
			}
			log.Debug("durable tier hit", zap.String("source", source))
			return data, true
		case cache.Expired:
			r.track(set, analytics.Event{
				Kind: analytics.KindExpired, Source: analytics.Source(source), Key: key,
			})
		}
	}

	r.track(set, analytics.Event{
		Kind: analytics.KindMiss, Source: analytics.SourceNetwork, Key: key,
	})
	return nil, false
}

// fetch performs the network request with up to maxRetries+1 attempts
// and exponential backoff between them.
func (r *Resolver) fetch(ctx context.Context, url, key string, maxRetries int, set config.Settings, log *zap.Logger) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, &TerminalError{URL: url, Attempts: attempt, Err: ctx.Err()}
			case <-time.After(r.backoff.Delay(attempt - 1)):
			}
		}

		start := time.Now()
		data, err := r.attempt(ctx, url)
		elapsed := time.Since(start)

		if err == nil {
			r.track(set, analytics.Event{
				Kind:     analytics.KindSet,
				Source:   analytics.SourceNetwork,
				Key:      key,
				Size:     len(data),
				Duration: elapsed,
			})
			if set.SlowRequestThreshold > 0 && elapsed > set.SlowRequestThreshold.Std() {
				log.Warn("slow request", zap.Duration("elapsed", elapsed))
			}
			return data, nil
		}

		lastErr = err
		r.track(set, analytics.Event{
			Kind:     analytics.KindError,
			Source:   analytics.SourceNetwork,
			Key:      key,
			Duration: elapsed,
			Err:      err.Error(),
		})
		log.Warn("fetch attempt failed",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", maxRetries+1),
			zap.Error(err))
	}
	return nil, &TerminalError{URL: url, Attempts: maxRetries + 1, Err: lastErr}
}

// attempt performs one HTTP round trip bounded by its own timeout. A
// cancelled or timed-out attempt is a retryable failure.
func (r *Resolver) attempt(ctx context.Context, url string) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, r.backoff.AttemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}
	return data, nil
}

// store writes a fetched payload through the enabled tiers.
func (r *Resolver) store(ctx context.Context, key string, data []byte, opts Options, set config.Settings) {
	if !opts.UseCache {
		return
	}
	if set.UseFastTier {
		r.fast.Set(key, data)
		r.track(set, analytics.Event{
			Kind: analytics.KindSet, Source: analytics.SourceFast, Key: key, Size: len(data),
		})
	}
	if set.UseDurableTier {
		if source := r.durable.Set(ctx, key, data, opts.TTL); source != "" {
			r.track(set, analytics.Event{
				Kind: analytics.KindSet, Source: analytics.Source(source), Key: key, Size: len(data),
			})
		}
	}
}

// prefetch runs a detached best-effort fetch-and-store. Nothing is
// awaiting it, so failures are logged and swallowed.
func (r *Resolver) prefetch(url, key string, opts Options, log *zap.Logger) {
	budget := time.Duration(opts.MaxRetries+1) * r.backoff.AttemptTimeout
	for i := 0; i < opts.MaxRetries; i++ {
		budget += r.backoff.Delay(i)
	}
	ctx, cancel := context.WithTimeout(context.Background(), budget)
	defer cancel()

	set := r.settings.Snapshot()
	data, err := r.fetch(ctx, url, key, opts.MaxRetries, set, log)
	if err != nil {
		log.Debug("prefetch failed", zap.Error(err))
		return
	}
	r.store(ctx, key, data, opts, set)
	log.Debug("prefetch complete", zap.Int("bytes", len(data)))
}

// track appends an event when analytics is enabled in settings.
func (r *Resolver) track(set config.Settings, ev analytics.Event) {
	if !set.EnableAnalytics || r.collector == nil {
		return
	}
	r.collector.Track(ev)
}

// log returns the real logger or a nop one depending on settings.
func (r *Resolver) log(set config.Settings) *zap.Logger {
	if !set.EnableLogging {
		return r.nop
	}
	return r.logger
}
