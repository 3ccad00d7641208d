// Package apexview is a client-side data-access layer for the
// ApexView F1 API. It fronts the remote read-mostly API with a
// two-tier cache (in-process fast tier, dual-backend durable tier),
// retry with exponential backoff, stale-data fallback under network
// failure, and runtime analytics.
package apexview

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/apexview/apexview-go/analytics"
	"github.com/apexview/apexview-go/api"
	"github.com/apexview/apexview-go/cache"
	"github.com/apexview/apexview-go/cache/file"
	"github.com/apexview/apexview-go/cache/sqlite"
	"github.com/apexview/apexview-go/config"
	"github.com/apexview/apexview-go/ratelimit"
	"github.com/apexview/apexview-go/resolver"
)

// Client is the operational facade over the cache tiers, the
// orchestrator and the analytics collector.
type Client struct {
	cfg       *config.Config
	settings  *config.Runtime
	fast      *cache.Memory
	durable   *cache.Durable
	collector *analytics.Collector
	api       *api.API
	logger    *zap.Logger
	pacer     *ratelimit.Pacer
	closers   []io.Closer
}

// New builds a Client. With no options it uses the default config,
// a file store under cfg.CacheDir and a SQLite store at cfg.DBPath.
func New(opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, fn := range opts {
		fn(o)
	}
	cfg := o.cfg
	settings := config.NewRuntime(cfg.Settings)

	var metrics *analytics.Metrics
	if o.metricsReg != nil {
		metrics = analytics.NewMetrics(o.metricsReg)
	}
	collector := analytics.NewCollector(cfg.Analytics.Capacity, metrics)
	collector.SetEnabled(cfg.Settings.EnableAnalytics)

	c := &Client{
		cfg:       cfg,
		settings:  settings,
		collector: collector,
		logger:    o.logger,
		pacer: ratelimit.New(&ratelimit.Config{
			RequestsPerSecond: cfg.Prefetch.RequestsPerSecond,
			Burst:             1,
			Enabled:           true,
		}),
	}

	small := o.small
	if small == nil {
		s, err := file.New(cfg.CacheDir, 0)
		if err != nil {
			return nil, fmt.Errorf("apexview: small store: %w", err)
		}
		small = s
	}
	large := o.large
	if large == nil {
		s, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("apexview: large store: %w", err)
		}
		large = s
		c.closers = append(c.closers, s)
	}

	// Backend failures never propagate; they become analytics error
	// events and a log line.
	onError := func(source, op, key string, err error) {
		c.collector.Track(analytics.Event{
			Kind:   analytics.KindError,
			Source: analytics.Source(source),
			Key:    key,
			Err:    err.Error(),
		})
		c.logger.Warn("durable store error",
			zap.String("source", source),
			zap.String("op", op),
			zap.String("key", key),
			zap.Error(err))
	}

	c.fast = cache.NewMemory(cfg.FastTTL.Std())
	c.durable = cache.NewDurable(small, large, cfg.SizeThreshold, onError)

	res := resolver.New(resolver.Params{
		Fast:      c.fast,
		Durable:   c.durable,
		Analytics: c.collector,
		Settings:  settings,
		Client:    o.httpClient,
		Logger:    o.logger,
		Backoff:   o.backoff,
	})
	c.api = api.New(res, cfg)
	return c, nil
}

// API returns the typed resource fetchers.
func (c *Client) API() *api.API { return c.api }

// Analytics returns the event collector for direct inspection.
func (c *Client) Analytics() *analytics.Collector { return c.collector }

// Settings returns a snapshot of the current runtime settings.
func (c *Client) Settings() config.Settings { return c.settings.Snapshot() }

// UpdateSettings merges a partial update into the runtime settings.
// It takes effect for subsequent calls; in-flight requests are not
// touched.
func (c *Client) UpdateSettings(p config.SettingsPatch) config.Settings {
	s := c.settings.Apply(p)
	c.collector.SetEnabled(s.EnableAnalytics)
	return s
}

// Subscribe registers a listener for cache events of the given kind
// (analytics.KindAny for all).
func (c *Client) Subscribe(kind analytics.Kind, fn analytics.Listener) {
	c.collector.Subscribe(kind, fn)
}

// StatsSnapshot is the combined operational view.
type StatsSnapshot struct {
	FastItems int
	Durable   cache.BackendStats
	Analytics analytics.Stats
	Health    analytics.HealthReport
}

// Stats aggregates fast-tier item count, durable-tier stats and the
// analytics health view into one snapshot.
func (c *Client) Stats(ctx context.Context) StatsSnapshot {
	return StatsSnapshot{
		FastItems: c.fast.Len(),
		Durable:   c.durable.Stats(ctx),
		Analytics: c.collector.Stats(0),
		Health:    c.collector.HealthReport(),
	}
}

// ClearAll empties the fast tier, this layer's durable namespace and
// the analytics event log. All three are attempted even if one fails;
// durable failures surface as analytics error events.
func (c *Client) ClearAll(ctx context.Context) {
	c.fast.Clear()
	c.durable.Clear(ctx, "")
	c.collector.Clear()
	c.logger.Info("cache cleared")
}

// ClearByType removes the durable entries for one resource type. The
// fast tier is not prefix-addressable and is left untouched; use
// ClearAll for a full reset.
func (c *Client) ClearByType(ctx context.Context, resourceType string) {
	c.durable.Clear(ctx, cache.TypePrefix(resourceType))
	c.logger.Info("cache cleared by type", zap.String("type", resourceType))
}

// Refresh well-known logical keys.
const (
	RefreshRaces                = "races"
	RefreshDriverStandings      = "driver-standings"
	RefreshConstructorStandings = "constructor-standings"
	RefreshNews                 = "news"
)

// Refresh forces a re-fetch of a well-known logical resource for the
// current season. Unknown names fail with ErrUnknownRefreshKey.
func (c *Client) Refresh(ctx context.Context, name string) error {
	year := time.Now().Year()
	var err error
	switch name {
	case RefreshRaces:
		_, err = c.api.Races(ctx, year, api.WithForceFresh())
	case RefreshDriverStandings:
		_, err = c.api.SeasonDriverStandings(ctx, year, api.WithForceFresh())
	case RefreshConstructorStandings:
		_, err = c.api.SeasonConstructorStandings(ctx, year, api.WithForceFresh())
	case RefreshNews:
		_, err = c.api.News(ctx, api.WithForceFresh())
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRefreshKey, name)
	}
	return err
}

// Close releases the durable stores.
func (c *Client) Close() error {
	var firstErr error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
