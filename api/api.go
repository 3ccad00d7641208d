// Package api exposes typed fetchers for the ApexView data API. Each
// fetcher maps to one resolver call with a resource-specific TTL; the
// presentation layer consumes these and never sees the cache tiers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/apexview/apexview-go/config"
	"github.com/apexview/apexview-go/resolver"
)

// Resource type names, shared with prefix-scoped cache clearing.
const (
	TypeRaces     = "races"
	TypeSessions  = "sessions"
	TypeDrivers   = "drivers"
	TypeTelemetry = "telemetry"
	TypeStandings = "standings"
	TypeNews      = "news"
)

// API is the typed resource layer over the resolver.
type API struct {
	r              *resolver.Resolver
	baseURL        string
	ttl            config.TTLConfig
	telemetryLimit int
}

// New builds the API layer from the resolver and configuration.
func New(r *resolver.Resolver, cfg *config.Config) *API {
	return &API{
		r:              r,
		baseURL:        cfg.BaseURL,
		ttl:            cfg.TTL,
		telemetryLimit: cfg.TelemetryLimit,
	}
}

// RequestOption tweaks a single fetch.
type RequestOption func(*resolver.Options)

// WithForceFresh bypasses the tier probes while still writing the
// result through the cache.
func WithForceFresh() RequestOption {
	return func(o *resolver.Options) { o.ForceFresh = true }
}

// WithPrefetchOnly makes the fetch a detached background warmup.
func WithPrefetchOnly() RequestOption {
	return func(o *resolver.Options) { o.PrefetchOnly = true }
}

// WithTTL overrides the resource's durable TTL.
func WithTTL(ttl time.Duration) RequestOption {
	return func(o *resolver.Options) { o.TTL = ttl }
}

// WithRetries overrides the retry count.
func WithRetries(n int) RequestOption {
	return func(o *resolver.Options) { o.MaxRetries = n }
}

func (a *API) options(resourceType string, ttl time.Duration, reqOpts []RequestOption) resolver.Options {
	opts := resolver.DefaultOptions(resourceType)
	opts.TTL = ttl
	for _, fn := range reqOpts {
		fn(&opts)
	}
	return opts
}

// get resolves a URL and decodes the JSON payload into T. A
// prefetch-only call returns the zero value immediately.
func get[T any](ctx context.Context, a *API, u string, opts resolver.Options) (T, error) {
	var out T
	data, err := a.r.Resolve(ctx, u, opts)
	if err != nil {
		return out, err
	}
	if opts.PrefetchOnly {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("api: decode %s: %w", u, err)
	}
	return out, nil
}

// Races returns the season schedule for a year.
func (a *API) Races(ctx context.Context, year int, reqOpts ...RequestOption) ([]RaceEvent, error) {
	u := fmt.Sprintf("%s/api/races/%d", a.baseURL, year)
	resp, err := get[racesResponse](ctx, a, u, a.options(TypeRaces, a.ttl.Races.Std(), reqOpts))
	return resp.Events, err
}

// Sessions returns the available sessions for an event.
func (a *API) Sessions(ctx context.Context, year int, event string, reqOpts ...RequestOption) ([]string, error) {
	u := fmt.Sprintf("%s/api/sessions/%d/%s", a.baseURL, year, url.PathEscape(event))
	resp, err := get[sessionsResponse](ctx, a, u, a.options(TypeSessions, a.ttl.Sessions.Std(), reqOpts))
	return resp.Sessions, err
}

// DriverDetails returns driver information for a session.
func (a *API) DriverDetails(ctx context.Context, year int, event, session string, reqOpts ...RequestOption) ([]DriverInfo, error) {
	u := fmt.Sprintf("%s/api/drivers/details/%d/%s/%s",
		a.baseURL, year, url.PathEscape(event), url.PathEscape(session))
	resp, err := get[driversResponse](ctx, a, u, a.options(TypeDrivers, a.ttl.Drivers.Std(), reqOpts))
	return resp.Drivers, err
}

// Telemetry returns a driver's fastest-lap trace, downsampled to the
// configured point limit.
func (a *API) Telemetry(ctx context.Context, year int, event, session, driver string, reqOpts ...RequestOption) (*Telemetry, error) {
	u := fmt.Sprintf("%s/api/telemetry/%d/%s/%s/%s",
		a.baseURL, year, url.PathEscape(event), url.PathEscape(session), url.PathEscape(driver))
	resp, err := get[Telemetry](ctx, a, u, a.options(TypeTelemetry, a.ttl.Telemetry.Std(), reqOpts))
	if err != nil {
		return nil, err
	}
	resp.Telemetry = downsample(resp.Telemetry, a.telemetryLimit)
	return &resp, nil
}

// RaceStandings returns the classified results of one session.
func (a *API) RaceStandings(ctx context.Context, year int, event, session string, reqOpts ...RequestOption) ([]RaceStandingRow, error) {
	u := fmt.Sprintf("%s/api/races/%d/%s/%s",
		a.baseURL, year, url.PathEscape(event), url.PathEscape(session))
	return get[[]RaceStandingRow](ctx, a, u, a.options(TypeStandings, a.ttl.Standings.Std(), reqOpts))
}

// SeasonDriverStandings returns the driver championship for a year.
func (a *API) SeasonDriverStandings(ctx context.Context, year int, reqOpts ...RequestOption) ([]SeasonStanding, error) {
	u := fmt.Sprintf("%s/api/seasons/driver/%d", a.baseURL, year)
	return get[[]SeasonStanding](ctx, a, u, a.options(TypeStandings, a.ttl.Standings.Std(), reqOpts))
}

// SeasonConstructorStandings returns the constructor championship for
// a year.
func (a *API) SeasonConstructorStandings(ctx context.Context, year int, reqOpts ...RequestOption) ([]ConstructorStanding, error) {
	u := fmt.Sprintf("%s/api/seasons/constructor/%d", a.baseURL, year)
	return get[[]ConstructorStanding](ctx, a, u, a.options(TypeStandings, a.ttl.Standings.Std(), reqOpts))
}

// DriverProfile returns a driver's career summary.
func (a *API) DriverProfile(ctx context.Context, driverID string, reqOpts ...RequestOption) (*DriverProfile, error) {
	u := fmt.Sprintf("%s/api/drivers/profile/%s", a.baseURL, url.PathEscape(driverID))
	resp, err := get[DriverProfile](ctx, a, u, a.options(TypeDrivers, a.ttl.Drivers.Std(), reqOpts))
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// News returns the latest headlines.
func (a *API) News(ctx context.Context, reqOpts ...RequestOption) ([]NewsItem, error) {
	u := fmt.Sprintf("%s/api/news", a.baseURL)
	resp, err := get[newsResponse](ctx, a, u, a.options(TypeNews, a.ttl.News.Std(), reqOpts))
	return resp.News, err
}

// downsample reduces a telemetry trace to at most limit points by
// stride sampling, preserving overall lap shape. The stride rounds
// up, so the bound holds for lengths that are not a multiple of it.
func downsample(points []TelemetryPoint, limit int) []TelemetryPoint {
	if limit <= 0 || len(points) <= limit {
		return points
	}
	stride := (len(points) + limit - 1) / limit
	out := make([]TelemetryPoint, 0, limit)
	for i := 0; i < len(points); i += stride {
		out = append(out, points[i])
	}
	return out
}
