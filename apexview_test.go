package apexview

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apexview/apexview-go/analytics"
	"github.com/apexview/apexview-go/api"
	"github.com/apexview/apexview-go/config"
	"github.com/apexview/apexview-go/resolver"
)

// newTestClient wires a full client (file + SQLite stores in a temp
// dir) against the given handler.
func newTestClient(t *testing.T, handler http.Handler, mutate ...func(*config.Config)) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfg := config.Default()
	cfg.BaseURL = srv.URL
	cfg.CacheDir = filepath.Join(dir, "cache")
	cfg.DBPath = filepath.Join(dir, "cache.db")
	cfg.Prefetch.Enabled = false
	for _, fn := range mutate {
		fn(cfg)
	}

	c, err := New(
		WithConfig(cfg),
		WithBackoff(&resolver.BackoffConfig{
			BaseDelay:      time.Millisecond,
			AttemptTimeout: 5 * time.Second,
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func racesHandler(calls *atomic.Int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"events":[{"name":"Monaco Grand Prix","location":"Monte Carlo","country":"Monaco","date":"2024-05-26","round":8}]}`))
	})
}

func TestClient_EndToEnd(t *testing.T) {
	var calls atomic.Int64
	c := newTestClient(t, racesHandler(&calls))
	ctx := context.Background()

	races, err := c.API().Races(ctx, 2024)
	require.NoError(t, err)
	require.Len(t, races, 1)
	assert.Equal(t, "Monaco Grand Prix", races[0].Name)

	again, err := c.API().Races(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, races, again)
	assert.Equal(t, int64(1), calls.Load(), "second call must be served from cache")

	stats := c.Stats(ctx)
	assert.Equal(t, 1, stats.FastItems)
	assert.EqualValues(t, 1, stats.Durable.Items)
	assert.Equal(t, 1, stats.Analytics.Hits)
}

func TestClient_ClearAll(t *testing.T) {
	var calls atomic.Int64
	c := newTestClient(t, racesHandler(&calls))
	ctx := context.Background()

	_, err := c.API().Races(ctx, 2024)
	require.NoError(t, err)

	c.ClearAll(ctx)

	stats := c.Stats(ctx)
	assert.Zero(t, stats.FastItems)
	assert.Zero(t, stats.Durable.Items)
	assert.Zero(t, stats.Analytics.Hits+stats.Analytics.Misses)

	// The next call goes back to the network.
	_, err = c.API().Races(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestClient_ClearByType(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/races/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"events":[]}`))
	})
	mux.HandleFunc("/api/news", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"news":[]}`))
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	_, err := c.API().Races(ctx, 2024)
	require.NoError(t, err)
	_, err = c.API().News(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, c.Stats(ctx).Durable.Items)

	c.ClearByType(ctx, api.TypeRaces)

	assert.EqualValues(t, 1, c.Stats(ctx).Durable.Items, "news entries must survive a races clear")
}

func TestClient_Refresh(t *testing.T) {
	var calls atomic.Int64
	c := newTestClient(t, racesHandler(&calls))
	ctx := context.Background()

	_, err := c.API().Races(ctx, time.Now().Year())
	require.NoError(t, err)
	require.Equal(t, int64(1), calls.Load())

	// Refresh bypasses both tiers.
	require.NoError(t, c.Refresh(ctx, RefreshRaces))
	assert.Equal(t, int64(2), calls.Load())
}

func TestClient_RefreshUnknownKey(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())
	err := c.Refresh(context.Background(), "qualifying-pace")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownRefreshKey))
}

func TestClient_UpdateSettings(t *testing.T) {
	var calls atomic.Int64
	c := newTestClient(t, racesHandler(&calls))
	ctx := context.Background()

	off := false
	s := c.UpdateSettings(config.SettingsPatch{EnableAnalytics: &off})
	assert.False(t, s.EnableAnalytics)

	_, err := c.API().Races(ctx, 2024)
	require.NoError(t, err)
	assert.Empty(t, c.Analytics().Events(), "disabled analytics must not record")

	on := true
	c.UpdateSettings(config.SettingsPatch{EnableAnalytics: &on})
	_, err = c.API().Races(ctx, 2024)
	require.NoError(t, err)
	assert.NotEmpty(t, c.Analytics().Events())
}

func TestClient_TerminalError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.API().Races(context.Background(), 2024, api.WithRetries(0))
	require.Error(t, err)
	assert.True(t, IsTerminal(err))
}

func TestClient_Warmup(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/races/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"events":[]}`))
	})
	mux.HandleFunc("/api/seasons/driver/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/api/seasons/constructor/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/api/news", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"news":[]}`))
	})
	c := newTestClient(t, mux, func(cfg *config.Config) {
		cfg.Prefetch.Years = []int{2024}
		cfg.Prefetch.RequestsPerSecond = 1000
	})
	ctx := context.Background()

	require.NoError(t, c.Warmup(ctx))

	// One schedule plus two standings plus news, all written through.
	assert.EqualValues(t, 4, c.Stats(ctx).Durable.Items)
}

func TestClient_Subscribe(t *testing.T) {
	var calls atomic.Int64
	c := newTestClient(t, racesHandler(&calls))

	var sets atomic.Int64
	c.Subscribe(analytics.KindSet, func(analytics.Event) { sets.Add(1) })

	_, err := c.API().Races(context.Background(), 2024)
	require.NoError(t, err)
	// One network set plus one per tier written through.
	assert.Equal(t, int64(3), sets.Load())
}
