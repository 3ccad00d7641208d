package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apexview/apexview-go/analytics"
	"github.com/apexview/apexview-go/cache"
	"github.com/apexview/apexview-go/config"
	"github.com/apexview/apexview-go/resolver"
)

// memStore doubles as both durable backends in these tests.
type memStore struct {
	name    string
	entries map[string]*cache.Entry
}

func newMemStore(name string) *memStore {
	return &memStore{name: name, entries: make(map[string]*cache.Entry)}
}

func (m *memStore) Name() string { return m.name }

func (m *memStore) Get(_ context.Context, key string) (*cache.Entry, bool, error) {
	e, ok := m.entries[key]
	return e, ok, nil
}

func (m *memStore) Set(_ context.Context, key string, e *cache.Entry) error {
	m.entries[key] = e
	return nil
}

func (m *memStore) Remove(_ context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

func (m *memStore) Clear(_ context.Context, _ string) error {
	m.entries = make(map[string]*cache.Entry)
	return nil
}

func (m *memStore) Stats(_ context.Context) (cache.BackendStats, error) {
	return cache.BackendStats{Items: int64(len(m.entries))}, nil
}

func newTestAPI(t *testing.T, handler http.Handler) *API {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.BaseURL = srv.URL
	cfg.TelemetryLimit = 200

	r := resolver.New(resolver.Params{
		Fast:      cache.NewMemory(time.Minute),
		Durable:   cache.NewDurable(newMemStore("durable-small"), newMemStore("durable-large"), 0, nil),
		Analytics: analytics.NewCollector(0, nil),
		Settings:  config.NewRuntime(config.DefaultSettings()),
		Backoff:   &resolver.BackoffConfig{BaseDelay: time.Millisecond, AttemptTimeout: 5 * time.Second},
	})
	return New(r, cfg)
}

func TestRaces(t *testing.T) {
	a := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/races/2024", r.URL.Path)
		w.Write([]byte(`{"events":[{"name":"Bahrain Grand Prix","location":"Sakhir","country":"Bahrain","date":"2024-03-02","round":1}]}`))
	}))

	races, err := a.Races(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, races, 1)
	assert.Equal(t, "Bahrain Grand Prix", races[0].Name)
	assert.Equal(t, 1, races[0].Round)
}

func TestSessions_EscapesEventName(t *testing.T) {
	a := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sessions/2024/Monaco%20Grand%20Prix", r.URL.EscapedPath())
		w.Write([]byte(`{"Sessions":["Practice 1","Qualifying","Race"]}`))
	}))

	sessions, err := a.Sessions(context.Background(), 2024, "Monaco Grand Prix")
	require.NoError(t, err)
	assert.Equal(t, []string{"Practice 1", "Qualifying", "Race"}, sessions)
}

func TestTelemetry_DownsamplesLongTraces(t *testing.T) {
	// 500 is deliberately not a multiple of the limit.
	a := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"driver":"VER","session":"Race","lap_time":"1:31.044","telemetry":[` +
			telemetryPoints(500) + `]}`))
	}))

	tel, err := a.Telemetry(context.Background(), 2024, "Bahrain", "Race", "VER")
	require.NoError(t, err)
	assert.Equal(t, "VER", tel.Driver)
	assert.LessOrEqual(t, len(tel.Telemetry), 200)
	assert.Greater(t, len(tel.Telemetry), 100, "downsampling should keep the lap shape")
}

func TestSeasonDriverStandings(t *testing.T) {
	a := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/seasons/driver/2024", r.URL.Path)
		w.Write([]byte(`[{"Abbreviation":"VER","TeamName":"Red Bull Racing","Points":437.0}]`))
	}))

	rows, err := a.SeasonDriverStandings(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "VER", rows[0].Abbreviation)
	assert.Equal(t, 437.0, rows[0].Points)
}

func TestNews(t *testing.T) {
	a := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"news":[{"id":1,"title":"Title","date":"2024-06-01","summary":"s","image_url":"u"}]}`))
	}))

	items, err := a.News(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Title", items[0].Title)
}

func TestDecodeError(t *testing.T) {
	a := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`not json`))
	}))

	_, err := a.Races(context.Background(), 2024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestDownsample(t *testing.T) {
	points := make([]TelemetryPoint, 10)
	for i := range points {
		points[i].Distance = float64(i)
	}

	assert.Len(t, downsample(points, 0), 10, "non-positive limit disables sampling")
	assert.Len(t, downsample(points, 20), 10, "short traces pass through")

	out := downsample(points, 5)
	assert.Len(t, out, 5)
	assert.Equal(t, 0.0, out[0].Distance)
	assert.Equal(t, 8.0, out[4].Distance)
}

func TestDownsample_BoundHoldsForNonMultipleLengths(t *testing.T) {
	// Lengths between limit and 2*limit used to slip through whole.
	assert.Len(t, downsample(make([]TelemetryPoint, 300), 200), 150)
	assert.Len(t, downsample(make([]TelemetryPoint, 500), 200), 167)
	assert.Len(t, downsample(make([]TelemetryPoint, 999), 200), 200)

	for _, n := range []int{201, 250, 399, 401, 1000} {
		out := downsample(make([]TelemetryPoint, n), 200)
		assert.LessOrEqual(t, len(out), 200, "length %d", n)
	}
}

// telemetryPoints renders n JSON telemetry samples.
func telemetryPoints(n int) string {
	out := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			out += ","
		}
		out += `{"Time":"0:00:01","Speed":280,"Throttle":100,"Brake":0,"Distance":` +
			strconv.Itoa(i) + `}`
	}
	return out
}
