package analytics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics mirrors tracked events into Prometheus collectors for
// callers that scrape. It is optional; a nil Metrics on the Collector
// disables the mirror.
type Metrics struct {
	EventsTotal   *prometheus.CounterVec
	ErrorsTotal   *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	CachedBytes   *prometheus.CounterVec
}

// NewMetrics creates the collectors, registering them with reg
// (prometheus.DefaultRegisterer when nil).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		EventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "apexview",
				Name:      "cache_events_total",
				Help:      "Cache events by kind and source",
			},
			[]string{"kind", "source"},
		),
		ErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "apexview",
				Name:      "errors_total",
				Help:      "Errors by source",
			},
			[]string{"source"},
		),
		FetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "apexview",
				Name:      "fetch_duration_seconds",
				Help:      "Network fetch duration in seconds",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 15, 30},
			},
		),
		CachedBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "apexview",
				Name:      "cached_bytes_total",
				Help:      "Bytes written to cache tiers",
			},
			[]string{"source"},
		),
	}
}

func (m *Metrics) observe(ev Event) {
	m.EventsTotal.WithLabelValues(string(ev.Kind), string(ev.Source)).Inc()
	if ev.Kind == KindError {
		m.ErrorsTotal.WithLabelValues(string(ev.Source)).Inc()
	}
	if ev.Kind == KindSet && ev.Size > 0 {
		m.CachedBytes.WithLabelValues(string(ev.Source)).Add(float64(ev.Size))
	}
	if ev.Source == SourceNetwork && ev.Duration > 0 {
		m.FetchDuration.Observe(float64(ev.Duration) / float64(time.Second))
	}
}
