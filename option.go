package apexview

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/apexview/apexview-go/cache"
	"github.com/apexview/apexview-go/config"
	"github.com/apexview/apexview-go/resolver"
)

type options struct {
	cfg        *config.Config
	logger     *zap.Logger
	httpClient *http.Client
	metricsReg prometheus.Registerer
	backoff    *resolver.BackoffConfig
	small      cache.Backend
	large      cache.Backend
}

func defaultOptions() *options {
	return &options{
		cfg:    config.Default(),
		logger: zap.NewNop(),
	}
}

// Option configures the Client.
type Option func(*options)

// WithConfig replaces the default configuration.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		if cfg != nil {
			o.cfg = cfg
		}
	}
}

// WithLogger sets the structured logger. The default discards logs.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithHTTPClient sets the HTTP client used for network fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// WithMetrics enables the Prometheus mirror of analytics events,
// registering collectors with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) { o.metricsReg = reg }
}

// WithBackoff overrides the retry timing.
func WithBackoff(b *resolver.BackoffConfig) Option {
	return func(o *options) { o.backoff = b }
}

// WithBackends injects the durable backends, replacing the default
// file and SQLite stores. Useful in tests.
func WithBackends(small, large cache.Backend) Option {
	return func(o *options) {
		o.small = small
		o.large = large
	}
}
