// Package config holds the static configuration (YAML) and the
// process-wide runtime settings for the data-access layer.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "90s" or "168h" (and, for compatibility, plain nanosecond integers).
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("config: invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("config: invalid duration %q", value.Value)
	}
	*d = Duration(n)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the plain time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the startup configuration.
type Config struct {
	// BaseURL is the root of the ApexView data API.
	BaseURL string `yaml:"base_url"`

	// CacheDir is the directory for the small file-backed store.
	CacheDir string `yaml:"cache_dir"`

	// DBPath is the SQLite database for the large store.
	DBPath string `yaml:"db_path"`

	// SizeThreshold routes payloads to the small store when their
	// serialized size is below it, in bytes.
	SizeThreshold int `yaml:"size_threshold"`

	// FastTTL is the fixed lifetime of fast-tier entries.
	FastTTL Duration `yaml:"fast_ttl"`

	TTL       TTLConfig       `yaml:"ttl"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Prefetch  PrefetchConfig  `yaml:"prefetch"`
	Settings  Settings        `yaml:"settings"`

	// TelemetryLimit caps the number of telemetry points returned
	// per lap after downsampling.
	TelemetryLimit int `yaml:"telemetry_limit"`
}

// TTLConfig sets the per-resource durable TTLs.
type TTLConfig struct {
	Races     Duration `yaml:"races"`
	Sessions  Duration `yaml:"sessions"`
	Drivers   Duration `yaml:"drivers"`
	Telemetry Duration `yaml:"telemetry"`
	Standings Duration `yaml:"standings"`
	News      Duration `yaml:"news"`
}

// AnalyticsConfig controls the event collector.
type AnalyticsConfig struct {
	Capacity int `yaml:"capacity"`
}

// PrefetchConfig controls the startup warmup of high-value resources.
type PrefetchConfig struct {
	Enabled           bool     `yaml:"enabled"`
	Delay             Duration `yaml:"delay"`
	Years             []int    `yaml:"years"`
	RequestsPerSecond float64  `yaml:"requests_per_second"`
}

// Default returns a Config with the stock TTLs and paths.
func Default() *Config {
	return &Config{
		BaseURL:       "http://localhost:8000",
		CacheDir:      "apexview_cache",
		DBPath:        "apexview_cache.db",
		SizeThreshold: 100 * 1024,
		FastTTL:       Duration(5 * time.Minute),
		TTL: TTLConfig{
			Races:     Duration(7 * 24 * time.Hour),
			Sessions:  Duration(2 * 24 * time.Hour),
			Drivers:   Duration(24 * time.Hour),
			Telemetry: Duration(24 * time.Hour),
			Standings: Duration(7 * 24 * time.Hour),
			News:      Duration(30 * time.Minute),
		},
		Analytics: AnalyticsConfig{Capacity: 100},
		Prefetch: PrefetchConfig{
			Enabled:           true,
			Delay:             Duration(3 * time.Second),
			Years:             []int{2021, 2022, 2023, 2024, 2025},
			RequestsPerSecond: 1,
		},
		Settings:       DefaultSettings(),
		TelemetryLimit: 200,
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
