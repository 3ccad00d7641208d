package config

import (
	"sync"
	"time"
)

// Settings is the process-wide mutable configuration. The orchestrator
// reads a fresh snapshot on every call, so updates take effect for the
// next request with no retroactive effect on in-flight ones.
type Settings struct {
	UseFastTier          bool     `yaml:"use_fast_tier"`
	UseDurableTier       bool     `yaml:"use_durable_tier"`
	EnableAnalytics      bool     `yaml:"enable_analytics"`
	EnableLogging        bool     `yaml:"enable_logging"`
	SlowRequestThreshold Duration `yaml:"slow_request_threshold"`
}

// DefaultSettings returns the startup defaults.
func DefaultSettings() Settings {
	return Settings{
		UseFastTier:          true,
		UseDurableTier:       true,
		EnableAnalytics:      true,
		EnableLogging:        true,
		SlowRequestThreshold: Duration(3 * time.Second),
	}
}

// SettingsPatch is a partial settings update; nil fields are left
// unchanged by Apply.
type SettingsPatch struct {
	UseFastTier          *bool
	UseDurableTier       *bool
	EnableAnalytics      *bool
	EnableLogging        *bool
	SlowRequestThreshold *time.Duration
}

// Runtime guards a Settings value for concurrent snapshot and update.
type Runtime struct {
	mu sync.RWMutex
	s  Settings
}

// NewRuntime wraps the given initial settings.
func NewRuntime(s Settings) *Runtime {
	return &Runtime{s: s}
}

// Snapshot returns a copy of the current settings.
func (r *Runtime) Snapshot() Settings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s
}

// Apply merges a patch into the settings and returns the result.
func (r *Runtime) Apply(p SettingsPatch) Settings {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.UseFastTier != nil {
		r.s.UseFastTier = *p.UseFastTier
	}
	if p.UseDurableTier != nil {
		r.s.UseDurableTier = *p.UseDurableTier
	}
	if p.EnableAnalytics != nil {
		r.s.EnableAnalytics = *p.EnableAnalytics
	}
	if p.EnableLogging != nil {
		r.s.EnableLogging = *p.EnableLogging
	}
	if p.SlowRequestThreshold != nil {
		r.s.SlowRequestThreshold = Duration(*p.SlowRequestThreshold)
	}
	return r.s
}
