package gyre

import (
	"context"
	"fmt"

	"github.com/viant/afs"

	"github.com/gyrelab/gyre/service/meta"
)

// Config is a serialisable representation of the runtime configuration. It
// can be populated from YAML or JSON; the zero value of every nested field
// inherits its package default.
type Config struct {
	Pool    PoolConfig    `json:"pool" yaml:"pool"`
	Events  EventsConfig  `json:"events" yaml:"events"`
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`
}

// PoolConfig sizes the slot pool.
type PoolConfig struct {
	// Size is the total number of slots including slot 0, which is reserved
	// for the caller's own execution context.
	Size int `json:"size" yaml:"size"`
}

// EventsConfig controls the optional lifecycle event bus.
type EventsConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	Buffer  int  `json:"buffer" yaml:"buffer"`
}

// TracingConfig controls span export.
type TracingConfig struct {
	Enabled        bool   `json:"enabled" yaml:"enabled"`
	ServiceName    string `json:"serviceName" yaml:"serviceName"`
	ServiceVersion string `json:"serviceVersion" yaml:"serviceVersion"`
	OutputFile     string `json:"outputFile" yaml:"outputFile"`
}

// DefaultConfig returns a Config with the package defaults: a pool of four
// slots (the caller plus three tasks), events disabled, tracing disabled.
func DefaultConfig() *Config {
	return &Config{
		Pool:   PoolConfig{Size: 4},
		Events: EventsConfig{Buffer: 64},
		Tracing: TracingConfig{
			ServiceName:    "gyre",
			ServiceVersion: "0.1.0",
		},
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Pool.Size < 2 {
		return fmt.Errorf("pool.size must be at least 2 (slot 0 is reserved for the caller), got %d", c.Pool.Size)
	}
	if c.Events.Buffer < 0 {
		return fmt.Errorf("events.buffer must not be negative, got %d", c.Events.Buffer)
	}
	return nil
}

// LoadConfig reads a YAML configuration document from the given URL or file
// path, layered over DefaultConfig.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	cfg := DefaultConfig()
	svc := meta.New(afs.New(), "")
	if err := svc.Load(ctx, URL, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
