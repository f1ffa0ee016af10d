package gyre

import (
	"log/slog"

	"github.com/gyrelab/gyre/service/event"
	"github.com/gyrelab/gyre/stats"
)

// Option customizes a Runtime.
type Option func(r *Runtime)

// WithConfig replaces the default configuration.
func WithConfig(config *Config) Option {
	return func(r *Runtime) {
		if config != nil {
			r.config = config
		}
	}
}

// WithPoolSize overrides the pool size, keeping the rest of the
// configuration.
func WithPoolSize(size int) Option {
	return func(r *Runtime) { r.config.Pool.Size = size }
}

// WithLogger sets the structured logger used for scheduler diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithEventService attaches a lifecycle event bus. Implies events enabled.
func WithEventService(svc *event.Service) Option {
	return func(r *Runtime) {
		r.events = svc
		r.config.Events.Enabled = svc != nil
	}
}

// WithStatsListener registers a callback invoked after every counter update.
func WithStatsListener(cb func(stats.Snapshot)) Option {
	return func(r *Runtime) { r.tracker.OnChange(cb) }
}
