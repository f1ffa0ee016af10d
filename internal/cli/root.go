// Package cli wires the gyre demo commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyrelab/gyre"
	"github.com/gyrelab/gyre/tracing"
)

// RootOptions holds flags shared by all commands.
type RootOptions struct {
	Verbose  bool
	PoolSize int
	Config   string
	Trace    bool
}

// NewRootCommand creates the gyre command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "gyre",
		Short:         "Cooperative green-thread runtime demos",
		Long:          "Demo programs for the gyre runtime: a fixed pool of cooperative tasks scheduled round-robin, switching only on explicit yields.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().IntVar(&opts.PoolSize, "pool-size", 0, "override the slot pool size (includes the scheduler slot)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "path or URL of a YAML runtime configuration")
	cmd.PersistentFlags().BoolVar(&opts.Trace, "trace", false, "export one span per task to stdout")

	cmd.AddCommand(NewDemoCommand(opts))
	cmd.AddCommand(NewCountCommand(opts))

	return cmd
}

// setupRuntime builds and publishes a runtime from the root options. The
// returned runtime's Run drains the pool and exits the process.
func setupRuntime(cmd *cobra.Command, opts *RootOptions) (*gyre.Runtime, error) {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	cfg := gyre.DefaultConfig()
	if opts.Config != "" {
		loaded, err := gyre.LoadConfig(cmd.Context(), opts.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if opts.PoolSize > 0 {
		cfg.Pool.Size = opts.PoolSize
	}

	if opts.Trace || cfg.Tracing.Enabled {
		if err := tracing.Init(cfg.Tracing.ServiceName, cfg.Tracing.ServiceVersion, cfg.Tracing.OutputFile); err != nil {
			return nil, fmt.Errorf("failed to initialise tracing: %w", err)
		}
	}

	rt, err := gyre.New(gyre.WithConfig(cfg), gyre.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	rt.Publish()
	return rt, nil
}
