package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	envFile  string
	logLevel string
	metrics  bool

	// logOutput is where logs go; set from the command's stderr
	logOutput io.Writer
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "profilectl",
		Short: "Load and inspect the current student's profile",
		Long: `profilectl fetches the signed-in student's record from the education
backend, stores the avatar URL and name in the local store, and prints the
profile view model, learning snapshot and ability chart series.

The bearer token is read from the session area. EDU_TOKEN seeds an empty
session.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts.logOutput = cmd.ErrOrStderr()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load; a missing file is ignored")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&opts.metrics, "metrics", false, "print Prometheus metrics to stderr when the command finishes")

	cmd.AddCommand(
		newLoadCmd(opts),
		newGetCmd(opts),
		newSetCmd(opts),
		newSessionCmd(opts),
		newMigrateCmd(opts),
	)

	return cmd
}

// withApp loads configuration, wires the application, runs fn and tears
// everything down again.
func (o *rootOptions) withApp(cmd *cobra.Command, dedup bool, fn func(ctx context.Context, a *app) error) error {
	cfg, log, err := loadConfig(o)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := openApp(ctx, cfg, log, dedup)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn("shutdown", "error", err)
		}
	}()

	runErr := fn(ctx, a)

	if o.metrics || cfg.Observability.MetricsDump {
		if err := a.dumpMetrics(cmd.ErrOrStderr()); err != nil {
			log.Warn("metrics dump failed", "error", err)
		}
	}

	return runErr
}
