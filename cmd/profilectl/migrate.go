package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nuemind/student-profile/internal/infrastructure/persistence/postgres"
)

// errNoDatabase is returned by migrate when no database is configured.
var errNoDatabase = errors.New("migrate: DATABASE_URL is not set")

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Manage the PostgreSQL schema for the postgres storage backend",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "up"
			if len(args) == 1 {
				action = args[0]
			}

			cfg, log, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return errNoDatabase
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			conn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL, poolConfig(cfg))
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer conn.Close()

			migrator := postgres.NewMigrator(conn)

			switch action {
			case "down":
				if err := migrator.Rollback(ctx); err != nil {
					return err
				}
				log.Info("rolled back last migration")
				return nil
			case "status":
				status, err := migrator.Status(ctx)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "VERSION\tNAME\tAPPLIED")
				for _, m := range status {
					applied := "pending"
					if m.IsApplied {
						applied = m.AppliedAt.Format("2006-01-02 15:04:05")
					}
					fmt.Fprintf(w, "%d\t%s\t%s\n", m.Version, m.Name, applied)
				}
				return w.Flush()
			default:
				applied, err := migrator.Migrate(ctx)
				if err != nil {
					return err
				}
				log.Info("migrations completed", "applied", applied)
				return nil
			}
		},
	}
}
