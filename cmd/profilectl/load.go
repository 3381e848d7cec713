package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	domain "github.com/nuemind/student-profile/internal/domain/profile"
	"github.com/nuemind/student-profile/internal/domain/storage"
)

// loadOutput is what `profilectl load` prints.
type loadOutput struct {
	Loaded    bool   `json:"loaded"`
	Error     string `json:"error,omitempty"`
	StudentID string `json:"studentId,omitempty"`

	domain.Projection
}

func newLoadCmd(opts *rootOptions) *cobra.Command {
	var (
		dedup    bool
		parallel int
	)

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Fetch the current student and print the derived profile",
		Long: `Fetches the current student's record, writes the student id to the
session area, stores avatar URL and name in the local store and prints the
resulting state as JSON.

With --parallel N the load is started N times concurrently. Without --dedup
every load hits the backend and the last one to finish wins; with --dedup
overlapping loads share one request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if parallel < 1 {
				return fmt.Errorf("--parallel must be at least 1, got %d", parallel)
			}

			return opts.withApp(cmd, dedup, func(ctx context.Context, a *app) error {
				var g errgroup.Group
				for i := 0; i < parallel; i++ {
					g.Go(func() error { return a.profile.Load(ctx) })
				}
				loadErr := g.Wait()

				out, err := buildLoadOutput(ctx, a)
				if err != nil {
					return err
				}

				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(out); err != nil {
					return fmt.Errorf("write output: %w", err)
				}

				return loadErr
			})
		},
	}

	cmd.Flags().BoolVar(&dedup, "dedup", false, "collapse overlapping loads onto one request")
	cmd.Flags().IntVar(&parallel, "parallel", 1, "number of concurrent loads to start")

	return cmd
}

func buildLoadOutput(ctx context.Context, a *app) (loadOutput, error) {
	state := a.profile.Snapshot()

	studentID, _, err := a.session.Get(ctx, storage.KeyStudentID)
	if err != nil {
		return loadOutput{}, fmt.Errorf("read student id: %w", err)
	}

	return loadOutput{
		Loaded:    state.Loaded,
		Error:     state.Error,
		StudentID: studentID,
		Projection: domain.Projection{
			Profile:  state.Profile,
			Learning: state.Learning,
			Chart:    state.Chart,
		},
	}, nil
}
