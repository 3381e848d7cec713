package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nuemind/student-profile/internal/domain/storage"
)

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a value from the local store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, false, func(ctx context.Context, a *app) error {
				value, ok, err := a.local.Get(ctx, args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%s: not set", args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			})
		},
	}
}

func newSetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Write a value to the local store and publish a storage-changed event",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, false, func(ctx context.Context, a *app) error {
				return a.local.Set(ctx, args[0], args[1])
			})
		},
	}
}

func newSessionCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Read and write the session area",
		Long: `The session area holds the bearer token ("` + storage.KeyToken + `") and the
student id ("` + storage.KeyStudentID + `") written by a successful load.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print a session value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withApp(cmd, false, func(ctx context.Context, a *app) error {
					value, ok, err := a.session.Get(ctx, args[0])
					if err != nil {
						return err
					}
					if !ok {
						return fmt.Errorf("%s: not set", args[0])
					}
					fmt.Fprintln(cmd.OutOrStdout(), value)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Write a session value",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withApp(cmd, false, func(ctx context.Context, a *app) error {
					return a.session.Set(ctx, args[0], args[1])
				})
			},
		},
		&cobra.Command{
			Use:   "delete <key>",
			Short: "Remove a session value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withApp(cmd, false, func(ctx context.Context, a *app) error {
					return a.session.Delete(ctx, args[0])
				})
			},
		},
	)

	return cmd
}
