// Package main is the profilectl command: it loads the current student's
// profile from the education backend, persists the avatar and name in the
// keyed local store and prints the derived profile.
//
// Storage (memory, redis, postgres) and the event bus (memory, redis) are
// chosen through configuration, see the config package.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
