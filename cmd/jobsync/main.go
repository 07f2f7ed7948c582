// Package main provides the entry point for the jobsync CLI tool.
package main

import (
	"context"
	"os"

	"github.com/shopfloor/jobsync/internal/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	app := cmd.New(version, commit, date)

	// Cancel the run on SIGINT/SIGTERM so it stops between batches.
	ctx, cancel := cmd.ContextWithSignals(context.Background())
	defer cancel()

	if err := app.Execute(ctx, os.Args[1:]); err != nil {
		cmd.ExitOnError(err)
	}
}
