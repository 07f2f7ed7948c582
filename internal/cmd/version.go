package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newVersionCommand creates the version command.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "jobsync %s (commit %s, built %s)\n", a.version, a.commit, a.date)
		},
	}
}
