// Package cmd provides the jobsync CLI: configuration loading,
// logging setup, and the cobra command tree.
package cmd

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/shopfloor/jobsync/internal/config"
	"github.com/shopfloor/jobsync/pkg/errors"
)

// App holds the CLI's shared dependencies: version information, the
// loaded configuration, and the logger.
type App struct {
	version string
	commit  string
	date    string

	config *config.Config
	log    *zerolog.Logger

	// Flag storage, applied to config in setupCommand.
	configFile string
	verbose    bool
	quiet      bool
	logLevel   string
}

// New creates the CLI application with the given version information.
func New(version, commit, date string) *App {
	return &App{version: version, commit: commit, date: date}
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.log
}

// Execute runs the CLI with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	root := a.rootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// rootCommand creates the root cobra command with all subcommands.
func (a *App) rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "jobsync",
		Short:   "Shop-floor job manifest synchronizer",
		Version: a.version,
		Long: `Jobsync keeps a remote spreadsheet-of-record in step with the
per-job manifest files on the shop-floor network share.

Each run scans the share for job manifests, sanitizes their values into
canonical records, and applies the minimal set of row mutations needed
to make the sheet match.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default is ./jobsync.yaml or $HOME/jobsync.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("jobsync {{.Version}}\n")

	rootCmd.AddCommand(a.newSyncCommand())
	rootCmd.AddCommand(a.newScanCommand())
	rootCmd.AddCommand(a.newReportCommand())
	rootCmd.AddCommand(a.newVersionCommand())

	return rootCmd
}

// setupCommand loads configuration and initializes the logger before
// any command runs.
func (a *App) setupCommand(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	cfg.UpdateFromFlags(a.verbose, a.quiet, a.logLevel)
	a.config = cfg

	logger := NewLogger(cfg)
	a.log = &logger
	return nil
}

// ExitOnError prints an error and exits with a status reflecting its
// classification, for top-level handling in main.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	_, _ = os.Stderr.WriteString(err.Error() + "\n")
	if errors.IsUnauthorized(err) {
		os.Exit(2)
	}
	os.Exit(1)
}
