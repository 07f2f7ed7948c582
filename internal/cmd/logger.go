package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/shopfloor/jobsync/internal/config"
	"github.com/shopfloor/jobsync/pkg/logging"
)

// NewLogger creates a configured logger based on the application
// configuration. Log level precedence (highest to lowest):
//  1. --log-level flag (explicit always wins)
//  2. -v/--verbose flag (shortcut for debug)
//  3. -q/--quiet flag (shortcut for warn)
//  4. LOG_LEVEL environment variable
//  5. Default (info)
func NewLogger(cfg *config.Config) zerolog.Logger {
	level := parseLevel(determineLogLevel(cfg))

	var logger zerolog.Logger
	if os.Getenv("LOG_FORMAT") == "json" {
		logger = logging.New(os.Stderr)
	} else {
		logger = logging.NewConsole()
	}
	return logger.Level(level)
}

// determineLogLevel determines the log level using the precedence
// rules.
func determineLogLevel(cfg *config.Config) string {
	if cfg.LogLevel != "" && cfg.LogLevel != "info" {
		// Explicit --log-level or LOG_LEVEL wins over the shortcuts.
		return cfg.LogLevel
	}

	if cfg.Verbose && cfg.Quiet {
		fmt.Fprintln(os.Stderr, "Warning: both --verbose and --quiet specified, using --quiet")
		return "warn"
	}
	if cfg.Verbose {
		return "debug"
	}
	if cfg.Quiet {
		return "warn"
	}
	return "info"
}

// parseLevel converts a level name to a zerolog level, defaulting to
// info for anything unrecognized.
func parseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, using \"info\"\n", name)
		return zerolog.InfoLevel
	}
	return level
}
