package cmd

import (
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/shopfloor/jobsync"
	"github.com/shopfloor/jobsync/pkg/errors"
	"github.com/shopfloor/jobsync/pkg/report"
)

// newScanCommand creates the scan command: the pipeline's read half,
// without touching the remote sheet.
func (a *App) newScanCommand() *cobra.Command {
	var (
		root   string
		format string
	)

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan and sanitize job manifests without syncing",
		Long: `Scan parses the job manifests under the configured root and
sanitizes them into canonical records, reporting what a sync would
work from. The remote sheet is not contacted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.config
			if root != "" {
				cfg.Root = root
			}
			if err := cfg.ValidateScan(); err != nil {
				return err
			}

			opts, err := a.runnerOptions()
			if err != nil {
				return err
			}
			runner, err := jobsync.New(cfg.Root, nil, opts...)
			if err != nil {
				return err
			}

			dataset, err := runner.Collect(cmd.Context())
			if err != nil {
				return err
			}

			if cfg.ReportFile != "" {
				if err := report.New(dataset.Corrections).Write(cfg.ReportFile); err != nil {
					return err
				}
			}

			a.log.Info().
				Int("records", len(dataset.Records)).
				Int("corrections", len(dataset.Corrections)).
				Int("credit_hold", len(dataset.CreditHold)).
				Int("excluded", dataset.Excluded).
				Int("parse_errors", dataset.Scan.ParseErrors).
				Int("access_errors", dataset.Scan.AccessErrors).
				Msg("scan complete")

			switch format {
			case "summary":
				return nil
			case "yaml":
				out, err := yaml.Marshal(dataset.Records)
				if err != nil {
					return err
				}
				_, err = os.Stdout.Write(out)
				return err
			default:
				return errors.New("unknown format: " + format)
			}
		},
	}

	scanCmd.Flags().StringVar(&root, "root", "", "job folder root (overrides scan.root)")
	scanCmd.Flags().StringVarP(&format, "format", "o", "summary", "output format: summary, yaml")

	return scanCmd
}
