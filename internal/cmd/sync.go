package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shopfloor/jobsync"
	"github.com/shopfloor/jobsync/internal/db"
	"github.com/shopfloor/jobsync/pkg/sheet"
)

// newSyncCommand creates the sync command, the tool's main entry point.
func (a *App) newSyncCommand() *cobra.Command {
	var (
		root    string
		sheetID string
		dryRun  bool
	)

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Scan job manifests and reconcile the remote sheet",
		Long: `Sync scans the job folders under the configured root, sanitizes
the manifests into canonical records, and applies the minimal set of
row deletions, additions, and cell updates needed to make the remote
sheet match.

With --dry-run the mutation plan is computed and logged but not
applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.config
			if root != "" {
				cfg.Root = root
			}
			if sheetID != "" {
				cfg.SheetID = sheetID
			}
			if err := cfg.ValidateSync(); err != nil {
				return err
			}

			ctx := cmd.Context()
			api := sheet.NewClient(cfg.SheetBaseURL, cfg.SheetID, cfg.Token())

			opts, err := a.runnerOptions()
			if err != nil {
				return err
			}
			opts = append(opts, jobsync.WithDryRun(dryRun))
			if cfg.DatabaseDSN != "" {
				database, err := db.Connect(ctx, db.Credentials{DSN: cfg.DatabaseDSN})
				if err != nil {
					// Quote enrichment is supplementary; the sheet still
					// gets the manifests' values.
					a.log.Warn().Err(err).Msg("order database unavailable, skipping quote enrichment")
				} else {
					defer database.Close()
					opts = append(opts, jobsync.WithDatabase(database))
				}
			}

			runner, err := jobsync.New(cfg.Root, api, opts...)
			if err != nil {
				return err
			}

			stats, err := runner.Run(ctx)
			if err != nil {
				return err
			}
			stats.Log(a.log)

			if failed := len(stats.Sync.Failed); failed > 0 {
				return fmt.Errorf("%d batch(es) failed, sheet may be partially updated", failed)
			}
			return nil
		},
	}

	syncCmd.Flags().StringVar(&root, "root", "", "job folder root (overrides scan.root)")
	syncCmd.Flags().StringVar(&sheetID, "sheet-id", "", "target sheet identifier (overrides sheet.id)")
	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute and log the plan without applying it")

	return syncCmd
}

// runnerOptions builds the runner options shared by the scan and sync
// commands from the loaded configuration. A configured mapping that
// names unknown local fields is a configuration error.
func (a *App) runnerOptions() ([]jobsync.Option, error) {
	cfg := a.config
	mapping, err := cfg.SheetMapping()
	if err != nil {
		return nil, err
	}
	opts := []jobsync.Option{
		jobsync.WithLogger(a.log),
		jobsync.WithMapping(mapping),
		jobsync.WithBatchSizes(cfg.DeleteBatchSize, cfg.AddBatchSize, cfg.UpdateBatchSize),
	}
	if cfg.ManifestName != "" {
		opts = append(opts, jobsync.WithManifestName(cfg.ManifestName))
	}
	if cfg.CacheFile != "" {
		opts = append(opts, jobsync.WithCacheFile(cfg.CacheFile))
	}
	if cfg.ReportFile != "" {
		opts = append(opts, jobsync.WithReportFile(cfg.ReportFile))
	}
	if len(cfg.ExcludedStatuses) > 0 {
		opts = append(opts, jobsync.WithExcludedStatuses(cfg.ExcludedStatuses))
	}
	return opts, nil
}
