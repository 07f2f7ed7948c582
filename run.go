package jobsync

import (
	"context"

	"github.com/shopfloor/jobsync/pkg/jobs"
	"github.com/shopfloor/jobsync/pkg/logging"
	"github.com/shopfloor/jobsync/pkg/report"
	"github.com/shopfloor/jobsync/pkg/sanitize"
	"github.com/shopfloor/jobsync/pkg/scanner"
	"github.com/shopfloor/jobsync/pkg/syncer"
)

// Dataset is the canonical output of the scan and sanitize stages.
// CreditHold carries the jobs withheld from the sheet because their
// manifest flags a credit hold; they are tracked here so callers can
// surface them, but they never enter the diff.
type Dataset struct {
	Records     []jobs.Record
	CreditHold  []jobs.Record
	Corrections []jobs.Correction
	Excluded    int
	Scan        scanner.Stats
}

// Collect runs the scan and sanitize stages: parse every manifest under
// the root (through the cache), coerce the raw values into canonical
// records, pull jobs on credit hold aside, and drop records in excluded
// statuses. A root-level access failure returns an empty dataset and
// the scan error; per-file failures are counted in the stats and
// skipped.
func (r *Runner) Collect(ctx context.Context) (*Dataset, error) {
	opts := []scanner.Option{scanner.WithLogger(r.log)}
	if r.manifestName != "" {
		opts = append(opts, scanner.WithManifestName(r.manifestName))
	}
	if r.cachePath != "" {
		opts = append(opts, scanner.WithCache(scanner.LoadCache(r.cachePath)))
	}

	scan := scanner.New(r.root, opts...)
	raws, stats, err := scan.Scan(ctx)
	if err != nil {
		return &Dataset{Scan: stats}, err
	}
	if saveErr := scan.Cache().Save(); saveErr != nil {
		// A stale cache only costs re-parses on the next run.
		r.log.Warn().Err(saveErr).Msg("could not persist manifest cache")
	}

	records, corrections := sanitize.New(r.sanitize).Dataset(raws)

	if r.database != nil {
		r.enrichQuotes(ctx, records)
	}

	active, held := r.splitCreditHold(records)
	if len(held) > 0 {
		r.log.Info().Int("jobs", len(held)).Msg("jobs on credit hold withheld from sheet")
	}

	filtered, excluded := r.filterStatuses(active)

	return &Dataset{
		Records:     filtered,
		CreditHold:  held,
		Corrections: corrections,
		Excluded:    excluded,
		Scan:        stats,
	}, nil
}

// Run executes the full pipeline: collect the canonical dataset, write
// the correction report, fetch the current remote state, and apply the
// minimal diff. Failed batches are reported in the stats, not as an
// error; the returned error covers only run-level failures (root
// unreadable, remote row set unreadable).
func (r *Runner) Run(ctx context.Context) (*RunStats, error) {
	ctx = logging.WithLogger(ctx, r.log)
	stats := &RunStats{}

	dataset, err := r.Collect(logging.WithOperation(ctx, "collect"))
	stats.Scan = dataset.Scan
	stats.Records = len(dataset.Records)
	stats.CreditHold = len(dataset.CreditHold)
	stats.Excluded = dataset.Excluded
	stats.Corrections = len(dataset.Corrections)
	if err != nil {
		return stats, err
	}

	if r.reportPath != "" {
		if err := report.New(dataset.Corrections).Write(r.reportPath); err != nil {
			// The corrections are already applied to the dataset;
			// losing the report must not lose the sync.
			r.log.Error().Err(err).Str("path", r.reportPath).Msg("could not write correction report")
		}
	}

	remote, err := r.api.ListRows(logging.WithOperation(ctx, "list"))
	if err != nil {
		return stats, err
	}
	stats.RemoteRows = len(remote)

	differ := syncer.NewDiffer(r.mapping, syncer.WithDifferLogger(r.log))
	plan := differ.Plan(dataset.Records, remote)
	if plan.Empty() {
		r.log.Info().Msg("remote sheet already matches local dataset")
		return stats, nil
	}

	if r.dryRun {
		r.log.Info().
			Int("deletes", len(plan.DeleteIDs)).
			Int("adds", len(plan.Adds)).
			Int("cell_updates", len(plan.Updates)).
			Msg("dry run, plan not applied")
		return stats, nil
	}

	applier := syncer.NewApplier(r.api,
		syncer.WithBatchSizes(r.deleteBatch, r.addBatch, r.updateBatch),
		syncer.WithApplierLogger(r.log))
	stats.Sync = applier.Apply(logging.WithOperation(ctx, "apply"), plan)

	return stats, nil
}

// enrichQuotes fills missing quote numbers from the order system. A
// lookup failure is logged and skipped; the sheet still gets the
// manifest's values.
func (r *Runner) enrichQuotes(ctx context.Context, records []jobs.Record) {
	var missing []string
	for i := range records {
		if records[i].QuoteNumber == r.sanitize.DefaultNumeric {
			missing = append(missing, records[i].WO)
		}
	}
	if len(missing) == 0 {
		return
	}

	quotes, err := r.database.LookupQuotes(ctx, missing)
	if err != nil {
		r.log.Warn().Err(err).Int("jobs", len(missing)).Msg("quote lookup failed")
		return
	}

	for i := range records {
		if quote, ok := quotes[records[i].WO]; ok && records[i].QuoteNumber == r.sanitize.DefaultNumeric {
			records[i].QuoteNumber = quote
		}
	}
}

// splitCreditHold pulls jobs flagged with a credit hold out of the
// active set. The hold takes precedence over the status filter: a held
// job is withheld from the sheet whatever its status says.
func (r *Runner) splitCreditHold(records []jobs.Record) (active, held []jobs.Record) {
	active = records[:0]
	for _, rec := range records {
		if rec.OnCreditHold() {
			held = append(held, rec)
			continue
		}
		active = append(active, rec)
	}
	return active, held
}

// filterStatuses drops records whose status is excluded.
func (r *Runner) filterStatuses(records []jobs.Record) ([]jobs.Record, int) {
	if len(r.excluded) == 0 {
		return records, 0
	}

	kept := records[:0]
	excluded := 0
	for _, rec := range records {
		if r.excluded[rec.Status] {
			excluded++
			continue
		}
		kept = append(kept, rec)
	}
	return kept, excluded
}
