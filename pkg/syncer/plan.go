// Package syncer computes and applies the minimal set of remote sheet
// mutations needed to make the sheet match the canonical local dataset.
// The plan is a pure function of the two row sets: applying it twice
// without intervening change is a no-op on the second application.
package syncer

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/shopfloor/jobsync/pkg/jobs"
	"github.com/shopfloor/jobsync/pkg/logging"
	"github.com/shopfloor/jobsync/pkg/sheet"
)

// Plan is the computed diff between the local dataset and the remote
// row set: rows to delete, rows to add, and individual cells to update.
type Plan struct {
	DeleteIDs []int64
	Adds      []sheet.RowValues
	Updates   []sheet.CellUpdate
}

// Empty reports whether the plan contains no operations.
func (p *Plan) Empty() bool {
	return len(p.DeleteIDs) == 0 && len(p.Adds) == 0 && len(p.Updates) == 0
}

// Differ computes sync plans under a column mapping.
type Differ struct {
	mapping Mapping
	log     *zerolog.Logger
}

// DifferOption configures a Differ.
type DifferOption func(*Differ)

// WithDifferLogger overrides the differ's logger.
func WithDifferLogger(log *zerolog.Logger) DifferOption {
	return func(d *Differ) { d.log = log }
}

// NewDiffer creates a Differ. A nil mapping uses the default
// same-name mapping.
func NewDiffer(mapping Mapping, opts ...DifferOption) *Differ {
	if mapping == nil {
		mapping = DefaultMapping()
	}
	d := &Differ{mapping: mapping, log: logging.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Plan diffs the canonical local dataset against the current remote row
// set. Local records without a remote counterpart become adds; remote
// rows without a local counterpart become deletes; rows present on both
// sides get per-cell updates for exactly the columns whose values
// differ. Duplicate local work-order numbers resolve last-in-scan-order
// wins; duplicate remote rows beyond the first are scheduled for
// deletion.
func (d *Differ) Plan(local []jobs.Record, remote []sheet.Row) *Plan {
	plan := &Plan{}
	keyColumn := d.mapping.KeyColumn()

	// Index local records by work-order number, last record wins.
	localByWO := make(map[string]*jobs.Record, len(local))
	order := make([]string, 0, len(local))
	for i := range local {
		rec := &local[i]
		if prev, exists := localByWO[rec.WO]; exists {
			d.log.Warn().
				Str("wo", rec.WO).
				Str("kept", rec.SourcePath).
				Str("discarded", prev.SourcePath).
				Msg("duplicate work-order number in local dataset, last record wins")
		} else {
			order = append(order, rec.WO)
		}
		localByWO[rec.WO] = rec
	}

	// Index remote rows by work-order number.
	remoteByWO := make(map[string]*sheet.Row, len(remote))
	for i := range remote {
		row := &remote[i]
		wo := row.Cell(keyColumn)
		if _, exists := remoteByWO[wo]; exists || wo == "" {
			// Unkeyed or duplicate remote rows have no local
			// counterpart to converge on.
			plan.DeleteIDs = append(plan.DeleteIDs, row.ID)
			continue
		}
		remoteByWO[wo] = row
	}

	// Adds and updates, in scan order of the local dataset.
	for _, wo := range order {
		rec := localByWO[wo]
		row, exists := remoteByWO[wo]
		if !exists {
			plan.Adds = append(plan.Adds, d.project(rec))
			continue
		}
		for _, field := range d.mapping.Fields() {
			column := d.mapping[field]
			if value := rec.Value(field); value != row.Cell(column) {
				plan.Updates = append(plan.Updates, sheet.CellUpdate{
					RowID:  row.ID,
					Column: column,
					Value:  value,
				})
			}
		}
	}

	// Deletes: remote rows whose work-order number is not local.
	for wo, row := range remoteByWO {
		if _, exists := localByWO[wo]; !exists {
			plan.DeleteIDs = append(plan.DeleteIDs, row.ID)
		}
	}

	sortPlan(plan, keyColumn)
	return plan
}

// project renders a record as the full cell set of a new row.
func (d *Differ) project(rec *jobs.Record) sheet.RowValues {
	values := make(sheet.RowValues, len(d.mapping))
	for _, field := range d.mapping.Fields() {
		values[d.mapping[field]] = rec.Value(field)
	}
	return values
}

// sortPlan orders the plan's slices for deterministic output.
func sortPlan(plan *Plan, keyColumn string) {
	sort.Slice(plan.DeleteIDs, func(i, j int) bool {
		return plan.DeleteIDs[i] < plan.DeleteIDs[j]
	})
	sort.Slice(plan.Adds, func(i, j int) bool {
		return plan.Adds[i][keyColumn] < plan.Adds[j][keyColumn]
	})
	sort.Slice(plan.Updates, func(i, j int) bool {
		if plan.Updates[i].RowID != plan.Updates[j].RowID {
			return plan.Updates[i].RowID < plan.Updates[j].RowID
		}
		return plan.Updates[i].Column < plan.Updates[j].Column
	})
}
