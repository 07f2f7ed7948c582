package syncer

import (
	"context"
	"slices"

	"github.com/rs/zerolog"

	"github.com/shopfloor/jobsync/pkg/logging"
	"github.com/shopfloor/jobsync/pkg/sheet"
)

// Default batch sizes per remote call.
const (
	DefaultDeleteBatchSize = 240
	DefaultAddBatchSize    = 450
	DefaultUpdateBatchSize = 450
)

// BatchFailure records one failed remote batch with enough context for
// the caller's retry decision. The error classifies the cause.
type BatchFailure struct {
	Kind   string // "delete", "add", "update"
	RowIDs []int64
	Size   int
	Err    error
}

// Result reports what an Apply actually changed on the remote sheet.
type Result struct {
	Deleted      int
	Added        int
	UpdatedCells int
	Failed       []BatchFailure
}

// Applier submits sync plans to the remote sheet in bounded batches.
type Applier struct {
	api         sheet.API
	deleteBatch int
	addBatch    int
	updateBatch int
	log         *zerolog.Logger
}

// ApplierOption configures an Applier.
type ApplierOption func(*Applier)

// WithBatchSizes overrides the maximum rows per delete/add call and
// cells per update call. Values below one keep the defaults.
func WithBatchSizes(deletes, adds, updates int) ApplierOption {
	return func(a *Applier) {
		if deletes > 0 {
			a.deleteBatch = deletes
		}
		if adds > 0 {
			a.addBatch = adds
		}
		if updates > 0 {
			a.updateBatch = updates
		}
	}
}

// WithApplierLogger overrides the applier's logger.
func WithApplierLogger(log *zerolog.Logger) ApplierOption {
	return func(a *Applier) { a.log = log }
}

// NewApplier creates an Applier over the given sheet API.
func NewApplier(api sheet.API, opts ...ApplierOption) *Applier {
	a := &Applier{
		api:         api,
		deleteBatch: DefaultDeleteBatchSize,
		addBatch:    DefaultAddBatchSize,
		updateBatch: DefaultUpdateBatchSize,
		log:         logging.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply submits the plan: deletes first, then adds, then updates, so
// the remote never holds a transient duplicate work-order number. Each
// batch is fault-isolated; a failed batch is recorded and logged but
// does not prevent subsequent batches from being attempted. No batch is
// retried here; that decision belongs to the caller.
func (a *Applier) Apply(ctx context.Context, plan *Plan) Result {
	var result Result

	for batch := range slices.Chunk(plan.DeleteIDs, a.deleteBatch) {
		if err := a.api.DeleteRows(ctx, batch); err != nil {
			a.recordFailure(&result, BatchFailure{
				Kind:   "delete",
				RowIDs: slices.Clone(batch),
				Size:   len(batch),
				Err:    err,
			})
			continue
		}
		result.Deleted += len(batch)
	}

	for batch := range slices.Chunk(plan.Adds, a.addBatch) {
		if err := a.api.AddRows(ctx, batch); err != nil {
			a.recordFailure(&result, BatchFailure{
				Kind: "add",
				Size: len(batch),
				Err:  err,
			})
			continue
		}
		result.Added += len(batch)
	}

	for batch := range slices.Chunk(plan.Updates, a.updateBatch) {
		if err := a.api.UpdateCells(ctx, batch); err != nil {
			a.recordFailure(&result, BatchFailure{
				Kind:   "update",
				RowIDs: updateRowIDs(batch),
				Size:   len(batch),
				Err:    err,
			})
			continue
		}
		result.UpdatedCells += len(batch)
	}

	a.log.Info().
		Int("deleted", result.Deleted).
		Int("added", result.Added).
		Int("updated_cells", result.UpdatedCells).
		Int("failed_batches", len(result.Failed)).
		Msg("sync plan applied")

	return result
}

// recordFailure logs a failed batch with full context and keeps it on
// the result.
func (a *Applier) recordFailure(result *Result, failure BatchFailure) {
	a.log.Error().
		Err(failure.Err).
		Str("kind", failure.Kind).
		Int("size", failure.Size).
		Ints64("row_ids", failure.RowIDs).
		Msg("sync batch failed")
	result.Failed = append(result.Failed, failure)
}

// updateRowIDs collects the distinct row identifiers touched by an
// update batch, preserving batch order.
func updateRowIDs(batch []sheet.CellUpdate) []int64 {
	ids := make([]int64, 0, len(batch))
	seen := make(map[int64]bool, len(batch))
	for _, u := range batch {
		if !seen[u.RowID] {
			seen[u.RowID] = true
			ids = append(ids, u.RowID)
		}
	}
	return ids
}
