package syncer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfloor/jobsync/pkg/errors"
	"github.com/shopfloor/jobsync/pkg/logging"
	"github.com/shopfloor/jobsync/pkg/sheet"
	"github.com/shopfloor/jobsync/pkg/syncer"
)

// fakeAPI records every batch call and fails the call numbers listed in
// failOn (1-based, counted across all operations).
type fakeAPI struct {
	calls   []string
	deletes [][]int64
	adds    [][]sheet.RowValues
	updates [][]sheet.CellUpdate
	failOn  map[int]error
}

func (f *fakeAPI) fail() error {
	if err, ok := f.failOn[len(f.calls)]; ok {
		return err
	}
	return nil
}

func (f *fakeAPI) ListRows(context.Context) ([]sheet.Row, error) {
	return nil, nil
}

func (f *fakeAPI) DeleteRows(_ context.Context, ids []int64) error {
	f.calls = append(f.calls, "delete")
	f.deletes = append(f.deletes, ids)
	return f.fail()
}

func (f *fakeAPI) AddRows(_ context.Context, rows []sheet.RowValues) error {
	f.calls = append(f.calls, "add")
	f.adds = append(f.adds, rows)
	return f.fail()
}

func (f *fakeAPI) UpdateCells(_ context.Context, updates []sheet.CellUpdate) error {
	f.calls = append(f.calls, "update")
	f.updates = append(f.updates, updates)
	return f.fail()
}

func ids(n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(i + 1)
	}
	return out
}

func TestApplyOrderIsDeleteAddUpdate(t *testing.T) {
	api := &fakeAPI{}
	applier := syncer.NewApplier(api, syncer.WithApplierLogger(&logging.Nop))

	plan := &syncer.Plan{
		DeleteIDs: []int64{1},
		Adds:      []sheet.RowValues{{"WO#": "A"}},
		Updates:   []sheet.CellUpdate{{RowID: 2, Column: "Qty", Value: "5"}},
	}
	result := applier.Apply(context.Background(), plan)

	assert.Equal(t, []string{"delete", "add", "update"}, api.calls)
	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 1, result.UpdatedCells)
	assert.Empty(t, result.Failed)
}

func TestApplySplitsBatches(t *testing.T) {
	api := &fakeAPI{}
	applier := syncer.NewApplier(api,
		syncer.WithBatchSizes(100, 0, 0),
		syncer.WithApplierLogger(&logging.Nop))

	result := applier.Apply(context.Background(), &syncer.Plan{DeleteIDs: ids(250)})

	require.Len(t, api.deletes, 3)
	assert.Len(t, api.deletes[0], 100)
	assert.Len(t, api.deletes[1], 100)
	assert.Len(t, api.deletes[2], 50)
	assert.Equal(t, 250, result.Deleted)
}

func TestApplyDefaultBatchSizes(t *testing.T) {
	api := &fakeAPI{}
	applier := syncer.NewApplier(api, syncer.WithApplierLogger(&logging.Nop))

	adds := make([]sheet.RowValues, 451)
	for i := range adds {
		adds[i] = sheet.RowValues{"WO#": "A"}
	}
	result := applier.Apply(context.Background(), &syncer.Plan{DeleteIDs: ids(241), Adds: adds})

	assert.Len(t, api.deletes, 2) // 240 + 1
	assert.Len(t, api.adds, 2)    // 450 + 1
	assert.Equal(t, 241, result.Deleted)
	assert.Equal(t, 451, result.Added)
}

func TestApplyIsolatesFailedBatches(t *testing.T) {
	api := &fakeAPI{failOn: map[int]error{
		2: errors.NewAPIError("delete", 429, "rate limited"),
	}}
	applier := syncer.NewApplier(api,
		syncer.WithBatchSizes(10, 10, 10),
		syncer.WithApplierLogger(&logging.Nop))

	plan := &syncer.Plan{
		DeleteIDs: ids(25),
		Adds:      []sheet.RowValues{{"WO#": "A"}},
	}
	result := applier.Apply(context.Background(), plan)

	// All three delete batches attempted despite the second failing,
	// then the add batch.
	assert.Equal(t, []string{"delete", "delete", "delete", "add"}, api.calls)
	assert.Equal(t, 15, result.Deleted)
	assert.Equal(t, 1, result.Added)

	require.Len(t, result.Failed, 1)
	failure := result.Failed[0]
	assert.Equal(t, "delete", failure.Kind)
	assert.Equal(t, 10, failure.Size)
	assert.Len(t, failure.RowIDs, 10)
	assert.True(t, errors.IsRateLimited(failure.Err))
}

func TestApplyUpdateFailureKeepsRowContext(t *testing.T) {
	api := &fakeAPI{failOn: map[int]error{
		1: errors.NewAPIError("update", 503, "unavailable"),
	}}
	applier := syncer.NewApplier(api, syncer.WithApplierLogger(&logging.Nop))

	plan := &syncer.Plan{Updates: []sheet.CellUpdate{
		{RowID: 7, Column: "Qty", Value: "5"},
		{RowID: 7, Column: "Status", Value: "Kitting"},
		{RowID: 9, Column: "Qty", Value: "1"},
	}}
	result := applier.Apply(context.Background(), plan)

	assert.Zero(t, result.UpdatedCells)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, []int64{7, 9}, result.Failed[0].RowIDs)
	assert.True(t, errors.IsTransient(result.Failed[0].Err))
}

func TestApplyEmptyPlanMakesNoCalls(t *testing.T) {
	api := &fakeAPI{}
	applier := syncer.NewApplier(api, syncer.WithApplierLogger(&logging.Nop))

	result := applier.Apply(context.Background(), &syncer.Plan{})

	assert.Empty(t, api.calls)
	assert.Zero(t, result.Deleted+result.Added+result.UpdatedCells)
}
