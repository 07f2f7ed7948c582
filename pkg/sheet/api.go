package sheet

import "context"

// API is the remote sheet contract. Implementations must treat each
// call as one remote mutation: the caller controls batching and never
// expects an implementation to retry on its own.
type API interface {
	// ListRows fetches the current remote row set.
	ListRows(ctx context.Context) ([]Row, error)

	// DeleteRows removes the identified rows in one call.
	DeleteRows(ctx context.Context, ids []int64) error

	// AddRows appends new rows in one call.
	AddRows(ctx context.Context, rows []RowValues) error

	// UpdateCells rewrites specific cells of specific rows in one call.
	UpdateCells(ctx context.Context, updates []CellUpdate) error
}
