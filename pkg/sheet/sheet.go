// Package sheet provides the remote sheet abstraction: list the current
// rows, and delete, add, or update rows in batches. The synchronizer
// depends only on these operations plus row and column addressing by
// name.
package sheet

// Row is the synchronizer's view of one remote record: a row identifier
// plus a mapping from column name to cell value. A Row exists only as
// long as the remote sheet contains it.
type Row struct {
	ID    int64             `json:"id"`
	Cells map[string]string `json:"cells"`
}

// Cell returns the value of the named column, or "" when the column is
// absent.
func (r *Row) Cell(column string) string {
	if r.Cells == nil {
		return ""
	}
	return r.Cells[column]
}

// RowValues is the full cell set of a row to be added.
type RowValues map[string]string

// CellUpdate rewrites one cell of one existing row.
type CellUpdate struct {
	RowID  int64  `json:"row_id"`
	Column string `json:"column"`
	Value  string `json:"value"`
}
