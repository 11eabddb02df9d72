package sheetstore

import "context"

// Store is row-level access to the backing spreadsheet. Rows come back as
// strings in sheet order, header row included at index 0, so a slice index
// is also the zero-based row index the write operations expect.
type Store interface {
	// GetRows reads an A1-style range of a sheet, e.g. "A:F".
	GetRows(ctx context.Context, sheet, rng string) ([][]string, error)
	// AppendRows appends rows after the last data row of the sheet.
	AppendRows(ctx context.Context, sheet string, rows [][]interface{}) error
	// UpdateRange overwrites an A1-style range, e.g. "B3:F3".
	UpdateRange(ctx context.Context, sheet, rng string, rows [][]interface{}) error
	// DeleteRows removes rows by zero-based index. Indices may be given in
	// any order; they refer to positions before any deletion happens.
	DeleteRows(ctx context.Context, sheet string, rowIndices []int) error
	// SheetIDs maps sheet titles to the internal ids delete requests need.
	SheetIDs(ctx context.Context) (map[string]int64, error)
	// EnsureSheets creates any missing sheets and writes their header rows.
	EnsureSheets(ctx context.Context, headers map[string][]string) error
}
