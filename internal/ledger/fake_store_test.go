package ledger

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"dailybook-backend/internal/models"
)

// fakeStore is an in-memory Store with the same row/index semantics as the
// real adapter: header at index 0, zero-based delete indices, A1 ranges.
type fakeStore struct {
	sheets      map[string][][]string
	updateCalls map[string]int
	appendCalls map[string]int
	deleteCalls int
}

func newFakeStore() *fakeStore {
	f := &fakeStore{
		sheets:      make(map[string][][]string),
		updateCalls: make(map[string]int),
		appendCalls: make(map[string]int),
	}
	for title, header := range models.SheetHeaders {
		f.sheets[title] = [][]string{append([]string(nil), header...)}
	}
	return f
}

func (f *fakeStore) GetRows(_ context.Context, sheet, rng string) ([][]string, error) {
	rows, ok := f.sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("no sheet named %q", sheet)
	}

	startCol := int(rng[0] - 'A')
	endCol := startCol
	if i := strings.Index(rng, ":"); i >= 0 && i+1 < len(rng) {
		endCol = int(rng[i+1] - 'A')
	}

	out := make([][]string, len(rows))
	for idx, row := range rows {
		if startCol == 0 {
			out[idx] = append([]string(nil), row...)
			continue
		}
		proj := make([]string, 0, endCol-startCol+1)
		for c := startCol; c <= endCol; c++ {
			if c < len(row) {
				proj = append(proj, row[c])
			} else {
				proj = append(proj, "")
			}
		}
		out[idx] = proj
	}
	return out, nil
}

func (f *fakeStore) AppendRows(_ context.Context, sheet string, rows [][]interface{}) error {
	f.appendCalls[sheet]++
	for _, row := range rows {
		cols := make([]string, len(row))
		for i, v := range row {
			cols[i] = fmt.Sprint(v)
		}
		f.sheets[sheet] = append(f.sheets[sheet], cols)
	}
	return nil
}

func (f *fakeStore) UpdateRange(_ context.Context, sheet, rng string, rows [][]interface{}) error {
	f.updateCalls[sheet]++

	start := rng
	if i := strings.Index(rng, ":"); i >= 0 {
		start = rng[:i]
	}
	colIdx := int(start[0] - 'A')
	rowNum, err := strconv.Atoi(start[1:])
	if err != nil {
		return fmt.Errorf("bad range %q", rng)
	}
	rowIdx := rowNum - 1

	grid := f.sheets[sheet]
	for r, vals := range rows {
		tr := rowIdx + r
		for len(grid) <= tr {
			grid = append(grid, []string{})
		}
		row := grid[tr]
		for ci, v := range vals {
			tc := colIdx + ci
			for len(row) <= tc {
				row = append(row, "")
			}
			row[tc] = fmt.Sprint(v)
		}
		grid[tr] = row
	}
	f.sheets[sheet] = grid
	return nil
}

func (f *fakeStore) DeleteRows(_ context.Context, sheet string, rowIndices []int) error {
	if len(rowIndices) == 0 {
		return nil
	}
	f.deleteCalls++

	sorted := append([]int(nil), rowIndices...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	rows := f.sheets[sheet]
	for _, idx := range sorted {
		if idx < 0 || idx >= len(rows) {
			return fmt.Errorf("delete index %d out of range", idx)
		}
		rows = append(rows[:idx], rows[idx+1:]...)
	}
	f.sheets[sheet] = rows
	return nil
}

func (f *fakeStore) SheetIDs(_ context.Context) (map[string]int64, error) {
	ids := make(map[string]int64, len(f.sheets))
	var i int64
	for title := range f.sheets {
		ids[title] = i
		i++
	}
	return ids, nil
}

func (f *fakeStore) EnsureSheets(_ context.Context, headers map[string][]string) error {
	for title, header := range headers {
		if _, ok := f.sheets[title]; !ok {
			f.sheets[title] = [][]string{append([]string(nil), header...)}
		}
	}
	return nil
}

func (f *fakeStore) seedSummary(rows ...[]string) {
	f.sheets[models.SheetSummary] = append(f.sheets[models.SheetSummary], rows...)
}

// summaryCell reads a cell of the Summary sheet by 1-based sheet row.
func (f *fakeStore) summaryCell(sheetRow, col int) string {
	row := f.sheets[models.SheetSummary][sheetRow-1]
	if col >= len(row) {
		return ""
	}
	return row[col]
}
