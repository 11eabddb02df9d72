package ledger

import (
	"context"
	"fmt"
	"sort"

	"dailybook-backend/internal/models"
	"dailybook-backend/internal/sheetstore"

	"github.com/sirupsen/logrus"
)

// summaryRow is a Summary sheet row together with the sheet position it was
// read from, so a recalculated row can be written back to the same place
// even when the walk order differs from the stored order.
type summaryRow struct {
	sheetRow int // 1-based sheet row number
	models.BalanceSummary
}

// Recalculator restores the balance chain after a date's financial fields
// change: every date after the edited one gets its opening balance set to
// the previous date's closing and its closing recomputed from its own
// unchanged sales, expenses and advance.
//
// Rows are walked in calendar-date order, not stored order, so a backfilled
// date that was appended out of sequence still lands in the right place in
// the chain. Each row is written with its own update call; a failure midway
// leaves later rows unrecalculated and the error is propagated.
type Recalculator struct {
	store sheetstore.Store
	log   *logrus.Logger
}

func NewRecalculator(store sheetstore.Store, log *logrus.Logger) *Recalculator {
	return &Recalculator{store: store, log: log}
}

// Run walks the chain forward from fromDate and returns how many rows were
// rewritten. Editing the chain's most recent date rewrites nothing.
// Returns ErrNotFound when fromDate has no Summary row.
func (rc *Recalculator) Run(ctx context.Context, fromDate string) (int, error) {
	rows, err := rc.store.GetRows(ctx, models.SheetSummary, summaryRange)
	if err != nil {
		return 0, err
	}

	entries := parseSummaryRows(rows)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })

	start := -1
	for i, e := range entries {
		if e.Date == fromDate {
			start = i
			break
		}
	}
	if start == -1 {
		return 0, ErrNotFound
	}

	updated := 0
	prevClosing := entries[start].Closing
	for i := start + 1; i < len(entries); i++ {
		e := entries[i]
		opening := prevClosing
		closing := opening.Add(e.Sales).Sub(e.Expenses).Sub(e.Advance)

		rng := fmt.Sprintf("B%d:F%d", e.sheetRow, e.sheetRow)
		err := rc.store.UpdateRange(ctx, models.SheetSummary, rng, [][]interface{}{{
			opening.String(),
			e.Sales.String(),
			e.Expenses.String(),
			e.Advance.String(),
			closing.String(),
		}})
		if err != nil {
			return updated, fmt.Errorf("rewrite balance row for %s: %w", e.Date, err)
		}

		rc.log.WithFields(logrus.Fields{"date": e.Date, "row": e.sheetRow}).Debug("rewrote balance row")
		updated++
		prevClosing = closing
	}
	return updated, nil
}

// parseSummaryRows turns raw sheet rows into summary entries, skipping the
// header and anything whose first cell is not a calendar date.
func parseSummaryRows(rows [][]string) []summaryRow {
	entries := make([]summaryRow, 0, len(rows))
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		date := col(row, 0)
		if !models.ValidDate(date) {
			continue
		}
		entries = append(entries, summaryRow{
			sheetRow: i + 1,
			BalanceSummary: models.BalanceSummary{
				Date:     date,
				Opening:  models.ParseAmount(col(row, 1)),
				Sales:    models.ParseAmount(col(row, 2)),
				Expenses: models.ParseAmount(col(row, 3)),
				Advance:  models.ParseAmount(col(row, 4)),
				Closing:  models.ParseAmount(col(row, 5)),
			},
		})
	}
	return entries
}
