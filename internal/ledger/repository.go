package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"dailybook-backend/internal/models"
	"dailybook-backend/internal/sheetstore"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	salesRange    = "A:F"
	expensesRange = "A:D"
	advancesRange = "A:E"
	summaryRange  = "A:F"
)

// Repository maps a day's composite record onto rows of the four sheets.
// Mutations are serialized behind a mutex: the multi-sheet writes and the
// chain recalculation have no transaction around them, so two interleaved
// edits would corrupt the balance chain.
type Repository struct {
	store  sheetstore.Store
	recalc *Recalculator
	log    *logrus.Logger

	mu  sync.Mutex
	now func() time.Time
}

func NewRepository(store sheetstore.Store, log *logrus.Logger) *Repository {
	return &Repository{
		store:  store,
		recalc: NewRecalculator(store, log),
		log:    log,
		now:    time.Now,
	}
}

// GetDate composes the daily record for one date. Returns ErrNotFound when
// the Summary sheet has no row for it, regardless of the other sheets.
func (r *Repository) GetDate(ctx context.Context, date string) (*models.DailyRecord, error) {
	summaries, err := r.readSummary(ctx)
	if err != nil {
		return nil, err
	}
	var summary *models.BalanceSummary
	for i := range summaries {
		if summaries[i].Date == date {
			summary = &summaries[i].BalanceSummary
			break
		}
	}
	if summary == nil {
		return nil, ErrNotFound
	}

	rec := &models.DailyRecord{
		Date:    date,
		Opening: summary.Opening,
		Closing: summary.Closing,
	}

	salesRows, err := r.store.GetRows(ctx, models.SheetSales, salesRange)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(salesRows); i++ {
		row := salesRows[i]
		if col(row, 0) != date {
			continue
		}
		rec.Cash = models.ParseAmount(col(row, 1))
		rec.UPI = models.ParseAmount(col(row, 2))
		rec.Card = models.ParseAmount(col(row, 3))
		rec.TotalSales = models.ParseAmount(col(row, 4))
		break
	}

	expenses, err := r.ListExpenses(ctx, date)
	if err != nil {
		return nil, err
	}
	rec.Expenses = expenses
	for _, e := range expenses {
		rec.TotalExpenses = rec.TotalExpenses.Add(e.Amount)
	}

	advances, err := r.ListAdvances(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(advances) > 0 {
		adv := advances[0]
		rec.Advance = &adv
	}

	return rec, nil
}

// Create appends the composite record: one Sales row, the expense rows, an
// advance row when the amount is positive, and the Summary row. The caller
// supplies the opening balance; totals and the closing balance are derived
// here so the conservation invariant holds by construction.
func (r *Repository) Create(ctx context.Context, rec *models.DailyRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := r.now().UTC().Format(time.RFC3339)
	rec.TotalSales = rec.Cash.Add(rec.UPI).Add(rec.Card)
	rec.TotalExpenses = decimal.Zero
	for _, e := range rec.Expenses {
		rec.TotalExpenses = rec.TotalExpenses.Add(e.Amount)
	}
	rec.Closing = rec.Opening.Add(rec.TotalSales).Sub(rec.TotalExpenses).Sub(rec.AdvanceAmount())

	err := r.store.AppendRows(ctx, models.SheetSales, [][]interface{}{{
		rec.Date, rec.Cash.String(), rec.UPI.String(), rec.Card.String(), rec.TotalSales.String(), ts,
	}})
	if err != nil {
		return err
	}

	if len(rec.Expenses) > 0 {
		rows := make([][]interface{}, 0, len(rec.Expenses))
		for _, e := range rec.Expenses {
			rows = append(rows, []interface{}{rec.Date, e.Description, e.Amount.String(), ts})
		}
		if err := r.store.AppendRows(ctx, models.SheetExpenses, rows); err != nil {
			return err
		}
	}

	if rec.Advance != nil && rec.Advance.Amount.IsPositive() {
		err := r.store.AppendRows(ctx, models.SheetAdvances, [][]interface{}{{
			rec.Date, rec.Advance.Employee, rec.Advance.Amount.String(), rec.Advance.Remarks, ts,
		}})
		if err != nil {
			return err
		}
	}

	return r.store.AppendRows(ctx, models.SheetSummary, [][]interface{}{{
		rec.Date,
		rec.Opening.String(),
		rec.TotalSales.String(),
		rec.TotalExpenses.String(),
		rec.AdvanceAmount().String(),
		rec.Closing.String(),
	}})
}

// Update rewrites the date's rows in place: Sales updated, Expenses
// replaced wholesale, the advance updated or inserted, and the Summary
// row's numeric fields rewritten. The stored opening balance is preserved
// rather than trusting the caller's copy, which may be stale. Afterwards
// the balance chain is recalculated for every later date.
func (r *Repository) Update(ctx context.Context, date string, rec *models.DailyRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	summaries, err := r.readSummary(ctx)
	if err != nil {
		return err
	}
	var summary *summaryRow
	for i := range summaries {
		if summaries[i].Date == date {
			summary = &summaries[i]
			break
		}
	}
	if summary == nil {
		return ErrNotFound
	}

	rec.TotalSales = rec.Cash.Add(rec.UPI).Add(rec.Card)
	rec.TotalExpenses = decimal.Zero
	for _, e := range rec.Expenses {
		rec.TotalExpenses = rec.TotalExpenses.Add(e.Amount)
	}
	opening := summary.Opening
	closing := opening.Add(rec.TotalSales).Sub(rec.TotalExpenses).Sub(rec.AdvanceAmount())

	if err := r.updateSalesRow(ctx, date, rec); err != nil {
		return err
	}
	if err := r.replaceExpenseRows(ctx, date, rec.Expenses); err != nil {
		return err
	}
	if err := r.upsertAdvanceRow(ctx, date, rec.Advance); err != nil {
		return err
	}

	rng := fmt.Sprintf("B%d:F%d", summary.sheetRow, summary.sheetRow)
	err = r.store.UpdateRange(ctx, models.SheetSummary, rng, [][]interface{}{{
		opening.String(),
		rec.TotalSales.String(),
		rec.TotalExpenses.String(),
		rec.AdvanceAmount().String(),
		closing.String(),
	}})
	if err != nil {
		return err
	}

	updated, err := r.recalc.Run(ctx, date)
	if err != nil {
		return fmt.Errorf("recalculate chain after %s: %w", date, err)
	}
	if updated > 0 {
		r.log.WithFields(logrus.Fields{"date": date, "rows": updated}).Info("balance chain recalculated")
	}
	return nil
}

func (r *Repository) updateSalesRow(ctx context.Context, date string, rec *models.DailyRecord) error {
	rows, err := r.store.GetRows(ctx, models.SheetSales, salesRange)
	if err != nil {
		return err
	}
	for i := 1; i < len(rows); i++ {
		if col(rows[i], 0) != date {
			continue
		}
		rng := fmt.Sprintf("B%d:E%d", i+1, i+1)
		return r.store.UpdateRange(ctx, models.SheetSales, rng, [][]interface{}{{
			rec.Cash.String(), rec.UPI.String(), rec.Card.String(), rec.TotalSales.String(),
		}})
	}
	return fmt.Errorf("sales row missing for %s", date)
}

func (r *Repository) replaceExpenseRows(ctx context.Context, date string, expenses []models.ExpenseRecord) error {
	rows, err := r.store.GetRows(ctx, models.SheetExpenses, expensesRange)
	if err != nil {
		return err
	}
	var stale []int
	for i := 1; i < len(rows); i++ {
		if col(rows[i], 0) == date {
			stale = append(stale, i)
		}
	}
	if err := r.store.DeleteRows(ctx, models.SheetExpenses, stale); err != nil {
		return err
	}
	if len(expenses) == 0 {
		return nil
	}

	ts := r.now().UTC().Format(time.RFC3339)
	fresh := make([][]interface{}, 0, len(expenses))
	for _, e := range expenses {
		fresh = append(fresh, []interface{}{date, e.Description, e.Amount.String(), ts})
	}
	return r.store.AppendRows(ctx, models.SheetExpenses, fresh)
}

func (r *Repository) upsertAdvanceRow(ctx context.Context, date string, adv *models.AdvanceRecord) error {
	rows, err := r.store.GetRows(ctx, models.SheetAdvances, advancesRange)
	if err != nil {
		return err
	}

	var employee, remarks string
	amount := decimal.Zero
	if adv != nil {
		employee, remarks, amount = adv.Employee, adv.Remarks, adv.Amount
	}

	for i := 1; i < len(rows); i++ {
		if col(rows[i], 0) != date {
			continue
		}
		rng := fmt.Sprintf("B%d:D%d", i+1, i+1)
		return r.store.UpdateRange(ctx, models.SheetAdvances, rng, [][]interface{}{{
			employee, amount.String(), remarks,
		}})
	}

	if !amount.IsPositive() {
		return nil
	}
	ts := r.now().UTC().Format(time.RFC3339)
	return r.store.AppendRows(ctx, models.SheetAdvances, [][]interface{}{{
		date, employee, amount.String(), remarks, ts,
	}})
}

// ListDates returns every entered date, most recent first.
func (r *Repository) ListDates(ctx context.Context) ([]string, error) {
	summaries, err := r.readSummary(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(summaries))
	dates := make([]string, 0, len(summaries))
	for _, s := range summaries {
		if _, ok := seen[s.Date]; ok {
			continue
		}
		seen[s.Date] = struct{}{}
		dates = append(dates, s.Date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

// ExistsForDate checks the Summary sheet only.
func (r *Repository) ExistsForDate(ctx context.Context, date string) (bool, error) {
	summaries, err := r.readSummary(ctx)
	if err != nil {
		return false, err
	}
	for _, s := range summaries {
		if s.Date == date {
			return true, nil
		}
	}
	return false, nil
}

// MissedDates lists the calendar days between the last entered date and
// yesterday that have no entry yet. Empty when the book is up to date or
// has never been written.
func (r *Repository) MissedDates(ctx context.Context) ([]string, error) {
	dates, err := r.ListDates(ctx)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, nil
	}
	sort.Strings(dates)
	last := dates[len(dates)-1]

	yesterday := r.now().AddDate(0, 0, -1).Format(models.DateLayout)
	if last >= yesterday {
		return nil, nil
	}

	lastDay, err := time.Parse(models.DateLayout, last)
	if err != nil {
		return nil, fmt.Errorf("malformed date %q in Summary: %w", last, err)
	}

	var missed []string
	for d := lastDay.AddDate(0, 0, 1); d.Format(models.DateLayout) <= yesterday; d = d.AddDate(0, 0, 1) {
		missed = append(missed, d.Format(models.DateLayout))
	}
	return missed, nil
}

// ExpenseSuggestions returns the distinct expense descriptions used so far,
// first-seen order, for form autocomplete.
func (r *Repository) ExpenseSuggestions(ctx context.Context) ([]string, error) {
	rows, err := r.store.GetRows(ctx, models.SheetExpenses, "B:B")
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var out []string
	for i, row := range rows {
		desc := col(row, 0)
		if desc == "" {
			continue
		}
		if i == 0 && desc == "Description" {
			continue
		}
		if _, ok := seen[desc]; ok {
			continue
		}
		seen[desc] = struct{}{}
		out = append(out, desc)
	}
	return out, nil
}

// DefaultOpeningBalance is the closing balance of the latest entered date
// strictly before the given one, zero when no earlier date exists. Used to
// seed the Summary row of a brand-new entry.
func (r *Repository) DefaultOpeningBalance(ctx context.Context, date string) (decimal.Decimal, error) {
	summaries, err := r.readSummary(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	best := -1
	for i, s := range summaries {
		if s.Date >= date {
			continue
		}
		if best == -1 || s.Date > summaries[best].Date {
			best = i
		}
	}
	if best == -1 {
		return decimal.Zero, nil
	}
	return summaries[best].Closing, nil
}

// ComputeBalance derives the day's balance from the raw Sales, Expenses and
// AdvanceSalary rows instead of the stored Summary row, with the opening
// balance taken from the previous date's closing. Useful as a cross-check
// and for dates not yet summarized.
func (r *Repository) ComputeBalance(ctx context.Context, date string) (models.BalanceSummary, error) {
	bal := models.BalanceSummary{Date: date}

	salesRows, err := r.store.GetRows(ctx, models.SheetSales, salesRange)
	if err != nil {
		return bal, err
	}
	for i := 1; i < len(salesRows); i++ {
		if col(salesRows[i], 0) == date {
			bal.Sales = bal.Sales.Add(models.ParseAmount(col(salesRows[i], 4)))
		}
	}

	expenseRows, err := r.store.GetRows(ctx, models.SheetExpenses, expensesRange)
	if err != nil {
		return bal, err
	}
	for i := 1; i < len(expenseRows); i++ {
		if col(expenseRows[i], 0) == date {
			bal.Expenses = bal.Expenses.Add(models.ParseAmount(col(expenseRows[i], 2)))
		}
	}

	advanceRows, err := r.store.GetRows(ctx, models.SheetAdvances, advancesRange)
	if err != nil {
		return bal, err
	}
	for i := 1; i < len(advanceRows); i++ {
		if col(advanceRows[i], 0) == date {
			bal.Advance = bal.Advance.Add(models.ParseAmount(col(advanceRows[i], 2)))
		}
	}

	bal.Opening, err = r.DefaultOpeningBalance(ctx, date)
	if err != nil {
		return bal, err
	}
	bal.Closing = bal.Opening.Add(bal.Sales).Sub(bal.Expenses).Sub(bal.Advance)
	return bal, nil
}

// Summaries returns every Summary row sorted by date ascending.
func (r *Repository) Summaries(ctx context.Context) ([]models.BalanceSummary, error) {
	rows, err := r.readSummary(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.BalanceSummary, 0, len(rows))
	for _, s := range rows {
		out = append(out, s.BalanceSummary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// AddSale appends a bare Sales row without touching the Summary sheet.
func (r *Repository) AddSale(ctx context.Context, s models.SalesRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := r.now().UTC().Format(time.RFC3339)
	total := s.Cash.Add(s.UPI).Add(s.Card)
	return r.store.AppendRows(ctx, models.SheetSales, [][]interface{}{{
		s.Date, s.Cash.String(), s.UPI.String(), s.Card.String(), total.String(), ts,
	}})
}

// AddExpense appends a bare Expenses row.
func (r *Repository) AddExpense(ctx context.Context, e models.ExpenseRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := r.now().UTC().Format(time.RFC3339)
	return r.store.AppendRows(ctx, models.SheetExpenses, [][]interface{}{{
		e.Date, e.Description, e.Amount.String(), ts,
	}})
}

// AddAdvance appends a bare AdvanceSalary row.
func (r *Repository) AddAdvance(ctx context.Context, a models.AdvanceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := r.now().UTC().Format(time.RFC3339)
	return r.store.AppendRows(ctx, models.SheetAdvances, [][]interface{}{{
		a.Date, a.Employee, a.Amount.String(), a.Remarks, ts,
	}})
}

// ListSales reads Sales rows, all of them or just one date's.
func (r *Repository) ListSales(ctx context.Context, date string) ([]models.SalesRecord, error) {
	rows, err := r.store.GetRows(ctx, models.SheetSales, salesRange)
	if err != nil {
		return nil, err
	}
	var out []models.SalesRecord
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if date != "" && col(row, 0) != date {
			continue
		}
		out = append(out, models.SalesRecord{
			Date:  col(row, 0),
			Cash:  models.ParseAmount(col(row, 1)),
			UPI:   models.ParseAmount(col(row, 2)),
			Card:  models.ParseAmount(col(row, 3)),
			Total: models.ParseAmount(col(row, 4)),
		})
	}
	return out, nil
}

// ListExpenses reads Expenses rows, all of them or just one date's.
func (r *Repository) ListExpenses(ctx context.Context, date string) ([]models.ExpenseRecord, error) {
	rows, err := r.store.GetRows(ctx, models.SheetExpenses, expensesRange)
	if err != nil {
		return nil, err
	}
	var out []models.ExpenseRecord
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if date != "" && col(row, 0) != date {
			continue
		}
		out = append(out, models.ExpenseRecord{
			Date:        col(row, 0),
			Description: col(row, 1),
			Amount:      models.ParseAmount(col(row, 2)),
		})
	}
	return out, nil
}

// ListAdvances reads AdvanceSalary rows, all of them or just one date's.
func (r *Repository) ListAdvances(ctx context.Context, date string) ([]models.AdvanceRecord, error) {
	rows, err := r.store.GetRows(ctx, models.SheetAdvances, advancesRange)
	if err != nil {
		return nil, err
	}
	var out []models.AdvanceRecord
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if date != "" && col(row, 0) != date {
			continue
		}
		out = append(out, models.AdvanceRecord{
			Date:     col(row, 0),
			Employee: col(row, 1),
			Amount:   models.ParseAmount(col(row, 2)),
			Remarks:  col(row, 3),
		})
	}
	return out, nil
}

func (r *Repository) readSummary(ctx context.Context) ([]summaryRow, error) {
	rows, err := r.store.GetRows(ctx, models.SheetSummary, summaryRange)
	if err != nil {
		return nil, err
	}
	return parseSummaryRows(rows), nil
}

// col returns the i'th cell; the API omits trailing empty cells, so short
// rows read as empty.
func col(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}
