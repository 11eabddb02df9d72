package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

// Sheet titles inside the backing spreadsheet. Column order is positional
// and must match the header rows below.
const (
	SheetSales    = "Sales"
	SheetExpenses = "Expenses"
	SheetAdvances = "AdvanceSalary"
	SheetSummary  = "Summary"
	SheetAuditLog = "AuditLog"
)

var SheetHeaders = map[string][]string{
	SheetSales:    {"Date", "Cash", "UPI", "Card", "Total Sales", "Timestamp"},
	SheetExpenses: {"Date", "Description", "Amount", "Timestamp"},
	SheetAdvances: {"Date", "Employee", "Amount", "Remarks", "Timestamp"},
	SheetSummary:  {"Date", "Opening Balance", "Total Sales", "Total Expenses", "Advance Salary", "Closing Balance"},
	SheetAuditLog: {"Timestamp", "User", "Action", "Date", "Description"},
}

// SalesRecord is one row of the Sales sheet: a day's takings split by
// payment method. Date is the unique key within the sheet.
type SalesRecord struct {
	Date      string
	Cash      decimal.Decimal
	UPI       decimal.Decimal
	Card      decimal.Decimal
	Total     decimal.Decimal
	Timestamp time.Time
}

// ExpenseRecord is one row of the Expenses sheet. A date may own any number
// of expense rows.
type ExpenseRecord struct {
	Date        string
	Description string
	Amount      decimal.Decimal
	Timestamp   time.Time
}

// AdvanceRecord is one row of the AdvanceSalary sheet. At most one advance
// per date survives an edit; the update path overwrites in place.
type AdvanceRecord struct {
	Date      string
	Employee  string
	Amount    decimal.Decimal
	Remarks   string
	Timestamp time.Time
}

// BalanceSummary is one row of the Summary sheet. The Summary row is the
// existence marker for a date: no Summary row means the date was never
// entered, whatever the other sheets contain.
//
// Per-row invariant: Closing == Opening + Sales - Expenses - Advance.
// Chain invariant: Opening of a date equals Closing of the previous
// entered date.
type BalanceSummary struct {
	Date     string
	Opening  decimal.Decimal
	Sales    decimal.Decimal
	Expenses decimal.Decimal
	Advance  decimal.Decimal
	Closing  decimal.Decimal
}

// DailyRecord is the composite view of one calendar day across all four
// sheets.
type DailyRecord struct {
	Date          string
	Cash          decimal.Decimal
	UPI           decimal.Decimal
	Card          decimal.Decimal
	TotalSales    decimal.Decimal
	Expenses      []ExpenseRecord
	TotalExpenses decimal.Decimal
	Advance       *AdvanceRecord
	Opening       decimal.Decimal
	Closing       decimal.Decimal
}

// AdvanceAmount returns the advance for the day, zero when none was given.
func (r *DailyRecord) AdvanceAmount() decimal.Decimal {
	if r.Advance == nil {
		return decimal.Zero
	}
	return r.Advance.Amount
}

// ParseAmount reads a money cell. Sheets hands cells back as strings;
// blank or malformed cells count as zero, matching how the sheet itself
// treats them in formulas.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD calendar day.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
