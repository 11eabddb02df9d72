package ledger

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"dailybook-backend/internal/logging"
	"dailybook-backend/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestRecalculate_EditedEarlierDatePropagates(t *testing.T) {
	fs := newFakeStore()
	// 2024-01-01 was just edited: expenses went from 200 to 300, its row is
	// already rewritten with closing 700. 2024-01-02 still carries the old
	// opening of 800.
	fs.seedSummary(
		[]string{"2024-01-01", "0", "1000", "300", "0", "700"},
		[]string{"2024-01-02", "800", "500", "100", "50", "1150"},
	)

	rc := NewRecalculator(fs, logging.L())
	updated, err := rc.Run(context.Background(), "2024-01-01")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if updated != 1 {
		t.Fatalf("expected 1 rewritten row, got %d", updated)
	}

	if got := fs.summaryCell(3, 1); got != "700" {
		t.Errorf("2024-01-02 opening = %s, want 700", got)
	}
	if got := fs.summaryCell(3, 5); got != "1050" {
		t.Errorf("2024-01-02 closing = %s, want 1050", got)
	}
}

func TestRecalculate_LastDateRewritesNothing(t *testing.T) {
	fs := newFakeStore()
	fs.seedSummary(
		[]string{"2024-01-01", "0", "1000", "200", "0", "800"},
		[]string{"2024-01-02", "800", "500", "100", "50", "1150"},
	)

	rc := NewRecalculator(fs, logging.L())
	updated, err := rc.Run(context.Background(), "2024-01-02")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if updated != 0 {
		t.Fatalf("expected 0 rewritten rows, got %d", updated)
	}
	if fs.updateCalls[models.SheetSummary] != 0 {
		t.Fatalf("expected no update calls, got %d", fs.updateCalls[models.SheetSummary])
	}
}

func TestRecalculate_Idempotent(t *testing.T) {
	fs := newFakeStore()
	fs.seedSummary(
		[]string{"2024-01-01", "0", "1000", "300", "0", "700"},
		[]string{"2024-01-02", "800", "500", "100", "50", "1150"},
		[]string{"2024-01-03", "1150", "900", "0", "0", "2050"},
	)

	rc := NewRecalculator(fs, logging.L())
	if _, err := rc.Run(context.Background(), "2024-01-01"); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	after := make([][]string, len(fs.sheets[models.SheetSummary]))
	for i, row := range fs.sheets[models.SheetSummary] {
		after[i] = append([]string(nil), row...)
	}

	if _, err := rc.Run(context.Background(), "2024-01-01"); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if !reflect.DeepEqual(after, fs.sheets[models.SheetSummary]) {
		t.Fatalf("second run changed rows:\nfirst:  %v\nsecond: %v", after, fs.sheets[models.SheetSummary])
	}
}

func TestRecalculate_BackfilledDateWalksInDateOrder(t *testing.T) {
	fs := newFakeStore()
	// 2024-01-02 was backfilled after 2024-01-03 and sits below it in the
	// sheet. The chain must still run 01 -> 02 -> 03 and each row must be
	// rewritten in its own sheet position.
	fs.seedSummary(
		[]string{"2024-01-01", "0", "1000", "300", "0", "700"},
		[]string{"2024-01-03", "0", "900", "0", "0", "900"},
		[]string{"2024-01-02", "0", "500", "100", "50", "350"},
	)

	rc := NewRecalculator(fs, logging.L())
	updated, err := rc.Run(context.Background(), "2024-01-01")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if updated != 2 {
		t.Fatalf("expected 2 rewritten rows, got %d", updated)
	}

	// Sheet row 4 holds 2024-01-02: opening 700, closing 700+500-100-50.
	if got := fs.summaryCell(4, 1); got != "700" {
		t.Errorf("2024-01-02 opening = %s, want 700", got)
	}
	if got := fs.summaryCell(4, 5); got != "1050" {
		t.Errorf("2024-01-02 closing = %s, want 1050", got)
	}
	// Sheet row 3 holds 2024-01-03: opening 1050, closing 1050+900.
	if got := fs.summaryCell(3, 1); got != "1050" {
		t.Errorf("2024-01-03 opening = %s, want 1050", got)
	}
	if got := fs.summaryCell(3, 5); got != "1950" {
		t.Errorf("2024-01-03 closing = %s, want 1950", got)
	}
}

func TestRecalculate_LogsEachRewrittenRow(t *testing.T) {
	fs := newFakeStore()
	fs.seedSummary(
		[]string{"2024-01-01", "0", "1000", "300", "0", "700"},
		[]string{"2024-01-02", "800", "500", "100", "50", "1150"},
	)

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	rc := NewRecalculator(fs, logger)
	if _, err := rc.Run(context.Background(), "2024-01-01"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(hook.Entries) != 1 {
		t.Fatalf("log entries = %d, want 1", len(hook.Entries))
	}
	if got := hook.LastEntry().Data["date"]; got != "2024-01-02" {
		t.Errorf("logged date = %v, want 2024-01-02", got)
	}
}

func TestRecalculate_UnknownDate(t *testing.T) {
	fs := newFakeStore()
	fs.seedSummary([]string{"2024-01-01", "0", "1000", "200", "0", "800"})

	rc := NewRecalculator(fs, logging.L())
	_, err := rc.Run(context.Background(), "2024-02-15")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
