package dashboard

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"dailybook-backend/internal/ledger"
	"dailybook-backend/internal/logging"
	"dailybook-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// summaryStore serves canned Summary rows; the dashboard reads nothing else.
type summaryStore struct {
	rows [][]string
}

func (s *summaryStore) GetRows(_ context.Context, sheet, rng string) ([][]string, error) {
	if sheet == models.SheetSummary {
		return append([][]string{models.SheetHeaders[models.SheetSummary]}, s.rows...), nil
	}
	return [][]string{models.SheetHeaders[sheet]}, nil
}

func (s *summaryStore) AppendRows(_ context.Context, _ string, _ [][]interface{}) error { return nil }
func (s *summaryStore) UpdateRange(_ context.Context, _, _ string, _ [][]interface{}) error {
	return nil
}
func (s *summaryStore) DeleteRows(_ context.Context, _ string, _ []int) error     { return nil }
func (s *summaryStore) SheetIDs(_ context.Context) (map[string]int64, error)      { return nil, nil }
func (s *summaryStore) EnsureSheets(_ context.Context, _ map[string][]string) error { return nil }

func newSummaryApp(rows ...[]string) *fiber.App {
	repo := ledger.NewRepository(&summaryStore{rows: rows}, logging.L())
	app := fiber.New()
	app.Get("/api/dashboard/summary", SummaryHandler(repo))
	return app
}

func TestSummaryHandler_RejectsMalformedDays(t *testing.T) {
	app := newSummaryApp()

	for _, q := range []string{"7abc", "abc", "0", "-3"} {
		req := httptest.NewRequest(fiber.MethodGet, "/api/dashboard/summary?days="+q, nil)
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("days=%s: status = %d, want 400", q, resp.StatusCode)
		}
	}
}

func TestSummaryHandler_LastNDaysOldestFirst(t *testing.T) {
	app := newSummaryApp(
		[]string{"2024-01-01", "0", "1000", "200", "0", "800"},
		[]string{"2024-01-02", "800", "500", "100", "50", "1150"},
		[]string{"2024-01-03", "1150", "900", "0", "0", "2050"},
	)

	req := httptest.NewRequest(fiber.MethodGet, "/api/dashboard/summary?days=2", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var got SummaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Days != 2 || len(got.Points) != 2 {
		t.Fatalf("days/points = %d/%d, want 2/2", got.Days, len(got.Points))
	}
	if got.Points[0].Date != "2024-01-02" || got.Points[1].Date != "2024-01-03" {
		t.Errorf("point dates = %s, %s, want 2024-01-02, 2024-01-03", got.Points[0].Date, got.Points[1].Date)
	}
	if got.GrandTotals.Sales != 1400 {
		t.Errorf("grand total sales = %v, want 1400", got.GrandTotals.Sales)
	}
}

func TestSummaryHandler_DefaultWindow(t *testing.T) {
	app := newSummaryApp(
		[]string{"2024-01-01", "0", "1000", "200", "0", "800"},
	)

	req := httptest.NewRequest(fiber.MethodGet, "/api/dashboard/summary", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	var got SummaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Days != 7 || len(got.Points) != 1 {
		t.Errorf("days/points = %d/%d, want 7/1", got.Days, len(got.Points))
	}
}
