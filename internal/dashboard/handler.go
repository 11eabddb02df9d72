package dashboard

import (
	"strconv"

	"dailybook-backend/internal/ledger"
	"dailybook-backend/internal/logging"

	"github.com/gofiber/fiber/v2"
)

type SummaryPoint struct {
	Date     string  `json:"date"`
	Sales    float64 `json:"sales"`
	Expenses float64 `json:"expenses"`
	Advance  float64 `json:"advance"`
	Closing  float64 `json:"closing"`
}

type GrandTotals struct {
	Sales    float64 `json:"sales"`
	Expenses float64 `json:"expenses"`
	Advance  float64 `json:"advance"`
}

type SummaryResponse struct {
	Days        int            `json:"days"`
	Points      []SummaryPoint `json:"points"`
	GrandTotals GrandTotals    `json:"grand_totals"`
}

// GET /api/dashboard/summary?days=7
// Chart series over the most recent Summary rows, oldest first.
func SummaryHandler(repo *ledger.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		days := 7
		if s := c.Query("days"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "days must be a positive number")
			}
			days = n
		}

		summaries, err := repo.Summaries(c.UserContext())
		if err != nil {
			logging.LogError(logging.L(), "dashboard", "SummaryHandler", "summaries", nil, err)
			return fiber.NewError(fiber.StatusBadGateway, "Could not read the spreadsheet")
		}
		if len(summaries) > days {
			summaries = summaries[len(summaries)-days:]
		}

		resp := SummaryResponse{Days: days, Points: make([]SummaryPoint, 0, len(summaries))}
		for _, s := range summaries {
			resp.Points = append(resp.Points, SummaryPoint{
				Date:     s.Date,
				Sales:    s.Sales.InexactFloat64(),
				Expenses: s.Expenses.InexactFloat64(),
				Advance:  s.Advance.InexactFloat64(),
				Closing:  s.Closing.InexactFloat64(),
			})
			resp.GrandTotals.Sales += s.Sales.InexactFloat64()
			resp.GrandTotals.Expenses += s.Expenses.InexactFloat64()
			resp.GrandTotals.Advance += s.Advance.InexactFloat64()
		}

		return c.JSON(resp)
	}
}
