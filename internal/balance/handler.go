package balance

import (
	"time"

	"dailybook-backend/internal/ledger"
	"dailybook-backend/internal/logging"
	"dailybook-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type BalanceResponse struct {
	Date           string  `json:"date"`
	OpeningBalance float64 `json:"openingBalance"`
	TotalSales     float64 `json:"totalSales"`
	TotalExpenses  float64 `json:"totalExpenses"`
	TotalAdvances  float64 `json:"totalAdvances"`
	ClosingBalance float64 `json:"closingBalance"`
}

// GET /api/balance?date=YYYY-MM-DD
// Computes the day's balance from the raw rows rather than the stored
// Summary row. Defaults to today.
func GetBalanceHandler(repo *ledger.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		date := c.Query("date")
		if date == "" {
			date = time.Now().Format(models.DateLayout)
		}
		if !models.ValidDate(date) {
			return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
		}

		bal, err := repo.ComputeBalance(c.UserContext(), date)
		if err != nil {
			logging.LogError(logging.L(), "balance", "GetBalanceHandler", "compute", date, err)
			return fiber.NewError(fiber.StatusBadGateway, "Could not read the spreadsheet")
		}

		return c.JSON(fiber.Map{"success": true, "data": BalanceResponse{
			Date:           bal.Date,
			OpeningBalance: bal.Opening.InexactFloat64(),
			TotalSales:     bal.Sales.InexactFloat64(),
			TotalExpenses:  bal.Expenses.InexactFloat64(),
			TotalAdvances:  bal.Advance.InexactFloat64(),
			ClosingBalance: bal.Closing.InexactFloat64(),
		}})
	}
}
