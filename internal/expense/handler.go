package expense

import (
	"dailybook-backend/internal/ledger"
	"dailybook-backend/internal/logging"
	"dailybook-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

type CreateExpenseRequest struct {
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	Description string  `json:"description" validate:"required"`
	Amount      float64 `json:"amount" validate:"gt=0"`
}

type ExpenseResponse struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// POST /api/expenses
// Quick entry: appends an Expenses row only, outside the daily composite.
func CreateExpenseHandler(repo *ledger.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Missing or invalid fields: "+err.Error())
		}

		rec := models.ExpenseRecord{
			Date:        body.Date,
			Description: body.Description,
			Amount:      decimal.NewFromFloat(body.Amount),
		}
		if err := repo.AddExpense(c.UserContext(), rec); err != nil {
			logging.LogError(logging.L(), "expense", "CreateExpenseHandler", "append", body.Date, err)
			return fiber.NewError(fiber.StatusBadGateway, "Could not record the expense")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Expense recorded successfully"})
	}
}

// GET /api/expenses?date=YYYY-MM-DD
func ListExpensesHandler(repo *ledger.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		date := c.Query("date")
		rows, err := repo.ListExpenses(c.UserContext(), date)
		if err != nil {
			logging.LogError(logging.L(), "expense", "ListExpensesHandler", "list", date, err)
			return fiber.NewError(fiber.StatusBadGateway, "Could not read the spreadsheet")
		}

		resp := make([]ExpenseResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, ExpenseResponse{
				Date:        r.Date,
				Description: r.Description,
				Amount:      r.Amount.InexactFloat64(),
			})
		}
		return c.JSON(resp)
	}
}

// GET /api/expense-suggestions
// Distinct descriptions from past expenses, for form autocomplete.
func SuggestionsHandler(repo *ledger.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		suggestions, err := repo.ExpenseSuggestions(c.UserContext())
		if err != nil {
			logging.LogError(logging.L(), "expense", "SuggestionsHandler", "suggestions", nil, err)
			return fiber.NewError(fiber.StatusBadGateway, "Could not read the spreadsheet")
		}
		if suggestions == nil {
			suggestions = []string{}
		}
		return c.JSON(fiber.Map{"suggestions": suggestions})
	}
}
