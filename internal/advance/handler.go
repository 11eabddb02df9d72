package advance

import (
	"dailybook-backend/internal/ledger"
	"dailybook-backend/internal/logging"
	"dailybook-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

type CreateAdvanceRequest struct {
	Date     string  `json:"date" validate:"required,datetime=2006-01-02"`
	Employee string  `json:"employeeName" validate:"required"`
	Amount   float64 `json:"amount" validate:"gt=0"`
	Notes    string  `json:"notes"`
}

type AdvanceResponse struct {
	Date     string  `json:"date"`
	Employee string  `json:"employeeName"`
	Amount   float64 `json:"amount"`
	Notes    string  `json:"notes"`
}

// POST /api/advances
func CreateAdvanceHandler(repo *ledger.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateAdvanceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Missing or invalid fields: "+err.Error())
		}

		rec := models.AdvanceRecord{
			Date:     body.Date,
			Employee: body.Employee,
			Amount:   decimal.NewFromFloat(body.Amount),
			Remarks:  body.Notes,
		}
		if err := repo.AddAdvance(c.UserContext(), rec); err != nil {
			logging.LogError(logging.L(), "advance", "CreateAdvanceHandler", "append", body.Date, err)
			return fiber.NewError(fiber.StatusBadGateway, "Could not record the advance")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Advance recorded successfully"})
	}
}

// GET /api/advances?date=YYYY-MM-DD
func ListAdvancesHandler(repo *ledger.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		date := c.Query("date")
		rows, err := repo.ListAdvances(c.UserContext(), date)
		if err != nil {
			logging.LogError(logging.L(), "advance", "ListAdvancesHandler", "list", date, err)
			return fiber.NewError(fiber.StatusBadGateway, "Could not read the spreadsheet")
		}

		resp := make([]AdvanceResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, AdvanceResponse{
				Date:     r.Date,
				Employee: r.Employee,
				Amount:   r.Amount.InexactFloat64(),
				Notes:    r.Remarks,
			})
		}
		return c.JSON(resp)
	}
}
