package sales

import (
	"dailybook-backend/internal/ledger"
	"dailybook-backend/internal/logging"
	"dailybook-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

type CreateSaleRequest struct {
	Date       string  `json:"date" validate:"required,datetime=2006-01-02"`
	CashAmount float64 `json:"cashAmount" validate:"gte=0"`
	UPIAmount  float64 `json:"upiAmount" validate:"gte=0"`
	CardAmount float64 `json:"cardAmount" validate:"gte=0"`
}

type SaleResponse struct {
	Date       string  `json:"date"`
	CashAmount float64 `json:"cashAmount"`
	UPIAmount  float64 `json:"upiAmount"`
	CardAmount float64 `json:"cardAmount"`
	Total      float64 `json:"total"`
}

// POST /api/sales
// Quick entry: appends a Sales row only. The Summary sheet is untouched, so
// this does not make the date exist for the daily book.
func CreateSaleHandler(repo *ledger.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Missing or invalid fields: "+err.Error())
		}

		rec := models.SalesRecord{
			Date: body.Date,
			Cash: decimal.NewFromFloat(body.CashAmount),
			UPI:  decimal.NewFromFloat(body.UPIAmount),
			Card: decimal.NewFromFloat(body.CardAmount),
		}
		if err := repo.AddSale(c.UserContext(), rec); err != nil {
			logging.LogError(logging.L(), "sales", "CreateSaleHandler", "append", body.Date, err)
			return fiber.NewError(fiber.StatusBadGateway, "Could not record the sale")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Sale recorded successfully"})
	}
}

// GET /api/sales?date=YYYY-MM-DD
func ListSalesHandler(repo *ledger.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		date := c.Query("date")
		rows, err := repo.ListSales(c.UserContext(), date)
		if err != nil {
			logging.LogError(logging.L(), "sales", "ListSalesHandler", "list", date, err)
			return fiber.NewError(fiber.StatusBadGateway, "Could not read the spreadsheet")
		}

		resp := make([]SaleResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, SaleResponse{
				Date:       r.Date,
				CashAmount: r.Cash.InexactFloat64(),
				UPIAmount:  r.UPI.InexactFloat64(),
				CardAmount: r.Card.InexactFloat64(),
				Total:      r.Total.InexactFloat64(),
			})
		}
		return c.JSON(resp)
	}
}
