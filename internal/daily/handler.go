package daily

import (
	"errors"
	"fmt"
	"time"

	"dailybook-backend/internal/audit"
	"dailybook-backend/internal/auth"
	"dailybook-backend/internal/ledger"
	"dailybook-backend/internal/logging"
	"dailybook-backend/internal/models"
	"dailybook-backend/internal/sheetstore"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

type ExpenseItem struct {
	Description string  `json:"description" validate:"required"`
	Amount      float64 `json:"amount" validate:"gte=0"`
}

type AdvanceItem struct {
	Employee string  `json:"employee"`
	Amount   float64 `json:"amount" validate:"gte=0"`
	Remarks  string  `json:"remarks"`
}

type SaveDailyDataRequest struct {
	Date     string        `json:"date" validate:"required,datetime=2006-01-02"`
	Cash     float64       `json:"cash" validate:"gte=0"`
	UPI      float64       `json:"upi" validate:"gte=0"`
	Card     float64       `json:"card" validate:"gte=0"`
	Expenses []ExpenseItem `json:"expenses" validate:"dive"`
	Advance  AdvanceItem   `json:"advanceSalary"`
	IsUpdate bool          `json:"isUpdate"`
}

type DailyDataResponse struct {
	Date           string        `json:"date"`
	Cash           float64       `json:"cash"`
	UPI            float64       `json:"upi"`
	Card           float64       `json:"card"`
	TotalSales     float64       `json:"totalSales"`
	Expenses       []ExpenseItem `json:"expenses"`
	TotalExpenses  float64       `json:"totalExpenses"`
	Advance        AdvanceItem   `json:"advanceSalary"`
	OpeningBalance float64       `json:"openingBalance"`
	ClosingBalance float64       `json:"closingBalance"`
}

// GET /api/daily-data?date=YYYY-MM-DD
// Without a date, returns just the opening balance a new entry for today
// would start from.
func GetDailyDataHandler(repo *ledger.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		date := c.Query("date")
		if date == "" {
			today := time.Now().Format(models.DateLayout)
			opening, err := repo.DefaultOpeningBalance(c.UserContext(), today)
			if err != nil {
				logging.LogError(logging.L(), "daily", "GetDailyDataHandler", "default opening", nil, err)
				return fiber.NewError(fiber.StatusBadGateway, "Could not read the balance sheet")
			}
			return c.JSON(fiber.Map{"openingBalance": opening.InexactFloat64()})
		}

		if !models.ValidDate(date) {
			return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
		}

		rec, err := repo.GetDate(c.UserContext(), date)
		if err != nil {
			if errors.Is(err, ledger.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "No data found for the specified date")
			}
			logging.LogError(logging.L(), "daily", "GetDailyDataHandler", "get date", date, err)
			return fiber.NewError(fiber.StatusBadGateway, "Could not read the spreadsheet")
		}

		return c.JSON(toResponse(rec))
	}
}

// POST /api/daily-data
// Creates a day's composite entry, or rewrites it when isUpdate is set. An
// update also recalculates the balance chain for every later date.
func SaveDailyDataHandler(repo *ledger.Repository, auditor *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SaveDailyDataRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Missing or invalid fields: "+err.Error())
		}

		rec := toRecord(&body)
		ctx := c.UserContext()

		if body.IsUpdate {
			if err := repo.Update(ctx, body.Date, rec); err != nil {
				if errors.Is(err, ledger.ErrNotFound) {
					return fiber.NewError(fiber.StatusNotFound, "No data found for the specified date")
				}
				logging.LogError(logging.L(), "daily", "SaveDailyDataHandler", "update", body.Date, err)
				return fiber.NewError(fiber.StatusBadGateway, "Could not update the spreadsheet")
			}
			writeAudit(c, auditor, audit.ActionUpdate, body.Date, rec)
			return c.JSON(fiber.Map{"success": true, "message": "Data updated successfully"})
		}

		opening, err := repo.DefaultOpeningBalance(ctx, body.Date)
		if err != nil {
			logging.LogError(logging.L(), "daily", "SaveDailyDataHandler", "default opening", body.Date, err)
			return fiber.NewError(fiber.StatusBadGateway, "Could not read the balance sheet")
		}
		rec.Opening = opening

		if err := repo.Create(ctx, rec); err != nil {
			logging.LogError(logging.L(), "daily", "SaveDailyDataHandler", "create", body.Date, err)
			return fiber.NewError(fiber.StatusBadGateway, "Could not save to the spreadsheet")
		}
		writeAudit(c, auditor, audit.ActionCreate, body.Date, rec)
		return c.JSON(fiber.Map{"success": true, "message": "Data saved successfully"})
	}
}

// GET /api/available-dates
func AvailableDatesHandler(repo *ledger.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dates, err := repo.ListDates(c.UserContext())
		if err != nil {
			logging.LogError(logging.L(), "daily", "AvailableDatesHandler", "list dates", nil, err)
			return fiber.NewError(fiber.StatusBadGateway, "Could not read the spreadsheet")
		}
		return c.JSON(fiber.Map{"dates": dates})
	}
}

// GET /api/date-exists?date=YYYY-MM-DD
func DateExistsHandler(repo *ledger.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		date := c.Query("date")
		if date == "" {
			return fiber.NewError(fiber.StatusBadRequest, "date parameter is required")
		}
		exists, err := repo.ExistsForDate(c.UserContext(), date)
		if err != nil {
			logging.LogError(logging.L(), "daily", "DateExistsHandler", "exists", date, err)
			return fiber.NewError(fiber.StatusBadGateway, "Could not read the spreadsheet")
		}
		return c.JSON(fiber.Map{"exists": exists})
	}
}

// GET /api/missed-dates
func MissedDatesHandler(repo *ledger.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		missed, err := repo.MissedDates(c.UserContext())
		if err != nil {
			logging.LogError(logging.L(), "daily", "MissedDatesHandler", "missed dates", nil, err)
			return fiber.NewError(fiber.StatusBadGateway, "Could not read the spreadsheet")
		}
		if missed == nil {
			missed = []string{}
		}
		return c.JSON(fiber.Map{"missedDates": missed})
	}
}

// POST /api/init-sheet
// Creates any missing sheets with their header rows.
func InitSheetHandler(store sheetstore.Store, auditor *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := store.EnsureSheets(c.UserContext(), models.SheetHeaders); err != nil {
			logging.LogError(logging.L(), "daily", "InitSheetHandler", "ensure sheets", nil, err)
			return fiber.NewError(fiber.StatusBadGateway, "Could not initialize the spreadsheet")
		}
		writeAudit(c, auditor, audit.ActionInit, "", nil)
		return c.JSON(fiber.Map{"success": true, "message": "Sheet initialized successfully"})
	}
}

func toRecord(body *SaveDailyDataRequest) *models.DailyRecord {
	rec := &models.DailyRecord{
		Date: body.Date,
		Cash: decimal.NewFromFloat(body.Cash),
		UPI:  decimal.NewFromFloat(body.UPI),
		Card: decimal.NewFromFloat(body.Card),
	}
	for _, e := range body.Expenses {
		rec.Expenses = append(rec.Expenses, models.ExpenseRecord{
			Date:        body.Date,
			Description: e.Description,
			Amount:      decimal.NewFromFloat(e.Amount),
		})
	}
	if body.Advance.Amount > 0 {
		rec.Advance = &models.AdvanceRecord{
			Date:     body.Date,
			Employee: body.Advance.Employee,
			Amount:   decimal.NewFromFloat(body.Advance.Amount),
			Remarks:  body.Advance.Remarks,
		}
	}
	return rec
}

func toResponse(rec *models.DailyRecord) DailyDataResponse {
	resp := DailyDataResponse{
		Date:           rec.Date,
		Cash:           rec.Cash.InexactFloat64(),
		UPI:            rec.UPI.InexactFloat64(),
		Card:           rec.Card.InexactFloat64(),
		TotalSales:     rec.TotalSales.InexactFloat64(),
		Expenses:       make([]ExpenseItem, 0, len(rec.Expenses)),
		TotalExpenses:  rec.TotalExpenses.InexactFloat64(),
		OpeningBalance: rec.Opening.InexactFloat64(),
		ClosingBalance: rec.Closing.InexactFloat64(),
	}
	for _, e := range rec.Expenses {
		resp.Expenses = append(resp.Expenses, ExpenseItem{
			Description: e.Description,
			Amount:      e.Amount.InexactFloat64(),
		})
	}
	if rec.Advance != nil {
		resp.Advance = AdvanceItem{
			Employee: rec.Advance.Employee,
			Amount:   rec.Advance.Amount.InexactFloat64(),
			Remarks:  rec.Advance.Remarks,
		}
	}
	return resp
}

func writeAudit(c *fiber.Ctx, auditor *audit.Logger, action audit.Action, date string, rec *models.DailyRecord) {
	desc := "sheet initialized"
	if rec != nil {
		desc = fmt.Sprintf("sales %s, expenses %s, advance %s",
			rec.Cash.Add(rec.UPI).Add(rec.Card).String(),
			rec.TotalExpenses.String(),
			rec.AdvanceAmount().String())
	}
	err := auditor.Write(c.UserContext(), audit.Entry{
		User:        auth.UserEmail(c),
		Action:      action,
		Date:        date,
		Description: desc,
	})
	if err != nil {
		logging.LogError(logging.L(), "daily", "writeAudit", string(action), date, err)
	}
}
