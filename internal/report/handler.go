package report

import (
	"fmt"

	"dailybook-backend/internal/ledger"
	"dailybook-backend/internal/logging"
	"dailybook-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/reports/export?from=YYYY-MM-DD&to=YYYY-MM-DD
// Streams the Summary rows of the range as an xlsx workbook.
func ExportHandler(repo *ledger.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from := c.Query("from")
		to := c.Query("to")
		if from == "" || to == "" {
			return fiber.NewError(fiber.StatusBadRequest, "from and to are required (YYYY-MM-DD)")
		}
		if !models.ValidDate(from) || !models.ValidDate(to) {
			return fiber.NewError(fiber.StatusBadRequest, "dates must be YYYY-MM-DD")
		}
		if from > to {
			return fiber.NewError(fiber.StatusBadRequest, "from must not be after to")
		}

		summaries, err := repo.Summaries(c.UserContext())
		if err != nil {
			logging.LogError(logging.L(), "report", "ExportHandler", "summaries", nil, err)
			return fiber.NewError(fiber.StatusBadGateway, "Could not read the spreadsheet")
		}

		f := excelize.NewFile()
		sheet := "Summary"
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build the report")
		}

		headers := []string{"Date", "Opening Balance", "Total Sales", "Total Expenses", "Advance Salary", "Closing Balance"}
		if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
			logging.LogError(logging.L(), "report", "ExportHandler", "write header", nil, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build the report")
		}

		row := 2
		for _, s := range summaries {
			if s.Date < from || s.Date > to {
				continue
			}
			cells := []interface{}{
				s.Date,
				s.Opening.InexactFloat64(),
				s.Sales.InexactFloat64(),
				s.Expenses.InexactFloat64(),
				s.Advance.InexactFloat64(),
				s.Closing.InexactFloat64(),
			}
			if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &cells); err != nil {
				logging.LogError(logging.L(), "report", "ExportHandler", "write row", s.Date, err)
				return fiber.NewError(fiber.StatusInternalServerError, "Could not build the report")
			}
			row++
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			logging.LogError(logging.L(), "report", "ExportHandler", "write workbook", nil, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build the report")
		}

		filename := fmt.Sprintf("summary_%s_%s.xlsx", from, to)
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename=`+filename)
		return c.Send(buf.Bytes())
	}
}
