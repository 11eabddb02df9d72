package main

import (
	"context"
	"strings"

	"dailybook-backend/internal/advance"
	"dailybook-backend/internal/audit"
	"dailybook-backend/internal/auth"
	"dailybook-backend/internal/balance"
	"dailybook-backend/internal/config"
	"dailybook-backend/internal/daily"
	"dailybook-backend/internal/dashboard"
	"dailybook-backend/internal/expense"
	"dailybook-backend/internal/ledger"
	"dailybook-backend/internal/logging"
	"dailybook-backend/internal/report"
	"dailybook-backend/internal/sales"
	"dailybook-backend/internal/sheetstore"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	logg := logging.L()
	cfg := config.Load()

	store, err := sheetstore.New(context.Background(), sheetstore.Config{
		SpreadsheetID: cfg.SpreadsheetID,
		ClientEmail:   cfg.GoogleClientEmail,
		PrivateKey:    cfg.GooglePrivateKey,
	}, logg)
	if err != nil {
		logg.Fatalf("could not create sheets client: %v", err)
	}

	repo := ledger.NewRepository(store, logg)
	auditor := audit.NewLogger(store, logg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			logg.WithField("error", err.Error()).Error("unexpected error")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	// Daily composite entry
	protected.Get("/daily-data", daily.GetDailyDataHandler(repo))
	protected.Post("/daily-data", daily.SaveDailyDataHandler(repo, auditor))
	protected.Get("/available-dates", daily.AvailableDatesHandler(repo))
	protected.Get("/date-exists", daily.DateExistsHandler(repo))
	protected.Get("/missed-dates", daily.MissedDatesHandler(repo))
	protected.Post("/init-sheet", daily.InitSheetHandler(store, auditor))

	// Quick single-sheet entries
	protected.Post("/sales", sales.CreateSaleHandler(repo))
	protected.Get("/sales", sales.ListSalesHandler(repo))
	protected.Post("/expenses", expense.CreateExpenseHandler(repo))
	protected.Get("/expenses", expense.ListExpensesHandler(repo))
	protected.Get("/expense-suggestions", expense.SuggestionsHandler(repo))
	protected.Post("/advances", advance.CreateAdvanceHandler(repo))
	protected.Get("/advances", advance.ListAdvancesHandler(repo))

	// Balances and reporting
	protected.Get("/balance", balance.GetBalanceHandler(repo))
	protected.Get("/dashboard/summary", dashboard.SummaryHandler(repo))
	protected.Get("/reports/export", report.ExportHandler(repo))
	protected.Get("/audit-logs", audit.ListAuditLogsHandler(auditor))

	logg.Info("server listening on port ", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logg.Fatal(err)
	}
}
