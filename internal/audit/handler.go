package audit

import (
	"dailybook-backend/internal/logging"

	"github.com/gofiber/fiber/v2"
)

// GET /api/audit-logs
func ListAuditLogsHandler(logger *Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entries, err := logger.List(c.UserContext())
		if err != nil {
			logging.LogError(logger.log, "audit", "ListAuditLogsHandler", "read trail", nil, err)
			return fiber.NewError(fiber.StatusBadGateway, "Could not read audit trail")
		}
		return c.JSON(fiber.Map{"logs": entries})
	}
}
