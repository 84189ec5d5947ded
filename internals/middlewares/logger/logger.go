package logger

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// LoggerMiddleware writes one access line per request. Health probes are
// skipped.
func LoggerMiddleware() fiber.Handler {
	return logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Format:     "[${time}] ${ip} - ${locals:requestid} ${method} ${path} user=${locals:user_id} - ${status} - ${latency}\n",
	})
}
