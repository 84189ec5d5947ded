package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"internhub_backend/internals/middlewares/logger"
)

// SetupMiddlewares installs the app-wide chain: panic recovery, CORS, access
// log and the global rate limit.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}
