// middlewares/cors.go

package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"internhub_backend/internals/configs"
)

// CorsMiddleware membuat middleware CORS; origins come from CORS_ALLOW_ORIGINS.
func CorsMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     configs.CorsAllowOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders:    "X-Request-ID",
		AllowCredentials: true,
	})
}
