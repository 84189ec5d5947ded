// file: internals/features/users/auth/route/auth_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	controller "internhub_backend/internals/features/users/auth/controller"
	"internhub_backend/internals/features/users/auth/service"
	rateLimiter "internhub_backend/internals/middlewares"
	authMiddleware "internhub_backend/internals/middlewares/auth"
)

// AuthRoutes mounts /api/auth. Login and register are public; the rest need
// a session.
func AuthRoutes(app *fiber.App, svc *service.Service) {
	authController := controller.NewAuthController(svc)

	baseAuth := app.Group("/api/auth")

	// 🔓 Public
	baseAuth.Post("/login", rateLimiter.LoginRateLimiter(), authController.Login)
	baseAuth.Post("/admin/login", rateLimiter.LoginRateLimiter(), authController.AdminLogin)
	baseAuth.Post("/register", rateLimiter.RegisterRateLimiter(), authController.Register)

	// 🔐 Session
	requireSession := authMiddleware.AuthMiddleware(svc)
	baseAuth.Post("/logout", requireSession, authController.Logout)
	baseAuth.Get("/me", requireSession, authController.Me)
}
