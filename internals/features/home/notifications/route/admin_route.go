package route

import (
	"github.com/gofiber/fiber/v2"

	"internhub_backend/internals/features/home/notifications/controller"
	"internhub_backend/internals/repository"
)

func NotificationAdminRoutes(admin fiber.Router, store repository.Store) {
	ctrl := controller.NewNotificationController(store)

	admin.Post("/notifications", ctrl.Create) // 🟢 send a notification to one user
}
