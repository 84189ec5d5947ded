package route

import (
	"github.com/gofiber/fiber/v2"

	"internhub_backend/internals/features/home/notifications/controller"
	"internhub_backend/internals/repository"
)

func NotificationUserRoutes(user fiber.Router, store repository.Store) {
	ctrl := controller.NewNotificationController(store)

	notification := user.Group("/notifications")
	notification.Get("/", ctrl.List)
	notification.Get("/unread-count", ctrl.UnreadCount)
	notification.Patch("/read-all", ctrl.MarkAllRead)
	notification.Patch("/:id/read", ctrl.MarkRead)

	msgCtrl := controller.NewMessageController(store)

	messages := user.Group("/messages")
	messages.Get("/", msgCtrl.List)
	messages.Post("/", msgCtrl.Send)
	messages.Patch("/:id/read", msgCtrl.MarkRead)
}
