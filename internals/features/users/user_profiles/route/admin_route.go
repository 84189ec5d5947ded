package route

import (
	"github.com/gofiber/fiber/v2"

	"internhub_backend/internals/features/users/user_profiles/controller"
	"internhub_backend/internals/features/users/user_profiles/service"
)

func ProfileAdminRoutes(admin fiber.Router, svc *service.Service) {
	ctrl := controller.NewAdminUserController(svc)

	users := admin.Group("/users")
	users.Get("/", ctrl.List)
	users.Patch("/:id/approve", ctrl.Approve)
	users.Patch("/:id/reject", ctrl.Reject)
	users.Delete("/:id", ctrl.Delete)
}
