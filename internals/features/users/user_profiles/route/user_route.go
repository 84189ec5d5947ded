package route

import (
	"github.com/gofiber/fiber/v2"

	"internhub_backend/internals/features/users/user_profiles/controller"
	"internhub_backend/internals/features/users/user_profiles/service"
)

func ProfileUserRoutes(user fiber.Router, svc *service.Service) {
	ctrl := controller.NewProfileController(svc)

	user.Patch("/profile", ctrl.UpdateMine)
	user.Post("/profile/avatar", ctrl.UploadAvatar)
	user.Get("/profiles/:id", ctrl.GetByID)
}
