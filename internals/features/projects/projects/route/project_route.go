package route

import (
	"github.com/gofiber/fiber/v2"

	"internhub_backend/internals/features/projects/projects/controller"
	"internhub_backend/internals/features/projects/projects/service"
	"internhub_backend/internals/repository"
)

func ProjectUserRoutes(user fiber.Router, store repository.Store) {
	ctrl := controller.NewProjectController(service.New(store))

	projects := user.Group("/projects")
	projects.Get("/", ctrl.List)
	projects.Post("/", ctrl.Create)
	projects.Get("/:id", ctrl.Detail)
	projects.Patch("/:id", ctrl.Update)
	projects.Patch("/:id/status", ctrl.UpdateStatus)
	projects.Patch("/:id/team-lead", ctrl.AssignTeamLead)

	user.Get("/team-leads", ctrl.TeamLeads)
}

func ProjectAdminRoutes(admin fiber.Router, store repository.Store) {
	ctrl := controller.NewProjectController(service.New(store))

	projects := admin.Group("/projects")
	projects.Get("/", ctrl.List)
	projects.Get("/:id", ctrl.Detail)
	projects.Patch("/:id/status", ctrl.ForceStatus)
	projects.Delete("/:id", ctrl.Delete)
}
