package route

import (
	"github.com/gofiber/fiber/v2"

	"internhub_backend/internals/features/projects/tasks/controller"
	"internhub_backend/internals/features/projects/tasks/service"
	"internhub_backend/internals/repository"
)

func TaskUserRoutes(user fiber.Router, store repository.Store) {
	svc := service.New(store)
	taskCtrl := controller.NewTaskController(svc)
	appCtrl := controller.NewApplicationController(svc)

	tasks := user.Group("/tasks")
	tasks.Get("/", taskCtrl.List)
	tasks.Post("/", taskCtrl.Create)
	tasks.Get("/:id", taskCtrl.Detail)
	tasks.Patch("/:id", taskCtrl.Update)
	tasks.Patch("/:id/start", taskCtrl.Start)
	tasks.Get("/:id/applications", appCtrl.ListForTask)
	tasks.Post("/:id/applications", appCtrl.Apply)
	tasks.Post("/:id/submissions", taskCtrl.Submit)

	apps := user.Group("/applications")
	apps.Get("/me", appCtrl.Mine)
	apps.Patch("/:id/accept", appCtrl.Accept)
	apps.Patch("/:id/reject", appCtrl.Reject)

	user.Post("/submissions/:id/reviews", taskCtrl.Review)
}

func TaskAdminRoutes(admin fiber.Router, store repository.Store) {
	ctrl := controller.NewTaskController(service.New(store))

	tasks := admin.Group("/tasks")
	tasks.Get("/", ctrl.List)
	tasks.Get("/:id", ctrl.Detail)
}
