package route

import (
	"github.com/gofiber/fiber/v2"

	"internhub_backend/internals/features/stats/dashboard/controller"
	"internhub_backend/internals/features/stats/dashboard/service"
	"internhub_backend/internals/repository"
)

func DashboardAdminRoutes(admin fiber.Router, store repository.Store) {
	ctrl := controller.NewDashboardController(service.New(store))

	dash := admin.Group("/dashboard")
	dash.Get("/stats", ctrl.Stats)
	dash.Get("/recent-activity", ctrl.RecentActivity)
	dash.Get("/analytics", ctrl.Analytics)
}
