package controller

import (
	"github.com/gofiber/fiber/v2"

	"internhub_backend/internals/features/stats/dashboard/service"
	helper "internhub_backend/internals/helpers"
	helperAuth "internhub_backend/internals/helpers/auth"
)

type DashboardController struct {
	svc *service.Service
}

func NewDashboardController(svc *service.Service) *DashboardController {
	return &DashboardController{svc: svc}
}

// 🟢 GET /api/a/dashboard/stats
func (dc *DashboardController) Stats(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	st, err := dc.svc.DashboardStats(c.UserContext(), actor)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "Dashboard stats", st)
}

// 🟢 GET /api/a/dashboard/recent-activity?limit=10
func (dc *DashboardController) RecentActivity(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	items, err := dc.svc.RecentActivity(c.UserContext(), actor, c.QueryInt("limit", service.DefaultActivityLimit))
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "Recent activity", items)
}

// 🟢 GET /api/a/dashboard/analytics
func (dc *DashboardController) Analytics(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := dc.svc.Analytics(c.UserContext(), actor)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "Analytics", out)
}
