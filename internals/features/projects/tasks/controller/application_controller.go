package controller

import (
	"github.com/gofiber/fiber/v2"

	"internhub_backend/internals/features/projects/tasks/dto"
	"internhub_backend/internals/features/projects/tasks/service"
	helper "internhub_backend/internals/helpers"
	helperAuth "internhub_backend/internals/helpers/auth"
)

type ApplicationController struct {
	svc *service.Service
}

func NewApplicationController(svc *service.Service) *ApplicationController {
	return &ApplicationController{svc: svc}
}

// 🟢 POST /api/u/tasks/:id/applications
func (ac *ApplicationController) Apply(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	taskID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.ApplyRequest
	if len(c.Body()) > 0 {
		if err := helper.ParseBody(c, &req); err != nil {
			return helper.JsonFromError(c, err)
		}
	}
	app, err := ac.svc.ApplyForTask(c.UserContext(), actor, taskID, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Application sent", app)
}

// 🟢 GET /api/u/tasks/:id/applications
func (ac *ApplicationController) ListForTask(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	taskID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	rows, err := ac.svc.ListTaskApplications(c.UserContext(), actor, taskID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "Applications fetched", rows)
}

// 🟢 GET /api/u/applications/me
func (ac *ApplicationController) Mine(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	rows, err := ac.svc.MyApplications(c.UserContext(), actor)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "Applications fetched", rows)
}

// 🟢 PATCH /api/u/applications/:id/accept
func (ac *ApplicationController) Accept(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	app, err := ac.svc.AcceptApplication(c.UserContext(), actor, id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Application accepted", app)
}

// 🟢 PATCH /api/u/applications/:id/reject
func (ac *ApplicationController) Reject(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	app, err := ac.svc.RejectApplication(c.UserContext(), actor, id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Application rejected", app)
}
