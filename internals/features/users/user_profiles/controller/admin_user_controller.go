package controller

import (
	"github.com/gofiber/fiber/v2"

	"internhub_backend/internals/features/users/user_profiles/dto"
	"internhub_backend/internals/features/users/user_profiles/service"
	helper "internhub_backend/internals/helpers"
	helperAuth "internhub_backend/internals/helpers/auth"
)

type AdminUserController struct {
	svc *service.Service
}

func NewAdminUserController(svc *service.Service) *AdminUserController {
	return &AdminUserController{svc: svc}
}

// 🟢 GET /api/a/users?role=&status=&q=&page=&per_page=
func (ac *AdminUserController) List(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var q dto.UserListQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid query")
	}
	paging := helper.ResolvePaging(c, 20, 200)
	rows, total, err := ac.svc.ListUsers(c.UserContext(), actor, q, paging.Limit, paging.Offset)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	pg := helper.BuildPagination(total, paging, len(rows))
	return helper.JsonList(c, "Users fetched", rows, &pg)
}

// 🟢 PATCH /api/a/users/:id/approve
func (ac *AdminUserController) Approve(c *fiber.Ctx) error {
	return ac.decide(c, true)
}

// 🟢 PATCH /api/a/users/:id/reject
func (ac *AdminUserController) Reject(c *fiber.Ctx) error {
	return ac.decide(c, false)
}

func (ac *AdminUserController) decide(c *fiber.Ctx, approve bool) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if approve {
		p, err := ac.svc.Approve(c.UserContext(), actor, id)
		if err != nil {
			return helper.JsonFromError(c, err)
		}
		return helper.JsonUpdated(c, "User approved", p)
	}
	p, err := ac.svc.Reject(c.UserContext(), actor, id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "User rejected", p)
}

// 🟢 DELETE /api/a/users/:id
func (ac *AdminUserController) Delete(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := ac.svc.Delete(c.UserContext(), actor, id); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "User deleted", fiber.Map{"id": id})
}
