package controller

import (
	"github.com/gofiber/fiber/v2"

	"internhub_backend/internals/features/users/user_profiles/dto"
	"internhub_backend/internals/features/users/user_profiles/service"
	helper "internhub_backend/internals/helpers"
	helperAuth "internhub_backend/internals/helpers/auth"
	helperOSS "internhub_backend/internals/helpers/oss"
)

type ProfileController struct {
	svc *service.Service
}

func NewProfileController(svc *service.Service) *ProfileController {
	return &ProfileController{svc: svc}
}

// 🟢 GET /api/u/profiles/:id
func (pc *ProfileController) GetByID(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := pc.svc.Get(c.UserContext(), actor, id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", out)
}

// 🟢 PATCH /api/u/profile
func (pc *ProfileController) UpdateMine(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	p, err := pc.svc.UpdateProfile(c.UserContext(), actor, actor.ID, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Profile updated", p)
}

// 🟢 POST /api/u/profile/avatar (multipart: avatar)
func (pc *ProfileController) UploadAvatar(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	fh, err := c.FormFile("avatar")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "avatar file is required")
	}
	data, err := helperOSS.ReadFormFile(fh)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	p, err := pc.svc.UploadAvatar(c.UserContext(), actor, fh.Filename, data)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Avatar updated", p)
}
