package controller

import (
	"github.com/gofiber/fiber/v2"

	"internhub_backend/internals/features/home/notifications/dto"
	"internhub_backend/internals/features/home/notifications/service"
	helper "internhub_backend/internals/helpers"
	helperAuth "internhub_backend/internals/helpers/auth"
	"internhub_backend/internals/repository"
)

type MessageController struct {
	svc *service.Service
}

func NewMessageController(store repository.Store) *MessageController {
	return &MessageController{svc: service.New(store)}
}

// 🟢 POST /api/u/messages
func (ctrl *MessageController) Send(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	msg, err := ctrl.svc.SendMessage(c.UserContext(), actor, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Message sent", msg)
}

// 🟢 GET /api/u/messages?with=<user_id>&project_id=
func (ctrl *MessageController) List(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	other, err := helper.ParseUUIDQuery(c, "with")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	projectID, err := helper.ParseUUIDQuery(c, "project_id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	msgs, err := ctrl.svc.GetMessages(c.UserContext(), actor, other, projectID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonList(c, "Messages fetched", msgs, nil)
}

// 🟢 PATCH /api/u/messages/:id/read
func (ctrl *MessageController) MarkRead(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	msg, err := ctrl.svc.MarkMessageRead(c.UserContext(), actor, id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Message marked as read", msg)
}
