package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"internhub_backend/internals/features/home/notifications/dto"
	"internhub_backend/internals/features/home/notifications/service"
	helper "internhub_backend/internals/helpers"
	helperAuth "internhub_backend/internals/helpers/auth"
	"internhub_backend/internals/repository"
)

type NotificationController struct {
	svc *service.Service
}

func NewNotificationController(store repository.Store) *NotificationController {
	return &NotificationController{svc: service.New(store)}
}

// 🟢 GET /api/u/notifications?unread=true&page=&per_page=
func (ctrl *NotificationController) List(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	unread, _ := strconv.ParseBool(c.Query("unread", "false"))
	paging := helper.ResolvePaging(c, 20, 100)

	rows, total, err := ctrl.svc.List(c.UserContext(), actor, unread, paging.Limit, paging.Offset)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	pg := helper.BuildPagination(total, paging, len(rows))
	return helper.JsonList(c, "Notifications fetched", rows, &pg)
}

// 🟢 GET /api/u/notifications/unread-count
func (ctrl *NotificationController) UnreadCount(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	n, err := ctrl.svc.UnreadCount(c.UserContext(), actor)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", dto.UnreadCountResponse{Unread: n})
}

// 🟢 PATCH /api/u/notifications/:id/read
func (ctrl *NotificationController) MarkRead(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	n, err := ctrl.svc.MarkRead(c.UserContext(), actor, id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Notification marked as read", n)
}

// 🟢 PATCH /api/u/notifications/read-all
func (ctrl *NotificationController) MarkAllRead(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	n, err := ctrl.svc.MarkAllRead(c.UserContext(), actor)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "All notifications marked as read", dto.MarkAllReadResponse{Updated: n})
}

// 🟢 POST /api/a/notifications
func (ctrl *NotificationController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.CreateNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	n, err := ctrl.svc.Create(c.UserContext(), actor, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Notification created", n)
}
