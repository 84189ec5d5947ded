package controller

import (
	"github.com/gofiber/fiber/v2"

	"internhub_backend/internals/features/projects/tasks/dto"
	"internhub_backend/internals/features/projects/tasks/service"
	helper "internhub_backend/internals/helpers"
	helperAuth "internhub_backend/internals/helpers/auth"
)

type TaskController struct {
	svc *service.Service
}

func NewTaskController(svc *service.Service) *TaskController {
	return &TaskController{svc: svc}
}

// 🟢 POST /api/u/tasks
func (tc *TaskController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.CreateTaskRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	t, err := tc.svc.CreateTask(c.UserContext(), actor, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Task created", t)
}

// 🟢 GET /api/u/tasks?project_id=&status=&intern_id=&page=&per_page=
func (tc *TaskController) List(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var q dto.TaskListQuery
	if q.ProjectID, err = helper.ParseUUIDQuery(c, "project_id"); err != nil {
		return helper.JsonFromError(c, err)
	}
	if q.InternID, err = helper.ParseUUIDQuery(c, "intern_id"); err != nil {
		return helper.JsonFromError(c, err)
	}
	q.Status = c.Query("status")

	paging := helper.ResolvePaging(c, 20, 100)
	rows, total, err := tc.svc.ListTasks(c.UserContext(), actor, q, paging.Limit, paging.Offset)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	pg := helper.BuildPagination(total, paging, len(rows))
	return helper.JsonList(c, "Tasks fetched", rows, &pg)
}

// 🟢 GET /api/u/tasks/:id
func (tc *TaskController) Detail(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := tc.svc.GetTask(c.UserContext(), actor, id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", out)
}

// 🟢 PATCH /api/u/tasks/:id
func (tc *TaskController) Update(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdateTaskRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	t, err := tc.svc.UpdateTask(c.UserContext(), actor, id, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Task updated", t)
}

// 🟢 PATCH /api/u/tasks/:id/start
func (tc *TaskController) Start(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	t, err := tc.svc.StartTask(c.UserContext(), actor, id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Task started", t)
}

// 🟢 POST /api/u/tasks/:id/submissions
func (tc *TaskController) Submit(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.SubmitWorkRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	sub, err := tc.svc.SubmitWork(c.UserContext(), actor, id, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Work submitted", sub)
}

// 🟢 POST /api/u/submissions/:id/reviews
func (tc *TaskController) Review(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.ReviewRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := tc.svc.ReviewSubmission(c.UserContext(), actor, id, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Review recorded", out)
}
