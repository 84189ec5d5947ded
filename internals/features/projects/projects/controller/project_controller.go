package controller

import (
	"github.com/gofiber/fiber/v2"

	"internhub_backend/internals/features/projects/projects/dto"
	"internhub_backend/internals/features/projects/projects/service"
	helper "internhub_backend/internals/helpers"
	helperAuth "internhub_backend/internals/helpers/auth"
)

type ProjectController struct {
	svc *service.Service
}

func NewProjectController(svc *service.Service) *ProjectController {
	return &ProjectController{svc: svc}
}

// 🟢 POST /api/u/projects
func (pc *ProjectController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.CreateProjectRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	p, err := pc.svc.CreateProject(c.UserContext(), actor, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Project created", p)
}

// 🟢 GET /api/u/projects?status=&page=&per_page=
func (pc *ProjectController) List(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var q dto.ProjectListQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid query")
	}
	paging := helper.ResolvePaging(c, 20, 100)
	rows, total, err := pc.svc.ListProjects(c.UserContext(), actor, q, paging.Limit, paging.Offset)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	pg := helper.BuildPagination(total, paging, len(rows))
	return helper.JsonList(c, "Projects fetched", rows, &pg)
}

// 🟢 GET /api/u/projects/:id
func (pc *ProjectController) Detail(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := pc.svc.GetProject(c.UserContext(), actor, id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", out)
}

// 🟢 PATCH /api/u/projects/:id
func (pc *ProjectController) Update(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdateProjectRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	p, err := pc.svc.UpdateProject(c.UserContext(), actor, id, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Project updated", p)
}

// 🟢 PATCH /api/u/projects/:id/status
func (pc *ProjectController) UpdateStatus(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdateStatusRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	p, err := pc.svc.UpdateStatus(c.UserContext(), actor, id, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Project status updated", fiber.Map{
		"project":       p,
		"next_statuses": service.NextStatuses(p.Status),
	})
}

// 🟢 PATCH /api/u/projects/:id/team-lead
func (pc *ProjectController) AssignTeamLead(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.AssignTeamLeadRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	p, err := pc.svc.AssignTeamLead(c.UserContext(), actor, id, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Team lead assigned", p)
}

// 🟢 GET /api/u/team-leads
func (pc *ProjectController) TeamLeads(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	rows, err := pc.svc.ListTeamLeads(c.UserContext(), actor)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "Team leads fetched", rows)
}

/* ===================== admin ===================== */

// 🟢 PATCH /api/a/projects/:id/status
func (pc *ProjectController) ForceStatus(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdateStatusRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	p, err := pc.svc.ForceStatus(c.UserContext(), actor, id, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Project status forced", p)
}

// 🟢 DELETE /api/a/projects/:id
func (pc *ProjectController) Delete(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := pc.svc.DeleteProject(c.UserContext(), actor, id); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "Project deleted", fiber.Map{"id": id})
}
