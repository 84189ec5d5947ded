package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"internhub_backend/internals/features/projects/projects/model"
)

type CreateProjectRequest struct {
	Title        string     `json:"title" validate:"required,min=3,max=200"`
	Description  string     `json:"description" validate:"required,max=10000"`
	Requirements *string    `json:"requirements" validate:"omitempty,max=10000"`
	Budget       *float64   `json:"budget" validate:"omitempty,gte=0"`
	Deadline     *time.Time `json:"deadline"`
}

func (r CreateProjectRequest) ToModel(clientID uuid.UUID) *model.ProjectModel {
	return &model.ProjectModel{
		ClientID:     clientID,
		Title:        strings.TrimSpace(r.Title),
		Description:  strings.TrimSpace(r.Description),
		Requirements: trimPtr(r.Requirements),
		Budget:       r.Budget,
		Deadline:     r.Deadline,
	}
}

// UpdateProjectRequest is a partial update; status and ownership have their
// own operations.
type UpdateProjectRequest struct {
	Title        *string    `json:"title" validate:"omitempty,min=3,max=200"`
	Description  *string    `json:"description" validate:"omitempty,max=10000"`
	Requirements *string    `json:"requirements" validate:"omitempty,max=10000"`
	Budget       *float64   `json:"budget" validate:"omitempty,gte=0"`
	Deadline     *time.Time `json:"deadline"`
}

func (r UpdateProjectRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.Requirements == nil && r.Budget == nil && r.Deadline == nil
}

func (r UpdateProjectRequest) ApplyTo(m *model.ProjectModel) {
	if r.Title != nil {
		m.Title = strings.TrimSpace(*r.Title)
	}
	if r.Description != nil {
		m.Description = strings.TrimSpace(*r.Description)
	}
	if r.Requirements != nil {
		m.Requirements = trimPtr(r.Requirements)
	}
	if r.Budget != nil {
		m.Budget = r.Budget
	}
	if r.Deadline != nil {
		m.Deadline = r.Deadline
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft active in_progress completed cancelled"`
}

type AssignTeamLeadRequest struct {
	TeamLeadID uuid.UUID `json:"team_lead_id" validate:"required"`
}

type ProjectListQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=draft active in_progress completed cancelled"`
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
