package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"internhub_backend/internals/features/projects/tasks/model"
)

/* ===================== tasks ===================== */

type CreateTaskRequest struct {
	ProjectID      uuid.UUID  `json:"project_id" validate:"required"`
	Title          string     `json:"title" validate:"required,min=3,max=200"`
	Description    string     `json:"description" validate:"required,max=10000"`
	Requirements   *string    `json:"requirements" validate:"omitempty,max=10000"`
	EstimatedHours *int       `json:"estimated_hours" validate:"omitempty,min=1,max=2000"`
	Deadline       *time.Time `json:"deadline"`
}

func (r CreateTaskRequest) ToModel() *model.TaskModel {
	return &model.TaskModel{
		ProjectID:      r.ProjectID,
		Title:          strings.TrimSpace(r.Title),
		Description:    strings.TrimSpace(r.Description),
		Requirements:   trimPtr(r.Requirements),
		EstimatedHours: r.EstimatedHours,
		Deadline:       r.Deadline,
	}
}

type UpdateTaskRequest struct {
	Title          *string    `json:"title" validate:"omitempty,min=3,max=200"`
	Description    *string    `json:"description" validate:"omitempty,max=10000"`
	Requirements   *string    `json:"requirements" validate:"omitempty,max=10000"`
	EstimatedHours *int       `json:"estimated_hours" validate:"omitempty,min=1,max=2000"`
	Deadline       *time.Time `json:"deadline"`
}

func (r UpdateTaskRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.Requirements == nil && r.EstimatedHours == nil && r.Deadline == nil
}

func (r UpdateTaskRequest) ApplyTo(m *model.TaskModel) {
	if r.Title != nil {
		m.Title = strings.TrimSpace(*r.Title)
	}
	if r.Description != nil {
		m.Description = strings.TrimSpace(*r.Description)
	}
	if r.Requirements != nil {
		m.Requirements = trimPtr(r.Requirements)
	}
	if r.EstimatedHours != nil {
		m.EstimatedHours = r.EstimatedHours
	}
	if r.Deadline != nil {
		m.Deadline = r.Deadline
	}
}

// TaskListQuery is filled from ?project_id=&status=&intern_id=.
type TaskListQuery struct {
	ProjectID *uuid.UUID
	InternID  *uuid.UUID
	Status    string `validate:"omitempty,oneof=open assigned in_progress submitted reviewed completed"`
}

/* ===================== applications ===================== */

type ApplyRequest struct {
	CoverLetter *string `json:"cover_letter" validate:"omitempty,max=5000"`
}

// MyApplication is an application listed for its intern, with a brief of
// the task it targets.
type MyApplication struct {
	model.ApplicationModel
	Task *TaskBrief `json:"task,omitempty"`
}

type TaskBrief struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
}

func BriefOf(t *model.TaskModel) *TaskBrief {
	if t == nil {
		return nil
	}
	return &TaskBrief{ID: t.ID, ProjectID: t.ProjectID, Title: t.Title, Status: t.Status}
}

/* ===================== submissions & reviews ===================== */

type SubmitWorkRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=200"`
	Description string   `json:"description" validate:"max=10000"`
	FileURLs    []string `json:"file_urls" validate:"omitempty,max=20,dive,url"`
	GithubURL   *string  `json:"github_url" validate:"omitempty,url"`
	DemoURL     *string  `json:"demo_url" validate:"omitempty,url"`
}

func (r SubmitWorkRequest) ToModel(taskID, internID uuid.UUID) *model.SubmissionModel {
	files := make(pq.StringArray, 0, len(r.FileURLs))
	for _, u := range r.FileURLs {
		if u = strings.TrimSpace(u); u != "" {
			files = append(files, u)
		}
	}
	return &model.SubmissionModel{
		TaskID:      taskID,
		InternID:    internID,
		Title:       strings.TrimSpace(r.Title),
		Description: strings.TrimSpace(r.Description),
		FileURLs:    files,
		GithubURL:   trimPtr(r.GithubURL),
		DemoURL:     trimPtr(r.DemoURL),
	}
}

type ReviewRequest struct {
	Rating     *int   `json:"rating" validate:"omitempty,min=1,max=5"`
	Feedback   string `json:"feedback" validate:"max=5000"`
	IsApproved *bool  `json:"is_approved" validate:"required"`
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
