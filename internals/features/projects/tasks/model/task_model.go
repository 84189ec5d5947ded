package model

import (
	"time"

	"github.com/google/uuid"
)

type TaskModel struct {
	ID               uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ProjectID        uuid.UUID  `gorm:"column:project_id;type:uuid;not null;index" json:"project_id"`
	AssignedInternID *uuid.UUID `gorm:"column:assigned_intern_id;type:uuid;index" json:"assigned_intern_id,omitempty"`
	Title            string     `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Description      string     `gorm:"column:description;type:text" json:"description"`
	Requirements     *string    `gorm:"column:requirements;type:text" json:"requirements,omitempty"`
	EstimatedHours   *int       `gorm:"column:estimated_hours" json:"estimated_hours,omitempty"`
	Deadline         *time.Time `gorm:"column:deadline;type:timestamptz" json:"deadline,omitempty"`
	Status           string     `gorm:"column:status;type:varchar(20);not null;default:open;index" json:"status"`
	CreatedAt        time.Time  `gorm:"column:created_at;type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (TaskModel) TableName() string {
	return "tasks"
}

func (t TaskModel) AssignedTo(id uuid.UUID) bool {
	return t.AssignedInternID != nil && *t.AssignedInternID == id
}
