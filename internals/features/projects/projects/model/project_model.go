package model

import (
	"time"

	"github.com/google/uuid"
)

type ProjectModel struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Slug         string     `gorm:"column:slug;type:varchar(160);not null;uniqueIndex" json:"slug"`
	ClientID     uuid.UUID  `gorm:"column:client_id;type:uuid;not null;index" json:"client_id"`
	TeamLeadID   *uuid.UUID `gorm:"column:team_lead_id;type:uuid;index" json:"team_lead_id,omitempty"`
	Title        string     `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Description  string     `gorm:"column:description;type:text" json:"description"`
	Requirements *string    `gorm:"column:requirements;type:text" json:"requirements,omitempty"`
	Budget       *float64   `gorm:"column:budget;type:numeric(14,2)" json:"budget,omitempty"`
	Deadline     *time.Time `gorm:"column:deadline;type:timestamptz" json:"deadline,omitempty"`
	Status       string     `gorm:"column:status;type:varchar(20);not null;default:draft;index" json:"status"`
	CreatedAt    time.Time  `gorm:"column:created_at;type:timestamptz;autoCreateTime;index" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (ProjectModel) TableName() string {
	return "projects"
}

func (p ProjectModel) LedBy(id uuid.UUID) bool {
	return p.TeamLeadID != nil && *p.TeamLeadID == id
}
