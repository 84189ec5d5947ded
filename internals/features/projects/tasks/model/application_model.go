package model

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationModel struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	TaskID      uuid.UUID  `gorm:"column:task_id;type:uuid;not null;index" json:"task_id"`
	InternID    uuid.UUID  `gorm:"column:intern_id;type:uuid;not null;index" json:"intern_id"`
	CoverLetter *string    `gorm:"column:cover_letter;type:text" json:"cover_letter,omitempty"`
	Status      string     `gorm:"column:status;type:varchar(20);not null;default:pending" json:"status"`
	AppliedAt   time.Time  `gorm:"column:applied_at;type:timestamptz;not null" json:"applied_at"`
	ReviewedAt  *time.Time `gorm:"column:reviewed_at;type:timestamptz" json:"reviewed_at,omitempty"`
}

func (ApplicationModel) TableName() string {
	return "applications"
}
