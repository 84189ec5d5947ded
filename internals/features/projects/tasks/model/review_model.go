package model

import (
	"time"

	"github.com/google/uuid"
)

type ReviewModel struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SubmissionID uuid.UUID `gorm:"column:submission_id;type:uuid;not null;index" json:"submission_id"`
	ReviewerID   uuid.UUID `gorm:"column:reviewer_id;type:uuid;not null" json:"reviewer_id"`
	Rating       *int      `gorm:"column:rating" json:"rating,omitempty"`
	Feedback     string    `gorm:"column:feedback;type:text" json:"feedback"`
	IsApproved   bool      `gorm:"column:is_approved;not null" json:"is_approved"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz;autoCreateTime" json:"created_at"`
}

func (ReviewModel) TableName() string {
	return "reviews"
}
