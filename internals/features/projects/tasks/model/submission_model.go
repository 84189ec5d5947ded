package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type SubmissionModel struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	TaskID      uuid.UUID      `gorm:"column:task_id;type:uuid;not null;index" json:"task_id"`
	InternID    uuid.UUID      `gorm:"column:intern_id;type:uuid;not null;index" json:"intern_id"`
	Title       string         `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Description string         `gorm:"column:description;type:text" json:"description"`
	FileURLs    pq.StringArray `gorm:"column:file_urls;type:text[]" json:"file_urls"`
	GithubURL   *string        `gorm:"column:github_url;type:text" json:"github_url,omitempty"`
	DemoURL     *string        `gorm:"column:demo_url;type:text" json:"demo_url,omitempty"`
	Status      string         `gorm:"column:status;type:varchar(20);not null;default:pending" json:"status"`
	SubmittedAt time.Time      `gorm:"column:submitted_at;type:timestamptz;not null" json:"submitted_at"`
	ReviewedAt  *time.Time     `gorm:"column:reviewed_at;type:timestamptz" json:"reviewed_at,omitempty"`
}

func (SubmissionModel) TableName() string {
	return "submissions"
}
