package dto

import (
	"github.com/google/uuid"
)

// 🟢 Request DTO: admin broadcast ke satu user
type CreateNotificationRequest struct {
	UserID  uuid.UUID      `json:"user_id" validate:"required"`
	Title   string         `json:"title" validate:"required,max=255"`
	Message string         `json:"message" validate:"required"`
	Type    string         `json:"type" validate:"omitempty,oneof=info success warning error"`
	Data    map[string]any `json:"data,omitempty"`
}

type SendMessageRequest struct {
	RecipientID uuid.UUID  `json:"recipient_id" validate:"required"`
	ProjectID   *uuid.UUID `json:"project_id,omitempty"`
	Content     string     `json:"content" validate:"required,max=5000"`
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
