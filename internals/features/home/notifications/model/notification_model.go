package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification types
const (
	TypeInfo    = "info"
	TypeSuccess = "success"
	TypeWarning = "warning"
	TypeError   = "error"
)

type NotificationModel struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index:idx_notifications_user_created,priority:1" json:"user_id"`
	Title     string            `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Message   string            `gorm:"column:message;type:text;not null" json:"message"`
	Type      string            `gorm:"column:type;type:varchar(20);not null;default:info" json:"type"`
	Data      datatypes.JSONMap `gorm:"column:data;type:jsonb" json:"data,omitempty"`
	IsRead    bool              `gorm:"column:is_read;not null;default:false" json:"is_read"`
	CreatedAt time.Time         `gorm:"column:created_at;type:timestamptz;autoCreateTime;index:idx_notifications_user_created,priority:2" json:"created_at"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

func IsType(s string) bool {
	switch s {
	case TypeInfo, TypeSuccess, TypeWarning, TypeError:
		return true
	}
	return false
}
