package model

import (
	"time"
)

// TokenBlacklist stores the HMAC of revoked access tokens until they expire.
type TokenBlacklist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"type:text;not null;unique" json:"token"`
	ExpiredAt time.Time `gorm:"type:timestamptz;not null;index" json:"expired_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName pins the table name to the schema
func (TokenBlacklist) TableName() string {
	return "token_blacklist"
}
