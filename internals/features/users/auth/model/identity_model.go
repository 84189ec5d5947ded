package model

import (
	"time"

	"github.com/google/uuid"
)

// IdentityModel is the credential record. Its ID is shared 1:1 with the
// profile created at sign-up.
type IdentityModel struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email        string     `gorm:"column:email;type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;type:text;not null" json:"-"`
	LastSignInAt *time.Time `gorm:"column:last_sign_in_at;type:timestamptz" json:"last_sign_in_at,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at;type:timestamptz;autoCreateTime" json:"created_at"`
}

func (IdentityModel) TableName() string {
	return "auth_identities"
}
