// file: internals/features/users/user_profiles/model/profile_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"internhub_backend/internals/constants"
)

// ProfileModel maps the profiles table (1:1 with auth_identities)
type ProfileModel struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email           string         `gorm:"column:email;type:varchar(255);not null" json:"email"`
	FullName        string         `gorm:"column:full_name;type:varchar(120);not null" json:"full_name"`
	Phone           *string        `gorm:"column:phone;type:varchar(30)" json:"phone,omitempty"`
	Role            constants.Role `gorm:"column:role;type:varchar(20);not null;index" json:"role"`
	Company         *string        `gorm:"column:company;type:varchar(150)" json:"company,omitempty"`
	ExperienceLevel *string        `gorm:"column:experience_level;type:varchar(30)" json:"experience_level,omitempty"`
	Skills          pq.StringArray `gorm:"column:skills;type:text[]" json:"skills"`
	PortfolioURL    *string        `gorm:"column:portfolio_url;type:text" json:"portfolio_url,omitempty"`
	Bio             *string        `gorm:"column:bio;type:text" json:"bio,omitempty"`
	AvatarURL       *string        `gorm:"column:avatar_url;type:text" json:"avatar_url,omitempty"`
	IsApproved      bool           `gorm:"column:is_approved;not null;default:false;index" json:"is_approved"`
	CreatedAt       time.Time      `gorm:"column:created_at;type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (ProfileModel) TableName() string {
	return "profiles"
}

// ProfileSummary is the slice of a profile joined into other records.
type ProfileSummary struct {
	ID        uuid.UUID      `json:"id"`
	FullName  string         `json:"full_name"`
	Email     string         `json:"email,omitempty"`
	Role      constants.Role `json:"role"`
	AvatarURL *string        `json:"avatar_url,omitempty"`
}

func (p ProfileModel) Summary() ProfileSummary {
	return ProfileSummary{
		ID:        p.ID,
		FullName:  p.FullName,
		Email:     p.Email,
		Role:      p.Role,
		AvatarURL: p.AvatarURL,
	}
}

// Approved reports effective approval; admins are always approved.
func (p ProfileModel) Approved() bool {
	return p.IsApproved || p.Role == constants.RoleAdmin
}
