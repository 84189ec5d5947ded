package dto

import (
	"strings"

	"internhub_backend/internals/features/users/user_profiles/model"
)

// UpdateProfileRequest holds the self-editable fields only. A nil field is
// left untouched; an empty string clears an optional field.
type UpdateProfileRequest struct {
	FullName        *string   `json:"full_name" validate:"omitempty,min=2,max=120"`
	Phone           *string   `json:"phone" validate:"omitempty,max=30"`
	Company         *string   `json:"company" validate:"omitempty,max=150"`
	ExperienceLevel *string   `json:"experience_level" validate:"omitempty,oneof=beginner intermediate advanced expert"`
	Skills          *[]string `json:"skills" validate:"omitempty,max=50,dive,min=1,max=50"`
	PortfolioURL    *string   `json:"portfolio_url" validate:"omitempty,url"`
	Bio             *string   `json:"bio" validate:"omitempty,max=2000"`
}

func optional(dst **string, v *string) {
	if v == nil {
		return
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		*dst = nil
		return
	}
	*dst = &s
}

// ApplyTo copies the provided fields onto m. Role and approval are not part
// of this request and cannot change here.
func (r *UpdateProfileRequest) ApplyTo(m *model.ProfileModel) {
	if r.FullName != nil {
		m.FullName = strings.TrimSpace(*r.FullName)
	}
	optional(&m.Phone, r.Phone)
	optional(&m.Company, r.Company)
	optional(&m.ExperienceLevel, r.ExperienceLevel)
	optional(&m.PortfolioURL, r.PortfolioURL)
	optional(&m.Bio, r.Bio)
	if r.Skills != nil {
		skills := make([]string, 0, len(*r.Skills))
		seen := map[string]bool{}
		for _, s := range *r.Skills {
			s = strings.TrimSpace(s)
			if s == "" || seen[strings.ToLower(s)] {
				continue
			}
			seen[strings.ToLower(s)] = true
			skills = append(skills, s)
		}
		m.Skills = skills
	}
}

// UserListQuery: ?role=&status=approved|pending&q=
type UserListQuery struct {
	Role   string `query:"role" validate:"omitempty,oneof=client intern team_lead admin"`
	Status string `query:"status" validate:"omitempty,oneof=approved pending"`
	Q      string `query:"q" validate:"omitempty,max=100"`
}
