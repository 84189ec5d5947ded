package dto

import (
	"time"

	profileModel "internhub_backend/internals/features/users/user_profiles/model"
)

type SignUpRequest struct {
	Email           string  `json:"email" validate:"required,email,max=255"`
	Password        string  `json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string  `json:"confirm_password" validate:"required,eqfield=Password"`
	FullName        string  `json:"full_name" validate:"required,min=2,max=120"`
	Role            string  `json:"role" validate:"required,oneof=client intern team_lead"`
	Phone           *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Company         *string `json:"company,omitempty" validate:"omitempty,max=150"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is returned by sign-up and sign-in.
type Session struct {
	AccessToken string                     `json:"access_token"`
	TokenType   string                     `json:"token_type"`
	ExpiresAt   time.Time                  `json:"expires_at"`
	User        *profileModel.ProfileModel `json:"user"`
}

type MeResponse struct {
	ID           string                     `json:"id"`
	Email        string                     `json:"email"`
	LastSignInAt *time.Time                 `json:"last_sign_in_at,omitempty"`
	Profile      *profileModel.ProfileModel `json:"profile"`
}
