package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"internhub_backend/internals/constants"
	profileModel "internhub_backend/internals/features/users/user_profiles/model"
	"internhub_backend/internals/helpers/apperror"
)

// Locals keys set by the auth middleware
const (
	LocActor    = "actor"
	LocUserID   = "user_id"
	LocUserRole = "userRole"
	LocRawToken = "raw_token"
)

// Actor is the authenticated profile performing an operation.
type Actor struct {
	ID         uuid.UUID      `json:"id"`
	Email      string         `json:"email"`
	FullName   string         `json:"full_name"`
	Role       constants.Role `json:"role"`
	IsApproved bool           `json:"is_approved"`
}

func ActorFromProfile(p *profileModel.ProfileModel) Actor {
	return Actor{
		ID:         p.ID,
		Email:      p.Email,
		FullName:   p.FullName,
		Role:       p.Role,
		IsApproved: p.Approved(),
	}
}

func (a Actor) IsAdmin() bool { return a.Role == constants.RoleAdmin }

// ActorFromCtx returns the actor stored by the auth middleware.
func ActorFromCtx(c *fiber.Ctx) (Actor, error) {
	a, ok := c.Locals(LocActor).(Actor)
	if !ok || a.ID == uuid.Nil {
		return Actor{}, apperror.New(apperror.KindNotAuthenticated, "no active session")
	}
	return a, nil
}
