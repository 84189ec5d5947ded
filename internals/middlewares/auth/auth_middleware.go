// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"internhub_backend/internals/constants"
	helper "internhub_backend/internals/helpers"
	"internhub_backend/internals/helpers/apperror"
	helperAuth "internhub_backend/internals/helpers/auth"
)

// SessionResolver turns a raw bearer token into the acting profile.
type SessionResolver interface {
	ResolveSession(ctx context.Context, raw string) (helperAuth.Actor, error)
}

// AuthMiddleware requires a valid, non-revoked session and stores the actor
// (plus user_id / userRole for older handlers) in Locals.
func AuthMiddleware(resolver SessionResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := extractBearerToken(c)
		if err != nil {
			return helper.JsonFromError(c, apperror.New(apperror.KindNotAuthenticated, "%s", err.Error()))
		}

		actor, err := resolver.ResolveSession(c.UserContext(), token)
		if err != nil {
			if apperror.KindOf(err) == apperror.KindRemoteStore {
				log.Printf("[ERROR] AuthMiddleware %s %s: %v", c.Method(), c.OriginalURL(), err)
			}
			return helper.JsonFromError(c, err)
		}

		c.Locals(helperAuth.LocActor, actor)
		c.Locals(helperAuth.LocUserID, actor.ID.String())
		c.Locals(helperAuth.LocUserRole, string(actor.Role))
		c.Locals(helperAuth.LocRawToken, token)
		return c.Next()
	}
}

// OnlyRoles is a coarse route guard; fine-grained checks stay in the gate.
func OnlyRoles(roles ...constants.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := helperAuth.ActorFromCtx(c)
		if err != nil {
			return helper.JsonFromError(c, err)
		}
		if !actor.Role.In(roles...) {
			return helper.JsonFromError(c, apperror.Forbidden("role %s may not access this resource", actor.Role))
		}
		return c.Next()
	}
}

// extractBearerToken reads Authorization: Bearer, falling back to the
// access_token cookie.
func extractBearerToken(c *fiber.Ctx) (string, error) {
	auth := strings.TrimSpace(c.Get("Authorization"))
	if auth == "" {
		if cookieTok := c.Cookies("access_token"); cookieTok != "" {
			auth = "Bearer " + cookieTok
		}
	}
	if auth == "" {
		return "", fmt.Errorf("no token provided")
	}

	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", fmt.Errorf("invalid token format")
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", fmt.Errorf("empty token")
	}
	return tok, nil
}
