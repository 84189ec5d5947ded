package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"internhub_backend/internals/features/users/auth/dto"
	"internhub_backend/internals/features/users/auth/service"
	helper "internhub_backend/internals/helpers"
	helperAuth "internhub_backend/internals/helpers/auth"
)

type AuthController struct {
	svc *service.Service
}

func NewAuthController(svc *service.Service) *AuthController {
	return &AuthController{svc: svc}
}

func setSessionCookie(c *fiber.Ctx, s *dto.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    s.AccessToken,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// 🟢 POST /api/auth/register
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	session, err := ac.svc.SignUp(c.UserContext(), req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	setSessionCookie(c, session)
	msg := "Registration successful"
	if !session.User.Approved() {
		msg = "Registration successful, waiting for admin approval"
	}
	return helper.JsonCreated(c, msg, session)
}

// 🟢 POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	session, err := ac.svc.SignIn(c.UserContext(), req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	setSessionCookie(c, session)
	return helper.JsonOK(c, "Login successful", session)
}

// 🟢 POST /api/auth/admin/login
func (ac *AuthController) AdminLogin(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	session, err := ac.svc.AdminSignIn(c.UserContext(), req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	setSessionCookie(c, session)
	return helper.JsonOK(c, "Admin login successful", session)
}

// 🟢 POST /api/auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	raw, _ := c.Locals(helperAuth.LocRawToken).(string)
	if err := ac.svc.SignOut(c.UserContext(), raw); err != nil {
		return helper.JsonFromError(c, err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return helper.JsonOK(c, "Logout successful", nil)
}

// 🟢 GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	raw, _ := c.Locals(helperAuth.LocRawToken).(string)
	cu, err := ac.svc.GetCurrentUser(c.UserContext(), raw)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", dto.MeResponse{
		ID:           cu.Identity.ID.String(),
		Email:        cu.Identity.Email,
		LastSignInAt: cu.Identity.LastSignInAt,
		Profile:      cu.Profile,
	})
}
