package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"library_backend/internals/features/users/auth/dto"
	authService "library_backend/internals/features/users/auth/service"
	helper "library_backend/internals/helpers"
	authMw "library_backend/internals/middlewares/auth"
)

type AuthController struct {
	Auth   *authService.AuthService
	Tokens *authService.TokenService
}

func NewAuthController(auth *authService.AuthService, tokens *authService.TokenService) *AuthController {
	return &AuthController{Auth: auth, Tokens: tokens}
}

// ========================== TOKEN ==========================
// POST /api/auth/token
func (ac *AuthController) Token(c *fiber.Ctx) error {
	if !ac.Tokens.Enabled() {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "API tokens are disabled")
	}

	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if req.UserName == "" || req.Password == "" {
		fields := map[string][]string{}
		if req.UserName == "" {
			fields["username"] = []string{"This field is required."}
		}
		if req.Password == "" {
			fields["password"] = []string{"This field is required."}
		}
		return helper.JsonValidationError(c, fields)
	}

	user, err := ac.Auth.Authenticate(c.UserContext(), req.UserName, req.Password)
	if err != nil {
		if errors.Is(err, authService.ErrInvalidCredentials) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unable to log in with provided credentials.")
		}
		log.Printf("[ERROR] authenticate %q: %v", req.UserName, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	token, exp, err := ac.Tokens.Issue(*user)
	if err != nil {
		log.Printf("[ERROR] issue token: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to issue token")
	}
	return helper.JsonOK(c, "Login successful", dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   exp.UTC().Format(time.RFC3339),
		UserID:      user.ID,
		UserName:    user.UserName,
		IsStaff:     user.IsStaffMember(),
	})
}

// ========================== LOGOUT ==========================
// POST /api/auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	claims, ok := authMw.ClaimsFrom(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Authentication credentials were not provided.")
	}
	if err := ac.Tokens.Revoke(c.UserContext(), claims); err != nil {
		log.Printf("[ERROR] revoke token: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to revoke token")
	}
	return helper.JsonOK(c, "Logged out", nil)
}
