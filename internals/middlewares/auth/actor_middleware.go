// internals/middlewares/auth/actor_middleware.go
package auth

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"library_backend/internals/features/access"
	authService "library_backend/internals/features/users/auth/service"
	userModel "library_backend/internals/features/users/user/model"
	helper "library_backend/internals/helpers"
	"library_backend/internals/helpers/errs"
	"library_backend/internals/middlewares/session"
)

const (
	LocActor  = "actor"
	LocClaims = "token_claims"
)

// UserLoader returns an active account by id.
type UserLoader interface {
	ActiveUser(ctx context.Context, userID uint) (*userModel.UserModel, error)
}

type ActorResolver struct {
	Users    UserLoader
	Tokens   *authService.TokenService
	Sessions *session.Manager
}

// Middleware resolves the caller from a bearer token or, failing that, the
// browser session. An invalid or revoked bearer token is rejected outright;
// everything else falls through as anonymous.
func (r ActorResolver) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := access.Anonymous()

		if raw := helper.GetRawAccessToken(c); raw != "" {
			claims, err := r.Tokens.Parse(c.UserContext(), raw)
			if err != nil {
				if errors.Is(err, authService.ErrTokenInvalid) || errors.Is(err, authService.ErrTokenRevoked) || errors.Is(err, authService.ErrTokensDisabled) {
					return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - "+err.Error())
				}
				log.Println("[ERROR] token check failed:", err)
				return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
			}
			userID, err := claims.UserID()
			if err != nil {
				return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - Invalid or missing user ID")
			}
			user, err := r.Users.ActiveUser(c.UserContext(), userID)
			if err != nil {
				if errors.Is(err, errs.ErrNotFound) || errors.Is(err, errs.ErrPermissionDenied) {
					return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - User not found or inactive")
				}
				return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
			}
			helper.SetRawAccessToken(c, raw)
			c.Locals(LocClaims, claims)
			actor = access.FromUser(*user)
		} else if r.Sessions != nil {
			if userID, ok := r.Sessions.UserID(c); ok {
				user, err := r.Users.ActiveUser(c.UserContext(), userID)
				switch {
				case err == nil:
					actor = access.FromUser(*user)
				case errors.Is(err, errs.ErrNotFound), errors.Is(err, errs.ErrPermissionDenied):
					_ = r.Sessions.Logout(c)
				default:
					return err
				}
			}
		}

		c.Locals(LocActor, actor)
		return c.Next()
	}
}

// ActorFrom returns the resolved caller, anonymous when none was set.
func ActorFrom(c *fiber.Ctx) access.Actor {
	if a, ok := c.Locals(LocActor).(access.Actor); ok {
		return a
	}
	return access.Anonymous()
}

// ClaimsFrom returns the verified bearer token claims of the request.
func ClaimsFrom(c *fiber.Ctx) (*authService.Claims, bool) {
	claims, ok := c.Locals(LocClaims).(*authService.Claims)
	return claims, ok && claims != nil
}
