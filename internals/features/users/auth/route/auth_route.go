// file: internals/features/users/auth/route/auth_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	controller "library_backend/internals/features/users/auth/controller"
	authService "library_backend/internals/features/users/auth/service"
	rateLimiter "library_backend/internals/middlewares"
)

// AuthRoutes mounts /auth under api.
func AuthRoutes(api fiber.Router, auth *authService.AuthService, tokens *authService.TokenService) {
	authController := controller.NewAuthController(auth, tokens)

	baseAuth := api.Group("/auth")
	baseAuth.Post("/token", rateLimiter.LoginRateLimiter(), authController.Token)
	baseAuth.Post("/logout", authController.Logout)
}
