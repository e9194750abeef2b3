package auth

import (
	"log"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"library_backend/internals/features/access"
	helper "library_backend/internals/helpers"
)

// RequireCapability guards a data API route. Anonymous callers get 401,
// authenticated ones without the capability 403.
func RequireCapability(capability access.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := ActorFrom(c)
		if access.Can(actor, capability) {
			return c.Next()
		}
		if !actor.IsAuthenticated() {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Authentication credentials were not provided.")
		}
		log.Printf("[INFO] %s denied %s on %s", actor.UserName, capability, c.Path())
		return helper.JsonError(c, fiber.StatusForbidden, "You do not have permission to perform this action.")
	}
}

// RequireCapabilityPage guards an HTML route: anonymous callers go to the
// login page, others get the 403 page.
func RequireCapabilityPage(capability access.Capability, loginPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := ActorFrom(c)
		if access.Can(actor, capability) {
			return c.Next()
		}
		if !actor.IsAuthenticated() {
			return c.Redirect(loginPath+"?next="+url.QueryEscape(c.OriginalURL()), fiber.StatusFound)
		}
		log.Printf("[INFO] %s denied %s on %s", actor.UserName, capability, c.Path())
		return fiber.NewError(fiber.StatusForbidden, "You do not have permission to access this page.")
	}
}
