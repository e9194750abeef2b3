// Package controller renders the server-side HTML pages.
package controller

import (
	"errors"
	"log"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	borrowService "library_backend/internals/features/borrowing/service"
	catalogService "library_backend/internals/features/catalog/service"
	authService "library_backend/internals/features/users/auth/service"
	"library_backend/internals/helpers/errs"
	authMw "library_backend/internals/middlewares/auth"
	"library_backend/internals/middlewares/session"
	"library_backend/internals/views"
)

const LoginPath = "/login"

type WebController struct {
	Catalog  *catalogService.CatalogStore
	Ledger   *borrowService.Ledger
	Auth     *authService.AuthService
	Sessions *session.Manager
}

func NewWebController(
	catalog *catalogService.CatalogStore,
	ledger *borrowService.Ledger,
	auth *authService.AuthService,
	sessions *session.Manager,
) *WebController {
	return &WebController{Catalog: catalog, Ledger: ledger, Auth: auth, Sessions: sessions}
}

// render fills the fields every page reads (actor, flash, search box) and
// renders name inside the base layout.
func (h *WebController) render(c *fiber.Ctx, name, title string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Title"] = title
	data["Actor"] = authMw.ActorFrom(c)
	data["Flash"] = h.Sessions.PopFlash(c)
	if _, ok := data["Query"]; !ok {
		data["Query"] = ""
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = map[string][]string{}
	}
	return c.Render(name, data, views.Layout)
}

// pageError maps service errors to the HTML outcome: 404 page, login
// redirect or 403 page. Everything else goes to the app error handler.
func (h *WebController) pageError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Not found.")
	case errors.Is(err, errs.ErrPermissionDenied):
		if !authMw.ActorFrom(c).IsAuthenticated() {
			return c.Redirect(LoginPath+"?next="+url.QueryEscape(c.OriginalURL()), fiber.StatusFound)
		}
		return fiber.NewError(fiber.StatusForbidden, "You do not have permission to access this page.")
	}
	log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), err)
	return err
}

// safeNext keeps post-login redirects on this site.
func safeNext(next, fallback string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}

// GET /
func (h *WebController) Home(c *fiber.Ctx) error {
	return h.render(c, "home", "Home", nil)
}
