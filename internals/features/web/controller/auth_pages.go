package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"library_backend/internals/features/access"
	"library_backend/internals/features/users/auth/dto"
	authService "library_backend/internals/features/users/auth/service"
	"library_backend/internals/helpers/errs"
	authMw "library_backend/internals/middlewares/auth"
)

const invalidLoginMessage = "Please enter a correct username and password. Note that both fields may be case-sensitive."

// GET /login
func (h *WebController) LoginPage(c *fiber.Ctx) error {
	return h.render(c, "login", "Log in", fiber.Map{
		"Next":           c.Query("next"),
		"UserName":       "",
		"NonFieldErrors": []string{},
	})
}

// POST /login
func (h *WebController) Login(c *fiber.Ctx) error {
	var form dto.LoginForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form")
	}

	user, err := h.Auth.Authenticate(c.UserContext(), form.UserName, form.Password)
	if err != nil {
		if !errors.Is(err, authService.ErrInvalidCredentials) {
			return h.pageError(c, err)
		}
		return h.render(c, "login", "Log in", fiber.Map{
			"Next":           form.Next,
			"UserName":       form.UserName,
			"NonFieldErrors": []string{invalidLoginMessage},
		})
	}

	if err := h.Sessions.Login(c, user.ID); err != nil {
		return h.pageError(c, err)
	}
	log.Printf("[INFO] %s logged in", user.UserName)
	return c.Redirect(safeNext(form.Next, "/catalog"), fiber.StatusFound)
}

// GET|POST /logout
func (h *WebController) Logout(c *fiber.Ctx) error {
	if err := h.Sessions.Logout(c); err != nil {
		log.Printf("[WARN] logout: %v", err)
	}
	c.Locals(authMw.LocActor, access.Anonymous())
	return h.render(c, "logout", "Logged out", nil)
}

// GET /register
func (h *WebController) RegisterPage(c *fiber.Ctx) error {
	return h.render(c, "register", "Register", fiber.Map{"Form": dto.RegisterForm{}})
}

// POST /register
func (h *WebController) Register(c *fiber.Ctx) error {
	var form dto.RegisterForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form")
	}

	_, err := h.Auth.Register(c.UserContext(), authService.RegisterInput{
		UserName:  form.UserName,
		Email:     form.Email,
		Password1: form.Password1,
		Password2: form.Password2,
	})
	if err != nil {
		ve, ok := errs.AsValidation(err)
		if !ok {
			return h.pageError(c, err)
		}
		form.Password1, form.Password2 = "", ""
		return h.render(c, "register", "Register", fiber.Map{"Form": form, "Errors": ve.Fields})
	}
	return c.Redirect("/catalog", fiber.StatusFound)
}
