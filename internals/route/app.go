package routes

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"library_backend/internals/configs"
	helper "library_backend/internals/helpers"
	"library_backend/internals/middlewares"
	authMw "library_backend/internals/middlewares/auth"
	"library_backend/internals/views"
)

// NewApp builds the Fiber app with views, error handling and every route.
// extra runs after recovery and request-id and before any route; the serve
// command passes the access log, compression and global limiter there.
func NewApp(svc *Services, cfg *configs.Config, extra ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		Views:                 views.NewEngine(),
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
	})

	app.Use(middlewares.RecoveryMiddleware())
	app.Use(middlewares.RequestID(5 * time.Second))
	for _, h := range extra {
		app.Use(h)
	}

	SetupRoutes(app, svc, cfg)
	return app
}

// ErrorHandler answers API paths with the JSON error envelope and
// everything else with the HTML error page.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	} else {
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
	}

	if strings.HasPrefix(c.Path(), "/api") {
		return helper.JsonError(c, code, msg)
	}

	c.Status(code)
	rerr := c.Render("errors/error", fiber.Map{
		"Title":   http.StatusText(code),
		"Code":    code,
		"Message": msg,
		"Actor":   authMw.ActorFrom(c),
		"Flash":   "",
		"Query":   "",
	}, views.Layout)
	if rerr != nil {
		log.Printf("[ERROR] render error page: %v", rerr)
		return c.Status(code).SendString(msg)
	}
	return nil
}
