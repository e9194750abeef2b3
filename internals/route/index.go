// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"library_backend/internals/configs"
	database "library_backend/internals/databases"
	borrowRoute "library_backend/internals/features/borrowing/route"
	borrowService "library_backend/internals/features/borrowing/service"
	catalogRoute "library_backend/internals/features/catalog/route"
	catalogService "library_backend/internals/features/catalog/service"
	authRoute "library_backend/internals/features/users/auth/route"
	authService "library_backend/internals/features/users/auth/service"
	webController "library_backend/internals/features/web/controller"
	webRoute "library_backend/internals/features/web/route"
	"library_backend/internals/middlewares"
	authMw "library_backend/internals/middlewares/auth"
	"library_backend/internals/middlewares/session"
)

var startTime = time.Now()

// Services is everything the routes need, built once per process.
type Services struct {
	DB       *gorm.DB
	Catalog  *catalogService.CatalogStore
	Ledger   *borrowService.Ledger
	Auth     *authService.AuthService
	Tokens   *authService.TokenService
	Sessions *session.Manager
}

func NewServices(db *gorm.DB, cfg *configs.Config) *Services {
	sessions := session.NewManager(session.Config{
		CookieName:  cfg.SessionCookieName,
		Secure:      cfg.SessionSecure,
		IdleTimeout: cfg.SessionIdleTimeout,
	})
	return &Services{
		DB:       db,
		Catalog:  catalogService.NewCatalogStore(db),
		Ledger:   borrowService.NewLedger(db, cfg.LoanPeriodDays),
		Auth:     authService.NewAuthService(db),
		Tokens:   authService.NewTokenService(db, cfg.JWTSecret, cfg.JWTTTL),
		Sessions: sessions,
	}
}

func SetupRoutes(app *fiber.App, svc *Services, cfg *configs.Config) {
	startTime = time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, svc.DB)

	// CORS runs before the actor check so rejected API calls still carry it
	app.Use("/api", middlewares.CorsMiddleware(cfg.CORSOrigins))

	app.Use(svc.Sessions.Middleware())
	app.Use(authMw.ActorResolver{
		Users:    svc.Auth,
		Tokens:   svc.Tokens,
		Sessions: svc.Sessions,
	}.Middleware())

	// ===================== DATA API =====================
	api := app.Group("/api")

	log.Println("[INFO] Mounting Auth routes...")
	authRoute.AuthRoutes(api, svc.Auth, svc.Tokens)

	log.Println("[INFO] Mounting Catalog routes...")
	catalogRoute.CatalogAPIRoutes(api, svc.Catalog)

	log.Println("[INFO] Mounting Borrowing routes...")
	borrowRoute.BorrowingAPIRoutes(api, svc.Ledger)

	// ===================== HTML =====================
	log.Println("[INFO] Mounting Web routes...")
	webRoute.WebRoutes(app, webController.NewWebController(svc.Catalog, svc.Ledger, svc.Auth, svc.Sessions))
}

// BaseRoutes registers the probes that bypass sessions and auth.
func BaseRoutes(app *fiber.App, db *gorm.DB) {
	app.Get("/health", func(c *fiber.Ctx) error {
		dbStatus := "Connected"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		if err := database.Ping(db); err != nil {
			dbStatus = "Database connection error"
			serverStatus = "DOWN"
			httpStatus = fiber.StatusServiceUnavailable
		}

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"database":       dbStatus,
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
		})
	})
}
