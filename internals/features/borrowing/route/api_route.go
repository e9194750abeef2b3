// file: internals/features/borrowing/route/api_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"library_backend/internals/features/access"
	borrowController "library_backend/internals/features/borrowing/controller"
	borrowService "library_backend/internals/features/borrowing/service"
	authMw "library_backend/internals/middlewares/auth"
)

// BorrowingAPIRoutes mounts /borrow-requests under api, staff only.
func BorrowingAPIRoutes(api fiber.Router, ledger *borrowService.Ledger) {
	h := borrowController.NewBorrowRequestsController(ledger)

	g := api.Group("/borrow-requests", authMw.RequireCapability(access.AdminBorrowAPI))
	g.Get("/", h.List)
	g.Post("/", h.Create)
	g.Get("/:id", h.Get)
	g.Put("/:id", h.Update)
	g.Patch("/:id", h.Patch)
	g.Delete("/:id", h.Delete)
}
