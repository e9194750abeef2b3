// file: internals/features/web/route/web_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"library_backend/internals/features/access"
	webController "library_backend/internals/features/web/controller"
	"library_backend/internals/middlewares"
	authMw "library_backend/internals/middlewares/auth"
)

// WebRoutes mounts the server-rendered pages on app.
func WebRoutes(app fiber.Router, h *webController.WebController) {
	page := func(capability access.Capability) fiber.Handler {
		return authMw.RequireCapabilityPage(capability, webController.LoginPath)
	}

	/* ===== Public ===== */
	app.Get("/", h.Home)
	app.Get("/login", h.LoginPage)
	app.Post("/login", middlewares.LoginRateLimiter(), h.Login)
	app.Get("/logout", h.Logout)
	app.Post("/logout", h.Logout)
	app.Get("/register", h.RegisterPage)
	app.Post("/register", middlewares.RegisterRateLimiter(), h.Register)

	app.Get("/catalog", page(access.ViewCatalog), h.CatalogPage)
	app.Get("/search", page(access.ViewCatalog), h.Search)
	app.Get("/book/:id", page(access.ViewCatalog), h.BookDetail)

	/* ===== Book management (staff) ===== */
	manage := page(access.ManageBooks)
	app.Get("/add_book", manage, h.AddBookPage)
	app.Post("/add_book", manage, h.AddBook)
	app.Get("/edit_book/:id", manage, h.EditBookPage)
	app.Post("/edit_book/:id", manage, h.EditBook)
	app.Post("/delete_book/:id", manage, h.DeleteBook)

	/* ===== Borrowing ===== */
	app.Post("/book/:id/borrow_request", page(access.CreateBorrowRequest), h.CreateBorrowRequest)
	app.Get("/borrow_requests", page(access.ListBorrowRequests), h.BorrowRequests)

	handOver := page(access.HandOverBooks)
	app.Post("/borrow_request/:id/collect", handOver, h.Collect)
	app.Post("/borrow_request/:id/return", handOver, h.Return)

	review := page(access.ReviewBorrowRequests)
	app.Post("/borrow_request/:id/approve", review, h.Approve)
	app.Post("/borrow_request/:id/decline", review, h.Decline)
	app.Get("/borrow_request/:id/status", review, h.ChangeStatusPage)
	app.Post("/borrow_request/:id/status", review, h.ChangeStatus)
}
