// file: internals/features/catalog/route/api_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"library_backend/internals/features/access"
	catalogController "library_backend/internals/features/catalog/controller"
	catalogService "library_backend/internals/features/catalog/service"
	authMw "library_backend/internals/middlewares/auth"
)

// CatalogAPIRoutes mounts /books, /authors and /genres under api.
func CatalogAPIRoutes(api fiber.Router, store *catalogService.CatalogStore) {
	h := catalogController.NewBooksController(store)

	books := api.Group("/books", authMw.RequireCapability(access.UseBookAPI))
	books.Get("/", h.List)
	books.Post("/", h.Create)
	books.Get("/:id", h.Get)
	books.Put("/:id", h.Update)
	books.Patch("/:id", h.Patch)
	books.Delete("/:id", h.Delete)

	authors := api.Group("/authors", authMw.RequireCapability(access.UseBookAPI))
	authors.Get("/", h.ListAuthors)
	authors.Post("/", authMw.RequireCapability(access.ManageBooks), h.CreateAuthor)

	genres := api.Group("/genres", authMw.RequireCapability(access.UseBookAPI))
	genres.Get("/", h.ListGenres)
	genres.Post("/", authMw.RequireCapability(access.ManageBooks), h.CreateGenre)
}
