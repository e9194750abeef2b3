// internals/features/catalog/controller/books_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"

	"library_backend/internals/features/catalog/dto"
	catalogModel "library_backend/internals/features/catalog/model"
	catalogService "library_backend/internals/features/catalog/service"
	helper "library_backend/internals/helpers"
	authMw "library_backend/internals/middlewares/auth"
)

type BooksController struct {
	Store *catalogService.CatalogStore
}

func NewBooksController(store *catalogService.CatalogStore) *BooksController {
	return &BooksController{Store: store}
}

func (h *BooksController) fail(c *fiber.Ctx, err error) error {
	return helper.FromServiceError(c, err, authMw.ActorFrom(c).IsAuthenticated())
}

// =========================================================
// LIST - GET /api/books
// =========================================================
func (h *BooksController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 200)

	rows, total, err := h.Store.List(c.UserContext(), p.Offset, p.Limit)
	if err != nil {
		return h.fail(c, err)
	}
	var pagination *helper.Pagination
	if p.Enabled {
		pg := helper.BuildPaginationFromPage(total, p.Page, p.PerPage)
		pagination = &pg
	}
	return helper.JsonList(c, "ok", dto.NewBookResponses(rows), pagination)
}

// =========================================================
// DETAIL - GET /api/books/:id
// =========================================================
func (h *BooksController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	book, err := h.Store.Get(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return helper.JsonOK(c, "ok", dto.NewBookResponse(*book))
}

// =========================================================
// CREATE - POST /api/books
// =========================================================
func (h *BooksController) Create(c *fiber.Ctx) error {
	var req dto.BookRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return h.fail(c, err)
	}

	m := req.ToModel()
	if err := h.Store.Create(c.UserContext(), m, req.Authors, req.Genres); err != nil {
		return h.fail(c, err)
	}
	book, err := h.Store.Get(c.UserContext(), m.ID)
	if err != nil {
		return h.fail(c, err)
	}
	return helper.JsonCreated(c, "Book created", dto.NewBookResponse(*book))
}

// =========================================================
// UPDATE - PUT /api/books/:id
// =========================================================
func (h *BooksController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	var req dto.BookRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return h.fail(c, err)
	}

	book, err := h.Store.Update(c.UserContext(), id, req.ApplyToModel, &req.Authors, &req.Genres)
	if err != nil {
		return h.fail(c, err)
	}
	return helper.JsonUpdated(c, "Book updated", dto.NewBookResponse(*book))
}

// =========================================================
// PATCH - PATCH /api/books/:id
// =========================================================
func (h *BooksController) Patch(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	var req dto.BookPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return h.fail(c, err)
	}

	book, err := h.Store.Update(c.UserContext(), id, req.ApplyToModel, req.Authors, req.Genres)
	if err != nil {
		return h.fail(c, err)
	}
	return helper.JsonUpdated(c, "Book updated", dto.NewBookResponse(*book))
}

// =========================================================
// DELETE - DELETE /api/books/:id
// =========================================================
func (h *BooksController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.Store.Delete(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}
	return helper.JsonDeleted(c, "Book deleted", fiber.Map{"id": id})
}

// =========================================================
// AUTHORS & GENRES
// =========================================================
func (h *BooksController) ListAuthors(c *fiber.Ctx) error {
	rows, err := h.Store.ListAuthors(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	if rows == nil {
		rows = []catalogModel.AuthorModel{}
	}
	return helper.JsonList(c, "ok", rows, nil)
}

func (h *BooksController) CreateAuthor(c *fiber.Ctx) error {
	var req dto.AuthorRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return h.fail(c, err)
	}
	m := req.ToModel()
	if err := h.Store.CreateAuthor(c.UserContext(), m); err != nil {
		return h.fail(c, err)
	}
	return helper.JsonCreated(c, "Author created", m)
}

func (h *BooksController) ListGenres(c *fiber.Ctx) error {
	rows, err := h.Store.ListGenres(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	if rows == nil {
		rows = []catalogModel.GenreModel{}
	}
	return helper.JsonList(c, "ok", rows, nil)
}

func (h *BooksController) CreateGenre(c *fiber.Ctx) error {
	var req dto.GenreRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return h.fail(c, err)
	}
	m := req.ToModel()
	if err := h.Store.CreateGenre(c.UserContext(), m); err != nil {
		return h.fail(c, err)
	}
	return helper.JsonCreated(c, "Genre created", m)
}
