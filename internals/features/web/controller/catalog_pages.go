package controller

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"library_backend/internals/features/catalog/dto"
	catalogModel "library_backend/internals/features/catalog/model"
	helper "library_backend/internals/helpers"
	"library_backend/internals/helpers/dbtime"
	"library_backend/internals/helpers/errs"
)

const duplicateISBNMessage = "Book with this Isbn already exists."

// GET /catalog
func (h *WebController) CatalogPage(c *fiber.Ctx) error {
	books, _, err := h.Catalog.List(c.UserContext(), 0, 0)
	if err != nil {
		return h.pageError(c, err)
	}
	return h.render(c, "catalog", "Catalog", fiber.Map{"Books": books, "Searching": false})
}

// GET /search?query=
func (h *WebController) Search(c *fiber.Ctx) error {
	q := c.Query("query")
	books, err := h.Catalog.Search(c.UserContext(), q)
	if err != nil {
		return h.pageError(c, err)
	}
	return h.render(c, "catalog", "Search", fiber.Map{"Books": books, "Searching": true, "Query": q})
}

// GET /book/:id
func (h *WebController) BookDetail(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	book, err := h.Catalog.Get(c.UserContext(), id)
	if err != nil {
		return h.pageError(c, err)
	}
	return h.render(c, "book_detail", book.Title, fiber.Map{
		"Book":          book,
		"PublishedDate": dbtime.Format(book.PublishedDate),
	})
}

/* ===== Book management ===== */

func (h *WebController) renderBookForm(c *fiber.Ctx, status int, editing bool, action string, form dto.BookRequest, fields map[string][]string) error {
	authors, err := h.Catalog.ListAuthors(c.UserContext())
	if err != nil {
		return h.pageError(c, err)
	}
	genres, err := h.Catalog.ListGenres(c.UserContext())
	if err != nil {
		return h.pageError(c, err)
	}
	if fields == nil {
		fields = map[string][]string{}
	}
	title := "Add a book"
	if editing {
		title = "Edit book"
	}
	c.Status(status)
	return h.render(c, "book_form", title, fiber.Map{
		"Editing": editing,
		"Action":  action,
		"Form":    form,
		"Errors":  fields,
		"Authors": authors,
		"Genres":  genres,
	})
}

// formErrors turns a failed save into field messages for the book form.
// ok is false for errors the form cannot show.
func formErrors(err error) (map[string][]string, bool) {
	if ve, ok := errs.AsValidation(err); ok {
		return ve.Fields, true
	}
	if errors.Is(err, errs.ErrConflict) {
		return map[string][]string{"isbn": {duplicateISBNMessage}}, true
	}
	return nil, false
}

func parseBookForm(c *fiber.Ctx) (dto.BookRequest, error) {
	var form dto.BookRequest
	if err := c.BodyParser(&form); err != nil {
		return form, fiber.NewError(fiber.StatusBadRequest, "Invalid form")
	}
	form.Normalize()
	return form, nil
}

// GET /add_book
func (h *WebController) AddBookPage(c *fiber.Ctx) error {
	return h.renderBookForm(c, fiber.StatusOK, false, "/add_book", dto.BookRequest{}, nil)
}

// POST /add_book
func (h *WebController) AddBook(c *fiber.Ctx) error {
	form, err := parseBookForm(c)
	if err != nil {
		return err
	}
	if err := form.Validate(); err != nil {
		fields, _ := formErrors(err)
		return h.renderBookForm(c, fiber.StatusOK, false, "/add_book", form, fields)
	}

	book := form.ToModel()
	if err := h.Catalog.Create(c.UserContext(), book, form.Authors, form.Genres); err != nil {
		if fields, ok := formErrors(err); ok {
			return h.renderBookForm(c, fiber.StatusOK, false, "/add_book", form, fields)
		}
		return h.pageError(c, err)
	}
	return c.Redirect("/catalog", fiber.StatusFound)
}

// GET /edit_book/:id
func (h *WebController) EditBookPage(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	book, err := h.Catalog.Get(c.UserContext(), id)
	if err != nil {
		return h.pageError(c, err)
	}
	return h.renderBookForm(c, fiber.StatusOK, true, editAction(id), dto.FromModel(*book), nil)
}

// POST /edit_book/:id
func (h *WebController) EditBook(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	form, err := parseBookForm(c)
	if err != nil {
		return err
	}
	if err := form.Validate(); err != nil {
		fields, _ := formErrors(err)
		return h.renderBookForm(c, fiber.StatusOK, true, editAction(id), form, fields)
	}

	_, err = h.Catalog.Update(c.UserContext(), id, func(m *catalogModel.BookModel) {
		form.ApplyToModel(m)
	}, &form.Authors, &form.Genres)
	if err != nil {
		if fields, ok := formErrors(err); ok {
			return h.renderBookForm(c, fiber.StatusOK, true, editAction(id), form, fields)
		}
		return h.pageError(c, err)
	}
	return c.Redirect(bookPath(id), fiber.StatusFound)
}

// POST /delete_book/:id
func (h *WebController) DeleteBook(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.Catalog.Delete(c.UserContext(), id); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			h.Sessions.Flash(c, "This book is on loan and cannot be deleted.")
			return c.Redirect(bookPath(id), fiber.StatusFound)
		}
		return h.pageError(c, err)
	}
	h.Sessions.Flash(c, "Book deleted.")
	return c.Redirect("/catalog", fiber.StatusFound)
}

func bookPath(id uint) string   { return "/book/" + strconv.FormatUint(uint64(id), 10) }
func editAction(id uint) string { return "/edit_book/" + strconv.FormatUint(uint64(id), 10) }
