// internals/features/borrowing/controller/borrow_requests_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"

	"library_backend/internals/features/borrowing/dto"
	borrowService "library_backend/internals/features/borrowing/service"
	helper "library_backend/internals/helpers"
	authMw "library_backend/internals/middlewares/auth"
)

// BorrowRequestsController is the staff data API over the ledger.
type BorrowRequestsController struct {
	Ledger *borrowService.Ledger
}

func NewBorrowRequestsController(ledger *borrowService.Ledger) *BorrowRequestsController {
	return &BorrowRequestsController{Ledger: ledger}
}

func (h *BorrowRequestsController) fail(c *fiber.Ctx, err error) error {
	return helper.FromServiceError(c, err, authMw.ActorFrom(c).IsAuthenticated())
}

// GET /api/borrow-requests
func (h *BorrowRequestsController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 200)

	rows, total, err := h.Ledger.ListPage(c.UserContext(), p.Offset, p.Limit)
	if err != nil {
		return h.fail(c, err)
	}
	var pagination *helper.Pagination
	if p.Enabled {
		pg := helper.BuildPaginationFromPage(total, p.Page, p.PerPage)
		pagination = &pg
	}
	return helper.JsonList(c, "ok", dto.NewBorrowRequestResponses(rows), pagination)
}

// GET /api/borrow-requests/:id
func (h *BorrowRequestsController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	row, err := h.Ledger.Get(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return helper.JsonOK(c, "ok", dto.NewBorrowRequestResponse(*row))
}

// POST /api/borrow-requests
func (h *BorrowRequestsController) Create(c *fiber.Ctx) error {
	var req dto.BorrowRequestWrite
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := req.Validate(true); err != nil {
		return h.fail(c, err)
	}

	m := req.ToModel()
	if err := h.Ledger.Save(c.UserContext(), m); err != nil {
		return h.fail(c, err)
	}
	return helper.JsonCreated(c, "Borrow request created", dto.NewBorrowRequestResponse(*m))
}

// PUT /api/borrow-requests/:id
func (h *BorrowRequestsController) Update(c *fiber.Ctx) error {
	return h.write(c, true)
}

// PATCH /api/borrow-requests/:id
func (h *BorrowRequestsController) Patch(c *fiber.Ctx) error {
	return h.write(c, false)
}

func (h *BorrowRequestsController) write(c *fiber.Ctx, full bool) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	var req dto.BorrowRequestWrite
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := req.Validate(full); err != nil {
		return h.fail(c, err)
	}

	row, err := h.Ledger.Get(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	req.ApplyToModel(row, full)

	if err := h.Ledger.Save(c.UserContext(), row); err != nil {
		return h.fail(c, err)
	}
	return helper.JsonUpdated(c, "Borrow request updated", dto.NewBorrowRequestResponse(*row))
}

// DELETE /api/borrow-requests/:id
func (h *BorrowRequestsController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.Ledger.Delete(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}
	return helper.JsonDeleted(c, "Borrow request deleted", fiber.Map{"id": id})
}
