package controller

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"library_backend/internals/features/borrowing/dto"
	borrowModel "library_backend/internals/features/borrowing/model"
	helper "library_backend/internals/helpers"
	"library_backend/internals/helpers/dbtime"
	"library_backend/internals/helpers/errs"
	authMw "library_backend/internals/middlewares/auth"
)

const borrowRequestsPath = "/borrow_requests"

// requestRow is one line of the borrow request table.
type requestRow struct {
	ID           uint
	BookID       uint
	BookTitle    string
	BorrowerName string
	Status       string
	Overdue      bool
	RequestDate  string
	DueDate      string
	IsPending    bool
	IsApproved   bool
	IsCollected  bool
}

func newRequestRow(m borrowModel.BorrowRequestModel) requestRow {
	return requestRow{
		ID:           m.ID,
		BookID:       m.BookID,
		BookTitle:    m.Book.Title,
		BorrowerName: m.Borrower.UserName,
		Status:       m.Status.String(),
		Overdue:      m.Overdue,
		RequestDate:  dbtime.FormatValue(m.RequestDate),
		DueDate:      dbtime.Format(m.DueDate),
		IsPending:    m.Status == borrowModel.StatusPending,
		IsApproved:   m.Status == borrowModel.StatusApproved,
		IsCollected:  m.Status == borrowModel.StatusCollected,
	}
}

// POST /book/:id/borrow_request
func (h *WebController) CreateBorrowRequest(c *fiber.Ctx) error {
	bookID, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	actor := authMw.ActorFrom(c)

	if _, err := h.Ledger.Create(c.UserContext(), bookID, actor.UserID); err != nil {
		// a pending request for the same book already exists
		if errors.Is(err, errs.ErrConflict) {
			return c.Redirect(bookPath(bookID), fiber.StatusFound)
		}
		return h.pageError(c, err)
	}
	h.Sessions.Flash(c, "Borrow request created.")
	return c.Redirect(bookPath(bookID), fiber.StatusFound)
}

// GET /borrow_requests
func (h *WebController) BorrowRequests(c *fiber.Ctx) error {
	rows, err := h.Ledger.List(c.UserContext(), authMw.ActorFrom(c))
	if err != nil {
		return h.pageError(c, err)
	}
	out := make([]requestRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, newRequestRow(r))
	}
	return h.render(c, "borrow_requests", "Borrow requests", fiber.Map{"Requests": out})
}

type transitionFunc func(ctx context.Context, id uint) (*borrowModel.BorrowRequestModel, error)

// transition runs one lifecycle step and goes back to the request list.
// Steps that do not apply to the current status are ignored.
func (h *WebController) transition(c *fiber.Ctx, step transitionFunc) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	if _, err := step(c.UserContext(), id); err != nil && !errors.Is(err, errs.ErrIllegalTransition) {
		return h.pageError(c, err)
	}
	return c.Redirect(borrowRequestsPath, fiber.StatusFound)
}

// POST /borrow_request/:id/approve
func (h *WebController) Approve(c *fiber.Ctx) error { return h.transition(c, h.Ledger.Approve) }

// POST /borrow_request/:id/decline
func (h *WebController) Decline(c *fiber.Ctx) error { return h.transition(c, h.Ledger.Decline) }

// POST /borrow_request/:id/collect
func (h *WebController) Collect(c *fiber.Ctx) error { return h.transition(c, h.Ledger.Collect) }

// POST /borrow_request/:id/return
func (h *WebController) Return(c *fiber.Ctx) error { return h.transition(c, h.Ledger.Return) }

/* ===== Change status ===== */

func (h *WebController) renderChangeStatus(c *fiber.Ctx, req borrowModel.BorrowRequestModel, selected borrowModel.Status, fields map[string][]string) error {
	if fields == nil {
		fields = map[string][]string{}
	}
	return h.render(c, "change_status", "Change status", fiber.Map{
		"Request": newRequestRow(req),
		"Choices": dto.StatusChoices(selected),
		"Errors":  fields,
	})
}

// GET /borrow_request/:id/status
func (h *WebController) ChangeStatusPage(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	req, err := h.Ledger.Get(c.UserContext(), id)
	if err != nil {
		return h.pageError(c, err)
	}
	return h.renderChangeStatus(c, *req, req.Status, nil)
}

// POST /borrow_request/:id/status
func (h *WebController) ChangeStatus(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	req, err := h.Ledger.Get(c.UserContext(), id)
	if err != nil {
		return h.pageError(c, err)
	}

	raw := c.FormValue("status")
	n, convErr := strconv.Atoi(raw)
	status := borrowModel.Status(n)
	if convErr != nil {
		return h.renderChangeStatus(c, *req, req.Status, map[string][]string{
			"status": {"Select a valid choice. " + raw + " is not one of the available choices."},
		})
	}

	if _, err := h.Ledger.ChangeStatus(c.UserContext(), id, status); err != nil {
		if ve, ok := errs.AsValidation(err); ok {
			return h.renderChangeStatus(c, *req, req.Status, ve.Fields)
		}
		return h.pageError(c, err)
	}
	return c.Redirect(borrowRequestsPath, fiber.StatusFound)
}
