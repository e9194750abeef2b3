// internals/features/borrowing/dto/borrow_request_dto.go
package dto

import (
	"strings"

	borrowModel "library_backend/internals/features/borrowing/model"
	helper "library_backend/internals/helpers"
	"library_backend/internals/helpers/dbtime"
	"library_backend/internals/helpers/errs"
)

var validate = helper.NewValidator()

/* =========================
   REQUEST
   ========================= */

// BorrowRequestWrite is the data API body for POST/PUT (all fields) and
// PATCH (present fields only).
type BorrowRequestWrite struct {
	Book         *uint   `json:"book" validate:"omitempty,min=1"`
	Borrower     *uint   `json:"borrower" validate:"omitempty,min=1"`
	Status       *int    `json:"status" validate:"omitempty,min=1,max=5"`
	Overdue      *bool   `json:"overdue"`
	ApprovalDate *string `json:"approval_date" validate:"omitempty,datetime=2006-01-02"`
	DueDate      *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	CompleteDate *string `json:"complete_date" validate:"omitempty,datetime=2006-01-02"`
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func (r *BorrowRequestWrite) Normalize() {
	r.ApprovalDate = trimPtr(r.ApprovalDate)
	r.DueDate = trimPtr(r.DueDate)
	r.CompleteDate = trimPtr(r.CompleteDate)
}

// Validate checks field formats; full requires book and borrower.
func (r *BorrowRequestWrite) Validate(full bool) error {
	verr := &errs.ValidationError{}
	if err := validate.Struct(r); err != nil {
		if ve, ok := errs.AsValidation(errs.FromValidator(err)); ok {
			verr = ve
		} else {
			return err
		}
	}
	if full {
		if r.Book == nil {
			verr.Add("book", "This field is required.")
		}
		if r.Borrower == nil {
			verr.Add("borrower", "This field is required.")
		}
	}
	return verr.OrNil()
}

// ToModel builds a new request; status defaults to Pending.
func (r *BorrowRequestWrite) ToModel() *borrowModel.BorrowRequestModel {
	m := &borrowModel.BorrowRequestModel{Status: borrowModel.StatusPending}
	r.ApplyToModel(m, true)
	return m
}

// ApplyToModel copies fields onto m. With full set, absent optional fields
// are cleared rather than kept.
func (r *BorrowRequestWrite) ApplyToModel(m *borrowModel.BorrowRequestModel, full bool) {
	if r.Book != nil {
		m.BookID = *r.Book
	}
	if r.Borrower != nil {
		m.BorrowerID = *r.Borrower
	}
	if r.Status != nil {
		m.Status = borrowModel.Status(*r.Status)
	} else if full {
		m.Status = borrowModel.StatusPending
	}
	if r.Overdue != nil {
		m.Overdue = *r.Overdue
	} else if full {
		m.Overdue = false
	}
	// Dates passed the datetime check in Validate; ParseDate errors are
	// unreachable here.
	if r.ApprovalDate != nil || full {
		m.ApprovalDate, _ = dbtime.ParseDate(deref(r.ApprovalDate))
	}
	if r.DueDate != nil || full {
		m.DueDate, _ = dbtime.ParseDate(deref(r.DueDate))
	}
	if r.CompleteDate != nil || full {
		m.CompleteDate, _ = dbtime.ParseDate(deref(r.CompleteDate))
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

/* =========================
   RESPONSE
   ========================= */

type BorrowRequestResponse struct {
	ID            uint    `json:"id"`
	Book          uint    `json:"book"`
	Borrower      uint    `json:"borrower"`
	Status        int     `json:"status"`
	StatusDisplay string  `json:"status_display"`
	Overdue       bool    `json:"overdue"`
	RequestDate   string  `json:"request_date"`
	ApprovalDate  *string `json:"approval_date"`
	DueDate       *string `json:"due_date"`
	CompleteDate  *string `json:"complete_date"`
}

func NewBorrowRequestResponse(m borrowModel.BorrowRequestModel) BorrowRequestResponse {
	return BorrowRequestResponse{
		ID:            m.ID,
		Book:          m.BookID,
		Borrower:      m.BorrowerID,
		Status:        int(m.Status),
		StatusDisplay: m.Status.String(),
		Overdue:       m.Overdue,
		RequestDate:   dbtime.FormatValue(m.RequestDate),
		ApprovalDate:  dbtime.FormatPtr(m.ApprovalDate),
		DueDate:       dbtime.FormatPtr(m.DueDate),
		CompleteDate:  dbtime.FormatPtr(m.CompleteDate),
	}
}

func NewBorrowRequestResponses(rows []borrowModel.BorrowRequestModel) []BorrowRequestResponse {
	out := make([]BorrowRequestResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, NewBorrowRequestResponse(r))
	}
	return out
}

/* =========================
   STATUS FORM
   ========================= */

// StatusChoice is one option of the change-status form.
type StatusChoice struct {
	Value    int
	Label    string
	Selected bool
}

func StatusChoices(current borrowModel.Status) []StatusChoice {
	out := make([]StatusChoice, 0, len(borrowModel.StatusChoices))
	for _, s := range borrowModel.StatusChoices {
		out = append(out, StatusChoice{Value: int(s), Label: s.String(), Selected: s == current})
	}
	return out
}
