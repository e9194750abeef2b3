// Package service holds the borrow ledger: the borrow-request state machine
// and the book availability derived from it.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"library_backend/internals/features/access"
	borrowModel "library_backend/internals/features/borrowing/model"
	catalogModel "library_backend/internals/features/catalog/model"
	userModel "library_backend/internals/features/users/user/model"
	"library_backend/internals/helpers/dbtime"
	"library_backend/internals/helpers/errs"
)

/* ==========================
   Const & Types
========================== */

const DefaultLoanPeriodDays = 14

type Ledger struct {
	DB             *gorm.DB
	LoanPeriodDays int
	Now            func() time.Time
}

func NewLedger(db *gorm.DB, loanPeriodDays int) *Ledger {
	if loanPeriodDays <= 0 {
		loanPeriodDays = DefaultLoanPeriodDays
	}
	return &Ledger{DB: db, LoanPeriodDays: loanPeriodDays, Now: time.Now}
}

func (l *Ledger) today() time.Time {
	if l.Now == nil {
		return time.Now()
	}
	return l.Now()
}

func (l *Ledger) loanDays() int {
	if l.LoanPeriodDays <= 0 {
		return DefaultLoanPeriodDays
	}
	return l.LoanPeriodDays
}

func notFound(what string, id uint) error {
	return fmt.Errorf("%s %d: %w", what, id, errs.ErrNotFound)
}

/* ==========================
   CREATE
========================== */

// Create opens a Pending request for (bookID, borrowerID). A second Pending
// request for the same pair is rejected with errs.ErrConflict.
func (l *Ledger) Create(ctx context.Context, bookID, borrowerID uint) (*borrowModel.BorrowRequestModel, error) {
	var out borrowModel.BorrowRequestModel
	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &catalogModel.BookModel{}, bookID, "book"); err != nil {
			return err
		}

		var pending int64
		if err := tx.Model(&borrowModel.BorrowRequestModel{}).
			Where("book_id = ? AND borrower_id = ? AND status = ?", bookID, borrowerID, borrowModel.StatusPending).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending > 0 {
			return fmt.Errorf("a pending request for this book already exists: %w", errs.ErrConflict)
		}

		out = borrowModel.BorrowRequestModel{
			BookID:      bookID,
			BorrowerID:  borrowerID,
			Status:      borrowModel.StatusPending,
			Overdue:     false,
			RequestDate: dbtime.Today(l.today()),
		}
		if err := tx.Omit(clause.Associations).Create(&out).Error; err != nil {
			return err
		}
		return recompute(tx, bookID)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

/* ==========================
   TRANSITIONS
========================== */

func (l *Ledger) Approve(ctx context.Context, id uint) (*borrowModel.BorrowRequestModel, error) {
	today := dbtime.Today(l.today())
	return l.transition(ctx, id, borrowModel.StatusPending, borrowModel.StatusApproved, map[string]any{
		"approval_date": today,
	})
}

func (l *Ledger) Decline(ctx context.Context, id uint) (*borrowModel.BorrowRequestModel, error) {
	return l.transition(ctx, id, borrowModel.StatusPending, borrowModel.StatusDeclined, nil)
}

// Collect hands the book over; the loan is due LoanPeriodDays from today.
func (l *Ledger) Collect(ctx context.Context, id uint) (*borrowModel.BorrowRequestModel, error) {
	due := dbtime.AddDays(dbtime.Today(l.today()), l.loanDays())
	return l.transition(ctx, id, borrowModel.StatusApproved, borrowModel.StatusCollected, map[string]any{
		"due_date": due,
	})
}

func (l *Ledger) Return(ctx context.Context, id uint) (*borrowModel.BorrowRequestModel, error) {
	today := dbtime.Today(l.today())
	return l.transition(ctx, id, borrowModel.StatusCollected, borrowModel.StatusComplete, map[string]any{
		"complete_date": today,
		"overdue":       false,
	})
}

// transition moves request id from one status to the next. The write is a
// compare-and-set on the current status, so a concurrent transition that got
// there first turns this one into errs.ErrIllegalTransition.
func (l *Ledger) transition(ctx context.Context, id uint, from, to borrowModel.Status, extra map[string]any) (*borrowModel.BorrowRequestModel, error) {
	var out borrowModel.BorrowRequestModel
	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&out, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("borrow request", id)
			}
			return err
		}
		if out.Status != from {
			return fmt.Errorf("%s → %s from %s: %w", from, to, out.Status, errs.ErrIllegalTransition)
		}

		updates := map[string]any{"status": to}
		for k, v := range extra {
			updates[k] = v
		}
		res := tx.Model(&borrowModel.BorrowRequestModel{}).
			Where("id = ? AND status = ?", id, from).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%s → %s lost a race: %w", from, to, errs.ErrIllegalTransition)
		}

		if err := recompute(tx, out.BookID); err != nil {
			return err
		}
		return tx.First(&out, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangeStatus sets any valid status without checking the transition. It is
// the staff override and still keeps book availability consistent.
func (l *Ledger) ChangeStatus(ctx context.Context, id uint, status borrowModel.Status) (*borrowModel.BorrowRequestModel, error) {
	if !status.Valid() {
		return nil, errs.Invalid("status", fmt.Sprintf("Select a valid choice. %d is not one of the available choices.", int(status)))
	}

	var out borrowModel.BorrowRequestModel
	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&out, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("borrow request", id)
			}
			return err
		}
		if err := tx.Model(&borrowModel.BorrowRequestModel{}).
			Where("id = ?", id).
			Update("status", status).Error; err != nil {
			return err
		}
		if err := recompute(tx, out.BookID); err != nil {
			return err
		}
		return tx.First(&out, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

/* ==========================
   READ
========================== */

// List returns the requests visible to actor, newest first.
func (l *Ledger) List(ctx context.Context, actor access.Actor) ([]borrowModel.BorrowRequestModel, error) {
	if err := access.Check(actor, access.ListBorrowRequests); err != nil {
		return nil, err
	}

	q := l.DB.WithContext(ctx).
		Preload("Book").
		Preload("Borrower").
		Order("id DESC")
	if owner := access.OwnerScope(actor); owner != nil {
		q = q.Where("borrower_id = ?", *owner)
	}

	var rows []borrowModel.BorrowRequestModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListPage is List for the data API: every request, optionally paged.
func (l *Ledger) ListPage(ctx context.Context, offset, limit int) ([]borrowModel.BorrowRequestModel, int64, error) {
	var total int64
	if err := l.DB.WithContext(ctx).Model(&borrowModel.BorrowRequestModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := l.DB.WithContext(ctx).Order("id DESC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	var rows []borrowModel.BorrowRequestModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (l *Ledger) Get(ctx context.Context, id uint) (*borrowModel.BorrowRequestModel, error) {
	var out borrowModel.BorrowRequestModel
	err := l.DB.WithContext(ctx).
		Preload("Book").
		Preload("Borrower").
		First(&out, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("borrow request", id)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

/* ==========================
   DATA API WRITES
========================== */

// Save writes every field of req (insert when req.ID is zero). Status goes
// through unchecked like ChangeStatus; the books on both sides of a moved
// request are recomputed.
func (l *Ledger) Save(ctx context.Context, req *borrowModel.BorrowRequestModel) error {
	if !req.Status.Valid() {
		return errs.Invalid("status", fmt.Sprintf("Select a valid choice. %d is not one of the available choices.", int(req.Status)))
	}

	return l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		verr := &errs.ValidationError{}
		if err := mustExist(tx, &catalogModel.BookModel{}, req.BookID, "book"); err != nil {
			if !errors.Is(err, errs.ErrNotFound) {
				return err
			}
			verr.Add("book", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", req.BookID))
		}
		if err := mustExist(tx, &userModel.UserModel{}, req.BorrowerID, "user"); err != nil {
			if !errors.Is(err, errs.ErrNotFound) {
				return err
			}
			verr.Add("borrower", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", req.BorrowerID))
		}
		if err := verr.OrNil(); err != nil {
			return err
		}

		if req.ID == 0 {
			if time.Time(req.RequestDate).IsZero() {
				req.RequestDate = dbtime.Today(l.today())
			}
			if err := tx.Omit(clause.Associations).Create(req).Error; err != nil {
				return err
			}
			return recompute(tx, req.BookID)
		}

		var prev borrowModel.BorrowRequestModel
		if err := tx.First(&prev, req.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("borrow request", req.ID)
			}
			return err
		}
		req.RequestDate = prev.RequestDate
		if err := tx.Omit(clause.Associations, "request_date").Save(req).Error; err != nil {
			return err
		}
		if prev.BookID != req.BookID {
			if err := recompute(tx, prev.BookID); err != nil {
				return err
			}
		}
		return recompute(tx, req.BookID)
	})
}

func (l *Ledger) Delete(ctx context.Context, id uint) error {
	return l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row borrowModel.BorrowRequestModel
		if err := tx.First(&row, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("borrow request", id)
			}
			return err
		}
		if err := tx.Delete(&borrowModel.BorrowRequestModel{}, id).Error; err != nil {
			return err
		}
		return recompute(tx, row.BookID)
	})
}

/* ==========================
   OVERDUE
========================== */

// MarkOverdue flags Collected requests whose due date is before the calendar
// day of now. It returns how many requests were flagged.
func (l *Ledger) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	var rows []borrowModel.BorrowRequestModel
	if err := l.DB.WithContext(ctx).
		Select("id", "due_date").
		Where("status = ? AND overdue = ? AND due_date IS NOT NULL", borrowModel.StatusCollected, false).
		Find(&rows).Error; err != nil {
		return 0, err
	}

	today := dbtime.Today(now)
	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		if r.DueDate != nil && dbtime.Before(*r.DueDate, today) {
			ids = append(ids, r.ID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	res := l.DB.WithContext(ctx).
		Model(&borrowModel.BorrowRequestModel{}).
		Where("id IN ? AND status = ?", ids, borrowModel.StatusCollected).
		Update("overdue", true)
	return res.RowsAffected, res.Error
}

/* ==========================
   Availability
========================== */

// recompute derives book availability from its requests: the book is out
// while any request is Approved or Collected, and its borrower is the holder
// of that request (Collected first).
func recompute(tx *gorm.DB, bookID uint) error {
	var blocking []borrowModel.BorrowRequestModel
	if err := tx.Select("id", "borrower_id", "status").
		Where("book_id = ? AND status IN ?", bookID, borrowModel.OutStatuses).
		Order("status DESC, id DESC").
		Limit(1).
		Find(&blocking).Error; err != nil {
		return err
	}

	updates := map[string]any{"available": true, "borrower_id": nil}
	if len(blocking) > 0 {
		updates["available"] = false
		updates["borrower_id"] = blocking[0].BorrowerID
	}
	return tx.Model(&catalogModel.BookModel{}).Where("id = ?", bookID).Updates(updates).Error
}

func mustExist(tx *gorm.DB, model any, id uint, what string) error {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return notFound(what, id)
	}
	return nil
}
