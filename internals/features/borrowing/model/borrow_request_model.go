package model

import (
	"gorm.io/datatypes"

	catalogModel "library_backend/internals/features/catalog/model"
	userModel "library_backend/internals/features/users/user/model"
)

// Status is stored as an integer, matching the historical choice table.
type Status int

const (
	StatusPending   Status = 1
	StatusApproved  Status = 2
	StatusCollected Status = 3
	StatusComplete  Status = 4
	StatusDeclined  Status = 5
)

// StatusChoices is the display order used by the status-change form.
var StatusChoices = []Status{StatusPending, StatusApproved, StatusCollected, StatusComplete, StatusDeclined}

// OutStatuses are the statuses during which the book is off the shelf.
var OutStatuses = []Status{StatusApproved, StatusCollected}

func (s Status) Valid() bool { return s >= StatusPending && s <= StatusDeclined }

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusApproved:
		return "Approved"
	case StatusCollected:
		return "Collected"
	case StatusComplete:
		return "Complete"
	case StatusDeclined:
		return "Declined"
	default:
		return "Unknown"
	}
}

func (s Status) IsTerminal() bool { return s == StatusComplete || s == StatusDeclined }

type BorrowRequestModel struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BookID uint                   `gorm:"column:book_id;not null;index:idx_br_book_status,priority:1" json:"book"`
	Book   catalogModel.BookModel `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`

	BorrowerID uint                `gorm:"column:borrower_id;not null;index:idx_br_borrower" json:"borrower"`
	Borrower   userModel.UserModel `gorm:"foreignKey:BorrowerID;constraint:OnDelete:CASCADE" json:"-"`

	Status  Status `gorm:"column:status;not null;index:idx_br_book_status,priority:2" json:"status"`
	Overdue bool   `gorm:"column:overdue;not null" json:"overdue"`

	// request_date is written once on insert
	RequestDate  datatypes.Date  `gorm:"column:request_date;not null;<-:create" json:"request_date"`
	ApprovalDate *datatypes.Date `gorm:"column:approval_date" json:"approval_date"`
	DueDate      *datatypes.Date `gorm:"column:due_date" json:"due_date"`
	CompleteDate *datatypes.Date `gorm:"column:complete_date" json:"complete_date"`
}

func (BorrowRequestModel) TableName() string { return "borrow_requests" }
