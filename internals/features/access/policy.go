// Package access decides which actor may invoke which catalog or ledger
// operation.
package access

import (
	"fmt"

	"library_backend/internals/constants"
	"library_backend/internals/helpers/errs"
	userModel "library_backend/internals/features/users/user/model"
)

// Actor is the caller of an operation.
type Actor struct {
	UserID   uint
	UserName string
	Role     string
}

func Anonymous() Actor { return Actor{Role: constants.RoleAnonymous} }

// FromUser maps an account to its actor role.
func FromUser(u userModel.UserModel) Actor {
	role := constants.RoleMember
	if u.IsStaffMember() {
		role = constants.RoleStaff
	}
	return Actor{UserID: u.ID, UserName: u.UserName, Role: role}
}

func (a Actor) IsAuthenticated() bool {
	return a.UserID != 0 && a.Role != constants.RoleAnonymous && a.Role != ""
}

func (a Actor) IsStaff() bool { return a.IsAuthenticated() && a.Role == constants.RoleStaff }

type Capability string

const (
	ViewCatalog          Capability = "view_catalog"
	ManageBooks          Capability = "manage_books"
	CreateBorrowRequest  Capability = "create_borrow_request"
	ListBorrowRequests   Capability = "list_borrow_requests"
	ReviewBorrowRequests Capability = "review_borrow_requests" // approve, decline, arbitrary status
	HandOverBooks        Capability = "hand_over_books"        // collect, return
	UseBookAPI           Capability = "use_book_api"
	AdminBorrowAPI       Capability = "admin_borrow_api"
)

var grants = map[Capability][]string{
	ViewCatalog:          constants.AllRoles,
	ManageBooks:          constants.StaffOnly,
	CreateBorrowRequest:  constants.AuthenticatedRoles,
	ListBorrowRequests:   constants.AuthenticatedRoles,
	ReviewBorrowRequests: constants.StaffOnly,
	HandOverBooks:        constants.AuthenticatedRoles,
	UseBookAPI:           constants.AuthenticatedRoles,
	AdminBorrowAPI:       constants.StaffOnly,
}

// Can reports whether a holds capability c. Unknown capabilities are denied.
func Can(a Actor, c Capability) bool {
	role := a.Role
	if !a.IsAuthenticated() {
		role = constants.RoleAnonymous
	}
	for _, r := range grants[c] {
		if r == role {
			return true
		}
	}
	return false
}

// Check is Can returning errs.ErrPermissionDenied on refusal.
func Check(a Actor, c Capability) error {
	if Can(a, c) {
		return nil
	}
	return fmt.Errorf("%s: %w", c, errs.ErrPermissionDenied)
}

// OwnerScope returns the borrower id a borrow-request listing is limited to,
// or nil when the actor sees every request.
func OwnerScope(a Actor) *uint {
	if a.IsStaff() {
		return nil
	}
	id := a.UserID
	return &id
}
