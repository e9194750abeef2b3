package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library_backend/internals/databases/databasetest"
	borrowModel "library_backend/internals/features/borrowing/model"
	borrowService "library_backend/internals/features/borrowing/service"
	catalogModel "library_backend/internals/features/catalog/model"
	userModel "library_backend/internals/features/users/user/model"
	"library_backend/internals/helpers/dbtime"
)

func TestRunOverdueSweep(t *testing.T) {
	db := databasetest.Open(t)
	ctx := context.Background()

	u := userModel.UserModel{UserName: "alice", Password: "x", IsActive: true}
	require.NoError(t, db.Create(&u).Error)
	b := catalogModel.BookModel{Title: "Dune", ISBN: "9780441013593", Available: true}
	require.NoError(t, db.Omit("Genres", "Authors", "Borrower").Create(&b).Error)

	due := dbtime.AddDays(dbtime.Today(time.Now()), -1)
	req := &borrowModel.BorrowRequestModel{
		BookID: b.ID, BorrowerID: u.ID,
		Status:  borrowModel.StatusCollected,
		DueDate: &due,
	}
	ledger := borrowService.NewLedger(db, 14)
	require.NoError(t, ledger.Save(ctx, req))

	assert.Equal(t, int64(1), RunOverdueSweep(ctx, ledger, time.Now()))
	assert.Equal(t, int64(0), RunOverdueSweep(ctx, ledger, time.Now()))
}
