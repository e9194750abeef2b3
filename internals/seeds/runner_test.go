package seeds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library_backend/internals/databases/databasetest"
	catalogModel "library_backend/internals/features/catalog/model"
	userModel "library_backend/internals/features/users/user/model"
)

func TestRunAllSeedsIsRerunnable(t *testing.T) {
	db := databasetest.Open(t)

	require.NoError(t, RunAllSeeds(db, Embedded()))
	require.NoError(t, RunAllSeeds(db, Embedded()))

	var books []catalogModel.BookModel
	require.NoError(t, db.Preload("Authors").Preload("Genres").Order("title").Find(&books).Error)
	require.Len(t, books, 5)
	for _, b := range books {
		assert.True(t, b.Available, b.Title)
		assert.NotEmpty(t, b.Authors, b.Title)
		assert.NotEmpty(t, b.Genres, b.Title)
	}

	var staff userModel.UserModel
	require.NoError(t, db.Where("user_name = ?", "librarian").First(&staff).Error)
	assert.True(t, staff.IsStaffMember())

	var users int64
	require.NoError(t, db.Model(&userModel.UserModel{}).Count(&users).Error)
	assert.EqualValues(t, 2, users)
}
