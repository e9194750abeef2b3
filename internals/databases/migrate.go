package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	borrowModel "library_backend/internals/features/borrowing/model"
	catalogModel "library_backend/internals/features/catalog/model"
	authModel "library_backend/internals/features/users/auth/model"
	userModel "library_backend/internals/features/users/user/model"
)

// Models lists every persisted table in dependency order.
func Models() []any {
	return []any{
		&userModel.UserModel{},
		&catalogModel.AuthorModel{},
		&catalogModel.GenreModel{},
		&catalogModel.BookModel{},
		&borrowModel.BorrowRequestModel{},
		&authModel.TokenBlacklist{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Println("[INFO] schema migrated")
	return nil
}
