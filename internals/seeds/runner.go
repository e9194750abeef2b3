// Package seeds loads demo catalog data and accounts.
package seeds

import (
	"embed"
	"fmt"
	"io/fs"
	"log"

	"gorm.io/gorm"

	"library_backend/internals/seeds/catalog"
	"library_backend/internals/seeds/users"
)

//go:embed data/*.json
var embedded embed.FS

// Embedded returns the bundled seed files.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(err)
	}
	return sub
}

// RunAllSeeds seeds users, then authors and genres, then books. Rows that
// already exist are skipped, so it can be rerun.
func RunAllSeeds(db *gorm.DB, fsys fs.FS) error {
	//* Users
	if err := users.SeedUsersFromJSON(db, fsys, "users.json"); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	//* Catalog
	if err := catalog.SeedAuthorsFromJSON(db, fsys, "authors.json"); err != nil {
		return fmt.Errorf("seed authors: %w", err)
	}
	if err := catalog.SeedGenresFromJSON(db, fsys, "genres.json"); err != nil {
		return fmt.Errorf("seed genres: %w", err)
	}
	if err := catalog.SeedBooksFromJSON(db, fsys, "books.json"); err != nil {
		return fmt.Errorf("seed books: %w", err)
	}

	log.Println("✅ Seeding finished")
	return nil
}
