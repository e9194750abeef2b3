package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"

	"gorm.io/gorm"

	"library_backend/internals/features/catalog/model"
	"library_backend/internals/helpers/dbtime"
)

type AuthorSeed struct {
	Name string  `json:"name"`
	Bio  *string `json:"bio"`
}

type GenreSeed struct {
	Name string `json:"name"`
}

// BookSeed names its authors and genres; they must be seeded first.
type BookSeed struct {
	Title         string   `json:"title"`
	Summary       *string  `json:"summary"`
	ISBN          string   `json:"isbn"`
	PublishedDate string   `json:"published_date"`
	Publisher     *string  `json:"publisher"`
	Authors       []string `json:"authors"`
	Genres        []string `json:"genres"`
}

func readJSON(fsys fs.FS, name string, out any) error {
	log.Println("📥 Reading seed:", name)
	file, err := fs.ReadFile(fsys, name)
	if err != nil {
		return err
	}
	return json.Unmarshal(file, out)
}

// exists reports whether a row of table matches column = value.
func exists(db *gorm.DB, table any, column string, value any) (bool, error) {
	var n int64
	if err := db.Model(table).Where(column+" = ?", value).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func SeedAuthorsFromJSON(db *gorm.DB, fsys fs.FS, name string) error {
	var inputs []AuthorSeed
	if err := readJSON(fsys, name, &inputs); err != nil {
		return err
	}
	for _, data := range inputs {
		found, err := exists(db, &model.AuthorModel{}, "name", data.Name)
		if err != nil {
			return err
		}
		if found {
			log.Printf("ℹ️ Author '%s' already exists, skipped.", data.Name)
			continue
		}
		if err := db.Create(&model.AuthorModel{Name: data.Name, Bio: data.Bio}).Error; err != nil {
			return err
		}
		log.Printf("✅ Inserted author '%s'", data.Name)
	}
	return nil
}

func SeedGenresFromJSON(db *gorm.DB, fsys fs.FS, name string) error {
	var inputs []GenreSeed
	if err := readJSON(fsys, name, &inputs); err != nil {
		return err
	}
	for _, data := range inputs {
		found, err := exists(db, &model.GenreModel{}, "name", data.Name)
		if err != nil {
			return err
		}
		if found {
			log.Printf("ℹ️ Genre '%s' already exists, skipped.", data.Name)
			continue
		}
		if err := db.Create(&model.GenreModel{Name: data.Name}).Error; err != nil {
			return err
		}
		log.Printf("✅ Inserted genre '%s'", data.Name)
	}
	return nil
}

func SeedBooksFromJSON(db *gorm.DB, fsys fs.FS, name string) error {
	var inputs []BookSeed
	if err := readJSON(fsys, name, &inputs); err != nil {
		return err
	}
	for _, data := range inputs {
		found, err := exists(db, &model.BookModel{}, "isbn", data.ISBN)
		if err != nil {
			return err
		}
		if found {
			log.Printf("ℹ️ Book '%s' already exists, skipped.", data.ISBN)
			continue
		}

		published, err := dbtime.ParseDate(data.PublishedDate)
		if err != nil {
			return fmt.Errorf("book %s: %w", data.ISBN, err)
		}
		authors, err := byName[model.AuthorModel](db, data.Authors)
		if err != nil {
			return fmt.Errorf("book %s: %w", data.ISBN, err)
		}
		genres, err := byName[model.GenreModel](db, data.Genres)
		if err != nil {
			return fmt.Errorf("book %s: %w", data.ISBN, err)
		}

		book := model.BookModel{
			Title:         data.Title,
			Summary:       data.Summary,
			ISBN:          data.ISBN,
			Available:     true,
			PublishedDate: published,
			Publisher:     data.Publisher,
			Authors:       authors,
			Genres:        genres,
		}
		if err := db.Omit("Authors.*", "Genres.*", "Borrower").Create(&book).Error; err != nil {
			return err
		}
		log.Printf("✅ Inserted book '%s'", data.Title)
	}
	return nil
}

func byName[T any](db *gorm.DB, names []string) ([]T, error) {
	out := make([]T, 0, len(names))
	for _, n := range names {
		var row T
		if err := db.Where("name = ?", n).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("unknown name %q", n)
			}
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}
