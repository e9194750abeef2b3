// Package service is the catalog store: books, authors and genres.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	borrowModel "library_backend/internals/features/borrowing/model"
	catalogModel "library_backend/internals/features/catalog/model"
	"library_backend/internals/helpers/errs"
)

type CatalogStore struct {
	DB *gorm.DB
}

func NewCatalogStore(db *gorm.DB) *CatalogStore {
	return &CatalogStore{DB: db}
}

/* ==========================
   READ
========================== */

func (s *CatalogStore) Get(ctx context.Context, id uint) (*catalogModel.BookModel, error) {
	var book catalogModel.BookModel
	err := s.DB.WithContext(ctx).
		Preload("Authors", func(db *gorm.DB) *gorm.DB { return db.Order("authors.name ASC") }).
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.name ASC") }).
		Preload("Borrower").
		First(&book, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("book %d: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// List returns books ordered by title; limit <= 0 means all of them.
func (s *CatalogStore) List(ctx context.Context, offset, limit int) ([]catalogModel.BookModel, int64, error) {
	db := s.DB.WithContext(ctx)

	var total int64
	if err := db.Model(&catalogModel.BookModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := db.Preload("Authors").Preload("Genres").Order("title ASC, id ASC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	var rows []catalogModel.BookModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Search matches query as a case-insensitive substring of the title. An
// empty query returns the whole catalog; whitespace is matched as typed.
func (s *CatalogStore) Search(ctx context.Context, query string) ([]catalogModel.BookModel, error) {
	q := s.DB.WithContext(ctx).Preload("Authors").Order("title ASC, id ASC")
	if query != "" {
		q = q.Where("LOWER(title) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(query))+"%")
	}

	var rows []catalogModel.BookModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string { return likeEscaper.Replace(s) }

/* ==========================
   WRITE
========================== */

// Create inserts book with the given authors and genres. The book starts
// available with no borrower whatever the caller set.
func (s *CatalogStore) Create(ctx context.Context, book *catalogModel.BookModel, authorIDs, genreIDs []uint) error {
	book.ID = 0
	book.Available = true
	book.BorrowerID = nil
	book.Borrower = nil

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		verr := &errs.ValidationError{}
		authors, genres, err := loadRelations(tx, authorIDs, genreIDs, verr)
		if err != nil {
			return err
		}
		if err := verr.OrNil(); err != nil {
			return err
		}
		if err := checkISBN(tx, book.ISBN, 0); err != nil {
			return err
		}

		book.Authors = authors
		book.Genres = genres
		if err := tx.Omit("Authors.*", "Genres.*", "Borrower").Create(book).Error; err != nil {
			return translateWriteError(err)
		}
		return nil
	})
}

// Update loads book id, lets apply change its editable fields and saves it.
// nil authorIDs/genreIDs leave the relation untouched; an empty slice
// clears it. Availability and borrower are never changed here.
func (s *CatalogStore) Update(ctx context.Context, id uint, apply func(*catalogModel.BookModel), authorIDs, genreIDs *[]uint) (*catalogModel.BookModel, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book catalogModel.BookModel
		if err := tx.First(&book, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("book %d: %w", id, errs.ErrNotFound)
			}
			return err
		}

		apply(&book)
		book.ID = id

		verr := &errs.ValidationError{}
		var aIDs, gIDs []uint
		if authorIDs != nil {
			aIDs = *authorIDs
		}
		if genreIDs != nil {
			gIDs = *genreIDs
		}
		authors, genres, err := loadRelations(tx, aIDs, gIDs, verr)
		if err != nil {
			return err
		}
		if err := verr.OrNil(); err != nil {
			return err
		}
		if err := checkISBN(tx, book.ISBN, id); err != nil {
			return err
		}

		if err := tx.Model(&catalogModel.BookModel{}).Where("id = ?", id).
			Select("title", "summary", "isbn", "published_date", "publisher").
			Updates(map[string]any{
				"title":          book.Title,
				"summary":        book.Summary,
				"isbn":           book.ISBN,
				"published_date": book.PublishedDate,
				"publisher":      book.Publisher,
			}).Error; err != nil {
			return translateWriteError(err)
		}

		target := &catalogModel.BookModel{ID: id}
		if authorIDs != nil {
			if err := tx.Model(target).Omit("Authors.*").Association("Authors").Replace(authors); err != nil {
				return err
			}
		}
		if genreIDs != nil {
			if err := tx.Model(target).Omit("Genres.*").Association("Genres").Replace(genres); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a book that is not out on loan, together with its
// remaining borrow requests and relation rows.
func (s *CatalogStore) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book catalogModel.BookModel
		if err := tx.First(&book, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("book %d: %w", id, errs.ErrNotFound)
			}
			return err
		}

		var active int64
		if err := tx.Model(&borrowModel.BorrowRequestModel{}).
			Where("book_id = ? AND status IN ?", id, borrowModel.OutStatuses).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return fmt.Errorf("book %d is on loan: %w", id, errs.ErrConflict)
		}

		if err := tx.Where("book_id = ?", id).Delete(&borrowModel.BorrowRequestModel{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&book).Association("Authors").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&book).Association("Genres").Clear(); err != nil {
			return err
		}
		return tx.Delete(&catalogModel.BookModel{}, id).Error
	})
}

/* ==========================
   AUTHORS & GENRES
========================== */

func (s *CatalogStore) ListAuthors(ctx context.Context) ([]catalogModel.AuthorModel, error) {
	var rows []catalogModel.AuthorModel
	err := s.DB.WithContext(ctx).Order("name ASC, id ASC").Find(&rows).Error
	return rows, err
}

func (s *CatalogStore) ListGenres(ctx context.Context) ([]catalogModel.GenreModel, error) {
	var rows []catalogModel.GenreModel
	err := s.DB.WithContext(ctx).Order("name ASC, id ASC").Find(&rows).Error
	return rows, err
}

func (s *CatalogStore) CreateAuthor(ctx context.Context, a *catalogModel.AuthorModel) error {
	a.ID = 0
	return s.DB.WithContext(ctx).Create(a).Error
}

func (s *CatalogStore) CreateGenre(ctx context.Context, g *catalogModel.GenreModel) error {
	g.ID = 0
	return s.DB.WithContext(ctx).Create(g).Error
}

/* ==========================
   Helpers
========================== */

func loadRelations(tx *gorm.DB, authorIDs, genreIDs []uint, verr *errs.ValidationError) ([]catalogModel.AuthorModel, []catalogModel.GenreModel, error) {
	authors := []catalogModel.AuthorModel{}
	if len(authorIDs) > 0 {
		if err := tx.Where("id IN ?", authorIDs).Find(&authors).Error; err != nil {
			return nil, nil, err
		}
		for _, id := range missing(authorIDs, authors, func(a catalogModel.AuthorModel) uint { return a.ID }) {
			verr.Add("authors", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
		}
	}

	genres := []catalogModel.GenreModel{}
	if len(genreIDs) > 0 {
		if err := tx.Where("id IN ?", genreIDs).Find(&genres).Error; err != nil {
			return nil, nil, err
		}
		for _, id := range missing(genreIDs, genres, func(g catalogModel.GenreModel) uint { return g.ID }) {
			verr.Add("genres", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
		}
	}
	return authors, genres, nil
}

func missing[T any](want []uint, got []T, idOf func(T) uint) []uint {
	have := make(map[uint]struct{}, len(got))
	for _, g := range got {
		have[idOf(g)] = struct{}{}
	}
	var out []uint
	for _, id := range want {
		if _, ok := have[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func checkISBN(tx *gorm.DB, isbn string, exceptID uint) error {
	var n int64
	if err := tx.Model(&catalogModel.BookModel{}).
		Where("isbn = ? AND id <> ?", isbn, exceptID).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return duplicateISBN()
	}
	return nil
}

func duplicateISBN() error {
	return fmt.Errorf("book with this isbn already exists: %w", errs.ErrConflict)
}

// translateWriteError maps unique violations that slipped past checkISBN.
func translateWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return duplicateISBN()
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique") {
		return duplicateISBN()
	}
	return err
}
