// internals/features/catalog/dto/books_dto.go
package dto

import (
	"strings"

	catalogModel "library_backend/internals/features/catalog/model"
	helper "library_backend/internals/helpers"
	"library_backend/internals/helpers/dbtime"
	"library_backend/internals/helpers/errs"
)

var validate = helper.NewValidator()

/* =========================
   REQUEST
   ========================= */

// BookRequest is the full book form (HTML add/edit, API POST/PUT).
// available and borrower are not accepted.
type BookRequest struct {
	Title         string  `json:"title" form:"title" validate:"required,max=255"`
	Summary       *string `json:"summary" form:"summary"`
	ISBN          string  `json:"isbn" form:"isbn" validate:"required,max=13"`
	PublishedDate *string `json:"published_date" form:"published_date" validate:"omitempty,datetime=2006-01-02"`
	Publisher     *string `json:"publisher" form:"publisher" validate:"omitempty,max=255"`
	Authors       []uint  `json:"authors" form:"authors"`
	Genres        []uint  `json:"genres" form:"genres"`
}

// BookPatchRequest is API PATCH: nil fields are left alone.
type BookPatchRequest struct {
	Title         *string `json:"title" validate:"omitempty,min=1,max=255"`
	Summary       *string `json:"summary"`
	ISBN          *string `json:"isbn" validate:"omitempty,min=1,max=13"`
	PublishedDate *string `json:"published_date" validate:"omitempty,datetime=2006-01-02"`
	Publisher     *string `json:"publisher" validate:"omitempty,max=255"`
	Authors       *[]uint `json:"authors"`
	Genres        *[]uint `json:"genres"`
}

/* =========================
   NORMALIZER
   ========================= */

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

func (r *BookRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.ISBN = strings.TrimSpace(r.ISBN)
	r.Summary = trimPtr(r.Summary)
	r.PublishedDate = trimPtr(r.PublishedDate)
	r.Publisher = trimPtr(r.Publisher)
	r.Authors = dedupe(r.Authors)
	r.Genres = dedupe(r.Genres)
}

func (r *BookPatchRequest) Normalize() {
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		r.Title = &t
	}
	if r.ISBN != nil {
		t := strings.TrimSpace(*r.ISBN)
		r.ISBN = &t
	}
	r.Summary = trimPtr(r.Summary)
	r.PublishedDate = trimPtr(r.PublishedDate)
	r.Publisher = trimPtr(r.Publisher)
	if r.Authors != nil {
		ids := dedupe(*r.Authors)
		r.Authors = &ids
	}
	if r.Genres != nil {
		ids := dedupe(*r.Genres)
		r.Genres = &ids
	}
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

/* =========================
   VALIDATION
   ========================= */

// Validate checks field formats; a book needs at least one author.
func (r *BookRequest) Validate() error {
	verr, err := structErrors(r)
	if err != nil {
		return err
	}
	if len(r.Authors) == 0 {
		verr.Add("authors", "This field is required.")
	}
	return verr.OrNil()
}

// Validate checks present fields; authors, when sent, must not be empty.
func (r *BookPatchRequest) Validate() error {
	verr, err := structErrors(r)
	if err != nil {
		return err
	}
	if r.Authors != nil && len(*r.Authors) == 0 {
		verr.Add("authors", "This field is required.")
	}
	return verr.OrNil()
}

func structErrors(r any) (*errs.ValidationError, error) {
	verr := &errs.ValidationError{}
	if err := validate.Struct(r); err != nil {
		ve, ok := errs.AsValidation(errs.FromValidator(err))
		if !ok {
			return nil, err
		}
		verr = ve
	}
	return verr, nil
}

/* =========================
   MAPPER
   ========================= */

// ToModel builds a new, available book. Date format was checked by Validate.
func (r *BookRequest) ToModel() *catalogModel.BookModel {
	m := &catalogModel.BookModel{Available: true}
	r.ApplyToModel(m)
	return m
}

// ApplyToModel copies the editable fields onto m.
func (r *BookRequest) ApplyToModel(m *catalogModel.BookModel) {
	m.Title = r.Title
	m.Summary = r.Summary
	m.ISBN = r.ISBN
	// Validate checked the layout, so ParseDate cannot fail here.
	m.PublishedDate, _ = dbtime.ParseDate(deref(r.PublishedDate))
	m.Publisher = r.Publisher
}

func (r *BookPatchRequest) ApplyToModel(m *catalogModel.BookModel) {
	if r.Title != nil {
		m.Title = *r.Title
	}
	if r.Summary != nil {
		m.Summary = r.Summary
	}
	if r.ISBN != nil {
		m.ISBN = *r.ISBN
	}
	if r.PublishedDate != nil {
		// layout checked by Validate
		m.PublishedDate, _ = dbtime.ParseDate(*r.PublishedDate)
	}
	if r.Publisher != nil {
		m.Publisher = r.Publisher
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// FromModel fills the form from an existing book (edit page).
func FromModel(m catalogModel.BookModel) BookRequest {
	return BookRequest{
		Title:         m.Title,
		Summary:       m.Summary,
		ISBN:          m.ISBN,
		PublishedDate: dbtime.FormatPtr(m.PublishedDate),
		Publisher:     m.Publisher,
		Authors:       m.AuthorIDs(),
		Genres:        m.GenreIDs(),
	}
}

/* =========================
   RESPONSE
   ========================= */

type BookResponse struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	Summary       *string `json:"summary"`
	ISBN          string  `json:"isbn"`
	Available     bool    `json:"available"`
	PublishedDate *string `json:"published_date"`
	Publisher     *string `json:"publisher"`
	Genres        []uint  `json:"genres"`
	Authors       []uint  `json:"authors"`
	Borrower      *uint   `json:"borrower"`
}

func NewBookResponse(m catalogModel.BookModel) BookResponse {
	return BookResponse{
		ID:            m.ID,
		Title:         m.Title,
		Summary:       m.Summary,
		ISBN:          m.ISBN,
		Available:     m.Available,
		PublishedDate: dbtime.FormatPtr(m.PublishedDate),
		Publisher:     m.Publisher,
		Genres:        m.GenreIDs(),
		Authors:       m.AuthorIDs(),
		Borrower:      m.BorrowerID,
	}
}

func NewBookResponses(rows []catalogModel.BookModel) []BookResponse {
	out := make([]BookResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, NewBookResponse(r))
	}
	return out
}

/* =========================
   AUTHORS & GENRES
   ========================= */

type AuthorRequest struct {
	Name string  `json:"name" validate:"required,max=255"`
	Bio  *string `json:"bio"`
}

func (r *AuthorRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Bio = trimPtr(r.Bio)
}

func (r *AuthorRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return errs.FromValidator(err)
	}
	return nil
}

func (r *AuthorRequest) ToModel() *catalogModel.AuthorModel {
	return &catalogModel.AuthorModel{Name: r.Name, Bio: r.Bio}
}

type GenreRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

func (r *GenreRequest) Normalize() { r.Name = strings.TrimSpace(r.Name) }

func (r *GenreRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return errs.FromValidator(err)
	}
	return nil
}

func (r *GenreRequest) ToModel() *catalogModel.GenreModel {
	return &catalogModel.GenreModel{Name: r.Name}
}
