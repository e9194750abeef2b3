package model

import (
	"gorm.io/datatypes"

	userModel "library_backend/internals/features/users/user/model"
)

type AuthorModel struct {
	ID   uint    `gorm:"primaryKey" json:"id"`
	Name string  `gorm:"column:name;size:255;not null" json:"name"`
	Bio  *string `gorm:"column:bio;type:text" json:"bio,omitempty"`
}

func (AuthorModel) TableName() string { return "authors" }

type GenreModel struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"column:name;size:255;not null" json:"name"`
}

func (GenreModel) TableName() string { return "genres" }

// BookModel is a catalog entry. Available and BorrowerID are derived from
// the book's borrow requests and are written only by the borrow ledger.
type BookModel struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Title         string          `gorm:"column:title;size:255;not null;index:idx_books_title" json:"title"`
	Summary       *string         `gorm:"column:summary;type:text" json:"summary,omitempty"`
	ISBN          string          `gorm:"column:isbn;size:13;not null;uniqueIndex:uq_books_isbn" json:"isbn"`
	Available     bool            `gorm:"column:available;not null" json:"available"`
	PublishedDate *datatypes.Date `gorm:"column:published_date" json:"published_date,omitempty"`
	Publisher     *string         `gorm:"column:publisher;size:255" json:"publisher,omitempty"`

	Genres  []GenreModel  `gorm:"many2many:book_genres;joinForeignKey:BookID;joinReferences:GenreID" json:"genres"`
	Authors []AuthorModel `gorm:"many2many:book_authors;joinForeignKey:BookID;joinReferences:AuthorID" json:"authors"`

	BorrowerID *uint                `gorm:"column:borrower_id;index" json:"borrower_id,omitempty"`
	Borrower   *userModel.UserModel `gorm:"foreignKey:BorrowerID;constraint:OnDelete:SET NULL" json:"-"`
}

func (BookModel) TableName() string { return "books" }

func (b BookModel) AuthorIDs() []uint {
	out := make([]uint, 0, len(b.Authors))
	for _, a := range b.Authors {
		out = append(out, a.ID)
	}
	return out
}

func (b BookModel) GenreIDs() []uint {
	out := make([]uint, 0, len(b.Genres))
	for _, g := range b.Genres {
		out = append(out, g.ID)
	}
	return out
}
