package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Book is the domain entity. ID is assigned by the database on create;
// a zero ID means the book has not been persisted yet.
type Book struct {
	ID     int64  `json:"id" db:"id"`
	Title  string `json:"title" db:"title"`
	Author string `json:"author" db:"author"`
	ISBN   string `json:"isbn" db:"isbn"`
}

// Filter is the explicit query-by-attribute filter for listing books.
// Every non-empty field narrows the result (partial match).
type Filter struct {
	Title  string
	Author string
	ISBN   string
}

// CreateBookRequest is the POST /books payload.
type CreateBookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Author, validation.Required),
		validation.Field(&r.ISBN, validation.Required),
	)
}

// ToEntity maps the create payload to an unpersisted entity.
func (r CreateBookRequest) ToEntity() *Book {
	return &Book{
		Title:  r.Title,
		Author: r.Author,
		ISBN:   r.ISBN,
	}
}

// UpdateBookRequest is the PUT /books/:id payload. The ISBN is not
// editable through the public API.
type UpdateBookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Author, validation.Required),
	)
}
