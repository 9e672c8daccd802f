package service

import (
	"context"

	"library-api/internal/domains/book/model"
)

// ServiceInterface is the book business logic contract.
type ServiceInterface interface {
	// Create persists a new book. Fails with model.ErrISBNAlreadyExists
	// when the ISBN is taken.
	Create(ctx context.Context, book *model.Book) (*model.Book, error)

	// GetByID returns model.ErrBookNotFound when the id is unknown.
	GetByID(ctx context.Context, id int64) (*model.Book, error)

	// GetByISBN returns model.ErrBookNotFound when no book carries the ISBN.
	GetByISBN(ctx context.Context, isbn string) (*model.Book, error)

	// Update overwrites the stored record. The book must carry a non-zero
	// id; the ISBN is not re-validated.
	Update(ctx context.Context, book *model.Book) (*model.Book, error)

	// Delete removes the stored record. The book must carry a non-zero id.
	Delete(ctx context.Context, book *model.Book) error

	// Find runs the explicit-filter paged query and returns the matching
	// page plus the total match count.
	Find(ctx context.Context, filter model.Filter, page, size int) ([]model.Book, int, error)
}
