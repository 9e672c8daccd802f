package repository

import (
	"context"

	"library-api/internal/domains/book/model"
)

// RepositoryInterface defines data access for books.
type RepositoryInterface interface {
	Create(ctx context.Context, book *model.Book) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Book, error)
	GetByISBN(ctx context.Context, isbn string) (*model.Book, error)
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)
	Update(ctx context.Context, book *model.Book) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter model.Filter, limit, offset int) ([]model.Book, int, error)
}
