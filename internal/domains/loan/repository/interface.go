package repository

import (
	"context"
	"time"

	"library-api/internal/domains/loan/model"
)

// RepositoryInterface defines data access for loans.
type RepositoryInterface interface {
	// Create inserts the loan. A violation of the one-active-loan-per-book
	// index surfaces as model.ErrBookAlreadyLoaned.
	Create(ctx context.Context, loan *model.Loan) (int64, error)

	// ExistsActiveByBook reports whether the book has a non-returned loan.
	ExistsActiveByBook(ctx context.Context, bookID int64) (bool, error)

	GetByID(ctx context.Context, id int64) (*model.Loan, error)
	Update(ctx context.Context, loan *model.Loan) error

	// Find matches loans by book ISBN or customer (union, not
	// intersection), paged, books embedded.
	Find(ctx context.Context, filter model.Filter, limit, offset int) ([]model.Loan, int, error)

	// ListByBook returns all loans (returned or not) for a book, paged.
	ListByBook(ctx context.Context, bookID int64, limit, offset int) ([]model.Loan, int, error)

	// ListOverdue returns non-returned loans with loan_date <= cutoff.
	ListOverdue(ctx context.Context, cutoff time.Time) ([]model.Loan, error)
}
