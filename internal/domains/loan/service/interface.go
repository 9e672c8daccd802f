package service

import (
	"context"

	"library-api/internal/domains/loan/model"
)

// ServiceInterface is the loan business logic contract.
type ServiceInterface interface {
	// Create persists a new loan. Fails with model.ErrBookAlreadyLoaned
	// when the referenced book has an active loan.
	Create(ctx context.Context, loan *model.Loan) (*model.Loan, error)

	// GetByID returns model.ErrLoanNotFound when the id is unknown.
	GetByID(ctx context.Context, id int64) (*model.Loan, error)

	// Update persists the full loan record as given. Used both for the
	// Active -> Returned transition and for generic edits. The loan must
	// carry a non-zero id.
	Update(ctx context.Context, loan *model.Loan) (*model.Loan, error)

	// Find pages loans matching the filter (ISBN or customer, union).
	Find(ctx context.Context, filter model.Filter, page, size int) ([]model.Loan, int, error)

	// ListByBook pages all loans referencing a book.
	ListByBook(ctx context.Context, bookID int64, page, size int) ([]model.Loan, int, error)

	// ListOverdue returns every loan past the overdue threshold that has
	// not been returned.
	ListOverdue(ctx context.Context) ([]model.Loan, error)
}
