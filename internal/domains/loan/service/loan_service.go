package service

import (
	"context"
	"fmt"
	"time"

	"library-api/internal/domains/loan/model"
	"library-api/internal/domains/loan/repository"
)

type LoanService struct {
	repo repository.RepositoryInterface

	// overdueAfterDays is the reminder policy threshold.
	overdueAfterDays int
}

func NewService(repo repository.RepositoryInterface, overdueAfterDays int) ServiceInterface {
	if overdueAfterDays <= 0 {
		overdueAfterDays = model.DefaultOverdueDays
	}
	return &LoanService{
		repo:             repo,
		overdueAfterDays: overdueAfterDays,
	}
}

func (s *LoanService) Create(ctx context.Context, loan *model.Loan) (*model.Loan, error) {
	// Fast-path check for a friendly error; the partial unique index in
	// the loans table is the authoritative guard against the race.
	exists, err := s.repo.ExistsActiveByBook(ctx, loan.BookID)
	if err != nil {
		return nil, fmt.Errorf("check active loan: %w", err)
	}
	if exists {
		return nil, model.ErrBookAlreadyLoaned
	}

	id, err := s.repo.Create(ctx, loan)
	if err != nil {
		return nil, err
	}

	loan.ID = id
	return loan, nil
}

func (s *LoanService) GetByID(ctx context.Context, id int64) (*model.Loan, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *LoanService) Update(ctx context.Context, loan *model.Loan) (*model.Loan, error) {
	if loan == nil || loan.ID == 0 {
		return nil, model.ErrNilLoanID
	}

	if err := s.repo.Update(ctx, loan); err != nil {
		return nil, err
	}

	return loan, nil
}

func (s *LoanService) Find(ctx context.Context, filter model.Filter, page, size int) ([]model.Loan, int, error) {
	return s.repo.Find(ctx, filter, size, page*size)
}

func (s *LoanService) ListByBook(ctx context.Context, bookID int64, page, size int) ([]model.Loan, int, error) {
	return s.repo.ListByBook(ctx, bookID, size, page*size)
}

func (s *LoanService) ListOverdue(ctx context.Context) ([]model.Loan, error) {
	cutoff := overdueCutoff(time.Now(), s.overdueAfterDays)
	return s.repo.ListOverdue(ctx, cutoff)
}

// overdueCutoff is today minus the policy threshold, truncated to a
// date. Loans dated on or before it are overdue.
func overdueCutoff(now time.Time, days int) time.Time {
	cutoff := now.AddDate(0, 0, -days)
	return time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, time.UTC)
}
