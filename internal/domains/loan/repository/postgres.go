package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	bookmodel "library-api/internal/domains/book/model"
	"library-api/internal/domains/loan/model"
)

const (
	uniqueViolation = "23505"

	// oneActivePerBookIndex is the partial unique index guarding the
	// single-active-loan invariant at the storage layer.
	oneActivePerBookIndex = "loans_one_active_per_book"
)

const loanSelectColumns = `
	l.id, l.book_id, l.customer, l.customer_email, l.loan_date, l.returned,
	b.id, b.title, b.author, b.isbn
`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, loan *model.Loan) (int64, error) {
	query := `
		INSERT INTO loans (book_id, customer, customer_email, loan_date, returned)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		loan.BookID, loan.Customer, loan.CustomerEmail, loan.LoanDate, loan.Returned,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == oneActivePerBookIndex {
			// Two concurrent saves raced past the service check; the
			// index is the authoritative guard.
			return 0, model.ErrBookAlreadyLoaned
		}
		return 0, fmt.Errorf("insert loan: %w", err)
	}

	return id, nil
}

func (r *postgresRepository) ExistsActiveByBook(ctx context.Context, bookID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM loans
			WHERE book_id = $1 AND returned IS NOT TRUE
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, bookID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check active loan: %w", err)
	}

	return exists, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Loan, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM loans l
		JOIN books b ON b.id = l.book_id
		WHERE l.id = $1
	`, loanSelectColumns)

	loan, err := r.scanLoan(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrLoanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get loan by id: %w", err)
	}

	return loan, nil
}

func (r *postgresRepository) Update(ctx context.Context, loan *model.Loan) error {
	query := `
		UPDATE loans
		SET book_id = $1, customer = $2, customer_email = $3,
		    loan_date = $4, returned = $5
		WHERE id = $6
	`

	tag, err := r.pool.Exec(ctx, query,
		loan.BookID, loan.Customer, loan.CustomerEmail,
		loan.LoanDate, loan.Returned, loan.ID,
	)
	if err != nil {
		return fmt.Errorf("update loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrLoanNotFound
	}

	return nil
}

// Find matches by ISBN or customer (union). Both parameters are always
// bound; an empty string simply matches nothing on that side.
func (r *postgresRepository) Find(ctx context.Context, filter model.Filter, limit, offset int) ([]model.Loan, int, error) {
	where := `WHERE b.isbn = $1 OR l.customer = $2`
	args := []interface{}{filter.ISBN, filter.Customer}

	return r.page(ctx, where, args, limit, offset)
}

func (r *postgresRepository) ListByBook(ctx context.Context, bookID int64, limit, offset int) ([]model.Loan, int, error) {
	where := `WHERE l.book_id = $1`
	args := []interface{}{bookID}

	return r.page(ctx, where, args, limit, offset)
}

func (r *postgresRepository) ListOverdue(ctx context.Context, cutoff time.Time) ([]model.Loan, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM loans l
		JOIN books b ON b.id = l.book_id
		WHERE l.loan_date <= $1 AND l.returned IS NOT TRUE
		ORDER BY l.loan_date
	`, loanSelectColumns)

	rows, err := r.pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list overdue loans: %w", err)
	}
	defer rows.Close()

	return r.collectLoans(rows)
}

func (r *postgresRepository) page(ctx context.Context, where string, args []interface{}, limit, offset int) ([]model.Loan, int, error) {
	countQuery := fmt.Sprintf(`
		SELECT count(*)
		FROM loans l
		JOIN books b ON b.id = l.book_id
		%s
	`, where)

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count loans: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM loans l
		JOIN books b ON b.id = l.book_id
		%s
		ORDER BY l.id
		LIMIT $%d OFFSET $%d
	`, loanSelectColumns, where, len(args)+1, len(args)+2)

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list loans: %w", err)
	}
	defer rows.Close()

	loans, err := r.collectLoans(rows)
	if err != nil {
		return nil, 0, err
	}

	return loans, total, nil
}

func (r *postgresRepository) scanLoan(row pgx.Row) (*model.Loan, error) {
	var loan model.Loan
	var book bookmodel.Book

	err := row.Scan(
		&loan.ID, &loan.BookID, &loan.Customer, &loan.CustomerEmail,
		&loan.LoanDate, &loan.Returned,
		&book.ID, &book.Title, &book.Author, &book.ISBN,
	)
	if err != nil {
		return nil, err
	}

	loan.Book = &book
	return &loan, nil
}

func (r *postgresRepository) collectLoans(rows pgx.Rows) ([]model.Loan, error) {
	var loans []model.Loan
	for rows.Next() {
		loan, err := r.scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan loan row: %w", err)
		}
		loans = append(loans, *loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return loans, nil
}
