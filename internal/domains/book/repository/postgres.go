package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-api/internal/domains/book/model"
	"library-api/internal/shared/utils"
)

const uniqueViolation = "23505"

// postgresRepository - raw SQL with pgxpool.
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, book *model.Book) (int64, error) {
	query := `
		INSERT INTO books (title, author, isbn)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	err := r.pool.QueryRow(ctx, query, book.Title, book.Author, book.ISBN).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			// books_isbn_key backs the service-level check
			return 0, model.ErrISBNAlreadyExists
		}
		return 0, fmt.Errorf("insert book: %w", err)
	}

	return id, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	query := `
		SELECT id, title, author, isbn
		FROM books
		WHERE id = $1
	`

	var book model.Book
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&book.ID, &book.Title, &book.Author, &book.ISBN,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book by id: %w", err)
	}

	return &book, nil
}

func (r *postgresRepository) GetByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	query := `
		SELECT id, title, author, isbn
		FROM books
		WHERE isbn = $1
	`

	var book model.Book
	err := r.pool.QueryRow(ctx, query, isbn).Scan(
		&book.ID, &book.Title, &book.Author, &book.ISBN,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book by isbn: %w", err)
	}

	return &book, nil
}

func (r *postgresRepository) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM books WHERE isbn = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, isbn).Scan(&exists); err != nil {
		return false, fmt.Errorf("check isbn exists: %w", err)
	}

	return exists, nil
}

func (r *postgresRepository) Update(ctx context.Context, book *model.Book) error {
	query := `
		UPDATE books
		SET title = $1, author = $2, isbn = $3
		WHERE id = $4
	`

	tag, err := r.pool.Exec(ctx, query, book.Title, book.Author, book.ISBN, book.ID)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	return nil
}

// List performs the explicit-filter query: each non-empty filter field
// narrows the result with a partial match.
func (r *postgresRepository) List(ctx context.Context, filter model.Filter, limit, offset int) ([]model.Book, int, error) {
	whereClause, args := r.buildWhereClause(filter)

	total, err := r.countBooks(ctx, whereClause, args)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, title, author, isbn
		FROM books
		%s
		ORDER BY id
		LIMIT $%d OFFSET $%d
	`, whereClause, len(args)+1, len(args)+2)

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0, limit)
	for rows.Next() {
		var book model.Book
		if err := rows.Scan(&book.ID, &book.Title, &book.Author, &book.ISBN); err != nil {
			return nil, 0, fmt.Errorf("scan book row: %w", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	return books, total, nil
}

func (r *postgresRepository) buildWhereClause(filter model.Filter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if filter.Title != "" {
		args = append(args, "%"+filter.Title+"%")
		clauses = append(clauses, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	if filter.Author != "" {
		args = append(args, "%"+filter.Author+"%")
		clauses = append(clauses, fmt.Sprintf("author ILIKE $%d", len(args)))
	}
	if filter.ISBN != "" {
		args = append(args, "%"+filter.ISBN+"%")
		clauses = append(clauses, fmt.Sprintf("isbn ILIKE $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + utils.JoinWithAnd(clauses), args
}

func (r *postgresRepository) countBooks(ctx context.Context, whereClause string, args []interface{}) (int, error) {
	query := fmt.Sprintf(`SELECT count(*) FROM books %s`, whereClause)

	var total int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}

	return total, nil
}
