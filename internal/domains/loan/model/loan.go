package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	bookmodel "library-api/internal/domains/book/model"
)

// DefaultOverdueDays is the loan-age policy: a loan is overdue once its
// loan date is on or before today minus this many days.
const DefaultOverdueDays = 4

// Loan is the domain entity. Returned is nullable: nil or false both mean
// the loan is still active; true is terminal.
type Loan struct {
	ID            int64     `json:"id" db:"id"`
	BookID        int64     `json:"-" db:"book_id"`
	Customer      string    `json:"customer" db:"customer"`
	CustomerEmail string    `json:"customer_email" db:"customer_email"`
	LoanDate      time.Time `json:"loan_date" db:"loan_date"`
	Returned      *bool     `json:"returned" db:"returned"`

	// Book is populated on reads that join the books table.
	Book *bookmodel.Book `json:"book,omitempty" db:"-"`
}

// IsReturned reports whether the loan reached its terminal state.
func (l *Loan) IsReturned() bool {
	return l.Returned != nil && *l.Returned
}

// Filter matches loans whose book ISBN equals ISBN OR whose customer
// equals Customer. The union semantics support "find by either" searches.
type Filter struct {
	Customer string
	ISBN     string
}

// CreateLoanRequest is the POST /loans payload.
type CreateLoanRequest struct {
	ISBN     string `json:"isbn"`
	Customer string `json:"customer"`
	Email    string `json:"email"`
}

func (r CreateLoanRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ISBN, validation.Required),
		validation.Field(&r.Customer, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// ReturnedLoanRequest is the PATCH /loans/:id payload.
type ReturnedLoanRequest struct {
	Returned *bool `json:"returned"`
}

func (r ReturnedLoanRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Returned, validation.NotNil),
	)
}
