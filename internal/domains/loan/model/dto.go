package model

import (
	bookmodel "library-api/internal/domains/book/model"
)

const loanDateLayout = "2006-01-02"

// LoanResponse is the wire shape for a loan with its book embedded.
type LoanResponse struct {
	ID            int64           `json:"id"`
	Customer      string          `json:"customer"`
	CustomerEmail string          `json:"customer_email"`
	LoanDate      string          `json:"loan_date"`
	Returned      *bool           `json:"returned"`
	Book          *bookmodel.Book `json:"book,omitempty"`
}

func ToLoanResponse(loan Loan) LoanResponse {
	return LoanResponse{
		ID:            loan.ID,
		Customer:      loan.Customer,
		CustomerEmail: loan.CustomerEmail,
		LoanDate:      loan.LoanDate.Format(loanDateLayout),
		Returned:      loan.Returned,
		Book:          loan.Book,
	}
}

func ToLoanResponses(loans []Loan) []LoanResponse {
	responses := make([]LoanResponse, len(loans))
	for i, loan := range loans {
		responses[i] = ToLoanResponse(loan)
	}
	return responses
}
