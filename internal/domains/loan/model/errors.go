package model

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"library-api/internal/shared/response"
	"library-api/pkg/logger"
)

var (
	ErrLoanNotFound = errors.New("loan not found")

	// ErrBookAlreadyLoaned: the referenced book has an active loan.
	// The message is part of the public API contract.
	ErrBookAlreadyLoaned = errors.New("Book already loaned.")

	// ErrBookNotFoundForISBN: POST /loans referenced an unknown ISBN.
	ErrBookNotFoundForISBN = errors.New("Book not found for passed isbn.")

	// ErrNilLoanID signals a caller bug, same policy as the book domain.
	ErrNilLoanID = errors.New("loan id cant be null")
)

var loanErrorMap = map[error]int{
	ErrBookAlreadyLoaned:   http.StatusBadRequest,
	ErrBookNotFoundForISBN: http.StatusBadRequest,
}

// HandleLoanError translates a domain error into an HTTP response.
// Returns true when the error was handled.
func HandleLoanError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrLoanNotFound) {
		response.NotFound(c)
		return true
	}

	for target, status := range loanErrorMap {
		if errors.Is(err, target) {
			response.Errors(c, status, target.Error())
			return true
		}
	}

	logger.Error("[Handler] Unhandled loan error", err)
	response.InternalServerError(c)
	return true
}
