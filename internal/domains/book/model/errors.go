package model

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"library-api/internal/shared/response"
	"library-api/pkg/logger"
)

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrISBNAlreadyExists = errors.New("isbn already registered")

	// ErrNilBookID signals a caller bug: update/delete requires a
	// persisted entity.
	ErrNilBookID = errors.New("book id cant be null")
)

var bookErrorMap = map[error]int{
	ErrISBNAlreadyExists: http.StatusBadRequest,
}

// HandleBookError translates a domain error into an HTTP response.
// Returns true when the error was handled (including nil-error = false).
func HandleBookError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrBookNotFound) {
		response.NotFound(c)
		return true
	}

	for target, status := range bookErrorMap {
		if errors.Is(err, target) {
			response.Errors(c, status, target.Error())
			return true
		}
	}

	// ErrNilBookID and anything unmapped is a server-side fault.
	logger.Error("[Handler] Unhandled book error", err)
	response.InternalServerError(c)
	return true
}
