package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIErrors is the public error body: one message per violated rule or
// invalid field.
type APIErrors struct {
	Errors []string `json:"errors"`
}

// Page is the paged envelope returned by list endpoints.
type Page struct {
	Content       interface{} `json:"content"`
	Page          int         `json:"page"`
	Size          int         `json:"size"`
	TotalElements int         `json:"total_elements"`
	TotalPages    int         `json:"total_pages"`
}

// NewPage builds the paged envelope, deriving total_pages from the count.
func NewPage(content interface{}, page, size, total int) Page {
	totalPages := 0
	if size > 0 {
		totalPages = (total + size - 1) / size
	}
	return Page{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}

// Errors writes the error body with the given messages.
func Errors(c *gin.Context, statusCode int, messages ...string) {
	c.JSON(statusCode, APIErrors{Errors: messages})
}

// BadRequest writes a 400 with one message per violated rule.
func BadRequest(c *gin.Context, messages ...string) {
	Errors(c, http.StatusBadRequest, messages...)
}

// NotFound writes an empty-body 404. Absence is a normal outcome; the
// body carries no detail.
func NotFound(c *gin.Context) {
	c.Status(http.StatusNotFound)
}

// InternalServerError writes a 500 with a generic message.
func InternalServerError(c *gin.Context) {
	Errors(c, http.StatusInternalServerError, "internal server error")
}
