package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"library-api/internal/domains/book/model"
	"library-api/internal/domains/book/service"
	loanmodel "library-api/internal/domains/loan/model"
	loanservice "library-api/internal/domains/loan/service"
	"library-api/internal/shared/response"
	"library-api/internal/shared/utils"
	"library-api/pkg/cache"
	"library-api/pkg/logger"
)

const (
	bookDetailCacheTTL = 10 * time.Minute

	// List results churn with every write, so they live shortly and are
	// dropped wholesale on any mutation.
	bookListCacheTTL     = time.Minute
	bookListCachePattern = "books:list:*"
)

// Handler - HTTP handler for the book resource.
type Handler struct {
	service     service.ServiceInterface
	loanService loanservice.ServiceInterface
	cache       cache.Cache
}

func NewHandler(service service.ServiceInterface, loanService loanservice.ServiceInterface, cache cache.Cache) *Handler {
	return &Handler{
		service:     service,
		loanService: loanService,
		cache:       cache,
	}
}

// CreateBook - POST /api/books
func (h *Handler) CreateBook(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.BadRequest(c, utils.ValidationMessages(err)...)
		return
	}

	book, err := h.service.Create(c.Request.Context(), req.ToEntity())
	if model.HandleBookError(c, err) {
		return
	}

	h.invalidateBookLists(c)
	c.JSON(http.StatusCreated, book)
}

// GetBook - GET /api/books/:id
func (h *Handler) GetBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	cacheKey := bookDetailCacheKey(id)
	var cached model.Book
	found, err := h.cache.Get(c.Request.Context(), cacheKey, &cached)
	if found {
		c.JSON(http.StatusOK, cached)
		return
	}
	if err != nil {
		// A broken cache must not take down reads.
		logger.Warn("Cache read failed", map[string]interface{}{
			"key":   cacheKey,
			"error": err.Error(),
		})
	}

	book, err := h.service.GetByID(c.Request.Context(), id)
	if model.HandleBookError(c, err) {
		return
	}

	if err := h.cache.Set(c.Request.Context(), cacheKey, book, bookDetailCacheTTL); err != nil {
		logger.Warn("Cache write failed", map[string]interface{}{
			"key":   cacheKey,
			"error": err.Error(),
		})
	}

	c.JSON(http.StatusOK, book)
}

// UpdateBook - PUT /api/books/:id
func (h *Handler) UpdateBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.BadRequest(c, utils.ValidationMessages(err)...)
		return
	}

	book, err := h.service.GetByID(c.Request.Context(), id)
	if model.HandleBookError(c, err) {
		return
	}

	book.Title = req.Title
	book.Author = req.Author

	book, err = h.service.Update(c.Request.Context(), book)
	if model.HandleBookError(c, err) {
		return
	}

	h.invalidateBook(c, id)
	c.JSON(http.StatusOK, book)
}

// DeleteBook - DELETE /api/books/:id
func (h *Handler) DeleteBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	book, err := h.service.GetByID(c.Request.Context(), id)
	if model.HandleBookError(c, err) {
		return
	}

	if err := h.service.Delete(c.Request.Context(), book); model.HandleBookError(c, err) {
		return
	}

	h.invalidateBook(c, id)
	c.Status(http.StatusNoContent)
}

// bookListEntry is the cached shape of one list query result.
type bookListEntry struct {
	Books []model.Book `json:"books"`
	Total int          `json:"total"`
}

// FindBooks - GET /api/books
// Query params: title, author, isbn, page, size.
func (h *Handler) FindBooks(c *gin.Context) {
	filter := model.Filter{
		Title:  c.Query("title"),
		Author: c.Query("author"),
		ISBN:   c.Query("isbn"),
	}
	page, size := utils.ParsePagination(c)

	cacheKey := bookListCacheKey(filter, page, size)
	var cached bookListEntry
	found, err := h.cache.Get(c.Request.Context(), cacheKey, &cached)
	if found {
		c.JSON(http.StatusOK, response.NewPage(cached.Books, page, size, cached.Total))
		return
	}
	if err != nil {
		logger.Warn("Cache read failed", map[string]interface{}{
			"key":   cacheKey,
			"error": err.Error(),
		})
	}

	books, total, err := h.service.Find(c.Request.Context(), filter, page, size)
	if model.HandleBookError(c, err) {
		return
	}

	entry := bookListEntry{Books: books, Total: total}
	if err := h.cache.Set(c.Request.Context(), cacheKey, entry, bookListCacheTTL); err != nil {
		logger.Warn("Cache write failed", map[string]interface{}{
			"key":   cacheKey,
			"error": err.Error(),
		})
	}

	c.JSON(http.StatusOK, response.NewPage(books, page, size, total))
}

// LoansByBook - GET /api/books/:id/loans
func (h *Handler) LoansByBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	book, err := h.service.GetByID(c.Request.Context(), id)
	if model.HandleBookError(c, err) {
		return
	}

	page, size := utils.ParsePagination(c)

	loans, total, err := h.loanService.ListByBook(c.Request.Context(), book.ID, page, size)
	if loanmodel.HandleLoanError(c, err) {
		return
	}

	c.JSON(http.StatusOK, response.NewPage(loanmodel.ToLoanResponses(loans), page, size, total))
}

func (h *Handler) invalidateBook(c *gin.Context, id int64) {
	if err := h.cache.Delete(c.Request.Context(), bookDetailCacheKey(id)); err != nil {
		logger.Warn("Cache invalidation failed", map[string]interface{}{
			"key":   bookDetailCacheKey(id),
			"error": err.Error(),
		})
	}
	h.invalidateBookLists(c)
}

// invalidateBookLists drops every cached list query; any write can
// change any page.
func (h *Handler) invalidateBookLists(c *gin.Context) {
	if err := h.cache.DeletePattern(c.Request.Context(), bookListCachePattern); err != nil {
		logger.Warn("Cache invalidation failed", map[string]interface{}{
			"pattern": bookListCachePattern,
			"error":   err.Error(),
		})
	}
}

func bookDetailCacheKey(id int64) string {
	return fmt.Sprintf("books:detail:%d", id)
}

func bookListCacheKey(filter model.Filter, page, size int) string {
	return fmt.Sprintf("books:list:%s:%s:%s:%d:%d",
		filter.Title, filter.Author, filter.ISBN, page, size)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}
