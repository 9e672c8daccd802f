package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	bookmodel "library-api/internal/domains/book/model"
	bookservice "library-api/internal/domains/book/service"
	"library-api/internal/domains/loan/model"
	"library-api/internal/domains/loan/service"
	"library-api/internal/shared/response"
	"library-api/internal/shared/utils"
)

// Handler - HTTP handler for the loan resource.
type Handler struct {
	service     service.ServiceInterface
	bookService bookservice.ServiceInterface
}

func NewHandler(service service.ServiceInterface, bookService bookservice.ServiceInterface) *Handler {
	return &Handler{
		service:     service,
		bookService: bookService,
	}
}

// CreateLoan - POST /api/loans
// Resolves the ISBN to a book, stamps the loan date with today and
// persists. Responds with the assigned loan id.
func (h *Handler) CreateLoan(c *gin.Context) {
	var req model.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.BadRequest(c, utils.ValidationMessages(err)...)
		return
	}

	book, err := h.bookService.GetByISBN(c.Request.Context(), req.ISBN)
	if err != nil {
		// Only a missing book is the caller's fault; anything else is
		// an internal fault and must not masquerade as a 400.
		if errors.Is(err, bookmodel.ErrBookNotFound) {
			err = model.ErrBookNotFoundForISBN
		}
		model.HandleLoanError(c, err)
		return
	}

	loan := &model.Loan{
		BookID:        book.ID,
		Customer:      req.Customer,
		CustomerEmail: req.Email,
		LoanDate:      time.Now(),
		Book:          book,
	}

	loan, err = h.service.Create(c.Request.Context(), loan)
	if model.HandleLoanError(c, err) {
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": loan.ID})
}

// ReturnLoan - PATCH /api/loans/:id
// The single guarded transition: Active -> Returned.
func (h *Handler) ReturnLoan(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid id")
		return
	}

	var req model.ReturnedLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.BadRequest(c, utils.ValidationMessages(err)...)
		return
	}

	loan, err := h.service.GetByID(c.Request.Context(), id)
	if model.HandleLoanError(c, err) {
		return
	}

	loan.Returned = req.Returned

	loan, err = h.service.Update(c.Request.Context(), loan)
	if model.HandleLoanError(c, err) {
		return
	}

	c.JSON(http.StatusOK, model.ToLoanResponse(*loan))
}

// FindLoans - GET /api/loans
// Query params: customer, isbn, page, size. Matches are the union of
// customer and ISBN hits.
func (h *Handler) FindLoans(c *gin.Context) {
	filter := model.Filter{
		Customer: c.Query("customer"),
		ISBN:     c.Query("isbn"),
	}
	page, size := utils.ParsePagination(c)

	loans, total, err := h.service.Find(c.Request.Context(), filter, page, size)
	if model.HandleLoanError(c, err) {
		return
	}

	c.JSON(http.StatusOK, response.NewPage(model.ToLoanResponses(loans), page, size, total))
}
