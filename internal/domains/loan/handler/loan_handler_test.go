package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookmodel "library-api/internal/domains/book/model"
	"library-api/internal/domains/loan/model"
)

// fakeBookService only serves GetByISBN; the loan handler uses nothing else.
type fakeBookService struct {
	booksByISBN  map[string]*bookmodel.Book
	getByISBNErr error
}

func (f *fakeBookService) Create(context.Context, *bookmodel.Book) (*bookmodel.Book, error) {
	panic("not used")
}

func (f *fakeBookService) GetByID(context.Context, int64) (*bookmodel.Book, error) {
	panic("not used")
}

func (f *fakeBookService) GetByISBN(_ context.Context, isbn string) (*bookmodel.Book, error) {
	if f.getByISBNErr != nil {
		return nil, f.getByISBNErr
	}
	book, ok := f.booksByISBN[isbn]
	if !ok {
		return nil, bookmodel.ErrBookNotFound
	}
	copied := *book
	return &copied, nil
}

func (f *fakeBookService) Update(context.Context, *bookmodel.Book) (*bookmodel.Book, error) {
	panic("not used")
}

func (f *fakeBookService) Delete(context.Context, *bookmodel.Book) error {
	panic("not used")
}

func (f *fakeBookService) Find(context.Context, bookmodel.Filter, int, int) ([]bookmodel.Book, int, error) {
	panic("not used")
}

// fakeLoanService mirrors the one-active-loan-per-book rule so the full
// borrow/return cycle can run through the HTTP layer.
type fakeLoanService struct {
	loans  map[int64]*model.Loan
	nextID int64
}

func newFakeLoanService() *fakeLoanService {
	return &fakeLoanService{loans: map[int64]*model.Loan{}, nextID: 1}
}

func (f *fakeLoanService) Create(_ context.Context, loan *model.Loan) (*model.Loan, error) {
	for _, existing := range f.loans {
		if existing.BookID == loan.BookID && !existing.IsReturned() {
			return nil, model.ErrBookAlreadyLoaned
		}
	}
	loan.ID = f.nextID
	f.nextID++
	stored := *loan
	f.loans[loan.ID] = &stored
	return loan, nil
}

func (f *fakeLoanService) GetByID(_ context.Context, id int64) (*model.Loan, error) {
	loan, ok := f.loans[id]
	if !ok {
		return nil, model.ErrLoanNotFound
	}
	copied := *loan
	return &copied, nil
}

func (f *fakeLoanService) Update(_ context.Context, loan *model.Loan) (*model.Loan, error) {
	if loan == nil || loan.ID == 0 {
		return nil, model.ErrNilLoanID
	}
	if _, ok := f.loans[loan.ID]; !ok {
		return nil, model.ErrLoanNotFound
	}
	stored := *loan
	f.loans[loan.ID] = &stored
	return loan, nil
}

func (f *fakeLoanService) Find(_ context.Context, filter model.Filter, page, size int) ([]model.Loan, int, error) {
	var out []model.Loan
	for _, loan := range f.loans {
		if loan.Customer == filter.Customer || (loan.Book != nil && loan.Book.ISBN == filter.ISBN) {
			out = append(out, *loan)
		}
	}
	return out, len(out), nil
}

func (f *fakeLoanService) ListByBook(context.Context, int64, int, int) ([]model.Loan, int, error) {
	panic("not used")
}

func (f *fakeLoanService) ListOverdue(context.Context) ([]model.Loan, error) {
	panic("not used")
}

type testEnv struct {
	router *gin.Engine
	books  *fakeBookService
	loans  *fakeLoanService
}

func newTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)

	books := &fakeBookService{booksByISBN: map[string]*bookmodel.Book{}}
	loans := newFakeLoanService()
	h := NewHandler(loans, books)

	router := gin.New()
	api := router.Group("/api")
	api.POST("/loans", h.CreateLoan)
	api.GET("/loans", h.FindLoans)
	api.PATCH("/loans/:id", h.ReturnLoan)

	return &testEnv{router: router, books: books, loans: loans}
}

func (e *testEnv) seedBook(id int64, title, isbn string) {
	e.books.booksByISBN[isbn] = &bookmodel.Book{ID: id, Title: title, Author: "Fulano", ISBN: isbn}
}

func (e *testEnv) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func errorMessages(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var body struct {
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Errors
}

func Test_CreateLoan_Created(t *testing.T) {
	env := newTestEnv()
	env.seedBook(1, "As aventuras", "123")

	rec := env.do(http.MethodPost, "/api/loans", gin.H{
		"isbn":     "123",
		"customer": "Fulano",
		"email":    "fulano@example.com",
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.ID)

	stored, err := env.loans.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.BookID)
	assert.False(t, stored.IsReturned())
	assert.WithinDuration(t, time.Now(), stored.LoanDate, time.Minute, "the loan date is stamped server-side")
}

func Test_CreateLoan_UnknownISBN(t *testing.T) {
	env := newTestEnv()

	rec := env.do(http.MethodPost, "/api/loans", gin.H{
		"isbn":     "999",
		"customer": "Fulano",
		"email":    "fulano@example.com",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"Book not found for passed isbn."}, errorMessages(t, rec))
}

func Test_CreateLoan_BookLookupFailure(t *testing.T) {
	env := newTestEnv()
	env.books.getByISBNErr = errors.New("connection refused")

	rec := env.do(http.MethodPost, "/api/loans", gin.H{
		"isbn":     "123",
		"customer": "Fulano",
		"email":    "fulano@example.com",
	})

	// An infrastructure fault during the lookup is not a client error.
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, []string{"internal server error"}, errorMessages(t, rec))
}

func Test_CreateLoan_MissingFields(t *testing.T) {
	env := newTestEnv()

	rec := env.do(http.MethodPost, "/api/loans", gin.H{})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{
		"customer cannot be blank",
		"email cannot be blank",
		"isbn cannot be blank",
	}, errorMessages(t, rec))
}

func Test_CreateLoan_InvalidEmail(t *testing.T) {
	env := newTestEnv()
	env.seedBook(1, "As aventuras", "123")

	rec := env.do(http.MethodPost, "/api/loans", gin.H{
		"isbn":     "123",
		"customer": "Fulano",
		"email":    "not-an-email",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"email must be a valid email address"}, errorMessages(t, rec))
}

func Test_ReturnLoan_NotFound(t *testing.T) {
	env := newTestEnv()

	rec := env.do(http.MethodPatch, "/api/loans/99", gin.H{"returned": true})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func Test_ReturnLoan_MissingReturned(t *testing.T) {
	env := newTestEnv()
	env.seedBook(1, "As aventuras", "123")

	rec := env.do(http.MethodPost, "/api/loans", gin.H{
		"isbn":     "123",
		"customer": "Fulano",
		"email":    "fulano@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(http.MethodPatch, "/api/loans/1", gin.H{})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"returned is required"}, errorMessages(t, rec))
}

func Test_FindLoans_MatchesByCustomerOrISBN(t *testing.T) {
	env := newTestEnv()
	env.seedBook(1, "As aventuras", "123")

	rec := env.do(http.MethodPost, "/api/loans", gin.H{
		"isbn":     "123",
		"customer": "Fulano",
		"email":    "fulano@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(http.MethodGet, "/api/loans?customer=Fulano", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Content       []model.LoanResponse `json:"content"`
		TotalElements int                  `json:"total_elements"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Fulano", page.Content[0].Customer)
	assert.Equal(t, 1, page.TotalElements)
}

// The full borrow/return cycle: a book can be loaned again only after the
// active loan is returned.
func Test_LoanLifecycle_BorrowReturnBorrow(t *testing.T) {
	env := newTestEnv()
	env.seedBook(1, "As aventuras", "123")

	loanBody := gin.H{
		"isbn":     "123",
		"customer": "Fulano",
		"email":    "fulano@example.com",
	}

	rec := env.do(http.MethodPost, "/api/loans", loanBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(http.MethodPost, "/api/loans", gin.H{
		"isbn":     "123",
		"customer": "Ciclano",
		"email":    "ciclano@example.com",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"Book already loaned."}, errorMessages(t, rec))

	rec = env.do(http.MethodPatch, "/api/loans/1", gin.H{"returned": true})
	require.Equal(t, http.StatusOK, rec.Code)

	var returned model.LoanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &returned))
	require.NotNil(t, returned.Returned)
	assert.True(t, *returned.Returned)

	rec = env.do(http.MethodPost, "/api/loans", gin.H{
		"isbn":     "123",
		"customer": "Ciclano",
		"email":    "ciclano@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body.ID)
}
