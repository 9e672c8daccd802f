package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookmodel "library-api/internal/domains/book/model"
	"library-api/internal/domains/loan/model"
	"library-api/internal/infrastructure/email"
	"library-api/internal/shared"
)

// fakeLoanService only serves ListOverdue; the rest is unused by the job.
type fakeLoanService struct {
	overdue    []model.Loan
	overdueErr error
}

func (f *fakeLoanService) Create(context.Context, *model.Loan) (*model.Loan, error) {
	panic("not used")
}

func (f *fakeLoanService) GetByID(context.Context, int64) (*model.Loan, error) {
	panic("not used")
}

func (f *fakeLoanService) Update(context.Context, *model.Loan) (*model.Loan, error) {
	panic("not used")
}

func (f *fakeLoanService) Find(context.Context, model.Filter, int, int) ([]model.Loan, int, error) {
	panic("not used")
}

func (f *fakeLoanService) ListByBook(context.Context, int64, int, int) ([]model.Loan, int, error) {
	panic("not used")
}

func (f *fakeLoanService) ListOverdue(context.Context) ([]model.Loan, error) {
	return f.overdue, f.overdueErr
}

type fakeSender struct {
	sent    []email.LoanReminderData
	failFor map[string]error
}

func (f *fakeSender) SendLoanReminder(_ context.Context, data email.LoanReminderData) error {
	if err, ok := f.failFor[data.Email]; ok {
		return err
	}
	f.sent = append(f.sent, data)
	return nil
}

func overdueLoan(id int64, customer, mail string) model.Loan {
	return model.Loan{
		ID:            id,
		BookID:        id,
		Customer:      customer,
		CustomerEmail: mail,
		LoanDate:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Book:          &bookmodel.Book{ID: id, Title: "As aventuras", ISBN: "123"},
	}
}

func reminderTask() *asynq.Task {
	return asynq.NewTask(shared.TypeSendOverdueReminders, nil)
}

func Test_OverdueReminderHandler_SendsOnePerLoan(t *testing.T) {
	svc := &fakeLoanService{overdue: []model.Loan{
		overdueLoan(1, "Fulano", "fulano@example.com"),
		overdueLoan(2, "Ciclano", "ciclano@example.com"),
	}}
	sender := &fakeSender{}
	h := NewOverdueReminderHandler(svc, sender)

	err := h.ProcessTask(context.Background(), reminderTask())

	require.NoError(t, err)
	require.Len(t, sender.sent, 2)
	assert.Equal(t, "fulano@example.com", sender.sent[0].Email)
	assert.Equal(t, "As aventuras", sender.sent[0].BookTitle)
	assert.Equal(t, "2024-03-01", sender.sent[0].LoanDate)
}

func Test_OverdueReminderHandler_SendFailureSkipsLoan(t *testing.T) {
	svc := &fakeLoanService{overdue: []model.Loan{
		overdueLoan(1, "Fulano", "fulano@example.com"),
		overdueLoan(2, "Ciclano", "bounces@example.com"),
		overdueLoan(3, "Beltrano", "beltrano@example.com"),
	}}
	sender := &fakeSender{failFor: map[string]error{
		"bounces@example.com": errors.New("smtp 550"),
	}}
	h := NewOverdueReminderHandler(svc, sender)

	err := h.ProcessTask(context.Background(), reminderTask())

	// A delivery fault never fails the task: the remaining loans still
	// get their mail and asynq must not retry the whole batch.
	require.NoError(t, err)
	require.Len(t, sender.sent, 2)
	assert.Equal(t, "fulano@example.com", sender.sent[0].Email)
	assert.Equal(t, "beltrano@example.com", sender.sent[1].Email)
}

func Test_OverdueReminderHandler_QueryFailureFailsTask(t *testing.T) {
	svc := &fakeLoanService{overdueErr: errors.New("connection reset")}
	sender := &fakeSender{}
	h := NewOverdueReminderHandler(svc, sender)

	err := h.ProcessTask(context.Background(), reminderTask())

	assert.Error(t, err)
	assert.Empty(t, sender.sent)
}

func Test_OverdueReminderHandler_NoOverdueLoans(t *testing.T) {
	svc := &fakeLoanService{}
	sender := &fakeSender{}
	h := NewOverdueReminderHandler(svc, sender)

	err := h.ProcessTask(context.Background(), reminderTask())

	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func Test_OverdueReminderHandler_MissingBookStillSends(t *testing.T) {
	loan := overdueLoan(1, "Fulano", "fulano@example.com")
	loan.Book = nil
	svc := &fakeLoanService{overdue: []model.Loan{loan}}
	sender := &fakeSender{}
	h := NewOverdueReminderHandler(svc, sender)

	err := h.ProcessTask(context.Background(), reminderTask())

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Empty(t, sender.sent[0].BookTitle)
}
