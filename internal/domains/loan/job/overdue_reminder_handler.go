package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"library-api/internal/domains/loan/model"
	"library-api/internal/domains/loan/service"
	"library-api/internal/infrastructure/email"
	"library-api/pkg/logger"
)

// ================================================
// OVERDUE REMINDER JOB HANDLER
// ================================================

// OverdueReminderHandler sends one reminder mail per overdue loan.
// Each run is independent: no state is carried between ticks, and a loan
// still overdue on the next tick gets another reminder.
type OverdueReminderHandler struct {
	loanService service.ServiceInterface
	sender      email.Sender
}

func NewOverdueReminderHandler(loanService service.ServiceInterface, sender email.Sender) *OverdueReminderHandler {
	return &OverdueReminderHandler{
		loanService: loanService,
		sender:      sender,
	}
}

// ProcessTask is the job entrypoint.
// A failed send is logged and skipped, never retried within the tick;
// only a failed loan query fails the task (and lets asynq retry it),
// because that is a system fault rather than a delivery fault.
func (h *OverdueReminderHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	loans, err := h.loanService.ListOverdue(ctx)
	if err != nil {
		return fmt.Errorf("list overdue loans: %w", err)
	}

	logger.Info("Starting overdue reminder run", map[string]interface{}{
		"overdue_loans": len(loans),
	})

	sent, failed := 0, 0
	for _, loan := range loans {
		if err := h.sender.SendLoanReminder(ctx, reminderData(loan)); err != nil {
			logger.Error("Failed to send overdue reminder", err)
			failed++
			continue
		}
		sent++
	}

	logger.Info("Completed overdue reminder run", map[string]interface{}{
		"sent":   sent,
		"failed": failed,
	})

	return nil
}

func reminderData(loan model.Loan) email.LoanReminderData {
	data := email.LoanReminderData{
		Email:    loan.CustomerEmail,
		Customer: loan.Customer,
		LoanDate: loan.LoanDate.Format("2006-01-02"),
	}
	if loan.Book != nil {
		data.BookTitle = loan.Book.Title
	}
	return data
}
