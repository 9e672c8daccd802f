package main

import (
	"github.com/hibiken/asynq"

	loanJob "library-api/internal/domains/loan/job"
	"library-api/internal/infrastructure/email"
	"library-api/internal/shared"
	"library-api/pkg/container"
)

// HandlerRegistry holds all job handlers.
type HandlerRegistry struct {
	overdueReminder *loanJob.OverdueReminderHandler
}

// initializeHandlers creates all job handlers with their dependencies.
func initializeHandlers(c *container.Container, cfg *Config) *HandlerRegistry {
	sender := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)

	return &HandlerRegistry{
		overdueReminder: loanJob.NewOverdueReminderHandler(c.LoanService, sender),
	}
}

// RegisterHandlers registers all handlers with the mux.
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeSendOverdueReminders, h.overdueReminder.ProcessTask)
}
