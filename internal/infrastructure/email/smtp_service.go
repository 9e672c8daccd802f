package email

import (
	"context"
	"fmt"
	"net/smtp"

	"library-api/pkg/logger"
)

// LoanReminderData carries everything a reminder mail needs.
type LoanReminderData struct {
	Email     string `json:"email"`
	Customer  string `json:"customer"`
	BookTitle string `json:"bookTitle"`
	LoanDate  string `json:"loanDate"`
}

// Sender dispatches reminder mail. Implementations own the transport;
// callers only see delivery success or failure.
type Sender interface {
	SendLoanReminder(ctx context.Context, data LoanReminderData) error
}

type smtpSender struct {
	smtpAddr string
	smtpFrom string
}

// NewSMTPSender talks plain SMTP, which also covers local dev mailers
// like Mailpit.
func NewSMTPSender(smtpHost, smtpPort, from string) Sender {
	return &smtpSender{
		smtpAddr: smtpHost + ":" + smtpPort,
		smtpFrom: from,
	}
}

func (s *smtpSender) SendLoanReminder(ctx context.Context, data LoanReminderData) error {
	subject := "Library loan overdue reminder"
	body := fmt.Sprintf(`Hello %s,

The book "%s" you borrowed on %s is overdue.

Please return it to the library as soon as possible.`,
		data.Customer, data.BookTitle, data.LoanDate)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.smtpFrom, data.Email, subject, body))

	if err := smtp.SendMail(s.smtpAddr, nil, s.smtpFrom, []string{data.Email}, msg); err != nil {
		logger.Info("Failed to send reminder email", map[string]interface{}{
			"error":     err.Error(),
			"to":        data.Email,
			"smtp_addr": s.smtpAddr,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
