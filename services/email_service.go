package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/Shanilka-Yapa/Libricore/config"
	"github.com/Shanilka-Yapa/Libricore/models"
	"gopkg.in/gomail.v2"
)

// EmailService sends circulation notifications
type EmailService struct {
	dialer *gomail.Dialer
	from   string
}

// NewEmailService creates a new EmailService instance
func NewEmailService(cfg *config.Config) *EmailService {
	dialer := gomail.NewDialer(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
	)

	return &EmailService{
		dialer: dialer,
		from:   cfg.SMTP.From,
	}
}

// SendEmail sends an email
func (s *EmailService) SendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}

	return nil
}

// SendOverdueDigest notifies an owner about loans that just became overdue
func (s *EmailService) SendOverdueDigest(to string, loans []models.Loan) error {
	subject := "Overdue loans notification"

	var rows strings.Builder
	for _, loan := range loans {
		rows.WriteString(fmt.Sprintf("<li>%s — %s (borrowed by %s, due %s)</li>",
			loan.LoanID,
			loan.Title,
			loan.Borrower,
			loan.DueDate.Format("02 Jan 2006"),
		))
	}

	body := fmt.Sprintf(`
		<h2>Overdue loans</h2>
		<p>The following loans passed their due date:</p>
		<ul>%s</ul>
		<p>Date: %s</p>
	`, rows.String(), time.Now().Format("02 Jan 2006 15:04"))

	return s.SendEmail(to, subject, body)
}

// SendSettlementConfirmation notifies an owner that a fine was settled
func (s *EmailService) SendSettlementConfirmation(to string, settlement *models.Settlement) error {
	subject := "Fine settled"
	body := fmt.Sprintf(`
		<h2>Fine settled</h2>
		<p>Loan: %s — %s</p>
		<p>Borrower: %s</p>
		<p>Amount: %.2f</p>
		<p>Settled at: %s</p>
	`,
		settlement.LoanID,
		settlement.Title,
		settlement.Borrower,
		settlement.FineAmount,
		settlement.SettledAt.Format("02 Jan 2006 15:04"),
	)

	return s.SendEmail(to, subject, body)
}
