// Package notify sends user-facing emails over SMTP.
package notify

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/BasanLidzhiev/bank-rest/internal/config"
	"github.com/BasanLidzhiev/bank-rest/internal/models"
	"github.com/jordan-wright/email"
)

type Sender struct {
	cfg config.Config
	log *slog.Logger
}

// NewSender returns nil when SMTP is unconfigured, which disables
// notifications throughout the service.
func NewSender(cfg config.Config, log *slog.Logger) *Sender {
	if cfg.SMTPHost == "" {
		return nil
	}
	return &Sender{cfg: cfg, log: log}
}

// CardBlocked notifies a card owner that an admin blocked their card.
func (s *Sender) CardBlocked(to, username string, card models.CardView) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Card Blocked Notification"
	e.Text = []byte(fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your card %s has been blocked by the bank.\n"+
			"If you did not request this, please contact support.\n"+
			"\nBest regards,\nBank Service",
		username, card.MaskedNumber,
	))
	return s.send(e)
}

// BlockRequested alerts the admin inbox that a user asked for a card
// block.
func (s *Sender) BlockRequested(username string, card models.CardView) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{s.cfg.AdminEmail}
	e.Subject = "Card Block Requested"
	e.Text = []byte(fmt.Sprintf(
		"User %s requested a block on card %s (id %s).\n"+
			"Review and confirm the block in the admin panel.",
		username, card.MaskedNumber, card.ID,
	))
	return s.send(e)
}

// TransferCompleted sends a receipt for a completed transfer.
func (s *Sender) TransferCompleted(to, username string, txn models.Transaction) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Transfer Completed"
	e.Text = []byte(fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your transfer of %d.%02d has been completed.\n"+
			"Transaction id: %s\n"+
			"Transaction time: %s\n"+
			"\nBest regards,\nBank Service",
		username, txn.Amount/100, txn.Amount%100, txn.ID,
		txn.CreatedAt.Format(time.DateTime),
	))
	return s.send(e)
}

func (s *Sender) send(e *email.Email) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.log.Error("email send failed", "to", e.To, "err", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	s.log.Info("email sent", "to", e.To, "subject", e.Subject)
	return nil
}
