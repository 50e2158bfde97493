package mailer

import (
	"time"

	"github.com/gatherly/events-api/pkg/config"
)

// Service delivers transactional email. Failures are for the caller to
// log; nothing here should ever bubble up to an API response.
type Service interface {
	SendRegistrationEmail(toEmail, eventTitle string, eventDate time.Time, host string) error
}

// New picks the mailer implementation from config: dev mode logs only,
// a MailerSend key selects the API client, otherwise plain SMTP.
func New(cfg config.EmailConfig) Service {
	if cfg.DevMode {
		return NewDevMailer()
	}
	if cfg.MailerSendKey != "" {
		return NewMailerSend(cfg.MailerSendKey, "Gatherly", cfg.SMTPFrom)
	}
	return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPUser, cfg.SMTPPass)
}
