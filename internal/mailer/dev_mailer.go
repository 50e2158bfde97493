package mailer

import (
	"time"

	"github.com/gatherly/events-api/pkg/logger"
)

// DevMailer logs instead of sending.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendRegistrationEmail(toEmail, eventTitle string, eventDate time.Time, host string) error {
	logger.Info("[DEV MAIL] Registration Confirmation",
		"to", toEmail,
		"subject", registrationSubject,
		"event", eventTitle,
		"event_date", eventDate.Format(time.RFC3339),
		"host", host,
	)
	return nil
}
