// Package notify consumes registration events off the bus and dispatches
// confirmation email. Delivery is fire-and-forget relative to the request
// that committed the registration: failures are logged, never surfaced.
package notify

import (
	"context"
	"encoding/json"

	"github.com/gatherly/events-api/internal/mailer"
	"github.com/gatherly/events-api/pkg/events"
	"github.com/gatherly/events-api/pkg/logger"
)

type Notifier struct {
	bus    events.Subscriber
	mailer mailer.Service
}

func New(bus events.Subscriber, mailer mailer.Service) *Notifier {
	return &Notifier{bus: bus, mailer: mailer}
}

// Start subscribes to registration events. The queue group keeps exactly
// one process handling each event when several instances run.
func (n *Notifier) Start() error {
	return n.bus.QueueSubscribe(events.RegistrationCreated, "notify", n.handleRegistrationCreated)
}

func (n *Notifier) handleRegistrationCreated(msg *events.Message) {
	ctx := context.Background()

	var evt events.RegistrationCreatedEvent
	if err := json.Unmarshal(msg.Data, &evt); err != nil {
		logger.ErrorContext(ctx, "dropping malformed registration event", "error", err)
		return
	}

	if err := n.mailer.SendRegistrationEmail(evt.UserEmail, evt.EventTitle, evt.EventDate, evt.Host); err != nil {
		logger.ErrorContext(ctx, "failed to send registration email",
			"error", err,
			"registration_id", evt.RegistrationID,
			"to", evt.UserEmail,
		)
		return
	}

	logger.InfoContext(ctx, "registration email sent",
		"registration_id", evt.RegistrationID,
		"to", evt.UserEmail,
	)
}
