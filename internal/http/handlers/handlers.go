package handlers

import (
	"github.com/gatherly/events-api/internal/service"
	"github.com/gatherly/events-api/pkg/events"
)

type Handlers struct {
	auth    service.AuthService
	users   service.UsersService
	events  service.EventsService
	bus     events.Publisher
	baseURL string
}

func New(
	auth service.AuthService,
	users service.UsersService,
	events service.EventsService,
	bus events.Publisher,
	baseURL string,
) *Handlers {
	return &Handlers{
		auth:    auth,
		users:   users,
		events:  events,
		bus:     bus,
		baseURL: baseURL,
	}
}
