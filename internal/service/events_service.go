package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatherly/events-api/internal/domain"
	"github.com/gatherly/events-api/internal/storage"
	"github.com/google/uuid"
)

// EventsService orchestrates events and registrations. Role gating for
// event mutation is the HTTP boundary's job; these methods trust their
// caller.
type EventsService interface {
	GetEvents(ctx context.Context) ([]domain.Event, error)
	GetEventByID(ctx context.Context, id int64) (*domain.Event, error)
	CreateEvent(ctx context.Context, req *domain.CreateEventRequest, authorID uuid.UUID) (*domain.Event, error)
	UpdateEvent(ctx context.Context, id int64, authorID uuid.UUID, req *domain.UpdateEventRequest) (*domain.Event, error)
	DeleteEvent(ctx context.Context, id int64) error
	ListRegistrations(ctx context.Context, userID uuid.UUID) ([]domain.EventRegistration, error)
	CreateRegistration(ctx context.Context, req *domain.CreateRegistrationRequest, userID uuid.UUID) (*domain.EventRegistration, *domain.Event, error)
	DeleteRegistration(ctx context.Context, registrationID int64, userID uuid.UUID) error
}

type eventsService struct {
	store storage.Store
}

func NewEventsService(store storage.Store) EventsService {
	return &eventsService{store: store}
}

func (s *eventsService) GetEvents(ctx context.Context) ([]domain.Event, error) {
	uow, err := s.store.BeginEvents(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Close(ctx)

	return uow.Events().GetAll(ctx, nil)
}

func (s *eventsService) GetEventByID(ctx context.Context, id int64) (*domain.Event, error) {
	uow, err := s.store.BeginEvents(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Close(ctx)

	event, err := uow.Events().GetOne(ctx, storage.Filter{"event_id": id})
	if err != nil {
		return nil, fmt.Errorf("find event: %w", err)
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}
	return event, nil
}

func (s *eventsService) CreateEvent(ctx context.Context, req *domain.CreateEventRequest, authorID uuid.UUID) (*domain.Event, error) {
	uow, err := s.store.BeginEvents(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Close(ctx)

	event, err := uow.Events().AddOne(ctx, storage.Fields{
		"title":       req.Title,
		"description": req.Description,
		"event_date":  req.EventDate,
		"location":    req.Location,
		"organizer":   req.Organizer,
		"author_id":   authorID,
	})
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventsService) UpdateEvent(ctx context.Context, id int64, authorID uuid.UUID, req *domain.UpdateEventRequest) (*domain.Event, error) {
	uow, err := s.store.BeginEvents(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Close(ctx)

	event, err := uow.Events().GetOne(ctx, storage.Filter{"event_id": id})
	if err != nil {
		return nil, fmt.Errorf("find event: %w", err)
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}

	// Authorship is rewritten to the caller on every update.
	updated, err := uow.Events().UpdateOne(ctx, storage.Fields{
		"title":       req.Title,
		"description": req.Description,
		"event_date":  req.EventDate,
		"location":    req.Location,
		"organizer":   req.Organizer,
		"author_id":   authorID,
	}, storage.Filter{"event_id": id})
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *eventsService) DeleteEvent(ctx context.Context, id int64) error {
	uow, err := s.store.BeginEvents(ctx)
	if err != nil {
		return err
	}
	defer uow.Close(ctx)

	event, err := uow.Events().GetOne(ctx, storage.Filter{"event_id": id})
	if err != nil {
		return fmt.Errorf("find event: %w", err)
	}
	if event == nil {
		return domain.ErrEventNotFound
	}

	if err := uow.Events().DeleteOne(ctx, storage.Filter{"event_id": id}); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	return uow.Commit(ctx)
}

func (s *eventsService) ListRegistrations(ctx context.Context, userID uuid.UUID) ([]domain.EventRegistration, error) {
	uow, err := s.store.BeginEvents(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Close(ctx)

	return uow.Registrations().GetAll(ctx, storage.Filter{"user_id": userID})
}

func (s *eventsService) CreateRegistration(ctx context.Context, req *domain.CreateRegistrationRequest, userID uuid.UUID) (*domain.EventRegistration, *domain.Event, error) {
	uow, err := s.store.BeginEvents(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer uow.Close(ctx)

	event, err := uow.Events().GetOne(ctx, storage.Filter{"event_id": req.EventID})
	if err != nil {
		return nil, nil, fmt.Errorf("find event: %w", err)
	}
	if event == nil {
		return nil, nil, domain.ErrEventNotFound
	}

	existing, err := uow.Registrations().GetOne(ctx, storage.Filter{
		"user_id":  userID,
		"event_id": req.EventID,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("check registration: %w", err)
	}
	if existing != nil {
		return nil, nil, domain.ErrRegistrationExists
	}

	registration, err := uow.Registrations().AddOne(ctx, storage.Fields{
		"user_id":  userID,
		"event_id": req.EventID,
	})
	if err != nil {
		if errors.Is(err, storage.ErrUniqueViolation) {
			return nil, nil, domain.ErrRegistrationExists
		}
		return nil, nil, fmt.Errorf("insert registration: %w", err)
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, nil, err
	}

	// Re-fetch for the response. The registration is already committed,
	// so a concurrent event delete can make this fail with not-found.
	event, err = s.GetEventByID(ctx, registration.EventID)
	if err != nil {
		return nil, nil, err
	}
	return registration, event, nil
}

func (s *eventsService) DeleteRegistration(ctx context.Context, registrationID int64, userID uuid.UUID) error {
	uow, err := s.store.BeginEvents(ctx)
	if err != nil {
		return err
	}
	defer uow.Close(ctx)

	// "Does not exist" and "not yours" are deliberately the same outcome,
	// so callers cannot probe other users' registrations.
	registration, err := uow.Registrations().GetOne(ctx, storage.Filter{
		"id":      registrationID,
		"user_id": userID,
	})
	if err != nil {
		return fmt.Errorf("find registration: %w", err)
	}
	if registration == nil {
		return domain.ErrForbidden
	}

	if err := uow.Registrations().DeleteOne(ctx, storage.Filter{"id": registrationID}); err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}

	return uow.Commit(ctx)
}
