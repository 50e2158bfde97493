package domain

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID          int64     `db:"event_id" json:"event_id" validate:"required"`
	Title       string    `db:"title" json:"title" validate:"required,min=2,max=255"`
	Description *string   `db:"description" json:"description,omitempty" validate:"omitempty,min=2,max=255"`
	EventDate   time.Time `db:"event_date" json:"event_date" validate:"required"`
	Location    string    `db:"location" json:"location" validate:"required,min=2,max=255"`
	Organizer   string    `db:"organizer" json:"organizer" validate:"required,min=2,max=100"`
	AuthorID    uuid.UUID `db:"author_id" json:"author_id" validate:"required"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type EventRegistration struct {
	ID        int64     `db:"id" json:"id" validate:"required"`
	UserID    uuid.UUID `db:"user_id" json:"user_id" validate:"required"`
	EventID   int64     `db:"event_id" json:"event_id" validate:"required"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type CreateEventRequest struct {
	Title       string    `json:"title" validate:"required,min=2,max=255"`
	Description *string   `json:"description,omitempty" validate:"omitempty,min=2,max=255"`
	EventDate   time.Time `json:"event_date" validate:"required"`
	Location    string    `json:"location" validate:"required,min=2,max=255"`
	Organizer   string    `json:"organizer" validate:"required,min=2,max=100"`
}

func (r *CreateEventRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if !r.EventDate.After(time.Now()) {
		return validationError("event_date must be in the future")
	}
	return nil
}

// UpdateEventRequest overwrites every field of the event, mirroring
// CreateEventRequest.
type UpdateEventRequest = CreateEventRequest

type CreateRegistrationRequest struct {
	EventID int64 `json:"event_id" validate:"required,gt=0"`
}

func (r *CreateRegistrationRequest) Validate() error {
	return validateStruct(r)
}

type RegistrationResponse struct {
	ID      int64     `json:"id"`
	UserID  uuid.UUID `json:"user_id"`
	EventID int64     `json:"event_id"`
}
