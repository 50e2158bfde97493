// Package storage defines the persistence contracts: a generic repository
// translating persisted rows into validated records, and scoped units of
// work owning one transactional session each.
package storage

import (
	"context"
	"errors"

	"github.com/gatherly/events-api/internal/domain"
)

// Filter holds equality conditions ANDed together.
type Filter map[string]any

// Fields holds column values for inserts and partial updates.
type Fields map[string]any

var (
	// ErrNoMatch is returned by UpdateOne when the filter matched no row.
	ErrNoMatch = errors.New("storage: no row matched")
	// ErrUniqueViolation wraps store-level unique constraint failures.
	ErrUniqueViolation = errors.New("storage: unique constraint violated")
	// ErrForeignKeyViolation wraps store-level referential failures.
	ErrForeignKeyViolation = errors.New("storage: foreign key constraint violated")
	// ErrInvalidRecord is returned when data crossing the repository does
	// not conform to the entity schema.
	ErrInvalidRecord = errors.New("storage: record failed validation")
)

// Repository is the generic store-access layer for one entity type.
type Repository[T any] interface {
	// GetAll returns every validated record matching all filters.
	GetAll(ctx context.Context, filter Filter) ([]T, error)
	// GetOne returns the first matching record, or (nil, nil) when none.
	GetOne(ctx context.Context, filter Filter) (*T, error)
	// AddOne inserts a record and returns its persisted, validated form.
	AddOne(ctx context.Context, data Fields) (*T, error)
	// UpdateOne applies data to the matching record and returns the
	// updated form; ErrNoMatch when the filter matched nothing.
	UpdateOne(ctx context.Context, data Fields, filter Filter) (*T, error)
	// DeleteOne removes matching records; absent rows are not an error.
	DeleteOne(ctx context.Context, filter Filter) error
}

// UnitOfWork is a scoped transaction boundary. Mutations require an
// explicit Commit before Close; an uncommitted scope rolls back on Close.
// Close releases the session on every exit path and must always be
// deferred immediately after Begin. Nesting is not supported.
type UnitOfWork interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	Close(ctx context.Context)
}

// UsersUnitOfWork binds the users repository to one transaction.
type UsersUnitOfWork interface {
	UnitOfWork
	Users() Repository[domain.User]
}

// EventsUnitOfWork binds the events and registrations repositories to one
// transaction.
type EventsUnitOfWork interface {
	UnitOfWork
	Events() Repository[domain.Event]
	Registrations() Repository[domain.EventRegistration]
}

// Store opens unit-of-work scopes. It is constructed once at startup and
// passed explicitly through constructors.
type Store interface {
	BeginUsers(ctx context.Context) (UsersUnitOfWork, error)
	BeginEvents(ctx context.Context) (EventsUnitOfWork, error)
}
