package postgres

import (
	"context"
	"fmt"

	"github.com/gatherly/events-api/internal/domain"
	"github.com/gatherly/events-api/internal/storage"
	"github.com/gatherly/events-api/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	userColumns = []string{
		"user_id", "username", "phone", "email", "password_hash", "role",
		"created_at", "updated_at",
	}
	eventColumns = []string{
		"event_id", "title", "description", "event_date", "location",
		"organizer", "author_id", "created_at", "updated_at",
	}
	registrationColumns = []string{
		"id", "user_id", "event_id", "created_at", "updated_at",
	}
)

// Store opens transaction-scoped units of work on a shared pool. One
// Store is built at startup and threaded through constructors.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres store: pool is nil")
	}
	return &Store{pool: pool}, nil
}

func (s *Store) BeginUsers(ctx context.Context) (storage.UsersUnitOfWork, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin users unit of work: %w", err)
	}
	return &usersUnitOfWork{
		unitOfWork: unitOfWork{tx: tx, name: "users"},
		users:      NewRepository[domain.User](tx, "users", userColumns),
	}, nil
}

func (s *Store) BeginEvents(ctx context.Context) (storage.EventsUnitOfWork, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin events unit of work: %w", err)
	}
	return &eventsUnitOfWork{
		unitOfWork:    unitOfWork{tx: tx, name: "events"},
		events:        NewRepository[domain.Event](tx, "events", eventColumns),
		registrations: NewRepository[domain.EventRegistration](tx, "event_registrations", registrationColumns),
	}, nil
}

// unitOfWork owns one pgx transaction. Close releases the underlying
// connection on every exit path; callers defer it right after Begin.
type unitOfWork struct {
	tx   pgx.Tx
	name string
	done bool
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.done {
		return fmt.Errorf("%s unit of work already closed", u.name)
	}
	if err := u.tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit %s unit of work: %w", u.name, err)
	}
	u.done = true
	return nil
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	if err := u.tx.Rollback(ctx); err != nil {
		return fmt.Errorf("rollback %s unit of work: %w", u.name, err)
	}
	return nil
}

func (u *unitOfWork) Close(ctx context.Context) {
	if u.done {
		return
	}
	u.done = true
	// Uncommitted work is discarded; reads end up here too, so keep it
	// quiet unless the rollback itself fails.
	logger.DebugContext(ctx, "closing unit of work without commit, rolling back", "scope", u.name)
	if err := u.tx.Rollback(ctx); err != nil {
		logger.ErrorContext(ctx, "unit of work rollback failed", "scope", u.name, "error", err)
	}
}

type usersUnitOfWork struct {
	unitOfWork
	users *Repository[domain.User]
}

func (u *usersUnitOfWork) Users() storage.Repository[domain.User] { return u.users }

type eventsUnitOfWork struct {
	unitOfWork
	events        *Repository[domain.Event]
	registrations *Repository[domain.EventRegistration]
}

func (u *eventsUnitOfWork) Events() storage.Repository[domain.Event] { return u.events }

func (u *eventsUnitOfWork) Registrations() storage.Repository[domain.EventRegistration] {
	return u.registrations
}
