package service_test

import (
	"context"
	"time"

	"github.com/gatherly/events-api/internal/domain"
	"github.com/gatherly/events-api/internal/storage"
	"github.com/gatherly/events-api/pkg/config"
	"github.com/google/uuid"
)

// ---------- Fakes ----------

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret",
			AccessTokenTTL:  time.Minute,
			RefreshTokenTTL: time.Hour,
			EmailTokenTTL:   time.Hour,
		},
	}
}

type fakeUserRepo struct {
	users     []domain.User
	addErr    error
	updateErr error
	deleteErr error
}

func matchUser(u *domain.User, filter storage.Filter) bool {
	for k, v := range filter {
		switch k {
		case "user_id":
			if u.ID != v.(uuid.UUID) {
				return false
			}
		case "email":
			if u.Email != v.(string) {
				return false
			}
		case "phone":
			if u.Phone == nil || *u.Phone != v.(string) {
				return false
			}
		}
	}
	return true
}

func (r *fakeUserRepo) GetAll(_ context.Context, filter storage.Filter) ([]domain.User, error) {
	var out []domain.User
	for i := range r.users {
		if matchUser(&r.users[i], filter) {
			out = append(out, r.users[i])
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetOne(_ context.Context, filter storage.Filter) (*domain.User, error) {
	for i := range r.users {
		if matchUser(&r.users[i], filter) {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) AddOne(_ context.Context, data storage.Fields) (*domain.User, error) {
	if r.addErr != nil {
		return nil, r.addErr
	}
	u := domain.User{
		ID:           uuid.New(),
		Username:     data["username"].(string),
		Email:        data["email"].(string),
		PasswordHash: data["password_hash"].(string),
		Role:         domain.RoleUser,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if p, ok := data["phone"].(string); ok {
		u.Phone = &p
	}
	r.users = append(r.users, u)
	return &u, nil
}

func (r *fakeUserRepo) UpdateOne(_ context.Context, data storage.Fields, filter storage.Filter) (*domain.User, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	for i := range r.users {
		if matchUser(&r.users[i], filter) {
			if name, ok := data["username"].(string); ok {
				r.users[i].Username = name
			}
			if p, ok := data["phone"].(string); ok {
				r.users[i].Phone = &p
			}
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, storage.ErrNoMatch
}

func (r *fakeUserRepo) DeleteOne(_ context.Context, filter storage.Filter) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	kept := r.users[:0]
	for i := range r.users {
		if !matchUser(&r.users[i], filter) {
			kept = append(kept, r.users[i])
		}
	}
	r.users = kept
	return nil
}

type fakeEventRepo struct {
	events    []domain.Event
	nextID    int64
	addErr    error
	updateErr error
}

func matchEvent(e *domain.Event, filter storage.Filter) bool {
	for k, v := range filter {
		switch k {
		case "event_id":
			if e.ID != v.(int64) {
				return false
			}
		case "author_id":
			if e.AuthorID != v.(uuid.UUID) {
				return false
			}
		}
	}
	return true
}

func (r *fakeEventRepo) GetAll(_ context.Context, filter storage.Filter) ([]domain.Event, error) {
	var out []domain.Event
	for i := range r.events {
		if matchEvent(&r.events[i], filter) {
			out = append(out, r.events[i])
		}
	}
	return out, nil
}

func (r *fakeEventRepo) GetOne(_ context.Context, filter storage.Filter) (*domain.Event, error) {
	for i := range r.events {
		if matchEvent(&r.events[i], filter) {
			e := r.events[i]
			return &e, nil
		}
	}
	return nil, nil
}

func (r *fakeEventRepo) AddOne(_ context.Context, data storage.Fields) (*domain.Event, error) {
	if r.addErr != nil {
		return nil, r.addErr
	}
	r.nextID++
	e := domain.Event{
		ID:        r.nextID,
		Title:     data["title"].(string),
		EventDate: data["event_date"].(time.Time),
		Location:  data["location"].(string),
		Organizer: data["organizer"].(string),
		AuthorID:  data["author_id"].(uuid.UUID),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if d, ok := data["description"].(*string); ok {
		e.Description = d
	}
	r.events = append(r.events, e)
	return &e, nil
}

func (r *fakeEventRepo) UpdateOne(_ context.Context, data storage.Fields, filter storage.Filter) (*domain.Event, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	for i := range r.events {
		if matchEvent(&r.events[i], filter) {
			e := &r.events[i]
			e.Title = data["title"].(string)
			e.EventDate = data["event_date"].(time.Time)
			e.Location = data["location"].(string)
			e.Organizer = data["organizer"].(string)
			e.AuthorID = data["author_id"].(uuid.UUID)
			if d, ok := data["description"].(*string); ok {
				e.Description = d
			}
			out := *e
			return &out, nil
		}
	}
	return nil, storage.ErrNoMatch
}

func (r *fakeEventRepo) DeleteOne(_ context.Context, filter storage.Filter) error {
	kept := r.events[:0]
	for i := range r.events {
		if !matchEvent(&r.events[i], filter) {
			kept = append(kept, r.events[i])
		}
	}
	r.events = kept
	return nil
}

type fakeRegistrationRepo struct {
	registrations []domain.EventRegistration
	nextID        int64
	addErr        error
	deleteErr     error
}

func matchRegistration(reg *domain.EventRegistration, filter storage.Filter) bool {
	for k, v := range filter {
		switch k {
		case "id":
			if reg.ID != v.(int64) {
				return false
			}
		case "user_id":
			if reg.UserID != v.(uuid.UUID) {
				return false
			}
		case "event_id":
			if reg.EventID != v.(int64) {
				return false
			}
		}
	}
	return true
}

func (r *fakeRegistrationRepo) GetAll(_ context.Context, filter storage.Filter) ([]domain.EventRegistration, error) {
	var out []domain.EventRegistration
	for i := range r.registrations {
		if matchRegistration(&r.registrations[i], filter) {
			out = append(out, r.registrations[i])
		}
	}
	return out, nil
}

func (r *fakeRegistrationRepo) GetOne(_ context.Context, filter storage.Filter) (*domain.EventRegistration, error) {
	for i := range r.registrations {
		if matchRegistration(&r.registrations[i], filter) {
			reg := r.registrations[i]
			return &reg, nil
		}
	}
	return nil, nil
}

func (r *fakeRegistrationRepo) AddOne(_ context.Context, data storage.Fields) (*domain.EventRegistration, error) {
	if r.addErr != nil {
		return nil, r.addErr
	}
	r.nextID++
	reg := domain.EventRegistration{
		ID:        r.nextID,
		UserID:    data["user_id"].(uuid.UUID),
		EventID:   data["event_id"].(int64),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	r.registrations = append(r.registrations, reg)
	return &reg, nil
}

func (r *fakeRegistrationRepo) UpdateOne(_ context.Context, _ storage.Fields, _ storage.Filter) (*domain.EventRegistration, error) {
	return nil, storage.ErrNoMatch
}

func (r *fakeRegistrationRepo) DeleteOne(_ context.Context, filter storage.Filter) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	kept := r.registrations[:0]
	for i := range r.registrations {
		if !matchRegistration(&r.registrations[i], filter) {
			kept = append(kept, r.registrations[i])
		}
	}
	r.registrations = kept
	return nil
}

// fakeScope records the commit and close discipline of one unit of work.
type fakeScope struct {
	committed  bool
	rolledBack bool
	closed     bool
	commitErr  error
}

func (s *fakeScope) Commit(context.Context) error {
	if s.commitErr != nil {
		return s.commitErr
	}
	s.committed = true
	return nil
}

func (s *fakeScope) Rollback(context.Context) error {
	s.rolledBack = true
	return nil
}

func (s *fakeScope) Close(context.Context) {
	if !s.committed && !s.rolledBack {
		s.rolledBack = true
	}
	s.closed = true
}

type fakeUsersUOW struct {
	fakeScope
	users *fakeUserRepo
}

func (u *fakeUsersUOW) Users() storage.Repository[domain.User] { return u.users }

type fakeEventsUOW struct {
	fakeScope
	events        *fakeEventRepo
	registrations *fakeRegistrationRepo
}

func (u *fakeEventsUOW) Events() storage.Repository[domain.Event] { return u.events }

func (u *fakeEventsUOW) Registrations() storage.Repository[domain.EventRegistration] {
	return u.registrations
}

// fakeStore shares one set of repos across every scope it opens, and keeps
// the scopes so tests can assert commit and close behavior afterwards.
type fakeStore struct {
	users         *fakeUserRepo
	events        *fakeEventRepo
	registrations *fakeRegistrationRepo

	userScopes  []*fakeUsersUOW
	eventScopes []*fakeEventsUOW
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         &fakeUserRepo{},
		events:        &fakeEventRepo{},
		registrations: &fakeRegistrationRepo{},
	}
}

func (s *fakeStore) BeginUsers(context.Context) (storage.UsersUnitOfWork, error) {
	uow := &fakeUsersUOW{users: s.users}
	s.userScopes = append(s.userScopes, uow)
	return uow, nil
}

func (s *fakeStore) BeginEvents(context.Context) (storage.EventsUnitOfWork, error) {
	uow := &fakeEventsUOW{events: s.events, registrations: s.registrations}
	s.eventScopes = append(s.eventScopes, uow)
	return uow, nil
}

func (s *fakeStore) seedUser(email string, phone *string) domain.User {
	u := domain.User{
		ID:           uuid.New(),
		Username:     "seeded",
		Email:        email,
		Phone:        phone,
		PasswordHash: "$argon2id$fake",
		Role:         domain.RoleUser,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	s.users.users = append(s.users.users, u)
	return u
}

func (s *fakeStore) seedEvent(title string, authorID uuid.UUID) domain.Event {
	s.events.nextID++
	e := domain.Event{
		ID:        s.events.nextID,
		Title:     title,
		EventDate: time.Now().Add(24 * time.Hour),
		Location:  "Kyiv",
		Organizer: "Gophers UA",
		AuthorID:  authorID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.events.events = append(s.events.events, e)
	return e
}

func (s *fakeStore) seedRegistration(userID uuid.UUID, eventID int64) domain.EventRegistration {
	s.registrations.nextID++
	reg := domain.EventRegistration{
		ID:        s.registrations.nextID,
		UserID:    userID,
		EventID:   eventID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.registrations.registrations = append(s.registrations.registrations, reg)
	return reg
}
