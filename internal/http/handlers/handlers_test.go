package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gatherly/events-api/internal/domain"
	"github.com/gatherly/events-api/internal/http/handlers"
	mw "github.com/gatherly/events-api/internal/http/middleware"
)

// ---------- Mocks ----------

type mockAuthService struct {
	createUserFn func(ctx context.Context, req *domain.CreateUserRequest, hash string) (*domain.User, error)
	loginFn      func(ctx context.Context, email, password string) (*domain.TokenResponse, error)
}

func (m *mockAuthService) CreateUser(ctx context.Context, req *domain.CreateUserRequest, hash string) (*domain.User, error) {
	return m.createUserFn(ctx, req, hash)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*domain.TokenResponse, error) {
	return m.loginFn(ctx, email, password)
}

type mockUsersService struct {
	getFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	updateFn func(ctx context.Context, id uuid.UUID, req *domain.UpdateUserRequest) (*domain.User, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
}

func (m *mockUsersService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.getFn(ctx, id)
}

func (m *mockUsersService) UpdateUser(ctx context.Context, id uuid.UUID, req *domain.UpdateUserRequest) (*domain.User, error) {
	return m.updateFn(ctx, id, req)
}

func (m *mockUsersService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

type mockEventsService struct {
	getEventsFn          func(ctx context.Context) ([]domain.Event, error)
	getEventFn           func(ctx context.Context, id int64) (*domain.Event, error)
	createEventFn        func(ctx context.Context, req *domain.CreateEventRequest, authorID uuid.UUID) (*domain.Event, error)
	updateEventFn        func(ctx context.Context, id int64, authorID uuid.UUID, req *domain.UpdateEventRequest) (*domain.Event, error)
	deleteEventFn        func(ctx context.Context, id int64) error
	listRegistrationsFn  func(ctx context.Context, userID uuid.UUID) ([]domain.EventRegistration, error)
	createRegistrationFn func(ctx context.Context, req *domain.CreateRegistrationRequest, userID uuid.UUID) (*domain.EventRegistration, *domain.Event, error)
	deleteRegistrationFn func(ctx context.Context, registrationID int64, userID uuid.UUID) error
}

func (m *mockEventsService) GetEvents(ctx context.Context) ([]domain.Event, error) {
	return m.getEventsFn(ctx)
}

func (m *mockEventsService) GetEventByID(ctx context.Context, id int64) (*domain.Event, error) {
	return m.getEventFn(ctx, id)
}

func (m *mockEventsService) CreateEvent(ctx context.Context, req *domain.CreateEventRequest, authorID uuid.UUID) (*domain.Event, error) {
	return m.createEventFn(ctx, req, authorID)
}

func (m *mockEventsService) UpdateEvent(ctx context.Context, id int64, authorID uuid.UUID, req *domain.UpdateEventRequest) (*domain.Event, error) {
	return m.updateEventFn(ctx, id, authorID, req)
}

func (m *mockEventsService) DeleteEvent(ctx context.Context, id int64) error {
	return m.deleteEventFn(ctx, id)
}

func (m *mockEventsService) ListRegistrations(ctx context.Context, userID uuid.UUID) ([]domain.EventRegistration, error) {
	return m.listRegistrationsFn(ctx, userID)
}

func (m *mockEventsService) CreateRegistration(ctx context.Context, req *domain.CreateRegistrationRequest, userID uuid.UUID) (*domain.EventRegistration, *domain.Event, error) {
	return m.createRegistrationFn(ctx, req, userID)
}

func (m *mockEventsService) DeleteRegistration(ctx context.Context, registrationID int64, userID uuid.UUID) error {
	return m.deleteRegistrationFn(ctx, registrationID, userID)
}

// mockSecurityService resolves a fixed token to a fixed user.
type mockSecurityService struct {
	token string
	user  *domain.User
}

func (m *mockSecurityService) CurrentUser(_ context.Context, token string) (*domain.User, error) {
	if m.user != nil && token == m.token {
		return m.user, nil
	}
	return nil, domain.ErrInvalidCredentials
}

func (m *mockSecurityService) CreateRefreshToken(string) (string, error) { return "", nil }
func (m *mockSecurityService) DecodeRefreshToken(string) (string, error) { return "", nil }
func (m *mockSecurityService) CreateEmailToken(string) (string, error)   { return "", nil }
func (m *mockSecurityService) EmailFromToken(string) (string, error)     { return "", nil }
func (m *mockSecurityService) CheckTokenDate(string) error               { return nil }

type mockPublisher struct {
	subjects   []string
	payloads   []any
	publishErr error
}

func (m *mockPublisher) Publish(_ context.Context, subject string, payload any) error {
	m.subjects = append(m.subjects, subject)
	m.payloads = append(m.payloads, payload)
	return m.publishErr
}

func (m *mockPublisher) Close() error { return nil }

// ---------- Helpers ----------

type testEnv struct {
	auth     *mockAuthService
	users    *mockUsersService
	events   *mockEventsService
	security *mockSecurityService
	bus      *mockPublisher
	router   chi.Router
}

const testToken = "test-token"

func eventsUser(role domain.Role) *domain.User {
	return &domain.User{
		ID:           uuid.New(),
		Username:     "tester",
		Email:        "tester@example.com",
		PasswordHash: "hash",
		Role:         role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// newTestEnv wires the handlers behind the same routes main registers.
func newTestEnv(current *domain.User) *testEnv {
	env := &testEnv{
		auth:     &mockAuthService{},
		users:    &mockUsersService{},
		events:   &mockEventsService{},
		security: &mockSecurityService{token: testToken, user: current},
		bus:      &mockPublisher{},
	}

	h := handlers.New(env.auth, env.users, env.events, env.bus, "http://testhost")
	authMW := mw.NewAuth(env.security)

	r := chi.NewRouter()
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
		r.Get("/logout", h.Logout)
	})
	r.Route("/users", func(r chi.Router) {
		r.Use(authMW.RequireUser)
		r.Get("/me", h.Me)
		r.Patch("/me", h.UpdateMe)
		r.Delete("/{id}", h.DeleteUser)
	})
	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.ListEvents)
		r.Get("/{id}", h.GetEvent)
		r.Group(func(r chi.Router) {
			r.Use(authMW.RequireRole(domain.RoleOrganizer))
			r.Post("/", h.CreateEvent)
			r.Put("/{id}", h.UpdateEvent)
			r.Delete("/{id}", h.DeleteEvent)
		})
	})
	r.Route("/registrations", func(r chi.Router) {
		r.Use(authMW.RequireUser)
		r.Get("/", h.ListRegistrations)
		r.Post("/", h.CreateRegistration)
		r.Delete("/{id}", h.DeleteRegistration)
	})
	env.router = r
	return env
}

func (env *testEnv) do(t *testing.T, method, path string, body any, authed bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(into); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	decodeBody(t, rec, &body)
	return body.Code
}
