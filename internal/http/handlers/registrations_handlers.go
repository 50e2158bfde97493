package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gatherly/events-api/internal/domain"
	mw "github.com/gatherly/events-api/internal/http/middleware"
	"github.com/gatherly/events-api/internal/http/response"
	"github.com/gatherly/events-api/pkg/events"
	"github.com/gatherly/events-api/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// ListRegistrations returns the caller's registrations
func (h *Handlers) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	current := mw.CurrentUser(r)

	registrations, err := h.events.ListRegistrations(r.Context(), current.ID)
	if err != nil {
		response.DomainError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, registrations)
}

// CreateRegistration registers the caller for an event and hands the
// confirmation email off to the bus
func (h *Handlers) CreateRegistration(w http.ResponseWriter, r *http.Request) {
	current := mw.CurrentUser(r)

	var req domain.CreateRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		response.DomainError(w, r, err)
		return
	}

	registration, event, err := h.events.CreateRegistration(r.Context(), &req, current.ID)
	if err != nil {
		response.DomainError(w, r, err)
		return
	}

	// The registration is committed; a publish failure only costs the
	// confirmation email.
	if err := h.bus.Publish(r.Context(), events.RegistrationCreated, events.RegistrationCreatedEvent{
		RegistrationID: registration.ID,
		UserEmail:      current.Email,
		EventTitle:     event.Title,
		EventDate:      event.EventDate,
		Host:           h.baseURL,
		CreatedAt:      time.Now(),
	}); err != nil {
		logger.ErrorContext(r.Context(), "failed to publish registration event",
			"error", err, "registration_id", registration.ID)
	}

	response.WriteJSON(w, http.StatusCreated, domain.RegistrationResponse{
		ID:      registration.ID,
		UserID:  registration.UserID,
		EventID: registration.EventID,
	})
}

// DeleteRegistration unregisters the caller
func (h *Handlers) DeleteRegistration(w http.ResponseWriter, r *http.Request) {
	current := mw.CurrentUser(r)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid registration id")
		return
	}

	if err := h.events.DeleteRegistration(r.Context(), id, current.ID); err != nil {
		response.DomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
