package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gatherly/events-api/internal/domain"
	mw "github.com/gatherly/events-api/internal/http/middleware"
	"github.com/gatherly/events-api/internal/http/response"
	"github.com/go-chi/chi/v5"
)

// ListEvents returns all events; public
func (h *Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.GetEvents(r.Context())
	if err != nil {
		response.DomainError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, events)
}

// GetEvent returns one event by id; public
func (h *Handlers) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid event id")
		return
	}

	event, err := h.events.GetEventByID(r.Context(), id)
	if err != nil {
		response.DomainError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, event)
}

// CreateEvent inserts an event authored by the caller; organizer role is
// enforced on the route
func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	current := mw.CurrentUser(r)

	var req domain.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		response.DomainError(w, r, err)
		return
	}

	event, err := h.events.CreateEvent(r.Context(), &req, current.ID)
	if err != nil {
		response.DomainError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, event)
}

// UpdateEvent overwrites an event's fields, stamping the caller as author
func (h *Handlers) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	current := mw.CurrentUser(r)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid event id")
		return
	}

	var req domain.UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		response.DomainError(w, r, err)
		return
	}

	event, err := h.events.UpdateEvent(r.Context(), id, current.ID, &req)
	if err != nil {
		response.DomainError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, event)
}

// DeleteEvent removes an event and, by cascade, its registrations
func (h *Handlers) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid event id")
		return
	}

	if err := h.events.DeleteEvent(r.Context(), id); err != nil {
		response.DomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
