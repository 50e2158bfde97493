package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gatherly/events-api/internal/domain"
	mw "github.com/gatherly/events-api/internal/http/middleware"
	"github.com/gatherly/events-api/internal/http/response"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Me returns the authenticated user's profile
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	current := mw.CurrentUser(r)

	user, err := h.users.GetUserByID(r.Context(), current.ID)
	if err != nil {
		response.DomainError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, user.ToResponse())
}

// UpdateMe applies a partial profile update
func (h *Handlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	current := mw.CurrentUser(r)

	var req domain.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		response.DomainError(w, r, err)
		return
	}

	user, err := h.users.UpdateUser(r.Context(), current.ID, &req)
	if err != nil {
		response.DomainError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, user.ToResponse())
}

// DeleteUser removes an account; authored events cascade away with it
func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid user id")
		return
	}

	if err := h.users.DeleteUser(r.Context(), id); err != nil {
		response.DomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
