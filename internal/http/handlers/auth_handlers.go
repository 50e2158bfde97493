package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/gatherly/events-api/internal/domain"
	"github.com/gatherly/events-api/internal/http/response"
	"github.com/gatherly/events-api/pkg/logger"
)

// Signup handles user registration
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		response.DomainError(w, r, err)
		return
	}

	// The service stores hashes only; the plaintext stops here.
	hash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to hash password", "error", err)
		response.WriteError(w, http.StatusInternalServerError, "internal server error", response.CodeInternalError)
		return
	}

	user, err := h.auth.CreateUser(r.Context(), &req, hash)
	if err != nil {
		response.DomainError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, user.ToResponse())
}

// Login exchanges credentials for a bearer token
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		response.DomainError(w, r, err)
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.DomainError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, token)
}

// Logout clears the access-token cookie and sends the client back to the
// login page.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/auth/login", http.StatusFound)
}
