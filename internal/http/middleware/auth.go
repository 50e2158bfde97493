package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gatherly/events-api/internal/domain"
	"github.com/gatherly/events-api/internal/http/response"
	"github.com/gatherly/events-api/internal/service"
	"github.com/gatherly/events-api/pkg/logger"
)

type ctxKey string

const ctxUser ctxKey = "current_user"

// Auth resolves bearer tokens to users before handlers run.
type Auth struct {
	security service.SecurityService
}

func NewAuth(security service.SecurityService) *Auth {
	return &Auth{security: security}
}

// RequireUser rejects requests without a valid access token and puts the
// resolved user on the request context.
func (a *Auth) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			response.Unauthorized(w, "missing or invalid authorization header")
			return
		}

		user, err := a.security.CurrentUser(r.Context(), strings.TrimPrefix(authz, "Bearer "))
		if err != nil {
			response.DomainError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), ctxUser, user)
		ctx = context.WithValue(ctx, logger.UserIDKey, user.ID.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a subtree on a role. Admins pass every gate.
func (a *Auth) RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return a.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := CurrentUser(r)
			if user == nil || (user.Role != role && user.Role != domain.RoleAdmin) {
				response.Forbidden(w, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// CurrentUser returns the user resolved by RequireUser, or nil.
func CurrentUser(r *http.Request) *domain.User {
	user, _ := r.Context().Value(ctxUser).(*domain.User)
	return user
}
