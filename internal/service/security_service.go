package service

import (
	"context"
	"fmt"

	"github.com/gatherly/events-api/internal/domain"
	"github.com/gatherly/events-api/internal/storage"
	"github.com/gatherly/events-api/pkg/auth"
	"github.com/gatherly/events-api/pkg/config"
)

// SecurityService resolves bearer tokens to users and handles the
// longer-lived refresh and email-verification tokens.
type SecurityService interface {
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
	CreateRefreshToken(email string) (string, error)
	DecodeRefreshToken(token string) (string, error)
	CreateEmailToken(email string) (string, error)
	EmailFromToken(token string) (string, error)
	CheckTokenDate(token string) error
}

type securityService struct {
	store storage.Store
	cfg   *config.Config
}

func NewSecurityService(store storage.Store, cfg *config.Config) SecurityService {
	return &securityService{store: store, cfg: cfg}
}

// CurrentUser decodes and verifies an access token and resolves its
// subject email to the private user record.
func (s *securityService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	claims, err := auth.Parse(token, s.cfg.Auth.JWTSecret)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if claims.Scope != auth.ScopeAccess || claims.Subject == "" {
		return nil, domain.ErrInvalidCredentials
	}

	uow, err := s.store.BeginUsers(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Close(ctx)

	user, err := uow.Users().GetOne(ctx, storage.Filter{"email": claims.Subject})
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *securityService) CreateRefreshToken(email string) (string, error) {
	return auth.NewRefreshToken(email, s.cfg.Auth.JWTSecret, s.cfg.Auth.RefreshTokenTTL)
}

// DecodeRefreshToken returns the subject email; any decode failure or
// scope mismatch is unauthorized.
func (s *securityService) DecodeRefreshToken(token string) (string, error) {
	claims, err := auth.Parse(token, s.cfg.Auth.JWTSecret)
	if err != nil {
		return "", domain.ErrInvalidRefreshToken
	}
	if claims.Scope != auth.ScopeRefresh || claims.Subject == "" {
		return "", domain.ErrInvalidRefreshToken
	}
	return claims.Subject, nil
}

func (s *securityService) CreateEmailToken(email string) (string, error) {
	return auth.NewEmailToken(email, s.cfg.Auth.JWTSecret, s.cfg.Auth.EmailTokenTTL)
}

// EmailFromToken extracts the subject from a verification token without
// checking its dates; an undecodable token is unprocessable.
func (s *securityService) EmailFromToken(token string) (string, error) {
	claims, err := auth.ParseAllowExpired(token, s.cfg.Auth.JWTSecret)
	if err != nil {
		return "", domain.ErrMalformedToken
	}
	return claims.Subject, nil
}

// CheckTokenDate distinguishes an expired token from an undecodable one.
func (s *securityService) CheckTokenDate(token string) error {
	claims, err := auth.ParseAllowExpired(token, s.cfg.Auth.JWTSecret)
	if err != nil {
		return domain.ErrMalformedToken
	}
	if claims.IsExpired() {
		return domain.ErrTokenExpired
	}
	return nil
}
