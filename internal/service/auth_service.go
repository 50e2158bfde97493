package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"github.com/gatherly/events-api/internal/domain"
	"github.com/gatherly/events-api/internal/storage"
	"github.com/gatherly/events-api/pkg/auth"
	"github.com/gatherly/events-api/pkg/config"
)

// AuthService signs users up and exchanges credentials for bearer tokens.
// Password hashing happens upstream in the handler; CreateUser receives
// the finished hash.
type AuthService interface {
	CreateUser(ctx context.Context, req *domain.CreateUserRequest, passwordHash string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.TokenResponse, error)
}

type authService struct {
	store storage.Store
	cfg   *config.Config
}

func NewAuthService(store storage.Store, cfg *config.Config) AuthService {
	return &authService{store: store, cfg: cfg}
}

func (s *authService) CreateUser(ctx context.Context, req *domain.CreateUserRequest, passwordHash string) (*domain.User, error) {
	uow, err := s.store.BeginUsers(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Close(ctx)

	// Email uniqueness is checked before phone uniqueness.
	existing, err := uow.Users().GetOne(ctx, storage.Filter{"email": req.Email})
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailExists
	}

	if req.Phone != nil {
		existing, err = uow.Users().GetOne(ctx, storage.Filter{"phone": *req.Phone})
		if err != nil {
			return nil, fmt.Errorf("check phone: %w", err)
		}
		if existing != nil {
			return nil, domain.ErrPhoneExists
		}
	}

	fields := storage.Fields{
		"username":      req.Username,
		"email":         req.Email,
		"password_hash": passwordHash,
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}

	user, err := uow.Users().AddOne(ctx, fields)
	if err != nil {
		// A concurrent signup can still trip the constraint between the
		// check and the insert.
		if errors.Is(err, storage.ErrUniqueViolation) {
			if strings.Contains(err.Error(), "phone") {
				return nil, domain.ErrPhoneExists
			}
			return nil, domain.ErrEmailExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.TokenResponse, error) {
	uow, err := s.store.BeginUsers(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Close(ctx)

	user, err := uow.Users().GetOne(ctx, storage.Filter{"email": email})
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserUnauthorized
	}

	valid, err := argon2id.ComparePasswordAndHash(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domain.ErrInvalidPassword
	}

	token, err := auth.NewAccessToken(user.Email, s.cfg.Auth.JWTSecret, s.cfg.Auth.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	return &domain.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}
