package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatherly/events-api/internal/domain"
	"github.com/gatherly/events-api/internal/storage"
	"github.com/google/uuid"
)

type UsersService interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req *domain.UpdateUserRequest) (*domain.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type usersService struct {
	store storage.Store
}

func NewUsersService(store storage.Store) UsersService {
	return &usersService{store: store}
}

func (s *usersService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	uow, err := s.store.BeginUsers(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Close(ctx)

	user, err := uow.Users().GetOne(ctx, storage.Filter{"user_id": id})
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *usersService) UpdateUser(ctx context.Context, id uuid.UUID, req *domain.UpdateUserRequest) (*domain.User, error) {
	uow, err := s.store.BeginUsers(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Close(ctx)

	user, err := uow.Users().GetOne(ctx, storage.Filter{"user_id": id})
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	fields := storage.Fields{}
	if req.Username != nil {
		fields["username"] = *req.Username
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if len(fields) == 0 {
		return user, nil
	}

	updated, err := uow.Users().UpdateOne(ctx, fields, storage.Filter{"user_id": id})
	if err != nil {
		if errors.Is(err, storage.ErrUniqueViolation) {
			return nil, domain.ErrPhoneExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *usersService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	uow, err := s.store.BeginUsers(ctx)
	if err != nil {
		return err
	}
	defer uow.Close(ctx)

	user, err := uow.Users().GetOne(ctx, storage.Filter{"user_id": id})
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return domain.ErrUserNotFound
	}

	// Authored events cascade away with the user; the user's own
	// registrations do not, and block the delete.
	if err := uow.Users().DeleteOne(ctx, storage.Filter{"user_id": user.ID}); err != nil {
		if errors.Is(err, storage.ErrForeignKeyViolation) {
			return domain.ErrUserHasRegistrations
		}
		return fmt.Errorf("delete user: %w", err)
	}

	return uow.Commit(ctx)
}
