package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gccheapcars/rental-api/internal/apperror"
	"github.com/gccheapcars/rental-api/internal/model"
	"github.com/gccheapcars/rental-api/internal/repository"
)

// UserService handles admin-side account management.
type UserService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(users repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// List returns all registered users. Password hashes never serialize
// (the model tags them json:"-") so returning the full records is safe.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

// UpdateRole promotes or demotes a user. An admin demoting themselves is
// allowed — the UI warns, the API obeys.
func (s *UserService) UpdateRole(ctx context.Context, id int64, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, apperror.ValidationFailed("role",
			fmt.Sprintf("%q is not a valid role", role))
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.Role == role {
		return user, nil
	}

	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		return nil, fmt.Errorf("updating user role: %w", err)
	}

	s.logger.Info("user role changed",
		slog.Int64("userId", id),
		slog.String("from", string(user.Role)),
		slog.String("to", string(role)),
	)

	user.Role = role
	return user, nil
}
