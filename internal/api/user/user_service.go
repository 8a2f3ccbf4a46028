package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JoaquinArno/api-star-wars/internal/types"
)

var _ UserService = (*UserServiceImpl)(nil)

// UserService exposes identity management on top of the repository.
type UserService interface {
	CreateUser(ctx context.Context, email, role string) (*types.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*types.User, error)
	GetUsers(ctx context.Context) ([]types.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, params UpdateUserParams) (*types.User, error)
}

type UserServiceImpl struct {
	logger *slog.Logger
	repo   UserRepo
}

func NewUserService(repo UserRepo, logger *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// CreateUser implements user.UserService. The created identity carries no
// credential; signup is the only flow that creates both.
func (s *UserServiceImpl) CreateUser(ctx context.Context, email, role string) (*types.User, error) {
	l := s.logger.With(slog.String("method", "CreateUser"), slog.String("email", email))

	if role == "" {
		role = types.RoleUser
	}

	user, err := s.repo.CreateUser(ctx, email, role)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	l.InfoContext(ctx, "User created", slog.String("userID", user.ID.String()))
	return user, nil
}

// GetUser implements user.UserService.
func (s *UserServiceImpl) GetUser(ctx context.Context, id uuid.UUID) (*types.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// GetUsers implements user.UserService.
func (s *UserServiceImpl) GetUsers(ctx context.Context) ([]types.User, error) {
	return s.repo.GetUsers(ctx)
}

// UpdateUser implements user.UserService. Email uniqueness is re-checked by
// the storage constraint on every mutation.
func (s *UserServiceImpl) UpdateUser(ctx context.Context, id uuid.UUID, params UpdateUserParams) (*types.User, error) {
	l := s.logger.With(slog.String("method", "UpdateUser"), slog.String("userID", id.String()))

	user, err := s.repo.UpdateUser(ctx, id, params)
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}

	l.InfoContext(ctx, "User updated")
	return user, nil
}
