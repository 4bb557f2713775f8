package service

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minhle/user-admin-api/internal/domain"
	"github.com/minhle/user-admin-api/internal/repository"
)

// UserService is the admin-facing user CRUD. Authorization happens in the
// guard chain before any of these methods run.
type UserService struct {
	users    repository.UserRepository
	accounts repository.AccountRepository
}

func NewUserService(users repository.UserRepository, accounts repository.AccountRepository) *UserService {
	return &UserService{users: users, accounts: accounts}
}

type CreateUserInput struct {
	AccountID uuid.UUID
	Name      string
	Role      domain.Role
	AvatarURL string
}

type UpdateUserInput struct {
	Name      *string
	Role      *domain.Role
	AvatarURL *string
}

type ListUsersInput struct {
	Page  int
	Limit int
	Q     string
}

type UserPage struct {
	Items      []*domain.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if !input.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	if _, err := s.accounts.GetByID(ctx, input.AccountID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	user := &domain.User{
		ID:        uuid.New(),
		Name:      input.Name,
		AccountID: input.AccountID,
		Role:      input.Role,
		AvatarURL: input.AvatarURL,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.Get(ctx, user.ID)
}

func (s *UserService) List(ctx context.Context, input ListUsersInput) (*UserPage, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	items, total, err := s.users.List(ctx, input.Q, limit, offset)
	if err != nil {
		return nil, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	if totalPages < 1 {
		totalPages = 1
	}

	return &UserPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, domain.ErrInvalidRole
		}
		user.Role = *input.Role
	}
	if input.AvatarURL != nil {
		user.AvatarURL = *input.AvatarURL
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}
