package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/minhle/user-admin-api/internal/domain"
)

type AccountRepository interface {
	// CreateWithUser persists an account and its linked user atomically.
	CreateWithUser(ctx context.Context, account *domain.Account, user *domain.User) error
	// GetByLogin matches the identifier against username or email and
	// preloads the linked user.
	GetByLogin(ctx context.Context, login string) (*domain.Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	// GetByID preloads the linked account.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// List returns a page of users newest-first, optionally filtered by a
	// case-insensitive search over name, username, and email.
	List(ctx context.Context, q string, limit, offset int) ([]*domain.User, int64, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Repositories struct {
	Account AccountRepository
	User    UserRepository
}
