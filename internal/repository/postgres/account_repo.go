package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minhle/user-admin-api/internal/domain"
)

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *accountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) CreateWithUser(ctx context.Context, account *domain.Account, user *domain.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return err
		}
		user.AccountID = account.ID
		return tx.Create(user).Error
	})
}

func (r *accountRepository) GetByLogin(ctx context.Context, login string) (*domain.Account, error) {
	var account domain.Account
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("username = ? OR email = ?", login, login).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	var account domain.Account
	err := r.db.WithContext(ctx).Preload("User").First(&account, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}
