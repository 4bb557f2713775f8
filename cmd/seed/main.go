// Command seed bootstraps the default ADMIN account so a fresh deployment has
// a way in. It is idempotent: an existing ADMIN user short-circuits, and an
// existing matching account is promoted instead of duplicated.
package main

import (
	"errors"
	"log"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minhle/user-admin-api/internal/domain"
	"github.com/minhle/user-admin-api/internal/password"
	"github.com/minhle/user-admin-api/internal/repository/postgres"
)

func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := postgres.NewConnection(databaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := ensureDefaultAdmin(db); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func ensureDefaultAdmin(db *gorm.DB) error {
	var existingAdmin domain.User
	err := db.First(&existingAdmin, "role = ?", domain.RoleAdmin).Error
	if err == nil {
		log.Println("ADMIN user already exists, skip default admin bootstrap")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	username := getEnv("DEFAULT_ADMIN_USERNAME", "admin")
	email := getEnv("DEFAULT_ADMIN_EMAIL", "admin@local.dev")
	adminPassword := getEnv("DEFAULT_ADMIN_PASSWORD", "Admin@123456")
	name := getEnv("DEFAULT_ADMIN_NAME", "System Administrator")

	var account domain.Account
	err = db.Preload("User").
		Where("username = ? OR email = ?", username, email).
		First(&account).Error
	if err == nil {
		if account.User != nil {
			account.User.Role = domain.RoleAdmin
			if err := db.Save(account.User).Error; err != nil {
				return err
			}
			log.Println("Promoted existing user to ADMIN as default admin")
			return nil
		}

		user := &domain.User{
			ID:        uuid.New(),
			Name:      name,
			AccountID: account.ID,
			Role:      domain.RoleAdmin,
		}
		if err := db.Create(user).Error; err != nil {
			return err
		}
		log.Println("Created default admin user for existing account")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := password.Hash(adminPassword)
	if err != nil {
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		account := &domain.Account{
			ID:           uuid.New(),
			Username:     username,
			Email:        email,
			PasswordHash: hashed,
			Provider:     domain.ProviderLocal,
		}
		if err := tx.Create(account).Error; err != nil {
			return err
		}

		return tx.Create(&domain.User{
			ID:        uuid.New(),
			Name:      name,
			AccountID: account.ID,
			Role:      domain.RoleAdmin,
		}).Error
	})
	if err != nil {
		return err
	}

	log.Printf("Created default admin account: %s", email)
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
