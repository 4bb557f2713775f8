package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/minhle/user-admin-api/internal/domain"
	"github.com/minhle/user-admin-api/internal/repository/postgres"
	"github.com/minhle/user-admin-api/internal/testutil"
)

func TestAccountRepository_CreateWithUser(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewAccountRepository(testDB.DB)
	ctx := context.Background()

	account := &domain.Account{
		ID:           uuid.New(),
		Username:     "createuser",
		Email:        "createuser@example.com",
		PasswordHash: "hash",
		Provider:     domain.ProviderLocal,
	}
	user := &domain.User{
		ID:   uuid.New(),
		Name: "Create User",
		Role: domain.RoleUser,
	}

	require.NoError(t, repo.CreateWithUser(ctx, account, user))
	assert.Equal(t, account.ID, user.AccountID)

	loaded, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.User)
	assert.Equal(t, user.ID, loaded.User.ID)
}

func TestAccountRepository_CreateWithUser_RollsBackOnFailure(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewAccountRepository(testDB.DB)
	ctx := context.Background()

	// Reusing a user id makes the second insert of the transaction fail, which
	// must undo the account insert too
	existing, _ := testutil.NewAccountBuilder().Build(t, testDB.DB)

	account := &domain.Account{
		ID:           uuid.New(),
		Username:     "rollbackuser",
		Email:        "rollbackuser@example.com",
		PasswordHash: "hash",
		Provider:     domain.ProviderLocal,
	}
	err := repo.CreateWithUser(ctx, account, &domain.User{
		ID:   existing.User.ID,
		Name: "Rollback User",
		Role: domain.RoleUser,
	})
	require.Error(t, err)

	_, err = repo.GetByID(ctx, account.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAccountRepository_GetByLogin(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewAccountRepository(testDB.DB)
	ctx := context.Background()

	account, _ := testutil.NewAccountBuilder().
		WithUsername("findme").
		WithEmail("findme@example.com").
		Build(t, testDB.DB)

	t.Run("by username", func(t *testing.T) {
		found, err := repo.GetByLogin(ctx, "findme")
		require.NoError(t, err)
		assert.Equal(t, account.ID, found.ID)
		require.NotNil(t, found.User, "linked user must be preloaded")
	})

	t.Run("by email", func(t *testing.T) {
		found, err := repo.GetByLogin(ctx, "findme@example.com")
		require.NoError(t, err)
		assert.Equal(t, account.ID, found.ID)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.GetByLogin(ctx, "nobody")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestAccountRepository_UniqueConstraints(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := postgres.NewAccountRepository(testDB.DB)

	testutil.NewAccountBuilder().
		WithUsername("taken").
		WithEmail("taken@example.com").
		Build(t, testDB.DB)

	tests := []struct {
		name     string
		username string
		email    string
	}{
		{name: "duplicate username", username: "taken", email: "fresh@example.com"},
		{name: "duplicate email", username: "fresh", email: "taken@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.CreateWithUser(ctx, &domain.Account{
				ID:           uuid.New(),
				Username:     tt.username,
				Email:        tt.email,
				PasswordHash: "hash",
				Provider:     domain.ProviderLocal,
			}, &domain.User{
				ID:   uuid.New(),
				Name: "Someone",
				Role: domain.RoleUser,
			})
			assert.Error(t, err)
		})
	}
}

func TestUserRepository_List(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	testutil.NewAccountBuilder().
		WithUsername("alpha").WithEmail("alpha@example.com").WithName("Alpha One").
		Build(t, testDB.DB)
	testutil.NewAccountBuilder().
		WithUsername("beta").WithEmail("beta@example.com").WithName("Beta Two").
		Build(t, testDB.DB)
	testutil.NewAccountBuilder().
		WithUsername("gamma").WithEmail("gamma@example.com").WithName("Gamma Three").
		Build(t, testDB.DB)

	t.Run("no filter", func(t *testing.T) {
		users, total, err := repo.List(ctx, "", 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, users, 3)
		require.NotNil(t, users[0].Account, "account must be joined in")
	})

	t.Run("filter matches name case-insensitively", func(t *testing.T) {
		users, total, err := repo.List(ctx, "beta two", 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, users, 1)
		assert.Equal(t, "Beta Two", users[0].Name)
	})

	t.Run("filter matches email", func(t *testing.T) {
		users, _, err := repo.List(ctx, "gamma@", 10, 0)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "Gamma Three", users[0].Name)
	})

	t.Run("offset past the end", func(t *testing.T) {
		users, total, err := repo.List(ctx, "", 10, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Empty(t, users)
	})
}
