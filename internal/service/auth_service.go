package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minhle/user-admin-api/internal/config"
	"github.com/minhle/user-admin-api/internal/domain"
	"github.com/minhle/user-admin-api/internal/password"
	"github.com/minhle/user-admin-api/internal/repository"
	"github.com/minhle/user-admin-api/internal/session"
	"github.com/minhle/user-admin-api/internal/token"
)

// AuthService orchestrates login, refresh rotation, and logout on top of the
// credential hasher, the token issuer, and the session store.
type AuthService struct {
	accounts repository.AccountRepository
	users    repository.UserRepository
	sessions *session.Store
	tokens   *token.Issuer
	cfg      *config.Config
}

func NewAuthService(
	accounts repository.AccountRepository,
	users repository.UserRepository,
	sessions *session.Store,
	tokens *token.Issuer,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		accounts: accounts,
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		cfg:      cfg,
	}
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	Name      string
	Role      domain.Role
	AvatarURL string
}

type LoginInput struct {
	Login    string
	Password string
}

type AuthResult struct {
	User      *domain.User
	SessionID uuid.UUID
	Tokens    *token.Pair
}

// Register creates an account with its linked user. It does not create a
// session; callers log in separately.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.Account, error) {
	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	for _, identifier := range []string{input.Username, input.Email} {
		existing, err := s.accounts.GetByLogin(ctx, identifier)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrAccountExists
		}
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashed,
		Provider:     domain.ProviderLocal,
	}
	user := &domain.User{
		ID:        uuid.New(),
		Name:      input.Name,
		Role:      role,
		AvatarURL: input.AvatarURL,
	}

	if err := s.accounts.CreateWithUser(ctx, account, user); err != nil {
		return nil, err
	}

	account.User = user
	return account, nil
}

// Login verifies credentials and establishes a new session. The token pair is
// returned only after the session record write is acknowledged, so a token
// never exists without a backing session.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	account, err := s.accounts.GetByLogin(ctx, input.Login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	if account.User == nil {
		return nil, domain.ErrAccountNotFound
	}

	if !password.Verify(input.Password, account.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	sessionID := uuid.New()
	pair, err := s.tokens.IssuePair(account.User.ID, account.ID, account.User.Role, sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.writeSession(ctx, sessionID, account.User.ID, account.ID, account.User.Role, pair.RefreshToken); err != nil {
		return nil, err
	}

	return &AuthResult{
		User:      account.User,
		SessionID: sessionID,
		Tokens:    pair,
	}, nil
}

// Refresh rotates the session's token pair. The presented refresh token must
// hash-match the currently stored record; on success the record is fully
// replaced under the same sid and the previous refresh token becomes unusable.
// A failed refresh leaves the existing record untouched.
func (s *AuthService) Refresh(ctx context.Context, claims *token.Claims, presentedRefreshToken string) (*token.Pair, error) {
	sid, err := claims.Session()
	if err != nil {
		return nil, domain.ErrSessionInvalid
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, domain.ErrSessionInvalid
	}

	rec, err := s.sessions.Get(ctx, sid)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.UserID != userID {
		return nil, domain.ErrSessionInvalid
	}

	if !password.VerifyToken(presentedRefreshToken, rec.RefreshTokenHash) {
		return nil, fmt.Errorf("%w: refresh token mismatch", domain.ErrSessionInvalid)
	}

	pair, err := s.tokens.IssuePair(rec.UserID, rec.AccountID, rec.Role, sid)
	if err != nil {
		return nil, err
	}

	if err := s.writeSession(ctx, sid, rec.UserID, rec.AccountID, rec.Role, pair.RefreshToken); err != nil {
		return nil, err
	}

	return pair, nil
}

// Logout deletes the session record. Deleting an already-absent session is
// not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	return s.sessions.Delete(ctx, sessionID)
}

// Me returns the user with its linked account.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) writeSession(ctx context.Context, sid, userID, accountID uuid.UUID, role domain.Role, refreshToken string) error {
	hash, err := password.HashToken(refreshToken)
	if err != nil {
		return err
	}

	return s.sessions.Create(ctx, sid, &session.Record{
		UserID:           userID,
		AccountID:        accountID,
		Role:             role,
		RefreshTokenHash: hash,
	}, s.cfg.SessionTTL)
}
