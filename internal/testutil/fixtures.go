package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/minhle/user-admin-api/internal/domain"
)

// AccountBuilder creates test accounts with a builder pattern
type AccountBuilder struct {
	username string
	email    string
	password string
	name     string
	role     domain.Role
}

// NewAccountBuilder creates a new AccountBuilder with default values
func NewAccountBuilder() *AccountBuilder {
	suffix := uuid.New().String()[:8]
	return &AccountBuilder{
		username: fmt.Sprintf("testuser_%s", suffix),
		email:    fmt.Sprintf("testuser_%s@example.com", suffix),
		password: "testpassword123",
		name:     "Test User",
		role:     domain.RoleUser,
	}
}

// WithUsername sets the username
func (b *AccountBuilder) WithUsername(username string) *AccountBuilder {
	b.username = username
	return b
}

// WithEmail sets the email
func (b *AccountBuilder) WithEmail(email string) *AccountBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *AccountBuilder) WithPassword(password string) *AccountBuilder {
	b.password = password
	return b
}

// WithName sets the profile name
func (b *AccountBuilder) WithName(name string) *AccountBuilder {
	b.name = name
	return b
}

// WithRole sets the role
func (b *AccountBuilder) WithRole(role domain.Role) *AccountBuilder {
	b.role = role
	return b
}

// Build creates the account and its user in the database and returns them
// along with the raw password
func (b *AccountBuilder) Build(t *testing.T, db *gorm.DB) (*domain.Account, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	account := &domain.Account{
		ID:           uuid.New(),
		Username:     b.username,
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		Provider:     domain.ProviderLocal,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create account: %v", err)
	}

	user := &domain.User{
		ID:        uuid.New(),
		Name:      b.name,
		AccountID: account.ID,
		Role:      b.role,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	account.User = user

	return account, b.password
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	Message string `json:"message"`
	User    struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Role string `json:"role"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// BuildAndLogin creates the account in the database, logs in through the API
// and returns the account together with the auth response
func (b *AccountBuilder) BuildAndLogin(t *testing.T, ts *TestServer) (*domain.Account, *AuthResponse) {
	t.Helper()

	account, rawPassword := b.Build(t, ts.DB.DB)

	authResp := Login(t, ts, b.username, rawPassword)
	return account, authResp
}

// Login authenticates through the API and returns the decoded auth response
func Login(t *testing.T, ts *TestServer, login, password string) *AuthResponse {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"login":    login,
		"password": password,
	})

	resp, err := http.Post(ts.APIURL("/auth/login"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to log in: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}

	return &authResp
}

// AuthorizedRequest builds a request with a bearer access token attached
func AuthorizedRequest(t *testing.T, method, url, accessToken string, body interface{}) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	return req
}
