package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of roles a user can hold.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleUser     Role = "USER"
	RoleCustomer Role = "CUSTOMER"
)

// Roles lists every defined role.
var Roles = []Role{RoleAdmin, RoleUser, RoleCustomer}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleCustomer:
		return true
	}
	return false
}

// Provider identifies how an account authenticates.
type Provider string

const (
	ProviderLocal  Provider = "LOCAL"
	ProviderGoogle Provider = "GOOGLE"
)

// Account is the authentication identity. The password hash never leaves the server.
type Account struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Provider     Provider  `json:"provider" gorm:"not null;default:'LOCAL'"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	User *User `json:"user,omitempty" gorm:"foreignKey:AccountID"`
}

// User is the profile bound 1:1 to an Account.
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"not null"`
	AccountID uuid.UUID `json:"accountId" gorm:"type:uuid;uniqueIndex;not null"`
	Role      Role      `json:"role" gorm:"not null;default:'USER'"`
	AvatarURL string    `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Account *Account `json:"account,omitempty" gorm:"foreignKey:AccountID"`
}
