package domain

import "errors"

// Authentication and authorization errors. This is a closed set: every failure
// the auth core can produce is one of these sentinels, matched with errors.Is.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account or user not found")
	ErrAccountExists      = errors.New("username or email already in use")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSessionInvalid     = errors.New("session invalid")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrStoreUnavailable   = errors.New("session store unavailable")
)

// Validation errors
var (
	ErrInvalidRole = errors.New("invalid role")
)
