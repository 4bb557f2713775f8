// Package token issues and verifies the signed access/refresh token pairs that
// carry a session's claims. Access and refresh tokens are signed with
// independent secrets so that one leaked key cannot forge the other kind.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/minhle/user-admin-api/internal/domain"
)

// Type distinguishes the two token kinds. Verification rejects a token whose
// declared type does not match the caller's expectation.
type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

// Claims is the payload carried by both token kinds. Subject holds the user id.
type Claims struct {
	AccountID string      `json:"accountId"`
	Role      domain.Role `json:"role"`
	SessionID string      `json:"sid"`
	TokenType Type        `json:"tokenType"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// Session parses the sid claim.
func (c *Claims) Session() (uuid.UUID, error) {
	return uuid.Parse(c.SessionID)
}

// Pair is one access token and one refresh token sharing the same sid.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	expiry        time.Duration
}

func NewIssuer(accessSecret, refreshSecret string, expiry time.Duration) *Issuer {
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		expiry:        expiry,
	}
}

// IssuePair signs a new access/refresh pair carrying the given identity and
// session id. Both tokens share the same expiry window.
func (i *Issuer) IssuePair(userID, accountID uuid.UUID, role domain.Role, sessionID uuid.UUID) (*Pair, error) {
	now := time.Now()

	accessToken, err := i.sign(userID, accountID, role, sessionID, TypeAccess, now)
	if err != nil {
		return nil, err
	}

	refreshToken, err := i.sign(userID, accountID, role, sessionID, TypeRefresh, now)
	if err != nil {
		return nil, err
	}

	return &Pair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (i *Issuer) sign(userID, accountID uuid.UUID, role domain.Role, sessionID uuid.UUID, tokenType Type, now time.Time) (string, error) {
	claims := &Claims{
		AccountID: accountID.String(),
		Role:      role,
		SessionID: sessionID.String(),
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			// The jti makes every minted token distinct, even two signed within
			// the same second for the same session.
			ID:        uuid.New().String(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.expiry)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secretFor(tokenType))
}

// Verify parses and validates a token, requiring the declared tokenType to
// match want. Every failure mode collapses to domain.ErrInvalidToken.
func (i *Issuer) Verify(tokenString string, want Type) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.secretFor(want), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	if claims.TokenType != want {
		return nil, fmt.Errorf("%w: token type %q where %q required", domain.ErrInvalidToken, claims.TokenType, want)
	}

	return claims, nil
}

func (i *Issuer) secretFor(tokenType Type) []byte {
	if tokenType == TypeRefresh {
		return i.refreshSecret
	}
	return i.accessSecret
}
