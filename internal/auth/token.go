package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrMissingCredential means no token was supplied at all.
	ErrMissingCredential = errors.New("missing credential")
	// ErrInvalidCredential means a token was supplied but failed verification.
	ErrInvalidCredential = errors.New("invalid credential")
)

// Identity is the verified subject attached to authenticated requests. The
// rest of the system never sees password material, only this.
type Identity struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

type claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager mints and verifies the bearer tokens used by the API.
// Tokens are HS256-signed with a process-wide secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	clock  func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		clock:  time.Now,
	}
}

// Sign issues a token carrying id, valid for the configured TTL.
func (m *TokenManager) Sign(id Identity) (string, error) {
	now := m.clock()
	c := claims{
		Username: id.Username,
		Email:    id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a bearer token and returns the identity it
// carries. Any failure (signature, expiry, malformed subject) collapses to
// ErrInvalidCredential.
func (m *TokenManager) Verify(token string) (Identity, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return m.clock() }))
	if err != nil || !parsed.Valid {
		return Identity{}, ErrInvalidCredential
	}

	uid, err := uuid.Parse(c.Subject)
	if err != nil {
		return Identity{}, ErrInvalidCredential
	}
	return Identity{ID: uid, Username: c.Username, Email: c.Email}, nil
}
