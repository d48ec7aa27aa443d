package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/diwarasiga/moviehub/internal/auth"
	"github.com/diwarasiga/moviehub/internal/user/models"
	"github.com/diwarasiga/moviehub/internal/user/repository"
)

func newTestService() *Service {
	svc := New(repository.NewMemoryRepository(), auth.NewTokenManager("test-secret", time.Hour))
	svc.hashCost = bcrypt.MinCost
	return svc
}

func TestSignupThenLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	id, token, err := svc.Signup(ctx, "alice", "alice@example.com", "hunter22", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "alice", id.Username)
	assert.Equal(t, "alice@example.com", id.Email)

	loginID, loginToken, err := svc.Login(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, loginToken)
	assert.Equal(t, id, loginID)
}

func TestSignup_Validation(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name                               string
		username, email, password, confirm string
	}{
		{"missing username", "", "a@b.c", "secret1", "secret1"},
		{"missing email", "a", "", "secret1", "secret1"},
		{"missing password", "a", "a@b.c", "", ""},
		{"mismatched confirm", "a", "a@b.c", "secret1", "secret2"},
		{"too short", "a", "a@b.c", "12345", "12345"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService()
			_, _, err := svc.Signup(ctx, tc.username, tc.email, tc.password, tc.confirm)
			require.ErrorIs(t, err, models.ErrInvalidArgument)
		})
	}
}

func TestSignup_Duplicate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, _, err := svc.Signup(ctx, "bob", "bob@example.com", "secret1", "secret1")
	require.NoError(t, err)

	// Same email.
	_, _, err = svc.Signup(ctx, "robert", "bob@example.com", "secret1", "secret1")
	require.ErrorIs(t, err, models.ErrConflict)

	// Same username.
	_, _, err = svc.Signup(ctx, "bob", "bob2@example.com", "secret1", "secret1")
	require.ErrorIs(t, err, models.ErrConflict)
}

// A wrong password and an unknown email must fail identically so login never
// discloses whether the account exists.
func TestLogin_OpaqueFailures(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, _, err := svc.Signup(ctx, "carol", "carol@example.com", "secret1", "secret1")
	require.NoError(t, err)

	_, _, wrongPass := svc.Login(ctx, "carol@example.com", "wrong")
	require.ErrorIs(t, wrongPass, models.ErrInvalidCredentials)

	_, _, unknown := svc.Login(ctx, "nobody@example.com", "secret1")
	require.ErrorIs(t, unknown, models.ErrInvalidCredentials)

	assert.Equal(t, wrongPass.Error(), unknown.Error())
}

func TestSeed_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	require.NoError(t, svc.Seed(ctx, "admin", "admin@example.com", "bootstrap"))
	require.NoError(t, svc.Seed(ctx, "admin", "admin@example.com", "bootstrap"))

	_, _, err := svc.Login(ctx, "admin@example.com", "bootstrap")
	require.NoError(t, err)
}
