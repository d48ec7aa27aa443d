package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/diwarasiga/moviehub/internal/auth"
	"github.com/diwarasiga/moviehub/internal/user/models"
	"github.com/diwarasiga/moviehub/internal/user/repository"
)

const minPasswordLen = 6

type Service struct {
	repo     repository.UserRepository
	tokens   *auth.TokenManager
	clock    func() time.Time
	idGen    func() uuid.UUID
	hashCost int
}

func New(repo repository.UserRepository, tokens *auth.TokenManager) *Service {
	return &Service{
		repo:     repo,
		tokens:   tokens,
		clock:    time.Now,
		idGen:    uuid.New,
		hashCost: bcrypt.DefaultCost,
	}
}

// Signup validates the registration form, stores the account with a bcrypt
// hash and returns the new identity with a signed token.
func (s *Service) Signup(ctx context.Context, username, email, password, confirm string) (auth.Identity, string, error) {
	switch {
	case username == "" || email == "" || password == "" || confirm == "":
		return auth.Identity{}, "", fmt.Errorf("%w: all fields required", models.ErrInvalidArgument)
	case password != confirm:
		return auth.Identity{}, "", fmt.Errorf("%w: passwords do not match", models.ErrInvalidArgument)
	case len(password) < minPasswordLen:
		return auth.Identity{}, "", fmt.Errorf("%w: password must be at least %d characters", models.ErrInvalidArgument, minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return auth.Identity{}, "", fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		ID:           s.idGen(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.clock(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return auth.Identity{}, "", err
	}

	return s.identify(u)
}

// Login verifies email and password. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (auth.Identity, string, error) {
	if email == "" || password == "" {
		return auth.Identity{}, "", fmt.Errorf("%w: email and password required", models.ErrInvalidArgument)
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return auth.Identity{}, "", models.ErrInvalidCredentials
		}
		return auth.Identity{}, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return auth.Identity{}, "", models.ErrInvalidCredentials
	}

	return s.identify(u)
}

// Seed ensures a bootstrap account exists. An already-seeded account is not
// an error.
func (s *Service) Seed(ctx context.Context, username, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		ID:           s.idGen(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.clock(),
	}
	if err := s.repo.Create(ctx, u); err != nil && !errors.Is(err, models.ErrConflict) {
		return err
	}
	return nil
}

func (s *Service) identify(u *models.User) (auth.Identity, string, error) {
	id := auth.Identity{ID: u.ID, Username: u.Username, Email: u.Email}
	token, err := s.tokens.Sign(id)
	if err != nil {
		return auth.Identity{}, "", err
	}
	return id, token, nil
}
