package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/diwarasiga/moviehub/internal/user/models"
)

// UserRepository stores accounts. Create reports ErrConflict when the email
// or the username is already taken.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}
