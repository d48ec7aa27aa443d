package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/diwarasiga/moviehub/internal/video/models"
)

// VideoRepository is the registry of uploaded videos. List returns records
// in insertion order. Implementations must be safe for concurrent use.
type VideoRepository interface {
	Insert(ctx context.Context, v *models.Video) error
	List(ctx context.Context) ([]*models.Video, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error)
	Remove(ctx context.Context, id uuid.UUID) error
}
