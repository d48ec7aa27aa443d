package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/diwarasiga/moviehub/internal/video/models"
)

// VideoRepo is the opt-in Postgres registry backend. Expected schema:
//
//	CREATE TABLE videos (
//	    seq              BIGSERIAL PRIMARY KEY,
//	    id               UUID UNIQUE NOT NULL,
//	    title            TEXT NOT NULL,
//	    filename         TEXT NOT NULL,
//	    size_bytes       BIGINT NOT NULL,
//	    duration_seconds DOUBLE PRECISION NOT NULL DEFAULT 0,
//	    thumbnail        TEXT NOT NULL DEFAULT '',
//	    owner_id         UUID NOT NULL,
//	    owner_name       TEXT NOT NULL,
//	    uploaded_at      TIMESTAMPTZ NOT NULL
//	);
//
// seq preserves insertion order for listing.
type VideoRepo struct {
	db *sqlx.DB
}

func NewVideoRepo(db *sqlx.DB) *VideoRepo {
	return &VideoRepo{db: db}
}

const uniqueViolation = "23505"

func (r *VideoRepo) Insert(ctx context.Context, v *models.Video) error {
	if v == nil || v.ID == uuid.Nil {
		return models.ErrInvalidArgument
	}

	const q = `
		INSERT INTO videos (id, title, filename, size_bytes, duration_seconds, thumbnail, owner_id, owner_name, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, q,
		v.ID, v.Title, v.Filename, v.SizeBytes, v.DurationSeconds,
		v.Thumbnail, v.OwnerID, v.OwnerName, v.UploadedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.ErrConflict
		}
		return fmt.Errorf("video insert: %w", err)
	}
	return nil
}

func (r *VideoRepo) List(ctx context.Context) ([]*models.Video, error) {
	const q = `
		SELECT id, title, filename, size_bytes, duration_seconds, thumbnail, owner_id, owner_name, uploaded_at
		FROM videos
		ORDER BY seq ASC
	`

	var videos []*models.Video
	if err := r.db.SelectContext(ctx, &videos, q); err != nil {
		return nil, fmt.Errorf("video list: %w", err)
	}
	return videos, nil
}

func (r *VideoRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	if id == uuid.Nil {
		return nil, models.ErrInvalidArgument
	}

	const q = `
		SELECT id, title, filename, size_bytes, duration_seconds, thumbnail, owner_id, owner_name, uploaded_at
		FROM videos
		WHERE id = $1
	`

	var v models.Video
	if err := r.db.GetContext(ctx, &v, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("video get by id: %w", err)
	}
	return &v, nil
}

func (r *VideoRepo) Remove(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return models.ErrInvalidArgument
	}

	const q = `DELETE FROM videos WHERE id = $1`

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("video remove: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotFound
	}
	return nil
}
