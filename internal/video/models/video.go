package models

import (
	"time"

	"github.com/google/uuid"
)

// Video is one registry record. Records are immutable after creation; the
// public access path is derived from Filename at response time and never
// stored. The id doubles as the base name of the stored file.
type Video struct {
	ID              uuid.UUID `db:"id"`
	Title           string    `db:"title"`
	Filename        string    `db:"filename"`
	SizeBytes       int64     `db:"size_bytes"`
	DurationSeconds float64   `db:"duration_seconds"`
	Thumbnail       string    `db:"thumbnail"`
	OwnerID         uuid.UUID `db:"owner_id"`
	OwnerName       string    `db:"owner_name"`
	UploadedAt      time.Time `db:"uploaded_at"`
}
