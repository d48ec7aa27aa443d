package httpapi

import (
	"time"

	"github.com/google/uuid"

	"github.com/diwarasiga/moviehub/internal/video/models"
)

// VideoResponse is the wire shape of a registry record. Filepath is computed
// from the stored filename on every response; it is never persisted.
type VideoResponse struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Filename   string    `json:"filename"`
	Filepath   string    `json:"filepath"`
	Size       int64     `json:"size"`
	Duration   float64   `json:"duration"`
	Thumbnail  string    `json:"thumbnail"`
	OwnerID    uuid.UUID `json:"ownerId"`
	OwnerName  string    `json:"ownerName"`
	UploadDate time.Time `json:"uploadDate"`
}

type UploadResponse struct {
	Success bool          `json:"success"`
	Video   VideoResponse `json:"video"`
}

func toVideoResponse(v *models.Video) VideoResponse {
	return VideoResponse{
		ID:         v.ID,
		Title:      v.Title,
		Filename:   v.Filename,
		Filepath:   "/api/videos/" + v.Filename,
		Size:       v.SizeBytes,
		Duration:   v.DurationSeconds,
		Thumbnail:  v.Thumbnail,
		OwnerID:    v.OwnerID,
		OwnerName:  v.OwnerName,
		UploadDate: v.UploadedAt,
	}
}
