package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() uuid.UUID
	OccurredAt() time.Time
}

type VideoUploaded struct {
	eventID    uuid.UUID
	videoID    uuid.UUID
	title      string
	sizeBytes  int64
	ownerID    uuid.UUID
	occurredAt time.Time
}

func NewVideoUploaded(v *Video) *VideoUploaded {
	return &VideoUploaded{
		eventID:    uuid.New(),
		videoID:    v.ID,
		title:      v.Title,
		sizeBytes:  v.SizeBytes,
		ownerID:    v.OwnerID,
		occurredAt: time.Now(),
	}
}

func (e *VideoUploaded) EventID() uuid.UUID     { return e.eventID }
func (e *VideoUploaded) EventType() string      { return "VideoUploaded" }
func (e *VideoUploaded) AggregateID() uuid.UUID { return e.videoID }
func (e *VideoUploaded) OccurredAt() time.Time  { return e.occurredAt }

func (e *VideoUploaded) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		EventID    uuid.UUID `json:"event_id"`
		VideoID    uuid.UUID `json:"video_id"`
		Title      string    `json:"title"`
		SizeBytes  int64     `json:"size_bytes"`
		OwnerID    uuid.UUID `json:"owner_id"`
		OccurredAt time.Time `json:"occurred_at"`
	}{
		EventID:    e.eventID,
		VideoID:    e.videoID,
		Title:      e.title,
		SizeBytes:  e.sizeBytes,
		OwnerID:    e.ownerID,
		OccurredAt: e.occurredAt,
	})
}

type VideoDeleted struct {
	eventID    uuid.UUID
	videoID    uuid.UUID
	occurredAt time.Time
}

func NewVideoDeleted(videoID uuid.UUID) *VideoDeleted {
	return &VideoDeleted{
		eventID:    uuid.New(),
		videoID:    videoID,
		occurredAt: time.Now(),
	}
}

func (e *VideoDeleted) EventID() uuid.UUID     { return e.eventID }
func (e *VideoDeleted) EventType() string      { return "VideoDeleted" }
func (e *VideoDeleted) AggregateID() uuid.UUID { return e.videoID }
func (e *VideoDeleted) OccurredAt() time.Time  { return e.occurredAt }

func (e *VideoDeleted) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		EventID    uuid.UUID `json:"event_id"`
		VideoID    uuid.UUID `json:"video_id"`
		OccurredAt time.Time `json:"occurred_at"`
	}{
		EventID:    e.eventID,
		VideoID:    e.videoID,
		OccurredAt: e.occurredAt,
	})
}
