package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/diwarasiga/moviehub/internal/auth"
	"github.com/diwarasiga/moviehub/internal/video/models"
	"github.com/diwarasiga/moviehub/internal/video/repository"
)

const defaultThumbnail = "/images/default-thumbnail.jpg"

// FileStore is the blob side of the catalog: one uniquely named file per
// video under a single upload root.
type FileStore interface {
	Save(filename string, r io.Reader, maxBytes int64) (int64, error)
	Remove(filename string) error
}

// Publisher emits lifecycle events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// Blob is a stored but not yet registered upload.
type Blob struct {
	ID       uuid.UUID
	Filename string
	Size     int64
}

// Metadata carries the client-supplied fields of an upload. Size never comes
// from here; it is taken from the bytes actually written.
type Metadata struct {
	OriginalName    string
	Title           string
	DurationSeconds float64
	Thumbnail       string
}

// Service owns the upload lifecycle: id generation, streamed persistence,
// registry consistency, deletion.
type Service struct {
	repo      repository.VideoRepository
	store     FileStore
	publisher Publisher
	maxBytes  int64
	clock     func() time.Time
	idGen     func() uuid.UUID
	logger    zerolog.Logger
}

func New(repo repository.VideoRepository, store FileStore, maxBytes int64, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		store:    store,
		maxBytes: maxBytes,
		clock:    time.Now,
		idGen:    uuid.New,
		logger:   logger.With().Str("component", "video_service").Logger(),
	}
}

// WithPublisher enables lifecycle event publishing. Publish failures are
// logged and never fail the originating request.
func (s *Service) WithPublisher(p Publisher) *Service {
	s.publisher = p
	return s
}

// SaveBlob streams body to disk under a fresh id, preserving the extension of
// the client's original filename. The id is generated before any bytes are
// written. On failure no partial file remains.
func (s *Service) SaveBlob(originalName string, body io.Reader) (Blob, error) {
	if body == nil {
		return Blob{}, models.ErrNoFile
	}

	id := s.idGen()
	ext := filepath.Ext(originalName)
	if ext == "" {
		// Stored names always carry an extension; the stream route keys on it.
		ext = ".mp4"
	}
	filename := id.String() + ext

	n, err := s.store.Save(filename, body, s.maxBytes)
	if err != nil {
		return Blob{}, err
	}
	return Blob{ID: id, Filename: filename, Size: n}, nil
}

// Discard removes a stored blob that will not be registered.
func (s *Service) Discard(b Blob) {
	if err := s.store.Remove(b.Filename); err != nil {
		s.logger.Error().Err(err).Str("filename", b.Filename).Msg("discard failed")
	}
}

// Register inserts the registry record for a stored blob. The owner identity
// comes from the verified credential, never from client fields. A failed
// insert removes the file again so the two effects stay consistent.
func (s *Service) Register(ctx context.Context, b Blob, meta Metadata, owner auth.Identity) (*models.Video, error) {
	title := meta.Title
	if title == "" {
		title = meta.OriginalName
	}
	thumbnail := meta.Thumbnail
	if thumbnail == "" {
		thumbnail = defaultThumbnail
	}

	v := &models.Video{
		ID:              b.ID,
		Title:           title,
		Filename:        b.Filename,
		SizeBytes:       b.Size,
		DurationSeconds: meta.DurationSeconds,
		Thumbnail:       thumbnail,
		OwnerID:         owner.ID,
		OwnerName:       owner.Username,
		UploadedAt:      s.clock(),
	}

	if err := s.repo.Insert(ctx, v); err != nil {
		if rerr := s.store.Remove(b.Filename); rerr != nil {
			s.logger.Error().Err(rerr).Str("filename", b.Filename).Msg("orphaned upload not removed")
		}
		return nil, err
	}

	s.publish(ctx, models.NewVideoUploaded(v))
	return v, nil
}

// List returns all registered videos in upload order.
func (s *Service) List(ctx context.Context) ([]*models.Video, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	if id == uuid.Nil {
		return nil, models.ErrInvalidArgument
	}
	return s.repo.GetByID(ctx, id)
}

// Delete removes the registry entry and then the backing file. The entry
// stays removed even when the file removal fails; that failure is returned
// so the caller sees it instead of a silent orphan. A file already gone from
// disk is not an error.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return models.ErrInvalidArgument
	}

	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Remove(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, models.NewVideoDeleted(v.ID))

	if err := s.store.Remove(v.Filename); err != nil && !errors.Is(err, models.ErrNotFound) {
		s.logger.Error().Err(err).Str("filename", v.Filename).Msg("stored file not removed")
		return fmt.Errorf("remove stored file: %w", err)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, ev models.DomainEvent) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		s.logger.Error().Err(err).Str("event_type", ev.EventType()).Msg("event marshal failed")
		return
	}
	if err := s.publisher.Publish(ctx, ev.EventID().String(), payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", ev.EventType()).Msg("event publish failed")
	}
}
