package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/diwarasiga/moviehub/internal/video/models"
)

// MemoryRepository is the default registry backend: a mutex-guarded in-process
// collection. It keeps insertion order alongside the id index so List can
// return videos in upload order. Contents are lost on restart.
type MemoryRepository struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*models.Video
	order []uuid.UUID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID: make(map[uuid.UUID]*models.Video),
	}
}

func (r *MemoryRepository) Insert(ctx context.Context, v *models.Video) error {
	if v == nil {
		return models.ErrInvalidArgument
	}
	if v.ID == uuid.Nil {
		return models.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[v.ID]; exists {
		return models.ErrConflict
	}

	// Защитная копия, чтобы внешняя сторона не могла мутировать хранимый объект
	cp := *v
	r.byID[v.ID] = &cp
	r.order = append(r.order, v.ID)

	return nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Video, 0, len(r.order))
	for _, id := range r.order {
		cp := *r.byID[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	if id == uuid.Nil {
		return nil, models.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.byID[id]
	if !ok {
		return nil, models.ErrNotFound
	}

	// Возвращаем копию, чтобы не было внешних мутаций
	cp := *v
	return &cp, nil
}

func (r *MemoryRepository) Remove(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return models.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return models.ErrNotFound
	}

	delete(r.byID, id)
	for i, other := range r.order {
		if other == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
