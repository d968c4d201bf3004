package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"flightscout-service/internal/domain/entity"
	"flightscout-service/internal/domain/repository"

	"github.com/google/uuid"
)

// MemoryPriceHistoryRepository keeps price history in process memory. It is
// used when no MongoDB DSN is configured; points are lost on restart.
type MemoryPriceHistoryRepository struct {
	mu     sync.RWMutex
	points map[entity.RouteKey][]entity.PriceHistoryPoint
}

// NewMemoryPriceHistoryRepository creates an empty in-memory repository
func NewMemoryPriceHistoryRepository() *MemoryPriceHistoryRepository {
	return &MemoryPriceHistoryRepository{
		points: make(map[entity.RouteKey][]entity.PriceHistoryPoint),
	}
}

var _ repository.PriceHistoryRepository = (*MemoryPriceHistoryRepository)(nil)

// Append stores a copy of point
func (r *MemoryPriceHistoryRepository) Append(ctx context.Context, point *entity.PriceHistoryPoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if point.ID == "" {
		point.ID = uuid.NewString()
	}
	if point.CreatedAt.IsZero() {
		point.CreatedAt = time.Now().UTC()
	}

	key := entity.NewRouteKey(point.Origin, point.Destination)
	r.mu.Lock()
	r.points[key] = append(r.points[key], *point)
	r.mu.Unlock()
	return nil
}

// FindByRoute returns copies of the route's points searched on or after since, oldest first
func (r *MemoryPriceHistoryRepository) FindByRoute(ctx context.Context, route entity.RouteKey, since time.Time) ([]*entity.PriceHistoryPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	stored := r.points[route]
	out := make([]*entity.PriceHistoryPoint, 0, len(stored))
	for i := range stored {
		if stored[i].SearchDate.Before(since) {
			continue
		}
		p := stored[i]
		out = append(out, &p)
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].SearchDate.Equal(out[j].SearchDate) {
			return out[i].SearchDate.Before(out[j].SearchDate)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
