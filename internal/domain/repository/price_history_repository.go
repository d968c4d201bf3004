package repository

import (
	"context"
	"time"

	"flightscout-service/internal/domain/entity"
)

// PriceHistoryRepository defines the append-only storage of price history points
type PriceHistoryRepository interface {
	Append(ctx context.Context, point *entity.PriceHistoryPoint) error
	FindByRoute(ctx context.Context, route entity.RouteKey, since time.Time) ([]*entity.PriceHistoryPoint, error)
}
