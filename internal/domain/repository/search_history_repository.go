package repository

import (
	"context"

	"flightscout-service/internal/domain/entity"
)

// SearchHistoryRepository defines the interface for search history operations
type SearchHistoryRepository interface {
	Create(ctx context.Context, record *entity.SearchRecord) error
	FindByUser(ctx context.Context, userID string, limit int) ([]*entity.SearchRecord, error)
}
