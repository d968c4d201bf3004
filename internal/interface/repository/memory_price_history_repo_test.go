package repository

import (
	"context"
	"testing"
	"time"

	"flightscout-service/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func point(origin, destination string, searchDate time.Time, avg float64) *entity.PriceHistoryPoint {
	return &entity.PriceHistoryPoint{
		RouteKey:    origin + "-" + destination,
		Origin:      origin,
		Destination: destination,
		SearchDate:  searchDate,
		AvgPrice:    avg,
	}
}

func TestMemoryRepositoryReturnsRoutePointsChronologically(t *testing.T) {
	repo := NewMemoryPriceHistoryRepository()
	ctx := context.Background()
	day := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Append(ctx, point("PAR", "NYC", day.AddDate(0, 0, 2), 300)))
	require.NoError(t, repo.Append(ctx, point("PAR", "NYC", day, 100)))
	require.NoError(t, repo.Append(ctx, point("PAR", "NYC", day.AddDate(0, 0, 1), 200)))
	require.NoError(t, repo.Append(ctx, point("PAR", "LON", day, 50)))

	points, err := repo.FindByRoute(ctx, entity.NewRouteKey("PAR", "NYC"), day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 200.0, points[0].AvgPrice)
	assert.Equal(t, 300.0, points[1].AvgPrice)
	assert.NotEmpty(t, points[0].ID)
	assert.False(t, points[0].CreatedAt.IsZero())
}

func TestMemoryRepositoryReturnsCopies(t *testing.T) {
	repo := NewMemoryPriceHistoryRepository()
	ctx := context.Background()
	day := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	p := point("PAR", "NYC", day, 100)
	require.NoError(t, repo.Append(ctx, p))
	p.AvgPrice = 999

	points, err := repo.FindByRoute(ctx, entity.NewRouteKey("par", "nyc"), day)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 100.0, points[0].AvgPrice)

	points[0].AvgPrice = 1
	again, err := repo.FindByRoute(ctx, entity.NewRouteKey("PAR", "NYC"), day)
	require.NoError(t, err)
	assert.Equal(t, 100.0, again[0].AvgPrice)
}

func TestMemoryRepositoryHonorsCancelledContext(t *testing.T) {
	repo := NewMemoryPriceHistoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, repo.Append(ctx, point("PAR", "NYC", time.Now(), 1)), context.Canceled)
	_, err := repo.FindByRoute(ctx, entity.NewRouteKey("PAR", "NYC"), time.Time{})
	assert.ErrorIs(t, err, context.Canceled)
}
