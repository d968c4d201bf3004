package repository

import (
	"context"
	"fmt"
	"time"

	"flightscout-service/internal/domain/entity"
	"flightscout-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const priceHistoryCollection = "price_history"

// MongoPriceHistoryRepository implements the PriceHistoryRepository interface
type MongoPriceHistoryRepository struct {
	collection *mongo.Collection
}

// NewMongoPriceHistoryRepository creates a new MongoDB price history repository
func NewMongoPriceHistoryRepository(db *mongo.Database) *MongoPriceHistoryRepository {
	return &MongoPriceHistoryRepository{
		collection: db.Collection(priceHistoryCollection),
	}
}

var _ repository.PriceHistoryRepository = (*MongoPriceHistoryRepository)(nil)

// EnsureIndexes creates the indexes the route queries rely on
func (r *MongoPriceHistoryRepository) EnsureIndexes(ctx context.Context) error {
	// Compound index for route time series lookups
	routeIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "origin", Value: 1},
			{Key: "destination", Value: 1},
			{Key: "searchDate", Value: 1},
		},
	}

	// Index on createdAt for retention jobs
	createdAtIndex := mongo.IndexModel{
		Keys: bson.M{"createdAt": -1},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{routeIndex, createdAtIndex}); err != nil {
		return fmt.Errorf("failed to create price history indexes: %w", err)
	}
	return nil
}

// Append inserts a new point. Points are never updated.
func (r *MongoPriceHistoryRepository) Append(ctx context.Context, point *entity.PriceHistoryPoint) error {
	if point.ID == "" {
		point.ID = primitive.NewObjectID().Hex()
	}
	if point.CreatedAt.IsZero() {
		point.CreatedAt = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, point); err != nil {
		return fmt.Errorf("failed to insert price history point: %w", err)
	}
	return nil
}

// FindByRoute returns the points of a route searched on or after since, oldest first
func (r *MongoPriceHistoryRepository) FindByRoute(ctx context.Context, route entity.RouteKey, since time.Time) ([]*entity.PriceHistoryPoint, error) {
	filter := routeFilter(route, since)

	opts := options.Find().SetSort(bson.D{
		{Key: "searchDate", Value: 1},
		{Key: "createdAt", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	defer cursor.Close(ctx)

	var points []*entity.PriceHistoryPoint
	if err := cursor.All(ctx, &points); err != nil {
		return nil, fmt.Errorf("failed to decode price history: %w", err)
	}

	return points, nil
}

func routeFilter(route entity.RouteKey, since time.Time) bson.M {
	return bson.M{
		"origin":      route.Origin,
		"destination": route.Destination,
		"searchDate":  bson.M{"$gte": since},
	}
}
