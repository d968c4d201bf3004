package repository

import (
	"context"
	"time"

	"flightscout-service/internal/domain/entity"
)

// FlightProvider defines the contract every offer source adapter implements
type FlightProvider interface {
	Name() string
	Search(ctx context.Context, params entity.SearchParams) ([]entity.FlightOffer, error)
}

// PriceAnalyticsProvider exposes a provider-native price distribution for a route and date
type PriceAnalyticsProvider interface {
	PriceMetrics(ctx context.Context, route entity.RouteKey, departureDate time.Time, currency string) (*entity.PriceAnalytics, error)
}
