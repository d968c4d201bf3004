package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"flightscout-service/internal/domain/entity"
	"flightscout-service/internal/domain/repository"
	"flightscout-service/pkg/logger"
	"flightscout-service/pkg/metrics"
)

// DefaultHistoryDays is the lookback used when a query does not name one
const DefaultHistoryDays = 90

// PriceHistoryStore summarizes result sets into history points and reads them back
type PriceHistoryStore struct {
	repo    repository.PriceHistoryRepository
	logger  logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewPriceHistoryStore creates a new price history store
func NewPriceHistoryStore(repo repository.PriceHistoryRepository, logger logger.Logger, metrics *metrics.Metrics) *PriceHistoryStore {
	return &PriceHistoryStore{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// Record appends one point per offer source. Storage failures are logged and
// counted, never returned: history is a side channel of the search.
func (s *PriceHistoryStore) Record(ctx context.Context, route entity.RouteKey, searchDate time.Time, cabin entity.CabinClass, departureDate time.Time, offers []entity.FlightOffer) {
	points := BuildHistoryPoints(route, searchDate, cabin, departureDate, offers)
	for _, point := range points {
		point.CreatedAt = s.now().UTC()
		if err := s.repo.Append(ctx, point); err != nil {
			s.logger.Warn("Failed to record price history",
				"route", point.RouteKey,
				"source", point.Source,
				"error", err,
			)
			s.metrics.SideEffectErrors.WithLabelValues("price_history").Inc()
		}
	}
	s.logger.Debug("Price history recorded", "route", route.String(), "points", len(points))
}

// Query returns the route's points of the last sinceDays days, oldest first
func (s *PriceHistoryStore) Query(ctx context.Context, route entity.RouteKey, sinceDays int) ([]entity.PriceHistoryPoint, error) {
	if sinceDays <= 0 {
		sinceDays = DefaultHistoryDays
	}
	since := calendarDate(s.now()).AddDate(0, 0, -sinceDays)

	stored, err := s.repo.FindByRoute(ctx, route, since)
	if err != nil {
		return nil, fmt.Errorf("failed to read price history for %s: %w", route, err)
	}

	points := make([]entity.PriceHistoryPoint, 0, len(stored))
	for _, p := range stored {
		points = append(points, *p)
	}
	return points, nil
}

// BuildHistoryPoints aggregates offers into one point per source, in first-seen source order
func BuildHistoryPoints(route entity.RouteKey, searchDate time.Time, cabin entity.CabinClass, departureDate time.Time, offers []entity.FlightOffer) []*entity.PriceHistoryPoint {
	searchDay := calendarDate(searchDate)
	departureDay := calendarDate(departureDate)
	daysBefore := int(departureDay.Sub(searchDay).Hours() / 24)
	if daysBefore < 0 {
		daysBefore = 0
	}

	bySource := make(map[string]*entity.PriceHistoryPoint)
	var order []string
	sums := make(map[string]float64)

	for _, offer := range offers {
		total := offer.Price.Total
		if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
			continue
		}

		p, ok := bySource[offer.Source]
		if !ok {
			p = &entity.PriceHistoryPoint{
				RouteKey:            route.String(),
				Origin:              route.Origin,
				Destination:         route.Destination,
				SearchDate:          searchDay,
				DepartureDate:       departureDay,
				CabinClass:          cabin,
				MinPrice:            total,
				MaxPrice:            total,
				Currency:            offer.Price.Currency,
				DayOfWeek:           int(departureDay.Weekday()),
				IsWeekend:           departureDay.Weekday() == time.Saturday || departureDay.Weekday() == time.Sunday,
				DaysBeforeDeparture: daysBefore,
				Source:              offer.Source,
			}
			bySource[offer.Source] = p
			order = append(order, offer.Source)
		}

		p.SampleSize++
		sums[offer.Source] += total
		p.MinPrice = math.Min(p.MinPrice, total)
		p.MaxPrice = math.Max(p.MaxPrice, total)
	}

	points := make([]*entity.PriceHistoryPoint, 0, len(order))
	for _, source := range order {
		p := bySource[source]
		p.AvgPrice = round2(sums[source] / float64(p.SampleSize))
		points = append(points, p)
	}
	return points
}

// calendarDate truncates t to midnight UTC of its UTC date
func calendarDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
