package usecase

import (
	"context"
	"fmt"
	"time"

	"flightscout-service/internal/domain/entity"
	"flightscout-service/internal/domain/repository"
	"flightscout-service/pkg/concurrency"
	"flightscout-service/pkg/logger"
	"flightscout-service/pkg/metrics"

	"github.com/google/uuid"
)

// ProviderSelector picks the providers that serve a search
type ProviderSelector interface {
	Select(sources []string) []repository.FlightProvider
}

// SearchConfig configures the offer aggregator
type SearchConfig struct {
	ExcludedCarriers []string
	DefaultCurrency  string
	MaxParallel      int
}

// FlightSearchService aggregates, filters, deduplicates and ranks provider offers
type FlightSearchService struct {
	providers     ProviderSelector
	scoring       *ScoringEngine
	history       *PriceHistoryStore
	searchHistory repository.SearchHistoryRepository
	tasks         *BackgroundTasks
	config        SearchConfig
	logger        logger.Logger
	metrics       *metrics.Metrics
	now           func() time.Time
}

// NewFlightSearchService creates a new flight search service. searchHistory
// may be nil, which disables search-history records.
func NewFlightSearchService(
	providers ProviderSelector,
	scoring *ScoringEngine,
	history *PriceHistoryStore,
	searchHistory repository.SearchHistoryRepository,
	tasks *BackgroundTasks,
	config SearchConfig,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *FlightSearchService {
	if config.DefaultCurrency == "" {
		config.DefaultCurrency = "EUR"
	}
	return &FlightSearchService{
		providers:     providers,
		scoring:       scoring,
		history:       history,
		searchHistory: searchHistory,
		tasks:         tasks,
		config:        config,
		logger:        logger,
		metrics:       metrics,
		now:           time.Now,
	}
}

// SmartSearch runs one search across the selected providers and returns the
// ranked offers. userID may be empty for anonymous requests and profile may
// be nil, in which case the default profile is used.
func (s *FlightSearchService) SmartSearch(ctx context.Context, userID string, profile *entity.TravelerProfile, params entity.SearchParams) (*entity.SearchResult, error) {
	start := s.now()
	defer func() {
		s.metrics.SearchDuration.Observe(time.Since(start).Seconds())
	}()

	params.Normalize(s.config.DefaultCurrency)
	if err := params.Validate(); err != nil {
		s.metrics.SearchesTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	providers := s.providers.Select(params.Sources)
	if len(providers) == 0 {
		s.metrics.SearchesTotal.WithLabelValues("invalid").Inc()
		return nil, &entity.ValidationError{Field: "sources", Message: "no configured provider matches"}
	}

	route := params.Route()
	log := s.logger.With("route", route.String(), "departureDate", params.DepartureDate.Format(entity.DateLayout))

	results, errs := concurrency.ProcessParallel(ctx, providers, concurrency.ParallelOptions{MaxWorkers: s.config.MaxParallel},
		func(ctx context.Context, _ int, p repository.FlightProvider) ([]entity.FlightOffer, error) {
			offers, err := p.Search(ctx, params)
			if err != nil {
				return nil, fmt.Errorf("provider %s: %w", p.Name(), err)
			}
			return offers, nil
		})
	for _, err := range errs {
		log.Warn("Provider search failed", "error", err)
	}
	if err := ctx.Err(); err != nil {
		s.metrics.SearchesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	var merged []entity.FlightOffer
	for _, offers := range results {
		merged = append(merged, offers...)
	}

	candidates, excluded := FilterExcludedCarriers(merged, s.config.ExcludedCarriers)
	if params.DirectOnly {
		candidates = filterDirectOnly(candidates)
	}
	if len(candidates) == 0 {
		log.Info("No offers left after filtering", "received", len(merged), "excluded", excluded)
		s.metrics.SearchesTotal.WithLabelValues("no_offers").Inc()
		return nil, fmt.Errorf("search %s: %w", route, entity.ErrNoOffers)
	}

	unique := DeduplicateOffers(candidates)
	ranked := s.scoring.Rank(unique, profile)
	if params.MaxResults > 0 && len(ranked) > params.MaxResults {
		ranked = ranked[:params.MaxResults]
	}

	s.metrics.OffersExcluded.Add(float64(excluded))
	s.metrics.OffersDeduplicated.Add(float64(len(candidates) - len(unique)))
	s.metrics.SearchesTotal.WithLabelValues("success").Inc()

	s.scheduleSideEffects(ctx, userID, params, start, unique)

	result := &entity.SearchResult{
		Flights: ranked,
		Meta: entity.SearchMeta{
			SearchID:     uuid.NewString(),
			TotalResults: len(ranked),
			Sources:      offerSources(unique),
			SearchTimeMs: time.Since(start).Milliseconds(),
			Timestamp:    start.UTC(),
			Excluded:     excluded,
			Deduplicated: len(candidates) - len(unique),
		},
	}

	log.Info("Search completed",
		"providers", len(providers),
		"received", len(merged),
		"excluded", excluded,
		"returned", len(ranked),
		"searchTimeMs", result.Meta.SearchTimeMs,
	)
	return result, nil
}

// scheduleSideEffects records price and search history without blocking the response
func (s *FlightSearchService) scheduleSideEffects(ctx context.Context, userID string, params entity.SearchParams, searchedAt time.Time, offers []entity.FlightOffer) {
	if s.history != nil {
		s.tasks.Go(ctx, "price_history", func(ctx context.Context) error {
			s.history.Record(ctx, params.Route(), searchedAt, params.CabinClass, params.DepartureDate, offers)
			return nil
		})
	}

	if userID == "" || s.searchHistory == nil {
		return
	}

	cheapest := offers[0].Price.Total
	for _, o := range offers[1:] {
		if o.Price.Total < cheapest {
			cheapest = o.Price.Total
		}
	}
	record := &entity.SearchRecord{
		UserID:        userID,
		Origin:        params.Origin,
		Destination:   params.Destination,
		DepartureDate: params.DepartureDate,
		ReturnDate:    params.ReturnDate,
		Adults:        params.Adults,
		Children:      params.Children,
		Infants:       params.Infants,
		CabinClass:    params.CabinClass,
		ResultCount:   len(offers),
		CheapestPrice: cheapest,
		Currency:      params.Currency,
		CreatedAt:     searchedAt.UTC(),
	}
	s.tasks.Go(ctx, "search_history", func(ctx context.Context) error {
		return s.searchHistory.Create(ctx, record)
	})
}

// DefaultRecentSearches bounds RecentSearches when the caller gives no limit
const DefaultRecentSearches = 20

// RecentSearches lists the newest searches of userID. Without a search-history
// repository the list is always empty.
func (s *FlightSearchService) RecentSearches(ctx context.Context, userID string, limit int) ([]*entity.SearchRecord, error) {
	if userID == "" {
		return nil, &entity.ValidationError{Field: "userId", Message: "is required"}
	}
	if s.searchHistory == nil {
		return []*entity.SearchRecord{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = DefaultRecentSearches
	}
	records, err := s.searchHistory.FindByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list searches of %s: %w", userID, err)
	}
	return records, nil
}

func offerSources(offers []entity.FlightOffer) []string {
	seen := make(map[string]bool)
	sources := []string{}
	for _, o := range offers {
		if !seen[o.Source] {
			seen[o.Source] = true
			sources = append(sources, o.Source)
		}
	}
	return sources
}
