package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"flightscout-service/internal/domain/entity"
	"flightscout-service/internal/domain/repository"
	"flightscout-service/pkg/logger"
	"flightscout-service/pkg/metrics"
	"flightscout-service/templates"
)

const (
	trendThreshold  = 0.10
	maxLookbackDays = 365
)

// drift applied to the latest price per horizon, in the detected direction
var horizonDrift = [3]float64{0.02, 0.04, 0.06}

// PricePredictionService forecasts route prices from recorded history
type PricePredictionService struct {
	history         *PriceHistoryStore
	generator       repository.TextGenerator
	analytics       repository.PriceAnalyticsProvider
	defaultCurrency string
	logger          logger.Logger
	metrics         *metrics.Metrics
	now             func() time.Time
}

// NewPricePredictionService creates a new prediction service. generator and
// analytics are optional; nil disables the generative refinement and the
// provider analytics merge respectively.
func NewPricePredictionService(
	history *PriceHistoryStore,
	generator repository.TextGenerator,
	analytics repository.PriceAnalyticsProvider,
	defaultCurrency string,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *PricePredictionService {
	return &PricePredictionService{
		history:         history,
		generator:       generator,
		analytics:       analytics,
		defaultCurrency: defaultCurrency,
		logger:          logger,
		metrics:         metrics,
		now:             time.Now,
	}
}

// Predict returns a forecast for the requested route. Missing history is a
// normal unavailable result; only a storage read failure is an error.
func (s *PricePredictionService) Predict(ctx context.Context, req entity.PredictionRequest) (*entity.PredictionResult, error) {
	route := entity.NewRouteKey(req.Origin, req.Destination)
	if !entity.IsIATACode(route.Origin) {
		return nil, &entity.ValidationError{Field: "origin", Message: "must be a 3-letter IATA code"}
	}
	if !entity.IsIATACode(route.Destination) {
		return nil, &entity.ValidationError{Field: "destination", Message: "must be a 3-letter IATA code"}
	}
	if req.CabinClass == "" {
		req.CabinClass = entity.CabinEconomy
	}
	cabin, ok := entity.ParseCabinClass(string(req.CabinClass))
	if !ok {
		return nil, &entity.ValidationError{Field: "cabinClass", Message: "must be one of ECONOMY, PREMIUM_ECONOMY, BUSINESS, FIRST"}
	}
	req.CabinClass = cabin
	lookback := req.LookbackDays
	if lookback <= 0 {
		lookback = DefaultHistoryDays
	}
	if lookback > maxLookbackDays {
		lookback = maxLookbackDays
	}

	points, err := s.history.Query(ctx, route, lookback)
	if err != nil {
		return nil, err
	}
	points = filterByCabin(points, req.CabinClass)

	if len(points) == 0 {
		return &entity.PredictionResult{
			Available:   false,
			Message:     fmt.Sprintf("No price history recorded for %s in the last %d days", route, lookback),
			Route:       route.String(),
			History:     []entity.PriceHistoryPoint{},
			GeneratedAt: s.now().UTC(),
		}, nil
	}

	points = latestSeries(points)
	result := statisticalPrediction(route, points)
	result.GeneratedAt = s.now().UTC()

	if s.generator != nil {
		if refined, err := s.refine(ctx, route, req, points, result); err != nil {
			s.logger.Warn("Generative prediction failed, using statistical method", "route", route.String(), "error", err)
		} else {
			result = refined
		}
	}

	if s.analytics != nil && req.DepartureDate != nil {
		currency := result.Currency
		if currency == "" {
			currency = s.defaultCurrency
		}
		analytics, err := s.analytics.PriceMetrics(ctx, route, *req.DepartureDate, currency)
		if err != nil {
			s.logger.Debug("Price analytics unavailable", "route", route.String(), "error", err)
		} else {
			mergeAnalytics(result, analytics)
		}
	}

	s.metrics.PredictionsTotal.WithLabelValues(string(result.Method)).Inc()
	return result, nil
}

// statisticalPrediction compares the latest average price with the mean of the
// series. points must come from a single cabin and source.
func statisticalPrediction(route entity.RouteKey, points []entity.PriceHistoryPoint) *entity.PredictionResult {
	var sum float64
	for _, p := range points {
		sum += p.AvgPrice
	}
	mean := sum / float64(len(points))
	latest := points[len(points)-1]

	change := 0.0
	if mean > 0 {
		change = (latest.AvgPrice - mean) / mean
	}

	trend := entity.TrendStable
	direction := 0.0
	switch {
	case change < -trendThreshold:
		trend = entity.TrendDecreasing
		direction = -1
	case change > trendThreshold:
		trend = entity.TrendIncreasing
		direction = 1
	}

	recommendation := entity.AdviceBookNow
	if trend == entity.TrendDecreasing {
		recommendation = entity.AdviceWait
	}

	relation := "in line with"
	if change < 0 {
		relation = "below"
	} else if change > 0 {
		relation = "above"
	}

	return &entity.PredictionResult{
		Available: true,
		Route:     route.String(),
		Trend:     trend,
		Forecast: entity.PriceForecast{
			In7Days:  round2(latest.AvgPrice * (1 + direction*horizonDrift[0])),
			In14Days: round2(latest.AvgPrice * (1 + direction*horizonDrift[1])),
			In30Days: round2(latest.AvgPrice * (1 + direction*horizonDrift[2])),
		},
		Recommendation: recommendation,
		Confidence:     entity.ConfidenceLow,
		Rationale: fmt.Sprintf("Latest average price %.2f %s is %.1f%% %s the mean of %.2f over %d %s observations.",
			latest.AvgPrice, latest.Currency, math.Abs(change)*100, relation, mean, len(points), latest.Source),
		Method:            entity.MethodStatistical,
		CurrentPrice:      latest.AvgPrice,
		HistoricalAverage: round2(mean),
		Currency:          latest.Currency,
		History:           points,
	}
}

// aiPrediction is the JSON contract the model must answer with
type aiPrediction struct {
	Trend    string `json:"trend"`
	Forecast struct {
		In7Days  float64 `json:"in7Days"`
		In14Days float64 `json:"in14Days"`
		In30Days float64 `json:"in30Days"`
	} `json:"forecast"`
	Recommendation string `json:"recommendation"`
	Confidence     string `json:"confidence"`
	Rationale      string `json:"rationale"`
}

func (s *PricePredictionService) refine(ctx context.Context, route entity.RouteKey, req entity.PredictionRequest, points []entity.PriceHistoryPoint, base *entity.PredictionResult) (*entity.PredictionResult, error) {
	data := templates.PredictionPromptData{
		Route:      route.String(),
		CabinClass: string(req.CabinClass),
		Currency:   base.Currency,
		Mean:       base.HistoricalAverage,
		Latest:     base.CurrentPrice,
	}
	if req.DepartureDate != nil {
		data.DepartureDate = req.DepartureDate.Format(entity.DateLayout)
	}
	for _, p := range points {
		data.Points = append(data.Points, templates.PredictionPoint{
			SearchDate:          p.SearchDate.Format(entity.DateLayout),
			AvgPrice:            p.AvgPrice,
			MinPrice:            p.MinPrice,
			MaxPrice:            p.MaxPrice,
			SampleSize:          p.SampleSize,
			DaysBeforeDeparture: p.DaysBeforeDeparture,
		})
	}

	prompt, err := templates.RenderPredictionPrompt(data)
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	raw, err := s.generator.GenerateJSON(ctx, templates.PredictionSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	parsed, err := parseAIPrediction(raw)
	if err != nil {
		return nil, err
	}

	refined := *base
	refined.Trend = entity.Trend(parsed.Trend)
	refined.Forecast = entity.PriceForecast{
		In7Days:  round2(parsed.Forecast.In7Days),
		In14Days: round2(parsed.Forecast.In14Days),
		In30Days: round2(parsed.Forecast.In30Days),
	}
	refined.Recommendation = entity.BookingAdvice(parsed.Recommendation)
	refined.Confidence = entity.Confidence(parsed.Confidence)
	refined.Rationale = parsed.Rationale
	refined.Method = entity.MethodAI
	return &refined, nil
}

// parseAIPrediction rejects anything outside the answer contract
func parseAIPrediction(raw string) (*aiPrediction, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var p aiPrediction
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("malformed prediction output: %w", err)
	}

	p.Trend = strings.ToLower(strings.TrimSpace(p.Trend))
	p.Recommendation = strings.ToLower(strings.TrimSpace(p.Recommendation))
	p.Confidence = strings.ToLower(strings.TrimSpace(p.Confidence))
	p.Rationale = strings.TrimSpace(p.Rationale)

	switch entity.Trend(p.Trend) {
	case entity.TrendIncreasing, entity.TrendDecreasing, entity.TrendStable:
	default:
		return nil, fmt.Errorf("unknown trend %q", p.Trend)
	}
	switch entity.BookingAdvice(p.Recommendation) {
	case entity.AdviceBookNow, entity.AdviceWait, entity.AdviceMonitor:
	default:
		return nil, fmt.Errorf("unknown recommendation %q", p.Recommendation)
	}
	switch entity.Confidence(p.Confidence) {
	case entity.ConfidenceLow, entity.ConfidenceMedium, entity.ConfidenceHigh:
	default:
		return nil, fmt.Errorf("unknown confidence %q", p.Confidence)
	}
	for _, v := range []float64{p.Forecast.In7Days, p.Forecast.In14Days, p.Forecast.In30Days} {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("forecast values must be positive, got %v", v)
		}
	}
	if p.Rationale == "" {
		return nil, fmt.Errorf("missing rationale")
	}
	return &p, nil
}

// mergeAnalytics folds a provider quartile ranking into result. The history
// trend is never changed; the recommendation only moves when the trend is stable.
func mergeAnalytics(result *entity.PredictionResult, analytics *entity.PriceAnalytics) {
	analytics.Ranking = analytics.Rank(result.CurrentPrice)
	result.Analytics = analytics

	internal := result.Recommendation
	agrees := (analytics.Ranking == entity.RankingLow && internal == entity.AdviceBookNow) ||
		(analytics.Ranking == entity.RankingHigh && internal != entity.AdviceBookNow)

	if result.Trend == entity.TrendStable {
		switch analytics.Ranking {
		case entity.RankingLow:
			result.Recommendation = entity.AdviceBookNow
		case entity.RankingHigh:
			result.Recommendation = entity.AdviceMonitor
		}
	}

	label := strings.ToLower(string(analytics.Ranking))
	switch {
	case analytics.Ranking == entity.RankingTypical:
		result.Rationale += fmt.Sprintf(" Provider analytics rank the current price as %s.", label)
	case agrees:
		result.Confidence = result.Confidence.Raise()
		result.Rationale += fmt.Sprintf(" Provider analytics agree: the current price ranks %s against the market.", label)
	case result.Recommendation != internal:
		result.Rationale += fmt.Sprintf(" Provider analytics rank the current price as %s, so the recommendation moves to %s.", label, result.Recommendation)
	default:
		result.Rationale += fmt.Sprintf(" Provider analytics rank the current price as %s, which disagrees with the history trend; the history trend is kept.", label)
	}
}

func filterByCabin(points []entity.PriceHistoryPoint, cabin entity.CabinClass) []entity.PriceHistoryPoint {
	kept := make([]entity.PriceHistoryPoint, 0, len(points))
	for _, p := range points {
		if p.CabinClass == cabin {
			kept = append(kept, p)
		}
	}
	return kept
}

// latestSeries keeps the points recorded for the cabin and source of the
// newest point, so the mean and the latest price are comparable.
func latestSeries(points []entity.PriceHistoryPoint) []entity.PriceHistoryPoint {
	if len(points) == 0 {
		return points
	}
	newest := points[len(points)-1]
	series := make([]entity.PriceHistoryPoint, 0, len(points))
	for _, p := range points {
		if p.CabinClass == newest.CabinClass && p.Source == newest.Source {
			series = append(series, p)
		}
	}
	return series
}
