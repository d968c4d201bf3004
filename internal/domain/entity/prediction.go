package entity

import "time"

// Trend is the direction of recent prices
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// BookingAdvice tells the traveler what to do now
type BookingAdvice string

const (
	AdviceBookNow BookingAdvice = "book_now"
	AdviceWait    BookingAdvice = "wait"
	AdviceMonitor BookingAdvice = "monitor"
)

// Confidence of a prediction
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Raise returns the next confidence level, saturating at high
func (c Confidence) Raise() Confidence {
	switch c {
	case ConfidenceLow:
		return ConfidenceMedium
	default:
		return ConfidenceHigh
	}
}

// PredictionMethod names the path that produced a forecast
type PredictionMethod string

const (
	MethodStatistical PredictionMethod = "statistical"
	MethodAI          PredictionMethod = "ai"
)

// QuartileRanking positions a price inside the provider's historical distribution
type QuartileRanking string

const (
	RankingLow     QuartileRanking = "LOW"
	RankingTypical QuartileRanking = "TYPICAL"
	RankingHigh    QuartileRanking = "HIGH"
)

// PriceAnalytics is a provider-native view of the price distribution for a route and date
type PriceAnalytics struct {
	Source   string          `json:"source"`
	Currency string          `json:"currency"`
	Minimum  float64         `json:"minimum"`
	First    float64         `json:"firstQuartile"`
	Median   float64         `json:"median"`
	Third    float64         `json:"thirdQuartile"`
	Maximum  float64         `json:"maximum"`
	Ranking  QuartileRanking `json:"ranking,omitempty"`
}

// Rank places price relative to the quartiles
func (a PriceAnalytics) Rank(price float64) QuartileRanking {
	switch {
	case a.First > 0 && price <= a.First:
		return RankingLow
	case a.Third > 0 && price >= a.Third:
		return RankingHigh
	default:
		return RankingTypical
	}
}

// PriceForecast holds projected prices at fixed horizons
type PriceForecast struct {
	In7Days  float64 `json:"in7Days"`
	In14Days float64 `json:"in14Days"`
	In30Days float64 `json:"in30Days"`
}

// PredictionRequest asks for a forecast on a route
type PredictionRequest struct {
	Origin        string
	Destination   string
	DepartureDate *time.Time
	CabinClass    CabinClass
	LookbackDays  int
}

// PredictionResult is the forecast answer. Every method fills the same shape.
type PredictionResult struct {
	Available         bool                `json:"available"`
	Message           string              `json:"message,omitempty"`
	Route             string              `json:"route"`
	Trend             Trend               `json:"trend,omitempty"`
	Forecast          PriceForecast       `json:"forecast"`
	Recommendation    BookingAdvice       `json:"recommendation,omitempty"`
	Confidence        Confidence          `json:"confidence,omitempty"`
	Rationale         string              `json:"rationale,omitempty"`
	Method            PredictionMethod    `json:"method,omitempty"`
	CurrentPrice      float64             `json:"currentPrice"`
	HistoricalAverage float64             `json:"historicalAverage"`
	Currency          string              `json:"currency,omitempty"`
	Analytics         *PriceAnalytics     `json:"analytics,omitempty"`
	History           []PriceHistoryPoint `json:"history"`
	GeneratedAt       time.Time           `json:"generatedAt"`
}
