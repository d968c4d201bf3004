package entity

// RecommendationTier buckets the total score
type RecommendationTier string

const (
	TierExcellent  RecommendationTier = "excellent"
	TierGood       RecommendationTier = "good"
	TierAcceptable RecommendationTier = "acceptable"
	TierPoor       RecommendationTier = "poor"
)

// ScoreBreakdown holds one sub-score per factor, each in [0,100]
type ScoreBreakdown struct {
	Price    float64 `json:"price"`
	Comfort  float64 `json:"comfort"`
	Layovers float64 `json:"layovers"`
	Duration float64 `json:"duration"`
	Carrier  float64 `json:"carrier"`
	Timing   float64 `json:"timing"`
}

// ScoreResult is the outcome of scoring one offer
type ScoreResult struct {
	Total              float64            `json:"score"`
	Breakdown          ScoreBreakdown     `json:"scoreBreakdown"`
	RecommendationTier RecommendationTier `json:"recommendationTier"`
	Highlights         []string           `json:"highlights"`
}

// ScoredFlight is an offer together with its score
type ScoredFlight struct {
	FlightOffer
	Score              float64            `json:"score"`
	ScoreBreakdown     ScoreBreakdown     `json:"scoreBreakdown"`
	RecommendationTier RecommendationTier `json:"recommendationTier"`
	Highlights         []string           `json:"highlights"`
}
