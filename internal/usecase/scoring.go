package usecase

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"flightscout-service/internal/domain/entity"
)

// Factor weights in percent. They must sum to exactly 100.
const (
	WeightPrice    = 35
	WeightComfort  = 20
	WeightLayovers = 15
	WeightDuration = 15
	WeightCarrier  = 10
	WeightTiming   = 5
)

// neutralScore is used for any factor whose input is missing or malformed
const neutralScore = 50.0

var budgetMultipliers = map[entity.BudgetTier]float64{
	entity.BudgetLow:    0.7,
	entity.BudgetMedium: 1.0,
	entity.BudgetHigh:   1.5,
	entity.BudgetLuxury: 2.5,
}

var cabinComfort = map[entity.CabinClass]float64{
	entity.CabinEconomy:        60,
	entity.CabinPremiumEconomy: 75,
	entity.CabinBusiness:       90,
	entity.CabinFirst:          100,
}

// IATA equipment codes of twin-aisle aircraft
var wideBodyAircraft = map[string]bool{
	"330": true, "332": true, "333": true, "338": true, "339": true,
	"340": true, "343": true, "346": true,
	"350": true, "351": true, "359": true,
	"380": true, "388": true,
	"744": true, "747": true, "748": true, "74H": true,
	"763": true, "764": true, "767": true,
	"772": true, "773": true, "777": true, "77L": true, "77W": true,
	"787": true, "788": true, "789": true, "78X": true,
}

// ScoringConfig configures the scoring engine
type ScoringConfig struct {
	// PriceReference is the medium-budget price ceiling
	PriceReference float64
}

// ScoringEngine rates offers against a traveler profile. It is stateless and
// safe for concurrent use.
type ScoringEngine struct {
	priceReference float64
}

// NewScoringEngine creates a new scoring engine
func NewScoringEngine(config ScoringConfig) (*ScoringEngine, error) {
	if config.PriceReference <= 0 || math.IsNaN(config.PriceReference) || math.IsInf(config.PriceReference, 0) {
		return nil, fmt.Errorf("scoring: price reference must be a positive number, got %v", config.PriceReference)
	}
	return &ScoringEngine{priceReference: config.PriceReference}, nil
}

// Score rates one offer. A nil profile is replaced by the default profile.
func (e *ScoringEngine) Score(offer entity.FlightOffer, profile *entity.TravelerProfile) entity.ScoreResult {
	p := entity.ResolveProfile(profile)

	breakdown := entity.ScoreBreakdown{
		Price:    clampScore(e.priceScore(offer, p)),
		Comfort:  clampScore(comfortScore(offer)),
		Layovers: clampScore(layoverScore(offer, p)),
		Duration: clampScore(durationScore(offer)),
		Carrier:  clampScore(carrierScore(offer, p)),
		Timing:   clampScore(timingScore(offer)),
	}

	weighted := breakdown.Price*WeightPrice +
		breakdown.Comfort*WeightComfort +
		breakdown.Layovers*WeightLayovers +
		breakdown.Duration*WeightDuration +
		breakdown.Carrier*WeightCarrier +
		breakdown.Timing*WeightTiming
	total := math.Round(weighted) / 100

	return entity.ScoreResult{
		Total:              total,
		Breakdown:          breakdown,
		RecommendationTier: recommendationTier(total),
		Highlights:         highlights(breakdown),
	}
}

// Rank scores offers and orders them by score descending, then price ascending
func (e *ScoringEngine) Rank(offers []entity.FlightOffer, profile *entity.TravelerProfile) []entity.ScoredFlight {
	scored := make([]entity.ScoredFlight, 0, len(offers))
	for _, offer := range offers {
		result := e.Score(offer, profile)
		scored = append(scored, entity.ScoredFlight{
			FlightOffer:        offer,
			Score:              result.Total,
			ScoreBreakdown:     result.Breakdown,
			RecommendationTier: result.RecommendationTier,
			Highlights:         result.Highlights,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Price.Total < scored[j].Price.Total
	})
	return scored
}

func (e *ScoringEngine) priceScore(offer entity.FlightOffer, p entity.TravelerProfile) float64 {
	total := offer.Price.Total
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return neutralScore
	}
	ceiling := e.priceReference * budgetMultipliers[p.BudgetTier]
	return math.Max(0, 100-100*total/ceiling)
}

func comfortScore(offer entity.FlightOffer) float64 {
	score, ok := cabinComfort[offer.CabinClass]
	if !ok {
		score = cabinComfort[entity.CabinEconomy]
	}

	nonstop := true
	wideBody := false
	for _, leg := range offer.Legs() {
		if len(leg.Segments) == 0 {
			nonstop = false
		}
		if !leg.IsNonstop() {
			nonstop = false
		}
		for _, s := range leg.Segments {
			if wideBodyAircraft[strings.ToUpper(strings.TrimSpace(s.AircraftType))] {
				wideBody = true
			}
		}
	}
	if nonstop {
		score += 10
	}
	if wideBody {
		score += 5
	}
	return math.Min(score, 100)
}

func layoverScore(offer entity.FlightOffer, p entity.TravelerProfile) float64 {
	actual := offer.TotalStops()
	if actual < 0 {
		return neutralScore
	}
	if actual <= p.MaxLayovers {
		return 100 - 25*float64(actual)
	}
	return 50 - 10*float64(actual)
}

func durationScore(offer entity.FlightOffer) float64 {
	minutes := offer.TotalDurationMinutes()
	switch {
	case minutes <= 0:
		return neutralScore
	case minutes <= 240:
		return 100
	case minutes <= 480:
		return 75
	case minutes <= 720:
		return 50
	default:
		return math.Max(25, 100-float64(minutes)/20)
	}
}

func carrierScore(offer entity.FlightOffer, p entity.TravelerProfile) float64 {
	if len(p.PreferredCarriers) == 0 {
		return 70
	}

	preferred := make(map[string]bool, len(p.PreferredCarriers))
	for _, c := range p.PreferredCarriers {
		preferred[c] = true
	}

	carriers := offer.ValidatingCarrierCodes
	if len(carriers) == 0 {
		for _, leg := range offer.Legs() {
			for _, s := range leg.Segments {
				carriers = append(carriers, s.CarrierCode)
			}
		}
	}
	for _, c := range carriers {
		if preferred[strings.ToUpper(strings.TrimSpace(c))] {
			return 100
		}
	}
	return 50
}

func timingScore(offer entity.FlightOffer) float64 {
	departure := offer.Outbound.Departure.Time
	if departure.IsZero() {
		return neutralScore
	}

	switch hour := departure.Hour(); {
	case hour >= 8 && hour <= 12:
		return 100
	case hour >= 14 && hour <= 18:
		return 90
	case hour >= 6 && hour < 8:
		return 80
	case hour > 18 && hour <= 22:
		return 75
	default:
		return 50
	}
}

func recommendationTier(total float64) entity.RecommendationTier {
	switch {
	case total >= 85:
		return entity.TierExcellent
	case total >= 70:
		return entity.TierGood
	case total >= 55:
		return entity.TierAcceptable
	default:
		return entity.TierPoor
	}
}

func highlights(b entity.ScoreBreakdown) []string {
	labels := []string{}
	if b.Price >= 80 {
		labels = append(labels, "best price")
	}
	if b.Layovers >= 90 {
		labels = append(labels, "nonstop")
	}
	if b.Comfort >= 85 {
		labels = append(labels, "high comfort")
	}
	if b.Duration >= 80 {
		labels = append(labels, "short duration")
	}
	if b.Carrier >= 90 {
		labels = append(labels, "preferred carrier")
	}
	return labels
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) {
		return neutralScore
	}
	return math.Max(0, math.Min(100, v))
}
