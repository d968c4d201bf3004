package usecase

import (
	"testing"

	"flightscout-service/internal/domain/entity"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var (
	propertyCabins  = []entity.CabinClass{entity.CabinEconomy, entity.CabinPremiumEconomy, entity.CabinBusiness, entity.CabinFirst, ""}
	propertyBudgets = []entity.BudgetTier{entity.BudgetLow, entity.BudgetMedium, entity.BudgetHigh, entity.BudgetLuxury, "bogus"}
)

func inRange(v float64) bool {
	return v >= 0 && v <= 100
}

func TestScoreIsBounded(t *testing.T) {
	engine, _ := NewScoringEngine(ScoringConfig{PriceReference: 500})

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("every sub-score and the total stay within [0,100]", prop.ForAll(
		func(price float64, stops, minutes, hour, cabin, budget, maxLayovers int) bool {
			offer := testOffer("P", price, stops, propertyCabins[cabin], minutes, hour)
			profile := &entity.TravelerProfile{
				BudgetTier:  propertyBudgets[budget],
				MaxLayovers: maxLayovers,
			}
			r := engine.Score(offer, profile)
			b := r.Breakdown
			return inRange(r.Total) && inRange(b.Price) && inRange(b.Comfort) && inRange(b.Layovers) &&
				inRange(b.Duration) && inRange(b.Carrier) && inRange(b.Timing)
		},
		gen.Float64Range(-50, 20000),
		gen.IntRange(0, 5),
		gen.IntRange(-30, 4000),
		gen.IntRange(0, 23),
		gen.IntRange(0, len(propertyCabins)-1),
		gen.IntRange(0, len(propertyBudgets)-1),
		gen.IntRange(-1, 6),
	))

	properties.TestingRun(t)
}

func TestSubScoresAreMonotonic(t *testing.T) {
	engine, _ := NewScoringEngine(ScoringConfig{PriceReference: 500})

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("a lower price never lowers the price sub-score", prop.ForAll(
		func(price, discount float64, budget int) bool {
			profile := &entity.TravelerProfile{BudgetTier: propertyBudgets[budget]}
			expensive := engine.Score(testOffer("P", price, 0, entity.CabinEconomy, 300, 9), profile)
			cheaper := engine.Score(testOffer("P", price*discount, 0, entity.CabinEconomy, 300, 9), profile)
			return cheaper.Breakdown.Price >= expensive.Breakdown.Price
		},
		gen.Float64Range(1, 10000),
		gen.Float64Range(0.01, 1),
		gen.IntRange(0, len(propertyBudgets)-1),
	))

	properties.Property("fewer stops never lower the layover sub-score", prop.ForAll(
		func(stops, fewer, maxLayovers int) bool {
			if fewer > stops {
				fewer = stops
			}
			profile := &entity.TravelerProfile{MaxLayovers: maxLayovers}
			more := engine.Score(testOffer("P", 300, stops, entity.CabinEconomy, 300, 9), profile)
			less := engine.Score(testOffer("P", 300, fewer, entity.CabinEconomy, 300, 9), profile)
			return less.Breakdown.Layovers >= more.Breakdown.Layovers
		},
		gen.IntRange(0, 6),
		gen.IntRange(0, 6),
		gen.IntRange(0, 6),
	))

	properties.TestingRun(t)
}
