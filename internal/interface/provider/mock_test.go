package provider

import (
	"testing"
	"time"

	"flightscout-service/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockParams() entity.SearchParams {
	return entity.SearchParams{
		Origin:        "PAR",
		Destination:   "NYC",
		DepartureDate: time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC),
		Adults:        1,
		CabinClass:    entity.CabinEconomy,
		Currency:      "EUR",
	}
}

func TestGenerateMockOffersIsDeterministic(t *testing.T) {
	first := GenerateMockOffers("amadeus-mock", mockParams())
	second := GenerateMockOffers("amadeus-mock", mockParams())

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)

	other := mockParams()
	other.Destination = "LON"
	assert.NotEqual(t, first, GenerateMockOffers("amadeus-mock", other))
}

func TestGenerateMockOffersAreValid(t *testing.T) {
	params := mockParams()
	ret := params.DepartureDate.AddDate(0, 0, 7)
	params.ReturnDate = &ret

	offers := GenerateMockOffers("tequila-mock", params)
	require.Len(t, offers, mockOfferCount)
	for i, o := range offers {
		assert.NoError(t, o.Validate())
		assert.Equal(t, "tequila-mock", o.Source)
		assert.Equal(t, "tequila-mock-"+string(rune('1'+i)), o.ID)
		assert.Equal(t, "PAR", o.Outbound.Departure.Airport)
		assert.Equal(t, "NYC", o.Outbound.Arrival.Airport)
		require.NotNil(t, o.Inbound)
		assert.Equal(t, "NYC", o.Inbound.Departure.Airport)
		assert.Equal(t, "2026-11-27", o.Inbound.Departure.Time.DateString())
		assert.Equal(t, "EUR", o.Price.Currency)
	}
}

func TestGenerateMockOffersHonorsDirectOnlyAndMaxResults(t *testing.T) {
	params := mockParams()
	params.DirectOnly = true
	params.MaxResults = 3

	offers := GenerateMockOffers("amadeus-mock", params)
	require.Len(t, offers, 3)
	for _, o := range offers {
		assert.Equal(t, 0, o.TotalStops())
	}
}

func TestGenerateMockOffersScalesWithTravelersAndCabin(t *testing.T) {
	single := GenerateMockOffers("amadeus-mock", mockParams())

	params := mockParams()
	params.CabinClass = entity.CabinFirst
	first := GenerateMockOffers("amadeus-mock", params)

	var economyTotal, firstTotal float64
	for i := range single {
		economyTotal += single[i].Price.Total
		firstTotal += first[i].Price.Total
		assert.Equal(t, entity.CabinFirst, first[i].CabinClass)
	}
	assert.Greater(t, firstTotal, economyTotal)

	for _, o := range single {
		assert.InDelta(t, o.Price.PerTraveler, o.Price.Total, 0.01)
	}
}
