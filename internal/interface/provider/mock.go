package provider

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"strings"
	"time"

	"flightscout-service/internal/domain/entity"
)

const mockOfferCount = 6

var (
	mockCarriers = []string{"AF", "BA", "DL", "IB", "KL", "LH", "LX", "UA"}
	mockHubs     = []string{"AMS", "CDG", "FRA", "IST", "LHR", "MAD", "MUC", "ZRH"}
	mockAircraft = []string{"320", "321", "738", "789", "77W", "359"}
)

var mockCabinFactor = map[entity.CabinClass]float64{
	entity.CabinEconomy:        1.0,
	entity.CabinPremiumEconomy: 1.6,
	entity.CabinBusiness:       3.2,
	entity.CabinFirst:          5.5,
}

// GenerateMockOffers builds a plausible synthetic offer set for params. The
// set is a pure function of source and params: the same request always yields
// the same offers. The cabin only scales prices, so cabins of one route share
// an itinerary set.
func GenerateMockOffers(source string, params entity.SearchParams) []entity.FlightOffer {
	rng := rand.New(rand.NewSource(mockSeed(source, params)))

	cabin, ok := entity.ParseCabinClass(string(params.CabinClass))
	if !ok {
		cabin = entity.CabinEconomy
	}
	currency := strings.ToUpper(params.Currency)
	if currency == "" {
		currency = "EUR"
	}
	payingTravelers := params.Adults + params.Children
	if payingTravelers < 1 {
		payingTravelers = 1
	}

	count := mockOfferCount
	if params.MaxResults > 0 && params.MaxResults < count {
		count = params.MaxResults
	}

	basePrice := 120 + float64(rng.Intn(480))
	baseMinutes := 75 + rng.Intn(600)

	offers := make([]entity.FlightOffer, 0, count)
	for i := 0; i < count; i++ {
		stops := 0
		if !params.DirectOnly {
			stops = rng.Intn(2)
		}
		carrier := mockCarriers[rng.Intn(len(mockCarriers))]

		outbound := mockLeg(rng, params.Origin, params.Destination, params.DepartureDate, stops, baseMinutes, carrier)
		var inbound *entity.Leg
		if params.ReturnDate != nil {
			leg := mockLeg(rng, params.Destination, params.Origin, *params.ReturnDate, stops, baseMinutes, carrier)
			inbound = &leg
		}

		stopFactor := 1.15
		if stops > 0 {
			stopFactor = 0.9
		}
		perTraveler := basePrice * mockCabinFactor[cabin] * stopFactor * (0.85 + rng.Float64()*0.3)
		if inbound != nil {
			perTraveler *= 1.8
		}
		perTraveler = round2(perTraveler)
		total := round2(perTraveler*float64(payingTravelers) + perTraveler*0.1*float64(params.Infants))

		offers = append(offers, entity.FlightOffer{
			ID:     fmt.Sprintf("%s-%d", source, i+1),
			Source: source,
			Price: entity.Price{
				Total:       total,
				Currency:    currency,
				PerTraveler: perTraveler,
			},
			Outbound:               outbound,
			Inbound:                inbound,
			ValidatingCarrierCodes: []string{carrier},
			CabinClass:             cabin,
			BookableSeats:          1 + rng.Intn(9),
		})
	}
	return offers
}

func mockLeg(rng *rand.Rand, from, to string, date time.Time, stops, baseMinutes int, carrier string) entity.Leg {
	departure := time.Date(date.Year(), date.Month(), date.Day(), 6+rng.Intn(16), 15*rng.Intn(4), 0, 0, time.UTC)

	airports := []string{from}
	if stops > 0 {
		start := rng.Intn(len(mockHubs))
		for i := 0; i < len(mockHubs); i++ {
			hub := mockHubs[(start+i)%len(mockHubs)]
			if hub != from && hub != to {
				airports = append(airports, hub)
				break
			}
		}
	}
	airports = append(airports, to)

	hops := len(airports) - 1
	segments := make([]entity.Segment, 0, hops)
	at := departure
	for i := 0; i < hops; i++ {
		minutes := baseMinutes/hops + rng.Intn(45)
		arrival := at.Add(time.Duration(minutes) * time.Minute)
		segments = append(segments, entity.Segment{
			CarrierCode:     carrier,
			FlightNumber:    fmt.Sprintf("%d", 100+rng.Intn(8900)),
			AircraftType:    mockAircraft[rng.Intn(len(mockAircraft))],
			Departure:       entity.Endpoint{Airport: airports[i], Time: entity.LocalDateTime{Time: at}},
			Arrival:         entity.Endpoint{Airport: airports[i+1], Time: entity.LocalDateTime{Time: arrival}},
			DurationMinutes: minutes,
		})
		// layover before the next hop
		at = arrival.Add(time.Duration(60+rng.Intn(120)) * time.Minute)
	}

	last := segments[len(segments)-1].Arrival.Time.Time
	return entity.NewLeg(segments, int(last.Sub(departure).Minutes()))
}

func mockSeed(source string, params entity.SearchParams) int64 {
	returnDate := ""
	if params.ReturnDate != nil {
		returnDate = params.ReturnDate.Format(entity.DateLayout)
	}
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s|%s|%s|%d|%d|%d|%t",
		source,
		strings.ToUpper(params.Origin),
		strings.ToUpper(params.Destination),
		params.DepartureDate.Format(entity.DateLayout),
		returnDate,
		params.Adults,
		params.Children,
		params.Infants,
		params.DirectOnly,
	)
	return int64(h.Sum64())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
