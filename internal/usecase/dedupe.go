package usecase

import (
	"fmt"

	"flightscout-service/internal/domain/entity"
)

// ItineraryKey identifies offers that fly the same schedule. Only airports,
// departure date and stop count take part, so republished fares collide.
func ItineraryKey(offer entity.FlightOffer) string {
	key := legKey(offer.Outbound)
	if offer.Inbound != nil {
		key += "|" + legKey(*offer.Inbound)
	}
	return key
}

func legKey(leg entity.Leg) string {
	return fmt.Sprintf("%s-%s-%s-%d", leg.Departure.Airport, leg.Arrival.Airport, leg.Departure.Time.DateString(), leg.StopCount)
}

// DeduplicateOffers keeps the cheapest offer per itinerary key. The first
// seen offer wins a price tie and the output follows first-seen key order.
func DeduplicateOffers(offers []entity.FlightOffer) []entity.FlightOffer {
	index := make(map[string]int, len(offers))
	out := make([]entity.FlightOffer, 0, len(offers))

	for _, offer := range offers {
		key := ItineraryKey(offer)
		if i, seen := index[key]; seen {
			if offer.Price.Total < out[i].Price.Total {
				out[i] = offer
			}
			continue
		}
		index[key] = len(out)
		out = append(out, offer)
	}
	return out
}
