package usecase

import (
	"strings"

	"flightscout-service/internal/domain/entity"
)

// FilterExcludedCarriers drops every offer with a denylisted validating or
// segment carrier. It returns the kept offers and the number removed.
func FilterExcludedCarriers(offers []entity.FlightOffer, denylist []string) ([]entity.FlightOffer, int) {
	if len(denylist) == 0 {
		return offers, 0
	}

	denied := make(map[string]bool, len(denylist))
	for _, c := range denylist {
		denied[strings.ToUpper(strings.TrimSpace(c))] = true
	}

	kept := make([]entity.FlightOffer, 0, len(offers))
	for _, offer := range offers {
		if hasDeniedCarrier(offer, denied) {
			continue
		}
		kept = append(kept, offer)
	}
	return kept, len(offers) - len(kept)
}

func hasDeniedCarrier(offer entity.FlightOffer, denied map[string]bool) bool {
	for _, c := range offer.CarrierCodes() {
		if denied[strings.ToUpper(strings.TrimSpace(c))] {
			return true
		}
	}
	return false
}

// filterDirectOnly drops offers with any stop on any leg
func filterDirectOnly(offers []entity.FlightOffer) []entity.FlightOffer {
	kept := make([]entity.FlightOffer, 0, len(offers))
	for _, offer := range offers {
		if offer.TotalStops() == 0 {
			kept = append(kept, offer)
		}
	}
	return kept
}
