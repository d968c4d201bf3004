package amadeus

import (
	"fmt"
	"strconv"
	"strings"

	"flightscout-service/internal/domain/entity"
	"flightscout-service/pkg/utils"
)

// mapOffer converts one provider offer to the canonical model
func mapOffer(dto offerDTO, params entity.SearchParams) (entity.FlightOffer, error) {
	if len(dto.Itineraries) == 0 {
		return entity.FlightOffer{}, fmt.Errorf("offer %s has no itineraries", dto.ID)
	}

	total, err := parseAmount(dto.Price.GrandTotal, dto.Price.Total)
	if err != nil {
		return entity.FlightOffer{}, fmt.Errorf("offer %s: %w", dto.ID, err)
	}

	outbound, err := mapItinerary(dto.Itineraries[0])
	if err != nil {
		return entity.FlightOffer{}, fmt.Errorf("offer %s outbound: %w", dto.ID, err)
	}

	offer := entity.FlightOffer{
		ID:     dto.ID,
		Source: Name,
		Price: entity.Price{
			Total:       total,
			Currency:    strings.ToUpper(dto.Price.Currency),
			PerTraveler: perTraveler(dto, total, params),
		},
		Outbound:               outbound,
		ValidatingCarrierCodes: dto.ValidatingAirlineCodes,
		CabinClass:             offerCabin(dto, params.CabinClass),
		BookableSeats:          dto.NumberOfBookableSeats,
	}
	if offer.Price.Currency == "" {
		offer.Price.Currency = params.Currency
	}

	if len(dto.Itineraries) > 1 {
		inbound, err := mapItinerary(dto.Itineraries[1])
		if err != nil {
			return entity.FlightOffer{}, fmt.Errorf("offer %s inbound: %w", dto.ID, err)
		}
		offer.Inbound = &inbound
	}

	return offer, nil
}

func mapItinerary(dto itineraryDTO) (entity.Leg, error) {
	segments := make([]entity.Segment, 0, len(dto.Segments))
	for _, s := range dto.Segments {
		dep, err := entity.ParseLocalDateTime(s.Departure.At)
		if err != nil {
			return entity.Leg{}, err
		}
		arr, err := entity.ParseLocalDateTime(s.Arrival.At)
		if err != nil {
			return entity.Leg{}, err
		}
		minutes, err := utils.ParseISODuration(s.Duration)
		if err != nil {
			minutes = 0
		}
		segments = append(segments, entity.Segment{
			CarrierCode:     strings.ToUpper(s.CarrierCode),
			FlightNumber:    s.Number,
			AircraftType:    s.Aircraft.Code,
			Departure:       entity.Endpoint{Airport: s.Departure.IataCode, Time: dep},
			Arrival:         entity.Endpoint{Airport: s.Arrival.IataCode, Time: arr},
			DurationMinutes: minutes,
		})
	}

	// a malformed itinerary duration falls back to the segment times
	minutes, err := utils.ParseISODuration(dto.Duration)
	if err != nil {
		minutes = 0
	}
	return entity.NewLeg(segments, minutes), nil
}

func offerCabin(dto offerDTO, requested entity.CabinClass) entity.CabinClass {
	for _, tp := range dto.TravelerPricings {
		for _, fd := range tp.FareDetailsBySegment {
			if cabin, ok := entity.ParseCabinClass(fd.Cabin); ok {
				return cabin
			}
		}
	}
	return requested
}

func perTraveler(dto offerDTO, total float64, params entity.SearchParams) float64 {
	for _, tp := range dto.TravelerPricings {
		if tp.TravelerType == "ADULT" {
			if v, err := strconv.ParseFloat(tp.Price.Total, 64); err == nil && v > 0 {
				return v
			}
		}
	}
	if n := params.Travelers(); n > 0 {
		return total / float64(n)
	}
	return total
}

// parseAmount returns the first amount that parses to a positive number
func parseAmount(values ...string) (float64, error) {
	for _, v := range values {
		if v == "" {
			continue
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f, nil
		}
	}
	return 0, fmt.Errorf("no valid price in %v", values)
}

// mapPriceMetrics reads the quartile amounts of the first metric set
func mapPriceMetrics(resp priceMetricsResponse, currency string) (*entity.PriceAnalytics, error) {
	if len(resp.Data) == 0 || len(resp.Data[0].PriceMetrics) == 0 {
		return nil, fmt.Errorf("no price metrics returned")
	}

	metric := resp.Data[0]
	analytics := &entity.PriceAnalytics{Source: Name, Currency: metric.CurrencyCode}
	if analytics.Currency == "" {
		analytics.Currency = currency
	}
	for _, pm := range metric.PriceMetrics {
		amount, err := strconv.ParseFloat(pm.Amount, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s amount %q: %w", pm.QuartileRanking, pm.Amount, err)
		}
		switch strings.ToUpper(pm.QuartileRanking) {
		case "MINIMUM":
			analytics.Minimum = amount
		case "FIRST":
			analytics.First = amount
		case "MEDIUM":
			analytics.Median = amount
		case "THIRD":
			analytics.Third = amount
		case "MAXIMUM":
			analytics.Maximum = amount
		}
	}
	return analytics, nil
}
