package tequila

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"flightscout-service/internal/domain/entity"
	"flightscout-service/pkg/utils"
)

var cabinCodes = map[entity.CabinClass]string{
	entity.CabinEconomy:        "M",
	entity.CabinPremiumEconomy: "W",
	entity.CabinBusiness:       "C",
	entity.CabinFirst:          "F",
}

// cabinCode maps a canonical cabin to the Tequila selected_cabins code
func cabinCode(cabin entity.CabinClass) string {
	if code, ok := cabinCodes[cabin]; ok {
		return code
	}
	return cabinCodes[entity.CabinEconomy]
}

func cabinFromCode(code string) (entity.CabinClass, bool) {
	for cabin, c := range cabinCodes {
		if strings.EqualFold(c, code) {
			return cabin, true
		}
	}
	return "", false
}

// mapOffer splits the flat route into outbound and inbound legs by the return flag
func mapOffer(dto offerDTO, currency string, params entity.SearchParams) (entity.FlightOffer, error) {
	if dto.Price <= 0 {
		return entity.FlightOffer{}, fmt.Errorf("offer %s has no price", dto.ID)
	}

	var outbound, inbound []entity.Segment
	cabin := params.CabinClass
	for _, r := range dto.Route {
		seg, err := mapSegment(r)
		if err != nil {
			return entity.FlightOffer{}, fmt.Errorf("offer %s: %w", dto.ID, err)
		}
		if c, ok := cabinFromCode(r.FareCategory); ok {
			cabin = c
		}
		if r.Return == 1 {
			inbound = append(inbound, seg)
		} else {
			outbound = append(outbound, seg)
		}
	}
	if len(outbound) == 0 {
		return entity.FlightOffer{}, fmt.Errorf("offer %s has no outbound segments", dto.ID)
	}

	travelers := params.Travelers()
	if travelers < 1 {
		travelers = 1
	}
	offer := entity.FlightOffer{
		ID:     dto.ID,
		Source: Name,
		Price: entity.Price{
			Total:       dto.Price,
			Currency:    strings.ToUpper(currency),
			PerTraveler: dto.Price / float64(travelers),
		},
		Outbound:               entity.NewLeg(outbound, dto.Duration.Departure/60),
		ValidatingCarrierCodes: dto.Airlines,
		CabinClass:             cabin,
	}
	if offer.Price.Currency == "" {
		offer.Price.Currency = params.Currency
	}
	if dto.Availability.Seats != nil {
		offer.BookableSeats = *dto.Availability.Seats
	}
	if len(inbound) > 0 {
		leg := entity.NewLeg(inbound, dto.Duration.Return/60)
		offer.Inbound = &leg
	}
	return offer, nil
}

func mapSegment(r routeDTO) (entity.Segment, error) {
	dep, err := entity.ParseLocalDateTime(r.LocalDeparture)
	if err != nil {
		return entity.Segment{}, err
	}
	arr, err := entity.ParseLocalDateTime(r.LocalArrival)
	if err != nil {
		return entity.Segment{}, err
	}

	seg := entity.Segment{
		CarrierCode:     strings.ToUpper(r.Airline),
		FlightNumber:    strconv.Itoa(r.FlightNo),
		Departure:       entity.Endpoint{Airport: r.FlyFrom, Time: dep},
		Arrival:         entity.Endpoint{Airport: r.FlyTo, Time: arr},
		DurationMinutes: utcMinutes(r.UTCDeparture, r.UTCArrival),
	}
	if r.Equipment != nil {
		seg.AircraftType = *r.Equipment
	}
	return seg, nil
}

// utcMinutes is the flown time of a segment; local times cannot be subtracted across zones
func utcMinutes(departure, arrival string) int {
	dep, err := time.Parse(time.RFC3339, departure)
	if err != nil {
		return 0
	}
	arr, err := time.Parse(time.RFC3339, arrival)
	if err != nil {
		return 0
	}
	return utils.MinutesBetween(dep, arr)
}
