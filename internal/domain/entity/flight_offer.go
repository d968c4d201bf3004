// internal/domain/entity/flight_offer.go
package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// LocalDateTimeLayout is the airport-local wall clock format used by providers
const LocalDateTimeLayout = "2006-01-02T15:04:05"

// LocalDateTime is an airport-local wall clock time. It carries no zone;
// the location field of the embedded time is always UTC and must be ignored.
type LocalDateTime struct {
	time.Time
}

// ParseLocalDateTime parses provider timestamps, tolerating a trailing zone or missing seconds
func ParseLocalDateTime(value string) (LocalDateTime, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return LocalDateTime{}, nil
	}
	for _, layout := range []string{LocalDateTimeLayout, "2006-01-02T15:04", time.RFC3339, "2006-01-02T15:04:05.000Z"} {
		if t, err := time.Parse(layout, value); err == nil {
			return LocalDateTime{Time: time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)}, nil
		}
	}
	return LocalDateTime{}, fmt.Errorf("invalid local date time: %q", value)
}

// DateString returns the calendar date part, or "" when unset
func (t LocalDateTime) DateString() string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func (t LocalDateTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + t.Format(LocalDateTimeLayout) + `"`), nil
}

func (t *LocalDateTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		*t = LocalDateTime{}
		return nil
	}
	parsed, err := ParseLocalDateTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Price of an offer for all travelers
type Price struct {
	Total       float64 `json:"total"`
	Currency    string  `json:"currency"`
	PerTraveler float64 `json:"perTraveler"`
}

// Endpoint is an airport and the local time at that airport
type Endpoint struct {
	Airport string        `json:"airport"`
	Time    LocalDateTime `json:"time"`
}

// Segment is a single flown flight number between two airports
type Segment struct {
	CarrierCode     string   `json:"carrierCode"`
	FlightNumber    string   `json:"flightNumber"`
	AircraftType    string   `json:"aircraftType,omitempty"`
	Departure       Endpoint `json:"departure"`
	Arrival         Endpoint `json:"arrival"`
	DurationMinutes int      `json:"durationMinutes"`
}

// Leg is one direction of travel
type Leg struct {
	Departure       Endpoint  `json:"departure"`
	Arrival         Endpoint  `json:"arrival"`
	DurationMinutes int       `json:"durationMinutes"`
	StopCount       int       `json:"stopCount"`
	Segments        []Segment `json:"segments"`
}

// NewLeg builds a leg from its ordered segments. When durationMinutes is not
// positive it is derived from the first departure and last arrival.
func NewLeg(segments []Segment, durationMinutes int) Leg {
	leg := Leg{Segments: segments}
	if len(segments) == 0 {
		return leg
	}
	first, last := segments[0], segments[len(segments)-1]
	leg.Departure = first.Departure
	leg.Arrival = last.Arrival
	leg.StopCount = len(segments) - 1

	if durationMinutes <= 0 {
		durationMinutes = 0
		if !first.Departure.Time.IsZero() && last.Arrival.Time.After(first.Departure.Time.Time) {
			durationMinutes = int(last.Arrival.Time.Sub(first.Departure.Time.Time).Minutes())
		} else {
			for _, s := range segments {
				durationMinutes += s.DurationMinutes
			}
		}
	}
	leg.DurationMinutes = durationMinutes
	return leg
}

// IsNonstop reports whether the leg has no intermediate stop
func (l Leg) IsNonstop() bool {
	return l.StopCount == 0
}

// FlightOffer is the canonical provider-agnostic itinerary
type FlightOffer struct {
	ID                     string     `json:"id"`
	Source                 string     `json:"source"`
	Price                  Price      `json:"price"`
	Outbound               Leg        `json:"outbound"`
	Inbound                *Leg       `json:"inbound,omitempty"`
	ValidatingCarrierCodes []string   `json:"validatingCarrierCodes"`
	CabinClass             CabinClass `json:"cabinClass,omitempty"`
	BookableSeats          int        `json:"bookableSeats,omitempty"`
}

// Legs returns the outbound leg followed by the inbound leg when present
func (o FlightOffer) Legs() []Leg {
	if o.Inbound == nil {
		return []Leg{o.Outbound}
	}
	return []Leg{o.Outbound, *o.Inbound}
}

// TotalStops sums stops over all legs
func (o FlightOffer) TotalStops() int {
	stops := 0
	for _, leg := range o.Legs() {
		stops += leg.StopCount
	}
	return stops
}

// TotalDurationMinutes sums duration over all legs
func (o FlightOffer) TotalDurationMinutes() int {
	minutes := 0
	for _, leg := range o.Legs() {
		minutes += leg.DurationMinutes
	}
	return minutes
}

// CarrierCodes returns every carrier on the offer: validating carriers then segment carriers
func (o FlightOffer) CarrierCodes() []string {
	codes := append([]string{}, o.ValidatingCarrierCodes...)
	for _, leg := range o.Legs() {
		for _, s := range leg.Segments {
			codes = append(codes, s.CarrierCode)
		}
	}
	return codes
}

// Validate checks the canonical invariants
func (o FlightOffer) Validate() error {
	var errs []error
	if o.Price.Total <= 0 {
		errs = append(errs, fmt.Errorf("offer %s: price total must be positive, got %.2f", o.ID, o.Price.Total))
	}
	for i, leg := range o.Legs() {
		if len(leg.Segments) == 0 {
			errs = append(errs, fmt.Errorf("offer %s: leg %d has no segments", o.ID, i))
			continue
		}
		if leg.StopCount != len(leg.Segments)-1 {
			errs = append(errs, fmt.Errorf("offer %s: leg %d stop count %d does not match %d segments", o.ID, i, leg.StopCount, len(leg.Segments)))
		}
		if leg.DurationMinutes < 0 {
			errs = append(errs, fmt.Errorf("offer %s: leg %d has negative duration", o.ID, i))
		}
	}
	return errors.Join(errs...)
}
