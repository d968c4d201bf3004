package entity

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used in search requests
const DateLayout = "2006-01-02"

// MaxTravelers is the largest party a single search may price
const MaxTravelers = 9

// ErrNoOffers signals that no provider produced a usable offer for the search
var ErrNoOffers = errors.New("no flight offers available")

// ValidationError describes a rejected search or prediction request
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

var iataPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// IsIATACode reports whether code is a three-letter uppercase location code
func IsIATACode(code string) bool {
	return iataPattern.MatchString(code)
}

// RouteKey identifies a price-history time series
type RouteKey struct {
	Origin      string `json:"origin" bson:"origin"`
	Destination string `json:"destination" bson:"destination"`
}

// NewRouteKey normalizes the codes to uppercase
func NewRouteKey(origin, destination string) RouteKey {
	return RouteKey{
		Origin:      strings.ToUpper(strings.TrimSpace(origin)),
		Destination: strings.ToUpper(strings.TrimSpace(destination)),
	}
}

func (k RouteKey) String() string {
	return k.Origin + "-" + k.Destination
}

// SearchParams is the provider-facing search request
type SearchParams struct {
	Origin        string
	Destination   string
	DepartureDate time.Time
	ReturnDate    *time.Time
	Adults        int
	Children      int
	Infants       int
	CabinClass    CabinClass
	DirectOnly    bool
	MaxResults    int
	Currency      string
	Sources       []string
}

// Route returns the route key of the search
func (p SearchParams) Route() RouteKey {
	return NewRouteKey(p.Origin, p.Destination)
}

// Travelers counts every passenger of the search
func (p SearchParams) Travelers() int {
	return p.Adults + p.Children + p.Infants
}

// Normalize uppercases codes and fills defaults for optional fields
func (p *SearchParams) Normalize(defaultCurrency string) {
	p.Origin = strings.ToUpper(strings.TrimSpace(p.Origin))
	p.Destination = strings.ToUpper(strings.TrimSpace(p.Destination))
	if p.Adults == 0 && p.Children == 0 && p.Infants == 0 {
		p.Adults = 1
	}
	if p.CabinClass == "" {
		p.CabinClass = CabinEconomy
	}
	if cabin, ok := ParseCabinClass(string(p.CabinClass)); ok {
		p.CabinClass = cabin
	}
	if p.Currency == "" {
		p.Currency = defaultCurrency
	}
	p.Currency = strings.ToUpper(p.Currency)
}

// Validate checks a normalized search request
func (p SearchParams) Validate() error {
	if !IsIATACode(p.Origin) {
		return &ValidationError{Field: "origin", Message: "must be a 3-letter IATA code"}
	}
	if !IsIATACode(p.Destination) {
		return &ValidationError{Field: "destination", Message: "must be a 3-letter IATA code"}
	}
	if p.Origin == p.Destination {
		return &ValidationError{Field: "destination", Message: "must differ from origin"}
	}
	if p.DepartureDate.IsZero() {
		return &ValidationError{Field: "departureDate", Message: "is required"}
	}
	if p.ReturnDate != nil && p.ReturnDate.Before(p.DepartureDate) {
		return &ValidationError{Field: "returnDate", Message: "must not be before departureDate"}
	}
	if p.Adults < 1 {
		return &ValidationError{Field: "adults", Message: "at least one adult is required"}
	}
	if p.Children < 0 || p.Infants < 0 {
		return &ValidationError{Field: "travelers", Message: "counts must not be negative"}
	}
	if p.Infants > p.Adults {
		return &ValidationError{Field: "infants", Message: "each infant must travel with an adult"}
	}
	if p.Travelers() > MaxTravelers {
		return &ValidationError{Field: "travelers", Message: fmt.Sprintf("at most %d travelers per search", MaxTravelers)}
	}
	if _, ok := ParseCabinClass(string(p.CabinClass)); !ok {
		return &ValidationError{Field: "cabinClass", Message: "must be one of ECONOMY, PREMIUM_ECONOMY, BUSINESS, FIRST"}
	}
	if p.MaxResults < 0 {
		return &ValidationError{Field: "maxResults", Message: "must not be negative"}
	}
	return nil
}

// SearchMeta describes how a result set was produced
type SearchMeta struct {
	SearchID     string    `json:"searchId"`
	TotalResults int       `json:"totalResults"`
	Sources      []string  `json:"sources"`
	SearchTimeMs int64     `json:"searchTimeMs"`
	Timestamp    time.Time `json:"timestamp"`
	Excluded     int       `json:"excluded"`
	Deduplicated int       `json:"deduplicated"`
}

// SearchResult is the ranked answer to a search
type SearchResult struct {
	Flights []ScoredFlight `json:"flights"`
	Meta    SearchMeta     `json:"meta"`
}
