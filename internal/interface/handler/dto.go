package handler

import (
	"strings"
	"time"

	"flightscout-service/internal/domain/entity"
)

// SearchRequest is the body of POST /api/v1/flights/search
type SearchRequest struct {
	Origin        string          `json:"origin" binding:"required"`
	Destination   string          `json:"destination" binding:"required"`
	DepartureDate string          `json:"departureDate" binding:"required"`
	ReturnDate    string          `json:"returnDate"`
	Adults        int             `json:"adults"`
	Children      int             `json:"children"`
	Infants       int             `json:"infants"`
	CabinClass    string          `json:"cabinClass"`
	DirectOnly    bool            `json:"directOnly"`
	MaxResults    int             `json:"maxResults"`
	Currency      string          `json:"currency"`
	Sources       []string        `json:"sources"`
	Profile       *ProfileRequest `json:"profile"`
}

// ProfileRequest carries optional traveler preferences
type ProfileRequest struct {
	BudgetTier        string   `json:"budgetTier"`
	ComfortTier       string   `json:"comfortTier"`
	MaxLayovers       *int     `json:"maxLayovers"`
	PreferredCarriers []string `json:"preferredCarriers"`
	SeatPreference    string   `json:"seatPreference"`
	MealPreference    string   `json:"mealPreference"`
}

// ErrorBody is the error envelope of every failed request
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// ToParams converts the request into search parameters
func (r SearchRequest) ToParams() (entity.SearchParams, error) {
	departure, err := parseDate("departureDate", r.DepartureDate)
	if err != nil {
		return entity.SearchParams{}, err
	}

	params := entity.SearchParams{
		Origin:        r.Origin,
		Destination:   r.Destination,
		DepartureDate: departure,
		Adults:        r.Adults,
		Children:      r.Children,
		Infants:       r.Infants,
		CabinClass:    entity.CabinClass(r.CabinClass),
		DirectOnly:    r.DirectOnly,
		MaxResults:    r.MaxResults,
		Currency:      r.Currency,
		Sources:       r.Sources,
	}
	if cabin, ok := entity.ParseCabinClass(r.CabinClass); ok {
		params.CabinClass = cabin
	}
	if strings.TrimSpace(r.ReturnDate) != "" {
		ret, err := parseDate("returnDate", r.ReturnDate)
		if err != nil {
			return entity.SearchParams{}, err
		}
		params.ReturnDate = &ret
	}
	return params, nil
}

// ToProfile returns nil when no profile was sent
func (r SearchRequest) ToProfile() *entity.TravelerProfile {
	if r.Profile == nil {
		return nil
	}
	profile := &entity.TravelerProfile{
		BudgetTier:        entity.BudgetTier(r.Profile.BudgetTier),
		ComfortTier:       entity.CabinClass(r.Profile.ComfortTier),
		MaxLayovers:       entity.DefaultMaxLayovers,
		PreferredCarriers: r.Profile.PreferredCarriers,
		SeatPreference:    r.Profile.SeatPreference,
		MealPreference:    r.Profile.MealPreference,
	}
	if r.Profile.MaxLayovers != nil {
		profile.MaxLayovers = *r.Profile.MaxLayovers
	}
	return profile
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(entity.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, &entity.ValidationError{Field: field, Message: "must be a date formatted as YYYY-MM-DD"}
	}
	return t, nil
}
