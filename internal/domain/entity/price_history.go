// internal/domain/entity/price_history.go
package entity

import (
	"time"
)

// PriceHistoryPoint summarizes the prices of one aggregation run for a route.
// Points are immutable once written.
type PriceHistoryPoint struct {
	ID                  string     `json:"id,omitempty" bson:"_id,omitempty"`
	RouteKey            string     `json:"routeKey" bson:"routeKey"`
	Origin              string     `json:"origin" bson:"origin"`
	Destination         string     `json:"destination" bson:"destination"`
	SearchDate          time.Time  `json:"searchDate" bson:"searchDate"`
	DepartureDate       time.Time  `json:"departureDate" bson:"departureDate"`
	CabinClass          CabinClass `json:"cabinClass" bson:"cabinClass"`
	AvgPrice            float64    `json:"avgPrice" bson:"avgPrice"`
	MinPrice            float64    `json:"minPrice" bson:"minPrice"`
	MaxPrice            float64    `json:"maxPrice" bson:"maxPrice"`
	SampleSize          int        `json:"sampleSize" bson:"sampleSize"`
	Currency            string     `json:"currency" bson:"currency"`
	DayOfWeek           int        `json:"dayOfWeek" bson:"dayOfWeek"`
	IsWeekend           bool       `json:"isWeekend" bson:"isWeekend"`
	DaysBeforeDeparture int        `json:"daysBeforeDeparture" bson:"daysBeforeDeparture"`
	Source              string     `json:"source" bson:"source"`
	CreatedAt           time.Time  `json:"createdAt" bson:"createdAt"`
}

// SearchRecord is the search-history entry kept for identified requesters
type SearchRecord struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	DepartureDate time.Time  `json:"departureDate"`
	ReturnDate    *time.Time `json:"returnDate,omitempty"`
	Adults        int        `json:"adults"`
	Children      int        `json:"children"`
	Infants       int        `json:"infants"`
	CabinClass    CabinClass `json:"cabinClass"`
	ResultCount   int        `json:"resultCount"`
	CheapestPrice float64    `json:"cheapestPrice"`
	Currency      string     `json:"currency"`
	CreatedAt     time.Time  `json:"createdAt"`
}
