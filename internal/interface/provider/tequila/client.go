package tequila

// searchResponse is the subset of the Tequila /v2/search payload we map
type searchResponse struct {
	Currency string     `json:"currency"`
	Data     []offerDTO `json:"data"`
}

type offerDTO struct {
	ID           string     `json:"id"`
	Price        float64    `json:"price"`
	Airlines     []string   `json:"airlines"`
	Route        []routeDTO `json:"route"`
	Availability struct {
		Seats *int `json:"seats"`
	} `json:"availability"`
	Duration struct {
		Departure int `json:"departure"`
		Return    int `json:"return"`
	} `json:"duration"`
}

type routeDTO struct {
	FlyFrom        string  `json:"flyFrom"`
	FlyTo          string  `json:"flyTo"`
	Airline        string  `json:"airline"`
	FlightNo       int     `json:"flight_no"`
	Equipment      *string `json:"equipment"`
	LocalDeparture string  `json:"local_departure"`
	LocalArrival   string  `json:"local_arrival"`
	UTCDeparture   string  `json:"utc_departure"`
	UTCArrival     string  `json:"utc_arrival"`
	Return         int     `json:"return"`
	FareCategory   string  `json:"fare_category"`
}
