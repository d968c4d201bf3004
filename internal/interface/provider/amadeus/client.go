package amadeus

// flightOffersResponse is the subset of the Flight Offers Search v2 payload we map
type flightOffersResponse struct {
	Data []offerDTO `json:"data"`
}

type offerDTO struct {
	ID                     string               `json:"id"`
	NumberOfBookableSeats  int                  `json:"numberOfBookableSeats"`
	Itineraries            []itineraryDTO       `json:"itineraries"`
	Price                  priceDTO             `json:"price"`
	ValidatingAirlineCodes []string             `json:"validatingAirlineCodes"`
	TravelerPricings       []travelerPricingDTO `json:"travelerPricings"`
}

type itineraryDTO struct {
	Duration string       `json:"duration"`
	Segments []segmentDTO `json:"segments"`
}

type segmentDTO struct {
	Departure   endpointDTO `json:"departure"`
	Arrival     endpointDTO `json:"arrival"`
	CarrierCode string      `json:"carrierCode"`
	Number      string      `json:"number"`
	Aircraft    struct {
		Code string `json:"code"`
	} `json:"aircraft"`
	Duration string `json:"duration"`
}

type endpointDTO struct {
	IataCode string `json:"iataCode"`
	At       string `json:"at"`
}

type priceDTO struct {
	Currency   string `json:"currency"`
	Total      string `json:"total"`
	GrandTotal string `json:"grandTotal"`
}

type travelerPricingDTO struct {
	TravelerType         string `json:"travelerType"`
	FareDetailsBySegment []struct {
		Cabin string `json:"cabin"`
	} `json:"fareDetailsBySegment"`
	Price struct {
		Total string `json:"total"`
	} `json:"price"`
}

// priceMetricsResponse is the Itinerary Price Metrics payload
type priceMetricsResponse struct {
	Data []struct {
		CurrencyCode string `json:"currencyCode"`
		PriceMetrics []struct {
			Amount          string `json:"amount"`
			QuartileRanking string `json:"quartileRanking"`
		} `json:"priceMetrics"`
	} `json:"data"`
}
