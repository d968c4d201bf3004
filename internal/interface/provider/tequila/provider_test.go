package tequila

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flightscout-service/internal/domain/entity"
	"flightscout-service/pkg/httpx"
	"flightscout-service/pkg/logger"
	"flightscout-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchPayload = `{
  "currency": "EUR",
  "data": [
    {
      "id": "abc",
      "price": 400,
      "airlines": ["DL"],
      "availability": {"seats": 3},
      "duration": {"departure": 39600, "return": 36000},
      "route": [
        {"flyFrom": "CDG", "flyTo": "AMS", "airline": "KL", "flight_no": 1234, "equipment": "73H",
         "local_departure": "2026-11-20T14:00:00.000Z", "local_arrival": "2026-11-20T15:20:00.000Z",
         "utc_departure": "2026-11-20T13:00:00.000Z", "utc_arrival": "2026-11-20T14:20:00.000Z", "return": 0, "fare_category": "M"},
        {"flyFrom": "AMS", "flyTo": "JFK", "airline": "DL", "flight_no": 47, "equipment": null,
         "local_departure": "2026-11-20T17:00:00.000Z", "local_arrival": "2026-11-20T19:00:00.000Z",
         "utc_departure": "2026-11-20T16:00:00.000Z", "utc_arrival": "2026-11-21T00:00:00.000Z", "return": 0, "fare_category": "M"},
        {"flyFrom": "JFK", "flyTo": "CDG", "airline": "DL", "flight_no": 48,
         "local_departure": "2026-11-27T18:00:00.000Z", "local_arrival": "2026-11-28T08:00:00.000Z",
         "utc_departure": "2026-11-27T23:00:00.000Z", "utc_arrival": "2026-11-28T07:00:00.000Z", "return": 1, "fare_category": "M"}
      ]
    },
    {"id": "broken", "price": 0, "route": []}
  ]
}`

func testParams() entity.SearchParams {
	ret := time.Date(2026, 11, 27, 0, 0, 0, 0, time.UTC)
	return entity.SearchParams{
		Origin:        "CDG",
		Destination:   "JFK",
		DepartureDate: time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC),
		ReturnDate:    &ret,
		Adults:        2,
		CabinClass:    entity.CabinEconomy,
		Currency:      "EUR",
	}
}

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:           baseURL,
		APIKey:            "key",
		Timeout:           2 * time.Second,
		RequestsPerSecond: 100,
		Retry:             httpx.NoRetry(),
	}
}

func TestSearchMapsRouteIntoLegs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, searchPath, r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("apikey"))
		q := r.URL.Query()
		assert.Equal(t, "20/11/2026", q.Get("date_from"))
		assert.Equal(t, "27/11/2026", q.Get("return_to"))
		assert.Equal(t, "M", q.Get("selected_cabins"))
		assert.Equal(t, "2", q.Get("adults"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchPayload))
	}))
	defer server.Close()

	p, err := New(testConfig(server.URL), logger.NewNopLogger(), metrics.NewMetrics("test", prometheus.NewRegistry()))
	require.NoError(t, err)

	offers, err := p.Search(context.Background(), testParams())
	require.NoError(t, err)
	require.Len(t, offers, 1)

	o := offers[0]
	assert.Equal(t, Name, o.Source)
	assert.Equal(t, 400.0, o.Price.Total)
	assert.Equal(t, 200.0, o.Price.PerTraveler)
	assert.Equal(t, 3, o.BookableSeats)
	assert.Equal(t, 1, o.Outbound.StopCount)
	assert.Equal(t, 660, o.Outbound.DurationMinutes)
	assert.Equal(t, "CDG", o.Outbound.Departure.Airport)
	assert.Equal(t, "JFK", o.Outbound.Arrival.Airport)
	assert.Equal(t, 14, o.Outbound.Departure.Time.Hour())
	assert.Equal(t, 80, o.Outbound.Segments[0].DurationMinutes)
	assert.Equal(t, "73H", o.Outbound.Segments[0].AircraftType)
	assert.Equal(t, "", o.Outbound.Segments[1].AircraftType)
	assert.Equal(t, "1234", o.Outbound.Segments[0].FlightNumber)
	require.NotNil(t, o.Inbound)
	assert.Equal(t, 0, o.Inbound.StopCount)
	assert.Equal(t, 600, o.Inbound.DurationMinutes)
	assert.Equal(t, []string{"DL"}, o.ValidatingCarrierCodes)
}

func TestSearchDirectOnlySetsStopovers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0", r.URL.Query().Get("max_stopovers"))
		assert.Equal(t, "C", r.URL.Query().Get("selected_cabins"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"currency":"EUR","data":[]}`))
	}))
	defer server.Close()

	p, err := New(testConfig(server.URL), logger.NewNopLogger(), metrics.NewMetrics("test", prometheus.NewRegistry()))
	require.NoError(t, err)

	params := testParams()
	params.DirectOnly = true
	params.CabinClass = entity.CabinBusiness
	offers, err := p.Search(context.Background(), params)
	require.NoError(t, err)
	assert.Empty(t, offers)
}

func TestSearchCapsLimit(t *testing.T) {
	tests := []struct {
		maxResults int
		want       string
	}{
		{0, "50"},
		{300, "300"},
		{1000, "1000"},
		{100000, "1000"},
	}
	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, tt.want, r.URL.Query().Get("limit"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"currency":"EUR","data":[]}`))
		}))

		p, err := New(testConfig(server.URL), logger.NewNopLogger(), metrics.NewMetrics("test", prometheus.NewRegistry()))
		require.NoError(t, err)

		params := testParams()
		params.MaxResults = tt.maxResults
		_, err = p.Search(context.Background(), params)
		require.NoError(t, err)
		server.Close()
	}
}

func TestSearchFallsBackOnRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	p, err := New(testConfig(server.URL), logger.NewNopLogger(), m)
	require.NoError(t, err)

	offers, err := p.Search(context.Background(), testParams())
	require.NoError(t, err)
	require.NotEmpty(t, offers)
	assert.Equal(t, "tequila-mock", offers[0].Source)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderFallbacks.WithLabelValues(Name)))
}

func TestSearchFallsBackOnMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": "nope"`))
	}))
	defer server.Close()

	p, err := New(testConfig(server.URL), logger.NewNopLogger(), metrics.NewMetrics("test", prometheus.NewRegistry()))
	require.NoError(t, err)

	offers, err := p.Search(context.Background(), testParams())
	require.NoError(t, err)
	assert.NotEmpty(t, offers)
}

func TestCabinCode(t *testing.T) {
	assert.Equal(t, "W", cabinCode(entity.CabinPremiumEconomy))
	assert.Equal(t, "F", cabinCode(entity.CabinFirst))
	assert.Equal(t, "M", cabinCode(""))
}
