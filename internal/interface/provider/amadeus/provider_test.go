package amadeus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"flightscout-service/internal/domain/entity"
	"flightscout-service/internal/interface/provider"
	"flightscout-service/pkg/httpx"
	"flightscout-service/pkg/logger"
	"flightscout-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const offersPayload = `{
  "data": [
    {
      "id": "1",
      "numberOfBookableSeats": 4,
      "itineraries": [
        {
          "duration": "PT8H5M",
          "segments": [
            {
              "departure": {"iataCode": "CDG", "at": "2026-11-20T10:00:00"},
              "arrival": {"iataCode": "JFK", "at": "2026-11-20T12:05:00"},
              "carrierCode": "AF",
              "number": "006",
              "aircraft": {"code": "388"},
              "duration": "PT8H5M"
            }
          ]
        }
      ],
      "price": {"currency": "EUR", "total": "600.00", "grandTotal": "600.00"},
      "validatingAirlineCodes": ["AF"],
      "travelerPricings": [
        {"travelerType": "ADULT", "fareDetailsBySegment": [{"cabin": "BUSINESS"}], "price": {"total": "600.00"}}
      ]
    },
    {
      "id": "2",
      "itineraries": [{"duration": "PT1H", "segments": []}],
      "price": {"currency": "EUR", "total": "0"}
    }
  ]
}`

func newTestMetrics() *metrics.Metrics {
	return metrics.NewMetrics("test", prometheus.NewRegistry())
}

func testParams() entity.SearchParams {
	return entity.SearchParams{
		Origin:        "CDG",
		Destination:   "JFK",
		DepartureDate: time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC),
		Adults:        1,
		CabinClass:    entity.CabinEconomy,
		Currency:      "EUR",
	}
}

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:           baseURL,
		ClientID:          "id",
		ClientSecret:      "secret",
		Timeout:           2 * time.Second,
		TokenExpiryMargin: 5 * time.Minute,
		RequestsPerSecond: 100,
		Retry:             httpx.NoRetry(),
	}
}

type fakeAmadeus struct {
	tokenCalls  atomic.Int32
	searchCalls atomic.Int32
	searchCode  int
	wantMax     string
}

func (f *fakeAmadeus) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(tokenPath, func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "id", r.PostForm.Get("client_id"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"type":"amadeusOAuth2Token","access_token":"tok","token_type":"Bearer","expires_in":1799}`))
	})
	mux.HandleFunc(flightOffersPath, func(w http.ResponseWriter, r *http.Request) {
		f.searchCalls.Add(1)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "CDG", r.URL.Query().Get("originLocationCode"))
		assert.Equal(t, "2026-11-20", r.URL.Query().Get("departureDate"))
		assert.Equal(t, "ECONOMY", r.URL.Query().Get("travelClass"))
		if f.wantMax != "" {
			assert.Equal(t, f.wantMax, r.URL.Query().Get("max"))
		}
		if f.searchCode != 0 {
			w.WriteHeader(f.searchCode)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(offersPayload))
	})
	mux.HandleFunc(priceMetricsPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"currencyCode":"EUR","priceMetrics":[
			{"amount":"120.00","quartileRanking":"MINIMUM"},
			{"amount":"250.50","quartileRanking":"FIRST"},
			{"amount":"310.00","quartileRanking":"MEDIUM"},
			{"amount":"420.00","quartileRanking":"THIRD"},
			{"amount":"900.00","quartileRanking":"MAXIMUM"}]}]}`))
	})
	return mux
}

func TestSearchMapsOffersAndReusesToken(t *testing.T) {
	fake := &fakeAmadeus{}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	m := newTestMetrics()
	p, err := New(testConfig(server.URL), logger.NewNopLogger(), m)
	require.NoError(t, err)

	offers, err := p.Search(context.Background(), testParams())
	require.NoError(t, err)
	require.Len(t, offers, 1, "malformed offer must be dropped")

	o := offers[0]
	assert.Equal(t, "1", o.ID)
	assert.Equal(t, Name, o.Source)
	assert.Equal(t, 600.0, o.Price.Total)
	assert.Equal(t, 600.0, o.Price.PerTraveler)
	assert.Equal(t, entity.CabinBusiness, o.CabinClass)
	assert.Equal(t, 485, o.Outbound.DurationMinutes)
	assert.Equal(t, 0, o.Outbound.StopCount)
	assert.Equal(t, "388", o.Outbound.Segments[0].AircraftType)
	assert.Equal(t, 10, o.Outbound.Departure.Time.Hour())
	assert.Equal(t, 4, o.BookableSeats)
	assert.Nil(t, o.Inbound)

	_, err = p.Search(context.Background(), testParams())
	require.NoError(t, err)

	assert.Equal(t, int32(1), fake.tokenCalls.Load())
	assert.Equal(t, int32(2), fake.searchCalls.Load())
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ProviderFallbacks.WithLabelValues(Name)))
}

func TestSearchCapsMaxResults(t *testing.T) {
	tests := []struct {
		maxResults int
		want       string
	}{
		{0, "50"},
		{20, "20"},
		{250, "250"},
		{5000, "250"},
	}
	for _, tt := range tests {
		fake := &fakeAmadeus{wantMax: tt.want}
		server := httptest.NewServer(fake.handler(t))

		p, err := New(testConfig(server.URL), logger.NewNopLogger(), newTestMetrics())
		require.NoError(t, err)

		params := testParams()
		params.MaxResults = tt.maxResults
		_, err = p.Search(context.Background(), params)
		require.NoError(t, err)
		assert.Equal(t, int32(1), fake.searchCalls.Load())
		server.Close()
	}
}

func TestSearchFallsBackToMockOnServerError(t *testing.T) {
	fake := &fakeAmadeus{searchCode: http.StatusInternalServerError}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	m := newTestMetrics()
	p, err := New(testConfig(server.URL), logger.NewNopLogger(), m)
	require.NoError(t, err)

	offers, err := p.Search(context.Background(), testParams())
	require.NoError(t, err)
	assert.Equal(t, provider.GenerateMockOffers("amadeus-mock", testParams()), offers)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderFallbacks.WithLabelValues(Name)))
}

func TestSearchWithoutCredentialsServesMock(t *testing.T) {
	fake := &fakeAmadeus{}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.ClientSecret = ""
	p, err := New(cfg, logger.NewNopLogger(), newTestMetrics())
	require.NoError(t, err)

	offers, err := p.Search(context.Background(), testParams())
	require.NoError(t, err)
	require.NotEmpty(t, offers)
	assert.Equal(t, "amadeus-mock", offers[0].Source)
	assert.Equal(t, int32(0), fake.tokenCalls.Load())
	assert.Equal(t, int32(0), fake.searchCalls.Load())
}

func TestSearchFallsBackWhenTokenRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer server.Close()

	p, err := New(testConfig(server.URL), logger.NewNopLogger(), newTestMetrics())
	require.NoError(t, err)

	offers, err := p.Search(context.Background(), testParams())
	require.NoError(t, err)
	assert.NotEmpty(t, offers)
}

func TestSearchReturnsCallerCancellation(t *testing.T) {
	fake := &fakeAmadeus{}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	p, err := New(testConfig(server.URL), logger.NewNopLogger(), newTestMetrics())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Search(ctx, testParams())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPriceMetrics(t *testing.T) {
	fake := &fakeAmadeus{}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	p, err := New(testConfig(server.URL), logger.NewNopLogger(), newTestMetrics())
	require.NoError(t, err)

	analytics, err := p.PriceMetrics(context.Background(), entity.NewRouteKey("cdg", "jfk"), testParams().DepartureDate, "EUR")
	require.NoError(t, err)
	assert.Equal(t, 120.0, analytics.Minimum)
	assert.Equal(t, 250.5, analytics.First)
	assert.Equal(t, 310.0, analytics.Median)
	assert.Equal(t, 420.0, analytics.Third)
	assert.Equal(t, 900.0, analytics.Maximum)
	assert.Equal(t, entity.RankingLow, analytics.Rank(200))
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig("not a url")
	_, err := New(cfg, logger.NewNopLogger(), newTestMetrics())
	assert.Error(t, err)

	cfg = testConfig("http://localhost")
	cfg.Timeout = 0
	_, err = New(cfg, logger.NewNopLogger(), newTestMetrics())
	assert.Error(t, err)
}
