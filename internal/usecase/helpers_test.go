package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"flightscout-service/internal/domain/entity"
	"flightscout-service/internal/domain/repository"
	"flightscout-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

var testDeparture = time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC)

func newTestMetrics() *metrics.Metrics {
	return metrics.NewMetrics("test", prometheus.NewRegistry())
}

// testOffer builds a PAR-NYC offer with stops+1 segments on the test departure date
func testOffer(id string, price float64, stops int, cabin entity.CabinClass, minutes int, hour int) entity.FlightOffer {
	airports := []string{"PAR"}
	hubs := []string{"LHR", "AMS", "FRA", "MAD"}
	for i := 0; i < stops; i++ {
		airports = append(airports, hubs[i%len(hubs)])
	}
	airports = append(airports, "NYC")

	at := time.Date(testDeparture.Year(), testDeparture.Month(), testDeparture.Day(), hour, 0, 0, 0, time.UTC)
	segments := make([]entity.Segment, 0, len(airports)-1)
	for i := 0; i < len(airports)-1; i++ {
		arr := at.Add(2 * time.Hour)
		segments = append(segments, entity.Segment{
			CarrierCode:     "AF",
			FlightNumber:    fmt.Sprintf("%d", 100+i),
			AircraftType:    "320",
			Departure:       entity.Endpoint{Airport: airports[i], Time: entity.LocalDateTime{Time: at}},
			Arrival:         entity.Endpoint{Airport: airports[i+1], Time: entity.LocalDateTime{Time: arr}},
			DurationMinutes: 120,
		})
		at = arr.Add(time.Hour)
	}

	return entity.FlightOffer{
		ID:                     id,
		Source:                 "fake",
		Price:                  entity.Price{Total: price, Currency: "EUR", PerTraveler: price},
		Outbound:               entity.NewLeg(segments, minutes),
		ValidatingCarrierCodes: []string{"AF"},
		CabinClass:             cabin,
	}
}

func testSearchParams() entity.SearchParams {
	return entity.SearchParams{
		Origin:        "PAR",
		Destination:   "NYC",
		DepartureDate: testDeparture,
		Adults:        1,
		CabinClass:    entity.CabinEconomy,
	}
}

type fakeProvider struct {
	name   string
	offers []entity.FlightOffer
	err    error
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Search(ctx context.Context, params entity.SearchParams) ([]entity.FlightOffer, error) {
	if p.err != nil {
		return nil, p.err
	}
	out := make([]entity.FlightOffer, len(p.offers))
	copy(out, p.offers)
	for i := range out {
		out[i].Source = p.name
	}
	return out, nil
}

type staticSelector []repository.FlightProvider

func (s staticSelector) Select(sources []string) []repository.FlightProvider {
	if len(sources) == 0 {
		return s
	}
	var out []repository.FlightProvider
	for _, p := range s {
		for _, name := range sources {
			if p.Name() == name {
				out = append(out, p)
			}
		}
	}
	return out
}

type recordingSearchHistory struct {
	mu      sync.Mutex
	records []*entity.SearchRecord
	err     error
}

func (r *recordingSearchHistory) Create(ctx context.Context, record *entity.SearchRecord) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func (r *recordingSearchHistory) FindByUser(ctx context.Context, userID string, limit int) ([]*entity.SearchRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.SearchRecord
	for _, rec := range r.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type failingHistoryRepo struct{ err error }

func (r failingHistoryRepo) Append(ctx context.Context, point *entity.PriceHistoryPoint) error {
	return r.err
}

func (r failingHistoryRepo) FindByRoute(ctx context.Context, route entity.RouteKey, since time.Time) ([]*entity.PriceHistoryPoint, error) {
	return nil, r.err
}

type stubGenerator struct {
	output string
	err    error
	calls  int
}

func (g *stubGenerator) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	g.calls++
	return g.output, g.err
}

type stubAnalytics struct {
	analytics *entity.PriceAnalytics
	err       error
}

func (a stubAnalytics) PriceMetrics(ctx context.Context, route entity.RouteKey, departureDate time.Time, currency string) (*entity.PriceAnalytics, error) {
	if a.err != nil {
		return nil, a.err
	}
	copied := *a.analytics
	return &copied, nil
}
