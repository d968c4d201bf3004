package amadeus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"flightscout-service/internal/domain/entity"
	"flightscout-service/internal/domain/repository"
	"flightscout-service/internal/infrastructure/oauth"
	"flightscout-service/internal/interface/provider"
	"flightscout-service/pkg/httpx"
	"flightscout-service/pkg/logger"
	"flightscout-service/pkg/metrics"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// Name identifies offers produced by this adapter
const Name = "amadeus"

const (
	tokenPath        = "/v1/security/oauth2/token"
	flightOffersPath = "/v2/shopping/flight-offers"
	priceMetricsPath = "/v1/analytics/itinerary-price-metrics"
	defaultMaxOffers = 50
	maxOffersLimit   = 250
)

var errMissingCredentials = errors.New("amadeus credentials not configured")

// Config configures one Amadeus adapter instance
type Config struct {
	BaseURL           string
	ClientID          string
	ClientSecret      string
	Timeout           time.Duration
	TokenExpiryMargin time.Duration
	RequestsPerSecond float64
	Retry             httpx.RetryConfig
}

func (c Config) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("amadeus: base URL must be absolute, got %q", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("amadeus: timeout must be positive")
	}
	if c.TokenExpiryMargin < 0 {
		return fmt.Errorf("amadeus: token expiry margin must not be negative")
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("amadeus: requests per second must be positive")
	}
	return nil
}

// Provider searches Amadeus Self-Service flight offers. Any failure on the
// primary path is answered with mock offers.
type Provider struct {
	config         Config
	baseURL        string
	client         *http.Client
	limiter        *rate.Limiter
	hasCredentials bool
	logger         logger.Logger
	metrics        *metrics.Metrics
}

var (
	_ repository.FlightProvider         = (*Provider)(nil)
	_ repository.PriceAnalyticsProvider = (*Provider)(nil)
)

// New creates an Amadeus adapter. Missing credentials are not an error: the
// adapter then serves mock offers only.
func New(config Config, logger logger.Logger, metrics *metrics.Metrics) (*Provider, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	if config.Retry.MaxAttempts == 0 {
		config.Retry = httpx.DefaultRetryConfig()
	}

	baseURL := strings.TrimRight(config.BaseURL, "/")
	log := logger.With("provider", Name)

	p := &Provider{
		config:         config,
		baseURL:        baseURL,
		limiter:        rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
		hasCredentials: config.ClientID != "" && config.ClientSecret != "",
		logger:         log,
		metrics:        metrics,
	}

	if p.hasCredentials {
		credentials := oauth.NewClientCredentials(
			config.ClientID,
			config.ClientSecret,
			baseURL+tokenPath,
			config.TokenExpiryMargin,
			&http.Client{Timeout: config.Timeout},
			log,
		)
		p.client = &http.Client{
			Timeout: config.Timeout,
			Transport: &oauth2.Transport{
				Source: credentials.GetTokenSource(context.Background()),
				Base:   http.DefaultTransport,
			},
		}
	} else {
		log.Warn("Amadeus credentials missing, serving mock offers")
	}

	return p, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return Name
}

// Search returns canonical offers for params
func (p *Provider) Search(ctx context.Context, params entity.SearchParams) ([]entity.FlightOffer, error) {
	start := time.Now()
	defer func() {
		p.metrics.ProviderLatency.WithLabelValues(Name).Observe(time.Since(start).Seconds())
	}()

	if !p.hasCredentials {
		return p.fallback(params, errMissingCredentials), nil
	}

	offers, err := p.searchOffers(ctx, params)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return p.fallback(params, err), nil
	}
	return offers, nil
}

func (p *Provider) searchOffers(ctx context.Context, params entity.SearchParams) ([]entity.FlightOffer, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	query := url.Values{}
	query.Set("originLocationCode", params.Origin)
	query.Set("destinationLocationCode", params.Destination)
	query.Set("departureDate", params.DepartureDate.Format(entity.DateLayout))
	if params.ReturnDate != nil {
		query.Set("returnDate", params.ReturnDate.Format(entity.DateLayout))
	}
	query.Set("adults", strconv.Itoa(params.Adults))
	if params.Children > 0 {
		query.Set("children", strconv.Itoa(params.Children))
	}
	if params.Infants > 0 {
		query.Set("infants", strconv.Itoa(params.Infants))
	}
	if params.CabinClass != "" {
		query.Set("travelClass", string(params.CabinClass))
	}
	query.Set("nonStop", strconv.FormatBool(params.DirectOnly))
	limit := defaultMaxOffers
	if params.MaxResults > 0 {
		limit = min(params.MaxResults, maxOffersLimit)
	}
	query.Set("max", strconv.Itoa(limit))
	if params.Currency != "" {
		query.Set("currencyCode", params.Currency)
	}

	var resp flightOffersResponse
	if err := p.getJSON(ctx, flightOffersPath, query, &resp); err != nil {
		return nil, fmt.Errorf("search flight offers: %w", err)
	}

	offers := make([]entity.FlightOffer, 0, len(resp.Data))
	for _, dto := range resp.Data {
		offer, err := mapOffer(dto, params)
		if err == nil {
			err = offer.Validate()
		}
		if err != nil {
			p.logger.Warn("Dropping malformed offer", "offerId", dto.ID, "error", err)
			continue
		}
		offers = append(offers, offer)
	}

	p.logger.Debug("Amadeus search completed", "route", params.Route().String(), "offers", len(offers))
	return offers, nil
}

// PriceMetrics returns the historical price quartiles for a one-way route and date
func (p *Provider) PriceMetrics(ctx context.Context, route entity.RouteKey, departureDate time.Time, currency string) (*entity.PriceAnalytics, error) {
	if !p.hasCredentials {
		return nil, errMissingCredentials
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	query := url.Values{}
	query.Set("originIataCode", route.Origin)
	query.Set("destinationIataCode", route.Destination)
	query.Set("departureDate", departureDate.Format(entity.DateLayout))
	query.Set("oneWay", "true")
	if currency != "" {
		query.Set("currencyCode", currency)
	}

	var resp priceMetricsResponse
	if err := p.getJSON(ctx, priceMetricsPath, query, &resp); err != nil {
		return nil, fmt.Errorf("price metrics: %w", err)
	}
	return mapPriceMetrics(resp, currency)
}

func (p *Provider) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := p.baseURL + path + "?" + query.Encode()
	return httpx.DoJSON(ctx, p.client, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/vnd.amadeus+json")
		return req, nil
	}, out, p.config.Retry)
}

func (p *Provider) fallback(params entity.SearchParams, cause error) []entity.FlightOffer {
	p.logger.Warn("Amadeus search failed, using mock offers",
		"route", params.Route().String(),
		"error", cause,
	)
	p.metrics.ProviderFallbacks.WithLabelValues(Name).Inc()
	return provider.GenerateMockOffers(Name+"-mock", params)
}
