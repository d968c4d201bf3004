package tequila

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
	"flightscout-service/internal/interface/provider"
	"flightscout-service/pkg/httpx"
	"flightscout-service/pkg/logger"
	"flightscout-service/pkg/metrics"
	"flightscout-service/pkg/utils"

	"golang.org/x/time/rate"
)

// Name identifies offers produced by this adapter
const Name = "tequila"

const (
	searchPath       = "/v2/search"
	defaultMaxOffers = 50
	maxOffersLimit   = 1000
)

var errMissingAPIKey = errors.New("tequila API key not configured")

// Config configures one Tequila adapter instance
type Config struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerSecond float64
	Retry             httpx.RetryConfig
}

func (c Config) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("tequila: base URL must be absolute, got %q", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("tequila: timeout must be positive")
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("tequila: requests per second must be positive")
	}
	return nil
}

// Provider searches the Kiwi Tequila API
type Provider struct {
	config  Config
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	logger  logger.Logger
	metrics *metrics.Metrics
}

var _ repository.FlightProvider = (*Provider)(nil)

// New creates a Tequila adapter. Without an API key it serves mock offers only.
func New(config Config, logger logger.Logger, metrics *metrics.Metrics) (*Provider, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	if config.Retry.MaxAttempts == 0 {
		config.Retry = httpx.DefaultRetryConfig()
	}

	log := logger.With("provider", Name)
	if config.APIKey == "" {
		log.Warn("Tequila API key missing, serving mock offers")
	}

	return &Provider{
		config:  config,
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		client:  &http.Client{Timeout: config.Timeout},
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
		logger:  log,
		metrics: metrics,
	}, nil
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

	if p.config.APIKey == "" {
		return p.fallback(params, errMissingAPIKey), nil
	}

	offers, err := p.search(ctx, params)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return p.fallback(params, err), nil
	}
	return offers, nil
}

func (p *Provider) search(ctx context.Context, params entity.SearchParams) ([]entity.FlightOffer, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	query := url.Values{}
	query.Set("fly_from", params.Origin)
	query.Set("fly_to", params.Destination)
	departure := utils.FormatSlashDate(params.DepartureDate)
	query.Set("date_from", departure)
	query.Set("date_to", departure)
	if params.ReturnDate != nil {
		ret := utils.FormatSlashDate(*params.ReturnDate)
		query.Set("return_from", ret)
		query.Set("return_to", ret)
		query.Set("flight_type", "round")
	} else {
		query.Set("flight_type", "oneway")
	}
	query.Set("adults", strconv.Itoa(params.Adults))
	query.Set("children", strconv.Itoa(params.Children))
	query.Set("infants", strconv.Itoa(params.Infants))
	query.Set("selected_cabins", cabinCode(params.CabinClass))
	if params.DirectOnly {
		query.Set("max_stopovers", "0")
	}
	limit := defaultMaxOffers
	if params.MaxResults > 0 {
		limit = min(params.MaxResults, maxOffersLimit)
	}
	query.Set("limit", strconv.Itoa(limit))
	if params.Currency != "" {
		query.Set("curr", params.Currency)
	}

	endpoint := p.baseURL + searchPath + "?" + query.Encode()
	var resp searchResponse
	err := httpx.DoJSON(ctx, p.client, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("apikey", p.config.APIKey)
		req.Header.Set("Accept", "application/json")
		return req, nil
	}, &resp, p.config.Retry)
	if err != nil {
		return nil, fmt.Errorf("tequila search: %w", err)
	}

	offers := make([]entity.FlightOffer, 0, len(resp.Data))
	for _, dto := range resp.Data {
		offer, err := mapOffer(dto, resp.Currency, params)
		if err == nil {
			err = offer.Validate()
		}
		if err != nil {
			p.logger.Warn("Dropping malformed offer", "offerId", dto.ID, "error", err)
			continue
		}
		offers = append(offers, offer)
	}

	p.logger.Debug("Tequila search completed", "route", params.Route().String(), "offers", len(offers))
	return offers, nil
}

func (p *Provider) fallback(params entity.SearchParams, cause error) []entity.FlightOffer {
	p.logger.Warn("Tequila search failed, using mock offers",
		"route", params.Route().String(),
		"error", cause,
	)
	p.metrics.ProviderFallbacks.WithLabelValues(Name).Inc()
	return provider.GenerateMockOffers(Name+"-mock", params)
}
