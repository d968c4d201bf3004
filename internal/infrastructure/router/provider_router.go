package router

import (
	"strings"

	"flightscout-service/internal/domain/repository"
	"flightscout-service/pkg/logger"
)

// ProviderRouter selects the offer providers that serve a search
type ProviderRouter struct {
	providers []repository.FlightProvider
	logger    logger.Logger
}

// NewProviderRouter creates a new provider router
func NewProviderRouter(logger logger.Logger) *ProviderRouter {
	return &ProviderRouter{
		providers: make([]repository.FlightProvider, 0),
		logger:    logger,
	}
}

// Register adds a provider; later registrations with the same name replace earlier ones
func (r *ProviderRouter) Register(provider repository.FlightProvider) {
	for i, p := range r.providers {
		if strings.EqualFold(p.Name(), provider.Name()) {
			r.providers[i] = provider
			r.logger.Warn("Replaced provider", "provider", provider.Name())
			return
		}
	}
	r.providers = append(r.providers, provider)
	r.logger.Info("Registered provider", "provider", provider.Name())
}

// Names lists the registered providers in registration order
func (r *ProviderRouter) Names() []string {
	names := make([]string, 0, len(r.providers))
	for _, p := range r.providers {
		names = append(names, p.Name())
	}
	return names
}

// Select returns the providers named in sources, or every provider when
// sources is empty. Unknown names are ignored.
func (r *ProviderRouter) Select(sources []string) []repository.FlightProvider {
	if len(sources) == 0 {
		return append([]repository.FlightProvider(nil), r.providers...)
	}

	selected := make([]repository.FlightProvider, 0, len(sources))
	for _, p := range r.providers {
		for _, s := range sources {
			if strings.EqualFold(strings.TrimSpace(s), p.Name()) {
				selected = append(selected, p)
				break
			}
		}
	}
	if len(selected) < len(sources) {
		r.logger.Debug("Some requested sources are not registered", "requested", sources, "registered", r.Names())
	}
	return selected
}
