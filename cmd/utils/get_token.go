package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"flightscout-service/internal/infrastructure/config"
	"flightscout-service/internal/infrastructure/oauth"
	"flightscout-service/pkg/logger"
)

// Fetches an Amadeus access token with the configured client credentials.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Amadeus.ClientID == "" || cfg.Amadeus.ClientSecret == "" {
		log.Fatal("AMADEUS_CLIENT_ID and AMADEUS_CLIENT_SECRET must be set")
	}

	credentials := oauth.NewClientCredentials(
		cfg.Amadeus.ClientID,
		cfg.Amadeus.ClientSecret,
		cfg.Amadeus.BaseURL+"/v1/security/oauth2/token",
		cfg.Amadeus.TokenExpiryMargin,
		&http.Client{Timeout: cfg.Amadeus.Timeout},
		logger.NewNopLogger(),
	)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Amadeus.Timeout)
	defer cancel()

	token, err := credentials.FetchToken(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch token: %v", err)
	}

	fmt.Printf("\nAccess Token: %s\n", token.AccessToken)
	fmt.Printf("Expires: %s (in %s)\n\n", token.Expiry.Format(time.RFC3339), time.Until(token.Expiry).Round(time.Second))
}
