package oauth

import (
	"context"
	"net/http"
	"time"

	"flightscout-service/pkg/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ClientCredentials handles OAuth2 client-credentials authentication with an offer provider
type ClientCredentials struct {
	config       *clientcredentials.Config
	expiryMargin time.Duration
	httpClient   *http.Client
	logger       logger.Logger
}

// NewClientCredentials creates a new client-credentials handler. Tokens are
// refreshed expiryMargin before they actually expire.
func NewClientCredentials(clientID, clientSecret, tokenURL string, expiryMargin time.Duration, httpClient *http.Client, logger logger.Logger) *ClientCredentials {
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	return &ClientCredentials{
		config:       config,
		expiryMargin: expiryMargin,
		httpClient:   httpClient,
		logger:       logger,
	}
}

// GetTokenSource returns a caching token source scoped to the caller. The
// cache is safe for concurrent use.
func (o *ClientCredentials) GetTokenSource(ctx context.Context) oauth2.TokenSource {
	return oauth2.ReuseTokenSourceWithExpiry(nil, &fetchTokenSource{ctx: ctx, owner: o}, o.expiryMargin)
}

// FetchToken requests a fresh token, bypassing any cache
func (o *ClientCredentials) FetchToken(ctx context.Context) (*oauth2.Token, error) {
	if o.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, o.httpClient)
	}
	token, err := o.config.Token(ctx)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("Provider access token obtained", "tokenURL", o.config.TokenURL, "expiry", token.Expiry)
	return token, nil
}

// fetchTokenSource performs one token request per call; caching is left to
// the reuse source wrapping it.
type fetchTokenSource struct {
	ctx   context.Context
	owner *ClientCredentials
}

func (s *fetchTokenSource) Token() (*oauth2.Token, error) {
	return s.owner.FetchToken(s.ctx)
}
