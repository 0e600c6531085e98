package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cellular-usage-report/internal/domain/usage"
	"cellular-usage-report/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// TokenProvider obtains bearer tokens with the client-credentials grant.
// Every Acquire performs a new request; nothing is cached.
type TokenProvider struct {
	service     string
	config      clientcredentials.Config
	httpClient  *http.Client
	diagnostics *zap.Logger
}

// NewTokenProvider builds a provider for one API. service names the API in
// logs. Failures are written to diagnostics, which may be nil.
func NewTokenProvider(service, tokenURL, clientID, clientSecret string, httpClient *http.Client, diagnostics *zap.Logger) *TokenProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if diagnostics == nil {
		diagnostics = zap.NewNop()
	}

	return &TokenProvider{
		service: service,
		config: clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		httpClient:  httpClient,
		diagnostics: diagnostics,
	}
}

// Acquire returns a fresh access token. On failure the status code and
// response body are appended to the diagnostic log and ErrTokenUnavailable
// is returned; the caller decides whether to continue.
func (p *TokenProvider) Acquire(ctx context.Context) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.config.Token(ctx)
	if err != nil {
		p.report(err)
		return "", fmt.Errorf("%w: %s API", usage.ErrTokenUnavailable, p.service)
	}

	return token.AccessToken, nil
}

func (p *TokenProvider) report(err error) {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		p.diagnostics.Error("token request failed",
			zap.String("service", p.service),
			zap.Int("status_code", retrieveErr.Response.StatusCode),
			zap.String("body", string(retrieveErr.Body)),
		)
		logger.Warn("Token acquisition failed",
			zap.String("service", p.service),
			zap.Int("status_code", retrieveErr.Response.StatusCode),
		)
		return
	}

	p.diagnostics.Error("token request failed",
		zap.String("service", p.service),
		zap.Int("status_code", 0),
		zap.String("body", err.Error()),
	)
	logger.Warn("Token acquisition failed",
		zap.String("service", p.service),
		zap.Error(err),
	)
}
