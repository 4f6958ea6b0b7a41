// Package proxy implements the credential-caching gateway in front of the
// metadata provider. It owns the OAuth client credentials; browser-side
// callers only ever see the forwarded responses.
package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gamedex/gamedex/internal/config"
)

// tokenSafetyMargin is subtracted from the provider's TTL so a token is
// never handed out within a minute of its real expiry.
const tokenSafetyMargin = 60 * time.Second

var (
	ErrAuthFailed         = errors.New("IGDB authentication failed")
	ErrCredentialsMissing = errors.New("IGDB client credentials are not configured")
)

// tokenResponse is the identity provider's exchange response.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// TokenCache holds the process-wide bearer credential for the metadata
// provider, refreshing it via client-credentials exchange only when the
// cached one is stale.
type TokenCache struct {
	httpClient *http.Client
	config     config.IGDBConfig
	logger     zerolog.Logger

	mu     sync.RWMutex
	token  string
	expiry time.Time
}

// NewTokenCache creates a new token cache.
func NewTokenCache(cfg config.IGDBConfig, logger zerolog.Logger) *TokenCache {
	return &TokenCache{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "tokencache").Logger(),
	}
}

// Authenticated reports whether a usable credential is currently cached.
func (t *TokenCache) Authenticated() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.token != "" && time.Now().Before(t.expiry)
}

// GetToken returns a valid bearer token, exchanging credentials with the
// identity provider only when no cached token exists or the cached one is
// within the safety margin of expiry.
func (t *TokenCache) GetToken(ctx context.Context) (string, error) {
	t.mu.RLock()
	if t.token != "" && time.Now().Before(t.expiry) {
		token := t.token
		t.mu.RUnlock()
		return token, nil
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()

	// Double-check after acquiring write lock
	if t.token != "" && time.Now().Before(t.expiry) {
		return t.token, nil
	}

	if t.config.ClientID == "" || t.config.ClientSecret == "" {
		return "", ErrCredentialsMissing
	}

	form := url.Values{}
	form.Set("client_id", t.config.ClientID)
	form.Set("client_secret", t.config.ClientSecret)
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.config.AuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.logger.Error().Int("status", resp.StatusCode).Msg("credential exchange rejected")
		return "", fmt.Errorf("%w: identity provider returned %s", ErrAuthFailed, resp.Status)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrAuthFailed)
	}

	t.token = token.AccessToken
	t.expiry = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - tokenSafetyMargin)

	t.logger.Debug().Time("expiry", t.expiry).Msg("credential refreshed")
	return t.token, nil
}
