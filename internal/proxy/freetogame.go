package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/gamedex/gamedex/internal/config"
)

// UpstreamError is a non-success response from a forwarded provider call.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned %d", e.StatusCode)
}

// FreeToGameClient relays the free-games listing provider. Responses are
// passed through verbatim; this layer exists only so the browser-side
// client has a single same-origin API.
type FreeToGameClient struct {
	httpClient *http.Client
	config     config.FreeToGameConfig
	logger     zerolog.Logger
}

// NewFreeToGameClient creates a new pass-through client.
func NewFreeToGameClient(cfg config.FreeToGameConfig, logger zerolog.Logger) *FreeToGameClient {
	return &FreeToGameClient{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "freetogame").Logger(),
	}
}

// Games fetches the game listing, optionally filtered by platform and
// category. The upstream JSON is returned as-is.
func (c *FreeToGameClient) Games(ctx context.Context, platform, category string) (json.RawMessage, error) {
	params := url.Values{}
	if platform != "" {
		params.Set("platform", platform)
	}
	if category != "" {
		params.Set("category", category)
	}
	return c.relay(ctx, "/games", params)
}

// Game fetches one game's detail record by id.
func (c *FreeToGameClient) Game(ctx context.Context, id string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("id", id)
	return c.relay(ctx, "/game", params)
}

func (c *FreeToGameClient) relay(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	reqURL := c.config.BaseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("pass-through request failed")
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return json.RawMessage(body), nil
}
