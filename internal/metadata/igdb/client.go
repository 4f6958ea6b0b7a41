// Package igdb queries the metadata provider through the credential proxy.
// The proxy owns the OAuth exchange; this client only speaks the provider's
// structured text-query format.
package igdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gamedex/gamedex/internal/config"
)

var ErrProxyURLMissing = errors.New("IGDB proxy URL is not configured")

// queryRequest is the proxy's forwarding payload.
type queryRequest struct {
	Query string `json:"query"`
}

// Client posts structured queries to the proxy's /igdb endpoint.
type Client struct {
	httpClient *http.Client
	proxyURL   string
	logger     zerolog.Logger
}

// NewClient creates a new proxy-backed IGDB client.
func NewClient(cfg config.IGDBConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		proxyURL: cfg.ProxyURL,
		logger:   logger.With().Str("component", "igdb").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "igdb"
}

// IsConfigured returns true if the proxy endpoint is set.
func (c *Client) IsConfigured() bool {
	return c.proxyURL != ""
}

// GameByName looks up a single game by fuzzy name match and returns the
// first row, or nil when the provider has no match.
func (c *Client) GameByName(ctx context.Context, name string) (*Game, error) {
	query := fmt.Sprintf(`fields name, summary, storyline, first_release_date,
	genres.name, platforms.name,
	involved_companies.company.name, involved_companies.developer, involved_companies.publisher,
	screenshots.url, videos.video_id, videos.name;
where name ~ %q;
limit 1;`, escapeQuery(name))

	games, err := c.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, nil
	}
	return &games[0], nil
}

// Query forwards a raw structured query through the proxy and decodes the
// provider's row array.
func (c *Client) Query(ctx context.Context, query string) ([]Game, error) {
	if !c.IsConfigured() {
		return nil, ErrProxyURLMissing
	}

	body, err := json.Marshal(queryRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.proxyURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("IGDB proxy request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Msg("IGDB proxy returned non-success")
		return nil, fmt.Errorf("IGDB request failed: %s", resp.Status)
	}

	var games []Game
	if err := json.NewDecoder(resp.Body).Decode(&games); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return games, nil
}

// escapeQuery strips characters that would terminate the quoted name
// filter in the query language.
func escapeQuery(name string) string {
	name = strings.ReplaceAll(name, `"`, "")
	return strings.ReplaceAll(name, ";", "")
}
