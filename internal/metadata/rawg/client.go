// Package rawg implements the primary game-catalog provider client.
// Every network call passes through a shared sliding-window rate limiter
// to respect the provider quota.
package rawg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gamedex/gamedex/internal/config"
	"github.com/gamedex/gamedex/internal/ratelimit"
)

var ErrAPIKeyMissing = errors.New("RAWG API key is not configured")

// ProviderError is a non-success response from the catalog provider.
// It carries the upstream status so callers can distinguish failure classes.
type ProviderError struct {
	StatusCode int
	Status     string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("RAWG API error: %d %s", e.StatusCode, e.Status)
}

// IsNotFound reports whether err is a provider 404.
func IsNotFound(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.StatusCode == http.StatusNotFound
}

const (
	defaultPageSize  = 20
	similarPageSize  = 6
	genrePageSize    = 10
	maxRecommended   = 6
	minSimilarDirect = 4
)

// Client is a RAWG API client.
type Client struct {
	httpClient *http.Client
	config     config.RAWGConfig
	limiter    *ratelimit.Limiter
	logger     zerolog.Logger
}

// NewClient creates a new RAWG client sharing the given rate limiter.
func NewClient(cfg config.RAWGConfig, limiter *ratelimit.Limiter, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config:  cfg,
		limiter: limiter,
		logger:  logger.With().Str("component", "rawg").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "rawg"
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// pageSize returns the configured default page size.
func (c *Client) pageSize() int {
	if c.config.PageSize > 0 {
		return c.config.PageSize
	}
	return defaultPageSize
}

// FetchGames fetches a game listing. Arbitrary additional filter
// parameters are passed through to the provider; page_size defaults to 20
// unless overridden in params.
func (c *Client) FetchGames(ctx context.Context, extra map[string]string) (*GamesPage, error) {
	params := url.Values{}
	params.Set("page_size", strconv.Itoa(c.pageSize()))
	for k, v := range extra {
		params.Set(k, v)
	}

	var page GamesPage
	if err := c.doRequest(ctx, "/games", params, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		page.Results = []Game{}
	}

	c.logger.Debug().Int("results", len(page.Results)).Msg("fetched games")
	return &page, nil
}

// SearchGames searches games by free text, fixed page size 20.
func (c *Client) SearchGames(ctx context.Context, query string) (*GamesPage, error) {
	params := url.Values{}
	params.Set("search", query)
	params.Set("page_size", strconv.Itoa(defaultPageSize))

	var page GamesPage
	if err := c.doRequest(ctx, "/games", params, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		page.Results = []Game{}
	}

	c.logger.Debug().Str("query", query).Int("results", len(page.Results)).Msg("game search completed")
	return &page, nil
}

// GetGameDetails gets a single game record by id. A provider 404 surfaces
// as a *ProviderError like any other non-success status.
func (c *Client) GetGameDetails(ctx context.Context, id int) (*GameDetails, error) {
	var details GameDetails
	if err := c.doRequest(ctx, fmt.Sprintf("/games/%d", id), nil, &details); err != nil {
		return nil, err
	}

	c.logger.Debug().Int("id", id).Str("name", details.Name).Msg("got game details")
	return &details, nil
}

// GetGameScreenshots returns the game's screenshots. Empty, never nil.
func (c *Client) GetGameScreenshots(ctx context.Context, id int) ([]Screenshot, error) {
	var resp screenshotsResponse
	if err := c.doRequest(ctx, fmt.Sprintf("/games/%d/screenshots", id), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		return []Screenshot{}, nil
	}
	return resp.Results, nil
}

// GetGameMovies returns the game's trailer listing. Empty, never nil.
func (c *Client) GetGameMovies(ctx context.Context, id int) ([]Movie, error) {
	var resp moviesResponse
	if err := c.doRequest(ctx, fmt.Sprintf("/games/%d/movies", id), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		return []Movie{}, nil
	}
	return resp.Results, nil
}

// GetSimilarGames returns up to 6 games from the same series.
func (c *Client) GetSimilarGames(ctx context.Context, id int) ([]Game, error) {
	params := url.Values{}
	params.Set("page_size", strconv.Itoa(similarPageSize))

	var page GamesPage
	if err := c.doRequest(ctx, fmt.Sprintf("/games/%d/game-series", id), params, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		return []Game{}, nil
	}
	return page.Results, nil
}

// GetGamesByDeveloper returns up to 6 games by the given developer.
func (c *Client) GetGamesByDeveloper(ctx context.Context, developerID int) ([]Game, error) {
	params := url.Values{}
	params.Set("developers", strconv.Itoa(developerID))
	params.Set("page_size", strconv.Itoa(similarPageSize))

	var page GamesPage
	if err := c.doRequest(ctx, "/games", params, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		return []Game{}, nil
	}
	return page.Results, nil
}

// GetGamesByGenre returns the top-rated games in a genre, excluding
// excludeID (0 means no exclusion) and truncated to 6 results.
func (c *Client) GetGamesByGenre(ctx context.Context, genreID, excludeID int) ([]Game, error) {
	params := url.Values{}
	params.Set("genres", strconv.Itoa(genreID))
	params.Set("page_size", strconv.Itoa(genrePageSize))
	params.Set("ordering", "-rating")

	var page GamesPage
	if err := c.doRequest(ctx, "/games", params, &page); err != nil {
		return nil, err
	}

	results := make([]Game, 0, len(page.Results))
	for _, g := range page.Results {
		if excludeID != 0 && g.ID == excludeID {
			continue
		}
		results = append(results, g)
	}
	if len(results) > maxRecommended {
		results = results[:maxRecommended]
	}
	return results, nil
}

// GetRecommendations combines series-based similar games with genre-based
// fill-up candidates. Series entries always precede genre entries; within
// each source provider ordering is preserved.
func (c *Client) GetRecommendations(ctx context.Context, id int) ([]Game, error) {
	game, err := c.GetGameDetails(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return []Game{}, nil
		}
		return nil, err
	}

	similar, err := c.GetSimilarGames(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(similar) >= minSimilarDirect {
		return similar, nil
	}

	if len(game.Genres) == 0 {
		return similar, nil
	}

	genreGames, err := c.GetGamesByGenre(ctx, game.Genres[0].ID, id)
	if err != nil {
		return nil, err
	}

	combined := append(make([]Game, 0, maxRecommended), similar...)
	for _, g := range genreGames {
		if g.ID == id || containsGame(combined, g.ID) {
			continue
		}
		combined = append(combined, g)
		if len(combined) >= maxRecommended {
			break
		}
	}
	return combined, nil
}

// FetchGamesWithFilters maps the recognized filter criteria onto provider
// query parameters. Absent criteria are omitted entirely.
func (c *Client) FetchGamesWithFilters(ctx context.Context, criteria FilterCriteria) (*GamesPage, error) {
	params := url.Values{}

	pageSize := criteria.PageSize
	if pageSize <= 0 {
		pageSize = c.pageSize()
	}
	params.Set("page_size", strconv.Itoa(pageSize))

	if len(criteria.Platforms) > 0 {
		params.Set("platforms", joinIDs(criteria.Platforms))
	}
	if len(criteria.Genres) > 0 {
		params.Set("genres", joinIDs(criteria.Genres))
	}
	if criteria.Ordering != "" {
		params.Set("ordering", criteria.Ordering)
	}
	if criteria.Search != "" {
		params.Set("search", criteria.Search)
	}
	if criteria.Dates != "" {
		params.Set("dates", criteria.Dates)
	}
	if criteria.Metacritic != "" {
		params.Set("metacritic", criteria.Metacritic)
	}

	var page GamesPage
	if err := c.doRequest(ctx, "/games", params, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		page.Results = []Game{}
	}
	return &page, nil
}

// GetPlatforms returns the platform reference listing.
func (c *Client) GetPlatforms(ctx context.Context) ([]Platform, error) {
	params := url.Values{}
	params.Set("page_size", strconv.Itoa(defaultPageSize))

	var resp platformsResponse
	if err := c.doRequest(ctx, "/platforms", params, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		return []Platform{}, nil
	}
	return resp.Results, nil
}

// GetGenres returns the genre reference listing.
func (c *Client) GetGenres(ctx context.Context) ([]Genre, error) {
	var resp genresResponse
	if err := c.doRequest(ctx, "/genres", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		return []Genre{}, nil
	}
	return resp.Results, nil
}

// doRequest acquires a rate-limiter slot, performs an authenticated GET
// and decodes the JSON response.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values, result interface{}) error {
	if !c.IsConfigured() {
		return ErrAPIKeyMissing
	}

	if err := c.limiter.Acquire(ctx); err != nil {
		return fmt.Errorf("rate limiter wait aborted: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("key", c.config.APIKey)
	reqURL := fmt.Sprintf("%s%s?%s", c.config.BaseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("HTTP request failed")
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("path", path).
			Msg("RAWG API error")
		return &ProviderError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func containsGame(games []Game, id int) bool {
	for _, g := range games {
		if g.ID == id {
			return true
		}
	}
	return false
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
