// Package youtube implements the video-search provider used as a trailer
// fallback.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/gamedex/gamedex/internal/config"
)

var ErrAPIKeyMissing = errors.New("YouTube API key is not configured")

// SearchError is a non-success response from the video-search provider.
type SearchError struct {
	StatusCode int
	Status     string
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("YouTube API error: %d %s", e.StatusCode, e.Status)
}

// VideoResult is one search hit.
type VideoResult struct {
	VideoID   string `json:"videoId"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
}

// searchResponse models the provider's items[] envelope, limited to the
// fields we read.
type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title      string `json:"title"`
			Thumbnails struct {
				High struct {
					URL string `json:"url"`
				} `json:"high"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// Client is a YouTube search API client.
type Client struct {
	httpClient *http.Client
	config     config.YouTubeConfig
	logger     zerolog.Logger
}

// NewClient creates a new YouTube client.
func NewClient(cfg config.YouTubeConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "youtube").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "youtube"
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// Search runs a keyword video search and returns up to maxResults hits.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]VideoResult, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}
	if maxResults <= 0 {
		maxResults = 1
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("key", c.config.APIKey)

	reqURL := fmt.Sprintf("%s/search?%s", c.config.BaseURL, params.Encode())
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

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Str("query", query).Msg("video search failed")
		return nil, &SearchError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]VideoResult, 0, len(decoded.Items))
	for _, item := range decoded.Items {
		results = append(results, VideoResult{
			VideoID:   item.ID.VideoID,
			Title:     item.Snippet.Title,
			Thumbnail: item.Snippet.Thumbnails.High.URL,
		})
	}

	c.logger.Debug().Str("query", query).Int("results", len(results)).Msg("video search completed")
	return results, nil
}

// SearchURL returns the public search page URL for a query, used when the
// API itself is unavailable.
func SearchURL(query string) string {
	return "https://www.youtube.com/results?search_query=" + url.QueryEscape(query)
}

// EmbedURL returns an autoplaying embed URL for a video id.
func EmbedURL(videoID string) string {
	return fmt.Sprintf("https://www.youtube.com/embed/%s?autoplay=1", videoID)
}
