// Package metadata fuses the catalog provider's records with the richer
// metadata provider's records into one canonical representation.
package metadata

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gamedex/gamedex/internal/config"
	"github.com/gamedex/gamedex/internal/metadata/igdb"
	"github.com/gamedex/gamedex/internal/metadata/rawg"
	"github.com/gamedex/gamedex/internal/metadata/youtube"
	"github.com/gamedex/gamedex/internal/ratelimit"
)

// ScreenshotRef is one screenshot in a fused record.
type ScreenshotRef struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}

// VideoRef is one video in a fused record.
type VideoRef struct {
	ID      int    `json:"id"`
	VideoID string `json:"video_id"`
	Name    string `json:"name"`
}

// GameRecord is the canonical merged representation of one game. It is
// recomputed per request from the providers' current responses.
type GameRecord struct {
	ID              int             `json:"id"`
	Slug            string          `json:"slug"`
	Name            string          `json:"name"`
	Summary         string          `json:"summary"`
	Storyline       string          `json:"storyline,omitempty"`
	Released        string          `json:"released,omitempty"`
	BackgroundImage string          `json:"background_image,omitempty"`
	Website         string          `json:"website,omitempty"`
	Rating          float64         `json:"rating,omitempty"`
	Metacritic      int             `json:"metacritic,omitempty"`
	Genres          []string        `json:"genres"`
	Platforms       []string        `json:"platforms"`
	Developer       string          `json:"developer,omitempty"`
	Publisher       string          `json:"publisher,omitempty"`
	Screenshots     []ScreenshotRef `json:"screenshots"`
	Videos          []VideoRef      `json:"videos"`
}

// Service orchestrates catalog lookups and best-effort metadata fusion.
type Service struct {
	catalog CatalogClient
	details DetailClient
	videos  VideoSearchClient
	logger  zerolog.Logger
}

// NewService creates a new metadata service with real API clients. The
// limiter is shared so all catalog calls draw from one quota.
func NewService(cfg *config.Config, limiter *ratelimit.Limiter, logger zerolog.Logger) *Service {
	return &Service{
		catalog: rawg.NewClient(cfg.RAWG, limiter, logger),
		details: igdb.NewClient(cfg.IGDB, logger),
		videos:  youtube.NewClient(cfg.YouTube, logger),
		logger:  logger.With().Str("component", "metadata").Logger(),
	}
}

// NewServiceWithClients creates a new metadata service with custom clients
// (for testing/mocking).
func NewServiceWithClients(catalog CatalogClient, details DetailClient, videos VideoSearchClient, logger zerolog.Logger) *Service {
	return &Service{
		catalog: catalog,
		details: details,
		videos:  videos,
		logger:  logger.With().Str("component", "metadata").Logger(),
	}
}

// Catalog exposes the underlying catalog client for listing endpoints.
func (s *Service) Catalog() CatalogClient {
	return s.catalog
}

// GetIGDBGameDetails looks up the metadata provider's record for a game by
// display name. This is a best-effort enrichment call: every failure is
// logged and swallowed, returning nil.
func (s *Service) GetIGDBGameDetails(ctx context.Context, name string) *igdb.Game {
	if s.details == nil || !s.details.IsConfigured() {
		return nil
	}

	game, err := s.details.GameByName(ctx, name)
	if err != nil {
		s.logger.Warn().Err(err).Str("name", name).Msg("metadata provider lookup failed")
		return nil
	}
	return game
}

// GetEnhancedGameDetails fetches the catalog record for id, enriches it
// with the metadata provider's record when one resolves, and merges the
// two. Catalog errors propagate; enrichment failures degrade to the
// unmerged catalog record. The record is recomputed from the providers'
// current responses on every call.
func (s *Service) GetEnhancedGameDetails(ctx context.Context, id int) (*GameRecord, error) {
	details, err := s.catalog.GetGameDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	enriched := s.GetIGDBGameDetails(ctx, details.Name)
	return mergeGameRecord(details, enriched), nil
}

// mergeGameRecord builds the canonical record from the catalog record and
// an optional metadata-provider record. The richer provider wins per field;
// listing fields fall back to the catalog's entries when it has none.
func mergeGameRecord(details *rawg.GameDetails, enriched *igdb.Game) *GameRecord {
	record := &GameRecord{
		ID:              details.ID,
		Slug:            details.Slug,
		Name:            details.Name,
		Summary:         details.DescriptionRaw,
		Released:        details.Released,
		BackgroundImage: details.BackgroundImage,
		Website:         details.Website,
		Rating:          details.Rating,
		Metacritic:      details.Metacritic,
		Genres:          genreNames(details.Genres),
		Platforms:       platformNames(details.Platforms),
		Developer:       joinCompanies(details.Developers),
		Publisher:       joinCompanies(details.Publishers),
		Screenshots:     catalogScreenshots(details.ShortScreenshots),
		Videos:          []VideoRef{},
	}

	if enriched == nil {
		return record
	}

	if enriched.Summary != "" {
		record.Summary = enriched.Summary
	}
	record.Storyline = enriched.Storyline
	if len(enriched.Genres) > 0 {
		record.Genres = namedNames(enriched.Genres)
	}
	if len(enriched.Platforms) > 0 {
		record.Platforms = namedNames(enriched.Platforms)
	}
	if developers := enriched.DeveloperNames(); len(developers) > 0 {
		record.Developer = strings.Join(developers, ", ")
	}
	if publishers := enriched.PublisherNames(); len(publishers) > 0 {
		record.Publisher = strings.Join(publishers, ", ")
	}
	if len(enriched.Screenshots) > 0 {
		record.Screenshots = enrichedScreenshots(enriched.Screenshots)
	}
	if len(enriched.Videos) > 0 {
		videos := make([]VideoRef, 0, len(enriched.Videos))
		for _, v := range enriched.Videos {
			videos = append(videos, VideoRef{ID: v.ID, VideoID: v.VideoID, Name: v.Name})
		}
		record.Videos = videos
	}

	return record
}

// enrichedScreenshots rewrites the metadata provider's thumbnail URLs to
// their full-resolution variant.
func enrichedScreenshots(images []igdb.Image) []ScreenshotRef {
	refs := make([]ScreenshotRef, 0, len(images))
	for _, img := range images {
		refs = append(refs, ScreenshotRef{
			ID:  img.ID,
			URL: strings.Replace(img.URL, "t_screenshot", "t_1080p", 1),
		})
	}
	return refs
}

func catalogScreenshots(shots []rawg.Screenshot) []ScreenshotRef {
	refs := make([]ScreenshotRef, 0, len(shots))
	for _, shot := range shots {
		refs = append(refs, ScreenshotRef{ID: shot.ID, URL: shot.Image})
	}
	return refs
}

func genreNames(genres []rawg.Genre) []string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return names
}

func platformNames(platforms []rawg.GamePlatform) []string {
	names := make([]string, 0, len(platforms))
	for _, p := range platforms {
		names = append(names, p.Platform.Name)
	}
	return names
}

func namedNames(entries []igdb.Named) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}

func joinCompanies(companies []rawg.Company) string {
	names := make([]string, 0, len(companies))
	for _, c := range companies {
		names = append(names, c.Name)
	}
	return strings.Join(names, ", ")
}
