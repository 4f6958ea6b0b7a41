package metadata

import (
	"context"
	"fmt"

	"github.com/gamedex/gamedex/internal/metadata/youtube"
)

// Trailer sources, in fallback order.
const (
	TrailerSourceCatalog     = "rawg"
	TrailerSourceVideoSearch = "youtube"
	TrailerSourceSearchLink  = "youtube-search"
)

// TrailerResult is the outcome of a trailer lookup. Source identifies the
// variant; only the fields for that variant are populated.
type TrailerResult struct {
	Source    string `json:"source"`
	URL       string `json:"url,omitempty"`
	VideoID   string `json:"videoId,omitempty"`
	Title     string `json:"title,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	EmbedURL  string `json:"embedUrl,omitempty"`
	SearchURL string `json:"searchUrl,omitempty"`
}

// GetGameTrailer resolves a playable trailer for a game name. Strategies
// are tried in order: the catalog provider's own trailer listing, a
// keyword video search, and finally a plain search link. The resolver
// never returns an error; any failure falls through to the next strategy.
// Each call re-runs the cascade against the providers' current state.
func (s *Service) GetGameTrailer(ctx context.Context, name string) *TrailerResult {
	if result := s.catalogTrailer(ctx, name); result != nil {
		return result
	}

	query := fmt.Sprintf("%s official game trailer", name)
	results, err := s.videos.Search(ctx, query, 1)
	if err != nil {
		s.logger.Warn().Err(err).Str("name", name).Msg("video search failed, falling back to search link")
		return s.searchLinkTrailer(query)
	}
	if len(results) > 0 {
		hit := results[0]
		return &TrailerResult{
			Source:    TrailerSourceVideoSearch,
			VideoID:   hit.VideoID,
			Title:     hit.Title,
			Thumbnail: hit.Thumbnail,
			EmbedURL:  youtube.EmbedURL(hit.VideoID),
		}
	}

	return s.searchLinkTrailer(fmt.Sprintf("%s trailer", name))
}

// catalogTrailer looks for a trailer in the catalog provider's own movie
// listing for the first search hit. Returns nil when none is found or any
// call fails.
func (s *Service) catalogTrailer(ctx context.Context, name string) *TrailerResult {
	page, err := s.catalog.SearchGames(ctx, name)
	if err != nil {
		s.logger.Debug().Err(err).Str("name", name).Msg("catalog search failed during trailer lookup")
		return nil
	}
	if len(page.Results) == 0 {
		return nil
	}

	movies, err := s.catalog.GetGameMovies(ctx, page.Results[0].ID)
	if err != nil {
		s.logger.Debug().Err(err).Str("name", name).Msg("catalog movie listing failed during trailer lookup")
		return nil
	}
	if len(movies) == 0 {
		return nil
	}

	movie := movies[0]
	url := movie.Data.Max
	if url == "" {
		url = movie.Data.Q480
	}
	return &TrailerResult{
		Source:    TrailerSourceCatalog,
		URL:       url,
		Title:     movie.Name,
		Thumbnail: movie.Preview,
	}
}

func (s *Service) searchLinkTrailer(query string) *TrailerResult {
	return &TrailerResult{
		Source:    TrailerSourceSearchLink,
		SearchURL: youtube.SearchURL(query),
	}
}
