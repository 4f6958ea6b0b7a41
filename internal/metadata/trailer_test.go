package metadata

import (
	"context"
	"errors"
	"testing"

	"github.com/gamedex/gamedex/internal/metadata/rawg"
	"github.com/gamedex/gamedex/internal/metadata/youtube"
)

func TestGetGameTrailerFromCatalog(t *testing.T) {
	catalog := &fakeCatalog{
		searchPage: &rawg.GamesPage{Results: []rawg.Game{{ID: 42, Name: "Portal"}}},
		movies: []rawg.Movie{
			{
				ID:      1,
				Name:    "Portal Launch Trailer",
				Preview: "https://media.rawg.io/preview.jpg",
				Data: rawg.MovieData{
					Max:  "https://media.rawg.io/max.mp4",
					Q480: "https://media.rawg.io/480.mp4",
				},
			},
		},
	}
	videos := &fakeVideoSearch{}
	svc := newTestService(catalog, nil, videos)

	result := svc.GetGameTrailer(context.Background(), "Portal")
	if result.Source != TrailerSourceCatalog {
		t.Fatalf("Source = %q, want %q", result.Source, TrailerSourceCatalog)
	}
	if result.URL != "https://media.rawg.io/max.mp4" {
		t.Errorf("URL = %q, want the max quality variant", result.URL)
	}
	if videos.calls != 0 {
		t.Errorf("video search was called %d times, want 0", videos.calls)
	}
}

func TestGetGameTrailerPrefers480WhenMaxMissing(t *testing.T) {
	catalog := &fakeCatalog{
		searchPage: &rawg.GamesPage{Results: []rawg.Game{{ID: 42, Name: "Portal"}}},
		movies: []rawg.Movie{
			{ID: 1, Name: "Trailer", Data: rawg.MovieData{Q480: "https://media.rawg.io/480.mp4"}},
		},
	}
	svc := newTestService(catalog, nil, nil)

	result := svc.GetGameTrailer(context.Background(), "Portal")
	if result.Source != TrailerSourceCatalog {
		t.Fatalf("Source = %q, want %q", result.Source, TrailerSourceCatalog)
	}
	if result.URL != "https://media.rawg.io/480.mp4" {
		t.Errorf("URL = %q, want the 480 variant", result.URL)
	}
}

func TestGetGameTrailerVideoSearchFallback(t *testing.T) {
	catalog := &fakeCatalog{
		searchPage: &rawg.GamesPage{Results: []rawg.Game{{ID: 42, Name: "Portal"}}},
		movies:     []rawg.Movie{},
	}
	videos := &fakeVideoSearch{
		results: []youtube.VideoResult{
			{VideoID: "abc123", Title: "Portal Trailer", Thumbnail: "https://img/hq.jpg"},
		},
	}
	svc := newTestService(catalog, nil, videos)

	result := svc.GetGameTrailer(context.Background(), "Portal")
	if result.Source != TrailerSourceVideoSearch {
		t.Fatalf("Source = %q, want %q", result.Source, TrailerSourceVideoSearch)
	}
	if videos.calls != 1 {
		t.Errorf("video search was called %d times, want exactly 1", videos.calls)
	}
	if result.VideoID != "abc123" {
		t.Errorf("VideoID = %q, want abc123", result.VideoID)
	}
	if result.EmbedURL != "https://www.youtube.com/embed/abc123?autoplay=1" {
		t.Errorf("EmbedURL = %q", result.EmbedURL)
	}
}

func TestGetGameTrailerSearchLinkOnVideoSearchFailure(t *testing.T) {
	catalog := &fakeCatalog{
		searchPage: &rawg.GamesPage{Results: []rawg.Game{{ID: 42, Name: "Portal"}}},
		movies:     []rawg.Movie{},
	}
	videos := &fakeVideoSearch{
		err: &youtube.SearchError{StatusCode: 503, Status: "503 Service Unavailable"},
	}
	svc := newTestService(catalog, nil, videos)

	result := svc.GetGameTrailer(context.Background(), "Portal")
	if result.Source != TrailerSourceSearchLink {
		t.Fatalf("Source = %q, want %q", result.Source, TrailerSourceSearchLink)
	}
	// The link keeps the query the failed search would have used.
	want := "https://www.youtube.com/results?search_query=Portal+official+game+trailer"
	if result.SearchURL != want {
		t.Errorf("SearchURL = %q, want %q", result.SearchURL, want)
	}
}

func TestGetGameTrailerSearchLinkWhenCatalogFails(t *testing.T) {
	catalog := &fakeCatalog{
		searchErr: errors.New("catalog down"),
	}
	videos := &fakeVideoSearch{
		results: []youtube.VideoResult{{VideoID: "xyz", Title: "T", Thumbnail: "u"}},
	}
	svc := newTestService(catalog, nil, videos)

	// A failed catalog search should fall through to the video search, not
	// surface an error.
	result := svc.GetGameTrailer(context.Background(), "Half-Life 2")
	if result.Source != TrailerSourceVideoSearch {
		t.Fatalf("Source = %q, want %q", result.Source, TrailerSourceVideoSearch)
	}
}

func TestGetGameTrailerSearchLinkWhenNoResultsAnywhere(t *testing.T) {
	catalog := &fakeCatalog{}
	videos := &fakeVideoSearch{}
	svc := newTestService(catalog, nil, videos)

	result := svc.GetGameTrailer(context.Background(), "Nonexistent Game")
	if result.Source != TrailerSourceSearchLink {
		t.Fatalf("Source = %q, want %q", result.Source, TrailerSourceSearchLink)
	}
	if result.SearchURL == "" {
		t.Error("SearchURL is empty")
	}
}

func TestGetGameTrailerResolvedPerCall(t *testing.T) {
	catalog := &fakeCatalog{
		searchPage: &rawg.GamesPage{Results: []rawg.Game{{ID: 42, Name: "Portal"}}},
		movies: []rawg.Movie{
			{ID: 1, Name: "Trailer", Data: rawg.MovieData{Max: "https://media.rawg.io/max.mp4"}},
		},
	}
	svc := newTestService(catalog, nil, nil)

	svc.GetGameTrailer(context.Background(), "Portal")
	svc.GetGameTrailer(context.Background(), "Portal")
	// Results are produced per call; nothing is remembered between calls.
	if catalog.searchCalls != 2 {
		t.Errorf("catalog search was called %d times for 2 calls, want 2", catalog.searchCalls)
	}
}
