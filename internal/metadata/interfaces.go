package metadata

import (
	"context"

	"github.com/gamedex/gamedex/internal/metadata/igdb"
	"github.com/gamedex/gamedex/internal/metadata/rawg"
	"github.com/gamedex/gamedex/internal/metadata/youtube"
)

// CatalogClient is the interface for the primary game catalog provider.
type CatalogClient interface {
	Name() string
	IsConfigured() bool
	FetchGames(ctx context.Context, extra map[string]string) (*rawg.GamesPage, error)
	SearchGames(ctx context.Context, query string) (*rawg.GamesPage, error)
	FetchGamesWithFilters(ctx context.Context, criteria rawg.FilterCriteria) (*rawg.GamesPage, error)
	GetGameDetails(ctx context.Context, id int) (*rawg.GameDetails, error)
	GetGameScreenshots(ctx context.Context, id int) ([]rawg.Screenshot, error)
	GetGameMovies(ctx context.Context, id int) ([]rawg.Movie, error)
	GetSimilarGames(ctx context.Context, id int) ([]rawg.Game, error)
	GetGamesByDeveloper(ctx context.Context, developerID int) ([]rawg.Game, error)
	GetGamesByGenre(ctx context.Context, genreID, excludeID int) ([]rawg.Game, error)
	GetRecommendations(ctx context.Context, id int) ([]rawg.Game, error)
	GetPlatforms(ctx context.Context) ([]rawg.Platform, error)
	GetGenres(ctx context.Context) ([]rawg.Genre, error)
}

// DetailClient is the interface for the secondary metadata provider that
// resolves a record by title.
type DetailClient interface {
	Name() string
	IsConfigured() bool
	GameByName(ctx context.Context, name string) (*igdb.Game, error)
}

// VideoSearchClient is the interface for keyword video search, used when
// the catalog carries no trailer for a game.
type VideoSearchClient interface {
	Name() string
	IsConfigured() bool
	Search(ctx context.Context, query string, maxResults int) ([]youtube.VideoResult, error)
}
