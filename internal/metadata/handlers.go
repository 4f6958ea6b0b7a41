package metadata

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gamedex/gamedex/internal/metadata/rawg"
)

// Handlers provides HTTP handlers for the aggregation layer.
type Handlers struct {
	service *Service
}

// NewHandlers creates new aggregation handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers the aggregation routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/games", h.ListGames)
	g.GET("/games/search", h.SearchGames)
	g.GET("/games/:id", h.GetGame)
	g.GET("/games/:id/screenshots", h.GetScreenshots)
	g.GET("/games/:id/recommendations", h.GetRecommendations)
	g.GET("/games/:id/similar", h.GetSimilarGames)
	g.GET("/games/developer/:id", h.GetGamesByDeveloper)
	g.GET("/platforms", h.GetPlatforms)
	g.GET("/genres", h.GetGenres)
	g.GET("/trailer", h.GetTrailer)
}

// ListGames returns a filtered game listing.
// GET /api/v1/games?platforms=...&genres=...&ordering=...&search=...&dates=...&metacritic=...&page_size=...
func (h *Handlers) ListGames(c echo.Context) error {
	criteria := rawg.FilterCriteria{
		Platforms:  parseIDList(c.QueryParam("platforms")),
		Genres:     parseIDList(c.QueryParam("genres")),
		Ordering:   c.QueryParam("ordering"),
		Search:     c.QueryParam("search"),
		Dates:      c.QueryParam("dates"),
		Metacritic: c.QueryParam("metacritic"),
	}
	if sizeStr := c.QueryParam("page_size"); sizeStr != "" {
		if size, err := strconv.Atoi(sizeStr); err == nil {
			criteria.PageSize = size
		}
	}

	page, err := h.service.Catalog().FetchGamesWithFilters(c.Request().Context(), criteria)
	if err != nil {
		return providerHTTPError(err)
	}
	return c.JSON(http.StatusOK, page)
}

// SearchGames searches the catalog by free text.
// GET /api/v1/games/search?q=...
func (h *Handlers) SearchGames(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q parameter is required")
	}

	page, err := h.service.Catalog().SearchGames(c.Request().Context(), query)
	if err != nil {
		return providerHTTPError(err)
	}
	return c.JSON(http.StatusOK, page)
}

// GetGame returns the fused record for a game.
// GET /api/v1/games/:id
func (h *Handlers) GetGame(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	record, err := h.service.GetEnhancedGameDetails(c.Request().Context(), id)
	if err != nil {
		return providerHTTPError(err)
	}
	return c.JSON(http.StatusOK, record)
}

// GetScreenshots returns the catalog's screenshot listing for a game.
// GET /api/v1/games/:id/screenshots
func (h *Handlers) GetScreenshots(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	shots, err := h.service.Catalog().GetGameScreenshots(c.Request().Context(), id)
	if err != nil {
		return providerHTTPError(err)
	}
	return c.JSON(http.StatusOK, shots)
}

// GetRecommendations returns the fill-up recommendation listing for a game.
// GET /api/v1/games/:id/recommendations
func (h *Handlers) GetRecommendations(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	games, err := h.service.Catalog().GetRecommendations(c.Request().Context(), id)
	if err != nil {
		return providerHTTPError(err)
	}
	return c.JSON(http.StatusOK, games)
}

// GetSimilarGames returns games from the same series.
// GET /api/v1/games/:id/similar
func (h *Handlers) GetSimilarGames(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	games, err := h.service.Catalog().GetSimilarGames(c.Request().Context(), id)
	if err != nil {
		return providerHTTPError(err)
	}
	return c.JSON(http.StatusOK, games)
}

// GetGamesByDeveloper returns a developer's top-rated games.
// GET /api/v1/games/developer/:id
func (h *Handlers) GetGamesByDeveloper(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	games, err := h.service.Catalog().GetGamesByDeveloper(c.Request().Context(), id)
	if err != nil {
		return providerHTTPError(err)
	}
	return c.JSON(http.StatusOK, games)
}

// GetPlatforms returns the platform reference listing.
// GET /api/v1/platforms
func (h *Handlers) GetPlatforms(c echo.Context) error {
	platforms, err := h.service.Catalog().GetPlatforms(c.Request().Context())
	if err != nil {
		return providerHTTPError(err)
	}
	return c.JSON(http.StatusOK, platforms)
}

// GetGenres returns the genre reference listing.
// GET /api/v1/genres
func (h *Handlers) GetGenres(c echo.Context) error {
	genres, err := h.service.Catalog().GetGenres(c.Request().Context())
	if err != nil {
		return providerHTTPError(err)
	}
	return c.JSON(http.StatusOK, genres)
}

// GetTrailer resolves a trailer for a game name. Resolution never fails;
// the worst outcome is a search-link result.
// GET /api/v1/trailer?name=...
func (h *Handlers) GetTrailer(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name parameter is required")
	}

	return c.JSON(http.StatusOK, h.service.GetGameTrailer(c.Request().Context(), name))
}

// providerHTTPError maps client errors to HTTP responses, preserving the
// upstream status for provider failures.
func providerHTTPError(err error) error {
	if errors.Is(err, rawg.ErrAPIKeyMissing) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "catalog provider is not configured")
	}
	var provErr *rawg.ProviderError
	if errors.As(err, &provErr) {
		return echo.NewHTTPError(provErr.StatusCode, provErr.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// parseIDList parses a comma-separated list of numeric ids, skipping
// malformed entries.
func parseIDList(raw string) []int {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		if id, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
