package proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/gamedex/gamedex/internal/config"
	"github.com/gamedex/gamedex/internal/metadata"
	"github.com/gamedex/gamedex/internal/ratelimit"
)

// Server is the gateway process: it forwards metadata-provider queries with
// injected credentials, relays the free-games provider, and hosts the
// aggregation API plus the optional static frontend.
type Server struct {
	echo       *echo.Echo
	cfg        *config.Config
	logger     zerolog.Logger
	httpClient *http.Client

	tokens          *TokenCache
	freetogame      *FreeToGameClient
	metadataService *metadata.Service
}

// igdbQuery is the forwarding payload accepted on /igdb.
type igdbQuery struct {
	Query string `json:"query"`
}

// NewServer creates a new gateway server instance.
func NewServer(cfg *config.Config, limiter *ratelimit.Limiter, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		cfg:    cfg,
		logger: logger.With().Str("component", "proxy").Logger(),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.IGDB.Timeout) * time.Second,
		},
		tokens:          NewTokenCache(cfg.IGDB, logger),
		freetogame:      NewFreeToGameClient(cfg.FreeToGame, logger),
		metadataService: metadata.NewService(cfg, limiter, logger),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())

	s.echo.Use(middleware.RequestID())

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Info().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))

	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{Level: 5}))
}

// setupRoutes configures the gateway routes.
func (s *Server) setupRoutes() {
	s.echo.POST("/igdb", s.forwardIGDB)
	s.echo.GET("/health", s.healthCheck)

	s.echo.GET("/api/freetogame/games", s.freeToGameList)
	s.echo.GET("/api/freetogame/game", s.freeToGameDetail)

	api := s.echo.Group("/api/v1")
	metadata.NewHandlers(s.metadataService).RegisterRoutes(api)

	// Optional built frontend with SPA fallback
	if s.cfg.Server.StaticDir != "" {
		s.echo.Use(middleware.StaticWithConfig(middleware.StaticConfig{
			Root:   s.cfg.Server.StaticDir,
			Index:  "index.html",
			HTML5:  true,
			Browse: false,
		}))
	}
}

// forwardIGDB accepts a structured text query, obtains a credential, and
// issues the query to the metadata provider with the required identity
// headers. The provider's JSON body is relayed verbatim on success.
// POST /igdb
func (s *Server) forwardIGDB(c echo.Context) error {
	var payload igdbQuery
	if err := c.Bind(&payload); err != nil || payload.Query == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "query is required"})
	}

	token, err := s.tokens.GetToken(c.Request().Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("credential acquisition failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":   "IGDB API request failed",
			"details": err.Error(),
		})
	}

	reqURL := fmt.Sprintf("%s/games", s.cfg.IGDB.APIURL)
	req, err := http.NewRequestWithContext(c.Request().Context(), http.MethodPost, reqURL, strings.NewReader(payload.Query))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	req.Header.Set("Client-ID", s.cfg.IGDB.ClientID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "text/plain")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error":   "IGDB API request failed",
			"details": err.Error(),
		})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Warn().Int("status", resp.StatusCode).Msg("metadata provider rejected forwarded query")
		return c.JSON(resp.StatusCode, map[string]string{
			"error":   "IGDB API request failed",
			"details": string(body),
		})
	}

	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, body)
}

// healthCheck reports gateway liveness and credential state.
// GET /health
func (s *Server) healthCheck(c echo.Context) error {
	igdbStatus := "unauthenticated"
	if s.tokens.Authenticated() {
		igdbStatus = "authenticated"
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":     "ok",
		"igdb":       igdbStatus,
		"serverTime": time.Now().Format(time.RFC3339),
	})
}

// freeToGameList relays the free-games listing.
// GET /api/freetogame/games?platform=...&category=...
func (s *Server) freeToGameList(c echo.Context) error {
	body, err := s.freetogame.Games(c.Request().Context(), c.QueryParam("platform"), c.QueryParam("category"))
	if err != nil {
		return s.freeToGameError(c, err)
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, body)
}

// freeToGameDetail relays one game's detail record.
// GET /api/freetogame/game?id=...
func (s *Server) freeToGameDetail(c echo.Context) error {
	id := c.QueryParam("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "id is required"})
	}

	body, err := s.freetogame.Game(c.Request().Context(), id)
	if err != nil {
		return s.freeToGameError(c, err)
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, body)
}

func (s *Server) freeToGameError(c echo.Context, err error) error {
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": fmt.Sprintf("FreeToGame API returned %d", upstreamErr.StatusCode),
		})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

// Start begins serving on the given address.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance (for tests).
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
