package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gamedex/gamedex/internal/config"
	"github.com/gamedex/gamedex/internal/logger"
	"github.com/gamedex/gamedex/internal/proxy"
	"github.com/gamedex/gamedex/internal/ratelimit"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	// Local development credentials; missing file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	defer log.Close()

	log.Info().
		Str("version", config.Version).
		Str("logLevel", cfg.Logging.Level).
		Int("port", cfg.Server.Port).
		Msg("starting GameDex")

	// One shared quota for every catalog-provider call in the process.
	limiter := ratelimit.New(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowSeconds)*time.Second, log.Logger)
	if err := limiter.StartSweeper(time.Duration(cfg.RateLimit.SweepSeconds) * time.Second); err != nil {
		log.Warn().Err(err).Msg("failed to start rate limiter sweeper")
	}
	defer limiter.Close()

	server := proxy.NewServer(cfg, limiter, log.Logger)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(cfg.Server.Address()); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Error().Err(err).Msg("server failed")
		os.Exit(1)
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}

	log.Info().Msg("shutdown complete")
}
