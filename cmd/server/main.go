package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/beauBalthazarBruneau/draft-engine/internal/config"
	"github.com/beauBalthazarBruneau/draft-engine/internal/events"
	"github.com/beauBalthazarBruneau/draft-engine/internal/gateway"
	"github.com/beauBalthazarBruneau/draft-engine/internal/models"
	"github.com/beauBalthazarBruneau/draft-engine/internal/pool"
	"github.com/beauBalthazarBruneau/draft-engine/internal/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setupLogging(cfg.LogLevel)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NATSURL != "" {
		natsPub, err := events.NewNATSPublisher(cfg.NATSURL, cfg.NATSPrefix)
		if err != nil {
			log.Fatal().Err(err).Str("url", cfg.NATSURL).Msg("failed to connect to NATS")
		}
		publisher = natsPub
		log.Info().Str("url", cfg.NATSURL).Msg("connected to NATS")
	}
	defer publisher.Close()

	var defaultPool models.Pool
	if cfg.ProjectionsPath != "" {
		defaultPool, err = pool.LoadFile(cfg.ProjectionsPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.ProjectionsPath).Msg("failed to load projections")
		}
		log.Info().Int("players", len(defaultPool)).Str("path", cfg.ProjectionsPath).Msg("loaded default player pool")
	}

	registry := session.NewRegistry(clockwork.NewRealClock(), cfg.SessionTTL())
	manager := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	api := gateway.NewAPI(registry, manager, publisher, cfg.Engine, defaultPool)
	srv := gateway.NewServer(cfg.ListenAddr, api)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go manager.Start(ctx)
	go registry.RunJanitor(ctx, cfg.JanitorInterval())

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if os.Getenv("LOG_PRETTY") == "true" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
