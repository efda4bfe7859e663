// ABOUTME: Main entry point for the relay HTTP server
// ABOUTME: Wires config, storage, backends, and the gin router together
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/harper/chat-relay/internal/charm"
	"github.com/harper/chat-relay/internal/config"
	"github.com/harper/chat-relay/internal/httpserver"
	"github.com/harper/chat-relay/internal/llm"
	"github.com/harper/chat-relay/internal/relay"
	"github.com/harper/chat-relay/internal/storage/sqlite"
)

func main() {
	// Load .env file if it exists (for API keys)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if err := cfg.RequireAPIKey(); err != nil {
		log.Fatal().Err(err).Msg("missing backend credentials")
	}

	logger := setupLogger(cfg)

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = sqlite.DefaultDBPath()
	}

	db, err := sqlite.Open(dbPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", dbPath).Msg("failed to open database")
	}
	defer func() { _ = db.Close() }()

	clientCfg := &llm.ClientConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		TextModel:   cfg.TextModel,
		VisionModel: cfg.VisionModel,
		Timeout:     cfg.Timeout,
		MaxRetries:  cfg.MaxRetries,
		RetryDelay:  cfg.RetryDelay,
	}

	describer, err := llm.NewDescriber(clientCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize vision backend")
	}
	responder, err := llm.NewResponder(clientCfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize text backend")
	}

	store := sqlite.NewTurnStore(db)
	rl := relay.New(store, describer, responder, logger)

	if cfg.CharmArchive {
		archive, err := charm.NewClient(&charm.Config{
			Host:     cfg.CharmHost,
			DBName:   cfg.CharmDBName,
			AutoSync: cfg.CharmAutoSync,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("charm archive unavailable, continuing without it")
		} else {
			defer func() { _ = archive.Close() }()
			rl.SetArchiver(archive)
			logger.Info().Str("host", cfg.CharmHost).Msg("charm archive enabled")
		}
	}
	srv := httpserver.New(rl, cfg.Addr(), cfg.ShutdownTimeout, logger)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("addr", cfg.Addr()).
		Str("db", dbPath).
		Str("environment", cfg.Environment).
		Msg("starting chat relay")

	if err := srv.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}

	logger.Info().Msg("shutdown complete")
}

func setupLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.NewConsoleWriter())
	} else {
		logger = zerolog.New(os.Stderr)
	}

	return logger.Level(level).With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Logger()
}
