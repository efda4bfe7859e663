// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Relay construction, storage helpers, and display formatting
package commands

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/harper/chat-relay/internal/config"
	"github.com/harper/chat-relay/internal/llm"
	"github.com/harper/chat-relay/internal/relay"
	"github.com/harper/chat-relay/internal/storage/sqlite"
)

// openTurnStore opens the relay database for read-only commands
func openTurnStore() (*sqlite.TurnStore, *sqlite.DB, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = sqlite.DefaultDBPath()
	}

	db, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	return sqlite.NewTurnStore(db), db, nil
}

// buildRelay wires up the full relay: storage plus both backends
func buildRelay(log zerolog.Logger) (*relay.Relay, *sqlite.DB, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, nil, err
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = sqlite.DefaultDBPath()
	}

	db, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

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
		_ = db.Close()
		return nil, nil, fmt.Errorf("initializing vision backend: %w", err)
	}
	responder, err := llm.NewResponder(clientCfg, log)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("initializing text backend: %w", err)
	}

	store := sqlite.NewTurnStore(db)
	return relay.New(store, describer, responder, log), db, nil
}

// cliLogger builds a logger honoring the global verbosity flags
func cliLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	if quiet {
		level = zerolog.ErrorLevel
	}
	return zerolog.New(zerolog.NewConsoleWriter()).Level(level).With().Timestamp().Logger()
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		mins := int(diff.Minutes())
		return fmt.Sprintf("%dm ago", mins)
	} else if diff < 24*time.Hour {
		hours := int(diff.Hours())
		return fmt.Sprintf("%dh ago", hours)
	} else if diff < 7*24*time.Hour {
		days := int(diff.Hours() / 24)
		return fmt.Sprintf("%dd ago", days)
	}
	return t.Format("2006-01-02")
}
