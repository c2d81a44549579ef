// ABOUTME: Entry point for chatrelay
// ABOUTME: Loads configuration, opens the store, seeds admins, and runs the bot

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/chatrelay/chatrelay/internal/bot"
	"github.com/chatrelay/chatrelay/internal/config"
	"github.com/chatrelay/chatrelay/internal/llm"
	"github.com/chatrelay/chatrelay/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// getConfigPath returns the config file path.
// Priority: -config flag > CHATRELAY_CONFIG env var > ./chatrelay.yaml
func getConfigPath() string {
	var path string
	flag.StringVar(&path, "config", "", "path to config file")
	flag.Parse()

	if path != "" {
		return path
	}
	if envPath := os.Getenv("CHATRELAY_CONFIG"); envPath != "" {
		return envPath
	}
	return "chatrelay.yaml"
}

func run() error {
	// Best effort; a missing .env just means the environment is already set
	_ = godotenv.Load()

	configPath := getConfigPath()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := config.NewLogger(cfg.Logging)
	// Component loggers throughout the process derive from the default
	slog.SetDefault(logger)

	logger.Info("starting chatrelay", "config", configPath, "database", cfg.Database.URL, "model", cfg.Chat.Model)

	db, err := store.Open(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close()

	ids, invalid := config.ParseAdminIDs(cfg.Access.AdminUserIDs)
	for _, bad := range invalid {
		logger.Warn("skipping invalid admin id", "value", bad)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := db.SeedAdmins(ctx, ids); err != nil {
		return fmt.Errorf("seeding admins: %w", err)
	}

	completer, err := llm.New(llm.Options{
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		Model:       cfg.Chat.Model,
		Temperature: cfg.Chat.Temperature,
	})
	if err != nil {
		return fmt.Errorf("creating llm client: %w", err)
	}

	transcriber := llm.NewWhisper(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.Chat.TranscriptionModel)

	b, err := bot.New(cfg.Telegram.Token, bot.Options{
		Store:        db,
		Completer:    completer,
		Transcriber:  transcriber,
		Logger:       logger,
		HistoryLimit: cfg.Chat.HistoryLimit,
	})
	if err != nil {
		return fmt.Errorf("creating bot: %w", err)
	}

	return b.Run(ctx)
}
