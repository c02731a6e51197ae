package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/botdetector/internal/common"
	"github.com/Veraticus/botdetector/internal/config"
	"github.com/Veraticus/botdetector/internal/detector"
	"github.com/Veraticus/botdetector/internal/rsn"
	"github.com/Veraticus/botdetector/internal/storage"
	"github.com/spf13/viper"
)

// loadConfig resolves the application configuration from viper.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, common.NewUserError("Configuration is invalid", err)
	}
	return cfg, nil
}

// newDetectorClient builds the HTTP client for the configured detector.
func newDetectorClient(cfg *config.Config) (*detector.Client, error) {
	client, err := detector.NewClient(detector.Config{
		BaseURL:   cfg.Detector.BaseURL,
		AuthToken: cfg.Detector.AuthToken,
		Timeout:   cfg.Detector.Timeout,
		Retry: common.RetryOptions{
			MaxAttempts: 3,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create detector client: %w", err)
	}
	return client, nil
}

// openHistory opens and migrates the lookup history database.
func openHistory(ctx context.Context, cfg *config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// resolvePlayer picks the name from args, falling back to the configured
// player.
func resolvePlayer(cfg *config.Config, args []string) (rsn.Name, error) {
	raw := cfg.Player.Name
	if len(args) > 0 {
		raw = args[0]
	}
	if raw == "" {
		return "", common.NewUserError("No player name given; pass one or set player.name", common.ErrNoIdentity)
	}

	name, err := rsn.Validate(raw)
	if err != nil {
		return "", common.NewUserError(fmt.Sprintf("%q is not a valid player name", raw), err)
	}
	return name, nil
}
