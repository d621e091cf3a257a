package main

import (
	"context"
	"errors"
	"os"

	"github.com/peaceding/recordium/internal/auth"
	"github.com/peaceding/recordium/internal/services"
	"github.com/peaceding/recordium/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var spotifyService services.OAuthService
	var authManager *auth.Manager

	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(config.Credentials.Spotify.Map()); err == nil {
			spotifyService = svc
			store := auth.NewTokenStore(config.Credentials.Spotify.TokenPath)
			authManager = auth.NewManager(svc, store, logger)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Spotify: spotifyService,
		Auth:    authManager,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "recordium",
		Usage:    "Catalog your album collection in spaces and boxes",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
