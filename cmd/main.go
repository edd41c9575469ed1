package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/libman/internal/repositories"
	"github.com/desertthunder/libman/internal/services"
	"github.com/desertthunder/libman/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const spotifyTokenURL = "https://accounts.spotify.com/api/token"

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var catalog services.Catalog
	var creds *services.CredentialStore

	spotify := config.Credentials.Spotify
	if spotify.AccessToken != "" || spotify.RefreshToken != "" {
		refresher := services.OAuthRefresher(&oauth2.Config{
			ClientID:     spotify.ClientID,
			ClientSecret: spotify.ClientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: spotifyTokenURL},
		})
		creds = services.NewCredentialStore(&oauth2.Token{
			AccessToken:  spotify.AccessToken,
			RefreshToken: spotify.RefreshToken,
		}, refresher)

		client := services.NewSpotifyClient(services.ClientOpts{
			Credentials:       creds,
			RequestsPerSecond: config.Limiter.RequestsPerSecond,
			Burst:             config.Limiter.Burst,
			MaxRetries:        config.Limiter.MaxRetries,
			BackoffBase:       config.Limiter.BackoffBase(),
			BackoffCap:        config.Limiter.BackoffCap(),
			Logger:            logger,
		})
		catalog = services.NewSpotifyService(client)
	}

	var cache *repositories.CacheRepository
	if config.Cache.Path != "" {
		if db, err := shared.NewDatabase(config.Cache.Path); err == nil {
			shared.ConfigureDatabase(db, config.Cache.MaxOpenConns, config.Cache.MaxIdleConns)
			cache = repositories.NewCacheRepository(db)
		} else {
			logger.Warn("cache unavailable, running cold", "path", config.Cache.Path, "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:      config,
		Catalog:     catalog,
		Credentials: creds,
		Cache:       cache,
		Logger:      logger,
	})

	app := &cli.Command{
		Name:     "libman",
		Usage:    "Bulk-sync and match a Spotify library",
		Version:  "0.1.0",
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
