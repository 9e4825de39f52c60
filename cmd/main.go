package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/sonicmood/sonicmood/internal/repositories"
	"github.com/sonicmood/sonicmood/internal/services"
	"github.com/sonicmood/sonicmood/internal/shared"
	"github.com/sonicmood/sonicmood/internal/state"
	"github.com/urfave/cli/v3"
)

func main() {
	// .env is optional; real config comes from config.toml and the
	// environment overlay.
	godotenv.Load()

	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config.toml, using defaults", "error", err)
		}
	}

	var store *state.Store
	if db, err := shared.NewDatabase(config.Database.Path); err != nil {
		logger.Warn("database unavailable, state will not persist", "error", err)
		store = state.NewStore(nil, nil)
	} else {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		if err := shared.RunMigrations(db); err != nil {
			logger.Warn("migrations failed, state will not persist", "error", err)
			store = state.NewStore(nil, nil)
		} else {
			store = state.NewStore(
				repositories.NewSessionRepository(db),
				repositories.NewResultRepository(db),
			)
			if err := store.Restore(); err != nil {
				logger.Warn("failed to restore saved state", "error", err)
			}
		}
	}

	var music services.MusicService
	if svc, err := services.NewSpotifyService(services.SpotifyOpts{Tokens: store}); err == nil {
		music = svc
	} else {
		logger.Warn("music service unavailable", "error", err)
	}

	var weather services.WeatherService
	if config.Credentials.Weather.APIKey != "" {
		if svc, err := services.NewOpenWeatherService(services.OpenWeatherOpts{
			APIKey: config.Credentials.Weather.APIKey,
		}); err == nil {
			weather = svc
		} else {
			logger.Warn("weather service unavailable", "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Music:   music,
		Weather: weather,
		Locator: services.NewIPLocator(""),
		Store:   store,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "sonicmood",
		Usage:    "Turn local weather into a mood-matched playlist",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
