package main

import (
	"context"
	"fmt"

	"github.com/sonicmood/sonicmood/internal/formatter"
	"github.com/sonicmood/sonicmood/internal/models"
	"github.com/sonicmood/sonicmood/internal/shared"
	"github.com/sonicmood/sonicmood/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Sync runs the full weather → recommendations pipeline.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.weather == nil {
		return fmt.Errorf("%w: weather service not initialized (set WEATHER_API_KEY or credentials.weather.api_key)", shared.ErrServiceUnavailable)
	}
	if r.music == nil {
		return fmt.Errorf("%w: music service not initialized", shared.ErrServiceUnavailable)
	}
	if !r.store.Authenticated() {
		return fmt.Errorf("%w: run 'sonicmood auth login' first", shared.ErrNotAuthenticated)
	}

	loc, err := syncLocation(cmd)
	if err != nil {
		return err
	}

	progress := func(u tasks.ProgressUpdate) {
		if !useJSON {
			r.writePlain("→ %s\n", u.Message)
		}
	}

	result, syncErr := r.engine.Sync(ctx, loc, progress)
	if result == nil {
		return syncErr
	}

	if syncErr != nil {
		r.logger.Warn("no recommendations available", "error", syncErr)
	}

	if useJSON {
		return r.writeJSON(result, pretty)
	}

	r.writePlainln("%s", formatter.SnapshotLine(&result.Weather))
	r.printTracks(result)

	if syncErr != nil {
		r.writePlain("\n⚠ No tracks could be fetched: %v\n", syncErr)
	}
	return nil
}

// syncLocation builds the engine location from command flags. A city name
// wins over coordinates; with neither, the engine geolocates by IP.
func syncLocation(cmd *cli.Command) (tasks.Location, error) {
	if city := cmd.String("city"); city != "" {
		return tasks.Location{City: city}, nil
	}

	if cmd.IsSet("lat") != cmd.IsSet("lon") {
		return tasks.Location{}, fmt.Errorf("%w: --lat and --lon must be given together", shared.ErrInvalidArgument)
	}

	if cmd.IsSet("lat") {
		return tasks.Location{
			Lat:      cmd.Float("lat"),
			Lon:      cmd.Float("lon"),
			HasCoord: true,
		}, nil
	}

	return tasks.Location{}, nil
}

// Shuffle refetches recommendations against the stored weather snapshot.
func (r *Runner) Shuffle(ctx context.Context, cmd *cli.Command) error {
	if r.music == nil {
		return fmt.Errorf("%w: music service not initialized", shared.ErrServiceUnavailable)
	}
	if !r.store.Authenticated() {
		return fmt.Errorf("%w: run 'sonicmood auth login' first", shared.ErrNotAuthenticated)
	}

	useJSON := cmd.Bool("json")
	result, err := r.engine.Shuffle(ctx, func(u tasks.ProgressUpdate) {
		if !useJSON {
			r.writePlain("→ %s\n", u.Message)
		}
	})
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(result, true)
	}

	r.writePlainln("%s", formatter.SnapshotLine(&result.Weather))
	r.printTracks(result)
	return nil
}

func (r *Runner) printTracks(result *models.SyncResult) {
	if len(result.Tracks) == 0 {
		r.writePlain("No tracks.\n")
		return
	}

	r.writePlain("Tracks (%d):\n\n", len(result.Tracks))
	for i, track := range result.Tracks {
		r.writePlain("%2d. %s\n", i+1, formatter.TrackLine(&track))
	}
}
