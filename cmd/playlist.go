package main

import (
	"context"
	"fmt"

	"github.com/sonicmood/sonicmood/internal/formatter"
	"github.com/sonicmood/sonicmood/internal/shared"
	"github.com/sonicmood/sonicmood/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PlaylistSave writes the latest sync result to the user's Spotify library.
func (r *Runner) PlaylistSave(ctx context.Context, cmd *cli.Command) error {
	if r.music == nil {
		return fmt.Errorf("%w: music service not initialized", shared.ErrServiceUnavailable)
	}
	if !r.store.Authenticated() {
		return fmt.Errorf("%w: run 'sonicmood auth login' first", shared.ErrNotAuthenticated)
	}

	latest := r.store.Latest()
	if latest == nil {
		return fmt.Errorf("%w: run 'sonicmood sync' first", shared.ErrNoSnapshot)
	}
	if len(latest.Tracks) == 0 {
		return shared.ErrNoTracks
	}

	name := fmt.Sprintf("SonicMood - %s %s", latest.Weather.City, latest.Weather.Condition)

	if !cmd.Bool("yes") {
		r.writePlain("Playlist: %s\n", name)
		r.writePlain("Tracks: %d\n\n", len(latest.Tracks))
		if !r.confirm("Save to your Spotify library?") {
			return r.writePlain("Aborted.\n")
		}
	}

	playlist, err := r.engine.SavePlaylist(ctx, func(u tasks.ProgressUpdate) {
		r.writePlain("→ %s\n", u.Message)
	})
	if err != nil {
		return err
	}

	r.writePlainHeader("Playlist Saved!")
	r.writePlain("Name: %s\n", playlist.Name)
	if playlist.URL != "" {
		r.writePlain("URL: %s\n", playlist.URL)
	}
	return nil
}

// PlaylistExport writes the latest sync result to a local file.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	output := cmd.String("output")

	latest := r.store.Latest()
	if latest == nil {
		return fmt.Errorf("%w: run 'sonicmood sync' first", shared.ErrNoSnapshot)
	}

	switch format {
	case "csv":
		result, err := formatter.WriteCSVExport(latest, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported to %s\n", result.TracksFile)
		r.writePlain("✓ Weather metadata in %s\n", result.MetadataFile)
		return nil
	case "markdown", "md":
		result, err := formatter.WriteMarkdownExport(latest, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported to %s\n", result.Directory)
		return nil
	case "text", "txt":
		path, err := formatter.WriteTextExport(latest, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported to %s\n", path)
		return nil
	default:
		return fmt.Errorf("%w: unknown format %q (expected csv, markdown, or text)", shared.ErrInvalidArgument, format)
	}
}
