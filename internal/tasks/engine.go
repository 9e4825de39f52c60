package tasks

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sonicmood/sonicmood/internal/models"
	"github.com/sonicmood/sonicmood/internal/mood"
	"github.com/sonicmood/sonicmood/internal/services"
	"github.com/sonicmood/sonicmood/internal/shared"
	"github.com/sonicmood/sonicmood/internal/state"
)

const (
	// topArtistSeeds is how many of the user's top artists seed a
	// recommendation request.
	topArtistSeeds = 2

	playlistNameFormat  = "SonicMood - %s %s"
	playlistDescription = "Generated by SonicMood based on local weather."
)

// Location tells the engine where to look the weather up. City takes
// precedence; then explicit coordinates; with neither, the engine falls back
// to IP geolocation.
type Location struct {
	City     string
	Lat, Lon float64
	HasCoord bool
}

// EngineOpts configures a sync [Engine].
type EngineOpts struct {
	Music   services.MusicService
	Weather services.WeatherService
	Locator services.Locator
	Store   *state.Store
	Logger  *log.Logger

	// Market and TrackCount come from config.
	Market     string
	TrackCount int

	// Rand overrides the shuffle source, for tests.
	Rand *rand.Rand
}

// Engine runs the weather-to-tracks pipeline and the playlist writer.
type Engine struct {
	music   services.MusicService
	weather services.WeatherService
	locator services.Locator
	store   *state.Store
	logger  *log.Logger

	market     string
	trackCount int
	rng        *rand.Rand
}

// NewEngine creates a sync engine.
func NewEngine(opts EngineOpts) *Engine {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.TrackCount <= 0 {
		opts.TrackCount = 12
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Engine{
		music:      opts.Music,
		weather:    opts.Weather,
		locator:    opts.Locator,
		store:      opts.Store,
		logger:     opts.Logger,
		market:     opts.Market,
		trackCount: opts.TrackCount,
		rng:        opts.Rand,
	}
}

// Sync runs the full pipeline: resolve location, fetch weather, derive the
// mood, fetch recommendations (falling back to a genre search), and apply
// the bundled result to the store. When recommendations and the fallback
// both fail, the snapshot is still applied with an empty track list and the
// recommendation error is returned.
func (e *Engine) Sync(ctx context.Context, loc Location, progress ProgressFunc) (*models.SyncResult, error) {
	if err := e.store.BeginSync(); err != nil {
		return nil, err
	}
	defer e.store.EndSync()

	seq := e.store.NextSeq()

	progress.report(PhaseFetchWeather, "Fetching weather")
	snapshot, err := e.fetchWeather(ctx, loc)
	if err != nil {
		return nil, err
	}

	progress.report(PhaseDeriveMood, fmt.Sprintf("Matching mood for %s", snapshot.Condition))
	genres := mood.GenresFor(snapshot.Condition, snapshot.IsDay)
	targets := mood.TargetsFor(snapshot.Condition, snapshot.IsDay)

	tracks, recErr := e.fetchTracks(ctx, genres, targets, progress)
	if recErr != nil {
		e.logger.Warn("recommendation pipeline failed", "error", recErr)
	}

	result := &models.SyncResult{
		ID:      shared.GenerateID(),
		Seq:     seq,
		Weather: *snapshot,
		Tracks:  tracks,
	}

	if err := e.store.Apply(result); err != nil {
		return nil, err
	}
	return result, recErr
}

func (e *Engine) fetchWeather(ctx context.Context, loc Location) (*models.WeatherSnapshot, error) {
	if loc.City != "" {
		return e.weather.CurrentByCity(ctx, loc.City)
	}

	lat, lon := loc.Lat, loc.Lon
	if !loc.HasCoord {
		var err error
		if lat, lon, err = e.locator.Locate(ctx); err != nil {
			return nil, err
		}
	}
	return e.weather.Current(ctx, lat, lon)
}

// fetchTracks tries the recommendation endpoint first, seeded by the user's
// top artists when available, and falls back to a genre keyword search with
// a client-side shuffle when the primary path fails.
func (e *Engine) fetchTracks(ctx context.Context, genres []string, targets mood.Targets, progress ProgressFunc) ([]models.Track, error) {
	progress.report(PhaseFetchSeeds, "Fetching top artists")
	artists, err := e.music.TopArtistIDs(ctx, topArtistSeeds)
	if err != nil {
		// Seed fetch is best effort; genre seeds still work.
		e.logger.Debug("top artists unavailable", "error", err)
		artists = nil
	}

	progress.report(PhaseFetchRecommendations, "Fetching recommendations")
	tracks, err := e.music.Recommendations(ctx, services.RecommendationQuery{
		SeedArtists: artists,
		SeedGenres:  genres,
		Targets:     &targets,
		Market:      e.market,
		Limit:       e.trackCount,
	})
	if err == nil && len(tracks) > 0 {
		return tracks, nil
	}
	if err != nil {
		e.logger.Debug("recommendations unavailable, trying search", "error", err)
	}

	progress.report(PhaseFallbackSearch, "Searching by genre")
	genre := genres[e.rng.Intn(len(genres))]
	found, searchErr := e.music.SearchTracksByGenre(ctx, genre, maxSearchResults(e.trackCount))
	if searchErr != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRecommendationFailed, errors.Join(err, searchErr))
	}

	e.shuffle(found)
	if len(found) > e.trackCount {
		found = found[:e.trackCount]
	}
	return found, nil
}

// maxSearchResults over-fetches so the post-shuffle truncation has variety
// to draw from.
func maxSearchResults(count int) int {
	if n := count * 2; n <= 50 {
		return n
	}
	return 50
}

// shuffle reorders tracks in place (Fisher-Yates).
func (e *Engine) shuffle(tracks []models.Track) {
	e.rng.Shuffle(len(tracks), func(i, j int) {
		tracks[i], tracks[j] = tracks[j], tracks[i]
	})
}

// Shuffle refetches recommendations for the stored weather snapshot. The
// snapshot is reused as-is; apparent novelty comes from provider-side
// nondeterminism plus the client-side shuffle in the fallback path. A
// refetch failure leaves the stored result untouched.
func (e *Engine) Shuffle(ctx context.Context, progress ProgressFunc) (*models.SyncResult, error) {
	latest := e.store.Latest()
	if latest == nil {
		return nil, shared.ErrNoSnapshot
	}

	if err := e.store.BeginSync(); err != nil {
		return nil, err
	}
	defer e.store.EndSync()

	seq := e.store.NextSeq()
	snapshot := latest.Weather

	progress.report(PhaseDeriveMood, fmt.Sprintf("Matching mood for %s", snapshot.Condition))
	genres := mood.GenresFor(snapshot.Condition, snapshot.IsDay)
	targets := mood.TargetsFor(snapshot.Condition, snapshot.IsDay)

	tracks, err := e.fetchTracks(ctx, genres, targets, progress)
	if err != nil {
		return nil, err
	}

	result := &models.SyncResult{
		ID:      shared.GenerateID(),
		Seq:     seq,
		Weather: snapshot,
		Tracks:  tracks,
	}
	if err := e.store.Apply(result); err != nil {
		return nil, err
	}
	return result, nil
}

// SavePlaylist writes the latest result to the user's library as a private
// playlist named after the snapshot's city and condition.
func (e *Engine) SavePlaylist(ctx context.Context, progress ProgressFunc) (*services.Playlist, error) {
	latest := e.store.Latest()
	if latest == nil {
		return nil, shared.ErrNoSnapshot
	}
	if len(latest.Tracks) == 0 {
		return nil, shared.ErrNoTracks
	}

	user, err := e.music.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrPlaylistWrite, err)
	}

	name := fmt.Sprintf(playlistNameFormat, latest.Weather.City, latest.Weather.Condition)

	progress.report(PhaseCreatePlaylist, fmt.Sprintf("Creating %q", name))
	playlist, err := e.music.CreatePlaylist(ctx, user.ID, name, playlistDescription)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrPlaylistWrite, err)
	}

	uris := make([]string, len(latest.Tracks))
	for i, t := range latest.Tracks {
		uris[i] = t.URI
	}

	progress.report(PhaseAddTracks, "Adding tracks")
	if err := e.music.AddTracks(ctx, playlist.ID, uris); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrPlaylistWrite, err)
	}

	e.logger.Info("playlist saved", "name", name, "tracks", len(uris))
	return playlist, nil
}
