package tasks

// Phase identifies a step of the sync or save pipeline.
type Phase int

const (
	PhaseFetchWeather Phase = iota
	PhaseDeriveMood
	PhaseFetchSeeds
	PhaseFetchRecommendations
	PhaseFallbackSearch
	PhaseCreatePlaylist
	PhaseAddTracks
)

func (p Phase) String() string {
	switch p {
	case PhaseFetchWeather:
		return "fetching weather"
	case PhaseDeriveMood:
		return "deriving mood"
	case PhaseFetchSeeds:
		return "fetching top artists"
	case PhaseFetchRecommendations:
		return "fetching recommendations"
	case PhaseFallbackSearch:
		return "searching by genre"
	case PhaseCreatePlaylist:
		return "creating playlist"
	case PhaseAddTracks:
		return "adding tracks"
	default:
		return "unknown"
	}
}

// ProgressUpdate reports pipeline progress to the caller (CLI spinner text,
// TUI status line).
type ProgressUpdate struct {
	Phase   Phase
	Message string
}

// ProgressFunc receives pipeline updates. A nil func disables reporting.
type ProgressFunc func(ProgressUpdate)

func (f ProgressFunc) report(phase Phase, msg string) {
	if f != nil {
		f(ProgressUpdate{Phase: phase, Message: msg})
	}
}
