// Package mood maps weather conditions to music search parameters.
//
// The mapping is pure and deterministic: a condition label plus a day/night
// flag yields either a genre tag list (used for the search fallback) or
// numeric audio-feature targets (used to steer the recommendation endpoint).
// Rules match by case-insensitive substring against an ordered list; the
// first matching rule wins, so "light rain" lands on the rain family before
// anything else is considered.
package mood

import "strings"

// Targets are audio-feature hints steering recommendations toward a mood.
// Values are in the provider's 0.0–1.0 range.
type Targets struct {
	Energy       float64
	Valence      float64
	Acousticness float64
}

const (
	// Night reduces target energy by a fixed offset, floored so a calm
	// condition can't bottom out at zero.
	nightEnergyOffset = 0.2
	energyFloor       = 0.15
)

// DefaultGenres is the catch-all tag for unrecognized conditions.
var DefaultGenres = []string{"pop"}

// rule associates a family of condition keywords with its genre tags and
// feature targets. Order matters.
type rule struct {
	keywords    []string
	dayGenres   []string
	nightGenres []string
	targets     Targets
}

var rules = []rule{
	{
		keywords:    []string{"rain", "drizzle", "thunderstorm"},
		dayGenres:   []string{"acoustic", "piano", "chill"},
		nightGenres: []string{"acoustic", "piano", "chill"},
		targets:     Targets{Energy: 0.35, Valence: 0.3, Acousticness: 0.8},
	},
	{
		keywords:    []string{"clear"},
		dayGenres:   []string{"pop", "summer", "road-trip"},
		nightGenres: []string{"club", "dance", "synth-pop"},
		targets:     Targets{Energy: 0.8, Valence: 0.85, Acousticness: 0.1},
	},
	{
		keywords:    []string{"clouds", "atmosphere", "mist", "fog", "haze"},
		dayGenres:   []string{"indie", "alt-rock"},
		nightGenres: []string{"indie", "alt-rock"},
		targets:     Targets{Energy: 0.5, Valence: 0.45, Acousticness: 0.4},
	},
	{
		keywords:    []string{"snow"},
		dayGenres:   []string{"classical", "holidays"},
		nightGenres: []string{"classical", "holidays"},
		targets:     Targets{Energy: 0.3, Valence: 0.5, Acousticness: 0.9},
	},
}

var defaultTargets = Targets{Energy: 0.6, Valence: 0.6, Acousticness: 0.3}

// GenresFor returns the fallback genre tags for a weather condition.
// Unrecognized conditions yield [DefaultGenres].
func GenresFor(condition string, isDay bool) []string {
	if r, ok := match(condition); ok {
		if isDay {
			return r.dayGenres
		}
		return r.nightGenres
	}
	return DefaultGenres
}

// TargetsFor returns the audio-feature targets for a weather condition.
// At night the energy target is reduced by a fixed offset, floored at the
// package minimum, so nighttime sets always lean calmer than daytime ones.
func TargetsFor(condition string, isDay bool) Targets {
	t := defaultTargets
	if r, ok := match(condition); ok {
		t = r.targets
	}

	if !isDay {
		t.Energy -= nightEnergyOffset
		if t.Energy < energyFloor {
			t.Energy = energyFloor
		}
	}

	return t
}

func match(condition string) (rule, bool) {
	c := strings.ToLower(condition)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(c, kw) {
				return r, true
			}
		}
	}
	return rule{}, false
}
