package radarr

import (
	"strings"

	"trailertech/internal/trailer"
)

// Environment variable names set by Radarr for custom-script hooks.
const (
	EnvEventType = "radarr_eventtype"
	EnvMoviePath = "radarr_movie_path"
	EnvTMDBID    = "radarr_movie_tmdbid"
	EnvIMDBID    = "radarr_movie_imdbid"
	EnvTitle     = "radarr_movie_title"
	EnvYear      = "radarr_movie_year"
)

// Decision tells the caller how to react to a Radarr invocation.
type Decision int

const (
	// DecisionProcess runs trailer acquisition on Event.Path.
	DecisionProcess Decision = iota
	// DecisionIgnore acknowledges the event and exits cleanly.
	DecisionIgnore
	// DecisionInsufficient means the environment does not carry enough
	// to act on; the caller should fail the invocation.
	DecisionInsufficient
)

// Event is the payload Radarr delivered. Type keeps Radarr's original
// casing for logging; matching happens case-insensitively.
type Event struct {
	Type      string
	Path      string
	Overrides trailer.Overrides
}

// Parse classifies an invocation from environment values. lookup is
// usually os.Getenv. A download event without a movie path is treated
// as insufficient input rather than an ignorable event, since Radarr
// always sets the path on real downloads.
func Parse(lookup func(string) string) (Event, Decision) {
	get := func(key string) string {
		return strings.TrimSpace(lookup(key))
	}

	event := Event{
		Type: get(EnvEventType),
		Path: get(EnvMoviePath),
		Overrides: trailer.Overrides{
			TMDBID: get(EnvTMDBID),
			IMDBID: get(EnvIMDBID),
			Title:  get(EnvTitle),
			Year:   get(EnvYear),
		},
	}

	switch strings.ToLower(event.Type) {
	case "":
		return event, DecisionInsufficient
	case "download":
		if event.Path == "" {
			return event, DecisionInsufficient
		}
		return event, DecisionProcess
	case "test":
		return event, DecisionIgnore
	default:
		return event, DecisionIgnore
	}
}
