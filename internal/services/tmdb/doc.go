// Package tmdb resolves movies and lists their trailers through the TMDB API.
//
// ResolveMovie tries whichever identifiers the caller has, in fixed order:
// the numeric TMDB id, then the IMDb id through the find endpoint, then a
// title search optionally narrowed by release year. TrailerLinks walks the
// configured language preferences and returns YouTube watch links for
// trailer-typed videos at or above the configured resolution. Requests are
// rate limited, and successful lookups can be persisted through an optional
// cache so repeated scans stay off the network.
package tmdb
