// Package tmdbcache persists TMDB lookup results between runs.
//
// The cache is a small bolt database keyed by bucket and lookup key, storing
// the JSON payloads the TMDB client would otherwise re-fetch on every scan.
// A cache opened with an empty path is a no-op: reads miss and writes vanish,
// so callers never branch on whether caching is configured.
package tmdbcache
