// Package radarr classifies custom-script invocations from Radarr.
// Radarr passes its payload through environment variables; this package
// turns them into a processing decision plus identity overrides without
// touching the process environment itself, so callers inject any lookup
// function they like.
package radarr
