// Package probe measures media durations with ffprobe and degrades gracefully
// when probing fails.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//
// Primary entry points:
//   - Inspect: executes ffprobe and returns the parsed Result
//   - Duration: returns the duration in seconds, substituting a name-based
//     estimate when ffprobe fails or reports nothing usable
//
// The fallback lives here and nowhere else: a file whose basename ends in the
// trailer suffix is assumed trailer-length, anything else is assumed to be
// just over the movie threshold.
package probe
