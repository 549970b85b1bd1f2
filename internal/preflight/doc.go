// Package preflight provides readiness checks for the external tools
// and filesystem paths trailer acquisition depends on.
//
// The CLI "trailertech status" command renders every check so a missing
// ffprobe or an unwritable temp directory is visible before a scan is
// attempted. The checks themselves never mutate anything.
package preflight
