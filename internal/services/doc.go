// Package services defines shared utilities consumed by the trailer pipeline
// and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp the folder being processed and the worker
//     handling it for logging.
//   - Structured error markers plus the Wrap helper so failures from external
//     services (TMDB, Apple, downloads) classify consistently.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across components.
package services
