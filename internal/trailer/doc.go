// Package trailer coordinates trailer acquisition for movie folders.
// The orchestrator classifies one folder, resolves the movie's identity,
// collects candidate links from the Apple and TMDB collaborators, and
// hands candidates to the downloader until one lands. The dispatcher
// fans the orchestrator out across a library root, either sequentially
// or through a bounded worker pool, while shared run statistics track
// scanned, downloaded, and already-present counts.
package trailer
