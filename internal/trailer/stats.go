package trailer

import (
	"sync/atomic"
	"time"
)

// Stats aggregates run-wide counters. All methods are safe for
// concurrent use by dispatcher workers.
type Stats struct {
	scanned    atomic.Int64
	downloaded atomic.Int64
	found      atomic.Int64
	started    time.Time
}

// NewStats returns a zeroed counter set with the elapsed clock started.
func NewStats() *Stats {
	return &Stats{started: time.Now()}
}

// AddScanned records a folder whose movie file was confirmed.
func (s *Stats) AddScanned() { s.scanned.Add(1) }

// AddDownloaded records a trailer placed by this run.
func (s *Stats) AddDownloaded() { s.downloaded.Add(1) }

// AddFound records a folder that already held a trailer.
func (s *Stats) AddFound() { s.found.Add(1) }

// Scanned reports how many folders contained a confirmed movie.
func (s *Stats) Scanned() int64 { return s.scanned.Load() }

// Downloaded reports how many trailers this run placed.
func (s *Stats) Downloaded() int64 { return s.downloaded.Load() }

// Found reports how many folders already held a trailer.
func (s *Stats) Found() int64 { return s.found.Load() }

// Missing reports scanned folders that ended the run without a trailer.
func (s *Stats) Missing() int64 {
	return s.Scanned() - (s.Downloaded() + s.Found())
}

// Elapsed reports wall-clock time since the counter set was created.
func (s *Stats) Elapsed() time.Duration {
	return time.Since(s.started)
}
