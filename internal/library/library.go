package library

import (
	"errors"
	"path/filepath"
	"strings"

	"trailertech/internal/media/probe"
	"trailertech/internal/nfo"
)

// ErrAmbiguousMovie reports that a folder holds more than one movie-length
// video while the movie policy demands exactly one.
var ErrAmbiguousMovie = errors.New("multiple movie files in folder")

// MoviePolicy decides which file wins when a folder holds several
// movie-length videos.
type MoviePolicy string

const (
	// PolicyLast keeps the movie file encountered last, in listing order.
	PolicyLast MoviePolicy = "last"
	// PolicyFirst keeps the movie file encountered first.
	PolicyFirst MoviePolicy = "first"
	// PolicyError rejects the folder as ambiguous.
	PolicyError MoviePolicy = "error"
)

// trailerContainerExt is the container every downloaded trailer ends up in.
const trailerContainerExt = ".mp4"

var videoExtensions = map[string]struct{}{
	".mkv":  {},
	".iso":  {},
	".wmv":  {},
	".avi":  {},
	".mp4":  {},
	".m4v":  {},
	".img":  {},
	".divx": {},
	".mov":  {},
	".flv":  {},
	".m2ts": {},
}

var sidecarExtensions = map[string]struct{}{
	".nfo": {},
	".xml": {},
}

// discShape describes one disc-image directory convention: the marker that
// identifies the directory, the index file that stands in for the movie, and
// the substring that marks a trailer entry inside it.
type discShape struct {
	marker      string
	indexFile   string
	trailerMark string
}

var discShapes = []discShape{
	{marker: "bdmv", indexFile: "index.bdmv", trailerMark: "index-trailer"},
	{marker: "video_ts", indexFile: "VIDEO_TS.IFO", trailerMark: "video_ts-trailer"},
}

func matchDiscShape(name string) (discShape, bool) {
	lowered := strings.ToLower(name)
	for _, shape := range discShapes {
		if strings.Contains(lowered, shape.marker) {
			return shape, true
		}
	}
	return discShape{}, false
}

// VideoFile is one discovered video entry. Disc index files carry a forced
// duration just above the movie threshold instead of a probed one.
type VideoFile struct {
	Path     string
	Name     string
	Size     int64
	Duration float64
}

// IsMovie reports whether the file is feature-length.
func (v *VideoFile) IsMovie() bool {
	return v.Duration >= probe.MinMovieSeconds
}

// Result is the classification of one movie folder.
type Result struct {
	Dir     string
	Movie   *VideoFile
	Trailer *VideoFile
	Record  nfo.Record

	recordSize int64
	hasRecord  bool
}

// HasMovie reports whether a movie-length video was found.
func (r *Result) HasMovie() bool { return r.Movie != nil }

// HasTrailer reports whether a trailer-length video was found.
func (r *Result) HasTrailer() bool { return r.Trailer != nil }

// TrailerBaseName returns the file name a downloaded trailer should carry:
// the movie's base name with the trailer suffix and the mp4 container.
// Empty when no movie was found.
func (r *Result) TrailerBaseName() string {
	if r.Movie == nil {
		return ""
	}
	stem := strings.TrimSuffix(r.Movie.Name, filepath.Ext(r.Movie.Name))
	return stem + probe.TrailerSuffix + trailerContainerExt
}

// TrailerDir returns the directory a downloaded trailer belongs in, which is
// the movie file's parent. Empty when no movie was found.
func (r *Result) TrailerDir() string {
	if r.Movie == nil {
		return ""
	}
	return filepath.Dir(r.Movie.Path)
}

// keepRecord retains the candidate when it is complete and either the first
// complete record seen or backed by a strictly larger sidecar file.
func (r *Result) keepRecord(record nfo.Record, size int64) bool {
	if !record.Complete() {
		return false
	}
	if r.hasRecord && size <= r.recordSize {
		return false
	}
	r.Record = record
	r.recordSize = size
	r.hasRecord = true
	return true
}
