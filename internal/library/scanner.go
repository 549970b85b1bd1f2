package library

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"trailertech/internal/logging"
	"trailertech/internal/media/probe"
	"trailertech/internal/nfo"
)

// Prober reports a media file's playable duration in seconds. Implementations
// return a usable estimate instead of an error so classification always has a
// value to work with.
type Prober interface {
	Duration(ctx context.Context, path string) float64
}

// Scanner classifies movie folders.
type Scanner struct {
	prober Prober
	policy MoviePolicy
	logger *slog.Logger
}

// NewScanner constructs a Scanner using the provided duration prober. An
// empty policy defaults to PolicyLast.
func NewScanner(prober Prober, policy MoviePolicy, logger *slog.Logger) *Scanner {
	if policy == "" {
		policy = PolicyLast
	}
	return &Scanner{
		prober: prober,
		policy: policy,
		logger: logging.NewComponentLogger(logger, "library"),
	}
}

// Scan classifies the immediate entries of dir. Entries are visited in
// lexical order, so repeated runs over the same folder agree on which file
// wins under PolicyLast or PolicyFirst. Returns ErrAmbiguousMovie under
// PolicyError when a second movie-length video turns up.
func (s *Scanner) Scan(ctx context.Context, dir string) (*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read folder: %w", err)
	}

	result := &Result{Dir: dir}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			shape, ok := matchDiscShape(entry.Name())
			if !ok {
				continue
			}
			if err := s.scanDisc(ctx, path, shape, result); err != nil {
				return nil, err
			}
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := videoExtensions[ext]; ok {
			if err := s.addVideo(ctx, path, entry, result); err != nil {
				return nil, err
			}
			continue
		}
		if _, ok := sidecarExtensions[ext]; ok {
			s.addSidecar(path, entry, result)
		}
	}
	return result, nil
}

func (s *Scanner) addVideo(ctx context.Context, path string, entry os.DirEntry, result *Result) error {
	video := s.newVideo(ctx, path, entry)
	if video.IsMovie() {
		return s.setMovie(result, video)
	}
	result.Trailer = video
	s.logger.Debug("trailer found",
		logging.String("file", video.Name),
		logging.Float64("seconds", video.Duration))
	return nil
}

func (s *Scanner) addSidecar(path string, entry os.DirEntry, result *Result) {
	record := nfo.Parse(path)
	var size int64
	if info, err := entry.Info(); err == nil {
		size = info.Size()
	}
	if result.keepRecord(record, size) {
		s.logger.Debug("sidecar found", logging.String("file", entry.Name()))
	}
}

// scanDisc handles one disc-image directory: the index file stands in for
// the movie without probing, and any entry carrying the shape's trailer
// marker is probed and kept when trailer-length.
func (s *Scanner) scanDisc(ctx context.Context, dir string, shape discShape, result *Result) error {
	indexPath := filepath.Join(dir, shape.indexFile)
	info, err := os.Stat(indexPath)
	if err != nil || info.IsDir() {
		return nil
	}
	s.logger.Debug("disc structure found", logging.String(logging.FieldFolder, dir))

	movie := &VideoFile{
		Path:     indexPath,
		Name:     shape.indexFile,
		Size:     info.Size(),
		Duration: probe.MinMovieSeconds + 1,
	}
	if err := s.setMovie(result, movie); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.Contains(strings.ToLower(entry.Name()), shape.trailerMark) {
			continue
		}
		video := s.newVideo(ctx, filepath.Join(dir, entry.Name()), entry)
		if video.IsMovie() {
			continue
		}
		result.Trailer = video
		s.logger.Debug("trailer found",
			logging.String("file", video.Name),
			logging.Float64("seconds", video.Duration))
	}
	return nil
}

func (s *Scanner) setMovie(result *Result, video *VideoFile) error {
	if result.Movie != nil {
		switch s.policy {
		case PolicyFirst:
			s.logger.Debug("movie already chosen, keeping first",
				logging.String("file", result.Movie.Name),
				logging.String("ignored", video.Name))
			return nil
		case PolicyError:
			return fmt.Errorf("%w: %s, %s", ErrAmbiguousMovie, result.Movie.Name, video.Name)
		}
	}
	result.Movie = video
	s.logger.Debug("movie found", logging.String("file", video.Name))
	return nil
}

func (s *Scanner) newVideo(ctx context.Context, path string, entry os.DirEntry) *VideoFile {
	var size int64
	if info, err := entry.Info(); err == nil {
		size = info.Size()
	}
	return &VideoFile{
		Path:     path,
		Name:     entry.Name(),
		Size:     size,
		Duration: s.prober.Duration(ctx, path),
	}
}
