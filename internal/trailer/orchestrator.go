package trailer

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"trailertech/internal/download"
	"trailertech/internal/library"
	"trailertech/internal/logging"
	"trailertech/internal/services"
	"trailertech/internal/services/tmdb"
)

// Classifier inspects one movie folder and reports its contents.
type Classifier interface {
	Scan(ctx context.Context, dir string) (*library.Result, error)
}

// Catalog resolves movie identity and lists official trailer links.
type Catalog interface {
	ResolveMovie(ctx context.Context, tmdbID, imdbID, title, year string) (*tmdb.Movie, error)
	TrailerLinks(ctx context.Context, movieID int64, languages []string, minResolution int) ([]string, error)
}

// Scraper lists downloadable trailer links for a title and year pair.
type Scraper interface {
	TrailerLinks(ctx context.Context, title, year string) ([]string, error)
}

// Downloader places one candidate next to the movie file.
type Downloader interface {
	Download(ctx context.Context, fileName, dir string, candidate download.Candidate) error
}

// Overrides carries caller-supplied identity that replaces whatever a
// sidecar record says. The group is all-or-nothing: once any usable
// override is present the sidecar identity is ignored entirely.
type Overrides struct {
	TMDBID string
	IMDBID string
	Title  string
	Year   string
}

// Active reports whether the override group supersedes sidecar identity.
// A bare title or bare year is not enough to search with, so the pair
// only counts together.
func (o Overrides) Active() bool {
	return o.TMDBID != "" || o.IMDBID != "" || (o.Title != "" && o.Year != "")
}

// Options carries the orchestrator's collaborators and tuning.
type Options struct {
	Classifier    Classifier
	Catalog       Catalog
	Scraper       Scraper
	Downloader    Downloader
	Stats         *Stats
	Languages     []string
	MinResolution int
	Logger        *slog.Logger
}

// Orchestrator runs the acquisition flow for movie folders.
type Orchestrator struct {
	classifier    Classifier
	catalog       Catalog
	scraper       Scraper
	downloader    Downloader
	stats         *Stats
	languages     []string
	minResolution int
	logger        *slog.Logger
}

// New constructs an Orchestrator from the supplied collaborators.
func New(opts Options) (*Orchestrator, error) {
	switch {
	case opts.Classifier == nil:
		return nil, services.Wrap(services.ErrConfiguration, "trailer", "new", "classifier is required", nil)
	case opts.Catalog == nil:
		return nil, services.Wrap(services.ErrConfiguration, "trailer", "new", "catalog is required", nil)
	case opts.Scraper == nil:
		return nil, services.Wrap(services.ErrConfiguration, "trailer", "new", "scraper is required", nil)
	case opts.Downloader == nil:
		return nil, services.Wrap(services.ErrConfiguration, "trailer", "new", "downloader is required", nil)
	}
	stats := opts.Stats
	if stats == nil {
		stats = NewStats()
	}
	return &Orchestrator{
		classifier:    opts.Classifier,
		catalog:       opts.Catalog,
		scraper:       opts.Scraper,
		downloader:    opts.Downloader,
		stats:         stats,
		languages:     opts.Languages,
		minResolution: opts.MinResolution,
		logger:        logging.NewComponentLogger(opts.Logger, "trailer"),
	}, nil
}

// Stats exposes the counter set shared with the caller.
func (o *Orchestrator) Stats() *Stats {
	return o.stats
}

// Process runs the acquisition flow for one movie folder. Every outcome
// is terminal: the folder is skipped, the trailer is already present, a
// candidate lands, or the candidate lists run dry. Failures along the
// way are logged and never abort the surrounding run.
func (o *Orchestrator) Process(ctx context.Context, dir string, overrides Overrides) {
	ctx = services.WithFolder(ctx, dir)
	logger := logging.WithContext(ctx, o.logger)

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		logger.Warn("not a movie folder", logging.String("path", dir))
		return
	}

	result, err := o.classifier.Scan(ctx, dir)
	if err != nil {
		if errors.Is(err, library.ErrAmbiguousMovie) {
			logger.Warn("skipping ambiguous folder", logging.Error(err))
		} else {
			logger.Warn("folder scan failed", logging.Error(err))
		}
		return
	}
	if !result.HasMovie() {
		logger.Warn("no movie file found")
		return
	}

	o.stats.AddScanned()

	if result.HasTrailer() {
		logger.Debug("trailer already present", logging.String("file", result.Trailer.Name))
		o.stats.AddFound()
		return
	}

	tmdbID, imdbID, title, year := identity(result, overrides)
	appleLinks, youtubeLinks := o.collectLinks(ctx, logger, tmdbID, imdbID, title, year)
	logger.Debug("candidate links collected",
		logging.Int("apple", len(appleLinks)),
		logging.Int("youtube", len(youtubeLinks)))

	fileName := result.TrailerBaseName()
	targetDir := result.TrailerDir()
	for _, candidate := range candidates(appleLinks, youtubeLinks) {
		if ctx.Err() != nil {
			logger.Debug("abandoning folder", logging.Error(ctx.Err()))
			return
		}
		if err := o.downloader.Download(ctx, fileName, targetDir, candidate); err != nil {
			logger.Warn("candidate failed",
				logging.String(logging.FieldSource, string(candidate.Source)),
				logging.String("link", candidate.Link),
				logging.Error(err))
			continue
		}
		logger.Info("trailer downloaded",
			logging.String(logging.FieldSource, string(candidate.Source)),
			logging.String("link", candidate.Link))
		o.stats.AddDownloaded()
		return
	}

	logger.Info("no trailer found")
}

// identity picks the quadruple the collaborators search with. An active
// override group wins outright; otherwise the sidecar record supplies
// whatever it parsed.
func identity(result *library.Result, overrides Overrides) (tmdbID, imdbID, title, year string) {
	if overrides.Active() {
		return overrides.TMDBID, overrides.IMDBID, overrides.Title, overrides.Year
	}
	record := result.Record
	return record.TMDBID, record.IMDBID, record.Title, record.Year
}

func (o *Orchestrator) collectLinks(ctx context.Context, logger *slog.Logger, tmdbID, imdbID, title, year string) (appleLinks, youtubeLinks []string) {
	appleLinks, err := o.scraper.TrailerLinks(ctx, title, year)
	if err != nil {
		logger.Warn("apple lookup failed", logging.Error(err))
		appleLinks = nil
	}

	movie, err := o.catalog.ResolveMovie(ctx, tmdbID, imdbID, title, year)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			logger.Debug("movie not resolved by catalog")
		} else {
			logger.Warn("catalog lookup failed", logging.Error(err))
		}
		return appleLinks, nil
	}

	youtubeLinks, err = o.catalog.TrailerLinks(ctx, movie.ID, o.languages, o.minResolution)
	if err != nil {
		logger.Warn("catalog video listing failed", logging.Error(err))
		return appleLinks, nil
	}
	return appleLinks, youtubeLinks
}

// candidates orders the attempt list: every Apple asset before any
// YouTube link, each list already ranked by its collaborator.
func candidates(appleLinks, youtubeLinks []string) []download.Candidate {
	out := make([]download.Candidate, 0, len(appleLinks)+len(youtubeLinks))
	for _, link := range appleLinks {
		out = append(out, download.Candidate{Source: download.SourceApple, Link: link})
	}
	for _, link := range youtubeLinks {
		out = append(out, download.Candidate{Source: download.SourceYouTube, Link: link})
	}
	return out
}
