package trailer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"trailertech/internal/download"
	"trailertech/internal/library"
	"trailertech/internal/logging"
	"trailertech/internal/nfo"
	"trailertech/internal/services"
	"trailertech/internal/services/tmdb"
)

type fakeClassifier struct {
	mu      sync.Mutex
	results map[string]*library.Result
	errs    map[string]error
	calls   []string
}

func newFakeClassifier() *fakeClassifier {
	return &fakeClassifier{
		results: make(map[string]*library.Result),
		errs:    make(map[string]error),
	}
}

func (f *fakeClassifier) Scan(ctx context.Context, dir string) (*library.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, dir)
	if err, ok := f.errs[dir]; ok {
		return nil, err
	}
	if result, ok := f.results[dir]; ok {
		return result, nil
	}
	return &library.Result{Dir: dir}, nil
}

func (f *fakeClassifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type resolveArgs struct {
	tmdbID, imdbID, title, year string
}

type fakeCatalog struct {
	mu         sync.Mutex
	movie      *tmdb.Movie
	resolveErr error
	links      []string
	linksErr   error
	resolves   []resolveArgs
	listedIDs  []int64
}

func (f *fakeCatalog) ResolveMovie(ctx context.Context, tmdbID, imdbID, title, year string) (*tmdb.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolves = append(f.resolves, resolveArgs{tmdbID, imdbID, title, year})
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	if f.movie == nil {
		return nil, services.Wrap(services.ErrNotFound, "tmdb", "resolve movie", "no identifier matched", nil)
	}
	return f.movie, nil
}

func (f *fakeCatalog) TrailerLinks(ctx context.Context, movieID int64, languages []string, minResolution int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listedIDs = append(f.listedIDs, movieID)
	if f.linksErr != nil {
		return nil, f.linksErr
	}
	return f.links, nil
}

type scrapeArgs struct {
	title, year string
}

type fakeScraper struct {
	mu    sync.Mutex
	links []string
	err   error
	calls []scrapeArgs
}

func (f *fakeScraper) TrailerLinks(ctx context.Context, title, year string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, scrapeArgs{title, year})
	if f.err != nil {
		return nil, f.err
	}
	return f.links, nil
}

type attempt struct {
	fileName  string
	dir       string
	candidate download.Candidate
}

type fakeDownloader struct {
	mu       sync.Mutex
	fail     map[string]error
	attempts []attempt
}

func newFakeDownloader() *fakeDownloader {
	return &fakeDownloader{fail: make(map[string]error)}
}

func (f *fakeDownloader) Download(ctx context.Context, fileName, dir string, candidate download.Candidate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts = append(f.attempts, attempt{fileName, dir, candidate})
	return f.fail[candidate.Link]
}

func (f *fakeDownloader) attemptLinks() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	links := make([]string, 0, len(f.attempts))
	for _, a := range f.attempts {
		links = append(links, a.candidate.Link)
	}
	return links
}

type fixture struct {
	classifier *fakeClassifier
	catalog    *fakeCatalog
	scraper    *fakeScraper
	downloader *fakeDownloader
	orch       *Orchestrator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		classifier: newFakeClassifier(),
		catalog:    &fakeCatalog{},
		scraper:    &fakeScraper{},
		downloader: newFakeDownloader(),
	}
	orch, err := New(Options{
		Classifier:    f.classifier,
		Catalog:       f.catalog,
		Scraper:       f.scraper,
		Downloader:    f.downloader,
		Languages:     []string{"en-US"},
		MinResolution: 1080,
		Logger:        logging.NewNop(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f.orch = orch
	return f
}

func (f *fixture) assertCounts(t *testing.T, scanned, downloaded, found int64) {
	t.Helper()
	stats := f.orch.Stats()
	if got := stats.Scanned(); got != scanned {
		t.Errorf("Scanned() = %d, want %d", got, scanned)
	}
	if got := stats.Downloaded(); got != downloaded {
		t.Errorf("Downloaded() = %d, want %d", got, downloaded)
	}
	if got := stats.Found(); got != found {
		t.Errorf("Found() = %d, want %d", got, found)
	}
}

func movieResult(dir string) *library.Result {
	name := "Heat (1995).mkv"
	return &library.Result{
		Dir: dir,
		Movie: &library.VideoFile{
			Path:     filepath.Join(dir, name),
			Name:     name,
			Duration: 5400,
		},
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	base := func() Options {
		return Options{
			Classifier: newFakeClassifier(),
			Catalog:    &fakeCatalog{},
			Scraper:    &fakeScraper{},
			Downloader: newFakeDownloader(),
		}
	}
	tests := []struct {
		name  string
		strip func(*Options)
	}{
		{"classifier", func(o *Options) { o.Classifier = nil }},
		{"catalog", func(o *Options) { o.Catalog = nil }},
		{"scraper", func(o *Options) { o.Scraper = nil }},
		{"downloader", func(o *Options) { o.Downloader = nil }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := base()
			tc.strip(&opts)
			if _, err := New(opts); !errors.Is(err, services.ErrConfiguration) {
				t.Fatalf("New() error = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestProcessSkipsUnusablePaths(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "loose.mkv")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing folder", filepath.Join(tmp, "absent")},
		{"plain file", file},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.orch.Process(context.Background(), tc.path, Overrides{})
			f.assertCounts(t, 0, 0, 0)
			if got := f.classifier.callCount(); got != 0 {
				t.Fatalf("classifier calls = %d, want 0", got)
			}
		})
	}
}

func TestProcessSkipsFolderWithoutMovie(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t)
	f.classifier.results[dir] = &library.Result{Dir: dir}

	f.orch.Process(context.Background(), dir, Overrides{})

	f.assertCounts(t, 0, 0, 0)
	if len(f.scraper.calls) != 0 {
		t.Fatalf("scraper calls = %d, want 0", len(f.scraper.calls))
	}
}

func TestProcessSkipsAmbiguousFolder(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t)
	f.classifier.errs[dir] = fmt.Errorf("%w: a.mkv, b.mkv", library.ErrAmbiguousMovie)

	f.orch.Process(context.Background(), dir, Overrides{})

	f.assertCounts(t, 0, 0, 0)
	if len(f.downloader.attempts) != 0 {
		t.Fatalf("download attempts = %d, want 0", len(f.downloader.attempts))
	}
}

func TestProcessCountsExistingTrailer(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t)
	result := movieResult(dir)
	result.Trailer = &library.VideoFile{
		Path:     filepath.Join(dir, "Heat (1995)-trailer.mp4"),
		Name:     "Heat (1995)-trailer.mp4",
		Duration: 120,
	}
	f.classifier.results[dir] = result

	f.orch.Process(context.Background(), dir, Overrides{})

	f.assertCounts(t, 1, 0, 1)
	if len(f.scraper.calls) != 0 || len(f.catalog.resolves) != 0 || len(f.downloader.attempts) != 0 {
		t.Fatal("collaborators consulted for a folder that already has a trailer")
	}
}

func TestProcessDownloadsFirstWorkingCandidate(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t)
	f.classifier.results[dir] = movieResult(dir)
	f.catalog.movie = &tmdb.Movie{ID: 949, Title: "Heat"}
	f.catalog.links = []string{
		"https://www.youtube.com/watch?v=first",
		"https://www.youtube.com/watch?v=second",
	}
	f.downloader.fail["https://www.youtube.com/watch?v=first"] = errors.New("muxing failed")

	f.orch.Process(context.Background(), dir, Overrides{})

	f.assertCounts(t, 1, 1, 0)
	if got := f.orch.Stats().Missing(); got != 0 {
		t.Fatalf("Missing() = %d, want 0", got)
	}
	wantLinks := []string{
		"https://www.youtube.com/watch?v=first",
		"https://www.youtube.com/watch?v=second",
	}
	gotLinks := f.downloader.attemptLinks()
	if len(gotLinks) != len(wantLinks) {
		t.Fatalf("attempts = %v, want %v", gotLinks, wantLinks)
	}
	for i := range wantLinks {
		if gotLinks[i] != wantLinks[i] {
			t.Fatalf("attempt %d = %q, want %q", i, gotLinks[i], wantLinks[i])
		}
	}
	last := f.downloader.attempts[len(f.downloader.attempts)-1]
	if last.fileName != "Heat (1995)-trailer.mp4" {
		t.Fatalf("fileName = %q, want Heat (1995)-trailer.mp4", last.fileName)
	}
	if last.dir != dir {
		t.Fatalf("dir = %q, want %q", last.dir, dir)
	}
	if last.candidate.Source != download.SourceYouTube {
		t.Fatalf("source = %q, want youtube", last.candidate.Source)
	}
}

func TestProcessPrefersAppleCandidates(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t)
	f.classifier.results[dir] = movieResult(dir)
	f.scraper.links = []string{"https://trailers.apple.com/a_h1080p.mov"}
	f.catalog.movie = &tmdb.Movie{ID: 949}
	f.catalog.links = []string{"https://www.youtube.com/watch?v=backup"}

	f.orch.Process(context.Background(), dir, Overrides{})

	f.assertCounts(t, 1, 1, 0)
	attempts := f.downloader.attempts
	if len(attempts) != 1 {
		t.Fatalf("attempts = %d, want 1", len(attempts))
	}
	if attempts[0].candidate.Source != download.SourceApple {
		t.Fatalf("source = %q, want apple", attempts[0].candidate.Source)
	}
}

func TestProcessFallsBackToYouTube(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t)
	f.classifier.results[dir] = movieResult(dir)
	f.scraper.links = []string{"https://trailers.apple.com/a_h1080p.mov"}
	f.catalog.movie = &tmdb.Movie{ID: 949}
	f.catalog.links = []string{"https://www.youtube.com/watch?v=backup"}
	f.downloader.fail["https://trailers.apple.com/a_h1080p.mov"] = errors.New("503")

	f.orch.Process(context.Background(), dir, Overrides{})

	f.assertCounts(t, 1, 1, 0)
	attempts := f.downloader.attempts
	if len(attempts) != 2 {
		t.Fatalf("attempts = %d, want 2", len(attempts))
	}
	if attempts[0].candidate.Source != download.SourceApple || attempts[1].candidate.Source != download.SourceYouTube {
		t.Fatalf("attempt order = %q, %q; want apple then youtube",
			attempts[0].candidate.Source, attempts[1].candidate.Source)
	}
}

func TestProcessExhaustsCandidates(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t)
	f.classifier.results[dir] = movieResult(dir)
	f.scraper.links = []string{"https://trailers.apple.com/a_h720p.mov"}
	f.catalog.movie = &tmdb.Movie{ID: 949}
	f.catalog.links = []string{"https://www.youtube.com/watch?v=only"}
	f.downloader.fail["https://trailers.apple.com/a_h720p.mov"] = errors.New("404")
	f.downloader.fail["https://www.youtube.com/watch?v=only"] = errors.New("geo blocked")

	f.orch.Process(context.Background(), dir, Overrides{})

	f.assertCounts(t, 1, 0, 0)
	if got := f.orch.Stats().Missing(); got != 1 {
		t.Fatalf("Missing() = %d, want 1", got)
	}
	if got := len(f.downloader.attempts); got != 2 {
		t.Fatalf("attempts = %d, want 2", got)
	}
}

func TestProcessNoCandidates(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t)
	f.classifier.results[dir] = movieResult(dir)

	f.orch.Process(context.Background(), dir, Overrides{})

	f.assertCounts(t, 1, 0, 0)
	if got := f.orch.Stats().Missing(); got != 1 {
		t.Fatalf("Missing() = %d, want 1", got)
	}
	if got := len(f.downloader.attempts); got != 0 {
		t.Fatalf("attempts = %d, want 0", got)
	}
}

func TestProcessCollaboratorFailuresAreNotFatal(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t)
	f.classifier.results[dir] = movieResult(dir)
	f.scraper.err = services.Wrap(services.ErrTransient, "apple", "quickfind", "status 502", nil)
	f.catalog.resolveErr = services.Wrap(services.ErrTransient, "tmdb", "search", "timeout", nil)

	f.orch.Process(context.Background(), dir, Overrides{})

	f.assertCounts(t, 1, 0, 0)
	if got := len(f.downloader.attempts); got != 0 {
		t.Fatalf("attempts = %d, want 0", got)
	}
}

func TestProcessVideoListingFailureStillTriesApple(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t)
	f.classifier.results[dir] = movieResult(dir)
	f.scraper.links = []string{"https://trailers.apple.com/a_h1080p.mov"}
	f.catalog.movie = &tmdb.Movie{ID: 949}
	f.catalog.linksErr = services.Wrap(services.ErrTransient, "tmdb", "videos", "timeout", nil)

	f.orch.Process(context.Background(), dir, Overrides{})

	f.assertCounts(t, 1, 1, 0)
	attempts := f.downloader.attempts
	if len(attempts) != 1 || attempts[0].candidate.Source != download.SourceApple {
		t.Fatalf("attempts = %+v, want single apple attempt", attempts)
	}
}

func TestProcessOverridesReplaceSidecarIdentity(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t)
	result := movieResult(dir)
	result.Record = nfo.Record{TMDBID: "949", IMDBID: "tt0113277", Title: "Heat", Year: "1995"}
	f.classifier.results[dir] = result

	f.orch.Process(context.Background(), dir, Overrides{Title: "The Matrix", Year: "1999"})

	if len(f.catalog.resolves) != 1 {
		t.Fatalf("resolve calls = %d, want 1", len(f.catalog.resolves))
	}
	got := f.catalog.resolves[0]
	want := resolveArgs{title: "The Matrix", year: "1999"}
	if got != want {
		t.Fatalf("resolve args = %+v, want %+v", got, want)
	}
	if len(f.scraper.calls) != 1 || f.scraper.calls[0] != (scrapeArgs{"The Matrix", "1999"}) {
		t.Fatalf("scraper args = %+v, want The Matrix/1999", f.scraper.calls)
	}
}

func TestProcessUsesSidecarIdentity(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t)
	result := movieResult(dir)
	result.Record = nfo.Record{TMDBID: "949", IMDBID: "tt0113277", Title: "Heat", Year: "1995"}
	f.classifier.results[dir] = result

	f.orch.Process(context.Background(), dir, Overrides{})

	if len(f.catalog.resolves) != 1 {
		t.Fatalf("resolve calls = %d, want 1", len(f.catalog.resolves))
	}
	got := f.catalog.resolves[0]
	want := resolveArgs{tmdbID: "949", imdbID: "tt0113277", title: "Heat", year: "1995"}
	if got != want {
		t.Fatalf("resolve args = %+v, want %+v", got, want)
	}
	if len(f.scraper.calls) != 1 || f.scraper.calls[0] != (scrapeArgs{"Heat", "1995"}) {
		t.Fatalf("scraper args = %+v, want Heat/1995", f.scraper.calls)
	}
}

func TestProcessPassesLanguagePreferences(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t)
	f.classifier.results[dir] = movieResult(dir)
	f.catalog.movie = &tmdb.Movie{ID: 603}

	f.orch.Process(context.Background(), dir, Overrides{})

	if len(f.catalog.listedIDs) != 1 || f.catalog.listedIDs[0] != 603 {
		t.Fatalf("listed ids = %v, want [603]", f.catalog.listedIDs)
	}
}

func TestProcessAbandonsOnCanceledContext(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t)
	f.classifier.results[dir] = movieResult(dir)
	f.catalog.movie = &tmdb.Movie{ID: 949}
	f.catalog.links = []string{"https://www.youtube.com/watch?v=late"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.orch.Process(ctx, dir, Overrides{})

	if got := len(f.downloader.attempts); got != 0 {
		t.Fatalf("attempts = %d, want 0 after cancellation", got)
	}
}

func TestOverridesActive(t *testing.T) {
	tests := []struct {
		name      string
		overrides Overrides
		want      bool
	}{
		{"empty", Overrides{}, false},
		{"tmdb id", Overrides{TMDBID: "603"}, true},
		{"imdb id", Overrides{IMDBID: "tt0133093"}, true},
		{"title alone", Overrides{Title: "The Matrix"}, false},
		{"year alone", Overrides{Year: "1999"}, false},
		{"title and year", Overrides{Title: "The Matrix", Year: "1999"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.overrides.Active(); got != tc.want {
				t.Fatalf("Active() = %v, want %v", got, tc.want)
			}
		})
	}
}
