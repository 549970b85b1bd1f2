package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"trailertech/internal/fileutil"
	"trailertech/internal/logging"
	"trailertech/internal/services"
	"trailertech/internal/services/apple"
)

// Source identifies which collaborator produced a candidate link and
// therefore which transport fetches it.
type Source string

const (
	// SourceApple marks direct .mov asset links from the Apple scraper.
	SourceApple Source = "apple"
	// SourceYouTube marks YouTube watch links from the TMDB videos endpoint.
	SourceYouTube Source = "youtube"
)

// Candidate pairs a trailer link with its source.
type Candidate struct {
	Source Source
	Link   string
}

// Runner abstracts external command execution for testing.
type Runner interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

type commandRunner struct{}

func (commandRunner) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	return cmd.CombinedOutput()
}

// Downloader fetches trailer candidates into a staging area and moves the
// finished file into the movie folder. Safe for concurrent use.
type Downloader struct {
	root       string
	ytdlp      string
	httpClient *http.Client
	runner     Runner
	logger     *slog.Logger

	cleanupOnce sync.Once
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(d *Downloader) {
		if client != nil {
			d.httpClient = client
		}
	}
}

// WithRunner allows injecting a custom command runner for testing.
func WithRunner(runner Runner) Option {
	return func(d *Downloader) {
		if runner != nil {
			d.runner = runner
		}
	}
}

// New creates a Downloader whose staging root lives under tempDir. An empty
// tempDir falls back to the system temp directory, an empty binary to
// "yt-dlp" on PATH.
func New(tempDir, ytdlpBinary string, logger *slog.Logger, opts ...Option) (*Downloader, error) {
	tempDir = strings.TrimSpace(tempDir)
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	ytdlpBinary = strings.TrimSpace(ytdlpBinary)
	if ytdlpBinary == "" {
		ytdlpBinary = "yt-dlp"
	}

	root := filepath.Join(tempDir, "trailertech-"+uuid.NewString())
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "download", "create staging root", root, err)
	}

	downloader := &Downloader{
		root:       root,
		ytdlp:      ytdlpBinary,
		httpClient: &http.Client{Timeout: 10 * time.Minute},
		runner:     commandRunner{},
		logger:     logging.NewComponentLogger(logger, "download"),
	}
	for _, opt := range opts {
		opt(downloader)
	}
	return downloader, nil
}

// StagingRoot returns the downloader's working directory.
func (d *Downloader) StagingRoot() string {
	return d.root
}

// Download fetches one candidate and places it at dir/fileName. The fetch
// lands in a fresh staging subdirectory first so a partial download never
// shows up in the library.
func (d *Downloader) Download(ctx context.Context, fileName, dir string, candidate Candidate) error {
	if strings.TrimSpace(fileName) == "" || strings.TrimSpace(dir) == "" {
		return services.Wrap(services.ErrValidation, "download", "download", "file name and directory required", nil)
	}
	if strings.TrimSpace(candidate.Link) == "" {
		return services.Wrap(services.ErrValidation, "download", "download", "candidate link required", nil)
	}

	staging := filepath.Join(d.root, uuid.NewString())
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "download", "create staging dir", staging, err)
	}
	defer os.RemoveAll(staging)

	var produced string
	var err error
	switch candidate.Source {
	case SourceApple:
		produced, err = d.fetchApple(ctx, candidate.Link, staging, fileName)
	case SourceYouTube:
		produced, err = d.fetchYouTube(ctx, candidate.Link, staging)
	default:
		return services.Wrap(services.ErrValidation, "download", "download", "unknown source "+string(candidate.Source), nil)
	}
	if err != nil {
		return err
	}

	target := filepath.Join(dir, fileName)
	if err := fileutil.MoveFile(produced, target); err != nil {
		return services.Wrap(services.ErrTransient, "download", "place trailer", target, err)
	}
	d.logger.Info("trailer placed",
		logging.String("file", target),
		logging.String(logging.FieldSource, string(candidate.Source)))
	return nil
}

// CleanUp removes the staging root. Subsequent calls are no-ops.
func (d *Downloader) CleanUp() {
	d.cleanupOnce.Do(func() {
		if err := os.RemoveAll(d.root); err != nil {
			d.logger.Warn("staging cleanup failed",
				logging.String("dir", d.root),
				logging.Error(err))
			return
		}
		d.logger.Debug("staging root removed", logging.String("dir", d.root))
	})
}

func (d *Downloader) fetchApple(ctx context.Context, link, staging, fileName string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "download", "build request", link, err)
	}
	req.Header.Set("User-Agent", apple.UserAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "download", "fetch apple asset", link, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", services.Wrap(services.ErrTransient, "download", "fetch apple asset",
			fmt.Sprintf("%s returned %d", link, resp.StatusCode), nil)
	}

	path := filepath.Join(staging, fileName)
	file, err := os.Create(path)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "download", "create staging file", path, err)
	}
	written, err := io.Copy(file, resp.Body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "download", "write staging file", path, err)
	}
	if written == 0 {
		return "", services.Wrap(services.ErrTransient, "download", "fetch apple asset", "empty response body", nil)
	}
	return path, nil
}

func (d *Downloader) fetchYouTube(ctx context.Context, link, staging string) (string, error) {
	args := []string{
		"--no-playlist",
		"--no-warnings",
		"-f", "bestvideo+bestaudio/best",
		"--merge-output-format", "mp4",
		"-o", filepath.Join(staging, "trailer.%(ext)s"),
		"--", link,
	}
	output, err := d.runner.Run(ctx, d.ytdlp, args)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "download", "yt-dlp",
			strings.TrimSpace(string(output)), err)
	}

	entries, err := os.ReadDir(staging)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "download", "read staging dir", staging, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		return filepath.Join(staging, entry.Name()), nil
	}
	return "", services.Wrap(services.ErrExternalTool, "download", "yt-dlp", "no output file produced", nil)
}
