package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"trailertech/internal/config"
	"trailertech/internal/download"
	"trailertech/internal/library"
	"trailertech/internal/media/probe"
	"trailertech/internal/services/apple"
	"trailertech/internal/services/tmdb"
	"trailertech/internal/tmdbcache"
	"trailertech/internal/trailer"
)

// pipeline bundles the wired acquisition collaborators behind a single
// Close so commands cannot leak staging directories or the cache handle.
type pipeline struct {
	orchestrator *trailer.Orchestrator
	downloader   *download.Downloader
	cache        *tmdbcache.Cache
	stats        *trailer.Stats
}

func buildPipeline(cfg *config.Config, logger *slog.Logger) (*pipeline, error) {
	if strings.TrimSpace(cfg.TMDB.APIKey) == "" {
		return nil, errors.New("tmdb.api_key is required: set TMDB_API_KEY or edit the config file (create one with 'trailertech config init')")
	}

	stats := trailer.NewStats()

	scanner := library.NewScanner(
		probe.Prober{Binary: cfg.FFprobeBinary()},
		library.MoviePolicy(cfg.Trailers.MoviePolicy),
		logger,
	)

	var cache *tmdbcache.Cache
	tmdbOpts := make([]tmdb.Option, 0, 1)
	if cfg.Cache.Enabled {
		opened, err := tmdbcache.Open(cfg.Cache.Path, logger)
		if err != nil {
			return nil, fmt.Errorf("open tmdb cache: %w", err)
		}
		cache = opened
		tmdbOpts = append(tmdbOpts, tmdb.WithCache(cache))
	}

	catalog, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language, tmdbOpts...)
	if err != nil {
		closeCache(cache)
		return nil, err
	}

	downloader, err := download.New(cfg.Paths.TempDir, cfg.YtDlpBinary(), logger)
	if err != nil {
		closeCache(cache)
		return nil, err
	}

	orchestrator, err := trailer.New(trailer.Options{
		Classifier:    scanner,
		Catalog:       catalog,
		Scraper:       apple.New(cfg.Trailers.MinResolution),
		Downloader:    downloader,
		Stats:         stats,
		Languages:     cfg.Trailers.Languages,
		MinResolution: cfg.Trailers.MinResolution,
		Logger:        logger,
	})
	if err != nil {
		downloader.CleanUp()
		closeCache(cache)
		return nil, err
	}

	return &pipeline{
		orchestrator: orchestrator,
		downloader:   downloader,
		cache:        cache,
		stats:        stats,
	}, nil
}

// Close removes the download staging area and releases the lookup cache.
func (p *pipeline) Close() {
	p.downloader.CleanUp()
	closeCache(p.cache)
}

func closeCache(cache *tmdbcache.Cache) {
	if cache != nil {
		_ = cache.Close()
	}
}
