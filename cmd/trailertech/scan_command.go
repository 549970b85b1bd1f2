package main

import (
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"trailertech/internal/config"
	"trailertech/internal/trailer"
)

const scanLockName = "trailertech-scan.lock"

func newScanCommand(ctx *commandContext) *cobra.Command {
	var threads bool

	cmd := &cobra.Command{
		Use:   "scan <library-root>",
		Short: "Scan a movie library and download missing trailers",
		Long: `Scan treats every immediate subdirectory of the library root as one
movie folder: the movie file is located, an existing trailer short-circuits
the folder, and otherwise candidate links from Apple and TMDB are tried in
order until one downloads.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			lock := flock.New(filepath.Join(cfg.Paths.LogDir, scanLockName))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire scan lock: %w", err)
			}
			if !locked {
				return errors.New("another trailertech scan is already running")
			}
			defer func() { _ = lock.Unlock() }()

			pipe, err := buildPipeline(cfg, logger)
			if err != nil {
				return err
			}
			defer pipe.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			dispatcher := trailer.NewDispatcher(pipe.orchestrator, scanWorkers(cfg, threads), logger)
			if err := dispatcher.ScanLibrary(runCtx, args[0]); err != nil {
				return err
			}

			printStats(cmd.OutOrStdout(), pipe.stats)
			return nil
		},
	}

	cmd.Flags().BoolVar(&threads, "threads", false, "Process movie folders with a worker pool")
	return cmd
}

// scanWorkers resolves the pool size: sequential unless --threads is
// set, then the configured count with one worker per CPU as the default.
func scanWorkers(cfg *config.Config, threads bool) int {
	if !threads {
		return 1
	}
	if cfg.Workers.Count > 0 {
		return cfg.Workers.Count
	}
	return runtime.GOMAXPROCS(0)
}
