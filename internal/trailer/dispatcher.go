package trailer

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"trailertech/internal/logging"
	"trailertech/internal/services"
)

// Dispatcher fans the orchestrator out across a library root. Every
// immediate subdirectory is treated as one movie folder; loose files at
// the root are ignored.
type Dispatcher struct {
	orchestrator *Orchestrator
	workers      int
	logger       *slog.Logger
}

// NewDispatcher wraps an orchestrator for library-wide runs. Worker
// counts below one run folders sequentially in listing order.
func NewDispatcher(orchestrator *Orchestrator, workers int, logger *slog.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		orchestrator: orchestrator,
		workers:      workers,
		logger:       logging.NewComponentLogger(logger, "scan"),
	}
}

// ScanLibrary processes every movie folder under root. The folder list
// is materialized before any work starts so a pool run drains a fixed
// set. Per-folder failures never surface here; the only error is an
// unusable root. Context cancellation stops dispatching new folders and
// waits for in-flight ones.
func (d *Dispatcher) ScanLibrary(ctx context.Context, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return services.Wrap(services.ErrValidation, "scan", "library root", root, err)
	}
	if !info.IsDir() {
		return services.Wrap(services.ErrValidation, "scan", "library root", root+" is not a directory", nil)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return services.Wrap(services.ErrValidation, "scan", "read library root", root, err)
	}

	folders := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			folders = append(folders, filepath.Join(root, entry.Name()))
		}
	}

	d.logger.Info("library scan starting",
		logging.String("root", root),
		logging.Int("folders", len(folders)),
		logging.Int("workers", d.workers))

	if d.workers == 1 {
		d.runSequential(ctx, folders)
	} else {
		d.runPool(ctx, folders)
	}

	d.logger.Info("library scan finished",
		logging.Int64("scanned", d.orchestrator.Stats().Scanned()),
		logging.Int64("downloaded", d.orchestrator.Stats().Downloaded()))
	return nil
}

func (d *Dispatcher) runSequential(ctx context.Context, folders []string) {
	for _, folder := range folders {
		if ctx.Err() != nil {
			d.logger.Info("library scan interrupted")
			return
		}
		d.orchestrator.Process(ctx, folder, Overrides{})
	}
}

func (d *Dispatcher) runPool(ctx context.Context, folders []string) {
	jobs := make(chan string)
	var wg sync.WaitGroup
	for id := 1; id <= d.workers; id++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			workerCtx := services.WithWorker(ctx, id)
			for folder := range jobs {
				d.orchestrator.Process(workerCtx, folder, Overrides{})
			}
		}()
	}

feed:
	for _, folder := range folders {
		if ctx.Err() != nil {
			d.logger.Info("library scan interrupted")
			break
		}
		select {
		case jobs <- folder:
		case <-ctx.Done():
			d.logger.Info("library scan interrupted")
			break feed
		}
	}
	close(jobs)
	wg.Wait()
}
