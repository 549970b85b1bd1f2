package logging

import (
	"context"
	"log/slog"

	"trailertech/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldFolder is the standardized structured logging key for the movie folder being processed.
	FieldFolder = "folder"
	// FieldWorker is the standardized structured logging key for scan worker identifiers.
	FieldWorker = "worker"
	// FieldSource is the standardized structured logging key for candidate sources (apple, tmdb).
	FieldSource = "source"
)

// WithContext returns a logger augmented with the folder and worker fields
// carried by ctx, when present.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := contextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}

func contextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if folder, ok := services.FolderFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldFolder, folder))
	}
	if worker, ok := services.WorkerFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldWorker, worker))
	}
	return fields
}
