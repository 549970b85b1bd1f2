package services

import "context"

type contextKey string

const (
	folderKey contextKey = "folder"
	workerKey contextKey = "worker"
)

// WithFolder annotates context with the movie folder being processed.
func WithFolder(ctx context.Context, folder string) context.Context {
	if folder == "" {
		return ctx
	}
	return context.WithValue(ctx, folderKey, folder)
}

// FolderFromContext extracts the movie folder path if present.
func FolderFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(folderKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithWorker annotates context with the scan worker identifier.
func WithWorker(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, workerKey, id)
}

// WorkerFromContext extracts the scan worker identifier if present.
func WorkerFromContext(ctx context.Context) (int, bool) {
	v := ctx.Value(workerKey)
	if id, ok := v.(int); ok {
		return id, true
	}
	return 0, false
}
