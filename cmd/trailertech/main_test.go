package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"trailertech/internal/testsupport"
)

func TestScanRejectsMissingRoot(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"scan", filepath.Join(env.baseDir, "absent")}, env.configPath)
	if err == nil {
		t.Fatal("expected error for missing library root")
	}
}

func TestScanRejectsFileRoot(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(env.baseDir, "not-a-dir")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := runCLI(t, []string{"scan", path}, env.configPath)
	if err == nil {
		t.Fatal("expected error for file as library root")
	}
}

func TestScanEmptyFoldersPrintStats(t *testing.T) {
	env := setupCLITestEnv(t)
	root := filepath.Join(env.baseDir, "library")
	testsupport.WriteFile(t, filepath.Join(root, "Empty Movie (2020)", "notes.txt"), 16)

	out, _, err := runCLI(t, []string{"scan", root}, env.configPath)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "scanned: 0")
	requireContains(t, out, "missing: 0")
}

func TestScanCountsExistingTrailer(t *testing.T) {
	env := setupCLITestEnv(t)
	root := filepath.Join(env.baseDir, "library")
	dir := testsupport.MovieFolder(t, root, "Heat (1995)", "Heat.mkv")
	testsupport.WriteFile(t, filepath.Join(dir, "Heat-trailer.mp4"), 16)
	testsupport.WriteSidecar(t, dir, "movie.nfo",
		`<movie><title>Heat</title><year>1995</year></movie>`)

	out, _, err := runCLI(t, []string{"scan", root}, env.configPath)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "scanned: 1")
	requireContains(t, out, "already present: 1")
	requireContains(t, out, "missing: 0")
}

func TestScanRefusesWhenLockHeld(t *testing.T) {
	env := setupCLITestEnv(t)
	root := filepath.Join(env.baseDir, "library")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}

	lock := flock.New(filepath.Join(env.cfg.Paths.LogDir, scanLockName))
	locked, err := lock.TryLock()
	if err != nil || !locked {
		t.Fatalf("pre-acquire lock: locked=%v err=%v", locked, err)
	}
	defer func() { _ = lock.Unlock() }()

	_, _, err = runCLI(t, []string{"scan", root}, env.configPath)
	if err == nil {
		t.Fatal("expected error while scan lock is held")
	}
	requireContains(t, err.Error(), "already running")
}

func TestFetchFolderWithoutMovie(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := filepath.Join(env.baseDir, "Heat (1995)")
	testsupport.WriteFile(t, filepath.Join(dir, "poster.jpg"), 16)

	out, _, err := runCLI(t, []string{"fetch", dir}, env.configPath)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	requireContains(t, out, "scanned: 0")
}

func TestRadarrTestEvent(t *testing.T) {
	env := setupCLITestEnv(t)
	t.Setenv("radarr_eventtype", "Test")

	_, _, err := runCLI(t, []string{"radarr"}, env.configPath)
	if err != nil {
		t.Fatalf("radarr test event: %v", err)
	}
}

func TestRadarrUnsupportedEvent(t *testing.T) {
	env := setupCLITestEnv(t)
	t.Setenv("radarr_eventtype", "Rename")

	_, _, err := runCLI(t, []string{"radarr"}, env.configPath)
	if err != nil {
		t.Fatalf("radarr unsupported event: %v", err)
	}
}

func TestRadarrInsufficientInput(t *testing.T) {
	env := setupCLITestEnv(t)
	t.Setenv("radarr_eventtype", "")

	_, _, err := runCLI(t, []string{"radarr"}, env.configPath)
	if err == nil {
		t.Fatal("expected error without radarr environment")
	}
	requireContains(t, err.Error(), "insufficient input")
}

func TestRadarrDownloadProcessesFolder(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := filepath.Join(env.baseDir, "Heat (1995)")
	testsupport.WriteFile(t, filepath.Join(dir, "notes.txt"), 16)
	t.Setenv("radarr_eventtype", "Download")
	t.Setenv("radarr_movie_path", dir)
	t.Setenv("radarr_movie_tmdbid", "949")

	out, _, err := runCLI(t, []string{"radarr"}, env.configPath)
	if err != nil {
		t.Fatalf("radarr download event: %v", err)
	}
	requireContains(t, out, "scanned: 0")
}

func TestScanRequiresAPIKey(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.TMDB.APIKey = ""
	configPath := filepath.Join(env.baseDir, "keyless-config.toml")
	writeTestConfig(t, configPath, env.cfg)
	root := filepath.Join(env.baseDir, "library")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}

	_, _, err := runCLI(t, []string{"scan", root}, configPath)
	if err == nil {
		t.Fatal("expected error without an API key")
	}
	requireContains(t, err.Error(), "tmdb.api_key")
}

func TestStatusRunsWithoutAPIKey(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.TMDB.APIKey = ""
	configPath := filepath.Join(env.baseDir, "keyless-config.toml")
	writeTestConfig(t, configPath, env.cfg)

	out, _, err := runCLI(t, []string{"status"}, configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "TMDB API key")
	requireContains(t, out, "missing")
}

func TestStatusRendersSections(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "== Environment ==")
	requireContains(t, out, "ffprobe")
	requireContains(t, out, "TMDB API key")
	requireContains(t, out, "== Configuration ==")
	requireContains(t, out, "Lookup cache")
}
