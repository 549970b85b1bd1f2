package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"trailertech/internal/trailer"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("ffprobe", statusError, "binary not found", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "ffprobe:", "[ERROR] binary not found")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("ffprobe", statusOK, "/usr/bin/ffprobe", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestRenderSectionHeader(t *testing.T) {
	lines := renderSectionHeader("Environment", false)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "== Environment ==" {
		t.Fatalf("unexpected header line %q", lines[0])
	}
	if lines[1] != strings.Repeat("-", len(lines[0])) {
		t.Fatalf("unexpected rule line %q", lines[1])
	}
}

func TestIsTerminalNonFile(t *testing.T) {
	if isTerminal(io.Discard) {
		t.Fatalf("expected non-file writer to report not a terminal")
	}
}

func TestPrintStatsPlain(t *testing.T) {
	stats := trailer.NewStats()
	for i := 0; i < 5; i++ {
		stats.AddScanned()
	}
	stats.AddDownloaded()
	stats.AddFound()
	stats.AddFound()

	var buf bytes.Buffer
	printStats(&buf, stats)

	out := buf.String()
	for _, want := range []string{
		"scanned: 5",
		"downloaded: 1",
		"already present: 2",
		"missing: 2",
		"elapsed: ",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in stats output, got:\n%s", want, out)
		}
	}
}

func TestRedactSecret(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "(unset)"},
		{"abc", "****"},
		{"abcd", "****"},
		{"0123456789abcdef", "****cdef"},
	}
	for _, tc := range cases {
		if got := redactSecret(tc.in); got != tc.want {
			t.Fatalf("redactSecret(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
