package trailer

import (
	"sync"
	"testing"
)

func TestStatsMissing(t *testing.T) {
	stats := NewStats()
	for i := 0; i < 10; i++ {
		stats.AddScanned()
	}
	for i := 0; i < 3; i++ {
		stats.AddDownloaded()
	}
	for i := 0; i < 4; i++ {
		stats.AddFound()
	}

	if got := stats.Scanned(); got != 10 {
		t.Fatalf("Scanned() = %d, want 10", got)
	}
	if got := stats.Missing(); got != 3 {
		t.Fatalf("Missing() = %d, want 3", got)
	}
}

func TestStatsConcurrentIncrements(t *testing.T) {
	stats := NewStats()
	const goroutines = 8
	const perGoroutine = 250

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				stats.AddScanned()
				if i%2 == 0 {
					stats.AddDownloaded()
				} else {
					stats.AddFound()
				}
			}
		}()
	}
	wg.Wait()

	want := int64(goroutines * perGoroutine)
	if got := stats.Scanned(); got != want {
		t.Fatalf("Scanned() = %d, want %d", got, want)
	}
	if got := stats.Downloaded() + stats.Found(); got != want {
		t.Fatalf("Downloaded()+Found() = %d, want %d", got, want)
	}
	if got := stats.Missing(); got != 0 {
		t.Fatalf("Missing() = %d, want 0", got)
	}
}

func TestStatsElapsed(t *testing.T) {
	stats := NewStats()
	if got := stats.Elapsed(); got < 0 {
		t.Fatalf("Elapsed() = %v, want non-negative", got)
	}
}
