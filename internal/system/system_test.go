package system

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFindLatestPDF(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "older.pdf")
	newer := filepath.Join(dir, "newer.pdf")
	os.WriteFile(older, []byte("%PDF-1.4"), 0644)
	os.WriteFile(newer, []byte("%PDF-1.4"), 0644)
	os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0644)

	base := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, base, base); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(newer, base.Add(time.Minute), base.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}

	got, err := FindLatestPDF(dir)
	if err != nil {
		t.Fatalf("FindLatestPDF: %v", err)
	}
	if got != newer {
		t.Errorf("Latest = %s, expected %s", got, newer)
	}
}

func TestFindLatestPDFEmpty(t *testing.T) {
	if _, err := FindLatestPDF(t.TempDir()); err == nil {
		t.Error("Expected error for directory without PDFs")
	}
}

func TestMonitorAggregatesTicks(t *testing.T) {
	m := NewMonitor()
	m.ObserveTick(2 * time.Millisecond)
	m.ObserveTick(4 * time.Millisecond)
	m.ObserveTick(10 * time.Millisecond)

	s := m.Stats()
	if s.Ticks != 3 {
		t.Errorf("Ticks = %d, expected 3", s.Ticks)
	}
	if s.TickMaxMS < 10-1e-9 {
		t.Errorf("TickMaxMS = %f, expected >= 10", s.TickMaxMS)
	}
	if s.TickMeanMS < 2 || s.TickMeanMS > 10 {
		t.Errorf("TickMeanMS = %f, expected inside observed range", s.TickMeanMS)
	}
	if s.Goroutines < 1 {
		t.Errorf("Goroutines = %d", s.Goroutines)
	}
	if s.Uptime <= 0 {
		t.Errorf("Uptime = %f", s.Uptime)
	}
}

func TestMonitorZeroTicks(t *testing.T) {
	s := NewMonitor().Stats()
	if s.Ticks != 0 || s.TickMeanMS != 0 || s.TickMaxMS != 0 {
		t.Errorf("Fresh monitor reported activity: %+v", s)
	}
}
