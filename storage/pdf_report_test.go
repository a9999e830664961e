package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"olx-browser/models"
)

func TestPDFReportWriter(t *testing.T) {
	results := []models.MatchResult{
		{
			Listing:    sampleListings()[0],
			Benchmark:  models.Benchmark{Model: "RTX 3060", Score: 15000},
			Similarity: 80,
			ValueRatio: 12.15,
		},
		{
			Listing:   sampleListings()[1],
			Benchmark: models.Benchmark{Model: "GTX 1080 Ti", Score: 9000},
		},
	}
	run := models.NewRankRun("rtx 3060", results)

	path := filepath.Join(t.TempDir(), "reports", "rank.pdf")
	w := NewPDFReportWriter(path, 10)
	if err := w.WriteRankRun(run); err != nil {
		t.Fatalf("WriteRankRun: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF-")) {
		t.Errorf("output does not look like a PDF")
	}
}

func TestClip(t *testing.T) {
	if got := clip("Gigabyte", 20); got != "Gigabyte" {
		t.Errorf("got %q", got)
	}
	if got := clip("Gigabyte RTX 3060", 5); got != "Giga…" {
		t.Errorf("got %q", got)
	}
}
