package services

import (
	"io"
	"math"
	"testing"

	"olx-browser/models"
	"olx-browser/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLoggerTo(io.Discard) }

func listing(id, title, price string) models.Listing {
	return models.Listing{ID: id, Title: title, PriceRaw: price, PriceValue: utils.NormalizePrice(price)}
}

// stubScorer returns a fixed score per model and no match for unknown models.
type stubScorer map[string]int

func (s stubScorer) Score(pattern, _ string) (int, bool) {
	v, ok := s[pattern]
	return v, ok
}

func TestRankSingleMatch(t *testing.T) {
	listings := []models.Listing{listing("1", "RTX 3060 8GB", "1000")}
	benchmarks := []models.Benchmark{{Model: "RTX 3060", Score: 15000}}

	results := NewRanker(newTestLogger(), 2).Rank(listings, benchmarks, Filters{})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].ValueRatio != 15.0 {
		t.Errorf("ValueRatio: got %v, want 15", results[0].ValueRatio)
	}
	if results[0].Benchmark.Model != "RTX 3060" {
		t.Errorf("Benchmark: got %q", results[0].Benchmark.Model)
	}
}

func TestRankDropsUnmatchedListings(t *testing.T) {
	listings := []models.Listing{
		listing("1", "Rower górski", "800"),
		listing("2", "Gigabyte RTX 3060 Eagle", "1200"),
	}
	benchmarks := []models.Benchmark{{Model: "RTX 3060", Score: 17000}}

	results := NewRanker(newTestLogger(), 2).Rank(listings, benchmarks, Filters{})
	if len(results) != 1 || results[0].Listing.ID != "2" {
		t.Fatalf("expected only listing 2 to match, got %#v", results)
	}
}

func TestRankTieGoesToFirstCatalogEntry(t *testing.T) {
	listings := []models.Listing{
		listing("1", "RTX 3060 12GB", "1000"),
		listing("2", "RTX 3060 OC", "1100"),
		listing("3", "RTX 3060 Ventus", "1200"),
	}
	benchmarks := []models.Benchmark{
		{PartNumber: "first", Model: "RTX 3060", Score: 100},
		{PartNumber: "second", Model: "RTX 3060", Score: 99999},
	}

	for run := 0; run < 20; run++ {
		results := NewRanker(newTestLogger(), 4).Rank(listings, benchmarks, Filters{})
		for _, r := range results {
			if r.Benchmark.PartNumber != "first" {
				t.Fatalf("run %d: listing %s matched %q, want first", run, r.Listing.ID, r.Benchmark.PartNumber)
			}
		}
	}
}

func TestRankStrictlyHigherScoreWins(t *testing.T) {
	scorer := stubScorer{"A": 10, "B": 30, "C": 30, "D": 5}
	benchmarks := []models.Benchmark{
		{Model: "A", Score: 1}, {Model: "B", Score: 2}, {Model: "C", Score: 3}, {Model: "D", Score: 4},
	}
	r := NewRanker(newTestLogger(), 1).WithScorer(scorer)
	results := r.Rank([]models.Listing{listing("1", "anything", "1")}, benchmarks, Filters{})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Benchmark.Model != "B" || results[0].Similarity != 30 {
		t.Errorf("got %s/%d, want B/30", results[0].Benchmark.Model, results[0].Similarity)
	}
}

func TestRankNegativeSimilarityStillMatches(t *testing.T) {
	scorer := stubScorer{"A": -12, "B": -3}
	benchmarks := []models.Benchmark{{Model: "A", Score: 1}, {Model: "B", Score: 2}}
	results := NewRanker(newTestLogger(), 1).WithScorer(scorer).
		Rank([]models.Listing{listing("1", "x", "1")}, benchmarks, Filters{})
	if len(results) != 1 || results[0].Benchmark.Model != "B" {
		t.Fatalf("expected B to win, got %#v", results)
	}
}

func TestRankOrdersByValueRatio(t *testing.T) {
	listings := []models.Listing{
		listing("cheap", "RTX 3060", "500"),
		listing("free", "RTX 3060", "Za darmo"),
		listing("pricey", "RTX 3060", "2 000 zł"),
		listing("mid", "RTX 3060", "1 000,00 zł"),
	}
	benchmarks := []models.Benchmark{{Model: "RTX 3060", Score: 10000}}

	results := NewRanker(newTestLogger(), 3).Rank(listings, benchmarks, Filters{})
	want := []string{"cheap", "mid", "pricey", "free"}
	if len(results) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(results))
	}
	for i, id := range want {
		if results[i].Listing.ID != id {
			t.Errorf("position %d: got %s, want %s", i, results[i].Listing.ID, id)
		}
	}
	if results[3].ValueRatio != 0 {
		t.Errorf("unpriced listing should have ratio 0, got %v", results[3].ValueRatio)
	}
}

func TestRankNeverNegative(t *testing.T) {
	listings := []models.Listing{
		{ID: "neg", Title: "RTX 3060", PriceRaw: "-100", PriceValue: -100},
		listing("ok", "RTX 3060", "100"),
	}
	benchmarks := []models.Benchmark{{Model: "RTX 3060", Score: -500}}
	for _, r := range NewRanker(newTestLogger(), 1).Rank(listings, benchmarks, Filters{}) {
		if r.ValueRatio < 0 {
			t.Errorf("listing %s has negative ratio %v", r.Listing.ID, r.ValueRatio)
		}
	}
}

func TestRankMinPriceAboveEverything(t *testing.T) {
	listings := []models.Listing{listing("1", "RTX 3060", "1000"), listing("2", "RTX 3060", "1500")}
	benchmarks := []models.Benchmark{{Model: "RTX 3060", Score: 15000}}
	min := 99999.0

	results := NewRanker(newTestLogger(), 2).Rank(listings, benchmarks, Filters{MinPrice: &min})
	if results == nil || len(results) != 0 {
		t.Errorf("expected empty result, got %#v", results)
	}
}

func TestRankEmptyCatalog(t *testing.T) {
	results := NewRanker(newTestLogger(), 2).Rank([]models.Listing{listing("1", "RTX 3060", "1")}, nil, Filters{})
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestValueRatio(t *testing.T) {
	tests := []struct {
		score, price, want float64
	}{
		{15000, 1000, 15},
		{15000, 0, 0},
		{15000, -5, 0},
		{-100, 10, 0},
		{0, 10, 0},
		{1, math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := ValueRatio(tt.score, tt.price); got != tt.want {
			t.Errorf("ValueRatio(%v, %v) = %v, want %v", tt.score, tt.price, got, tt.want)
		}
	}
}

func TestTop(t *testing.T) {
	results := make([]models.MatchResult, 12)
	if got := len(Top(results, 10)); got != 10 {
		t.Errorf("Top 10 of 12: got %d", got)
	}
	if got := len(Top(results, 50)); got != 12 {
		t.Errorf("Top 50 of 12: got %d", got)
	}
	if got := len(Top(results, 0)); got != 12 {
		t.Errorf("Top 0 should return all, got %d", got)
	}
}

func TestFuzzyScorer(t *testing.T) {
	var s FuzzyScorer
	if _, ok := s.Score("RTX 3060", "msi rtx 3060 ventus"); !ok {
		t.Errorf("expected a case-insensitive match")
	}
	if _, ok := s.Score("RTX 3060", "Rower górski"); ok {
		t.Errorf("expected no match for an unrelated title")
	}
	if _, ok := s.Score("", "RTX 3060"); ok {
		t.Errorf("empty model should never match")
	}
}
