package services

import (
	"math"
	"sort"

	"github.com/sahilm/fuzzy"

	"olx-browser/models"
	"olx-browser/utils"
)

// Scorer rates how well pattern aligns with text. ok is false when there is
// no plausible alignment at all.
type Scorer interface {
	Score(pattern, text string) (score int, ok bool)
}

// FuzzyScorer is a subsequence matcher that rewards adjacent and
// word-boundary character hits. Matching ignores case.
type FuzzyScorer struct{}

func (FuzzyScorer) Score(pattern, text string) (int, bool) {
	if pattern == "" || text == "" {
		return 0, false
	}
	matches := fuzzy.Find(pattern, []string{text})
	if len(matches) == 0 {
		return 0, false
	}
	return matches[0].Score, true
}

// Ranker matches listings against a benchmark catalog and orders them by
// benchmark score per unit of price.
type Ranker struct {
	logger  *utils.Logger
	scorer  Scorer
	workers int
}

// NewRanker creates a Ranker using FuzzyScorer. workers bounds how many
// listings are matched in parallel.
func NewRanker(logger *utils.Logger, workers int) *Ranker {
	return &Ranker{logger: logger, scorer: FuzzyScorer{}, workers: workers}
}

// WithScorer replaces the similarity function.
func (r *Ranker) WithScorer(s Scorer) *Ranker {
	r.scorer = s
	return r
}

// Rank filters listings, pairs each survivor with its best-scoring benchmark
// and returns the results sorted by value ratio, highest first. Listings with
// no scoring benchmark are dropped. The catalog is only read.
func (r *Ranker) Rank(listings []models.Listing, benchmarks []models.Benchmark, filters Filters) []models.MatchResult {
	candidates := filters.Apply(listings)
	if filters.Active() {
		r.logger.Info("[ranker] Filters %s kept %d of %d listings", filters, len(candidates), len(listings))
	}

	slots := make([]*models.MatchResult, len(candidates))
	pool := utils.NewWorkerPool(r.workers)
	for i := range candidates {
		pool.Go(func() {
			slots[i] = r.bestMatch(candidates[i], benchmarks)
		})
	}
	pool.Wait()

	results := make([]models.MatchResult, 0, len(slots))
	for _, m := range slots {
		if m != nil {
			results = append(results, *m)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ValueRatio > results[j].ValueRatio
	})

	utils.ObserveRankRun(len(results))
	r.logger.Info("[ranker] Matched %d of %d listings against %d benchmarks",
		len(results), len(candidates), len(benchmarks))
	return results
}

// bestMatch keeps the first benchmark with the strictly highest score, so a
// tie goes to the entry that appears first in the catalog.
func (r *Ranker) bestMatch(l models.Listing, benchmarks []models.Benchmark) *models.MatchResult {
	var best *models.MatchResult
	for _, b := range benchmarks {
		score, ok := r.scorer.Score(b.Model, l.Title)
		if !ok {
			continue
		}
		if best == nil || score > best.Similarity {
			best = &models.MatchResult{Listing: l, Benchmark: b, Similarity: score}
		}
	}
	if best != nil {
		best.ValueRatio = ValueRatio(best.Benchmark.Score, l.PriceValue)
	}
	return best
}

// ValueRatio is score divided by price. It is 0 when price is not positive
// and never negative.
func ValueRatio(score, price float64) float64 {
	if price <= 0 || math.IsNaN(price) {
		return 0
	}
	ratio := score / price
	if ratio < 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return 0
	}
	return ratio
}

// Top returns at most k results. k <= 0 returns all of them.
func Top(results []models.MatchResult, k int) []models.MatchResult {
	if k <= 0 || k >= len(results) {
		return results
	}
	return results[:k]
}
