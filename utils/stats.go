package utils

import "sync/atomic"

// StatsSnapshot is a point-in-time copy of the process counters.
type StatsSnapshot struct {
	PagesFetched      uint64 `json:"pages_fetched"`
	ListingsExtracted uint64 `json:"listings_extracted"`
	FetchErrors       uint64 `json:"fetch_errors"`
	RankRuns          uint64 `json:"rank_runs"`
	Matches           uint64 `json:"matches"`
}

var (
	pagesFetched      uint64
	listingsExtracted uint64
	fetchErrors       uint64
	rankRuns          uint64
	matches           uint64
)

func IncPagesFetched() {
	atomic.AddUint64(&pagesFetched, 1)
}

func AddListingsExtracted(n int) {
	if n <= 0 {
		return
	}
	atomic.AddUint64(&listingsExtracted, uint64(n))
}

func IncFetchErrors() {
	atomic.AddUint64(&fetchErrors, 1)
}

// ObserveRankRun records one ranking pass and the number of results it kept.
func ObserveRankRun(kept int) {
	atomic.AddUint64(&rankRuns, 1)
	if kept > 0 {
		atomic.AddUint64(&matches, uint64(kept))
	}
}

func Snapshot() StatsSnapshot {
	return StatsSnapshot{
		PagesFetched:      atomic.LoadUint64(&pagesFetched),
		ListingsExtracted: atomic.LoadUint64(&listingsExtracted),
		FetchErrors:       atomic.LoadUint64(&fetchErrors),
		RankRuns:          atomic.LoadUint64(&rankRuns),
		Matches:           atomic.LoadUint64(&matches),
	}
}
