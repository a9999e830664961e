package utils

import "testing"

func TestStatsCounters(t *testing.T) {
	before := Snapshot()

	IncPagesFetched()
	AddListingsExtracted(40)
	AddListingsExtracted(-3)
	IncFetchErrors()
	ObserveRankRun(7)
	ObserveRankRun(0)

	after := Snapshot()
	if d := after.PagesFetched - before.PagesFetched; d != 1 {
		t.Errorf("PagesFetched delta: got %d", d)
	}
	if d := after.ListingsExtracted - before.ListingsExtracted; d != 40 {
		t.Errorf("ListingsExtracted delta: got %d", d)
	}
	if d := after.FetchErrors - before.FetchErrors; d != 1 {
		t.Errorf("FetchErrors delta: got %d", d)
	}
	if d := after.RankRuns - before.RankRuns; d != 2 {
		t.Errorf("RankRuns delta: got %d", d)
	}
	if d := after.Matches - before.Matches; d != 7 {
		t.Errorf("Matches delta: got %d", d)
	}
}
