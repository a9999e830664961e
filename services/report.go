package services

import (
	"fmt"
	"io"
	"strings"

	"olx-browser/models"
)

// PrintRanked writes the top k results in rank order. The value ratio is
// printed with six decimals.
func PrintRanked(w io.Writer, results []models.MatchResult, k int) {
	top := Top(results, k)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "Top %d listings by benchmark score per zł\n", len(top))
	fmt.Fprintf(w, "%s\n", thin)
	if len(top) == 0 {
		fmt.Fprintf(w, "No listing matched the benchmark catalog\n")
		return
	}
	for i, m := range top {
		condition := m.Listing.Condition
		if condition == "" {
			condition = "-"
		}
		fmt.Fprintf(w, "%d. %s\n", i+1, m.Listing.Title)
		fmt.Fprintf(w, "   Price: %s | Condition: %s\n", m.Listing.PriceRaw, condition)
		fmt.Fprintf(w, "   Benchmark: %s %s (%s) | Value ratio: %.6f\n",
			m.Benchmark.Brand, m.Benchmark.Model, m.Benchmark.ScoreText(), m.ValueRatio)
		fmt.Fprintf(w, "   Listing URL: %s\n", m.Listing.URL)
		fmt.Fprintf(w, "   Benchmark URL: %s\n", m.Benchmark.ReferenceURL)
	}
}
