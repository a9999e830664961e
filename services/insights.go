package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"olx-browser/models"
	"olx-browser/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(listings []models.Listing) *models.InsightReport {
	report := &models.InsightReport{
		ByCondition: make(map[string]int),
	}

	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)
	urls := utils.NewURLSet()

	var priced []int
	for i, l := range listings {
		if l.PriceValue > 0 {
			priced = append(priced, i)
		}
		if l.Degraded() {
			report.DegradedListings++
		}
		if l.IsFeatured {
			report.FeaturedCount++
		}
		if l.HasDelivery {
			report.DeliveryCount++
		}
		if l.HasSafetyBadge {
			report.SafetyBadgeCount++
		}
		if l.URL != "" && !urls.Add(l.URL) {
			report.DuplicateURLs++
		}
		cond := utils.FoldText(l.Condition)
		if cond == "" {
			cond = "unknown"
		}
		report.ByCondition[cond]++
	}

	// Price stats (only listings with price > 0)
	report.PricedListings = len(priced)
	if len(priced) > 0 {
		cheapest := listings[priced[0]]
		report.MinPrice = cheapest.PriceValue
		report.MaxPrice = cheapest.PriceValue
		var total float64
		for _, i := range priced {
			p := listings[i].PriceValue
			total += p
			if p < report.MinPrice {
				report.MinPrice = p
				cheapest = listings[i]
			}
			if p > report.MaxPrice {
				report.MaxPrice = p
			}
		}
		report.Cheapest = &cheapest
		report.AveragePrice = round2(total / float64(len(priced)))
		report.MinPrice = round2(report.MinPrice)
		report.MaxPrice = round2(report.MaxPrice)
	}

	s.logger.Debug("[insights] %d listings, %d priced, %d duplicate URLs",
		report.TotalListings, report.PricedListings, report.DuplicateURLs)
	return report
}

func (s *InsightService) Print(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📊 OLX LISTING INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total listings   : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Fprintf(w, "  With a price     : \033[1m%d\033[0m\n", r.PricedListings)
	fmt.Fprintf(w, "  Degraded records : \033[1m%d\033[0m\n", r.DegradedListings)
	fmt.Fprintf(w, "  Duplicate URLs   : \033[1m%d\033[0m\n", r.DuplicateURLs)
	fmt.Fprintln(w)

	// Price Stats
	fmt.Fprintf(w, "\033[1;33m  Price Statistics (zł)\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.PricedListings > 0 {
		fmt.Fprintf(w, "  Average price : \033[1;32m%.2f\033[0m\n", r.AveragePrice)
		fmt.Fprintf(w, "  Minimum price : \033[1;32m%.2f\033[0m\n", r.MinPrice)
		fmt.Fprintf(w, "  Maximum price : \033[1;32m%.2f\033[0m\n", r.MaxPrice)
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	if r.Cheapest != nil {
		fmt.Fprintf(w, "\033[1;33m  Cheapest Listing\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s\n", truncate(r.Cheapest.Title, 50))
		fmt.Fprintf(w, "  Location : %s\n", r.Cheapest.LocationDate)
		fmt.Fprintf(w, "  Price    : \033[1;32m%s\033[0m\n", r.Cheapest.PriceRaw)
		fmt.Fprintln(w)
	}

	// Badges
	fmt.Fprintf(w, "\033[1;33m  Badges\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Featured     : %d\n", r.FeaturedCount)
	fmt.Fprintf(w, "  Delivery     : %d\n", r.DeliveryCount)
	fmt.Fprintf(w, "  Safety badge : %d\n", r.SafetyBadgeCount)
	fmt.Fprintln(w)

	// Listings by Condition
	fmt.Fprintf(w, "\033[1;33m  Listings by Condition\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ByCondition) == 0 {
		fmt.Fprintf(w, "  No condition data\n")
	} else {
		type condCount struct {
			cond  string
			count int
		}
		var conds []condCount
		for cond, cnt := range r.ByCondition {
			conds = append(conds, condCount{cond, cnt})
		}
		sort.Slice(conds, func(i, j int) bool {
			if conds[i].count != conds[j].count {
				return conds[i].count > conds[j].count
			}
			return conds[i].cond < conds[j].cond
		})
		for _, cc := range conds {
			bar := strings.Repeat("█", cc.count)
			fmt.Fprintf(w, "  %-30s %s (%d)\n", truncate(cc.cond, 28), bar, cc.count)
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

// truncate shortens s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
