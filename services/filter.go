package services

import (
	"fmt"
	"strconv"
	"strings"

	"olx-browser/models"
	"olx-browser/utils"
)

// Filters are the optional preconditions a listing must meet before it is
// matched. A nil bound or empty condition is inactive.
type Filters struct {
	MinPrice  *float64
	MaxPrice  *float64
	Condition string
}

// ParseFilters builds Filters from user input. Empty strings leave the
// corresponding filter inactive. Bounds accept a comma decimal separator.
func ParseFilters(minPrice, maxPrice, condition string) (Filters, error) {
	var f Filters
	var err error
	if f.MinPrice, err = parseBound("min price", minPrice); err != nil {
		return Filters{}, err
	}
	if f.MaxPrice, err = parseBound("max price", maxPrice); err != nil {
		return Filters{}, err
	}
	f.Condition = utils.NormalizeText(condition)
	return f, nil
}

func parseBound(name, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return &v, nil
}

// Active reports whether any filter is set.
func (f Filters) Active() bool {
	return f.MinPrice != nil || f.MaxPrice != nil || f.Condition != ""
}

// Accept reports whether l satisfies every active filter. Condition matching
// is exact after case folding.
func (f Filters) Accept(l models.Listing) bool {
	if f.MinPrice != nil && l.PriceValue < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && l.PriceValue > *f.MaxPrice {
		return false
	}
	if f.Condition != "" && utils.FoldText(l.Condition) != utils.FoldText(f.Condition) {
		return false
	}
	return true
}

// Apply returns the listings accepted by f, in their original order.
func (f Filters) Apply(listings []models.Listing) []models.Listing {
	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if f.Accept(l) {
			out = append(out, l)
		}
	}
	return out
}

// String renders the active filters for log lines.
func (f Filters) String() string {
	var parts []string
	if f.MinPrice != nil {
		parts = append(parts, "min="+utils.FormatPrice(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		parts = append(parts, "max="+utils.FormatPrice(*f.MaxPrice))
	}
	if f.Condition != "" {
		parts = append(parts, fmt.Sprintf("condition=%q", f.Condition))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}
