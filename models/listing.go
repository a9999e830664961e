package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Listing is one marketplace offer as extracted from a results page.
// Records are built once per page fetch and never mutated afterwards.
type Listing struct {
	ID             string  `json:"id"`
	URL            string  `json:"url"`
	Title          string  `json:"title"`
	PriceRaw       string  `json:"price"`
	PriceValue     float64 `json:"-"`
	ImageURL       string  `json:"image_url"`
	LocationDate   string  `json:"location_date"`
	Condition      string  `json:"condition"`
	IsFeatured     bool    `json:"is_featured"`
	HasDelivery    bool    `json:"has_delivery"`
	HasSafetyBadge bool    `json:"has_safety_badge"`
}

// Degraded reports whether the card lost one of the fields ranking depends on.
// Degraded listings are kept, never dropped.
func (l Listing) Degraded() bool {
	return l.Title == "" || l.PriceRaw == ""
}

// Benchmark is one row of the reference catalog. Read-only once loaded.
type Benchmark struct {
	Category     string  `json:"type"`
	PartNumber   string  `json:"part_number"`
	Brand        string  `json:"brand"`
	Model        string  `json:"model"`
	Rank         string  `json:"rank"`
	Score        float64 `json:"benchmark"`
	Samples      string  `json:"samples"`
	ReferenceURL string  `json:"url"`
}

// ScoreText renders Score with as many digits as the catalog gave it.
func (b Benchmark) ScoreText() string {
	return strconv.FormatFloat(b.Score, 'f', -1, 64)
}

// MatchResult pairs a listing with the catalog entry that scored best for it.
type MatchResult struct {
	Listing    Listing   `json:"listing"`
	Benchmark  Benchmark `json:"benchmark"`
	Similarity int       `json:"similarity"`
	ValueRatio float64   `json:"value_ratio"`
}

// RankRun is one ranking invocation kept for persistence and the API.
type RankRun struct {
	ID        uuid.UUID     `json:"run_id"`
	Query     string        `json:"query"`
	CreatedAt time.Time     `json:"created_at"`
	Results   []MatchResult `json:"items"`
}

// NewRankRun stamps a fresh run with a random ID.
func NewRankRun(query string, results []MatchResult) *RankRun {
	return &RankRun{
		ID:        uuid.New(),
		Query:     query,
		CreatedAt: time.Now().UTC(),
		Results:   results,
	}
}

// Page is the outcome of extracting a single results page.
type Page struct {
	TotalPages int
	Listings   []Listing
}

// InsightReport holds aggregate figures over a crawled listing collection.
type InsightReport struct {
	TotalListings    int
	PricedListings   int
	DegradedListings int
	AveragePrice     float64
	MinPrice         float64
	MaxPrice         float64
	Cheapest         *Listing
	FeaturedCount    int
	DeliveryCount    int
	SafetyBadgeCount int
	DuplicateURLs    int
	ByCondition      map[string]int
}
