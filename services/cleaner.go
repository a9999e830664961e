package services

import (
	"olx-browser/models"
	"olx-browser/utils"
)

// Cleaner normalizes listings that come from outside the extractor, such as
// a CSV export or the API, so they match what a fresh crawl produces.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean returns normalized copies of listings. Text fields are collapsed and
// PriceValue is recomputed from PriceRaw. Degraded records are kept.
func (c *Cleaner) Clean(listings []models.Listing) []models.Listing {
	result := make([]models.Listing, 0, len(listings))
	degraded := 0

	for _, l := range listings {
		l.ID = utils.NormalizeText(l.ID)
		l.URL = utils.NormalizeText(l.URL)
		l.Title = utils.NormalizeText(l.Title)
		l.PriceRaw = utils.NormalizeText(l.PriceRaw)
		l.PriceValue = utils.NormalizePrice(l.PriceRaw)
		l.ImageURL = utils.NormalizeText(l.ImageURL)
		l.LocationDate = utils.NormalizeText(l.LocationDate)
		l.Condition = utils.NormalizeText(l.Condition)

		if l.Degraded() {
			degraded++
			c.logger.Debug("[cleaner] Degraded listing kept: id=%q url=%q", l.ID, l.URL)
		}
		result = append(result, l)
	}

	if degraded > 0 {
		c.logger.Warn("[cleaner] %d of %d listings are missing a title or price", degraded, len(result))
	}
	return result
}
