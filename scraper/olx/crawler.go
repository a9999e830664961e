package olx

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"olx-browser/config"
	"olx-browser/models"
	"olx-browser/utils"
)

// Source is the narrow fetch contract the crawler depends on.
type Source interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Crawler walks the result pages of a search query.
type Crawler struct {
	source    Source
	extractor *Extractor
	searchURL string
	pageParam string
	maxPages  int
	logger    *utils.Logger
}

// NewCrawler creates a Crawler from cfg. cfg.SearchURL holds one %s verb for
// the query slug.
func NewCrawler(cfg *config.Config, source Source, extractor *Extractor, logger *utils.Logger) *Crawler {
	searchURL := cfg.SearchURL
	if searchURL == "" {
		searchURL = "https://www.olx.pl/oferty/q-%s/"
	}
	pageParam := cfg.PageParam
	if pageParam == "" {
		pageParam = "page"
	}
	return &Crawler{
		source:    source,
		extractor: extractor,
		searchURL: searchURL,
		pageParam: pageParam,
		maxPages:  cfg.MaxPages,
		logger:    logger,
	}
}

// PageURL returns the address of one results page. Page 1 is the bare
// search URL; later pages add the page parameter.
func (c *Crawler) PageURL(query string, page int) string {
	slug := url.PathEscape(strings.Join(strings.Fields(query), "-"))
	base := fmt.Sprintf(c.searchURL, slug)
	if page < 2 {
		return base
	}
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set(c.pageParam, strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

// FetchPage fetches and extracts a single page. The returned page count is
// the pagination bound advertised by that page, or 1 when it has none.
func (c *Crawler) FetchPage(ctx context.Context, query string, page int) ([]models.Listing, int, error) {
	if page < 1 {
		page = 1
	}
	target := c.PageURL(query, page)
	markup, err := c.source.Fetch(ctx, target)
	if err != nil {
		utils.IncFetchErrors()
		return nil, 0, fmt.Errorf("page %d: %w", page, err)
	}
	utils.IncPagesFetched()

	p, err := c.extractor.ExtractPage(markup)
	if err != nil {
		return nil, 0, fmt.Errorf("page %d: %w", page, err)
	}
	utils.AddListingsExtracted(len(p.Listings))
	c.logger.Debug("[olx] %s -> %d listings, %d pages", target, len(p.Listings), p.TotalPages)
	return p.Listings, p.TotalPages, nil
}

// Crawl fetches pages start..total in order and concatenates their listings.
// The total comes from the first fetched page. Any page failure aborts the
// crawl so that no page is silently missing from the result. Listings that
// appear on more than one page are kept as-is.
func (c *Crawler) Crawl(ctx context.Context, query string, start int) ([]models.Listing, int, error) {
	if start < 1 {
		start = 1
	}
	listings, total, err := c.FetchPage(ctx, query, start)
	if err != nil {
		return nil, 0, err
	}

	last := total
	if c.maxPages > 0 && start+c.maxPages-1 < last {
		last = start + c.maxPages - 1
		c.logger.Info("[olx] %q has %d pages, stopping at page %d", query, total, last)
	}

	for page := start + 1; page <= last; page++ {
		if err := ctx.Err(); err != nil {
			return nil, total, err
		}
		batch, _, err := c.FetchPage(ctx, query, page)
		if err != nil {
			return nil, total, err
		}
		listings = append(listings, batch...)
	}

	c.logger.Info("[olx] %q: %d listings from pages %d-%d", query, len(listings), start, last)
	return listings, total, nil
}

// FetchAll returns every listing for query across all of its pages.
func (c *Crawler) FetchAll(ctx context.Context, query string) ([]models.Listing, error) {
	listings, _, err := c.Crawl(ctx, query, 1)
	return listings, err
}
