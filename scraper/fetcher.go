package scraper

import (
	"context"
	"fmt"

	"olx-browser/config"
	"olx-browser/utils"
)

// Fetcher retrieves the raw markup behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
	Close() error
}

// NewFetcher builds the fetcher selected by cfg.Fetcher ("http" or "chrome").
func NewFetcher(cfg *config.Config, logger *utils.Logger) (Fetcher, error) {
	switch cfg.Fetcher {
	case "", "http", "colly":
		return NewCollyFetcher(cfg, logger), nil
	case "chrome", "chromedp":
		return NewChromeFetcher(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown fetcher %q (want http or chrome)", cfg.Fetcher)
	}
}
