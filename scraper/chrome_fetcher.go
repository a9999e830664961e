package scraper

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"olx-browser/config"
	"olx-browser/models"
	"olx-browser/utils"
)

// ChromeFetcher renders pages in a headless Chrome instance. It is slower than
// CollyFetcher but sees markup produced by client-side scripts.
type ChromeFetcher struct {
	cfg    *config.Config
	logger *utils.Logger
	retry  *utils.RetryConfig

	once        sync.Once
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
}

// NewChromeFetcher creates a ChromeFetcher. The browser starts on first Fetch.
func NewChromeFetcher(cfg *config.Config, logger *utils.Logger) *ChromeFetcher {
	return &ChromeFetcher{
		cfg:    cfg,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

func (f *ChromeFetcher) start() {
	chromeBin := f.cfg.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	f.logger.Info("[chrome] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent(f.cfg.UserAgent),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}
	f.allocCtx, f.cancelAlloc = chromedp.NewExecAllocator(context.Background(), opts...)
}

// Fetch navigates to url and returns the rendered document.
func (f *ChromeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.once.Do(f.start)

	timeout := time.Duration(f.cfg.RequestTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	var markup string
	err := f.retry.Do(ctx, fmt.Sprintf("render %s", url), func() error {
		tabCtx, cancel := chromedp.NewContext(f.allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
		defer cancel()
		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, timeout)
		defer cancelTimeout()

		stop := context.AfterFunc(ctx, cancel)
		defer stop()

		return chromedp.Run(tabCtx,
			chromedp.Navigate(url),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.Sleep(2*time.Second),
			chromedp.OuterHTML("html", &markup, chromedp.ByQuery),
		)
	})
	if err != nil {
		return "", &models.NetworkError{URL: url, Err: err}
	}
	return markup, nil
}

// Close shuts the browser down.
func (f *ChromeFetcher) Close() error {
	if f.cancelAlloc != nil {
		f.cancelAlloc()
	}
	return nil
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
