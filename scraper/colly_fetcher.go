package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"golang.org/x/time/rate"

	"olx-browser/config"
	"olx-browser/models"
	"olx-browser/utils"
)

// CollyFetcher performs plain HTTP GETs through Colly with a per-host rate
// limit and retries on 429 and 5xx responses.
type CollyFetcher struct {
	userAgent string
	timeout   time.Duration
	limit     rate.Limit
	burst     int
	logger    *utils.Logger
	retry     *utils.RetryConfig

	mu    sync.Mutex
	hosts map[string]*rate.Limiter
}

// NewCollyFetcher creates a CollyFetcher from the request settings in cfg.
func NewCollyFetcher(cfg *config.Config, logger *utils.Logger) *CollyFetcher {
	limit := rate.Inf
	if cfg.RateLimitMs > 0 {
		limit = rate.Every(time.Duration(cfg.RateLimitMs) * time.Millisecond)
	}
	timeout := time.Duration(cfg.RequestTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &CollyFetcher{
		userAgent: cfg.UserAgent,
		timeout:   timeout,
		limit:     limit,
		burst:     1,
		logger:    logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   500 * time.Millisecond,
			Logger:      logger,
			Retryable:   isTransient,
		},
		hosts: make(map[string]*rate.Limiter),
	}
}

// Fetch returns the body of rawURL. Failures are reported as *models.NetworkError.
func (f *CollyFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	target, err := normalizeURL(rawURL)
	if err != nil {
		return "", &models.NetworkError{URL: rawURL, Err: err}
	}
	limiter := f.hostLimiter(hostKey(target))

	var body string
	err = f.retry.Do(ctx, "fetch "+target, func() error {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		b, status, err := f.fetchOnce(ctx, target)
		if err != nil {
			return &models.NetworkError{URL: target, Status: status, Err: err}
		}
		body = b
		return nil
	})
	if err != nil {
		var netErr *models.NetworkError
		if !errors.As(err, &netErr) {
			return "", &models.NetworkError{URL: target, Err: err}
		}
		return "", err
	}
	return body, nil
}

// Close is a no-op; collectors are created per request.
func (f *CollyFetcher) Close() error {
	return nil
}

func (f *CollyFetcher) fetchOnce(ctx context.Context, target string) (string, int, error) {
	c := f.newCollector()

	status := 0
	var body []byte
	var reqErr error
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = append([]byte(nil), r.Body...)
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		reqErr = err
	})

	collyCtx := colly.NewContext()
	collyCtx.Put("ctx", ctx)

	if err := c.Request(http.MethodGet, target, nil, collyCtx, nil); err != nil {
		return "", status, err
	}
	if reqErr != nil {
		return "", status, reqErr
	}
	if ctx.Err() != nil {
		return "", status, ctx.Err()
	}
	if status >= 400 {
		return "", status, fmt.Errorf("status %d", status)
	}
	f.logger.Debug("[colly] GET %s -> %d (%d bytes)", target, status, len(body))
	return string(body), status, nil
}

func (f *CollyFetcher) newCollector() *colly.Collector {
	c := colly.NewCollector(colly.UserAgent(f.userAgent))
	c.IgnoreRobotsTxt = false
	c.SetRequestTimeout(f.timeout)

	c.OnRequest(func(r *colly.Request) {
		ctx := context.Background()
		if v := r.Ctx.GetAny("ctx"); v != nil {
			if reqCtx, ok := v.(context.Context); ok {
				ctx = reqCtx
			}
		}
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	return c
}

func (f *CollyFetcher) hostLimiter(host string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.hosts[host]; ok {
		return l
	}
	l := rate.NewLimiter(f.limit, f.burst)
	f.hosts[host] = l
	return l
}

// isTransient reports whether a fetch error is worth retrying: connection
// failures, 429 and 5xx.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr *models.NetworkError
	if !errors.As(err, &netErr) {
		return false
	}
	switch {
	case netErr.Status == 0:
		return true
	case netErr.Status == http.StatusTooManyRequests:
		return true
	case netErr.Status >= 500 && netErr.Status <= 599:
		return true
	}
	return false
}

func normalizeURL(rawURL string) (string, error) {
	if rawURL == "" {
		return "", errors.New("empty url")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	return u.String(), nil
}

func hostKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "default"
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
