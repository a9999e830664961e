package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"olx-browser/api"
	"olx-browser/browser"
	"olx-browser/config"
	"olx-browser/models"
	"olx-browser/scraper"
	"olx-browser/scraper/olx"
	"olx-browser/services"
	"olx-browser/storage"
	"olx-browser/utils"
)

const usage = `usage: olx-browser <command> [flags]

commands:
  browse     interactive search over OLX result pages
  export     crawl every page of a query and write CSV/JSON
  rank       rank listings by benchmark score per zł
  insights   print aggregate figures for a query
  serve      run the HTTP API
`

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "browse":
		err = runBrowse(ctx, cfg, logger, args)
	case "export":
		err = runExport(ctx, cfg, logger, args)
	case "rank":
		err = runRank(ctx, cfg, logger, args)
	case "insights":
		err = runInsights(ctx, cfg, logger, args)
	case "serve":
		err = runServe(ctx, cfg, logger, args)
	case "-h", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}

	if err != nil {
		logger.Error("%s failed: %v", os.Args[1], err)
		os.Exit(1)
	}
}

// newCrawler builds the fetch and extraction stack from cfg. The caller
// closes the returned fetcher.
func newCrawler(cfg *config.Config, logger *utils.Logger) (*olx.Crawler, scraper.Fetcher, error) {
	sel, err := config.LoadSelectors(cfg.SelectorsPath)
	if err != nil {
		return nil, nil, err
	}
	fetcher, err := scraper.NewFetcher(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	extractor := olx.NewExtractor(sel, siteRoot(cfg.SearchURL))
	logger.Info("Fetcher: %s | rate: %dms | retries: %d | max pages: %d",
		cfg.Fetcher, cfg.RateLimitMs, cfg.MaxRetries, cfg.MaxPages)
	return olx.NewCrawler(cfg, fetcher, extractor, logger), fetcher, nil
}

// siteRoot returns scheme://host/ of the search URL template.
func siteRoot(searchURL string) string {
	u, err := url.Parse(fmt.Sprintf(searchURL, "x"))
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host + "/"
}

func openPostgres(cfg *config.Config, logger *utils.Logger) *storage.PostgresWriter {
	if !cfg.StoreResults {
		return nil
	}
	pw, err := storage.NewPostgresWriter(cfg.DSN())
	if err != nil {
		logger.Warn("PostgreSQL unavailable, results will not be stored: %v", err)
		return nil
	}
	return pw
}

func runBrowse(ctx context.Context, cfg *config.Config, logger *utils.Logger, args []string) error {
	fs := flag.NewFlagSet("browse", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	crawler, fetcher, err := newCrawler(cfg, logger)
	if err != nil {
		return err
	}
	defer fetcher.Close()

	session := browser.NewSession(crawler, logger)
	return browser.Run(ctx, session, os.Stdin, os.Stdout)
}

func runExport(ctx context.Context, cfg *config.Config, logger *utils.Logger, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	query := fs.String("q", "", "search query")
	csvPath := fs.String("csv", cfg.CSVOutputPath, "CSV output path, empty to skip")
	jsonPath := fs.String("json", cfg.JSONOutputPath, "JSON output path, empty to skip")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *query == "" {
		return errors.New("export: -q is required")
	}

	crawler, fetcher, err := newCrawler(cfg, logger)
	if err != nil {
		return err
	}
	defer fetcher.Close()

	start := time.Now()
	listings, err := crawler.FetchAll(ctx, *query)
	if err != nil {
		return fmt.Errorf("crawl %q: %w", *query, err)
	}
	logger.Info("Crawled %d listings for %q in %s", len(listings), *query, time.Since(start).Round(time.Millisecond))

	writers := make(map[string]func(string) (storage.ListingWriter, error))
	if *csvPath != "" {
		writers[*csvPath] = func(p string) (storage.ListingWriter, error) { return storage.NewCSVWriter(p) }
	}
	if *jsonPath != "" {
		writers[*jsonPath] = func(p string) (storage.ListingWriter, error) { return storage.NewJSONWriter(p) }
	}
	for path, open := range writers {
		if err := exportTo(path, open, listings); err != nil {
			return err
		}
		logger.Info("Listings saved to %s", path)
	}

	if pw := openPostgres(cfg, logger); pw != nil {
		defer pw.Close()
		if err := pw.WriteListings(*query, listings); err != nil {
			return err
		}
		logger.Info("Listings stored in PostgreSQL (table: listings)")
	}
	return nil
}

func exportTo(path string, open func(string) (storage.ListingWriter, error), listings []models.Listing) error {
	w, err := open(path)
	if err != nil {
		return err
	}
	if err := w.Write(listings); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// loadListings crawls query when set, otherwise reads the listing file.
func loadListings(ctx context.Context, cfg *config.Config, logger *utils.Logger, query, path string) ([]models.Listing, error) {
	if query != "" {
		crawler, fetcher, err := newCrawler(cfg, logger)
		if err != nil {
			return nil, err
		}
		defer fetcher.Close()
		listings, err := crawler.FetchAll(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("crawl %q: %w", query, err)
		}
		return listings, nil
	}
	if path == "" {
		return nil, errors.New("either -q or -listings is required")
	}
	listings, err := storage.LoadListings(path)
	if err != nil {
		return nil, err
	}
	return services.NewCleaner(logger).Clean(listings), nil
}

func runRank(ctx context.Context, cfg *config.Config, logger *utils.Logger, args []string) error {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	query := fs.String("q", "", "search query to crawl")
	listingsPath := fs.String("listings", cfg.ListingsPath, "CSV or JSON listing export to rank instead of crawling")
	benchmarksPath := fs.String("benchmarks", cfg.BenchmarksPath, "benchmark catalog CSV")
	minPrice := fs.String("min", "", "minimum price")
	maxPrice := fs.String("max", "", "maximum price")
	condition := fs.String("condition", "", "required condition, case-insensitive")
	top := fs.Int("top", cfg.TopK, "number of results to print")
	pdfPath := fs.String("pdf", cfg.PDFOutputPath, "optional PDF report path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filters, err := services.ParseFilters(*minPrice, *maxPrice, *condition)
	if err != nil {
		return err
	}
	benchmarks, err := storage.LoadBenchmarks(*benchmarksPath, logger)
	if err != nil {
		return err
	}
	listings, err := loadListings(ctx, cfg, logger, *query, *listingsPath)
	if err != nil {
		return err
	}

	results := services.NewRanker(logger, cfg.MaxConcurrency).Rank(listings, benchmarks, filters)
	services.PrintRanked(os.Stdout, results, *top)

	run := models.NewRankRun(*query, services.Top(results, *top))
	if *pdfPath != "" {
		if err := storage.NewPDFReportWriter(*pdfPath, *top).WriteRankRun(run); err != nil {
			return err
		}
		logger.Info("PDF report saved to %s", *pdfPath)
	}
	if pw := openPostgres(cfg, logger); pw != nil {
		defer pw.Close()
		if err := pw.WriteRankRun(run); err != nil {
			return err
		}
		logger.Info("Rank run %s stored in PostgreSQL (table: rank_results)", run.ID)
	}
	return nil
}

func runInsights(ctx context.Context, cfg *config.Config, logger *utils.Logger, args []string) error {
	fs := flag.NewFlagSet("insights", flag.ExitOnError)
	query := fs.String("q", "", "search query to crawl")
	listingsPath := fs.String("listings", cfg.ListingsPath, "CSV or JSON listing export")
	fromDB := fs.Bool("db", false, "read the stored listings of -q from PostgreSQL instead of crawling")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := checkInsightsSource(*query, *fromDB); err != nil {
		return err
	}

	var listings []models.Listing
	var err error
	if *fromDB {
		pw, dbErr := storage.NewPostgresWriter(cfg.DSN())
		if dbErr != nil {
			return dbErr
		}
		defer pw.Close()
		listings, err = pw.FetchListings(*query)
	} else {
		listings, err = loadListings(ctx, cfg, logger, *query, *listingsPath)
	}
	if err != nil {
		return err
	}

	insightSvc := services.NewInsightService(logger)
	insightSvc.Print(os.Stdout, insightSvc.Generate(listings))
	return nil
}

// checkInsightsSource rejects -db without -q; stored listings are keyed by query.
func checkInsightsSource(query string, fromDB bool) error {
	if fromDB && strings.TrimSpace(query) == "" {
		return errors.New("-db requires -q to select the stored query")
	}
	return nil
}

func runServe(ctx context.Context, cfg *config.Config, logger *utils.Logger, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", cfg.HTTPAddr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	crawler, fetcher, err := newCrawler(cfg, logger)
	if err != nil {
		return err
	}
	defer fetcher.Close()

	benchmarks, err := storage.LoadBenchmarks(cfg.BenchmarksPath, logger)
	if err != nil {
		logger.Warn("No benchmark catalog, /rank will match nothing: %v", err)
	}

	var store storage.RankWriter
	if pw := openPostgres(cfg, logger); pw != nil {
		defer pw.Close()
		store = pw
	}

	server := api.NewServer(crawler, services.NewRanker(logger, cfg.MaxConcurrency),
		services.NewCleaner(logger), benchmarks, store, logger, cfg.TopK)
	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening on %s", *addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("Shutting down HTTP API")
		return httpServer.Shutdown(shutdownCtx)
	}
}
