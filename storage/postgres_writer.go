package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"olx-browser/models"
)

// PostgresWriter persists crawled listings and ranking runs to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id               SERIAL PRIMARY KEY,
			query            TEXT          NOT NULL DEFAULT '',
			offer_id         TEXT          NOT NULL DEFAULT '',
			url              TEXT          NOT NULL DEFAULT '',
			title            TEXT          NOT NULL DEFAULT '',
			price_raw        TEXT          NOT NULL DEFAULT '',
			price            DOUBLE PRECISION NOT NULL DEFAULT 0,
			image_url        TEXT          NOT NULL DEFAULT '',
			location_date    TEXT          NOT NULL DEFAULT '',
			condition        TEXT          NOT NULL DEFAULT '',
			is_featured      BOOLEAN       NOT NULL DEFAULT FALSE,
			has_delivery     BOOLEAN       NOT NULL DEFAULT FALSE,
			has_safety_badge BOOLEAN       NOT NULL DEFAULT FALSE,
			created_at       TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		ALTER TABLE listings ALTER COLUMN price TYPE DOUBLE PRECISION;

		CREATE INDEX IF NOT EXISTS idx_listings_query ON listings(query);
		CREATE INDEX IF NOT EXISTS idx_listings_price ON listings(price);

		CREATE TABLE IF NOT EXISTS rank_results (
			id            SERIAL PRIMARY KEY,
			run_id        UUID             NOT NULL,
			query         TEXT             NOT NULL DEFAULT '',
			position      INTEGER          NOT NULL,
			listing_url   TEXT             NOT NULL DEFAULT '',
			listing_title TEXT             NOT NULL DEFAULT '',
			price_raw     TEXT             NOT NULL DEFAULT '',
			model         TEXT             NOT NULL DEFAULT '',
			benchmark     DOUBLE PRECISION NOT NULL DEFAULT 0,
			similarity    INTEGER          NOT NULL DEFAULT 0,
			value_ratio   DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at    TIMESTAMPTZ      NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_rank_results_run ON rank_results(run_id);
	`)
	return err
}

// WriteListings replaces the stored listings of query with listings in one
// transaction, so a failed insert leaves the previous export in place. Pages
// may repeat a listing, so rows are not unique by URL.
func (pw *PostgresWriter) WriteListings(query string, listings []models.Listing) error {
	tx, err := pw.db.Begin()
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM listings WHERE query = $1", query); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("postgres: clear: %w", err)
	}

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		stmt, args := listingInsert(query, listings[i:end])
		if _, err := tx.Exec(stmt, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("postgres: insert listings: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

const listingCols = 12

// listingInsert builds one multi-row INSERT for batch.
func listingInsert(query string, batch []models.Listing) (string, []interface{}) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*listingCols)

	for idx, l := range batch {
		base := idx * listingCols
		ph := make([]string, listingCols)
		for c := range ph {
			ph[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(ph, ",")+")")
		valueArgs = append(valueArgs,
			query, l.ID, l.URL, l.Title, l.PriceRaw, l.PriceValue, l.ImageURL,
			l.LocationDate, l.Condition, l.IsFeatured, l.HasDelivery, l.HasSafetyBadge)
	}

	stmt := fmt.Sprintf(`
		INSERT INTO listings (query, offer_id, url, title, price_raw, price, image_url,
			location_date, condition, is_featured, has_delivery, has_safety_badge)
		VALUES %s
	`, strings.Join(valueStrings, ","))
	return stmt, valueArgs
}

// WriteRankRun stores every result of run in one transaction.
func (pw *PostgresWriter) WriteRankRun(run *models.RankRun) error {
	tx, err := pw.db.Begin()
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT INTO rank_results (run_id, query, position, listing_url, listing_title,
			price_raw, model, benchmark, similarity, value_ratio, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("postgres: prepare: %w", err)
	}
	defer stmt.Close()

	for i, m := range run.Results {
		if _, err := stmt.Exec(run.ID.String(), run.Query, i+1, m.Listing.URL, m.Listing.Title,
			m.Listing.PriceRaw, m.Benchmark.Model, m.Benchmark.Score, m.Similarity,
			m.ValueRatio, run.CreatedAt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("postgres: insert rank result: %w", err)
		}
	}
	return tx.Commit()
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchListings retrieves the stored listings of query in insertion order,
// used by the insight service.
func (pw *PostgresWriter) FetchListings(query string) ([]models.Listing, error) {
	rows, err := pw.db.Query(`
		SELECT offer_id, url, title, price_raw, price, image_url, location_date,
			condition, is_featured, has_delivery, has_safety_badge
		FROM listings
		WHERE query = $1
		ORDER BY id
	`, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch listings: %w", err)
	}
	defer rows.Close()

	listings := make([]models.Listing, 0)
	for rows.Next() {
		var l models.Listing
		if err := rows.Scan(
			&l.ID, &l.URL, &l.Title, &l.PriceRaw, &l.PriceValue, &l.ImageURL,
			&l.LocationDate, &l.Condition, &l.IsFeatured, &l.HasDelivery, &l.HasSafetyBadge,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}
