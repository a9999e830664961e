package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"olx-browser/models"
)

// ListingColumns is the header of a listing export, in column order.
var ListingColumns = []string{
	"ID", "URL", "Title", "Price", "Image URL", "Location/Date",
	"Condition", "Is Featured", "Has Delivery", "Has Safety Badge",
}

// CSVWriter writes listings to a CSV file, one row per record.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(ListingColumns); err != nil {
		_ = f.Close()
		return nil, &models.SerializationError{Format: "csv", Err: err}
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends one row per listing. Booleans are written as true/false.
func (c *CSVWriter) Write(listings []models.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return writeListingRows(c.writer, listings)
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		_ = c.file.Close()
		return &models.SerializationError{Format: "csv", Err: err}
	}
	return c.file.Close()
}

// writeListingsCSV writes a complete export, header included, to w.
func writeListingsCSV(w io.Writer, listings []models.Listing) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ListingColumns); err != nil {
		return &models.SerializationError{Format: "csv", Err: err}
	}
	return writeListingRows(cw, listings)
}

func writeListingRows(w *csv.Writer, listings []models.Listing) error {
	for _, l := range listings {
		row := []string{
			l.ID,
			l.URL,
			l.Title,
			l.PriceRaw,
			l.ImageURL,
			l.LocationDate,
			l.Condition,
			strconv.FormatBool(l.IsFeatured),
			strconv.FormatBool(l.HasDelivery),
			strconv.FormatBool(l.HasSafetyBadge),
		}
		if err := w.Write(row); err != nil {
			return &models.SerializationError{Format: "csv", Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return &models.SerializationError{Format: "csv", Err: err}
	}
	return nil
}
