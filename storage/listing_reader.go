package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"olx-browser/models"
	"olx-browser/utils"
)

// LoadListings reads a listing export written by CSVWriter or JSONWriter,
// picking the format from the file extension.
func LoadListings(path string) ([]models.Listing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("listings: open %q: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ReadListingsJSON(f)
	default:
		return ReadListingsCSV(f, path)
	}
}

// ReadListingsJSON decodes an array of listings and recomputes PriceValue.
func ReadListingsJSON(r io.Reader) ([]models.Listing, error) {
	var listings []models.Listing
	if err := json.NewDecoder(r).Decode(&listings); err != nil {
		return nil, &models.ParseError{Source: "json", Err: err}
	}
	for i := range listings {
		listings[i].PriceValue = utils.NormalizePrice(listings[i].PriceRaw)
	}
	return listings, nil
}

// ReadListingsCSV reads rows in the ListingColumns layout. Columns are
// matched by header name so their order does not matter. Unreadable boolean
// cells degrade to false.
func ReadListingsCSV(r io.Reader, source string) ([]models.Listing, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []models.Listing{}, nil
		}
		return nil, &models.ParseError{Source: source, Line: 1, Err: err}
	}
	cols := indexHeader(header)

	listings := make([]models.Listing, 0)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &models.ParseError{Source: source, Line: line, Err: err}
		}
		get := func(name string) string {
			if i, ok := cols[strings.ToLower(name)]; ok && i < len(rec) {
				return rec[i]
			}
			return ""
		}
		l := models.Listing{
			ID:             get("ID"),
			URL:            get("URL"),
			Title:          get("Title"),
			PriceRaw:       get("Price"),
			ImageURL:       get("Image URL"),
			LocationDate:   get("Location/Date"),
			Condition:      get("Condition"),
			IsFeatured:     parseBool(get("Is Featured")),
			HasDelivery:    parseBool(get("Has Delivery")),
			HasSafetyBadge: parseBool(get("Has Safety Badge")),
		}
		l.PriceValue = utils.NormalizePrice(l.PriceRaw)
		listings = append(listings, l)
	}
	return listings, nil
}

func indexHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	return cols
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}
