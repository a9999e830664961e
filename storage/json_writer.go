package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"olx-browser/models"
)

// JSONWriter writes listings as a single indented JSON array. Records passed
// to successive Write calls are buffered and encoded on Close.
type JSONWriter struct {
	file     *os.File
	listings []models.Listing
}

// NewJSONWriter creates (or truncates) the JSON file at path.
func NewJSONWriter(path string) (*JSONWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("json: create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("json: create file %q: %w", path, err)
	}
	return &JSONWriter{file: f, listings: make([]models.Listing, 0)}, nil
}

func (j *JSONWriter) Write(listings []models.Listing) error {
	j.listings = append(j.listings, listings...)
	return nil
}

// Close encodes every buffered listing and closes the file.
func (j *JSONWriter) Close() error {
	if err := WriteListingsJSON(j.file, j.listings); err != nil {
		_ = j.file.Close()
		return err
	}
	return j.file.Close()
}

// WriteListingsJSON encodes listings as an indented array to w.
func WriteListingsJSON(w io.Writer, listings []models.Listing) error {
	if listings == nil {
		listings = []models.Listing{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(listings); err != nil {
		return &models.SerializationError{Format: "json", Err: err}
	}
	return nil
}
