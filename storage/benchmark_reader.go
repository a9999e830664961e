package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"olx-browser/models"
	"olx-browser/utils"
)

// BenchmarkColumns is the expected catalog header.
var BenchmarkColumns = []string{"Type", "Part Number", "Brand", "Model", "Rank", "Benchmark", "Samples", "URL"}

// LoadBenchmarks reads the catalog at path. Row problems are logged and
// absorbed; only an unreadable file or header fails the load.
func LoadBenchmarks(path string, logger *utils.Logger) ([]models.Benchmark, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("benchmarks: open %q: %w", path, err)
	}
	defer f.Close()

	benchmarks, issues, err := ReadBenchmarks(f, path)
	if err != nil {
		return nil, err
	}
	for _, issue := range issues {
		logger.Warn("[benchmarks] %v", issue)
	}
	logger.Info("[benchmarks] Loaded %d entries from %s (%d row issues)", len(benchmarks), path, len(issues))
	return benchmarks, nil
}

// ReadBenchmarks parses a catalog in the BenchmarkColumns layout, matching
// columns by header name. A malformed Benchmark cell becomes 0 and the row is
// kept. A row whose field count differs from the header, or that has no
// model, is skipped. Every such problem is reported as a *models.ParseError
// in issues.
func ReadBenchmarks(r io.Reader, source string) (benchmarks []models.Benchmark, issues []error, err error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, &models.ParseError{Source: source, Line: 1, Err: err}
	}
	cols := indexHeader(header)
	for _, required := range []string{"model", "benchmark"} {
		if _, ok := cols[required]; !ok {
			return nil, nil, &models.ParseError{
				Source: source, Line: 1, Field: required,
				Err: errors.New("missing column"),
			}
		}
	}

	benchmarks = make([]models.Benchmark, 0)
	for {
		rec, readErr := cr.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			var perr *csv.ParseError
			if !errors.As(readErr, &perr) {
				return nil, nil, fmt.Errorf("benchmarks: read %s: %w", source, readErr)
			}
			issues = append(issues, &models.ParseError{Source: source, Line: perr.Line, Err: perr.Err})
			continue
		}

		line, _ := cr.FieldPos(0)
		get := func(name string) string {
			if i, ok := cols[strings.ToLower(name)]; ok && i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}

		b := models.Benchmark{
			Category:     get("Type"),
			PartNumber:   get("Part Number"),
			Brand:        get("Brand"),
			Model:        get("Model"),
			Rank:         get("Rank"),
			Samples:      get("Samples"),
			ReferenceURL: get("URL"),
		}
		if b.Model == "" {
			issues = append(issues, &models.ParseError{
				Source: source, Line: line, Field: "Model", Err: errors.New("empty model"),
			})
			continue
		}
		raw := get("Benchmark")
		score, ok := utils.ParseScore(raw)
		if !ok {
			issues = append(issues, &models.ParseError{
				Source: source, Line: line, Field: "Benchmark",
				Err: fmt.Errorf("not a number: %q", raw),
			})
		}
		b.Score = score
		benchmarks = append(benchmarks, b)
	}
	return benchmarks, issues, nil
}
