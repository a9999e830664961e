package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"olx-browser/models"
)

// PDFReportWriter renders ranking runs as a one-table PDF.
type PDFReportWriter struct {
	path string
	topK int
}

// NewPDFReportWriter creates a writer that renders at most topK rows to path.
func NewPDFReportWriter(path string, topK int) *PDFReportWriter {
	return &PDFReportWriter{path: path, topK: topK}
}

func (p *PDFReportWriter) WriteRankRun(run *models.RankRun) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("pdf: create output dir: %w", err)
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("OLX value ranking", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Value ranking: %s", run.Query)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Run %s at %s", run.ID, run.CreatedAt.Format("2006-01-02 15:04 MST")), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	widths := []float64{10, 100, 30, 30, 50, 30}
	headers := []string{"#", "Listing", "Price", "Condition", "Benchmark", "Ratio"}
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	results := run.Results
	if p.topK > 0 && len(results) > p.topK {
		results = results[:p.topK]
	}
	for i, m := range results {
		cells := []string{
			fmt.Sprintf("%d", i+1),
			clip(m.Listing.Title, 60),
			m.Listing.PriceRaw,
			m.Listing.Condition,
			clip(m.Benchmark.Model+" ("+m.Benchmark.ScoreText()+")", 28),
			fmt.Sprintf("%.6f", m.ValueRatio),
		}
		for j, c := range cells {
			pdf.CellFormat(widths[j], 6, tr(c), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
		if m.Listing.URL != "" {
			pdf.SetFont("Helvetica", "", 7)
			pdf.WriteLinkString(4, tr(clip(m.Listing.URL, 140)), m.Listing.URL)
			pdf.Ln(5)
			pdf.SetFont("Helvetica", "", 9)
		}
	}

	if err := pdf.OutputFileAndClose(p.path); err != nil {
		return &models.SerializationError{Format: "pdf", Err: err}
	}
	return nil
}

// Close is a no-op; each run is written to its own document.
func (p *PDFReportWriter) Close() error {
	return nil
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
