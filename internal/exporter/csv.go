// Package exporter writes the annotated series to files: one CSV per
// granularity, plus a Parquet variant of the daily series for
// columnar consumers.
package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"seasoncli/internal/seasonality"
)

// CSVWriter writes annotated series under a base directory.
type CSVWriter struct {
	dir string
}

// NewCSVWriter creates a writer rooted at dir.
func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{dir: dir}
}

// WriteResult writes all five series of a pipeline result, one file
// per granularity, named <symbol>_<granularity>.csv.
func (w *CSVWriter) WriteResult(symbol string, res seasonality.Result) error {
	writes := []struct {
		suffix  string
		headers []string
		records [][]string
	}{
		{"daily", dailyHeaders, dailyRecords(res.Daily)},
		{"weekly_monday", weeklyHeaders, weeklyRecords(res.MondayWeekly)},
		{"weekly_expiry", weeklyHeaders, weeklyRecords(res.ExpiryWeekly)},
		{"monthly", monthlyHeaders, monthlyRecords(res.Monthly)},
		{"yearly", yearlyHeaders, yearlyRecords(res.Yearly)},
	}

	for _, wr := range writes {
		name := fmt.Sprintf("%s_%s.csv", symbol, wr.suffix)
		if err := w.writeFile(name, wr.headers, wr.records); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

// writeFile writes one CSV with a UTF-8 BOM so spreadsheet tools
// detect the encoding.
func (w *CSVWriter) writeFile(name string, headers []string, records [][]string) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(w.dir, name)
	slog.Info("writing CSV export",
		"path", path,
		"records", len(records),
	)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}
	for i, record := range records {
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	return cw.Error()
}
