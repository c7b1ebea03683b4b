// Package ingest turns exchange-published files into the daily Bar
// series the pipeline consumes. It owns the messy side of the
// boundary: header alias normalization, multi-format date parsing,
// comma-grouped numerics, and the lenient defaulting of missing
// open/high/low cells to the close. The pipeline itself never
// re-validates what this package lets through.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"seasoncli/internal/quality"
	"seasoncli/internal/seasonality"
)

// Options configures a read.
type Options struct {
	// Symbol overrides or supplies the instrument symbol when the
	// file has no symbol column.
	Symbol string
	// Lenient defaults a missing or unparseable open/high/low cell
	// to the row's close instead of rejecting the row. Close and
	// date are always mandatory.
	Lenient bool
}

// Result carries the parsed series plus the row-level report of what
// was skipped or repaired. Callers decide whether a non-empty report
// blocks the batch.
type Result struct {
	Bars   []seasonality.Bar
	Report quality.RowReport
}

// ReadCSV parses a daily bar CSV. The header row is required; columns
// are matched after alias normalization. Rows that fail validation
// are skipped and reported, never fatal. The output is sorted
// ascending by date.
func ReadCSV(r io.Reader, opts Options) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return Result{}, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return Result{}, fmt.Errorf("empty csv input")
	}

	headers := records[0]
	if missing := quality.ValidateColumns(headers); len(missing) > 0 {
		if !opts.Lenient || contains(missing, "close") || !datePresent(headers) {
			return Result{}, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
		}
	}

	return buildBars(headers, records[1:], opts)
}

// ReadCSVFile opens and parses a daily bar CSV from disk.
func ReadCSVFile(path string, opts Options) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()

	res, err := ReadCSV(f, opts)
	if err != nil {
		return Result{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return res, nil
}

// buildBars converts validated raw records into sorted bars. It is
// shared by the CSV and workbook readers.
func buildBars(headers []string, records [][]string, opts Options) (Result, error) {
	idx := quality.ColumnIndex(headers)

	cell := func(record []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var res Result
	res.Report.Rows = len(records)

	for n, record := range records {
		row := n + 1
		if isBlank(record) {
			continue
		}

		date, err := quality.ParseDate(cell(record, "date"))
		if err != nil {
			res.Report.Issues = append(res.Report.Issues, quality.Issue{
				Row: row, Field: "date", Severity: quality.SeverityError,
				Message: err.Error(),
			})
			continue
		}

		close, err := quality.ParseNumber(cell(record, "close"))
		if err != nil {
			res.Report.Issues = append(res.Report.Issues, quality.Issue{
				Row: row, Field: "close", Severity: quality.SeverityError,
				Message: fmt.Sprintf("non-numeric close: %v", err),
			})
			continue
		}

		bar := seasonality.Bar{
			Date:   date,
			Symbol: opts.Symbol,
			Close:  close,
		}
		if s := strings.TrimSpace(cell(record, "symbol")); s != "" && opts.Symbol == "" {
			bar.Symbol = strings.ToUpper(s)
		}

		ok := true
		for _, col := range []string{"open", "high", "low"} {
			v, err := quality.ParseNumber(cell(record, col))
			if err != nil {
				if !opts.Lenient {
					res.Report.Issues = append(res.Report.Issues, quality.Issue{
						Row: row, Field: col, Severity: quality.SeverityError,
						Message: fmt.Sprintf("non-numeric %s: %v", col, err),
					})
					ok = false
					break
				}
				v = close
			}
			switch col {
			case "open":
				bar.Open = v
			case "high":
				bar.High = v
			case "low":
				bar.Low = v
			}
		}
		if !ok {
			continue
		}

		if bar.High < bar.Low {
			res.Report.Issues = append(res.Report.Issues, quality.Issue{
				Row: row, Field: "high", Severity: quality.SeverityError,
				Message: fmt.Sprintf("high %.4f below low %.4f", bar.High, bar.Low),
			})
			continue
		}

		if v, err := quality.ParseNumber(cell(record, "volume")); err == nil {
			bar.Volume = v
		}
		if v, err := quality.ParseNumber(cell(record, "open_interest")); err == nil {
			bar.OpenInterest = v
		}

		res.Bars = append(res.Bars, bar)
	}

	sort.Slice(res.Bars, func(i, j int) bool {
		return res.Bars[i].Date.Before(res.Bars[j].Date)
	})

	if len(res.Report.Issues) > 0 {
		slog.Warn("rows skipped during ingestion",
			"total_rows", res.Report.Rows,
			"skipped", len(res.Report.Errors()),
		)
	}

	return res, nil
}

func isBlank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func datePresent(headers []string) bool {
	for _, h := range headers {
		if quality.NormalizeColumn(h) == "date" {
			return true
		}
	}
	return false
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
