// Package quality implements the pre-ingestion data quality checks:
// column and row validation over raw tabular records, duplicate and
// gap detection over parsed daily bars, and statistical return
// outlier detection. Every check is pure and returns a structured
// report; nothing here panics or aborts a batch, so callers can
// decide per-report whether to proceed with partial data.
package quality

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Severity grades a validation issue. Errors mark rows that must not
// reach the pipeline; warnings flag suspect values the pipeline will
// accept as-is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one row-level validation finding.
type Issue struct {
	Row      int      `json:"row"`
	Field    string   `json:"field"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// RowReport collects the findings of a row validation pass.
type RowReport struct {
	Rows   int     `json:"rows"`
	Issues []Issue `json:"issues"`
}

// Errors returns only the hard errors of the report.
func (r RowReport) Errors() []Issue {
	var out []Issue
	for _, is := range r.Issues {
		if is.Severity == SeverityError {
			out = append(out, is)
		}
	}
	return out
}

// HasErrors reports whether any hard error was found.
func (r RowReport) HasErrors() bool {
	for _, is := range r.Issues {
		if is.Severity == SeverityError {
			return true
		}
	}
	return false
}

// columnAliases maps vendor spellings onto the canonical column
// names. Normalization lowercases and strips spaces and underscores
// before the alias lookup.
var columnAliases = map[string]string{
	"ticker":        "symbol",
	"tradingsymbol": "symbol",
	"scrip":         "symbol",
	"timestamp":     "date",
	"tradedate":     "date",
	"oi":            "open_interest",
	"openinterest":  "open_interest",
	"openint":       "open_interest",
	"vol":           "volume",
	"totalvolume":   "volume",
	"qty":           "volume",
	"adjclose":      "close",
	"closeprice":    "close",
	"openprice":     "open",
	"highprice":     "high",
	"lowprice":      "low",
}

// requiredColumns are the canonical columns a daily bar file must
// provide after alias normalization.
var requiredColumns = []string{"date", "open", "high", "low", "close", "volume"}

// NormalizeColumn maps a raw header cell to its canonical column name.
func NormalizeColumn(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, " ", "")
	key = strings.ReplaceAll(key, "_", "")
	if canonical, ok := columnAliases[key]; ok {
		return canonical
	}
	// Canonical open_interest survives normalization of its own name.
	if key == "openinterest" {
		return "open_interest"
	}
	return key
}

// ValidateColumns normalizes the header row and returns the set of
// required columns it is missing, in canonical order. An empty result
// means the header is usable.
func ValidateColumns(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[NormalizeColumn(h)] = true
	}

	var missing []string
	for _, col := range requiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

// ColumnIndex maps canonical column names to their position in the
// header row.
func ColumnIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		name := NormalizeColumn(h)
		if _, ok := idx[name]; !ok {
			idx[name] = i
		}
	}
	return idx
}

// dateLayouts are the date spellings accepted during validation,
// matching what the ingest readers parse.
var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"2006/01/02",
	"02-Jan-2006",
	"2006-01-02 15:04:05",
}

// ParseDate parses a date cell against the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// ParseNumber parses a numeric cell, tolerating thousands separators.
func ParseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "-" {
		return 0, fmt.Errorf("empty numeric cell")
	}
	return strconv.ParseFloat(s, 64)
}

// ValidateRows checks every record against the row rules: the date
// must parse, the OHLC cells must be numeric, high below low is a
// hard error, and an open or close outside [low, high] is a warning
// only. Row numbers in the report are 1-based data rows (the header
// is row 0).
func ValidateRows(headers []string, records [][]string) RowReport {
	idx := ColumnIndex(headers)
	report := RowReport{Rows: len(records)}

	cell := func(record []string, col string) (string, bool) {
		i, ok := idx[col]
		if !ok || i >= len(record) {
			return "", false
		}
		return record[i], true
	}

	for n, record := range records {
		row := n + 1

		if raw, ok := cell(record, "date"); ok {
			if _, err := ParseDate(raw); err != nil {
				report.Issues = append(report.Issues, Issue{
					Row: row, Field: "date", Severity: SeverityError,
					Message: err.Error(),
				})
			}
		}

		values := make(map[string]float64, 4)
		numericOK := true
		for _, col := range []string{"open", "high", "low", "close"} {
			raw, ok := cell(record, col)
			if !ok {
				continue
			}
			v, err := ParseNumber(raw)
			if err != nil {
				numericOK = false
				report.Issues = append(report.Issues, Issue{
					Row: row, Field: col, Severity: SeverityError,
					Message: fmt.Sprintf("non-numeric %s %q", col, strings.TrimSpace(raw)),
				})
				continue
			}
			values[col] = v
		}

		if !numericOK {
			continue
		}

		high, hasHigh := values["high"]
		low, hasLow := values["low"]
		if hasHigh && hasLow && high < low {
			report.Issues = append(report.Issues, Issue{
				Row: row, Field: "high", Severity: SeverityError,
				Message: fmt.Sprintf("high %.4f below low %.4f", high, low),
			})
			continue
		}

		for _, col := range []string{"open", "close"} {
			v, ok := values[col]
			if !ok || !hasHigh || !hasLow {
				continue
			}
			if v > high || v < low {
				report.Issues = append(report.Issues, Issue{
					Row: row, Field: col, Severity: SeverityWarning,
					Message: fmt.Sprintf("%s %.4f outside [%.4f, %.4f]", col, v, low, high),
				})
			}
		}
	}

	return report
}
