package ingest

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadWorkbook parses a daily bar series from an Excel workbook, the
// format exchanges publish bhavcopy archives in. When sheet is empty
// the reader scans the workbook for the first sheet whose header row
// provides the required columns after alias normalization.
func ReadWorkbook(path, sheet string, opts Options) (Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var sheets []string
	if sheet != "" {
		sheets = []string{sheet}
	} else {
		sheets = f.GetSheetList()
	}

	for _, name := range sheets {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) < 2 {
			continue
		}

		headerRow, ok := findHeaderRow(rows)
		if !ok {
			continue
		}

		return buildBars(rows[headerRow], rows[headerRow+1:], opts)
	}

	return Result{}, fmt.Errorf("no sheet with daily bar columns in %s", path)
}

// findHeaderRow scans the first few rows for one that looks like a
// bar header. Exchange workbooks often carry title banners above the
// actual table.
func findHeaderRow(rows [][]string) (int, bool) {
	limit := len(rows)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		text := strings.ToLower(strings.Join(rows[i], " "))
		if strings.Contains(text, "date") && strings.Contains(text, "close") {
			return i, true
		}
	}
	return 0, false
}
