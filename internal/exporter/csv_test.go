package exporter

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seasoncli/internal/seasonality"
)

func fixtureResult(t *testing.T) seasonality.Result {
	t.Helper()
	var bars []seasonality.Bar
	d := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	close := 100.0
	for i := 0; i < 40; i++ {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			close += float64((i%3)-1) * 0.5
			bars = append(bars, seasonality.Bar{
				Date: d, Symbol: "NIFTY",
				Open: close, High: close + 1, Low: close - 1, Close: close,
				Volume: 100,
			})
		}
		d = d.AddDate(0, 0, 1)
	}
	return seasonality.NewPipeline(nil).Compute(context.Background(), bars)
}

func TestWriteResult(t *testing.T) {
	dir := t.TempDir()
	res := fixtureResult(t)

	require.NoError(t, NewCSVWriter(dir).WriteResult("NIFTY", res))

	for _, name := range []string{
		"NIFTY_daily.csv",
		"NIFTY_weekly_monday.csv",
		"NIFTY_weekly_expiry.csv",
		"NIFTY_monthly.csv",
		"NIFTY_yearly.csv",
	} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.True(t, strings.HasPrefix(string(data), "\xEF\xBB\xBF"), "%s missing BOM", name)
	}

	// Daily file has a header plus one row per day, and column counts
	// agree across rows.
	f, err := os.Open(filepath.Join(dir, "NIFTY_daily.csv"))
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(res.Daily)+1)
	for _, rec := range records {
		assert.Len(t, rec, len(records[0]))
	}
}

func TestDailyRecordsMissingContext(t *testing.T) {
	day := seasonality.DayBar{
		Bar: seasonality.Bar{
			Date:   time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC),
			Symbol: "X",
			Close:  10,
		},
		Weekday: "Tuesday",
	}

	rows := dailyRecords([]seasonality.DayBar{day})
	require.Len(t, rows, 1)
	require.Len(t, rows[0], len(dailyHeaders))

	// Context returns export as empty cells when the lookup missed.
	last := rows[0][len(rows[0])-12:]
	for _, cell := range last {
		assert.Empty(t, cell)
	}
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "13.40", formatFloat(13.4))
	assert.Equal(t, "2.9412", formatPct(2.94117647))
	assert.Equal(t, "true", formatBool(true))
	assert.Equal(t, "7", formatInt(7))
}
