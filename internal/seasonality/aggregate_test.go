package seasonality

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int, close float64) Bar {
	return Bar{
		Date:         time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Symbol:       "TEST",
		Open:         close - 1,
		High:         close + 2,
		Low:          close - 2,
		Close:        close,
		Volume:       1000,
		OpenInterest: 500,
	}
}

func TestAggregateReduction(t *testing.T) {
	// One calendar week: Mon 2024-01-01 through Fri 2024-01-05.
	bars := []Bar{
		day(2024, time.January, 1, 100),
		day(2024, time.January, 2, 104),
		day(2024, time.January, 3, 98),
		day(2024, time.January, 4, 101),
		day(2024, time.January, 5, 103),
	}

	weeks := AggregateMondayWeekly(bars)
	require.Len(t, weeks, 1)

	w := weeks[0]
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), w.Date)
	assert.Equal(t, 99.0, w.Open)    // first bar's open
	assert.Equal(t, 106.0, w.High)   // max high (104+2)
	assert.Equal(t, 96.0, w.Low)     // min low (98-2)
	assert.Equal(t, 103.0, w.Close)  // last bar's close
	assert.Equal(t, 5000.0, w.Volume)
	assert.Equal(t, 500.0, w.OpenInterest)
}

func TestAggregateExpiryWeekly(t *testing.T) {
	// Thu 2024-01-04 settles its own week; Fri 2024-01-05 opens the
	// next settlement week ending Thu 2024-01-11.
	bars := []Bar{
		day(2024, time.January, 3, 100), // Wednesday
		day(2024, time.January, 4, 101), // Thursday
		day(2024, time.January, 5, 102), // Friday
		day(2024, time.January, 8, 103), // Monday
	}

	weeks := AggregateExpiryWeekly(bars)
	require.Len(t, weeks, 2)

	assert.Equal(t, time.Date(2024, time.January, 4, 0, 0, 0, 0, time.UTC), weeks[0].Date)
	assert.Equal(t, 101.0, weeks[0].Close)
	assert.Equal(t, time.Date(2024, time.January, 11, 0, 0, 0, 0, time.UTC), weeks[1].Date)
	assert.Equal(t, 103.0, weeks[1].Close)
}

func TestAggregateMonthlyAndYearly(t *testing.T) {
	bars := []Bar{
		day(2023, time.December, 29, 95),
		day(2024, time.January, 2, 100),
		day(2024, time.January, 31, 104),
		day(2024, time.February, 1, 99),
	}

	months := AggregateMonthly(bars)
	require.Len(t, months, 3)
	assert.Equal(t, time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC), months[0].Date)
	assert.Equal(t, 104.0, months[1].Close)

	years := AggregateYearly(bars)
	require.Len(t, years, 2)
	assert.Equal(t, 95.0, years[0].Close)
	assert.Equal(t, 99.0, years[1].Close)
	assert.Equal(t, 3000.0, years[1].Volume)
}

func TestAggregateEmptyInput(t *testing.T) {
	assert.Empty(t, AggregateMondayWeekly(nil))
	assert.Empty(t, AggregateMonthly([]Bar{}))
}

// The OHLCV reduction is associative: aggregating yearly straight from
// daily bars must equal aggregating yearly from the monthly aggregates.
func TestAggregateRoundTrip(t *testing.T) {
	var bars []Bar
	d := time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC)
	close := 100.0
	for len(bars) < 260 {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			close += float64((len(bars)%7)-3) * 0.8
			bars = append(bars, day(d.Year(), d.Month(), d.Day(), close))
		}
		d = d.AddDate(0, 0, 1)
	}

	direct := AggregateYearly(bars)
	viaMonthly := AggregateYearly(AggregateMonthly(bars))

	require.Equal(t, len(direct), len(viaMonthly))
	for i := range direct {
		assert.Equal(t, direct[i].Date, viaMonthly[i].Date)
		assert.InDelta(t, direct[i].Open, viaMonthly[i].Open, 1e-9)
		assert.InDelta(t, direct[i].High, viaMonthly[i].High, 1e-9)
		assert.InDelta(t, direct[i].Low, viaMonthly[i].Low, 1e-9)
		assert.InDelta(t, direct[i].Close, viaMonthly[i].Close, 1e-9)
		assert.InDelta(t, direct[i].Volume, viaMonthly[i].Volume, 1e-9)
	}
}

func TestDeduplicateByDate(t *testing.T) {
	b1 := day(2024, time.January, 2, 100)
	b2 := day(2024, time.January, 2, 200) // duplicate date, later row loses
	b3 := day(2024, time.January, 3, 101)

	out := deduplicateByDate([]Bar{b1, b2, b3})
	require.Len(t, out, 2)
	assert.Equal(t, 100.0, out[0].Close)
	assert.Equal(t, 101.0, out[1].Close)
}
