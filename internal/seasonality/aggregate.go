package seasonality

import (
	"sort"
	"time"

	"seasoncli/internal/calendar"
)

// Bucket key functions. Each maps a daily bar's date to the canonical
// date of the period that owns it. The daily annotation step recomputes
// the same keys when it joins days back to their aggregates, so these
// are the single source of truth for period membership.

func mondayWeekKey(date time.Time) time.Time {
	return calendar.MondayWeekStart(date)
}

// expiryWeekKey stamps a Thursday bar to its own date: the Thursday
// session settles the expiry it trades into. Every other weekday uses
// the boundary function, which by convention maps Fridays six days
// forward into the next settlement week.
func expiryWeekKey(date time.Time) time.Time {
	if date.Weekday() == time.Thursday {
		return date
	}
	return calendar.ExpiryWeekEnd(date)
}

func monthKey(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func yearKey(date time.Time) time.Time {
	return time.Date(date.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
}

// aggregate partitions a sorted daily series into buckets via key and
// reduces each bucket to its OHLCV summary: first open, max high,
// min low, last close, summed volume, last open interest. Buckets
// with no bars are never emitted. The input order is trusted; the
// output is sorted by bucket date.
func aggregate(bars []Bar, key func(time.Time) time.Time) []Bar {
	if len(bars) == 0 {
		return nil
	}

	buckets := make(map[time.Time]*Bar, len(bars)/4+1)
	order := make([]time.Time, 0, len(bars)/4+1)

	for _, b := range bars {
		k := key(b.Date)
		agg, ok := buckets[k]
		if !ok {
			buckets[k] = &Bar{
				Date:         k,
				Symbol:       b.Symbol,
				Open:         b.Open,
				High:         b.High,
				Low:          b.Low,
				Close:        b.Close,
				Volume:       b.Volume,
				OpenInterest: b.OpenInterest,
			}
			order = append(order, k)
			continue
		}
		if b.High > agg.High {
			agg.High = b.High
		}
		if b.Low < agg.Low {
			agg.Low = b.Low
		}
		agg.Close = b.Close
		agg.Volume += b.Volume
		agg.OpenInterest = b.OpenInterest
	}

	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })

	out := make([]Bar, 0, len(order))
	for _, k := range order {
		out = append(out, *buckets[k])
	}
	return out
}

// AggregateMondayWeekly reduces a sorted daily series into
// Monday-anchored weekly aggregates.
func AggregateMondayWeekly(bars []Bar) []Bar {
	return aggregate(bars, mondayWeekKey)
}

// AggregateExpiryWeekly reduces a sorted daily series into
// Thursday-expiry weekly aggregates.
func AggregateExpiryWeekly(bars []Bar) []Bar {
	return aggregate(bars, expiryWeekKey)
}

// AggregateMonthly reduces a sorted daily series into monthly
// aggregates dated at the first of each month.
func AggregateMonthly(bars []Bar) []Bar {
	return aggregate(bars, monthKey)
}

// AggregateYearly reduces a sorted daily series into yearly aggregates
// dated at January 1st.
func AggregateYearly(bars []Bar) []Bar {
	return aggregate(bars, yearKey)
}

// deduplicateByDate drops repeated dates from a sorted daily series,
// keeping the first occurrence. Upstream storage upserts by
// (symbol, date), so duplicates only appear when a caller feeds raw
// unreconciled rows straight into the pipeline.
func deduplicateByDate(bars []Bar) []Bar {
	if len(bars) == 0 {
		return nil
	}
	seen := make(map[time.Time]bool, len(bars))
	out := make([]Bar, 0, len(bars))
	for _, b := range bars {
		if seen[b.Date] {
			continue
		}
		seen[b.Date] = true
		out = append(out, b)
	}
	return out
}
