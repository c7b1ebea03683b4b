package quality

import (
	"math"
	"time"

	"seasoncli/internal/seasonality"
)

// DefaultGapThresholdDays tolerates weekends and short holiday runs
// between consecutive bars before a delta counts as a gap.
const DefaultGapThresholdDays = 5

// DefaultOutlierZScore is the z-score beyond which a day-over-day
// return is flagged.
const DefaultOutlierZScore = 3.0

// Duplicate reports a repeated (symbol, date) key with the positions
// of the first and the repeated occurrence.
type Duplicate struct {
	Symbol         string    `json:"symbol"`
	Date           time.Time `json:"date"`
	FirstIndex     int       `json:"first_index"`
	DuplicateIndex int       `json:"duplicate_index"`
}

// FindDuplicates scans a series for repeated (symbol, date) keys.
// Every repetition is reported, not just the first.
func FindDuplicates(bars []seasonality.Bar) []Duplicate {
	type key struct {
		symbol string
		date   time.Time
	}
	first := make(map[key]int, len(bars))

	var dups []Duplicate
	for i, b := range bars {
		k := key{b.Symbol, b.Date}
		if fi, ok := first[k]; ok {
			dups = append(dups, Duplicate{
				Symbol:         b.Symbol,
				Date:           b.Date,
				FirstIndex:     fi,
				DuplicateIndex: i,
			})
			continue
		}
		first[k] = i
	}
	return dups
}

// Gap is a run of calendar days between consecutive bars exceeding
// the caller's threshold.
type Gap struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
	Days int       `json:"days"`
}

// FindGaps reports consecutive-date deltas of a sorted series that
// exceed thresholdDays. Threshold values below one fall back to the
// default. Gaps are reported, never filled; see FillGaps for the
// explicit opt-in.
func FindGaps(bars []seasonality.Bar, thresholdDays int) []Gap {
	if thresholdDays < 1 {
		thresholdDays = DefaultGapThresholdDays
	}

	var gaps []Gap
	for i := 1; i < len(bars); i++ {
		delta := int(bars[i].Date.Sub(bars[i-1].Date).Hours() / 24)
		if delta > thresholdDays {
			gaps = append(gaps, Gap{
				From: bars[i-1].Date,
				To:   bars[i].Date,
				Days: delta,
			})
		}
	}
	return gaps
}

// FillMode selects how FillGaps synthesizes missing bars.
type FillMode string

const (
	// FillForward copies the previous bar's close into the missing
	// day's OHLC.
	FillForward FillMode = "forward"
	// FillBackward copies the next bar's close back into the missing
	// day's OHLC.
	FillBackward FillMode = "backward"
	// FillInterpolate linearly interpolates the close across the gap.
	FillInterpolate FillMode = "interpolate"
)

// FillGaps inserts synthetic bars for missing weekdays between
// consecutive bars of a sorted series. Synthetic bars carry zero
// volume and open interest so downstream aggregation never mistakes
// them for traded sessions. Weekends are never filled.
func FillGaps(bars []seasonality.Bar, mode FillMode) []seasonality.Bar {
	if len(bars) < 2 {
		return bars
	}

	out := make([]seasonality.Bar, 0, len(bars))
	out = append(out, bars[0])

	for i := 1; i < len(bars); i++ {
		prev, next := bars[i-1], bars[i]
		missing := weekdaysBetween(prev.Date, next.Date)

		for j, d := range missing {
			var close float64
			switch mode {
			case FillForward:
				close = prev.Close
			case FillBackward:
				close = next.Close
			case FillInterpolate:
				frac := float64(j+1) / float64(len(missing)+1)
				close = prev.Close + (next.Close-prev.Close)*frac
			default:
				continue
			}
			out = append(out, seasonality.Bar{
				Date:   d,
				Symbol: prev.Symbol,
				Open:   close,
				High:   close,
				Low:    close,
				Close:  close,
			})
		}
		out = append(out, next)
	}
	return out
}

// weekdaysBetween lists the weekdays strictly between two dates.
func weekdaysBetween(from, to time.Time) []time.Time {
	var days []time.Time
	for d := from.AddDate(0, 0, 1); d.Before(to); d = d.AddDate(0, 0, 1) {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			days = append(days, d)
		}
	}
	return days
}

// Outlier flags a day whose close-over-close return deviates from the
// series mean by more than the configured number of standard
// deviations.
type Outlier struct {
	Index     int       `json:"index"`
	Date      time.Time `json:"date"`
	ReturnPct float64   `json:"return_pct"`
	ZScore    float64   `json:"z_score"`
}

// FindReturnOutliers computes day-over-day close returns of a sorted
// series and flags those whose z-score against the series mean and
// standard deviation exceeds zThreshold. Thresholds at or below zero
// fall back to the default 3σ. Series too short for a meaningful
// deviation (fewer than three returns) report nothing.
func FindReturnOutliers(bars []seasonality.Bar, zThreshold float64) []Outlier {
	if zThreshold <= 0 {
		zThreshold = DefaultOutlierZScore
	}
	if len(bars) < 4 {
		return nil
	}

	returns := make([]float64, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		if bars[i-1].Close == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (bars[i].Close-bars[i-1].Close)/bars[i-1].Close*100)
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))
	stddev := math.Sqrt(variance)
	if stddev == 0 {
		return nil
	}

	var outliers []Outlier
	for i, r := range returns {
		z := (r - mean) / stddev
		if math.Abs(z) > zThreshold {
			outliers = append(outliers, Outlier{
				Index:     i + 1,
				Date:      bars[i+1].Date,
				ReturnPct: r,
				ZScore:    z,
			})
		}
	}
	return outliers
}
