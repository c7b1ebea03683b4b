package seasonality

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"seasoncli/internal/calendar"
)

// Pipeline derives the five annotated series from a raw daily series.
// Each run is a pure function of its input: every lookup map is built
// fresh per invocation so parallel runs for different instruments
// never share state.
type Pipeline struct {
	logger *slog.Logger
}

// NewPipeline creates a pipeline. A nil logger falls back to
// slog.Default.
func NewPipeline(logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{logger: logger}
}

// Compute runs the full derivation over a daily series sorted
// ascending by date. Sorting is the caller's contract; the pipeline
// only deduplicates repeated dates (first occurrence wins) before
// aggregating. An empty input yields five empty series, not an error.
//
// The five steps run bottom-up: yearly rows first, then monthly rows
// which inherit year context, then both weekly series which inherit
// month and year context, then daily rows which inherit all four,
// and finally the sequential trading-day numbering pass.
func (p *Pipeline) Compute(ctx context.Context, bars []Bar) Result {
	start := time.Now()

	bars = deduplicateByDate(bars)
	if len(bars) == 0 {
		return Result{}
	}

	p.logger.DebugContext(ctx, "starting seasonality pipeline",
		"symbol", bars[0].Symbol,
		"daily_bars", len(bars),
	)

	yearly, yearLookup := p.deriveYearly(bars)
	monthly, monthLookup := p.deriveMonthly(bars, yearLookup)
	mondayWeekly, mondayLookup := p.deriveWeekly(bars, WeekTypeMonday, monthLookup, yearLookup)
	expiryWeekly, expiryLookup := p.deriveWeekly(bars, WeekTypeExpiry, monthLookup, yearLookup)
	daily := p.deriveDaily(bars, mondayLookup, expiryLookup, monthLookup, yearLookup)
	numberTradingDays(daily)

	p.logger.InfoContext(ctx, "seasonality pipeline completed",
		"symbol", bars[0].Symbol,
		"daily", len(daily),
		"monday_weeks", len(mondayWeekly),
		"expiry_weeks", len(expiryWeekly),
		"months", len(monthly),
		"years", len(yearly),
		"duration", time.Since(start),
	)

	return Result{
		Daily:        daily,
		MondayWeekly: mondayWeekly,
		ExpiryWeekly: expiryWeekly,
		Monthly:      monthly,
		Yearly:       yearly,
	}
}

// deriveYearly aggregates and annotates the yearly series and returns
// it with a year → row lookup for the finer granularities.
func (p *Pipeline) deriveYearly(bars []Bar) ([]YearBar, map[int]YearBar) {
	aggs := AggregateYearly(bars)

	yearly := make([]YearBar, 0, len(aggs))
	lookup := make(map[int]YearBar, len(aggs))

	prevClose := 0.0
	for i, agg := range aggs {
		yb := YearBar{
			Bar:      agg,
			EvenYear: calendar.IsEven(agg.Date.Year()),
		}
		if i > 0 {
			yb.Return = returnFrom(agg.Close, prevClose)
		}
		prevClose = agg.Close

		yearly = append(yearly, yb)
		lookup[agg.Date.Year()] = yb
	}
	return yearly, lookup
}

// deriveMonthly aggregates and annotates the monthly series, copying
// in each month's owning-year context.
func (p *Pipeline) deriveMonthly(bars []Bar, years map[int]YearBar) ([]MonthBar, map[string]MonthBar) {
	aggs := AggregateMonthly(bars)

	monthly := make([]MonthBar, 0, len(aggs))
	lookup := make(map[string]MonthBar, len(aggs))

	prevClose := 0.0
	for i, agg := range aggs {
		mb := MonthBar{
			Bar:       agg,
			EvenMonth: calendar.IsEven(int(agg.Date.Month())),
		}
		if i > 0 {
			mb.Return = returnFrom(agg.Close, prevClose)
		}
		prevClose = agg.Close

		if yb, ok := years[agg.Date.Year()]; ok {
			mb.Year = yb.context()
		}

		monthly = append(monthly, mb)
		lookup[yearMonthKey(agg.Date)] = mb
	}
	return monthly, lookup
}

// deriveWeekly aggregates and annotates one weekly series. Week
// numbers are sequential over the buckets actually present: the
// monthly counter restarts on a month change, the yearly counter on a
// year change. Gapped weeks therefore never skip numbers.
func (p *Pipeline) deriveWeekly(bars []Bar, wt WeekType, months map[string]MonthBar, years map[int]YearBar) ([]WeekBar, map[time.Time]WeekBar) {
	var aggs []Bar
	if wt == WeekTypeExpiry {
		aggs = AggregateExpiryWeekly(bars)
	} else {
		aggs = AggregateMondayWeekly(bars)
	}

	weekly := make([]WeekBar, 0, len(aggs))
	lookup := make(map[time.Time]WeekBar, len(aggs))

	prevClose := 0.0
	weekOfMonth, weekOfYear := 0, 0
	var prevMonth time.Month
	prevYear := 0

	for i, agg := range aggs {
		if agg.Date.Year() != prevYear {
			weekOfYear = 1
		} else {
			weekOfYear++
		}
		if agg.Date.Year() != prevYear || agg.Date.Month() != prevMonth {
			weekOfMonth = 1
		} else {
			weekOfMonth++
		}
		prevYear, prevMonth = agg.Date.Year(), agg.Date.Month()

		wb := WeekBar{
			Bar:               agg,
			WeekType:          wt,
			WeekNumberMonthly: weekOfMonth,
			WeekNumberYearly:  weekOfYear,
		}
		if i > 0 {
			wb.Return = returnFrom(agg.Close, prevClose)
		}
		prevClose = agg.Close

		if mb, ok := months[yearMonthKey(agg.Date)]; ok {
			wb.Month = mb.context()
		}
		if yb, ok := years[agg.Date.Year()]; ok {
			wb.Year = yb.context()
		}

		weekly = append(weekly, wb)
		lookup[agg.Date] = wb
	}
	return weekly, lookup
}

// deriveDaily annotates every daily bar with its same-day fields and
// the enclosing period contexts. A lookup miss leaves the context
// pointer nil instead of failing; the aggregation order makes misses
// unreachable in practice but a malformed key must not take down a
// whole run.
func (p *Pipeline) deriveDaily(
	bars []Bar,
	mondayWeeks, expiryWeeks map[time.Time]WeekBar,
	months map[string]MonthBar,
	years map[int]YearBar,
) []DayBar {
	daily := make([]DayBar, 0, len(bars))

	prevClose := 0.0
	for i, b := range bars {
		monthDay := calendar.DayOfMonth(b.Date)
		yearDay := calendar.DayOfYear(b.Date)

		db := DayBar{
			Bar:                  b,
			Weekday:              calendar.WeekdayName(b.Date),
			CalendarMonthDay:     monthDay,
			CalendarYearDay:      yearDay,
			EvenCalendarMonthDay: calendar.IsEven(monthDay),
			EvenCalendarYearDay:  calendar.IsEven(yearDay),
		}
		if i > 0 {
			db.Return = returnFrom(b.Close, prevClose)
		}
		prevClose = b.Close

		if wb, ok := mondayWeeks[mondayWeekKey(b.Date)]; ok {
			wc := wb.context()
			db.MondayWeek = &wc
		}
		if wb, ok := expiryWeeks[expiryWeekKey(b.Date)]; ok {
			wc := wb.context()
			db.ExpiryWeek = &wc
		}
		if mb, ok := months[yearMonthKey(b.Date)]; ok {
			mc := mb.context()
			db.Month = &mc
		}
		if yb, ok := years[b.Date.Year()]; ok {
			yc := yb.context()
			db.Year = &yc
		}

		daily = append(daily, db)
	}
	return daily
}

// numberTradingDays assigns the sequential trading-day counters in a
// second pass over the annotated days. The counters track days
// actually present in the series, restarting at 1 whenever the
// (year, month) or year run changes, so holidays and halts never
// leave holes.
func numberTradingDays(daily []DayBar) {
	monthDay, yearDay := 0, 0
	var prevMonth time.Month
	prevYear := 0

	for i := range daily {
		d := daily[i].Date
		if d.Year() != prevYear {
			yearDay = 1
		} else {
			yearDay++
		}
		if d.Year() != prevYear || d.Month() != prevMonth {
			monthDay = 1
		} else {
			monthDay++
		}
		prevYear, prevMonth = d.Year(), d.Month()

		daily[i].TradingMonthDay = monthDay
		daily[i].TradingYearDay = yearDay
		daily[i].EvenTradingMonthDay = calendar.IsEven(monthDay)
		daily[i].EvenTradingYearDay = calendar.IsEven(yearDay)
	}
}

// yearMonthKey builds the "YYYY-MM" lookup key for a date's month.
func yearMonthKey(date time.Time) string {
	return fmt.Sprintf("%04d-%02d", date.Year(), int(date.Month()))
}
