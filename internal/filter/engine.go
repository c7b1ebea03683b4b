package filter

import (
	"seasoncli/internal/calendar"
	"seasoncli/internal/seasonality"
)

// Engine narrows an annotated daily series. It keeps the original
// input untouched and maintains a current view; every Apply method
// shrinks the view and returns the engine for chaining, and Reset
// restores the original. The input slice is never mutated.
type Engine struct {
	original []seasonality.DayBar
	current  []seasonality.DayBar
}

// NewEngine creates an engine over an annotated daily series.
func NewEngine(days []seasonality.DayBar) *Engine {
	return &Engine{original: days, current: days}
}

// Reset restores the current view to the original series.
func (e *Engine) Reset() *Engine {
	e.current = e.original
	return e
}

// Current returns the current filtered view.
func (e *Engine) Current() []seasonality.DayBar {
	return e.current
}

// Len returns the size of the current view.
func (e *Engine) Len() int {
	return len(e.current)
}

// keep replaces the current view with the rows satisfying pred.
func (e *Engine) keep(pred func(seasonality.DayBar) bool) *Engine {
	out := make([]seasonality.DayBar, 0, len(e.current))
	for _, d := range e.current {
		if pred(d) {
			out = append(out, d)
		}
	}
	e.current = out
	return e
}

// ApplyDateRange keeps rows with start <= date <= end. Zero
// boundaries leave that side open.
func (e *Engine) ApplyDateRange(r *DateRange) *Engine {
	if r == nil {
		return e
	}
	return e.keep(func(d seasonality.DayBar) bool {
		if !r.Start.IsZero() && d.Date.Before(r.Start) {
			return false
		}
		if !r.End.IsZero() && d.Date.After(r.End) {
			return false
		}
		return true
	})
}

// ApplyLastNDays keeps only the final n rows of the current view.
func (e *Engine) ApplyLastNDays(n int) *Engine {
	if n <= 0 || n >= len(e.current) {
		return e
	}
	e.current = e.current[len(e.current)-n:]
	return e
}

// ApplyYearFilters narrows by the year family.
func (e *Engine) ApplyYearFilters(f *YearFilters) *Engine {
	if f == nil {
		return e
	}

	if f.PositiveNegative.active() {
		positive := f.PositiveNegative == SelectPositive
		e.keep(func(d seasonality.DayBar) bool {
			return d.PositiveYear() == positive
		})
	}

	if f.EvenOdd.active() {
		mode := f.EvenOdd
		e.keep(func(d seasonality.DayBar) bool {
			year := d.Date.Year()
			switch mode {
			case SelectEven:
				return calendar.IsEven(year)
			case SelectOdd:
				return !calendar.IsEven(year)
			case SelectLeap:
				return calendar.IsLeapYear(year)
			case SelectElection:
				return isElectionYear(year)
			default:
				return true
			}
		})
	}

	if len(f.DecadeYears) > 0 {
		digits := make(map[int]bool, len(f.DecadeYears))
		for _, digit := range f.DecadeYears {
			// Digit 10 is the UI's alias for years ending in 0.
			digits[digit%10] = true
		}
		e.keep(func(d seasonality.DayBar) bool {
			return digits[d.Date.Year()%10]
		})
	}

	if len(f.Years) > 0 {
		years := make(map[int]bool, len(f.Years))
		for _, y := range f.Years {
			years[y] = true
		}
		e.keep(func(d seasonality.DayBar) bool {
			return years[d.Date.Year()]
		})
	}

	return e
}

// ApplyMonthFilters narrows by the month family.
func (e *Engine) ApplyMonthFilters(f *MonthFilters) *Engine {
	if f == nil {
		return e
	}

	if f.PositiveNegative.active() {
		positive := f.PositiveNegative == SelectPositive
		e.keep(func(d seasonality.DayBar) bool {
			return d.PositiveMonth() == positive
		})
	}

	if f.EvenOdd.active() {
		even := f.EvenOdd == SelectEven
		e.keep(func(d seasonality.DayBar) bool {
			return calendar.IsEven(int(d.Date.Month())) == even
		})
	}

	if f.Month >= 1 && f.Month <= 12 {
		e.keep(func(d seasonality.DayBar) bool {
			return int(d.Date.Month()) == f.Month
		})
	}

	return e
}

// ApplyWeekFilters narrows by one weekly series' fields. Rows missing
// the requested week context fail the active predicates.
func (e *Engine) ApplyWeekFilters(wt seasonality.WeekType, f *WeekFilters) *Engine {
	if f == nil {
		return e
	}

	if f.PositiveNegative.active() {
		positive := f.PositiveNegative == SelectPositive
		e.keep(func(d seasonality.DayBar) bool {
			w := d.Week(wt)
			got := w != nil && w.Return.Positive
			return got == positive
		})
	}

	if f.MonthlyEvenOdd.active() {
		even := f.MonthlyEvenOdd == SelectEven
		e.keep(func(d seasonality.DayBar) bool {
			w := d.Week(wt)
			return w != nil && calendar.IsEven(w.WeekNumberMonthly) == even
		})
	}

	if f.MonthlyWeekNumber > 0 {
		e.keep(func(d seasonality.DayBar) bool {
			w := d.Week(wt)
			return w != nil && w.WeekNumberMonthly == f.MonthlyWeekNumber
		})
	}

	if f.YearlyEvenOdd.active() {
		even := f.YearlyEvenOdd == SelectEven
		e.keep(func(d seasonality.DayBar) bool {
			w := d.Week(wt)
			return w != nil && calendar.IsEven(w.WeekNumberYearly) == even
		})
	}

	return e
}

// ApplyDayFilters narrows by same-day fields.
func (e *Engine) ApplyDayFilters(f *DayFilters) *Engine {
	if f == nil {
		return e
	}

	if f.PositiveNegative.active() {
		positive := f.PositiveNegative == SelectPositive
		e.keep(func(d seasonality.DayBar) bool {
			return d.Return.Positive == positive
		})
	}

	if len(f.Weekdays) > 0 {
		allowed := make(map[string]bool, len(f.Weekdays))
		for _, w := range f.Weekdays {
			allowed[w] = true
		}
		e.keep(func(d seasonality.DayBar) bool {
			return allowed[d.Weekday]
		})
	}

	parity := []struct {
		sel   Selection
		value func(seasonality.DayBar) int
	}{
		{f.CalendarMonthDayEvenOdd, func(d seasonality.DayBar) int { return d.CalendarMonthDay }},
		{f.CalendarYearDayEvenOdd, func(d seasonality.DayBar) int { return d.CalendarYearDay }},
		{f.TradingMonthDayEvenOdd, func(d seasonality.DayBar) int { return d.TradingMonthDay }},
		{f.TradingYearDayEvenOdd, func(d seasonality.DayBar) int { return d.TradingYearDay }},
	}
	for _, pf := range parity {
		if !pf.sel.active() {
			continue
		}
		even := pf.sel == SelectEven
		value := pf.value
		e.keep(func(d seasonality.DayBar) bool {
			return calendar.IsEven(value(d)) == even
		})
	}

	if len(f.TradingMonthDays) > 0 {
		days := intSet(f.TradingMonthDays)
		e.keep(func(d seasonality.DayBar) bool {
			return days[d.TradingMonthDay]
		})
	}

	if len(f.CalendarMonthDays) > 0 {
		days := intSet(f.CalendarMonthDays)
		e.keep(func(d seasonality.DayBar) bool {
			return days[d.CalendarMonthDay]
		})
	}

	return e
}

// ApplyOutlierFilters drops rows whose return percentage at an
// enabled granularity falls outside that granularity's bounds. A row
// with no context at that granularity has no defined return there and
// always passes.
func (e *Engine) ApplyOutlierFilters(f *OutlierFilters) *Engine {
	if f == nil {
		return e
	}

	if f.Daily.Enabled {
		bounds := f.Daily
		e.keep(func(d seasonality.DayBar) bool {
			return d.Return.Percentage >= bounds.Min && d.Return.Percentage <= bounds.Max
		})
	}

	weekly := []struct {
		bounds OutlierBounds
		wt     seasonality.WeekType
	}{
		{f.MondayWeekly, seasonality.WeekTypeMonday},
		{f.ExpiryWeekly, seasonality.WeekTypeExpiry},
	}
	for _, wf := range weekly {
		if !wf.bounds.Enabled {
			continue
		}
		bounds, wt := wf.bounds, wf.wt
		e.keep(func(d seasonality.DayBar) bool {
			w := d.Week(wt)
			if w == nil {
				return true
			}
			return w.Return.Percentage >= bounds.Min && w.Return.Percentage <= bounds.Max
		})
	}

	if f.Monthly.Enabled {
		bounds := f.Monthly
		e.keep(func(d seasonality.DayBar) bool {
			if d.Month == nil {
				return true
			}
			return d.Month.Return.Percentage >= bounds.Min && d.Month.Return.Percentage <= bounds.Max
		})
	}

	if f.Yearly.Enabled {
		bounds := f.Yearly
		e.keep(func(d seasonality.DayBar) bool {
			if d.Year == nil {
				return true
			}
			return d.Year.Return.Percentage >= bounds.Min && d.Year.Return.Percentage <= bounds.Max
		})
	}

	return e
}

// ApplyElectionYearType narrows by the election-cycle classification
// of each row's calendar year.
func (e *Engine) ApplyElectionYearType(t ElectionYearType) *Engine {
	if !t.active() {
		return e
	}
	return e.keep(func(d seasonality.DayBar) bool {
		return matchesElectionType(d.Date.Year(), t)
	})
}

// ApplyFilters resets to the original series and applies every family
// of the configuration in a fixed order. The net predicate is a
// conjunction, so the order only affects how many rows each later
// family has to scan.
func (e *Engine) ApplyFilters(cfg Config) *Engine {
	return e.Reset().
		ApplyDateRange(cfg.DateRange).
		ApplyLastNDays(cfg.LastNDays).
		ApplyYearFilters(cfg.Years).
		ApplyMonthFilters(cfg.Months).
		ApplyWeekFilters(seasonality.WeekTypeExpiry, cfg.ExpiryWeeks).
		ApplyWeekFilters(seasonality.WeekTypeMonday, cfg.MondayWeeks).
		ApplyDayFilters(cfg.Days).
		ApplyOutlierFilters(cfg.Outliers).
		ApplyElectionYearType(cfg.ElectionYearType)
}

func intSet(values []int) map[int]bool {
	set := make(map[int]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
