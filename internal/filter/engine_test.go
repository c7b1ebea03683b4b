package filter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seasoncli/internal/seasonality"
)

func bar(y int, m time.Month, d int, close float64) seasonality.Bar {
	return seasonality.Bar{
		Date:   time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Symbol: "TEST",
		Open:   close,
		High:   close + 1,
		Low:    close - 1,
		Close:  close,
		Volume: 100,
	}
}

// fixtureDays runs the real pipeline over a weekday series spanning
// 2014 through 2015 so the filters see genuine annotations.
func fixtureDays(t *testing.T) []seasonality.DayBar {
	t.Helper()

	var bars []seasonality.Bar
	d := time.Date(2014, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2015, time.December, 31, 0, 0, 0, 0, time.UTC)
	close := 100.0
	i := 0
	for !d.After(end) {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			close += float64((i%5)-2) * 0.4
			bars = append(bars, bar(d.Year(), d.Month(), d.Day(), close))
			i++
		}
		d = d.AddDate(0, 0, 1)
	}

	res := seasonality.NewPipeline(nil).Compute(context.Background(), bars)
	require.NotEmpty(t, res.Daily)
	return res.Daily
}

func TestApplyDateRange(t *testing.T) {
	days := fixtureDays(t)
	e := NewEngine(days)

	start := time.Date(2015, time.June, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2015, time.June, 30, 0, 0, 0, 0, time.UTC)
	e.ApplyDateRange(&DateRange{Start: start, End: end})

	require.NotEmpty(t, e.Current())
	for _, d := range e.Current() {
		assert.False(t, d.Date.Before(start))
		assert.False(t, d.Date.After(end))
	}
}

func TestApplyDateRangeOpenEnded(t *testing.T) {
	days := fixtureDays(t)
	e := NewEngine(days)

	start := time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
	e.ApplyDateRange(&DateRange{Start: start})
	for _, d := range e.Current() {
		assert.Equal(t, 2015, d.Date.Year())
	}
}

func TestApplyLastNDays(t *testing.T) {
	days := fixtureDays(t)
	e := NewEngine(days)

	e.ApplyLastNDays(10)
	require.Len(t, e.Current(), 10)
	assert.Equal(t, days[len(days)-10].Date, e.Current()[0].Date)

	// N larger than the view is a no-op.
	e.Reset().ApplyLastNDays(1 << 20)
	assert.Len(t, e.Current(), len(days))
}

func TestApplyYearFiltersElection(t *testing.T) {
	days := fixtureDays(t) // spans 2014 and 2015; 2014 is an election year
	e := NewEngine(days)

	e.ApplyYearFilters(&YearFilters{EvenOdd: SelectElection})
	require.NotEmpty(t, e.Current())
	for _, d := range e.Current() {
		assert.Equal(t, 2014, d.Date.Year())
	}
}

func TestApplyYearFiltersParityAndLeap(t *testing.T) {
	days := fixtureDays(t)
	e := NewEngine(days)

	e.ApplyYearFilters(&YearFilters{EvenOdd: SelectOdd})
	for _, d := range e.Current() {
		assert.Equal(t, 2015, d.Date.Year())
	}

	// Neither 2014 nor 2015 is a leap year.
	e.Reset().ApplyYearFilters(&YearFilters{EvenOdd: SelectLeap})
	assert.Empty(t, e.Current())
}

func TestApplyYearFiltersDecadeDigits(t *testing.T) {
	days := fixtureDays(t)

	// Digit 4 keeps 2014; digit 10 is the alias for digit 0 and
	// matches nothing in this range.
	e := NewEngine(days).ApplyYearFilters(&YearFilters{DecadeYears: []int{4}})
	require.NotEmpty(t, e.Current())
	for _, d := range e.Current() {
		assert.Equal(t, 2014, d.Date.Year())
	}

	e.Reset().ApplyYearFilters(&YearFilters{DecadeYears: []int{10}})
	assert.Empty(t, e.Current())

	// Digits 10 and 0 are interchangeable.
	e.Reset().ApplyYearFilters(&YearFilters{DecadeYears: []int{10, 4, 5}})
	withAlias := len(e.Current())
	e.Reset().ApplyYearFilters(&YearFilters{DecadeYears: []int{0, 4, 5}})
	assert.Equal(t, withAlias, len(e.Current()))
}

func TestApplyYearFiltersExplicitSet(t *testing.T) {
	days := fixtureDays(t)
	e := NewEngine(days).ApplyYearFilters(&YearFilters{Years: []int{2015}})
	require.NotEmpty(t, e.Current())
	for _, d := range e.Current() {
		assert.Equal(t, 2015, d.Date.Year())
	}
}

func TestApplyMonthFilters(t *testing.T) {
	days := fixtureDays(t)
	e := NewEngine(days)

	e.ApplyMonthFilters(&MonthFilters{Month: 7})
	require.NotEmpty(t, e.Current())
	for _, d := range e.Current() {
		assert.Equal(t, time.July, d.Date.Month())
	}

	e.Reset().ApplyMonthFilters(&MonthFilters{EvenOdd: SelectEven})
	for _, d := range e.Current() {
		assert.Zero(t, int(d.Date.Month())%2)
	}
}

func TestApplyWeekFilters(t *testing.T) {
	days := fixtureDays(t)
	e := NewEngine(days)

	e.ApplyWeekFilters(seasonality.WeekTypeMonday, &WeekFilters{MonthlyWeekNumber: 1})
	require.NotEmpty(t, e.Current())
	for _, d := range e.Current() {
		require.NotNil(t, d.MondayWeek)
		assert.Equal(t, 1, d.MondayWeek.WeekNumberMonthly)
	}

	e.Reset().ApplyWeekFilters(seasonality.WeekTypeExpiry, &WeekFilters{YearlyEvenOdd: SelectEven})
	for _, d := range e.Current() {
		require.NotNil(t, d.ExpiryWeek)
		assert.Zero(t, d.ExpiryWeek.WeekNumberYearly%2)
	}

	// Both week series are evaluated independently.
	e.Reset().
		ApplyWeekFilters(seasonality.WeekTypeExpiry, &WeekFilters{PositiveNegative: SelectPositive}).
		ApplyWeekFilters(seasonality.WeekTypeMonday, &WeekFilters{PositiveNegative: SelectNegative})
	for _, d := range e.Current() {
		assert.True(t, d.ExpiryWeek.Return.Positive)
		assert.False(t, d.MondayWeek.Return.Positive)
	}
}

func TestApplyDayFilters(t *testing.T) {
	days := fixtureDays(t)
	e := NewEngine(days)

	e.ApplyDayFilters(&DayFilters{Weekdays: []string{"Monday", "Friday"}})
	require.NotEmpty(t, e.Current())
	for _, d := range e.Current() {
		assert.Contains(t, []string{"Monday", "Friday"}, d.Weekday)
	}

	e.Reset().ApplyDayFilters(&DayFilters{PositiveNegative: SelectPositive})
	for _, d := range e.Current() {
		assert.True(t, d.Return.Positive)
	}

	e.Reset().ApplyDayFilters(&DayFilters{TradingMonthDays: []int{1}})
	for _, d := range e.Current() {
		assert.Equal(t, 1, d.TradingMonthDay)
	}

	e.Reset().ApplyDayFilters(&DayFilters{
		CalendarMonthDayEvenOdd: SelectOdd,
		TradingYearDayEvenOdd:   SelectEven,
	})
	for _, d := range e.Current() {
		assert.NotZero(t, d.CalendarMonthDay%2)
		assert.Zero(t, d.TradingYearDay%2)
	}
}

func TestApplyOutlierFiltersDaily(t *testing.T) {
	// One synthetic day with a 12% move; bounds [-5, 5] remove
	// exactly that row.
	bars := []seasonality.Bar{
		bar(2024, time.January, 1, 100),
		bar(2024, time.January, 2, 101),
		bar(2024, time.January, 3, 113.12), // +12%
		bar(2024, time.January, 4, 112),
	}
	res := seasonality.NewPipeline(nil).Compute(context.Background(), bars)
	require.InDelta(t, 12.0, res.Daily[2].Return.Percentage, 1e-9)

	e := NewEngine(res.Daily).ApplyOutlierFilters(&OutlierFilters{
		Daily: OutlierBounds{Enabled: true, Min: -5, Max: 5},
	})

	require.Len(t, e.Current(), 3)
	for _, d := range e.Current() {
		assert.NotEqual(t, time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC), d.Date)
	}
}

func TestApplyOutlierFiltersCoarseGranularities(t *testing.T) {
	days := fixtureDays(t)
	e := NewEngine(days)

	e.ApplyOutlierFilters(&OutlierFilters{
		Monthly: OutlierBounds{Enabled: true, Min: -2, Max: 2},
		Yearly:  OutlierBounds{Enabled: true, Min: -50, Max: 50},
	})
	for _, d := range e.Current() {
		if d.Month != nil {
			assert.GreaterOrEqual(t, d.Month.Return.Percentage, -2.0)
			assert.LessOrEqual(t, d.Month.Return.Percentage, 2.0)
		}
	}
}

func TestApplyElectionYearType(t *testing.T) {
	days := fixtureDays(t)
	e := NewEngine(days)

	e.ApplyElectionYearType(PostElectionYear)
	require.NotEmpty(t, e.Current())
	for _, d := range e.Current() {
		assert.Equal(t, 2015, d.Date.Year()) // 2014 was the election
	}

	// 2013 would be PreElection; nothing in range.
	e.Reset().ApplyElectionYearType(MidElectionYear)
	assert.Empty(t, e.Current())

	e.Reset().ApplyElectionYearType(ModernEraYear)
	assert.Len(t, e.Current(), len(days))
}

func TestApplyFiltersComposition(t *testing.T) {
	days := fixtureDays(t)
	e := NewEngine(days)

	cfg := Config{
		Years:  &YearFilters{EvenOdd: SelectEven},
		Months: &MonthFilters{Month: 3},
		Days:   &DayFilters{Weekdays: []string{"Wednesday"}},
	}
	e.ApplyFilters(cfg)

	require.NotEmpty(t, e.Current())
	for _, d := range e.Current() {
		assert.Equal(t, 2014, d.Date.Year())
		assert.Equal(t, time.March, d.Date.Month())
		assert.Equal(t, "Wednesday", d.Weekday)
	}
}

// ApplyFilters twice with the same config equals applying it once:
// it resets before every full application.
func TestApplyFiltersIdempotent(t *testing.T) {
	days := fixtureDays(t)
	e := NewEngine(days)

	cfg := Config{
		Years: &YearFilters{EvenOdd: SelectEven},
		Days:  &DayFilters{PositiveNegative: SelectPositive},
	}

	once := e.ApplyFilters(cfg).Current()
	twice := e.ApplyFilters(cfg).Current()
	assert.Equal(t, once, twice)
}

func TestApplyFiltersEmptyConfigIsIdentity(t *testing.T) {
	days := fixtureDays(t)
	e := NewEngine(days)
	e.ApplyFilters(Config{})
	assert.Len(t, e.Current(), len(days))
}

func TestApplyFiltersUnsatisfiable(t *testing.T) {
	days := fixtureDays(t)
	e := NewEngine(days)

	e.ApplyFilters(Config{
		Years:  &YearFilters{Years: []int{1999}},
		Months: &MonthFilters{Month: 2},
	})
	assert.Empty(t, e.Current())
}

func TestEngineDoesNotMutateInput(t *testing.T) {
	days := fixtureDays(t)
	firstDate := days[0].Date

	e := NewEngine(days)
	e.ApplyFilters(Config{Days: &DayFilters{Weekdays: []string{"Friday"}}})

	assert.Equal(t, firstDate, days[0].Date)
	assert.Len(t, days, cap(days))
}

func TestSummarize(t *testing.T) {
	days := fixtureDays(t)
	s := Summarize(days)

	assert.Equal(t, len(days), s.Count)
	assert.Equal(t, s.Count, s.PositiveCount+s.NegativeCount)
	assert.GreaterOrEqual(t, s.WinRate, 0.0)
	assert.LessOrEqual(t, s.WinRate, 1.0)
	assert.GreaterOrEqual(t, s.MaxGainPct, s.MaxLossPct)

	assert.Equal(t, Summary{}, Summarize(nil))
}
