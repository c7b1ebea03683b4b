// Package filter narrows an annotated daily series according to a
// declarative configuration. Every sub-filter is independently
// optional: an absent block, a zero value, or the explicit "All"
// sentinel all mean "keep everything". Unsatisfiable combinations
// yield an empty result, never an error.
package filter

import "time"

// Selection is the sentinel-aware enum shared by the filter families.
// Which constants are legal depends on the field: positive/negative
// fields accept All/Positive/Negative, parity fields accept
// All/Even/Odd, and the year parity field additionally accepts
// Leap and Election.
type Selection string

const (
	// SelectAll is the explicit no-op sentinel.
	SelectAll Selection = "All"
	// SelectPositive keeps rows whose controlling return is positive.
	SelectPositive Selection = "Positive"
	// SelectNegative keeps rows whose controlling return is not positive.
	SelectNegative Selection = "Negative"
	// SelectEven keeps rows whose controlling number is even.
	SelectEven Selection = "Even"
	// SelectOdd keeps rows whose controlling number is odd.
	SelectOdd Selection = "Odd"
	// SelectLeap keeps rows in Gregorian leap years (year family only).
	SelectLeap Selection = "Leap"
	// SelectElection keeps rows in general-election years (year family only).
	SelectElection Selection = "Election"
)

// active reports whether the selection actually constrains anything.
func (s Selection) active() bool {
	return s != "" && s != SelectAll
}

// ElectionYearType classifies a calendar year against the fixed
// general-election calendar. The cycle classifications (Election,
// PreElection, PostElection, MidElection) are mutually exclusive;
// ModernEra and Current are independent of the cycle.
type ElectionYearType string

const (
	ElectionAll      ElectionYearType = "All"
	ElectionYear     ElectionYearType = "Election"
	PreElectionYear  ElectionYearType = "PreElection"
	PostElectionYear ElectionYearType = "PostElection"
	MidElectionYear  ElectionYearType = "MidElection"
	ModernEraYear    ElectionYearType = "ModernEra"
	CurrentYear      ElectionYearType = "Current"
)

func (t ElectionYearType) active() bool {
	return t != "" && t != ElectionAll
}

// DateRange keeps rows with start <= date <= end. A zero boundary
// leaves that side open.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// YearFilters constrains rows by properties of their calendar year.
type YearFilters struct {
	// PositiveNegative selects on the owning year's return positivity.
	PositiveNegative Selection `json:"positive_negative,omitempty" validate:"omitempty,oneof=All Positive Negative"`
	// EvenOdd selects on the calendar year number: parity, leap
	// years, or election years.
	EvenOdd Selection `json:"even_odd,omitempty" validate:"omitempty,oneof=All Even Odd Leap Election"`
	// DecadeYears keeps years whose last digit is in the set.
	// Digit 10 is accepted as an alias for digit 0.
	DecadeYears []int `json:"decade_years,omitempty" validate:"omitempty,dive,min=0,max=10"`
	// Years keeps only the listed calendar years.
	Years []int `json:"years,omitempty"`
}

// MonthFilters constrains rows by properties of their calendar month.
type MonthFilters struct {
	PositiveNegative Selection `json:"positive_negative,omitempty" validate:"omitempty,oneof=All Positive Negative"`
	EvenOdd          Selection `json:"even_odd,omitempty" validate:"omitempty,oneof=All Even Odd"`
	// Month keeps only the given month (1..12); zero keeps all.
	Month int `json:"month,omitempty" validate:"omitempty,min=0,max=12"`
}

// WeekFilters constrains rows by their enclosing week's fields. The
// same shape serves both the Monday and expiry series; the engine is
// told which series to read when the filters are applied.
type WeekFilters struct {
	PositiveNegative  Selection `json:"positive_negative,omitempty" validate:"omitempty,oneof=All Positive Negative"`
	MonthlyEvenOdd    Selection `json:"monthly_even_odd,omitempty" validate:"omitempty,oneof=All Even Odd"`
	MonthlyWeekNumber int       `json:"monthly_week_number,omitempty" validate:"omitempty,min=0,max=6"`
	YearlyEvenOdd     Selection `json:"yearly_even_odd,omitempty" validate:"omitempty,oneof=All Even Odd"`
}

// DayFilters constrains rows by same-day fields.
type DayFilters struct {
	PositiveNegative        Selection `json:"positive_negative,omitempty" validate:"omitempty,oneof=All Positive Negative"`
	Weekdays                []string  `json:"weekdays,omitempty"`
	CalendarMonthDayEvenOdd Selection `json:"calendar_month_day_even_odd,omitempty" validate:"omitempty,oneof=All Even Odd"`
	CalendarYearDayEvenOdd  Selection `json:"calendar_year_day_even_odd,omitempty" validate:"omitempty,oneof=All Even Odd"`
	TradingMonthDayEvenOdd  Selection `json:"trading_month_day_even_odd,omitempty" validate:"omitempty,oneof=All Even Odd"`
	TradingYearDayEvenOdd   Selection `json:"trading_year_day_even_odd,omitempty" validate:"omitempty,oneof=All Even Odd"`
	TradingMonthDays        []int     `json:"trading_month_days,omitempty"`
	CalendarMonthDays       []int     `json:"calendar_month_days,omitempty"`
}

// OutlierBounds drops rows whose return percentage at one granularity
// falls outside [Min, Max]. Rows whose return at that granularity is
// undefined (a missing period context) always pass.
type OutlierBounds struct {
	Enabled bool    `json:"enabled"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// OutlierFilters carries one optional bound per granularity.
type OutlierFilters struct {
	Daily        OutlierBounds `json:"daily"`
	MondayWeekly OutlierBounds `json:"monday_weekly"`
	ExpiryWeekly OutlierBounds `json:"expiry_weekly"`
	Monthly      OutlierBounds `json:"monthly"`
	Yearly       OutlierBounds `json:"yearly"`
}

// Config is the full declarative filter specification. Every block is
// optional; a nil block is a no-op.
type Config struct {
	DateRange        *DateRange       `json:"date_range,omitempty"`
	LastNDays        int              `json:"last_n_days,omitempty" validate:"omitempty,min=0"`
	Years            *YearFilters     `json:"year_filters,omitempty"`
	Months           *MonthFilters    `json:"month_filters,omitempty"`
	MondayWeeks      *WeekFilters     `json:"monday_week_filters,omitempty"`
	ExpiryWeeks      *WeekFilters     `json:"expiry_week_filters,omitempty"`
	Days             *DayFilters      `json:"day_filters,omitempty"`
	Outliers         *OutlierFilters  `json:"outlier_filters,omitempty"`
	ElectionYearType ElectionYearType `json:"election_year_type,omitempty" validate:"omitempty,oneof=All Election PreElection PostElection MidElection ModernEra Current"`
}
