package seasonality

import (
	"time"
)

// WeekType distinguishes the two weekly series the pipeline produces:
// Monday-anchored calendar weeks and Thursday-anchored expiry weeks.
type WeekType string

const (
	// WeekTypeMonday keys a week by the Monday that starts it.
	WeekTypeMonday WeekType = "monday"
	// WeekTypeExpiry keys a week by the Thursday that settles it.
	WeekTypeExpiry WeekType = "expiry"
)

// String returns the string representation of the week type.
func (wt WeekType) String() string {
	return string(wt)
}

// Bar is one period's OHLCV record for an instrument. At daily
// granularity there is exactly one Bar per (symbol, date); aggregated
// granularities reuse the same shape with Date set to the bucket key.
type Bar struct {
	Date         time.Time `json:"date"`
	Symbol       string    `json:"symbol"`
	Open         float64   `json:"open"`
	High         float64   `json:"high"`
	Low          float64   `json:"low"`
	Close        float64   `json:"close"`
	Volume       float64   `json:"volume"`
	OpenInterest float64   `json:"open_interest"`
}

// IsValid checks the structural OHLC invariant. High below low is the
// only hard violation; open or close outside [low, high] is tolerated
// here and reported as a warning by the quality package.
func (b Bar) IsValid() bool {
	return !b.Date.IsZero() && b.High >= b.Low
}

// Return is the change of a bucket's close against the immediately
// preceding bucket of the same granularity. The first bucket of a
// series has no predecessor and keeps the zero value.
type Return struct {
	Points     float64 `json:"return_points"`
	Percentage float64 `json:"return_percentage"`
	Positive   bool    `json:"positive"`
}

// returnFrom computes the return of close against prevClose.
// A zero prevClose yields a zero return rather than an infinity.
func returnFrom(close, prevClose float64) Return {
	if prevClose == 0 {
		return Return{}
	}
	points := close - prevClose
	return Return{
		Points:     points,
		Percentage: points / prevClose * 100,
		Positive:   points > 0,
	}
}

// YearContext is the slice of a yearly row copied onto finer
// granularities enclosed by that year.
type YearContext struct {
	EvenYear bool   `json:"even_year"`
	Return   Return `json:"year_return"`
}

// MonthContext is the slice of a monthly row copied onto finer
// granularities enclosed by that month.
type MonthContext struct {
	EvenMonth bool   `json:"even_month"`
	Return    Return `json:"month_return"`
}

// WeekContext is the slice of a weekly row copied onto the daily rows
// inside that week.
type WeekContext struct {
	WeekNumberMonthly int    `json:"week_number_monthly"`
	WeekNumberYearly  int    `json:"week_number_yearly"`
	Return            Return `json:"week_return"`
}

// YearBar is one year's aggregate with its derived fields.
type YearBar struct {
	Bar
	EvenYear bool   `json:"even_year"`
	Return   Return `json:"return"`
}

func (yb YearBar) context() YearContext {
	return YearContext{EvenYear: yb.EvenYear, Return: yb.Return}
}

// MonthBar is one month's aggregate with its derived fields plus the
// owning year's context.
type MonthBar struct {
	Bar
	EvenMonth bool        `json:"even_month"`
	Return    Return      `json:"return"`
	Year      YearContext `json:"year"`
}

func (mb MonthBar) context() MonthContext {
	return MonthContext{EvenMonth: mb.EvenMonth, Return: mb.Return}
}

// WeekBar is one trading week's aggregate. The same type serves both
// weekly series; WeekType carries which boundary rule keyed it.
type WeekBar struct {
	Bar
	WeekType          WeekType     `json:"week_type"`
	WeekNumberMonthly int          `json:"week_number_monthly"`
	WeekNumberYearly  int          `json:"week_number_yearly"`
	Return            Return       `json:"return"`
	Month             MonthContext `json:"month"`
	Year              YearContext  `json:"year"`
}

func (wb WeekBar) context() WeekContext {
	return WeekContext{
		WeekNumberMonthly: wb.WeekNumberMonthly,
		WeekNumberYearly:  wb.WeekNumberYearly,
		Return:            wb.Return,
	}
}

// DayBar is one trading day with every derived field the pipeline
// computes: same-day calendar position, sequential trading-day
// position, the daily return, and the enclosing week/month/year
// contexts. The context pointers are nil when the corresponding
// aggregate row could not be found; consumers treat nil as
// zero/false defaults and never fail on it.
type DayBar struct {
	Bar
	Weekday              string `json:"weekday"`
	CalendarMonthDay     int    `json:"calendar_month_day"`
	CalendarYearDay      int    `json:"calendar_year_day"`
	EvenCalendarMonthDay bool   `json:"even_calendar_month_day"`
	EvenCalendarYearDay  bool   `json:"even_calendar_year_day"`
	TradingMonthDay      int    `json:"trading_month_day"`
	TradingYearDay       int    `json:"trading_year_day"`
	EvenTradingMonthDay  bool   `json:"even_trading_month_day"`
	EvenTradingYearDay   bool   `json:"even_trading_year_day"`
	Return               Return `json:"return"`

	MondayWeek *WeekContext  `json:"monday_week,omitempty"`
	ExpiryWeek *WeekContext  `json:"expiry_week,omitempty"`
	Month      *MonthContext `json:"month,omitempty"`
	Year       *YearContext  `json:"year,omitempty"`
}

// PositiveYear reports the owning year's positivity, false when the
// year context is missing.
func (db DayBar) PositiveYear() bool {
	return db.Year != nil && db.Year.Return.Positive
}

// PositiveMonth reports the owning month's positivity, false when the
// month context is missing.
func (db DayBar) PositiveMonth() bool {
	return db.Month != nil && db.Month.Return.Positive
}

// Week returns the day's week context for the given series, nil when
// it is missing.
func (db DayBar) Week(wt WeekType) *WeekContext {
	if wt == WeekTypeExpiry {
		return db.ExpiryWeek
	}
	return db.MondayWeek
}

// Result bundles the five annotated series one pipeline run produces.
type Result struct {
	Daily        []DayBar   `json:"daily"`
	MondayWeekly []WeekBar  `json:"monday_weekly"`
	ExpiryWeekly []WeekBar  `json:"expiry_weekly"`
	Monthly      []MonthBar `json:"monthly"`
	Yearly       []YearBar  `json:"yearly"`
}
