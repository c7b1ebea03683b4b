package store

import (
	"time"

	"seasoncli/internal/seasonality"
)

// DailyRow is one annotated trading day.
type DailyRow struct {
	ID     uint      `gorm:"primaryKey"`
	Symbol string    `gorm:"size:32;uniqueIndex:uidx_daily_symbol_date"`
	Date   time.Time `gorm:"uniqueIndex:uidx_daily_symbol_date"`

	Open         float64
	High         float64
	Low          float64
	Close        float64
	Volume       float64
	OpenInterest float64

	Weekday          string `gorm:"size:10"`
	CalendarMonthDay int
	CalendarYearDay  int
	TradingMonthDay  int
	TradingYearDay   int

	ReturnPoints float64
	ReturnPct    float64
	Positive     bool

	MondayWeekPct      float64
	MondayWeekPositive bool
	ExpiryWeekPct      float64
	ExpiryWeekPositive bool
	MonthPct           float64
	MonthPositive      bool
	YearPct            float64
	YearPositive       bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WeeklyRow is one trading week in either series; WeekType carries
// which boundary rule keyed it.
type WeeklyRow struct {
	ID       uint      `gorm:"primaryKey"`
	Symbol   string    `gorm:"size:32;uniqueIndex:uidx_weekly_symbol_date_type"`
	Date     time.Time `gorm:"uniqueIndex:uidx_weekly_symbol_date_type"`
	WeekType string    `gorm:"size:10;uniqueIndex:uidx_weekly_symbol_date_type"`

	Open         float64
	High         float64
	Low          float64
	Close        float64
	Volume       float64
	OpenInterest float64

	WeekNumberMonthly int
	WeekNumberYearly  int
	ReturnPoints      float64
	ReturnPct         float64
	Positive          bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MonthlyRow is one calendar month's aggregate.
type MonthlyRow struct {
	ID     uint      `gorm:"primaryKey"`
	Symbol string    `gorm:"size:32;uniqueIndex:uidx_monthly_symbol_date"`
	Date   time.Time `gorm:"uniqueIndex:uidx_monthly_symbol_date"`

	Open         float64
	High         float64
	Low          float64
	Close        float64
	Volume       float64
	OpenInterest float64

	EvenMonth    bool
	ReturnPoints float64
	ReturnPct    float64
	Positive     bool
	YearPct      float64
	YearPositive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// YearlyRow is one calendar year's aggregate.
type YearlyRow struct {
	ID     uint      `gorm:"primaryKey"`
	Symbol string    `gorm:"size:32;uniqueIndex:uidx_yearly_symbol_date"`
	Date   time.Time `gorm:"uniqueIndex:uidx_yearly_symbol_date"`

	Open         float64
	High         float64
	Low          float64
	Close        float64
	Volume       float64
	OpenInterest float64

	EvenYear     bool
	ReturnPoints float64
	ReturnPct    float64
	Positive     bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func newDailyRow(symbol string, d seasonality.DayBar) DailyRow {
	row := DailyRow{
		Symbol:           symbol,
		Date:             d.Date,
		Open:             d.Open,
		High:             d.High,
		Low:              d.Low,
		Close:            d.Close,
		Volume:           d.Volume,
		OpenInterest:     d.OpenInterest,
		Weekday:          d.Weekday,
		CalendarMonthDay: d.CalendarMonthDay,
		CalendarYearDay:  d.CalendarYearDay,
		TradingMonthDay:  d.TradingMonthDay,
		TradingYearDay:   d.TradingYearDay,
		ReturnPoints:     d.Return.Points,
		ReturnPct:        d.Return.Percentage,
		Positive:         d.Return.Positive,
	}
	if d.MondayWeek != nil {
		row.MondayWeekPct = d.MondayWeek.Return.Percentage
		row.MondayWeekPositive = d.MondayWeek.Return.Positive
	}
	if d.ExpiryWeek != nil {
		row.ExpiryWeekPct = d.ExpiryWeek.Return.Percentage
		row.ExpiryWeekPositive = d.ExpiryWeek.Return.Positive
	}
	if d.Month != nil {
		row.MonthPct = d.Month.Return.Percentage
		row.MonthPositive = d.Month.Return.Positive
	}
	if d.Year != nil {
		row.YearPct = d.Year.Return.Percentage
		row.YearPositive = d.Year.Return.Positive
	}
	return row
}

func newWeeklyRow(symbol string, w seasonality.WeekBar) WeeklyRow {
	return WeeklyRow{
		Symbol:            symbol,
		Date:              w.Date,
		WeekType:          w.WeekType.String(),
		Open:              w.Open,
		High:              w.High,
		Low:               w.Low,
		Close:             w.Close,
		Volume:            w.Volume,
		OpenInterest:      w.OpenInterest,
		WeekNumberMonthly: w.WeekNumberMonthly,
		WeekNumberYearly:  w.WeekNumberYearly,
		ReturnPoints:      w.Return.Points,
		ReturnPct:         w.Return.Percentage,
		Positive:          w.Return.Positive,
	}
}

func newMonthlyRow(symbol string, m seasonality.MonthBar) MonthlyRow {
	return MonthlyRow{
		Symbol:       symbol,
		Date:         m.Date,
		Open:         m.Open,
		High:         m.High,
		Low:          m.Low,
		Close:        m.Close,
		Volume:       m.Volume,
		OpenInterest: m.OpenInterest,
		EvenMonth:    m.EvenMonth,
		ReturnPoints: m.Return.Points,
		ReturnPct:    m.Return.Percentage,
		Positive:     m.Return.Positive,
		YearPct:      m.Year.Return.Percentage,
		YearPositive: m.Year.Return.Positive,
	}
}

func newYearlyRow(symbol string, y seasonality.YearBar) YearlyRow {
	return YearlyRow{
		Symbol:       symbol,
		Date:         y.Date,
		Open:         y.Open,
		High:         y.High,
		Low:          y.Low,
		Close:        y.Close,
		Volume:       y.Volume,
		OpenInterest: y.OpenInterest,
		EvenYear:     y.EvenYear,
		ReturnPoints: y.Return.Points,
		ReturnPct:    y.Return.Percentage,
		Positive:     y.Return.Positive,
	}
}
