package exporter

import (
	"fmt"
	"time"

	"github.com/parquet-go/parquet-go"

	"seasoncli/internal/seasonality"
)

// dailyRow is the flattened Parquet schema of one annotated day.
// Contexts flatten to plain columns; a missing context leaves its
// columns at zero with the matching has_ flag false.
type dailyRow struct {
	Date             time.Time `parquet:"date"`
	Symbol           string    `parquet:"symbol"`
	Open             float64   `parquet:"open"`
	High             float64   `parquet:"high"`
	Low              float64   `parquet:"low"`
	Close            float64   `parquet:"close"`
	Volume           float64   `parquet:"volume"`
	OpenInterest     float64   `parquet:"open_interest"`
	Weekday          string    `parquet:"weekday"`
	CalendarMonthDay int32     `parquet:"calendar_month_day"`
	CalendarYearDay  int32     `parquet:"calendar_year_day"`
	TradingMonthDay  int32     `parquet:"trading_month_day"`
	TradingYearDay   int32     `parquet:"trading_year_day"`
	ReturnPoints     float64   `parquet:"return_points"`
	ReturnPct        float64   `parquet:"return_pct"`
	Positive         bool      `parquet:"positive"`

	HasMondayWeek      bool    `parquet:"has_monday_week"`
	MondayWeekPct      float64 `parquet:"monday_week_return_pct"`
	MondayWeekPositive bool    `parquet:"monday_week_positive"`
	HasExpiryWeek      bool    `parquet:"has_expiry_week"`
	ExpiryWeekPct      float64 `parquet:"expiry_week_return_pct"`
	ExpiryWeekPositive bool    `parquet:"expiry_week_positive"`
	HasMonth           bool    `parquet:"has_month"`
	MonthPct           float64 `parquet:"month_return_pct"`
	MonthPositive      bool    `parquet:"month_positive"`
	HasYear            bool    `parquet:"has_year"`
	YearPct            float64 `parquet:"year_return_pct"`
	YearPositive       bool    `parquet:"year_positive"`
}

// WriteDailyParquet writes the annotated daily series as a Parquet
// file at path.
func WriteDailyParquet(path string, days []seasonality.DayBar) error {
	rows := make([]dailyRow, 0, len(days))
	for _, d := range days {
		row := dailyRow{
			Date:             d.Date,
			Symbol:           d.Symbol,
			Open:             d.Open,
			High:             d.High,
			Low:              d.Low,
			Close:            d.Close,
			Volume:           d.Volume,
			OpenInterest:     d.OpenInterest,
			Weekday:          d.Weekday,
			CalendarMonthDay: int32(d.CalendarMonthDay),
			CalendarYearDay:  int32(d.CalendarYearDay),
			TradingMonthDay:  int32(d.TradingMonthDay),
			TradingYearDay:   int32(d.TradingYearDay),
			ReturnPoints:     d.Return.Points,
			ReturnPct:        d.Return.Percentage,
			Positive:         d.Return.Positive,
		}
		if d.MondayWeek != nil {
			row.HasMondayWeek = true
			row.MondayWeekPct = d.MondayWeek.Return.Percentage
			row.MondayWeekPositive = d.MondayWeek.Return.Positive
		}
		if d.ExpiryWeek != nil {
			row.HasExpiryWeek = true
			row.ExpiryWeekPct = d.ExpiryWeek.Return.Percentage
			row.ExpiryWeekPositive = d.ExpiryWeek.Return.Positive
		}
		if d.Month != nil {
			row.HasMonth = true
			row.MonthPct = d.Month.Return.Percentage
			row.MonthPositive = d.Month.Return.Positive
		}
		if d.Year != nil {
			row.HasYear = true
			row.YearPct = d.Year.Return.Percentage
			row.YearPositive = d.Year.Return.Positive
		}
		rows = append(rows, row)
	}

	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("write parquet %s: %w", path, err)
	}
	return nil
}
