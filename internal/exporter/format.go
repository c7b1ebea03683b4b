package exporter

import (
	"fmt"
	"strconv"

	"seasoncli/internal/seasonality"
)

const dateLayout = "2006-01-02"

// formatFloat keeps two decimal places so spreadsheet columns align.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatPct keeps four decimal places; return percentages are the
// quantity people actually analyze, so they get the extra precision.
func formatPct(f float64) string {
	return fmt.Sprintf("%.4f", f)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}

func barCells(b seasonality.Bar) []string {
	return []string{
		b.Date.Format(dateLayout),
		b.Symbol,
		formatFloat(b.Open),
		formatFloat(b.High),
		formatFloat(b.Low),
		formatFloat(b.Close),
		formatFloat(b.Volume),
		formatFloat(b.OpenInterest),
	}
}

func returnCells(r seasonality.Return) []string {
	return []string{
		formatPct(r.Points),
		formatPct(r.Percentage),
		formatBool(r.Positive),
	}
}

var barHeaders = []string{"date", "symbol", "open", "high", "low", "close", "volume", "open_interest"}

func returnHeaders(prefix string) []string {
	return []string{prefix + "_return_points", prefix + "_return_pct", prefix + "_positive"}
}

var dailyHeaders = join(
	barHeaders,
	[]string{"weekday", "calendar_month_day", "calendar_year_day", "trading_month_day", "trading_year_day"},
	returnHeaders("day"),
	returnHeaders("monday_week"),
	returnHeaders("expiry_week"),
	returnHeaders("month"),
	returnHeaders("year"),
)

func dailyRecords(days []seasonality.DayBar) [][]string {
	records := make([][]string, 0, len(days))
	for _, d := range days {
		row := join(
			barCells(d.Bar),
			[]string{
				d.Weekday,
				formatInt(d.CalendarMonthDay),
				formatInt(d.CalendarYearDay),
				formatInt(d.TradingMonthDay),
				formatInt(d.TradingYearDay),
			},
			returnCells(d.Return),
			contextReturnCells(weekReturn(d.MondayWeek)),
			contextReturnCells(weekReturn(d.ExpiryWeek)),
			contextReturnCells(monthReturn(d.Month)),
			contextReturnCells(yearReturn(d.Year)),
		)
		records = append(records, row)
	}
	return records
}

var weeklyHeaders = join(
	barHeaders,
	[]string{"week_type", "week_number_monthly", "week_number_yearly"},
	returnHeaders("week"),
)

func weeklyRecords(weeks []seasonality.WeekBar) [][]string {
	records := make([][]string, 0, len(weeks))
	for _, w := range weeks {
		records = append(records, join(
			barCells(w.Bar),
			[]string{w.WeekType.String(), formatInt(w.WeekNumberMonthly), formatInt(w.WeekNumberYearly)},
			returnCells(w.Return),
		))
	}
	return records
}

var monthlyHeaders = join(
	barHeaders,
	[]string{"even_month"},
	returnHeaders("month"),
	returnHeaders("year"),
)

func monthlyRecords(months []seasonality.MonthBar) [][]string {
	records := make([][]string, 0, len(months))
	for _, m := range months {
		records = append(records, join(
			barCells(m.Bar),
			[]string{formatBool(m.EvenMonth)},
			returnCells(m.Return),
			returnCells(m.Year.Return),
		))
	}
	return records
}

var yearlyHeaders = join(
	barHeaders,
	[]string{"even_year"},
	returnHeaders("year"),
)

func yearlyRecords(years []seasonality.YearBar) [][]string {
	records := make([][]string, 0, len(years))
	for _, y := range years {
		records = append(records, join(
			barCells(y.Bar),
			[]string{formatBool(y.EvenYear)},
			returnCells(y.Return),
		))
	}
	return records
}

// contextReturnCells renders a possibly-missing context return;
// missing contexts export as empty cells rather than zeros.
func contextReturnCells(r *seasonality.Return) []string {
	if r == nil {
		return []string{"", "", ""}
	}
	return returnCells(*r)
}

func weekReturn(w *seasonality.WeekContext) *seasonality.Return {
	if w == nil {
		return nil
	}
	return &w.Return
}

func monthReturn(m *seasonality.MonthContext) *seasonality.Return {
	if m == nil {
		return nil
	}
	return &m.Return
}

func yearReturn(y *seasonality.YearContext) *seasonality.Return {
	if y == nil {
		return nil
	}
	return &y.Return
}

func join(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
