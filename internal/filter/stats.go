package filter

import "seasoncli/internal/seasonality"

// Summary aggregates a filtered view into the headline numbers the
// query boundary returns alongside the rows.
type Summary struct {
	Count         int     `json:"count"`
	PositiveCount int     `json:"positive_count"`
	NegativeCount int     `json:"negative_count"`
	WinRate       float64 `json:"win_rate"`
	AvgReturnPct  float64 `json:"avg_return_pct"`
	MaxGainPct    float64 `json:"max_gain_pct"`
	MaxLossPct    float64 `json:"max_loss_pct"`
}

// Summarize reduces a filtered daily view to its summary statistics.
// An empty view yields the zero summary.
func Summarize(days []seasonality.DayBar) Summary {
	s := Summary{Count: len(days)}
	if len(days) == 0 {
		return s
	}

	total := 0.0
	for i, d := range days {
		pct := d.Return.Percentage
		total += pct
		if d.Return.Positive {
			s.PositiveCount++
		} else {
			s.NegativeCount++
		}
		if i == 0 || pct > s.MaxGainPct {
			s.MaxGainPct = pct
		}
		if i == 0 || pct < s.MaxLossPct {
			s.MaxLossPct = pct
		}
	}

	s.WinRate = float64(s.PositiveCount) / float64(len(days))
	s.AvgReturnPct = total / float64(len(days))
	return s
}
