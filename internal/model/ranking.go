package model

// Period selects the lookback window for percentage-change ranking.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// Offset returns the row offset into the daily index used as the change
// baseline: 1, 7 or 30 rows back. Unknown periods fall back to daily.
func (p Period) Offset() int {
	switch p {
	case PeriodWeekly:
		return 7
	case PeriodMonthly:
		return 30
	default:
		return 1
	}
}

// Valid reports whether p is one of the three supported periods.
func (p Period) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return true
	}
	return false
}

// RankingRow is one entry of the percentage-change ranking. Price is in the
// native quote currency; display conversion happens at render time.
// ChangeDefined is false when the baseline price was 0, in which case Change
// holds NaN and the row sorts after all defined rows.
type RankingRow struct {
	Ticker        Ticker
	Name          string
	Price         float64
	Change        float64
	ChangeDefined bool
}
