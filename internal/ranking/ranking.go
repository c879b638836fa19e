// Package ranking computes the percentage-change ranking over a price table.
package ranking

import (
	"fmt"
	"math"
	"sort"

	"github.com/LockhartNox/crypto-dashboard/internal/model"
)

// Rank computes the percentage change of every ticker in the table over the
// period's lookback offset and returns rows sorted by change descending.
//
// The baseline row is the second-to-last row for the daily period and the
// row `offset` positions back for weekly/monthly, matching row offsets in
// the daily index rather than calendar-day arithmetic. A zero baseline
// makes the change undefined: the row carries NaN with ChangeDefined=false
// and sorts after every defined row. Ties and undefined rows keep the
// table's ticker order (stable sort).
//
// names may be nil; when provided it fills the display-name column.
func Rank(t *model.PriceTable, period model.Period, names map[model.Ticker]string) ([]model.RankingRow, error) {
	if t == nil || t.IsEmpty() {
		return nil, fmt.Errorf("rank: empty price table")
	}
	if !period.Valid() {
		return nil, fmt.Errorf("rank: unknown period %q", period)
	}

	offset := period.Offset()
	last := t.Len() - 1
	prev := last - offset
	if prev < 0 {
		return nil, fmt.Errorf("rank: %s period needs at least %d rows, table has %d",
			period, offset+1, t.Len())
	}

	rows := make([]model.RankingRow, 0, len(t.Tickers()))
	for _, ticker := range t.Tickers() {
		cur := t.Close(ticker, last)
		base := t.Close(ticker, prev)

		row := model.RankingRow{
			Ticker: ticker,
			Name:   names[ticker],
			Price:  cur,
		}
		if base == 0 {
			row.Change = math.NaN()
			row.ChangeDefined = false
		} else {
			row.Change = (cur - base) / base * 100
			row.ChangeDefined = true
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.ChangeDefined != b.ChangeDefined {
			return a.ChangeDefined
		}
		if !a.ChangeDefined {
			return false
		}
		return a.Change > b.Change
	})
	return rows, nil
}
