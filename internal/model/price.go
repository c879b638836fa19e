package model

import (
	"math"
	"sort"
	"time"
)

// Ticker identifies a tradable asset against its quote currency, e.g. "BTC-USD".
type Ticker string

// PricePoint is a single daily close observation.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// PriceSeries holds the ordered daily closes for one ticker.
// Dates are strictly increasing; the series may contain calendar gaps.
type PriceSeries struct {
	Ticker Ticker
	Points []PricePoint
}

// LastDate returns the date of the final point, or the zero time for an empty series.
func (s PriceSeries) LastDate() time.Time {
	if len(s.Points) == 0 {
		return time.Time{}
	}
	return s.Points[len(s.Points)-1].Date
}

// LastClose returns the final close, or 0 for an empty series.
func (s PriceSeries) LastClose() float64 {
	if len(s.Points) == 0 {
		return 0
	}
	return s.Points[len(s.Points)-1].Close
}

// PriceTable is the outer join of one or more price series over a shared,
// chronologically sorted date index. Cells with no observation hold 0:
// every date before a ticker's first observation is 0, as is any interior
// date the source returned nothing for. The first-observation boundary is
// retained so the forecasting pipeline can work on observed data only.
type PriceTable struct {
	dates    []time.Time
	tickers  []Ticker
	closes   map[Ticker][]float64
	firstObs map[Ticker]int // index of first observed cell, -1 when the column is empty
}

// NewPriceTable outer-joins the given series into a table. Ticker order is
// preserved as given. Duplicate dates within one series keep the last value;
// a repeated ticker keeps its first series.
func NewPriceTable(series []PriceSeries) *PriceTable {
	seenTicker := make(map[Ticker]struct{}, len(series))
	keep := make([]PriceSeries, 0, len(series))
	for _, s := range series {
		if _, dup := seenTicker[s.Ticker]; dup {
			continue
		}
		seenTicker[s.Ticker] = struct{}{}
		keep = append(keep, s)
	}
	series = keep

	seen := make(map[time.Time]struct{})
	var dates []time.Time
	for _, s := range series {
		for _, p := range s.Points {
			d := DateOnly(p.Date)
			if _, ok := seen[d]; !ok {
				seen[d] = struct{}{}
				dates = append(dates, d)
			}
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	idx := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		idx[d] = i
	}

	t := &PriceTable{
		dates:    dates,
		closes:   make(map[Ticker][]float64, len(series)),
		firstObs: make(map[Ticker]int, len(series)),
	}
	for _, s := range series {
		col := make([]float64, len(dates))
		for i := range col {
			col[i] = math.NaN()
		}
		for _, p := range s.Points {
			col[idx[DateOnly(p.Date)]] = p.Close
		}

		first := -1
		for i, v := range col {
			if !math.IsNaN(v) {
				first = i
				break
			}
		}
		// Zero-fill: everything before the first observation did not exist
		// yet; remaining holes fall back to 0 as well.
		for i, v := range col {
			if math.IsNaN(v) {
				col[i] = 0
			}
		}

		t.tickers = append(t.tickers, s.Ticker)
		t.closes[s.Ticker] = col
		t.firstObs[s.Ticker] = first
	}
	return t
}

// Len returns the number of rows (dates) in the table.
func (t *PriceTable) Len() int { return len(t.dates) }

// IsEmpty reports whether the table has no rows or no columns.
func (t *PriceTable) IsEmpty() bool { return len(t.dates) == 0 || len(t.tickers) == 0 }

// Tickers returns the column order of the table.
func (t *PriceTable) Tickers() []Ticker {
	out := make([]Ticker, len(t.tickers))
	copy(out, t.tickers)
	return out
}

// Date returns the date at row i.
func (t *PriceTable) Date(i int) time.Time { return t.dates[i] }

// LastDate returns the date of the final row.
func (t *PriceTable) LastDate() time.Time { return t.dates[len(t.dates)-1] }

// Close returns the close for ticker at row i. Unknown tickers yield 0.
func (t *PriceTable) Close(ticker Ticker, i int) float64 {
	col, ok := t.closes[ticker]
	if !ok {
		return 0
	}
	return col[i]
}

// Has reports whether the table carries a column for ticker.
func (t *PriceTable) Has(ticker Ticker) bool {
	_, ok := t.closes[ticker]
	return ok
}

// Series returns the full zero-filled series for ticker, one point per table row.
func (t *PriceTable) Series(ticker Ticker) PriceSeries {
	col := t.closes[ticker]
	pts := make([]PricePoint, len(col))
	for i, v := range col {
		pts[i] = PricePoint{Date: t.dates[i], Close: v}
	}
	return PriceSeries{Ticker: ticker, Points: pts}
}

// ObservedSeries returns the series for ticker starting at its first real
// observation, skipping the leading zero-filled region. An empty column
// yields an empty series.
func (t *PriceTable) ObservedSeries(ticker Ticker) PriceSeries {
	first, ok := t.firstObs[ticker]
	if !ok || first < 0 {
		return PriceSeries{Ticker: ticker}
	}
	col := t.closes[ticker]
	pts := make([]PricePoint, 0, len(col)-first)
	for i := first; i < len(col); i++ {
		pts = append(pts, PricePoint{Date: t.dates[i], Close: col[i]})
	}
	return PriceSeries{Ticker: ticker, Points: pts}
}

// DateOnly truncates ts to midnight UTC so observations from different
// sources land on the same calendar row.
func DateOnly(ts time.Time) time.Time {
	y, m, d := ts.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
