// Package assemble merges historical and forecast series into the long-form
// table the chart renderer consumes.
package assemble

import (
	"fmt"

	"github.com/LockhartNox/crypto-dashboard/internal/model"
)

// Meta is the display identity joined onto every chart row.
type Meta struct {
	Name  string
	Color string
}

// Assemble converts each historical and forecast series to long form, tags
// rows as historical or predicted, applies the display currency rate to all
// closes, and joins display metadata. The inputs are never mutated; the
// rate applies only to the assembled copy.
//
// A ticker missing from meta is a configuration bug, not a runtime
// condition, and panics.
func Assemble(historical []model.PriceSeries, forecasts map[model.Ticker]*model.ForecastSeries, rate float64, meta map[model.Ticker]Meta) model.CombinedSeries {
	var out model.CombinedSeries
	for _, h := range historical {
		m := mustMeta(meta, h.Ticker)
		for _, p := range h.Points {
			out = append(out, model.ChartPoint{
				Date:    p.Date,
				Ticker:  h.Ticker,
				Name:    m.Name,
				Color:   m.Color,
				Close:   p.Close * rate,
				Segment: model.SegmentHistorical,
			})
		}

		fc := forecasts[h.Ticker]
		if fc == nil {
			continue
		}
		lastHist := h.LastDate()
		for _, p := range fc.Points {
			if !p.Date.After(lastHist) {
				// Historical and predicted segments must never overlap.
				panic(fmt.Sprintf("assemble: forecast for %s overlaps history at %s",
					h.Ticker, p.Date.Format("2006-01-02")))
			}
			out = append(out, model.ChartPoint{
				Date:    p.Date,
				Ticker:  h.Ticker,
				Name:    m.Name,
				Color:   m.Color,
				Close:   p.Close * rate,
				Segment: model.SegmentPredicted,
			})
		}
	}
	return out
}

func mustMeta(meta map[model.Ticker]Meta, t model.Ticker) Meta {
	m, ok := meta[t]
	if !ok {
		panic(fmt.Sprintf("assemble: ticker %s is not in the configured universe", t))
	}
	return m
}
