package render

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/guptarohit/asciigraph"

	"github.com/LockhartNox/crypto-dashboard/internal/model"
)

// Chart plots the combined historical+predicted series as one line per
// ticker over a shared date axis. Dates a ticker has no value for are
// plotted as gaps. Colors come from the per-asset display color carried on
// the chart rows, mapped onto the 256-color terminal palette.
func Chart(w io.Writer, combined model.CombinedSeries, height int, currency string) {
	if len(combined) == 0 {
		return
	}
	if height <= 0 {
		height = 15
	}

	dateSet := make(map[time.Time]struct{})
	byTicker := make(map[model.Ticker]map[time.Time]float64)
	var order []model.Ticker
	colors := make(map[model.Ticker]string)
	legends := make(map[model.Ticker]string)
	for _, p := range combined {
		dateSet[p.Date] = struct{}{}
		if _, ok := byTicker[p.Ticker]; !ok {
			byTicker[p.Ticker] = make(map[time.Time]float64)
			order = append(order, p.Ticker)
			colors[p.Ticker] = p.Color
			legends[p.Ticker] = p.Name
		}
		byTicker[p.Ticker][p.Date] = p.Close
	}

	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	data := make([][]float64, len(order))
	seriesColors := make([]asciigraph.AnsiColor, len(order))
	seriesLegends := make([]string, len(order))
	for i, tk := range order {
		row := make([]float64, len(dates))
		for j, d := range dates {
			if v, ok := byTicker[tk][d]; ok {
				row[j] = v
			} else {
				row[j] = math.NaN()
			}
		}
		data[i] = row
		seriesColors[i] = hexToAnsi(colors[tk])
		seriesLegends[i] = legends[tk]
	}

	caption := fmt.Sprintf("%s to %s (%s)",
		dates[0].Format("2006-01-02"), dates[len(dates)-1].Format("2006-01-02"), currency)

	plot := asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(seriesColors...),
		asciigraph.SeriesLegends(seriesLegends...),
	)
	fmt.Fprintln(w, plot)
}

// hexToAnsi maps a #RRGGBB display color onto the 6x6x6 ANSI color cube.
func hexToAnsi(hex string) asciigraph.AnsiColor {
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return asciigraph.White
	}
	return asciigraph.AnsiColor(16 + 36*cube(r) + 6*cube(g) + cube(b))
}

func cube(v int) int {
	if v < 48 {
		return 0
	}
	if v < 75 {
		return 1
	}
	return (v - 35) / 40
}
