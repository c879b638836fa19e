package model

import "time"

// ForecastPoint is a single predicted daily close.
type ForecastPoint struct {
	Date  time.Time
	Close float64
}

// ForecastSeries holds the point forecasts for one ticker: contiguous daily
// dates starting the day after the last historical date, all values >= 0.
type ForecastSeries struct {
	Ticker Ticker
	Points []ForecastPoint
}

// Terminal returns the final forecast value, the number shown on summary tiles.
func (f ForecastSeries) Terminal() float64 {
	if len(f.Points) == 0 {
		return 0
	}
	return f.Points[len(f.Points)-1].Close
}

// Outcome is the per-ticker result of a forecasting run. Exactly one of
// Series and Err is set; a failed ticker never aborts its siblings.
type Outcome struct {
	Ticker Ticker
	Series *ForecastSeries
	Err    error
}

// Failed reports whether the ticker's forecast could not be produced.
func (o Outcome) Failed() bool { return o.Err != nil }

// Segment tags a chart row as observed history or model output.
type Segment string

const (
	SegmentHistorical Segment = "historical"
	SegmentPredicted  Segment = "predicted"
)

// ChartPoint is one long-form row of the combined chart table.
type ChartPoint struct {
	Date    time.Time
	Ticker  Ticker
	Name    string
	Color   string
	Close   float64
	Segment Segment
}

// CombinedSeries is the long-form historical+predicted table consumed by the
// chart renderer. Rows are grouped by ticker; within a ticker the historical
// segment precedes the predicted one and dates never overlap between them.
type CombinedSeries []ChartPoint
