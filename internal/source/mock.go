package source

import (
	"context"
	"time"

	"github.com/LockhartNox/crypto-dashboard/internal/model"
)

// MockSource returns controllable fixed data for development and testing.
type MockSource struct {
	Series map[model.Ticker][]model.PricePoint
	Err    error
	Calls  int
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) FetchDailyCloses(_ context.Context, tickers []model.Ticker, _, _ time.Time) ([]model.PriceSeries, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]model.PriceSeries, 0, len(tickers))
	for _, t := range tickers {
		out = append(out, model.PriceSeries{Ticker: t, Points: m.Series[t]})
	}
	return out, nil
}

// GenerateSeries produces count daily points ending today, drifting linearly
// around basePrice, for mock data and tests.
func GenerateSeries(ticker model.Ticker, basePrice float64, count int) model.PriceSeries {
	today := model.DateOnly(time.Now())
	pts := make([]model.PricePoint, count)
	for i := 0; i < count; i++ {
		pts[i] = model.PricePoint{
			Date:  today.AddDate(0, 0, -(count - 1 - i)),
			Close: basePrice * (1 + float64(i-count/2)*0.001),
		}
	}
	return model.PriceSeries{Ticker: ticker, Points: pts}
}
