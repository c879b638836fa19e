package source

import (
	"context"
	"time"

	"github.com/LockhartNox/crypto-dashboard/internal/model"
)

// Source defines the interface for fetching daily close prices.
// Implementations return one series per requested ticker, in request order;
// a ticker the provider knows nothing about yields an empty series, not an
// error, so the remaining universe still loads.
type Source interface {
	FetchDailyCloses(ctx context.Context, tickers []model.Ticker, start, end time.Time) ([]model.PriceSeries, error)
	Name() string
}
