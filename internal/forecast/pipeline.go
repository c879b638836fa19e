package forecast

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/LockhartNox/crypto-dashboard/internal/model"
)

// Run fits and forecasts a single series: one attempt, no re-fit with
// alternate parameters.
func Run(s model.PriceSeries, horizon int) (*model.ForecastSeries, error) {
	m, err := Fit(s)
	if err != nil {
		return nil, err
	}
	return m.Forecast(horizon), nil
}

// Pipeline runs per-ticker forecasts as independent units of work.
type Pipeline struct {
	Workers int
}

// NewPipeline creates a Pipeline with the given worker bound; values below 1
// run the tickers sequentially.
func NewPipeline(workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{Workers: workers}
}

// Batch forecasts every series over a bounded worker pool and collects an
// Outcome per ticker. Fits share no mutable state, so a failure in one
// ticker never aborts its siblings; the failed ticker's outcome carries the
// error and its terminal value is reported as unavailable by the renderer.
func (p *Pipeline) Batch(ctx context.Context, series []model.PriceSeries, horizon int) map[model.Ticker]model.Outcome {
	out := make(map[model.Ticker]model.Outcome, len(series))
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(p.Workers)
	for _, s := range series {
		g.Go(func() error {
			o := model.Outcome{Ticker: s.Ticker}
			if err := ctx.Err(); err != nil {
				o.Err = err
			} else if fc, err := Run(s, horizon); err != nil {
				log.Printf("[WARN] forecast %s failed: %v", s.Ticker, err)
				o.Err = err
			} else {
				o.Series = fc
			}
			mu.Lock()
			out[s.Ticker] = o
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures live in the outcomes
	return out
}
