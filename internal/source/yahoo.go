package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/LockhartNox/crypto-dashboard/internal/model"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooSource fetches daily closes from the Yahoo Finance chart API.
// One FetchDailyCloses call issues one chart request per ticker, bounded by
// FetchWorkers concurrent requests.
type YahooSource struct {
	BaseURL      string
	Client       *http.Client
	FetchWorkers int
}

// NewYahooSource creates a Yahoo Finance source with optional proxy support.
func NewYahooSource(proxyURL string) *YahooSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooSource{
		BaseURL: defaultYahooBaseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		FetchWorkers: 4,
	}
}

func (s *YahooSource) Name() string { return "yahoo" }

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []interface{} `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDailyCloses fetches the close series for every ticker between start
// and end. A ticker with no data comes back as an empty series; transport
// and decode errors abort the whole fetch.
func (s *YahooSource) FetchDailyCloses(ctx context.Context, tickers []model.Ticker, start, end time.Time) ([]model.PriceSeries, error) {
	out := make([]model.PriceSeries, len(tickers))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	workers := s.FetchWorkers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, t := range tickers {
		g.Go(func() error {
			series, err := s.fetchOne(gctx, t, start, end)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", t, err)
			}
			mu.Lock()
			out[i] = series
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *YahooSource) fetchOne(ctx context.Context, ticker model.Ticker, start, end time.Time) (model.PriceSeries, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		s.BaseURL, url.PathEscape(string(ticker)), start.Unix(), end.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return model.PriceSeries{}, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.Client.Do(req)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		// Unknown symbol: surface as an empty series so siblings still load.
		log.Printf("[WARN] yahoo: no such symbol %s", ticker)
		return model.PriceSeries{Ticker: ticker}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return model.PriceSeries{}, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return model.PriceSeries{}, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return model.PriceSeries{}, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return model.PriceSeries{Ticker: ticker}, nil
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return model.PriceSeries{Ticker: ticker}, nil
	}
	quote := result.Indicators.Quote[0]

	pts := make([]model.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) {
			break
		}
		c, ok := toFloat(quote.Close[i])
		if !ok {
			continue // null close: a gap, not a zero
		}
		pts = append(pts, model.PricePoint{
			Date:  model.DateOnly(time.Unix(ts, 0)),
			Close: c,
		})
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].Date.Before(pts[j].Date) })

	return model.PriceSeries{Ticker: ticker, Points: pts}, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
