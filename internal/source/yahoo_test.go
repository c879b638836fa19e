package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/LockhartNox/crypto-dashboard/internal/model"
)

func chartJSON(start time.Time, closes ...string) string {
	ts := make([]string, len(closes))
	for i := range closes {
		ts[i] = fmt.Sprintf("%d", start.AddDate(0, 0, i).Unix())
	}
	return fmt.Sprintf(`{"chart":{"result":[{"timestamp":[%s],"indicators":{"quote":[{"close":[%s]}]}}],"error":null}}`,
		strings.Join(ts, ","), strings.Join(closes, ","))
}

func TestYahooFetch_ParsesCloses(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/v8/finance/chart/BTC-USD") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("interval") != "1d" {
			t.Errorf("interval = %q, want 1d", r.URL.Query().Get("interval"))
		}
		fmt.Fprint(w, chartJSON(start, "100.5", "101.25", "102"))
	}))
	defer srv.Close()

	s := NewYahooSource("")
	s.BaseURL = srv.URL

	series, err := s.FetchDailyCloses(context.Background(), []model.Ticker{"BTC-USD"}, start, start.AddDate(0, 0, 3))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(series) != 1 {
		t.Fatalf("expected 1 series, got %d", len(series))
	}
	got := series[0]
	if got.Ticker != "BTC-USD" {
		t.Errorf("ticker = %q", got.Ticker)
	}
	if len(got.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(got.Points))
	}
	if got.Points[0].Close != 100.5 {
		t.Errorf("first close = %v, want 100.5", got.Points[0].Close)
	}
	for i, p := range got.Points {
		want := start.AddDate(0, 0, i)
		if !p.Date.Equal(want) {
			t.Errorf("point %d: date %v, want midnight %v", i, p.Date, want)
		}
	}
}

func TestYahooFetch_NullCloseIsAGap(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartJSON(start, "100", "null", "102"))
	}))
	defer srv.Close()

	s := NewYahooSource("")
	s.BaseURL = srv.URL

	series, err := s.FetchDailyCloses(context.Background(), []model.Ticker{"ETH-USD"}, start, start.AddDate(0, 0, 3))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	pts := series[0].Points
	if len(pts) != 2 {
		t.Fatalf("null close must be dropped, got %d points", len(pts))
	}
	if pts[0].Close != 100 || pts[1].Close != 102 {
		t.Errorf("unexpected closes: %v %v", pts[0].Close, pts[1].Close)
	}
	if !pts[1].Date.Equal(start.AddDate(0, 0, 2)) {
		t.Errorf("gap shifted dates: %v", pts[1].Date)
	}
}

func TestYahooFetch_UnknownSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	s := NewYahooSource("")
	s.BaseURL = srv.URL

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series, err := s.FetchDailyCloses(context.Background(), []model.Ticker{"NOPE-USD"}, start, start.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("404 must not fail the fetch: %v", err)
	}
	if len(series[0].Points) != 0 {
		t.Errorf("unknown symbol should yield an empty series, got %d points", len(series[0].Points))
	}
	if series[0].Ticker != "NOPE-USD" {
		t.Errorf("empty series must keep its ticker, got %q", series[0].Ticker)
	}
}

func TestYahooFetch_ServerErrorAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewYahooSource("")
	s.BaseURL = srv.URL

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := s.FetchDailyCloses(context.Background(), []model.Ticker{"BTC-USD"}, start, start.AddDate(0, 0, 1)); err == nil {
		t.Fatal("expected an error for a non-2xx status")
	}
}

func TestYahooFetch_PreservesTickerOrder(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartJSON(start, "1"))
	}))
	defer srv.Close()

	s := NewYahooSource("")
	s.BaseURL = srv.URL
	s.FetchWorkers = 3

	tickers := []model.Ticker{"BTC-USD", "ETH-USD", "SOL-USD", "ADA-USD"}
	series, err := s.FetchDailyCloses(context.Background(), tickers, start, start.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	for i, tk := range tickers {
		if series[i].Ticker != tk {
			t.Errorf("slot %d: got %q, want %q", i, series[i].Ticker, tk)
		}
	}
}
