package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/LockhartNox/crypto-dashboard/internal/model"
	"github.com/LockhartNox/crypto-dashboard/internal/source"
)

func points(start time.Time, closes ...float64) []model.PricePoint {
	pts := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		pts[i] = model.PricePoint{Date: start.AddDate(0, 0, i), Close: c}
	}
	return pts
}

func TestStore_PopulateOnce(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := &source.MockSource{Series: map[model.Ticker][]model.PricePoint{
		"BTC-USD": points(start, 100, 101, 102),
	}}
	s := New(mock, start)

	ctx := context.Background()
	tickers := []model.Ticker{"BTC-USD"}

	t1, err := s.Get(ctx, tickers)
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	t2, err := s.Get(ctx, tickers)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if mock.Calls != 1 {
		t.Errorf("expected exactly one fetch, got %d", mock.Calls)
	}
	if t1 != t2 {
		t.Error("memoized table must be reused")
	}
}

func TestStore_TTLRefetch(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := &source.MockSource{Series: map[model.Ticker][]model.PricePoint{
		"BTC-USD": points(start, 100),
	}}

	now := start
	s := New(mock, start, WithTTL(time.Hour), WithClock(func() time.Time { return now }))
	ctx := context.Background()
	tickers := []model.Ticker{"BTC-USD"}

	if _, err := s.Get(ctx, tickers); err != nil {
		t.Fatalf("get: %v", err)
	}
	now = now.Add(30 * time.Minute)
	if _, err := s.Get(ctx, tickers); err != nil {
		t.Fatalf("get: %v", err)
	}
	if mock.Calls != 1 {
		t.Fatalf("fresh table must not refetch, calls=%d", mock.Calls)
	}

	now = now.Add(31 * time.Minute)
	if _, err := s.Get(ctx, tickers); err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if mock.Calls != 2 {
		t.Fatalf("stale table must refetch, calls=%d", mock.Calls)
	}
}

func TestStore_RefreshForcesRefetch(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := &source.MockSource{Series: map[model.Ticker][]model.PricePoint{
		"BTC-USD": points(start, 100),
	}}
	s := New(mock, start)
	ctx := context.Background()
	tickers := []model.Ticker{"BTC-USD"}

	if _, err := s.Get(ctx, tickers); err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := s.Refresh(ctx, tickers); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if mock.Calls != 2 {
		t.Errorf("refresh must bypass the cache, calls=%d", mock.Calls)
	}
}

func TestStore_EmptyResultIsTerminal(t *testing.T) {
	mock := &source.MockSource{Series: map[model.Ticker][]model.PricePoint{}}
	s := New(mock, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	_, err := s.Get(context.Background(), []model.Ticker{"BTC-USD", "ETH-USD"})
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestStore_SourceErrorPropagates(t *testing.T) {
	mock := &source.MockSource{Err: fmt.Errorf("network down")}
	s := New(mock, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	if _, err := s.Get(context.Background(), []model.Ticker{"BTC-USD"}); err == nil {
		t.Fatal("expected fetch error")
	}
}

func TestStore_NoTickers(t *testing.T) {
	s := New(&source.MockSource{}, time.Now())
	if _, err := s.Get(context.Background(), nil); err == nil {
		t.Fatal("expected an error for an empty ticker set")
	}
}

func TestStore_TableHasNoMissingValues(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := &source.MockSource{Series: map[model.Ticker][]model.PricePoint{
		"BTC-USD": points(start, 100, 101, 102, 103),
		"SOL-USD": points(start.AddDate(0, 0, 2), 50, 51),
	}}
	s := New(mock, start)

	table, err := s.Get(context.Background(), []model.Ticker{"BTC-USD", "SOL-USD"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	for _, tk := range table.Tickers() {
		for i := 0; i < table.Len(); i++ {
			v := table.Close(tk, i)
			if v != v { // NaN check
				t.Fatalf("missing value leaked through for %s at row %d", tk, i)
			}
		}
	}
	// SOL listed on row 2: rows 0-1 exactly 0.
	if table.Close("SOL-USD", 0) != 0 || table.Close("SOL-USD", 1) != 0 {
		t.Error("pre-listing rows must be exactly 0")
	}
}
