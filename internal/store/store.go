package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/LockhartNox/crypto-dashboard/internal/model"
	"github.com/LockhartNox/crypto-dashboard/internal/source"
)

// ErrNoData means the data source returned nothing for the whole universe.
// It is terminal for the session: callers must not render a partial dashboard.
var ErrNoData = errors.New("no price data available")

// Store memoizes one normalized PriceTable per ticker set. The table is
// read-only once built; the populate-once fetch is guarded by a mutex. A
// non-zero TTL makes Get refetch stale tables; TTL 0 caches for the process
// lifetime.
type Store struct {
	src   source.Source
	start time.Time
	ttl   time.Duration
	now   func() time.Time

	mu    sync.Mutex
	cache map[string]*entry
}

type entry struct {
	table     *model.PriceTable
	fetchedAt time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets the cache invalidation interval. 0 disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a Store fetching from src, with history starting at start.
func New(src source.Source, start time.Time, opts ...Option) *Store {
	s := &Store{
		src:   src,
		start: start,
		now:   time.Now,
		cache: make(map[string]*entry),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Get returns the memoized table for the ticker set, fetching it on first
// use or when the cached copy is older than the TTL.
func (s *Store) Get(ctx context.Context, tickers []model.Ticker) (*model.PriceTable, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("no tickers requested")
	}
	key := cacheKey(tickers)

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.cache[key]; ok {
		if s.ttl == 0 || s.now().Sub(e.fetchedAt) < s.ttl {
			return e.table, nil
		}
		log.Printf("[INFO] price table for %d tickers expired, refetching", len(tickers))
	}
	return s.populateLocked(ctx, key, tickers)
}

// Refresh discards any cached table for the ticker set and refetches.
func (s *Store) Refresh(ctx context.Context, tickers []model.Ticker) (*model.PriceTable, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("no tickers requested")
	}
	key := cacheKey(tickers)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, key)
	return s.populateLocked(ctx, key, tickers)
}

func (s *Store) populateLocked(ctx context.Context, key string, tickers []model.Ticker) (*model.PriceTable, error) {
	end := model.DateOnly(s.now()).AddDate(0, 0, 1) // include today's bar
	series, err := s.src.FetchDailyCloses(ctx, tickers, s.start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch daily closes: %w", err)
	}

	table := model.NewPriceTable(series)
	if table.IsEmpty() {
		return nil, ErrNoData
	}

	s.cache[key] = &entry{table: table, fetchedAt: s.now()}
	log.Printf("[INFO] price table populated: %d tickers, %d rows (source %s)",
		len(tickers), table.Len(), s.src.Name())
	return table, nil
}

func cacheKey(tickers []model.Ticker) string {
	keys := make([]string, len(tickers))
	for i, t := range tickers {
		keys[i] = string(t)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}
