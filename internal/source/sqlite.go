package source

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"

	"github.com/LockhartNox/crypto-dashboard/internal/model"
)

// SQLiteSource reads daily closes from a local SQLite database, for offline
// fixtures and development without network access. Expected schema:
//
//	CREATE TABLE daily_closes (ticker TEXT, date TEXT, close REAL);
//
// with date formatted as YYYY-MM-DD. The source only ever reads.
type SQLiteSource struct {
	db *sql.DB
}

// NewSQLiteSource opens the database at dbPath.
func NewSQLiteSource(dbPath string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	log.Printf("[INFO] sqlite price source opened: %s", dbPath)
	return &SQLiteSource{db: db}, nil
}

func (s *SQLiteSource) Name() string { return "sqlite" }

// FetchDailyCloses loads the close series for every ticker between start and
// end (end exclusive). Tickers absent from the database yield empty series.
func (s *SQLiteSource) FetchDailyCloses(ctx context.Context, tickers []model.Ticker, start, end time.Time) ([]model.PriceSeries, error) {
	out := make([]model.PriceSeries, 0, len(tickers))
	for _, t := range tickers {
		series, err := s.fetchOne(ctx, t, start, end)
		if err != nil {
			return nil, fmt.Errorf("sqlite fetch %s: %w", t, err)
		}
		out = append(out, series)
	}
	return out, nil
}

func (s *SQLiteSource) fetchOne(ctx context.Context, ticker model.Ticker, start, end time.Time) (model.PriceSeries, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, close FROM daily_closes WHERE ticker = ? AND date >= ? AND date < ? ORDER BY date`,
		string(ticker), start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return model.PriceSeries{}, err
	}
	defer rows.Close()

	series := model.PriceSeries{Ticker: ticker}
	for rows.Next() {
		var dateStr string
		var c float64
		if err := rows.Scan(&dateStr, &c); err != nil {
			return model.PriceSeries{}, fmt.Errorf("scan row: %w", err)
		}
		d, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return model.PriceSeries{}, fmt.Errorf("parse date %q: %w", dateStr, err)
		}
		series.Points = append(series.Points, model.PricePoint{Date: d, Close: c})
	}
	return series, rows.Err()
}

// Close releases the underlying database handle.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}
