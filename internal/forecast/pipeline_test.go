package forecast

import (
	"context"
	"errors"
	"testing"

	"github.com/LockhartNox/crypto-dashboard/internal/model"
)

func TestBatch_FailureIsolation(t *testing.T) {
	good := seriesFrom("GOOD-USD", testStart, weeklySeries(90))
	short := seriesFrom("SHORT-USD", testStart, weeklySeries(5))

	p := NewPipeline(2)
	out := p.Batch(context.Background(), []model.PriceSeries{good, short}, 7)

	if len(out) != 2 {
		t.Fatalf("expected outcomes for both tickers, got %d", len(out))
	}

	g := out["GOOD-USD"]
	if g.Failed() {
		t.Fatalf("sibling forecast must still succeed: %v", g.Err)
	}
	if len(g.Series.Points) != 7 {
		t.Errorf("good ticker: %d points, want 7", len(g.Series.Points))
	}

	s := out["SHORT-USD"]
	if !s.Failed() {
		t.Fatal("short series must report a failure")
	}
	var mhe *MinHistoryError
	if !errors.As(s.Err, &mhe) {
		t.Errorf("short series failure should be a MinHistoryError, got %v", s.Err)
	}
	if s.Series != nil {
		t.Error("failed outcome must not carry a series")
	}
}

func TestBatch_EmptyInput(t *testing.T) {
	out := NewPipeline(4).Batch(context.Background(), nil, 7)
	if len(out) != 0 {
		t.Fatalf("expected no outcomes, got %d", len(out))
	}
}

func TestBatch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := NewPipeline(1).Batch(ctx, []model.PriceSeries{
		seriesFrom("A-USD", testStart, weeklySeries(90)),
	}, 7)

	o := out["A-USD"]
	if !o.Failed() {
		t.Fatal("cancelled context should surface as a per-ticker failure")
	}
	if !errors.Is(o.Err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", o.Err)
	}
}

func TestNewPipeline_MinimumWorkers(t *testing.T) {
	if p := NewPipeline(0); p.Workers != 1 {
		t.Errorf("worker floor is 1, got %d", p.Workers)
	}
}
