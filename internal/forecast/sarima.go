// Package forecast fits a seasonal ARIMA model to a daily close series and
// produces short-horizon point forecasts. The model is fixed at
// order (1,1,1) with seasonal order (1,0,1) over a weekly cycle; the
// parameters encode weekly seasonality in daily crypto prices and are not
// user-tunable.
package forecast

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/LockhartNox/crypto-dashboard/internal/model"
)

const (
	seasonalPeriod = 7

	// MaxHorizon bounds forecast requests; larger values are clamped.
	MaxHorizon = 30

	// minObservations is the shortest regularized series the conditional
	// sum-of-squares recursion can be estimated on: one level for the
	// difference, the burn-in of the longest lag, and enough residuals
	// left over for the four coefficients.
	minObservations = 3 * seasonalPeriod

	// cssBurn skips the residuals conditioned on unavailable lags
	// (longest lag is 1+seasonalPeriod on the differenced series).
	cssBurn = seasonalPeriod + 1
)

// MinHistoryError reports a series too short to fit, distinct from a
// genuine non-convergence so callers can tell the two apart.
type MinHistoryError struct {
	Ticker       model.Ticker
	Observations int
	Required     int
}

func (e *MinHistoryError) Error() string {
	return fmt.Sprintf("forecast %s: %d observations, need at least %d",
		e.Ticker, e.Observations, e.Required)
}

// Model is a fitted seasonal ARIMA(1,1,1)(1,0,1,7) model.
type Model struct {
	ticker model.Ticker

	phi    float64 // non-seasonal AR
	theta  float64 // non-seasonal MA
	sphi   float64 // seasonal AR
	stheta float64 // seasonal MA

	diff     []float64 // once-differenced regularized series
	resid    []float64 // in-sample residuals under the fitted coefficients
	last     float64   // last regularized level
	lastDate time.Time
}

// Regularize reindexes the series to a strictly daily frequency over its
// observed date range. Interior gaps are forward-filled; any leading gap is
// back-filled from the first available value.
func Regularize(s model.PriceSeries) model.PriceSeries {
	if len(s.Points) == 0 {
		return model.PriceSeries{Ticker: s.Ticker}
	}
	first := model.DateOnly(s.Points[0].Date)
	last := model.DateOnly(s.LastDate())

	n := int(last.Sub(first).Hours()/24) + 1
	vals := make([]float64, n)
	have := make([]bool, n)
	for _, p := range s.Points {
		i := int(model.DateOnly(p.Date).Sub(first).Hours() / 24)
		if i >= 0 && i < n {
			vals[i] = p.Close
			have[i] = true
		}
	}

	// Forward fill, then backward fill whatever is still open at the front.
	for i := 1; i < n; i++ {
		if !have[i] && have[i-1] {
			vals[i] = vals[i-1]
			have[i] = true
		}
	}
	for i := n - 2; i >= 0; i-- {
		if !have[i] && have[i+1] {
			vals[i] = vals[i+1]
			have[i] = true
		}
	}

	pts := make([]model.PricePoint, n)
	for i := 0; i < n; i++ {
		pts[i] = model.PricePoint{Date: first.AddDate(0, 0, i), Close: vals[i]}
	}
	return model.PriceSeries{Ticker: s.Ticker, Points: pts}
}

// Fit regularizes the series and estimates the model coefficients by
// minimizing the conditional sum of squared residuals with Nelder-Mead.
// Fitting is attempted exactly once; any optimizer failure is returned as is.
func Fit(s model.PriceSeries) (*Model, error) {
	reg := Regularize(s)
	if len(reg.Points) < minObservations {
		return nil, &MinHistoryError{
			Ticker:       s.Ticker,
			Observations: len(reg.Points),
			Required:     minObservations,
		}
	}

	w := make([]float64, len(reg.Points)-1)
	for i := range w {
		w[i] = reg.Points[i+1].Close - reg.Points[i].Close
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return css(w, tanhAll(x))
		},
	}
	x0 := []float64{0.1, 0.1, 0.1, 0.1}

	result, err := optimize.Minimize(problem, x0, nil, &optimize.NelderMead{})
	if err != nil {
		return nil, fmt.Errorf("fit %s: %w", s.Ticker, err)
	}
	if math.IsInf(result.F, 0) || math.IsNaN(result.F) {
		return nil, fmt.Errorf("fit %s: objective did not converge", s.Ticker)
	}

	coef := tanhAll(result.X)
	m := &Model{
		ticker:   s.Ticker,
		phi:      coef[0],
		theta:    coef[1],
		sphi:     coef[2],
		stheta:   coef[3],
		diff:     w,
		resid:    residuals(w, coef),
		last:     reg.LastClose(),
		lastDate: reg.LastDate(),
	}
	return m, nil
}

// Forecast produces point forecasts for the given horizon at daily
// frequency, starting the day after the last regularized date. The horizon
// is clamped into [1, MaxHorizon] and negative forecasts are clamped to 0.
func (m *Model) Forecast(horizon int) *model.ForecastSeries {
	horizon = ClampHorizon(horizon)

	n := len(m.diff)
	w := make([]float64, n, n+horizon)
	copy(w, m.diff)
	e := make([]float64, n, n+horizon)
	copy(e, m.resid)

	out := &model.ForecastSeries{
		Ticker: m.ticker,
		Points: make([]model.ForecastPoint, horizon),
	}
	level := m.last
	for k := 0; k < horizon; k++ {
		pred := step(w, e, n+k, [4]float64{m.phi, m.theta, m.sphi, m.stheta})
		w = append(w, pred)
		e = append(e, 0) // future shocks are zero in point forecasts
		level += pred

		v := level
		if v < 0 {
			v = 0 // prices cannot be negative; clamp without feeding back
		}
		out.Points[k] = model.ForecastPoint{
			Date:  m.lastDate.AddDate(0, 0, k+1),
			Close: v,
		}
	}
	return out
}

// ClampHorizon forces the horizon into the supported [1, MaxHorizon] range.
func ClampHorizon(h int) int {
	if h < 1 {
		return 1
	}
	if h > MaxHorizon {
		return MaxHorizon
	}
	return h
}

// step evaluates the multiplicative seasonal ARMA recursion
// (1-phiB)(1-sphiB^7)w = (1+thetaB)(1+sthetaB^7)e at index t, with
// out-of-range lags treated as zero.
func step(w, e []float64, t int, coef [4]float64) float64 {
	phi, theta, sphi, stheta := coef[0], coef[1], coef[2], coef[3]
	s := seasonalPeriod

	var pred float64
	if t >= 1 {
		pred += phi*w[t-1] + theta*e[t-1]
	}
	if t >= s {
		pred += sphi*w[t-s] + stheta*e[t-s]
	}
	if t >= s+1 {
		pred += -phi*sphi*w[t-s-1] + theta*stheta*e[t-s-1]
	}
	return pred
}

// residuals runs the recursion over the whole differenced series.
func residuals(w []float64, coef [4]float64) []float64 {
	e := make([]float64, len(w))
	for t := range w {
		e[t] = w[t] - step(w, e, t, coef)
	}
	return e
}

// css is the conditional sum of squared residuals, skipping the burn-in.
// Non-finite sums map to +Inf so the optimizer backs away.
func css(w []float64, coef [4]float64) float64 {
	e := residuals(w, coef)
	var sse float64
	for t := cssBurn; t < len(e); t++ {
		sse += e[t] * e[t]
	}
	if math.IsNaN(sse) || math.IsInf(sse, 0) {
		return math.Inf(1)
	}
	return sse
}

func tanhAll(x []float64) [4]float64 {
	var out [4]float64
	for i := 0; i < 4 && i < len(x); i++ {
		out[i] = math.Tanh(x[i]) // keeps every coefficient inside (-1, 1)
	}
	return out
}
