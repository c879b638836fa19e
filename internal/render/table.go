// Package render draws core outputs to a terminal. It consumes the
// structures produced by the ranking, forecast and assemble packages and
// holds no core logic of its own.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/LockhartNox/crypto-dashboard/internal/config"
	"github.com/LockhartNox/crypto-dashboard/internal/model"
)

var periodLabels = map[model.Period]string{
	model.PeriodDaily:   "Daily (%)",
	model.PeriodWeekly:  "Weekly (%)",
	model.PeriodMonthly: "Monthly (%)",
}

// RankingTable renders the percentage-change ranking. Prices are converted
// to the display currency here; the rows keep their native values.
func RankingTable(w io.Writer, rows []model.RankingRow, cur config.Currency, period model.Period) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleColoredDark)
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateColumns = false

	tw.AppendHeader(table.Row{"#", "NAME", "TICKER", strings.ToUpper(periodLabels[period]), "PRICE"})
	for i, r := range rows {
		change := "N/A"
		if r.ChangeDefined {
			change = fmt.Sprintf("%+.2f%%", r.Change)
			if r.Change >= 0 {
				change = text.Colors{text.FgGreen}.Sprint(change)
			} else {
				change = text.Colors{text.FgRed}.Sprint(change)
			}
		}
		tw.AppendRow(table.Row{
			i + 1,
			r.Name,
			shortTicker(r.Ticker),
			change,
			money(r.Price, cur),
		})
	}
	tw.Render()
}

// PriceTiles renders the latest price per selected ticker as metric tiles.
func PriceTiles(w io.Writer, tickers []model.Ticker, t *model.PriceTable, names map[model.Ticker]string, cur config.Currency) {
	if t.IsEmpty() || len(tickers) == 0 {
		return
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)

	hdr := make(table.Row, 0, len(tickers))
	row := make(table.Row, 0, len(tickers))
	last := t.Len() - 1
	for _, tk := range tickers {
		name := names[tk]
		if name == "" {
			name = shortTicker(tk)
		}
		hdr = append(hdr, name)
		row = append(row, money(t.Close(tk, last), cur))
	}
	tw.AppendHeader(hdr)
	tw.AppendRow(row)
	tw.Render()
}

// ForecastTiles renders the terminal forecast value per ticker. Failed
// tickers show "unavailable" rather than a number.
func ForecastTiles(w io.Writer, order []model.Ticker, outcomes map[model.Ticker]model.Outcome, names map[model.Ticker]string, cur config.Currency, horizon int) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(fmt.Sprintf("Forecast, day %d", horizon))

	hdr := make(table.Row, 0, len(order))
	row := make(table.Row, 0, len(order))
	for _, tk := range order {
		name := names[tk]
		if name == "" {
			name = shortTicker(tk)
		}
		hdr = append(hdr, name)

		o, ok := outcomes[tk]
		if !ok || o.Failed() {
			row = append(row, text.Colors{text.FgYellow}.Sprint("unavailable"))
			continue
		}
		row = append(row, money(o.Series.Terminal(), cur))
	}
	tw.AppendHeader(hdr)
	tw.AppendRow(row)
	tw.Render()
}

func money(v float64, cur config.Currency) string {
	return cur.Symbol + humanize.CommafWithDigits(v*cur.Rate, 2)
}

func shortTicker(t model.Ticker) string {
	return strings.TrimSuffix(string(t), "-USD")
}
