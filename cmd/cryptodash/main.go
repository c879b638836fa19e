package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/LockhartNox/crypto-dashboard/internal/assemble"
	"github.com/LockhartNox/crypto-dashboard/internal/config"
	"github.com/LockhartNox/crypto-dashboard/internal/forecast"
	"github.com/LockhartNox/crypto-dashboard/internal/model"
	"github.com/LockhartNox/crypto-dashboard/internal/ranking"
	"github.com/LockhartNox/crypto-dashboard/internal/render"
	"github.com/LockhartNox/crypto-dashboard/internal/source"
	"github.com/LockhartNox/crypto-dashboard/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cryptodash",
		Short:         "Crypto price ranking and forecast dashboard",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().String("config", "configs/config.yaml", "path to config file")
	root.PersistentFlags().String("currency", "USD", "display currency")
	viper.SetEnvPrefix("CRYPTODASH")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("config", root.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("currency", root.PersistentFlags().Lookup("currency"))

	root.AddCommand(newRankCmd(), newForecastCmd(), newDashboardCmd())
	return root
}

// app wires the configured data source and store behind the subcommands.
type app struct {
	cfg   *config.Config
	store *store.Store
	close func() error
}

func setup() (*app, error) {
	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	var src source.Source
	closeFn := func() error { return nil }
	if cfg.DataSource.Kind == "sqlite" {
		ss, err := source.NewSQLiteSource(cfg.DataSource.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("init sqlite source: %w", err)
		}
		src = ss
		closeFn = ss.Close
	} else {
		src = source.NewYahooSource(cfg.DataSource.Proxy)
	}
	log.Printf("[INFO] data source: %s", src.Name())

	st := store.New(src, cfg.StartDate(), store.WithTTL(cfg.CacheTTL()))
	return &app{cfg: cfg, store: st, close: closeFn}, nil
}

func (a *app) currency() (config.Currency, string, error) {
	code := strings.ToUpper(viper.GetString("currency"))
	cur, ok := a.cfg.Currencies[code]
	if !ok {
		return config.Currency{}, "", fmt.Errorf("unknown currency %q", code)
	}
	return cur, code, nil
}

// resolveTickers maps user selections (display names or tickers) onto the
// configured universe, preserving selection order. Empty means everything.
func (a *app) resolveTickers(selected []string) ([]model.Ticker, error) {
	if len(selected) == 0 {
		return a.cfg.Tickers(), nil
	}
	out := make([]model.Ticker, 0, len(selected))
	for _, sel := range selected {
		var found bool
		for _, asset := range a.cfg.Universe {
			if strings.EqualFold(sel, asset.Name) || strings.EqualFold(sel, asset.Ticker) {
				out = append(out, model.Ticker(asset.Ticker))
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown asset %q (not in the configured universe)", sel)
		}
	}
	return out, nil
}

func newRankCmd() *cobra.Command {
	var periodFlag string
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank the universe by percentage change",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			cur, _, err := a.currency()
			if err != nil {
				return err
			}
			period := model.Period(periodFlag)
			if !period.Valid() {
				return fmt.Errorf("unknown period %q (daily, weekly or monthly)", periodFlag)
			}

			table, err := a.store.Get(cmd.Context(), a.cfg.Tickers())
			if err != nil {
				return describeNoData(err)
			}
			rows, err := ranking.Rank(table, period, a.cfg.Names())
			if err != nil {
				return err
			}
			render.RankingTable(cmd.OutOrStdout(), rows, cur, period)
			return nil
		},
	}
	cmd.Flags().StringVar(&periodFlag, "period", "daily", "change period: daily, weekly or monthly")
	return cmd
}

func newForecastCmd() *cobra.Command {
	var (
		horizon int
		picks   []string
	)
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast daily closes per asset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			cur, _, err := a.currency()
			if err != nil {
				return err
			}
			tickers, err := a.resolveTickers(picks)
			if err != nil {
				return err
			}

			table, err := a.store.Get(cmd.Context(), a.cfg.Tickers())
			if err != nil {
				return describeNoData(err)
			}

			h := a.effectiveHorizon(horizon)
			outcomes := a.runForecasts(cmd.Context(), table, tickers, h)
			render.ForecastTiles(cmd.OutOrStdout(), tickers, outcomes, a.cfg.Names(), cur, h)
			return nil
		},
	}
	cmd.Flags().IntVar(&horizon, "horizon", 0, "forecast horizon in days (1-30, 0 uses the config default)")
	cmd.Flags().StringSliceVar(&picks, "assets", nil, "assets to forecast (names or tickers, default all)")
	return cmd
}

func newDashboardCmd() *cobra.Command {
	var (
		horizon    int
		periodFlag string
		picks      []string
		watch      bool
	)
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Render ranking, prices, forecasts and chart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			period := model.Period(periodFlag)
			if !period.Valid() {
				return fmt.Errorf("unknown period %q (daily, weekly or monthly)", periodFlag)
			}
			tickers, err := a.resolveTickers(picks)
			if err != nil {
				return err
			}
			h := a.effectiveHorizon(horizon)

			draw := func(ctx context.Context, refresh bool) error {
				var table *model.PriceTable
				var err error
				if refresh {
					table, err = a.store.Refresh(ctx, a.cfg.Tickers())
				} else {
					table, err = a.store.Get(ctx, a.cfg.Tickers())
				}
				if err != nil {
					return describeNoData(err)
				}
				return a.renderDashboard(ctx, cmd.OutOrStdout(), table, tickers, period, h)
			}

			if err := draw(cmd.Context(), false); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			// Watch mode: refetch and redraw on the configured cron spec
			// until interrupted.
			c := cron.New(cron.WithSeconds())
			if _, err := c.AddFunc(a.cfg.RefreshCron, func() {
				if err := draw(cmd.Context(), true); err != nil {
					log.Printf("[ERROR] refresh: %v", err)
				}
			}); err != nil {
				return fmt.Errorf("register refresh cron: %w", err)
			}
			c.Start()
			defer c.Stop()
			log.Printf("[INFO] watching (cron %q), press Ctrl+C to stop", a.cfg.RefreshCron)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh
			log.Println("[INFO] shutdown signal received, stopping")
			return nil
		},
	}
	cmd.Flags().IntVar(&horizon, "horizon", 0, "forecast horizon in days (1-30, 0 uses the config default)")
	cmd.Flags().StringVar(&periodFlag, "period", "daily", "change period: daily, weekly or monthly")
	cmd.Flags().StringSliceVar(&picks, "assets", nil, "assets to show (names or tickers, default all)")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep refreshing on the configured cron schedule")
	return cmd
}

// effectiveHorizon resolves a --horizon flag value: 0 means the configured
// default, anything else is clamped into the supported range. Every command
// resolves the flag exactly once, so the horizon used for fitting and the
// one shown in the output never diverge.
func (a *app) effectiveHorizon(flag int) int {
	if flag == 0 {
		flag = a.cfg.Forecast.DefaultHorizon
	}
	return forecast.ClampHorizon(flag)
}

// runForecasts expects an already resolved horizon.
func (a *app) runForecasts(ctx context.Context, table *model.PriceTable, tickers []model.Ticker, horizon int) map[model.Ticker]model.Outcome {
	series := make([]model.PriceSeries, 0, len(tickers))
	for _, t := range tickers {
		series = append(series, table.ObservedSeries(t))
	}
	return forecast.NewPipeline(a.cfg.Forecast.Workers).Batch(ctx, series, horizon)
}

func (a *app) renderDashboard(ctx context.Context, w io.Writer, table *model.PriceTable, tickers []model.Ticker, period model.Period, horizon int) error {
	cur, code, err := a.currency()
	if err != nil {
		return err
	}

	rows, err := ranking.Rank(table, period, a.cfg.Names())
	if err != nil {
		return err
	}
	render.RankingTable(w, rows, cur, period)
	render.PriceTiles(w, tickers, table, a.cfg.Names(), cur)

	outcomes := a.runForecasts(ctx, table, tickers, horizon)
	render.ForecastTiles(w, tickers, outcomes, a.cfg.Names(), cur, horizon)

	meta := make(map[model.Ticker]assemble.Meta, len(a.cfg.Universe))
	for _, asset := range a.cfg.Universe {
		meta[model.Ticker(asset.Ticker)] = assemble.Meta{Name: asset.Name, Color: asset.Color}
	}
	historical := make([]model.PriceSeries, 0, len(tickers))
	forecasts := make(map[model.Ticker]*model.ForecastSeries, len(tickers))
	for _, t := range tickers {
		historical = append(historical, table.Series(t))
		if o := outcomes[t]; !o.Failed() {
			forecasts[t] = o.Series
		}
	}
	combined := assemble.Assemble(historical, forecasts, cur.Rate, meta)
	render.Chart(w, combined, 15, code)
	return nil
}

func describeNoData(err error) error {
	if errors.Is(err, store.ErrNoData) {
		return fmt.Errorf("no data available from the market data source; nothing to render: %w", err)
	}
	return err
}
