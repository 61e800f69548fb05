// Command sunspots renders the sunspot dashboard, runs the cycle forecast
// and serves both over HTTP.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/sartorproj/sunspots/chart"
	"github.com/sartorproj/sunspots/config"
	"github.com/sartorproj/sunspots/export"
	"github.com/sartorproj/sunspots/forecast"
	"github.com/sartorproj/sunspots/logging"
	"github.com/sartorproj/sunspots/server"
	"github.com/sartorproj/sunspots/stats"
	"github.com/sartorproj/sunspots/timeseries"
)

var (
	configPath string
	dataPath   string

	cfg    config.Config
	logger *slog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "sunspots",
		Short:         "Sunspot activity dashboard and cycle forecast",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			if dataPath != "" {
				cfg.Data.Path = dataPath
			}
			logger = logging.New(cfg.Logging, os.Stderr)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVarP(&dataPath, "data", "d", "", "year,value input file (overrides data.path)")

	rootCmd.AddCommand(renderCmd())
	rootCmd.AddCommand(forecastCmd())
	rootCmd.AddCommand(prepareCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("command failed", "error", err)
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func loadSeries() (*timeseries.Series, error) {
	series, err := timeseries.Load(cfg.Data.Path)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded series", "path", cfg.Data.Path, "rows", series.Len(), "missing", series.CountMissing())
	return series, nil
}

// loadForecastSeries reads the ds,y file when one is configured and the
// year,value file otherwise.
func loadForecastSeries() (*timeseries.Series, error) {
	if cfg.Data.ForecastPath == "" {
		return loadSeries()
	}
	return timeseries.LoadForecastCSV(cfg.Data.ForecastPath)
}

func formatOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

func writeFigure(fig *chart.Figure, out string, width, height vg.Length) error {
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := fig.Render(f, formatOf(out), width, height); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func renderCmd() *cobra.Command {
	var (
		out     string
		from    int
		to      int
		bins    int
		degree  int
		size    float64
		alpha   float64
		smooth  int
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the four-panel dashboard to a PNG or SVG file",
		RunE: func(cmd *cobra.Command, args []string) error {
			series, err := loadSeries()
			if err != nil {
				return err
			}

			p := cfg.Dashboard.Params(series)
			flags := cmd.Flags()
			if flags.Changed("from") {
				p.YearFrom = from
			}
			if flags.Changed("to") {
				p.YearTo = to
			}
			if flags.Changed("bins") {
				p.Bins = bins
			}
			if flags.Changed("degree") {
				p.TrendDegree = degree
			}
			if flags.Changed("size") {
				p.PointSize = size
			}
			if flags.Changed("alpha") {
				p.PointAlpha = alpha
			}
			if flags.Changed("smooth") {
				p.Smooth = smooth
			}

			fig, err := chart.Dashboard(series, p)
			if err != nil {
				return err
			}
			for _, panel := range fig.Failed() {
				logger.Warn("panel failed", "panel", panel.Kind, "error", panel.Err)
			}

			if err := writeFigure(fig, out, 15*vg.Inch, 12*vg.Inch); err != nil {
				return err
			}
			fmt.Printf("Wrote %s (%d-%d, %d panels, %d failed)\n", out, p.YearFrom, p.YearTo, len(fig.Panels), len(fig.Failed()))

			if summary {
				fmt.Print(describe(series.Between(p.YearFrom, p.YearTo).Values))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "dashboard.png", "output file (.png or .svg)")
	cmd.Flags().IntVar(&from, "from", 0, "first year")
	cmd.Flags().IntVar(&to, "to", 0, "last year")
	cmd.Flags().IntVar(&bins, "bins", 30, "histogram bins")
	cmd.Flags().IntVar(&degree, "degree", 1, "trend polynomial degree")
	cmd.Flags().Float64Var(&size, "size", 20, "scatter point size (pt²)")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.5, "scatter point opacity")
	cmd.Flags().IntVar(&smooth, "smooth", 0, "moving-average window on the line panel (0 disables)")
	cmd.Flags().BoolVar(&summary, "summary", false, "print descriptive statistics of the selected range")
	return cmd
}

func forecastCmd() *cobra.Command {
	var (
		out        string
		horizon    int
		components bool
		dsPath     string
	)

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Fit the 11-year cycle model and print residual diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsPath != "" {
				cfg.Data.ForecastPath = dsPath
			}
			res, err := runForecast(cmd, horizon)
			if err != nil {
				return err
			}

			first, last := res.Points[0].Date.Year(), res.Points[len(res.Points)-1].Date.Year()
			fmt.Printf("Forecast %d-%d (%d observed, %d ahead)\n\n", first, last, res.History, len(res.Future()))
			fmt.Println("Residual summary:")
			fmt.Print(res.Residuals)
			if res.LjungBox != nil {
				fmt.Println()
				fmt.Println(res.LjungBox)
			}
			if res.ACF != nil {
				fmt.Printf("Residual ACF bound ±%.4f, significant lags %v\n", res.ACF.Bound, res.ACF.Significant())
			}

			if out == "" {
				return nil
			}
			fig := chart.ForecastFigure(res, components)
			if err := writeFigure(fig, out, 14*vg.Inch, 5*vg.Inch*vg.Length(len(fig.Panels))); err != nil {
				return err
			}
			fmt.Printf("\nWrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write the forecast figure to this file (.png or .svg)")
	cmd.Flags().IntVar(&horizon, "horizon", 30, "years to forecast")
	cmd.Flags().BoolVar(&components, "components", true, "include trend and cycle component panels")
	cmd.Flags().StringVar(&dsPath, "forecast-data", "", "ds,y input file (overrides data.forecast_path)")
	return cmd
}

func runForecast(cmd *cobra.Command, horizon int) (*forecast.Result, error) {
	series, err := loadForecastSeries()
	if err != nil {
		return nil, err
	}
	fc := cfg.Forecast
	if cmd.Flags().Changed("horizon") {
		fc.Horizon = horizon
	}
	res, err := forecast.Run(series, fc)
	if err != nil {
		return nil, err
	}
	logger.Info("forecast fitted",
		"observations", res.Model.NObs,
		"sigma", res.Model.Sigma,
		"aic", res.Model.AIC,
		"horizon", fc.Horizon,
	)
	return res, nil
}

func prepareCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Convert the year,value file into a ds,y forecast input file",
		RunE: func(cmd *cobra.Command, args []string) error {
			series, err := loadSeries()
			if err != nil {
				return err
			}
			if err := timeseries.SaveForecastFile(series, out); err != nil {
				return err
			}
			fmt.Printf("Wrote %s (%d rows)\n", out, series.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "data/sunspots_for_prophet.csv", "output ds,y file")
	return cmd
}

func exportCmd() *cobra.Command {
	var (
		out     string
		horizon int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the forecast table and diagnostics to an Excel workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := runForecast(cmd, horizon)
			if err != nil {
				return err
			}
			if err := export.Save(res, out); err != nil {
				return err
			}
			fmt.Printf("Wrote %s (%d rows)\n", out, len(res.Points))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "forecast.xlsx", "output workbook")
	cmd.Flags().IntVar(&horizon, "horizon", 30, "years to forecast")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				cfg.Server.Addr = addr
			}
			srv, err := server.New(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides server.addr)")
	return cmd
}

func describe(values []float64) string {
	return "\nSelected range:\n" + stats.Describe(values).String()
}
