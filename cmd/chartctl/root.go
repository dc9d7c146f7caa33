package main

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/xhit/go-str2duration/v2"

	"metricchart/internal/charts"
	"metricchart/internal/config"
	"metricchart/internal/fetchers"
	"metricchart/internal/logger"
	"metricchart/internal/mocks"
	"metricchart/internal/models"
	"metricchart/internal/scene"
	"metricchart/internal/shape"
)

// chartFlags are shared by render and inspect
type chartFlags struct {
	input          string
	forecastInput  string
	metric         string
	chartType      string
	stacked        bool
	hideHighLow    bool
	interpolation  string
	buckets        int
	timeRange      string
	end            string
	forecastPoints int
	width          int
	height         int
}

func (f *chartFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.input, "input", "i", "", "JSON file of buckets; generated data when empty")
	fs.StringVar(&f.forecastInput, "forecast-input", "", "JSON file of predicted points")
	fs.StringVarP(&f.metric, "metric", "m", "demo.metric", "metric name seeding generated data")
	fs.StringVarP(&f.chartType, "type", "t", "histogram", "chart type: "+strings.Join(charts.ChartTypeNames(), ", "))
	fs.BoolVar(&f.stacked, "stacked", false, "draw a single stacked bar per bucket")
	fs.BoolVar(&f.hideHighLow, "hide-high-low", false, "hide min/max stems")
	fs.StringVar(&f.interpolation, "interpolation", "", "forecast curve interpolation")
	fs.IntVarP(&f.buckets, "buckets", "b", 60, "number of generated buckets")
	fs.StringVar(&f.timeRange, "range", "8h", "generated time range, e.g. 90m, 1d")
	fs.StringVar(&f.end, "end", "", "end of the generated window (RFC3339); now when empty")
	fs.IntVar(&f.forecastPoints, "forecast", 0, "number of generated forecast points; 0 disables")
	fs.IntVar(&f.width, "width", 750, "surface width in pixels")
	fs.IntVar(&f.height, "height", 250, "surface height in pixels")
}

// loadData reads the input files or generates a series ending at end
func (f *chartFlags) loadData(end time.Time) ([]models.BucketPoint, []models.PredictivePoint, error) {
	span, err := str2duration.ParseDuration(f.timeRange)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --range %q: %w", f.timeRange, err)
	}

	var buckets []models.BucketPoint
	if f.input != "" {
		if buckets, err = mocks.LoadBucketsFile(f.input); err != nil {
			return nil, nil, err
		}
	} else {
		buckets = mocks.GenerateBuckets(fetchers.Query{
			Metric:  f.metric,
			Start:   end.Add(-span),
			End:     end,
			Buckets: f.buckets,
		})
	}

	var forecast []models.PredictivePoint
	switch {
	case f.forecastInput != "":
		if forecast, err = mocks.LoadForecastFile(f.forecastInput); err != nil {
			return nil, nil, err
		}
	case f.forecastPoints > 0:
		last, _, ok := lo.FindLastIndexOf(buckets, func(b models.BucketPoint) bool { return !b.IsEmpty() })
		from := end
		if len(buckets) > 0 {
			from = buckets[len(buckets)-1].End
		}
		if ok {
			forecast = mocks.GenerateForecast(fetchers.ForecastQuery{
				Metric: f.metric,
				From:   from,
				Ahead:  span / 4,
				Points: f.forecastPoints,
			}, last.Avg)
		}
	}
	return buckets, forecast, nil
}

func (f *chartFlags) endTime() (time.Time, error) {
	if f.end == "" {
		return time.Now().UTC().Truncate(time.Minute), nil
	}
	end, err := time.Parse(time.RFC3339, f.end)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --end %q: %w", f.end, err)
	}
	return end, nil
}

// draw builds the chart surface the same way the service does
func (f *chartFlags) draw() (*scene.Surface, error) {
	ct, err := charts.Lookup(f.chartType)
	if err != nil {
		return nil, err
	}
	if f.interpolation != "" && !shape.Known(f.interpolation) {
		return nil, fmt.Errorf("unknown interpolation %q", f.interpolation)
	}
	if f.width <= 0 || f.height <= 0 {
		return nil, fmt.Errorf("invalid size %dx%d", f.width, f.height)
	}

	end, err := f.endTime()
	if err != nil {
		return nil, err
	}
	buckets, forecast, err := f.loadData(end)
	if err != nil {
		return nil, err
	}
	logger.Debug("Drawing chart", map[string]interface{}{
		"type":     ct.Name(),
		"buckets":  len(buckets),
		"forecast": len(forecast),
	})

	svg := scene.NewSurface(float64(f.width), float64(f.height))
	ctx := charts.NewRenderContext(svg, buckets, forecast, charts.Options{
		HideHighLowValues: f.hideHighLow,
		Interpolation:     f.interpolation,
	})
	ct.DrawChart(ctx, f.stacked)
	charts.ShowForecastData(forecast, ctx)
	return svg, nil
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:          "chartctl",
		Short:        "Render and inspect metric charts offline.",
		SilenceUsage: true,
	}
	root.PersistentPreRun = func(*cobra.Command, []string) {
		logger.GetGlobalLogger().SetLevel(logger.ParseLevel(logLevel))
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(newRenderCmd(), newInspectCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of chartctl.",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("chartctl %s (%s)\n", config.GetVersion(), runtime.Version())
		},
	}
}
