package charts

import (
	"math"
	"time"

	"github.com/samber/lo"

	"metricchart/internal/models"
	"metricchart/internal/scale"
	"metricchart/internal/scene"
)

// Chart margins applied by NewLayout
const (
	marginTop    = 10
	marginBottom = 5
	xAxisHeight  = 15
)

// Tip is the shared hover tooltip
type Tip interface {
	Show(datum any, index int)
	Hide()
}

// Layout holds chart dimensions in pixels
type Layout struct {
	Width                    float64
	Height                   float64
	ModifiedInnerChartHeight float64
}

// NewLayout derives the inner plotting height from the outer chart size
func NewLayout(width, height float64) Layout {
	return Layout{
		Width:                    width,
		Height:                   height,
		ModifiedInnerChartHeight: math.Max(0, height-marginTop-marginBottom-xAxisHeight),
	}
}

// ChartRange is the value range covered by the y axis
type ChartRange struct {
	Low  float64
	High float64
}

// Axis holds the coordinate scale functions
type Axis struct {
	TimeScale  func(time.Time) float64
	YScale     func(float64) float64
	ChartRange ChartRange
}

// RenderContext is everything a renderer reads during one redraw.
// The caller owns it and may change it between redraws.
type RenderContext struct {
	SVG               *scene.Surface
	Data              []models.BucketPoint
	Layout            Layout
	Axis              Axis
	Tip               Tip
	HideHighLowValues bool
	Interpolation     string
}

// Options are the display flags for NewRenderContext
type Options struct {
	HideHighLowValues bool
	Interpolation     string
	Tip               Tip
}

// NewRenderContext builds scales for data and forecast onto the surface
func NewRenderContext(svg *scene.Surface, data []models.BucketPoint, forecast []models.PredictivePoint, opts Options) *RenderContext {
	layout := NewLayout(svg.Width, svg.Height)
	chartRange := ComputeChartRange(data, forecast)
	start, end := timeDomain(data, forecast)

	ts := scale.NewTime(start, end, 0, layout.Width)
	ys := scale.NewLinear(chartRange.Low, chartRange.High, layout.ModifiedInnerChartHeight, 0)

	return &RenderContext{
		SVG:    svg,
		Data:   data,
		Layout: layout,
		Axis: Axis{
			TimeScale:  ts.Scale,
			YScale:     ys.Scale,
			ChartRange: chartRange,
		},
		Tip:               opts.Tip,
		HideHighLowValues: opts.HideHighLowValues,
		Interpolation:     opts.Interpolation,
	}
}

// ComputeChartRange returns the padded value range of the buckets and forecast.
// The range is padded by a tenth of its span and floored at zero for
// non-negative data.
func ComputeChartRange(data []models.BucketPoint, forecast []models.PredictivePoint) ChartRange {
	var values []float64
	for _, d := range lo.Filter(data, func(d models.BucketPoint, _ int) bool { return !d.IsEmpty() }) {
		values = append(values, d.Avg, d.Min, d.Max)
	}
	for _, p := range forecast {
		values = append(values, p.Value)
		if p.Min != nil {
			values = append(values, *p.Min)
		}
		if p.Max != nil {
			values = append(values, *p.Max)
		}
	}

	low, high, ok := scale.Extent(values)
	if !ok {
		return ChartRange{Low: 0, High: 1}
	}

	pad := (high - low) * 0.1
	if pad == 0 {
		pad = math.Max(math.Abs(high)*0.1, 1)
	}
	r := ChartRange{Low: low - pad, High: high + pad}
	if low >= 0 && r.Low < 0 {
		r.Low = 0
	}
	return r
}

func timeDomain(data []models.BucketPoint, forecast []models.PredictivePoint) (time.Time, time.Time) {
	var stamps []time.Time
	if len(data) > 0 {
		stamps = append(stamps, data[0].Timestamp(), data[len(data)-1].Timestamp())
	}
	if len(forecast) > 0 {
		stamps = append(stamps, forecast[0].Timestamp, forecast[len(forecast)-1].Timestamp)
	}
	if len(stamps) == 0 {
		return time.Time{}, time.Time{}
	}
	start := lo.MinBy(stamps, func(a, b time.Time) bool { return a.Before(b) })
	end := lo.MaxBy(stamps, func(a, b time.Time) bool { return a.After(b) })
	return start, end
}
