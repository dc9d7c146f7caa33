package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"metricchart/internal/charts"
	"metricchart/internal/config"
	"metricchart/internal/fetchers"
	"metricchart/internal/render"
	"metricchart/internal/scene"
)

// Hover events accepted by Chart.Hover
const (
	EventMouseOver = "mouseover"
	EventMouseOut  = "mouseout"
)

// ErrNoElement is returned by Hover when no element matches the category and index
var ErrNoElement = errors.New("no element at index")

// ChartStatus summarises the last refresh of a chart
type ChartStatus struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	Metric    string    `json:"metric"`
	Buckets   int       `json:"buckets"`
	Forecast  int       `json:"forecastPoints"`
	Elements  int       `json:"elements"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Chart owns one retained surface and redraws it from fetched data.
// Redraws and hover dispatch are serialised.
type Chart struct {
	Spec config.ChartSpec

	mu        sync.Mutex
	chartType charts.ChartType
	svg       *scene.Surface
	tip       *charts.Tooltip
	data      *fetchers.ChartData
	updated   time.Time
	lastErr   error
}

// NewChart creates an empty chart of the given pixel size
func NewChart(spec config.ChartSpec, width, height int) (*Chart, error) {
	ct, err := charts.Lookup(spec.Type)
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", spec.ID, err)
	}
	return &Chart{
		Spec:      spec,
		chartType: ct,
		svg:       scene.NewSurface(float64(width), float64(height)),
		tip:       charts.NewTooltip(),
	}, nil
}

// queries builds the fetch window ending at now
func (c *Chart) queries(now time.Time) (fetchers.Query, *fetchers.ForecastQuery) {
	q := fetchers.Query{
		Metric:  c.Spec.Metric,
		Start:   now.Add(-c.Spec.TimeRange.Std()),
		End:     now,
		Buckets: c.Spec.Buckets,
	}
	if c.Spec.Forecast == nil {
		return q, nil
	}
	return q, &fetchers.ForecastQuery{
		Metric: c.Spec.Metric,
		From:   now,
		Ahead:  c.Spec.Forecast.Ahead.Std(),
		Points: c.Spec.Forecast.Points,
	}
}

// Refresh fetches the current window from src and redraws
func (c *Chart) Refresh(ctx context.Context, src fetchers.Source, now time.Time) error {
	q, fq := c.queries(now)
	data, err := fetchers.FetchChartData(ctx, src, q, fq)
	if err != nil {
		c.mu.Lock()
		c.lastErr = err
		c.mu.Unlock()
		return err
	}
	c.Redraw(data)
	return nil
}

// Redraw binds data to the surface. The surface keeps its elements between
// redraws so only the changed attributes move.
func (c *Chart) Redraw(data *fetchers.ChartData) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx := charts.NewRenderContext(c.svg, data.Buckets, data.Forecast, charts.Options{
		HideHighLowValues: c.Spec.HideHighLow,
		Interpolation:     c.Spec.Interpolation,
		Tip:               c.tip,
	})
	c.chartType.DrawChart(ctx, c.Spec.Stacked)
	charts.ShowForecastData(data.Forecast, ctx)

	c.data = data
	c.updated = data.Fetched
	if c.updated.IsZero() {
		c.updated = time.Now()
	}
	c.lastErr = nil
}

// Hover dispatches a pointer event to the index-th element of a category
// (a class name such as "histogram" or "coneArea") and returns the tooltip
func (c *Chart) Hover(category string, index int, event string) (charts.TooltipState, error) {
	if event != EventMouseOver && event != EventMouseOut {
		return charts.TooltipState{}, fmt.Errorf("unsupported event %q", event)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	nodes := c.svg.SelectAll("." + category)
	if index < 0 || index >= len(nodes) {
		return charts.TooltipState{}, fmt.Errorf("%w: %s[%d]", ErrNoElement, category, index)
	}
	c.svg.Dispatch(nodes[index], event)
	return c.tip.State(), nil
}

// SVG renders the current surface
func (c *Chart) SVG() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return render.SVGBytes(c.svg)
}

// PNG rasterises the current surface
func (c *Chart) PNG() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return render.PNGBytes(c.svg)
}

// Data returns the data of the last redraw, nil before the first one
func (c *Chart) Data() *fetchers.ChartData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data
}

// Status reports the chart's last refresh
func (c *Chart) Status() ChartStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := ChartStatus{
		ID:        c.Spec.ID,
		Title:     c.Spec.Title,
		Type:      c.chartType.Name(),
		Metric:    c.Spec.Metric,
		Elements:  c.svg.Len(),
		UpdatedAt: c.updated,
	}
	if c.data != nil {
		s.Buckets = len(c.data.Buckets)
		s.Forecast = len(c.data.Forecast)
	}
	if c.lastErr != nil {
		s.Error = c.lastErr.Error()
	}
	return s
}
