package charts

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownChartType is returned by Lookup for unregistered names
var ErrUnknownChartType = errors.New("unknown chart type")

// ChartType draws one kind of chart from a render context
type ChartType interface {
	Name() string
	DrawChart(ctx *RenderContext, stacked bool)
}

// RhqBarChart is the histogram always drawn in stacked mode
type RhqBarChart struct {
	HistogramChart
}

// Name returns the chart type name
func (RhqBarChart) Name() string { return "rhqbar" }

// DrawChart draws the stacked histogram regardless of stacked
func (c RhqBarChart) DrawChart(ctx *RenderContext, _ bool) {
	c.HistogramChart.DrawChart(ctx, true)
}

var registry = map[string]ChartType{}

func register(types ...ChartType) {
	for _, t := range types {
		registry[t.Name()] = t
	}
}

func init() {
	register(HistogramChart{}, RhqBarChart{}, LineChart{})
}

// Lookup returns the chart type registered under name
func Lookup(name string) (ChartType, error) {
	t, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChartType, name)
	}
	return t, nil
}

// ChartTypeNames returns the registered chart type names, sorted
func ChartTypeNames() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
