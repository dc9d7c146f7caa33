package charts

import (
	"metricchart/internal/models"
	"metricchart/internal/scene"
	"metricchart/internal/shape"
)

// ClassAvgLine is the class of the average line path
const ClassAvgLine = "avgLine"

// LineChart draws the bucket averages as a single path with gaps at empty buckets
type LineChart struct{}

// Name returns the chart type name
func (LineChart) Name() string { return "line" }

// DrawChart updates the average line. stacked has no effect on a line.
func (LineChart) DrawChart(ctx *RenderContext, _ bool) {
	interpolation := ctx.Interpolation
	if interpolation == "" {
		interpolation = shape.Monotone
	}
	line := shape.Line[models.BucketPoint]{
		X:             func(d models.BucketPoint, _ int) float64 { return ctx.Axis.TimeScale(d.Timestamp()) },
		Y:             func(d models.BucketPoint, _ int) float64 { return ctx.Axis.YScale(d.Avg) },
		Defined:       func(d models.BucketPoint, _ int) bool { return !d.IsEmpty() },
		Interpolation: interpolation,
	}

	scene.Reconcile(ctx.SVG, [][]models.BucketPoint{ctx.Data}, "path", func(b *scene.Bound[[]models.BucketPoint]) {
		b.ClassConst(ClassAvgLine).
			Attr("d", func(d []models.BucketPoint, _ int) string { return line.Path(d) }).
			AttrConst("fill", "none").
			AttrConst("stroke", "#2e6e9e").
			AttrConst("stroke-width", "1.5")
	}, "path."+ClassAvgLine)
}
