package charts

import (
	"math"

	"metricchart/internal/models"
	"metricchart/internal/scene"
)

// Shape categories drawn by the histogram
const (
	ClassHistogram    = "histogram"
	ClassLeaderBar    = "leaderBar"
	ClassHigh         = "high"
	ClassSingleValue  = "singleValue"
	ClassLow          = "low"
	ClassTopStem      = "histogramTopStem"
	ClassBottomStem   = "histogramBottomStem"
	ClassTopCross     = "histogramTopCross"
	ClassBottomCross  = "histogramBottomCross"
	crossHalfWidth    = 3
	stemColor         = "red"
	stemOpacity       = "0.6"
	splitBarOpacity   = "0.9"
	minSplitBarHeight = 2
)

var (
	highBarSelectors = []string{"rect." + ClassHigh, "rect." + ClassSingleValue}
	lowBarSelectors  = []string{"rect." + ClassLow}
	stemSelectors    = []string{"." + ClassTopStem, "." + ClassBottomStem, "." + ClassTopCross, "." + ClassBottomCross}
)

type bucketBuild = func(*scene.Bound[models.BucketPoint])

// HistogramChart draws one bar per bucket with the high/low spread either as
// stems or as split bars
type HistogramChart struct{}

// Name returns the chart type name
func (HistogramChart) Name() string { return "histogram" }

// DrawChart updates ctx.SVG so it exactly reflects ctx.Data
func (HistogramChart) DrawChart(ctx *RenderContext, stacked bool) {
	barClass, staleClass := ClassHistogram, ClassLeaderBar
	if stacked {
		barClass, staleClass = ClassLeaderBar, ClassHistogram
	}

	ctx.SVG.RemoveAll("rect." + staleClass)
	scene.Reconcile(ctx.SVG, ctx.Data, "rect", buildBars(ctx, barClass, stacked), "rect."+barClass)

	switch {
	case ctx.HideHighLowValues:
		ctx.SVG.RemoveAll(stemSelectors...)
		ctx.SVG.RemoveAll(highBarSelectors...)
		ctx.SVG.RemoveAll(lowBarSelectors...)
	case stacked:
		ctx.SVG.RemoveAll(stemSelectors...)
		createStackedHighLowValues(ctx)
	default:
		ctx.SVG.RemoveAll(highBarSelectors...)
		ctx.SVG.RemoveAll(lowBarSelectors...)
		createUnstackedHighLowValues(ctx)
	}
}

func createStackedHighLowValues(ctx *RenderContext) {
	// upper portion representing avg to high
	scene.Reconcile(ctx.SVG, ctx.Data, "rect", buildHighBar(ctx), highBarSelectors...)
	// lower portion representing avg to low
	scene.Reconcile(ctx.SVG, ctx.Data, "rect", buildLowerBar(ctx), lowBarSelectors...)
}

func createUnstackedHighLowValues(ctx *RenderContext) {
	scene.Reconcile(ctx.SVG, ctx.Data, "line", buildTopStem(ctx), "."+ClassTopStem)
	scene.Reconcile(ctx.SVG, ctx.Data, "line", buildLowStem(ctx), "."+ClassBottomStem)
	scene.Reconcile(ctx.SVG, ctx.Data, "line", buildTopCross(ctx), "."+ClassTopCross)
	scene.Reconcile(ctx.SVG, ctx.Data, "line", buildBottomCross(ctx), "."+ClassBottomCross)
}

func buildBars(ctx *RenderContext, barClass string, stacked bool) bucketBuild {
	opacity, fill := "1", "#C0C0C0"
	if stacked {
		opacity, fill = ".6", "#D3D3D6"
	}
	return func(b *scene.Bound[models.BucketPoint]) {
		b.ClassConst(barClass).
			AttrFloat("x", func(d models.BucketPoint, i int) float64 { return barX(ctx, d, i) }).
			AttrFloat("width", func(_ models.BucketPoint, i int) float64 { return barWidth(ctx, i) }).
			AttrFloat("y", func(d models.BucketPoint, _ int) float64 { return barY(ctx, d) }).
			AttrFloat("height", func(d models.BucketPoint, _ int) float64 { return barHeight(ctx, d) }).
			AttrConst("opacity", opacity).
			Attr("fill", func(d models.BucketPoint, _ int) string {
				if d.IsEmpty() {
					return "url(#" + scene.NoDataPattern + ")"
				}
				return fill
			}).
			AttrConst("stroke", "#777").
			AttrConst("stroke-width", "0").
			AttrFloat("data-value", func(d models.BucketPoint, _ int) float64 { return barValue(d) })
		attachTip(b, ctx.Tip)
	}
}

func buildHighBar(ctx *RenderContext) bucketBuild {
	return func(b *scene.Bound[models.BucketPoint]) {
		b.Class(func(d models.BucketPoint, _ int) string {
			if d.SingleValue() {
				return ClassSingleValue
			}
			return ClassHigh
		}).
			AttrFloat("x", func(d models.BucketPoint, i int) float64 { return barX(ctx, d, i) }).
			AttrFloat("y", func(d models.BucketPoint, _ int) float64 { return highBarY(ctx, d) }).
			AttrFloat("height", func(d models.BucketPoint, _ int) float64 { return highBarHeight(ctx, d) }).
			AttrFloat("width", func(_ models.BucketPoint, i int) float64 { return barWidth(ctx, i) }).
			AttrConst("opacity", splitBarOpacity)
		attachTip(b, ctx.Tip)
	}
}

func buildLowerBar(ctx *RenderContext) bucketBuild {
	return func(b *scene.Bound[models.BucketPoint]) {
		b.ClassConst(ClassLow).
			AttrFloat("x", func(d models.BucketPoint, i int) float64 { return barX(ctx, d, i) }).
			AttrFloat("y", func(d models.BucketPoint, _ int) float64 { return lowBarY(ctx, d) }).
			AttrFloat("height", func(d models.BucketPoint, _ int) float64 { return lowBarHeight(ctx, d) }).
			AttrFloat("width", func(_ models.BucketPoint, i int) float64 { return barWidth(ctx, i) }).
			AttrConst("opacity", splitBarOpacity)
		attachTip(b, ctx.Tip)
	}
}

// stemLine describes one of the four high/low line categories
type stemLine struct {
	class   string
	halfW   float64
	width   string
	y1, y2  func(d models.BucketPoint) float64
	visible func(d models.BucketPoint) bool
}

func buildStemLine(ctx *RenderContext, s stemLine) bucketBuild {
	return func(b *scene.Bound[models.BucketPoint]) {
		b.ClassConst(s.class)
		shown, hidden := b.Partition(func(d models.BucketPoint, _ int) bool { return s.visible(d) })

		// empty buckets keep their node but draw nothing
		hidden.RemoveAttr("x1", "x2", "y1", "y2", "stroke", "stroke-width", "stroke-opacity").
			AttrConst("display", "none")

		shown.RemoveAttr("display").
			AttrFloat("x1", func(d models.BucketPoint, _ int) float64 { return ctx.Axis.TimeScale(d.Timestamp()) - s.halfW }).
			AttrFloat("x2", func(d models.BucketPoint, _ int) float64 { return ctx.Axis.TimeScale(d.Timestamp()) + s.halfW }).
			AttrFloat("y1", func(d models.BucketPoint, _ int) float64 { return s.y1(d) }).
			AttrFloat("y2", func(d models.BucketPoint, _ int) float64 { return s.y2(d) }).
			AttrConst("stroke", stemColor).
			AttrConst("stroke-opacity", stemOpacity)
		if s.width != "" {
			shown.AttrConst("stroke-width", s.width)
		} else {
			shown.RemoveAttr("stroke-width")
		}
		attachTip(b, ctx.Tip)
	}
}

func buildTopStem(ctx *RenderContext) bucketBuild {
	return buildStemLine(ctx, stemLine{
		class:   ClassTopStem,
		y1:      func(d models.BucketPoint) float64 { return ctx.Axis.YScale(d.Max) },
		y2:      func(d models.BucketPoint) float64 { return ctx.Axis.YScale(d.Avg) },
		visible: hasMax,
	})
}

func buildLowStem(ctx *RenderContext) bucketBuild {
	return buildStemLine(ctx, stemLine{
		class:   ClassBottomStem,
		y1:      func(d models.BucketPoint) float64 { return ctx.Axis.YScale(d.Avg) },
		y2:      func(d models.BucketPoint) float64 { return ctx.Axis.YScale(d.Min) },
		visible: hasMin,
	})
}

func buildTopCross(ctx *RenderContext) bucketBuild {
	return buildStemLine(ctx, stemLine{
		class:   ClassTopCross,
		halfW:   crossHalfWidth,
		width:   "0.5",
		y1:      func(d models.BucketPoint) float64 { return ctx.Axis.YScale(d.Max) },
		y2:      func(d models.BucketPoint) float64 { return ctx.Axis.YScale(d.Max) },
		visible: hasMax,
	})
}

func buildBottomCross(ctx *RenderContext) bucketBuild {
	return buildStemLine(ctx, stemLine{
		class:   ClassBottomCross,
		halfW:   crossHalfWidth,
		width:   "0.5",
		y1:      func(d models.BucketPoint) float64 { return ctx.Axis.YScale(d.Min) },
		y2:      func(d models.BucketPoint) float64 { return ctx.Axis.YScale(d.Min) },
		visible: hasMin,
	})
}

func hasMax(d models.BucketPoint) bool { return !d.IsEmpty() && !math.IsNaN(d.Max) }

func hasMin(d models.BucketPoint) bool { return !d.IsEmpty() && !math.IsNaN(d.Min) }

// attachTip wires hover handlers to the shared tooltip
func attachTip(b *scene.Bound[models.BucketPoint], tip Tip) {
	if tip == nil {
		b.On("mouseover", nil).On("mouseout", nil)
		return
	}
	b.On("mouseover", func(d models.BucketPoint, i int) { tip.Show(d, i) }).
		On("mouseout", func(models.BucketPoint, int) { tip.Hide() })
}

func barX(ctx *RenderContext, d models.BucketPoint, i int) float64 {
	return BarXPos(d.Timestamp(), i, ctx.Layout.Width, ctx.Axis.TimeScale, len(ctx.Data))
}

func barWidth(ctx *RenderContext, i int) float64 {
	return BarWidthAdjusted(i, ctx.Layout.Width, len(ctx.Data))
}

func barY(ctx *RenderContext, d models.BucketPoint) float64 {
	if d.IsEmpty() {
		return 0
	}
	return ctx.Axis.YScale(d.Avg)
}

func barHeight(ctx *RenderContext, d models.BucketPoint) float64 {
	if d.IsEmpty() {
		return 0
	}
	return nonNegative(ctx.Layout.ModifiedInnerChartHeight - ctx.Axis.YScale(d.Avg))
}

func barValue(d models.BucketPoint) float64 {
	if math.IsNaN(d.Avg) {
		return 0
	}
	return d.Avg
}

func highBarY(ctx *RenderContext, d models.BucketPoint) float64 {
	if math.IsNaN(d.Max) {
		return ctx.Axis.YScale(ctx.Axis.ChartRange.High)
	}
	return ctx.Axis.YScale(d.Max)
}

func highBarHeight(ctx *RenderContext, d models.BucketPoint) float64 {
	if d.IsEmpty() {
		return 0
	}
	h := ctx.Axis.YScale(d.Avg) - ctx.Axis.YScale(d.Max)
	if h == 0 || math.IsNaN(h) {
		return minSplitBarHeight
	}
	return nonNegative(h)
}

func lowBarY(ctx *RenderContext, d models.BucketPoint) float64 {
	if math.IsNaN(d.Avg) {
		return ctx.Layout.Height
	}
	return ctx.Axis.YScale(d.Avg)
}

func lowBarHeight(ctx *RenderContext, d models.BucketPoint) float64 {
	if d.IsEmpty() {
		return 0
	}
	return nonNegative(ctx.Axis.YScale(d.Min) - ctx.Axis.YScale(d.Avg))
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
