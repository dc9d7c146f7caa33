package charts

import (
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metricchart/internal/models"
	"metricchart/internal/scene"
)

var baseTime = time.Date(2025, 9, 17, 12, 0, 0, 0, time.UTC)

func bucket(i int, avg, min, max float64) models.BucketPoint {
	start := baseTime.Add(time.Duration(i) * time.Minute)
	return models.BucketPoint{Start: start, End: start.Add(time.Minute), Avg: avg, Min: min, Max: max, Samples: 4}
}

func emptyBucket(i int) models.BucketPoint {
	b := bucket(i, 0, 0, 0)
	b.Empty = true
	b.Samples = 0
	return b
}

func series(n int) []models.BucketPoint {
	out := make([]models.BucketPoint, n)
	for i := range out {
		v := float64(i%5) + 2
		out[i] = bucket(i, v, v-1, v+1)
	}
	return out
}

// newContext binds data onto svg with fixed scales: 10px per minute, 0-10 over 100px
func newContext(svg *scene.Surface, data []models.BucketPoint) *RenderContext {
	return &RenderContext{
		SVG:    svg,
		Data:   data,
		Layout: Layout{Width: 200, Height: 130, ModifiedInnerChartHeight: 100},
		Axis: Axis{
			TimeScale:  func(t time.Time) float64 { return t.Sub(baseTime).Minutes() * 10 },
			YScale:     func(v float64) float64 { return 100 - v*10 },
			ChartRange: ChartRange{Low: 0, High: 10},
		},
	}
}

func visible(nodes []*scene.Element) []*scene.Element {
	var out []*scene.Element
	for _, n := range nodes {
		if !n.Hidden() {
			out = append(out, n)
		}
	}
	return out
}

func attr(t *testing.T, el *scene.Element, name string) string {
	t.Helper()
	v, ok := el.Attr(name)
	require.True(t, ok, "missing attribute %s on %s", name, el.Tag)
	return v
}

func TestDrawChartBarCountMatchesData(t *testing.T) {
	svg := scene.NewSurface(200, 130)
	for _, n := range []int{5, 12, 3, 0, 7} {
		ctx := newContext(svg, series(n))
		HistogramChart{}.DrawChart(ctx, false)
		assert.Len(t, svg.SelectAll("rect.histogram"), n, "after drawing %d buckets", n)
		for _, class := range []string{ClassTopStem, ClassBottomStem, ClassTopCross, ClassBottomCross} {
			assert.Len(t, svg.SelectAll("."+class), n, class)
		}
	}
}

func TestEmptyBucketsRenderAsHatchedZeroHeight(t *testing.T) {
	svg := scene.NewSurface(200, 130)
	e := emptyBucket(1)
	e.Avg, e.Min, e.Max = 7, 3, 9 // values on an empty bucket are ignored
	ctx := newContext(svg, []models.BucketPoint{bucket(0, 5, 2, 8), e, emptyBucket(2)})

	for _, stacked := range []bool{false, true} {
		HistogramChart{}.DrawChart(ctx, stacked)
		class := ClassHistogram
		if stacked {
			class = ClassLeaderBar
		}
		bars := svg.SelectAll("rect." + class)
		require.Len(t, bars, 3)
		for _, bar := range bars[1:] {
			assert.Equal(t, "0", attr(t, bar, "height"))
			assert.Equal(t, "url(#noDataStripes)", attr(t, bar, "fill"))
		}
	}
}

func TestUnstackedScenario(t *testing.T) {
	svg := scene.NewSurface(200, 130)
	ctx := newContext(svg, []models.BucketPoint{bucket(0, 5, 2, 8), emptyBucket(1)})

	HistogramChart{}.DrawChart(ctx, false)

	bars := svg.SelectAll("rect.histogram")
	require.Len(t, bars, 2)
	assert.Equal(t, "0", attr(t, bars[1], "height"))
	assert.Equal(t, "50", attr(t, bars[0], "y"))
	assert.Equal(t, "50", attr(t, bars[0], "height"))
	assert.Equal(t, "#C0C0C0", attr(t, bars[0], "fill"))

	top := visible(svg.SelectAll("." + ClassTopStem))
	bottom := visible(svg.SelectAll("." + ClassBottomStem))
	require.Len(t, top, 1)
	require.Len(t, bottom, 1)
	assert.Equal(t, 0, top[0].Index())
	assert.Equal(t, "20", attr(t, top[0], "y1"))
	assert.Equal(t, "50", attr(t, top[0], "y2"))
	assert.Equal(t, "80", attr(t, bottom[0], "y2"))

	// the empty bucket's stem draws nothing at all
	hidden := svg.SelectAll("." + ClassTopStem)[1]
	assert.True(t, hidden.Hidden())
	_, hasGeometry := hidden.Attr("y1")
	assert.False(t, hasGeometry)
}

func TestCrossTicksSpanSixPixels(t *testing.T) {
	svg := scene.NewSurface(200, 130)
	ctx := newContext(svg, []models.BucketPoint{bucket(0, 5, 2, 8), bucket(1, 5, 2, 8)})
	HistogramChart{}.DrawChart(ctx, false)

	cross := svg.SelectAll("." + ClassTopCross)[1]
	// bucket 1 midpoint is 1.5 minutes -> 15px
	assert.Equal(t, "12", attr(t, cross, "x1"))
	assert.Equal(t, "18", attr(t, cross, "x2"))
	assert.Equal(t, "0.5", attr(t, cross, "stroke-width"))
	assert.Equal(t, "red", attr(t, cross, "stroke"))
}

func TestToggleStacked(t *testing.T) {
	svg := scene.NewSurface(200, 130)
	ctx := newContext(svg, series(6))

	HistogramChart{}.DrawChart(ctx, false)
	assert.Len(t, svg.SelectAll(stemSelectors...), 24)
	assert.Empty(t, svg.SelectAll(highBarSelectors...))

	HistogramChart{}.DrawChart(ctx, true)
	assert.Empty(t, svg.SelectAll(stemSelectors...))
	assert.Empty(t, svg.SelectAll("rect.histogram"))
	assert.Len(t, svg.SelectAll("rect.leaderBar"), 6)
	assert.Len(t, svg.SelectAll(highBarSelectors...), 6)
	assert.Len(t, svg.SelectAll(lowBarSelectors...), 6)
	assert.Equal(t, ".6", attr(t, svg.SelectAll("rect.leaderBar")[0], "opacity"))

	HistogramChart{}.DrawChart(ctx, false)
	assert.Len(t, svg.SelectAll(stemSelectors...), 24)
	assert.Empty(t, svg.SelectAll(highBarSelectors...))
	assert.Empty(t, svg.SelectAll(lowBarSelectors...))
	assert.Empty(t, svg.SelectAll("rect.leaderBar"))
	assert.Equal(t, 6+24, svg.Len())
}

func TestHideHighLowValues(t *testing.T) {
	svg := scene.NewSurface(200, 130)
	ctx := newContext(svg, series(4))

	HistogramChart{}.DrawChart(ctx, false)
	require.NotEmpty(t, svg.SelectAll(stemSelectors...))

	ctx.HideHighLowValues = true
	HistogramChart{}.DrawChart(ctx, false)
	for _, class := range []string{ClassTopStem, ClassBottomStem, ClassTopCross, ClassBottomCross} {
		assert.Empty(t, svg.SelectAll("."+class), class)
	}
	assert.Len(t, svg.SelectAll("rect.histogram"), 4)

	HistogramChart{}.DrawChart(ctx, true)
	assert.Empty(t, svg.SelectAll(highBarSelectors...))
	assert.Empty(t, svg.SelectAll(lowBarSelectors...))
}

func TestRedrawIsIdempotent(t *testing.T) {
	for _, stacked := range []bool{false, true} {
		svg := scene.NewSurface(200, 130)
		data := append(series(5), emptyBucket(5))
		ctx := newContext(svg, data)

		HistogramChart{}.DrawChart(ctx, stacked)
		first := svg.Snapshot()
		HistogramChart{}.DrawChart(ctx, stacked)

		assert.Equal(t, first, svg.Snapshot())
	}
}

func TestRedrawClearsGeometryWhenBucketEmpties(t *testing.T) {
	svg := scene.NewSurface(200, 130)
	ctx := newContext(svg, []models.BucketPoint{bucket(0, 5, 2, 8), bucket(1, 5, 2, 8)})
	HistogramChart{}.DrawChart(ctx, false)

	ctx.Data = []models.BucketPoint{bucket(0, 5, 2, 8), emptyBucket(1)}
	HistogramChart{}.DrawChart(ctx, false)

	stem := svg.SelectAll("." + ClassBottomStem)[1]
	assert.True(t, stem.Hidden())
	_, ok := stem.Attr("x1")
	assert.False(t, ok)
}

func TestStackedSplitBars(t *testing.T) {
	svg := scene.NewSurface(200, 130)
	ctx := newContext(svg, []models.BucketPoint{bucket(0, 5, 2, 8), bucket(1, 4, 4, 4), emptyBucket(2)})
	HistogramChart{}.DrawChart(ctx, true)

	high := svg.SelectAll(highBarSelectors...)
	require.Len(t, high, 3)
	assert.Equal(t, ClassHigh, attr(t, high[0], "class"))
	assert.Equal(t, "20", attr(t, high[0], "y"))
	assert.Equal(t, "30", attr(t, high[0], "height"))

	// single valued bucket: distinct class, minimum height
	assert.Equal(t, ClassSingleValue, attr(t, high[1], "class"))
	assert.Equal(t, "2", attr(t, high[1], "height"))

	assert.Equal(t, "0", attr(t, high[2], "height"))

	low := svg.SelectAll(lowBarSelectors...)
	require.Len(t, low, 3)
	assert.Equal(t, "50", attr(t, low[0], "y"))
	assert.Equal(t, "30", attr(t, low[0], "height"))
	assert.Equal(t, "0.9", attr(t, low[0], "opacity"))
}

func TestMissingValuesFallBackWithoutNaN(t *testing.T) {
	svg := scene.NewSurface(200, 130)
	nan := math.NaN()
	ctx := newContext(svg, []models.BucketPoint{
		{Start: baseTime, End: baseTime.Add(time.Minute), Avg: nan, Min: nan, Max: nan, Empty: true},
		{Start: baseTime.Add(time.Minute), End: baseTime.Add(2 * time.Minute), Avg: 3, Min: nan, Max: nan},
		bucket(2, 5, 2, 8),
	})

	for _, stacked := range []bool{false, true} {
		HistogramChart{}.DrawChart(ctx, stacked)
		for _, el := range svg.Elements() {
			for name, v := range el.Attrs() {
				assert.NotContains(t, v, "NaN", "%s.%s", el.Tag, name)
			}
		}
	}

	high := svg.SelectAll(highBarSelectors...)
	// max missing: the bar starts at the top of the chart range
	assert.Equal(t, "0", attr(t, high[0], "y"))
	low := svg.SelectAll(lowBarSelectors...)
	// avg missing: the low bar sits at the bottom of the chart
	assert.Equal(t, "130", attr(t, low[0], "y"))
}

func TestBarsDoNotOverlap(t *testing.T) {
	svg := scene.NewSurface(200, 130)
	data := series(20)
	ctx := newContext(svg, data)
	ctx.Axis.TimeScale = func(t time.Time) float64 {
		first, last := data[0].Timestamp(), data[len(data)-1].Timestamp()
		return float64(t.Sub(first)) / float64(last.Sub(first)) * 200
	}
	HistogramChart{}.DrawChart(ctx, false)

	prevEnd := math.Inf(-1)
	for _, bar := range svg.SelectAll("rect.histogram") {
		x := parse(t, attr(t, bar, "x"))
		w := parse(t, attr(t, bar, "width"))
		assert.Greater(t, w, 0.0)
		assert.GreaterOrEqual(t, x, prevEnd)
		prevEnd = x + w
	}
	assert.InDelta(t, 200, prevEnd, 0.01)
}

func TestHoverShowsSharedTooltip(t *testing.T) {
	svg := scene.NewSurface(200, 130)
	tip := NewTooltip()
	ctx := newContext(svg, []models.BucketPoint{bucket(0, 5, 2, 8), bucket(1, 6, 3, 9)})
	ctx.Tip = tip
	HistogramChart{}.DrawChart(ctx, false)

	bar := svg.SelectAll("rect.histogram")[1]
	require.True(t, svg.Dispatch(bar, "mouseover"))
	state := tip.State()
	assert.True(t, state.Visible)
	assert.Equal(t, 1, state.Index)
	assert.Contains(t, state.Content, "6.00")

	stem := svg.SelectAll("." + ClassTopStem)[0]
	require.True(t, svg.Dispatch(stem, "mouseover"))
	assert.Equal(t, 0, tip.State().Index)

	require.True(t, svg.Dispatch(stem, "mouseout"))
	assert.False(t, tip.State().Visible)
}

func TestRhqBarAlwaysStacked(t *testing.T) {
	svg := scene.NewSurface(200, 130)
	ctx := newContext(svg, series(3))

	chart, err := Lookup("rhqbar")
	require.NoError(t, err)
	chart.DrawChart(ctx, false)

	assert.Len(t, svg.SelectAll("rect.leaderBar"), 3)
	assert.Empty(t, svg.SelectAll("rect.histogram"))
}

func parse(t *testing.T, s string) float64 {
	t.Helper()
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	require.NoError(t, err)
	return v
}
