package render

import (
	"bytes"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metricchart/internal/charts"
	"metricchart/internal/models"
	"metricchart/internal/scene"
)

var start = time.Date(2025, 9, 17, 12, 0, 0, 0, time.UTC)

func buckets() []models.BucketPoint {
	out := []models.BucketPoint{}
	for i, v := range []float64{3, 5, -1, 4} {
		b := models.BucketPoint{
			Start: start.Add(time.Duration(i) * time.Minute),
			End:   start.Add(time.Duration(i+1) * time.Minute),
			Avg:   v, Min: v - 1, Max: v + 2, Samples: 3,
		}
		if v < 0 {
			b.Empty = true
		}
		out = append(out, b)
	}
	return out
}

func drawn(t *testing.T, stacked bool) *scene.Surface {
	t.Helper()
	svg := scene.NewSurface(200, 130)
	ctx := charts.NewRenderContext(svg, buckets(), nil, charts.Options{})
	ct, err := charts.Lookup("histogram")
	require.NoError(t, err)
	ct.DrawChart(ctx, stacked)
	return svg
}

func TestSVGDocument(t *testing.T) {
	svg := drawn(t, false)
	out, err := SVGBytes(svg)
	require.NoError(t, err)
	doc := string(out)

	assert.True(t, strings.HasPrefix(doc, `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="130"`))
	assert.Contains(t, doc, `<pattern id="noDataStripes"`)
	assert.Contains(t, doc, `.high { fill: #ff3636; }`)
	assert.Equal(t, 4, strings.Count(doc, `<rect class="histogram"`))
	assert.Equal(t, 1, strings.Count(doc, `fill="url(#noDataStripes)"`))
	assert.Equal(t, 4, strings.Count(doc, `display="none"`), "one hidden node per stem category")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(doc), "</svg>"))
}

func TestSVGEscapesAttributes(t *testing.T) {
	svg := scene.NewSurface(10, 10)
	scene.Reconcile(svg, []string{"x"}, "rect", func(b *scene.Bound[string]) {
		b.ClassConst("note").AttrConst("data-label", `a "quoted" <b>`)
	}, "rect.note")

	out, err := SVGBytes(svg)
	require.NoError(t, err)
	assert.Contains(t, string(out), `<rect class="note" data-label="a &#34;quoted&#34; &lt;b&gt;"/>`)
}

func TestPNGRasterises(t *testing.T) {
	svg := scene.NewSurface(80, 60)
	scene.Reconcile(svg, []int{1}, "rect", func(b *scene.Bound[int]) {
		b.ClassConst("block").
			AttrConst("x", "10").AttrConst("y", "10").
			AttrConst("width", "40").AttrConst("height", "30").
			AttrConst("fill", "#ff0000")
	}, "rect.block")

	out, err := PNGBytes(svg)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 80, img.Bounds().Dx())
	assert.Equal(t, 60, img.Bounds().Dy())

	r, g, b, _ := img.At(30, 25).RGBA()
	assert.Greater(t, r>>8, uint32(200))
	assert.Less(t, g>>8, uint32(60))
	assert.Less(t, b>>8, uint32(60))

	r, g, b, _ = img.At(2, 2).RGBA()
	assert.Equal(t, []uint32{255, 255, 255}, []uint32{r >> 8, g >> 8, b >> 8})
}

func TestPNGRendersCharts(t *testing.T) {
	for _, stacked := range []bool{false, true} {
		svg := drawn(t, stacked)
		forecast := []models.PredictivePoint{
			{Timestamp: start.Add(4 * time.Minute), Value: 4, Min: models.Float(3), Max: models.Float(6)},
			{Timestamp: start.Add(5 * time.Minute), Value: 5, Min: models.Float(3), Max: models.Float(7)},
			{Timestamp: start.Add(6 * time.Minute), Value: 4, Min: models.Float(2), Max: models.Float(7)},
		}
		charts.ShowForecastData(forecast, charts.NewRenderContext(svg, buckets(), forecast, charts.Options{}))
		assert.Len(t, svg.SelectAll("path.coneArea"), 1)

		out, err := PNGBytes(svg)
		require.NoError(t, err)
		_, err = png.Decode(bytes.NewReader(out))
		require.NoError(t, err)
	}
}

func TestPNGRejectsEmptySurface(t *testing.T) {
	_, err := PNGBytes(scene.NewSurface(0, 10))
	assert.Error(t, err)
}

func TestInspect(t *testing.T) {
	svg := drawn(t, false)
	rows := Inspect(svg)
	require.Len(t, rows, svg.Len())
	for _, row := range rows {
		assert.Len(t, row, len(InspectHeader))
	}
	assert.Equal(t, []string{"0", "rect", "histogram", "0", "true"}, rows[0][:5])
	assert.Contains(t, rows[0][5], "fill=")

	summary := Summary(svg)
	assert.Equal(t, 4, summary["rect.histogram"])
	assert.Equal(t, 4, summary["line.histogramTopStem"])
}
