package dashboard

import (
	"encoding/json"
	"fmt"
	"html/template"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// echartsCDN is loaded once per page
const echartsCDN = "https://cdn.jsdelivr.net/npm/echarts@5.4.3/dist/echarts.min.js"

// missing is how echarts marks a gap in a series
const missing = "-"

// ChartSnippet is an embeddable interactive panel: a root div and the script
// that initialises the chart in it
type ChartSnippet struct {
	ID     string
	Title  string
	Div    template.HTML
	Script template.HTML
}

// BuildSnippet builds the interactive avg/min/max panel of a chart.
// Empty buckets show as gaps.
func BuildSnippet(c *Chart) (ChartSnippet, error) {
	id := "echart-" + c.Spec.ID
	snippet := ChartSnippet{ID: id, Title: c.Spec.Title}

	data := c.Data()
	if data == nil || len(data.Buckets) == 0 {
		return snippet, nil
	}

	labels := make([]string, 0, len(data.Buckets))
	avg := make([]opts.BarData, 0, len(data.Buckets))
	mins := make([]opts.LineData, 0, len(data.Buckets))
	maxs := make([]opts.LineData, 0, len(data.Buckets))
	for _, b := range data.Buckets {
		labels = append(labels, b.Timestamp().UTC().Format("01-02 15:04"))
		if b.IsEmpty() {
			avg = append(avg, opts.BarData{Value: missing})
			mins = append(mins, opts.LineData{Value: missing})
			maxs = append(maxs, opts.LineData{Value: missing})
			continue
		}
		avg = append(avg, opts.BarData{Value: b.Avg})
		mins = append(mins, opts.LineData{Value: b.Min})
		maxs = append(maxs, opts.LineData{Value: b.Max})
	}

	bar := echarts.NewBar()
	bar.SetGlobalOptions(
		echarts.WithInitializationOpts(opts.Initialization{
			ChartID: id,
			Width:   "100%",
			Height:  "320px",
		}),
		echarts.WithTitleOpts(opts.Title{
			Title:    c.Spec.Title,
			Subtitle: c.Spec.Metric,
		}),
		echarts.WithXAxisOpts(opts.XAxis{Name: "Time (UTC)"}),
		echarts.WithYAxisOpts(opts.YAxis{Name: "Value"}),
	)
	bar.SetXAxis(labels).AddSeries("Avg", avg)

	spread := echarts.NewLine()
	spread.SetXAxis(labels).
		AddSeries("Min", mins).
		AddSeries("Max", maxs)
	bar.Overlap(spread)
	bar.Validate()

	option, err := json.Marshal(bar.JSON())
	if err != nil {
		return snippet, fmt.Errorf("failed to encode panel for %s: %w", c.Spec.ID, err)
	}

	snippet.Div = template.HTML(fmt.Sprintf(`<div id="%s" class="panel" style="width:100%%;height:320px;"></div>`, template.HTMLEscapeString(id)))
	snippet.Script = template.HTML(fmt.Sprintf(
		`<script>(function(){var el=document.getElementById(%q);if(!el||!window.echarts)return;var c=echarts.init(el);c.setOption(%s);window.addEventListener('resize',function(){c.resize();});})();</script>`,
		id, option))
	return snippet, nil
}
