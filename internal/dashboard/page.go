package dashboard

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/dashboard.html
var pageSource string

var pageTemplate = template.Must(template.New("dashboard").Parse(pageSource))

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

type pageChart struct {
	ID          string
	Title       string
	Status      ChartStatus
	Description template.HTML
	SVG         template.HTML
	Snippet     ChartSnippet
}

type pageData struct {
	Title       string
	GeneratedAt string
	Version     string
	EChartsCDN  string
	HasPanels   bool
	Charts      []pageChart
}

// ConvertMarkdownToHTML renders a chart description. Raw HTML in the
// markdown is dropped.
func ConvertMarkdownToHTML(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// WritePage renders the dashboard page: every chart's current SVG scene, its
// description and its interactive panel
func (d *Dashboard) WritePage(w io.Writer, version string) error {
	data := pageData{
		Title:       d.Title,
		GeneratedAt: time.Now().UTC().Format("2006-01-02 15:04:05 UTC"),
		Version:     version,
		EChartsCDN:  echartsCDN,
	}

	for _, c := range d.charts {
		svg, err := c.SVG()
		if err != nil {
			return err
		}
		description, err := ConvertMarkdownToHTML(c.Spec.Description)
		if err != nil {
			return fmt.Errorf("chart %s: %w", c.Spec.ID, err)
		}
		snippet, err := BuildSnippet(c)
		if err != nil {
			return err
		}
		if snippet.Div != "" {
			data.HasPanels = true
		}
		data.Charts = append(data.Charts, pageChart{
			ID:          c.Spec.ID,
			Title:       c.Spec.Title,
			Status:      c.Status(),
			Description: description,
			SVG:         template.HTML(svg),
			Snippet:     snippet,
		})
	}

	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render dashboard page: %w", err)
	}
	return nil
}
