// Package render serialises a chart surface to SVG and PNG.
package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html"
	"io"
	"strings"
	"text/template"

	"metricchart/internal/scene"
)

//go:embed templates/chart.svg.tmpl
var svgSource string

var svgTemplate = template.Must(template.New("chart").Funcs(template.FuncMap{
	"num":   scene.FormatNumber,
	"attrs": attrList,
}).Parse(svgSource))

// classStyle is the default paint of a chart class, used when an element
// carries no explicit fill or stroke of its own
type classStyle struct {
	class  string
	fill   string
	stroke string
}

var classStyles = []classStyle{
	{class: "high", fill: "#ff3636"},
	{class: "low", fill: "#70c4e2"},
	{class: "singleValue", fill: "#50505a"},
	{class: "coneArea", fill: "#d3d3d6", stroke: "none"},
	{class: "forecastLine", fill: "none", stroke: "#00a8e1"},
}

func (c classStyle) css() string {
	var rules []string
	if c.fill != "" {
		rules = append(rules, "fill: "+c.fill+";")
	}
	if c.stroke != "" {
		rules = append(rules, "stroke: "+c.stroke+";")
	}
	return fmt.Sprintf(".%s { %s }", c.class, strings.Join(rules, " "))
}

func styleFor(el *scene.Element) (classStyle, bool) {
	for _, c := range classStyles {
		if el.HasClass(c.class) {
			return c, true
		}
	}
	return classStyle{}, false
}

type svgDocument struct {
	Width    float64
	Height   float64
	Styles   []string
	Patterns []scene.Pattern
	Elements []*scene.Element
}

func attrList(el *scene.Element) string {
	var b strings.Builder
	for _, name := range el.AttrNames() {
		v, _ := el.Attr(name)
		fmt.Fprintf(&b, ` %s="%s"`, name, html.EscapeString(v))
	}
	return b.String()
}

// SVG writes the surface as a standalone SVG document
func SVG(w io.Writer, s *scene.Surface) error {
	doc := svgDocument{
		Width:    s.Width,
		Height:   s.Height,
		Patterns: s.Patterns,
		Elements: s.Elements(),
	}
	for _, c := range classStyles {
		doc.Styles = append(doc.Styles, c.css())
	}
	if err := svgTemplate.Execute(w, doc); err != nil {
		return fmt.Errorf("failed to render svg: %w", err)
	}
	return nil
}

// SVGBytes renders the surface to a byte slice
func SVGBytes(s *scene.Surface) ([]byte, error) {
	var buf bytes.Buffer
	if err := SVG(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
