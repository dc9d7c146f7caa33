package render

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"metricchart/internal/scene"
	"metricchart/internal/shape"
)

// curveSteps is the number of segments a cubic curve is flattened into
const curveSteps = 12

var namedColors = map[string]drawing.Color{
	"black":       drawing.ColorBlack,
	"white":       drawing.ColorWhite,
	"red":         drawing.ColorRed,
	"green":       drawing.ColorGreen,
	"blue":        drawing.ColorBlue,
	"transparent": drawing.ColorTransparent,
}

// paint is the resolved fill and stroke of one element
type paint struct {
	fill        drawing.Color
	hasFill     bool
	stroke      drawing.Color
	hasStroke   bool
	strokeWidth float64
}

// PNG rasterises the surface. Hatch patterns are approximated by a
// translucent fill in the pattern's stroke colour.
func PNG(w io.Writer, s *scene.Surface) error {
	width, height := int(math.Ceil(s.Width)), int(math.Ceil(s.Height))
	if width <= 0 || height <= 0 {
		return fmt.Errorf("failed to render png: invalid size %vx%v", s.Width, s.Height)
	}
	r, err := chart.PNG(width, height)
	if err != nil {
		return fmt.Errorf("failed to create png renderer: %w", err)
	}

	r.SetFillColor(drawing.ColorWhite)
	polygon(r, [][2]float64{{0, 0}, {s.Width, 0}, {s.Width, s.Height}, {0, s.Height}})
	r.Fill()

	for _, el := range s.Elements() {
		if el.Hidden() {
			continue
		}
		if err := drawElement(r, s, el); err != nil {
			return err
		}
	}

	if err := r.Save(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// PNGBytes renders the surface to a byte slice
func PNGBytes(s *scene.Surface) ([]byte, error) {
	var buf bytes.Buffer
	if err := PNG(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawElement(r chart.Renderer, s *scene.Surface, el *scene.Element) error {
	p := resolvePaint(s, el)
	r.ResetStyle()

	switch el.Tag {
	case "rect":
		x, y := attrFloat(el, "x"), attrFloat(el, "y")
		w, h := attrFloat(el, "width"), attrFloat(el, "height")
		if w <= 0 || h <= 0 {
			return nil
		}
		polygon(r, [][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}})
		finish(r, p, true)
	case "line":
		if !p.hasStroke {
			return nil
		}
		r.MoveTo(px(attrFloat(el, "x1")), px(attrFloat(el, "y1")))
		r.LineTo(px(attrFloat(el, "x2")), px(attrFloat(el, "y2")))
		finish(r, p, false)
	case "path":
		d, _ := el.Attr("d")
		if d == "" {
			return nil
		}
		commands, err := shape.ParsePath(d)
		if err != nil {
			return fmt.Errorf("failed to rasterise %s path: %w", strings.Join(el.Classes(), "."), err)
		}
		tracePath(r, commands)
		finish(r, p, true)
	}
	return nil
}

func finish(r chart.Renderer, p paint, closed bool) {
	fill := closed && p.hasFill
	if p.hasStroke {
		r.SetStrokeColor(p.stroke)
		r.SetStrokeWidth(p.strokeWidth)
	}
	if fill {
		r.SetFillColor(p.fill)
	}
	switch {
	case fill && p.hasStroke:
		r.FillStroke()
	case fill:
		r.Fill()
	case p.hasStroke:
		r.Stroke()
	}
}

func tracePath(r chart.Renderer, commands []shape.Command) {
	var cur [2]float64
	for _, c := range commands {
		switch c.Op {
		case 'M':
			cur = c.Points[0]
			r.MoveTo(px(cur[0]), px(cur[1]))
		case 'L':
			cur = c.Points[0]
			r.LineTo(px(cur[0]), px(cur[1]))
		case 'C':
			for i := 1; i <= curveSteps; i++ {
				t := float64(i) / curveSteps
				pt := cubic(cur, c.Points[0], c.Points[1], c.Points[2], t)
				r.LineTo(px(pt[0]), px(pt[1]))
			}
			cur = c.Points[2]
		case 'Z':
			r.Close()
		}
	}
}

func cubic(p0, p1, p2, p3 [2]float64, t float64) [2]float64 {
	mt := 1 - t
	a, b, c, d := mt*mt*mt, 3*mt*mt*t, 3*mt*t*t, t*t*t
	return [2]float64{
		a*p0[0] + b*p1[0] + c*p2[0] + d*p3[0],
		a*p0[1] + b*p1[1] + c*p2[1] + d*p3[1],
	}
}

func polygon(r chart.Renderer, points [][2]float64) {
	for i, pt := range points {
		if i == 0 {
			r.MoveTo(px(pt[0]), px(pt[1]))
			continue
		}
		r.LineTo(px(pt[0]), px(pt[1]))
	}
	r.Close()
}

func resolvePaint(s *scene.Surface, el *scene.Element) paint {
	style, _ := styleFor(el)

	fill, ok := el.Attr("fill")
	if !ok {
		fill = style.fill
	}
	if fill == "" && el.Tag != "line" {
		fill = "black"
	}
	stroke, ok := el.Attr("stroke")
	if !ok {
		stroke = style.stroke
	}

	var p paint
	p.fill, p.hasFill = parseColor(s, fill)
	p.stroke, p.hasStroke = parseColor(s, stroke)
	p.strokeWidth = 1
	if v, ok := el.Attr("stroke-width"); ok {
		if w, err := strconv.ParseFloat(v, 64); err == nil {
			p.strokeWidth = w
		}
	}
	if p.strokeWidth <= 0 {
		p.hasStroke = false
	}

	opacity := opacityAttr(el, "opacity")
	if p.hasFill {
		p.fill = withOpacity(p.fill, opacity*opacityAttr(el, "fill-opacity"))
	}
	if p.hasStroke {
		p.stroke = withOpacity(p.stroke, opacity*opacityAttr(el, "stroke-opacity"))
	}
	return p
}

func parseColor(s *scene.Surface, value string) (drawing.Color, bool) {
	value = strings.TrimSpace(value)
	switch {
	case value == "" || value == "none":
		return drawing.Color{}, false
	case strings.HasPrefix(value, "url(#"):
		id := strings.TrimSuffix(strings.TrimPrefix(value, "url(#"), ")")
		for _, pattern := range s.Patterns {
			if pattern.ID == id {
				c, ok := parseColor(s, pattern.Stroke)
				return c.WithAlpha(96), ok
			}
		}
		return drawing.Color{}, false
	case strings.HasPrefix(value, "#"):
		hex := strings.TrimPrefix(value, "#")
		if len(hex) != 3 && len(hex) != 6 {
			return drawing.Color{}, false
		}
		return drawing.ColorFromHex(hex), true
	}
	c, ok := namedColors[strings.ToLower(value)]
	return c, ok
}

func opacityAttr(el *scene.Element, name string) float64 {
	v, ok := el.Attr(name)
	if !ok {
		return 1
	}
	o, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 1
	}
	return math.Min(1, math.Max(0, o))
}

func withOpacity(c drawing.Color, opacity float64) drawing.Color {
	return c.WithAlpha(uint8(math.Round(float64(c.A) * opacity)))
}

func attrFloat(el *scene.Element, name string) float64 {
	v, ok := el.Attr(name)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

func px(v float64) int {
	return int(math.Round(v))
}
