// Package shape builds SVG path data for lines and areas through a sequence
// of points, with d3-style interpolation names.
package shape

import (
	"math"
	"strings"

	"metricchart/internal/scene"
)

// Interpolation names accepted by Line and Area
const (
	Linear     = "linear"
	Step       = "step"
	StepBefore = "step-before"
	StepAfter  = "step-after"
	Monotone   = "monotone"
	Cardinal   = "cardinal"
)

const cardinalTension = 0.7

// Known reports whether name is a supported interpolation
func Known(name string) bool {
	switch name {
	case Linear, Step, StepBefore, StepAfter, Monotone, Cardinal:
		return true
	}
	return false
}

type point struct{ x, y float64 }

// pathWriter accumulates path commands
type pathWriter struct {
	b strings.Builder
}

func (w *pathWriter) cmd(op byte, pts ...point) {
	w.b.WriteByte(op)
	for i, p := range pts {
		if i > 0 {
			w.b.WriteByte(' ')
		}
		w.b.WriteString(scene.FormatNumber(p.x))
		w.b.WriteByte(',')
		w.b.WriteString(scene.FormatNumber(p.y))
	}
}

func (w *pathWriter) close() { w.b.WriteByte('Z') }

func (w *pathWriter) String() string { return w.b.String() }

// curveTo writes the segments through pts; the pen is already at pts[0]
func curveTo(w *pathWriter, pts []point, interpolation string) {
	if len(pts) < 2 {
		return
	}
	switch interpolation {
	case Step:
		for i := 1; i < len(pts); i++ {
			mid := (pts[i-1].x + pts[i].x) / 2
			w.cmd('L', point{mid, pts[i-1].y})
			w.cmd('L', point{mid, pts[i].y})
			w.cmd('L', pts[i])
		}
	case StepAfter:
		for i := 1; i < len(pts); i++ {
			w.cmd('L', point{pts[i].x, pts[i-1].y})
			w.cmd('L', pts[i])
		}
	case StepBefore:
		for i := 1; i < len(pts); i++ {
			w.cmd('L', point{pts[i-1].x, pts[i].y})
			w.cmd('L', pts[i])
		}
	case Monotone:
		if len(pts) < 3 {
			curveTo(w, pts, Linear)
			return
		}
		hermite(w, pts, monotoneTangents(pts))
	case Cardinal:
		if len(pts) < 3 {
			curveTo(w, pts, Linear)
			return
		}
		hermite(w, pts, cardinalTangents(pts))
	default:
		for _, p := range pts[1:] {
			w.cmd('L', p)
		}
	}
}

// reverseInterpolation returns the interpolation to use when walking points backwards
func reverseInterpolation(name string) string {
	switch name {
	case StepBefore:
		return StepAfter
	case StepAfter:
		return StepBefore
	}
	return name
}

// hermite writes cubic segments given a slope (dy/dx) per point
func hermite(w *pathWriter, pts []point, slopes []float64) {
	for i := 0; i+1 < len(pts); i++ {
		p0, p1 := pts[i], pts[i+1]
		dx := (p1.x - p0.x) / 3
		w.cmd('C',
			point{p0.x + dx, p0.y + slopes[i]*dx},
			point{p1.x - dx, p1.y - slopes[i+1]*dx},
			p1)
	}
}

// monotoneTangents computes Fritsch-Carlson tangents so the curve never
// overshoots between points.
func monotoneTangents(pts []point) []float64 {
	n := len(pts)
	secants := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		dx := pts[i+1].x - pts[i].x
		if dx == 0 {
			secants[i] = 0
			continue
		}
		secants[i] = (pts[i+1].y - pts[i].y) / dx
	}

	tangents := make([]float64, n)
	tangents[0] = secants[0]
	tangents[n-1] = secants[n-2]
	for i := 1; i < n-1; i++ {
		if secants[i-1]*secants[i] <= 0 {
			tangents[i] = 0
			continue
		}
		tangents[i] = (secants[i-1] + secants[i]) / 2
	}

	for i := 0; i < n-1; i++ {
		if secants[i] == 0 {
			tangents[i] = 0
			tangents[i+1] = 0
			continue
		}
		a := tangents[i] / secants[i]
		b := tangents[i+1] / secants[i]
		if s := a*a + b*b; s > 9 {
			tau := 3 / math.Sqrt(s)
			tangents[i] = tau * a * secants[i]
			tangents[i+1] = tau * b * secants[i]
		}
	}
	return tangents
}

// cardinalTangents computes tangents from neighbouring points with the d3 default tension
func cardinalTangents(pts []point) []float64 {
	n := len(pts)
	k := 1 - cardinalTension
	tangents := make([]float64, n)
	for i := range pts {
		prev, next := pts[max(i-1, 0)], pts[min(i+1, n-1)]
		dx := next.x - prev.x
		if dx == 0 {
			continue
		}
		tangents[i] = k * (next.y - prev.y) / dx
	}
	return tangents
}
