package shape

import "math"

// Line generates the path of a single curve through a data sequence.
// Points where Defined returns false, or whose coordinates are NaN, break
// the line into separate subpaths.
type Line[T any] struct {
	X             func(d T, i int) float64
	Y             func(d T, i int) float64
	Defined       func(d T, i int) bool
	Interpolation string
}

// Path returns the SVG path data for data, or "" when nothing is defined
func (l Line[T]) Path(data []T) string {
	var w pathWriter
	for _, run := range l.runs(data) {
		w.cmd('M', run[0])
		curveTo(&w, run, l.Interpolation)
	}
	return w.String()
}

func (l Line[T]) runs(data []T) [][]point {
	var runs [][]point
	var cur []point
	for i, d := range data {
		ok := l.Defined == nil || l.Defined(d, i)
		var p point
		if ok {
			p = point{l.X(d, i), l.Y(d, i)}
			ok = finite(p.x) && finite(p.y)
		}
		if !ok {
			if len(cur) > 0 {
				runs = append(runs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, p)
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	return runs
}

// Area generates a closed path between a lower (Y0) and upper (Y1) curve.
// Undefined points leave a gap rather than pinching the area.
type Area[T any] struct {
	X             func(d T, i int) float64
	Y0            func(d T, i int) float64
	Y1            func(d T, i int) float64
	Defined       func(d T, i int) bool
	Interpolation string
}

// Path returns the SVG path data for data, or "" when nothing is defined
func (a Area[T]) Path(data []T) string {
	var w pathWriter
	var top, bottom []point
	flush := func() {
		if len(top) == 0 {
			return
		}
		w.cmd('M', top[0])
		curveTo(&w, top, a.Interpolation)

		rev := make([]point, len(bottom))
		for i := range bottom {
			rev[i] = bottom[len(bottom)-1-i]
		}
		w.cmd('L', rev[0])
		curveTo(&w, rev, reverseInterpolation(a.Interpolation))
		w.close()
		top, bottom = nil, nil
	}

	for i, d := range data {
		ok := a.Defined == nil || a.Defined(d, i)
		if ok {
			x, y0, y1 := a.X(d, i), a.Y0(d, i), a.Y1(d, i)
			if finite(x) && finite(y0) && finite(y1) {
				top = append(top, point{x, y1})
				bottom = append(bottom, point{x, y0})
				continue
			}
		}
		flush()
	}
	flush()
	return w.String()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
