// Package scale maps data values and timestamps onto pixel coordinates.
package scale

import (
	"math"
	"time"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
)

// Linear maps a continuous value domain onto a pixel range
type Linear struct {
	Domain [2]float64
	Range  [2]float64
}

// NewLinear creates a linear scale
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{Domain: [2]float64{d0, d1}, Range: [2]float64{r0, r1}}
}

// Scale maps v into the range. A flat domain maps to the middle of the range.
func (l Linear) Scale(v float64) float64 {
	span := l.Domain[1] - l.Domain[0]
	if span == 0 {
		return l.Range[0] + (l.Range[1]-l.Range[0])/2
	}
	return l.Range[0] + (v-l.Domain[0])/span*(l.Range[1]-l.Range[0])
}

// Invert maps a pixel position back into the domain
func (l Linear) Invert(px float64) float64 {
	span := l.Range[1] - l.Range[0]
	if span == 0 {
		return l.Domain[0]
	}
	return l.Domain[0] + (px-l.Range[0])/span*(l.Domain[1]-l.Domain[0])
}

// Time maps timestamps onto a pixel range
type Time struct {
	Start time.Time
	End   time.Time
	Range [2]float64
}

// NewTime creates a time scale
func NewTime(start, end time.Time, r0, r1 float64) Time {
	return Time{Start: start, End: end, Range: [2]float64{r0, r1}}
}

// Scale maps t into the range
func (s Time) Scale(t time.Time) float64 {
	return s.linear().Scale(float64(t.UnixMilli()))
}

// Invert maps a pixel position back to a timestamp
func (s Time) Invert(px float64) time.Time {
	return time.UnixMilli(int64(math.Round(s.linear().Invert(px)))).UTC()
}

func (s Time) linear() Linear {
	return NewLinear(float64(s.Start.UnixMilli()), float64(s.End.UnixMilli()), s.Range[0], s.Range[1])
}

// Extent returns the min and max of values, ignoring NaN. ok is false when
// nothing usable remains.
func Extent(values []float64) (min, max float64, ok bool) {
	finite := lo.Filter(values, func(v float64, _ int) bool {
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	})
	if len(finite) == 0 {
		return 0, 0, false
	}
	return floats.Min(finite), floats.Max(finite), true
}
