package charts

import (
	"math"
	"time"
)

// barOffset is the gap in pixels between adjacent bars
const barOffset = 2

// BarWidth returns the width of a full bar when length bars share width
func BarWidth(width float64, length int) float64 {
	if length <= 0 {
		return 0
	}
	return math.Max(0, width/float64(length)-barOffset)
}

// BarWidthAdjusted returns the width of bar i. The first and last bars are
// half width so they do not spill past the time axis.
func BarWidthAdjusted(i int, width float64, length int) float64 {
	w := BarWidth(width, length)
	if i == 0 || i == length-1 {
		return w / 2
	}
	return w
}

// BarXPos returns the left edge of bar i. Every bar but the first is pulled
// left by half a bar so it is centred on its timestamp.
func BarXPos(ts time.Time, i int, width float64, timeScale func(time.Time) float64, length int) float64 {
	x := timeScale(ts)
	if i == 0 {
		return x
	}
	return x - BarWidth(width, length)/2
}
