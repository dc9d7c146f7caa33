package shape

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pt struct {
	x, y, lo, hi float64
	skip         bool
}

func lineOf(interp string) Line[pt] {
	return Line[pt]{
		X:             func(d pt, _ int) float64 { return d.x },
		Y:             func(d pt, _ int) float64 { return d.y },
		Defined:       func(d pt, _ int) bool { return !d.skip },
		Interpolation: interp,
	}
}

func TestLinearLine(t *testing.T) {
	d := lineOf(Linear).Path([]pt{{x: 0, y: 10}, {x: 5, y: 0}, {x: 10, y: 5}})
	assert.Equal(t, "M0,10L5,0L10,5", d)
}

func TestLineGapsAtUndefined(t *testing.T) {
	d := lineOf(Linear).Path([]pt{{x: 0, y: 1}, {x: 1, y: 2}, {x: 2, skip: true}, {x: 3, y: 4}, {x: 4, y: math.NaN()}})
	assert.Equal(t, "M0,1L1,2M3,4", d)
}

func TestLineNothingDefined(t *testing.T) {
	assert.Equal(t, "", lineOf(Linear).Path(nil))
	assert.Equal(t, "", lineOf(Linear).Path([]pt{{skip: true}}))
}

func TestStepInterpolations(t *testing.T) {
	data := []pt{{x: 0, y: 0}, {x: 10, y: 10}}
	assert.Equal(t, "M0,0L10,0L10,10", lineOf(StepAfter).Path(data))
	assert.Equal(t, "M0,0L0,10L10,10", lineOf(StepBefore).Path(data))
	assert.Equal(t, "M0,0L5,0L5,10L10,10", lineOf(Step).Path(data))
}

func TestMonotoneDoesNotOvershoot(t *testing.T) {
	data := []pt{{x: 0, y: 0}, {x: 1, y: 10}, {x: 2, y: 10}, {x: 3, y: 0}}
	d := lineOf(Monotone).Path(data)

	cmds, err := ParsePath(d)
	require.NoError(t, err)
	require.Len(t, cmds, 4)
	for _, c := range cmds[1:] {
		require.Equal(t, byte('C'), c.Op)
		for _, p := range c.Points {
			assert.GreaterOrEqual(t, p[1], 0.0)
			assert.LessOrEqual(t, p[1], 10.0)
		}
	}
	// flat segment between equal points stays flat
	assert.Equal(t, 10.0, cmds[2].Points[0][1])
	assert.Equal(t, 10.0, cmds[2].Points[1][1])
}

func TestMonotoneTwoPointsIsStraight(t *testing.T) {
	assert.Equal(t, "M0,0L1,1", lineOf(Monotone).Path([]pt{{x: 0, y: 0}, {x: 1, y: 1}}))
}

func TestUnknownInterpolationFallsBackToLinear(t *testing.T) {
	assert.False(t, Known("bogus"))
	assert.Equal(t, "M0,0L1,1L2,0", lineOf("bogus").Path([]pt{{x: 0, y: 0}, {x: 1, y: 1}, {x: 2, y: 0}}))
}

func TestAreaWithGap(t *testing.T) {
	area := Area[pt]{
		X:             func(d pt, _ int) float64 { return d.x },
		Y0:            func(d pt, _ int) float64 { return d.lo },
		Y1:            func(d pt, _ int) float64 { return d.hi },
		Defined:       func(d pt, _ int) bool { return !d.skip },
		Interpolation: Linear,
	}
	d := area.Path([]pt{
		{x: 0, lo: 10, hi: 0},
		{x: 1, lo: 9, hi: 1},
		{x: 2, skip: true},
		{x: 3, lo: 8, hi: 2},
		{x: 4, lo: 7, hi: 3},
	})

	assert.Equal(t, "M0,0L1,1L1,9L0,10ZM3,2L4,3L4,7L3,8Z", d)
	assert.Equal(t, 2, strings.Count(d, "Z"))
}

func TestParsePathRejectsGarbage(t *testing.T) {
	_, err := ParsePath("M0,0Q1,1")
	assert.Error(t, err)

	_, err = ParsePath("M0,0 1,1")
	assert.Error(t, err)

	cmds, err := ParsePath("M0,0L-1.5,2C1,1 2,2 3,3Z")
	require.NoError(t, err)
	assert.Len(t, cmds, 4)
	assert.Equal(t, [2]float64{-1.5, 2}, cmds[1].Points[0])
}
