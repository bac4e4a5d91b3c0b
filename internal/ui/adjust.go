package ui

import (
	"math"
	"strconv"

	"nightwalk/internal/core"
)

// nextValue returns the value one step away from cur in direction dir and
// whether the control allows moving there. Int controls round their step
// and bounds and never step by less than one.
func nextValue(ctrl core.ParameterControl, cur float64, dir int) (float64, bool) {
	if dir == 0 {
		return cur, false
	}
	step := ctrl.Step
	switch ctrl.Type {
	case core.ParamTypeInt:
		step = math.Max(1, math.Round(step))
	case core.ParamTypeFloat:
		if step <= 0 {
			step = 0.05
		}
	default:
		return cur, false
	}
	target := cur + float64(dir)*step
	lo, hi := ctrl.Min, ctrl.Max
	if ctrl.Type == core.ParamTypeInt {
		lo, hi = math.Round(lo), math.Round(hi)
	}
	if ctrl.HasMin && target < lo {
		if dir < 0 && cur <= lo {
			return cur, false
		}
		target = lo
	}
	if ctrl.HasMax && target > hi {
		if dir > 0 && cur >= hi {
			return cur, false
		}
		target = hi
	}
	return target, math.Abs(target-cur) > 1e-9
}

// formatValue prints v with as many decimals as the control's step needs.
func formatValue(ctrl core.ParameterControl, v float64) string {
	if ctrl.Type == core.ParamTypeInt {
		return strconv.Itoa(int(math.Round(v)))
	}
	precision := 1
	switch step := ctrl.Step; {
	case step <= 0:
		precision = 2
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

// ringRadius converts a world radius into screen pixels on the radar.
func ringRadius(worldRadius, cellSize float64, scale int) float64 {
	if cellSize <= 0 || scale <= 0 {
		return 0
	}
	return worldRadius / cellSize * float64(scale)
}
