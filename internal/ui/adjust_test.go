package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nightwalk/internal/core"
)

func TestNextValueFloat(t *testing.T) {
	ctrl := core.ParameterControl{Type: core.ParamTypeFloat, Step: 0.1, Min: 0, Max: 1, HasMin: true, HasMax: true}

	v, ok := nextValue(ctrl, 0.5, 1)
	assert.True(t, ok)
	assert.InDelta(t, 0.6, v, 1e-12)

	v, ok = nextValue(ctrl, 0.05, -1)
	assert.True(t, ok, "a partial step clamps to the bound")
	assert.Equal(t, 0.0, v)

	_, ok = nextValue(ctrl, 0, -1)
	assert.False(t, ok)
	_, ok = nextValue(ctrl, 1, 1)
	assert.False(t, ok)
	_, ok = nextValue(ctrl, 0.5, 0)
	assert.False(t, ok)
}

func TestNextValueInt(t *testing.T) {
	ctrl := core.ParameterControl{Type: core.ParamTypeInt, Step: 10, Min: 0, Max: 600, HasMin: true, HasMax: true}
	v, ok := nextValue(ctrl, 220, -1)
	assert.True(t, ok)
	assert.Equal(t, 210.0, v)

	_, ok = nextValue(ctrl, 600, 1)
	assert.False(t, ok)

	ctrl.Step = 0
	v, ok = nextValue(ctrl, 3, 1)
	assert.True(t, ok)
	assert.Equal(t, 4.0, v, "int steps are at least one")
}

func TestNextValueString(t *testing.T) {
	_, ok := nextValue(core.ParameterControl{Type: core.ParamTypeString}, 0, 1)
	assert.False(t, ok)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "220", formatValue(core.ParameterControl{Type: core.ParamTypeInt}, 219.6))
	assert.Equal(t, "0.125", formatValue(core.ParameterControl{Type: core.ParamTypeFloat, Step: 0.005}, 0.125))
	assert.Equal(t, "0.50", formatValue(core.ParameterControl{Type: core.ParamTypeFloat, Step: 0.05}, 0.5))
	assert.Equal(t, "2.5", formatValue(core.ParameterControl{Type: core.ParamTypeFloat, Step: 0.5}, 2.5))
}

func TestRingRadius(t *testing.T) {
	assert.Equal(t, 24.0, ringRadius(8, 1, 3))
	assert.Equal(t, 12.0, ringRadius(8, 2, 3))
	assert.Equal(t, 0.0, ringRadius(8, 0, 3))
}
