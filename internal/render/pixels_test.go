package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nightwalk/internal/mathx"
	"nightwalk/internal/sim"
	"nightwalk/internal/world"
)

func TestFillRGBA(t *testing.T) {
	palette := []color.RGBA{{R: 1, A: 255}, {G: 2, A: 255}}
	buf := make([]byte, 12)
	FillRGBA(buf, []uint8{0, 1, 9}, palette)
	assert.Equal(t, []byte{1, 0, 0, 255, 0, 2, 0, 255, 0, 2, 0, 255}, buf)

	FillRGBA(buf, []uint8{0, 1, 2}, nil)
	assert.Equal(t, make([]byte, 12), buf)
}

func TestShade(t *testing.T) {
	base := DefaultPalette()
	require.Len(t, base, int(sim.CellCount))
	atm := world.Atmosphere{
		Fog:        mathx.RGB{R: 1, G: 1, B: 1},
		Background: mathx.RGB{},
	}

	bright := Shade(base, atm, 1)
	dim := Shade(base, atm, 0)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, bright[sim.CellMist])
	assert.Equal(t, color.RGBA{A: 255}, bright[sim.CellGround])
	assert.Equal(t, base[sim.CellTree], bright[sim.CellTree])
	assert.Less(t, dim[sim.CellTree].G, bright[sim.CellTree].G)
	assert.Equal(t, base[sim.CellPresence], dim[sim.CellPresence])
	assert.Equal(t, color.RGBA{R: 28, G: 104, B: 58, A: 255}, base[sim.CellTree], "base palette untouched")
}
