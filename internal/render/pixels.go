// Package render turns radar cells into pixels.
package render

import (
	"image/color"

	"nightwalk/internal/mathx"
	"nightwalk/internal/sim"
	"nightwalk/internal/world"
)

// DefaultPalette returns the base colors for every radar cell value.
func DefaultPalette() []color.RGBA {
	p := make([]color.RGBA, sim.CellCount)
	p[sim.CellGround] = color.RGBA{R: 4, G: 6, B: 10, A: 255}
	p[sim.CellTileEdge] = color.RGBA{R: 18, G: 24, B: 30, A: 255}
	p[sim.CellMist] = color.RGBA{R: 70, G: 80, B: 96, A: 255}
	p[sim.CellSapling] = color.RGBA{R: 48, G: 78, B: 52, A: 255}
	p[sim.CellTree] = color.RGBA{R: 28, G: 104, B: 58, A: 255}
	p[sim.CellHeading] = color.RGBA{R: 230, G: 214, B: 140, A: 255}
	p[sim.CellPlayer] = color.RGBA{R: 250, G: 250, B: 250, A: 255}
	p[sim.CellPresence] = color.RGBA{R: 200, G: 24, B: 32, A: 255}
	return p
}

// Shade derives the palette for one frame. Ground and mist follow the
// breathing atmosphere and the forest dims as focus drains. The player,
// heading and presence keep their base colors.
func Shade(base []color.RGBA, atm world.Atmosphere, focus float64) []color.RGBA {
	out := make([]color.RGBA, len(base))
	copy(out, base)
	if len(out) < int(sim.CellCount) {
		return out
	}
	out[sim.CellGround] = fromRGB(atm.Background)
	out[sim.CellMist] = fromRGB(atm.Fog)
	k := 0.35 + 0.65*mathx.Clamp01(focus)
	for _, i := range []uint8{sim.CellTileEdge, sim.CellSapling, sim.CellTree} {
		out[i] = scale(out[i], k)
	}
	return out
}

func fromRGB(c mathx.RGB) color.RGBA {
	r, g, b := c.Bytes()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func scale(c color.RGBA, k float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * k),
		G: uint8(float64(c.G) * k),
		B: uint8(float64(c.B) * k),
		A: c.A,
	}
}

// FillRGBA converts cell values into RGBA pixels using a palette. Values past
// the end of the palette use its last entry. An empty palette clears the
// buffer to transparent black.
func FillRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}
	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		col := palette[idx]
		base := i * 4
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}
