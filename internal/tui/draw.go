// Package tui renders the simulation as a top-down radar in a terminal.
package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"nightwalk/internal/core"
	"nightwalk/internal/sim"
)

// Canvas is the part of tcell.Screen the radar draws on.
type Canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (int, int)
}

type glyph struct {
	r     rune
	style tcell.Style
}

var glyphs = [sim.CellCount]glyph{
	sim.CellGround:   {' ', tcell.StyleDefault},
	sim.CellTileEdge: {'·', tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)},
	sim.CellMist:     {'░', tcell.StyleDefault.Foreground(tcell.ColorSlateGray)},
	sim.CellSapling:  {'↟', tcell.StyleDefault.Foreground(tcell.ColorDarkOliveGreen)},
	sim.CellTree:     {'♣', tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)},
	sim.CellHeading:  {'^', tcell.StyleDefault.Foreground(tcell.ColorLightYellow)},
	sim.CellPlayer:   {'@', tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)},
	sim.CellPresence: {'Ж', tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)},
}

// Status is the text under the radar.
type Status struct {
	Focus      float64
	Threat     float64
	Whisper    string
	Distance   float64
	Flashlight bool
}

// StatusOf extracts the status line from a frame.
func StatusOf(f sim.Frame) Status {
	return Status{
		Focus:      f.Focus,
		Threat:     f.Threat,
		Whisper:    f.Whisper,
		Distance:   f.Player.TotalDistanceMeters,
		Flashlight: f.Player.FlashlightOn,
	}
}

const statusRows = 2

// Draw paints the radar centred in the canvas with two status rows below it.
// Radar rows or columns that do not fit are cropped symmetrically.
func Draw(c Canvas, cells []uint8, size core.Size, st Status) {
	w, h := c.Size()
	if w <= 0 || h <= 0 {
		return
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c.SetContent(x, y, ' ', nil, tcell.StyleDefault)
		}
	}

	viewH := h - statusRows
	if viewH < 0 {
		viewH = 0
	}
	offX := (size.W - w) / 2
	offY := (size.H - viewH) / 2
	for y := 0; y < viewH; y++ {
		gy := y + offY
		if gy < 0 || gy >= size.H {
			continue
		}
		for x := 0; x < w; x++ {
			gx := x + offX
			if gx < 0 || gx >= size.W {
				continue
			}
			v := cells[gy*size.W+gx]
			if int(v) >= len(glyphs) {
				continue
			}
			g := glyphs[v]
			c.SetContent(x, y, g.r, nil, g.style)
		}
	}

	if h >= 1 {
		drawText(c, 0, h-statusRows, statusLine(st, w), tcell.StyleDefault)
	}
	if h >= 2 && st.Whisper != "" {
		text := st.Whisper
		x := (w - len([]rune(text))) / 2
		drawText(c, x, h-1, text, tcell.StyleDefault.Foreground(tcell.ColorIndianRed).Italic(true))
	}
}

func statusLine(st Status, w int) string {
	light := "off"
	if st.Flashlight {
		light = "on"
	}
	line := []rune(fmt.Sprintf("focus %s %3.0f%%  threat %s  %7.1fm  light %s",
		meter(st.Focus, 10), st.Focus*100, meter(st.Threat, 6), st.Distance, light))
	if len(line) > w {
		line = line[:max(w, 0)]
	}
	return string(line)
}

func meter(v float64, width int) string {
	n := int(v*float64(width) + 0.5)
	if n < 0 {
		n = 0
	}
	if n > width {
		n = width
	}
	return "[" + strings.Repeat("#", n) + strings.Repeat("-", width-n) + "]"
}

func drawText(c Canvas, x, y int, text string, style tcell.Style) {
	w, h := c.Size()
	if y < 0 || y >= h {
		return
	}
	for _, r := range text {
		if x >= w {
			return
		}
		if x >= 0 {
			c.SetContent(x, y, r, nil, style)
		}
		x++
	}
}
