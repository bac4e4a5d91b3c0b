//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"nightwalk/internal/core"
	"nightwalk/internal/encounter"
	"nightwalk/internal/sim"
)

type walker interface {
	Frame() sim.Frame
	Encounter() encounter.State
}

// HUD renders the status and tuning panel to the right of the radar.
type HUD struct {
	sim   core.Sim
	width int
	panel *ebiten.Image
	pixel *ebiten.Image

	controls    []hudControl
	intSetter   core.IntParameterSetter
	floatSetter core.FloatParameterSetter
	offsetX     int

	frame sim.Frame
	enc   encounter.State
}

type hudControl struct {
	control  core.ParameterControl
	value    float64
	hasValue bool

	top   int
	minus image.Rectangle
	plus  image.Rectangle
}

var (
	panelBG    = color.RGBA{R: 12, G: 12, B: 16, A: 255}
	textColor  = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	mutedColor = color.RGBA{R: 140, G: 140, B: 150, A: 255}
	focusColor = color.RGBA{R: 120, G: 180, B: 230, A: 255}
	threatColor = color.RGBA{R: 210, G: 50, B: 50, A: 255}
)

const (
	panelPadding   = 12
	lineHeight     = 30
	buttonSize     = 20
	buttonGap      = 6
	headerBaseline = 18
	barHeight      = 8
	statusHeight   = 120
	controlsTop    = panelPadding + statusHeight
)

// NewHUD constructs a HUD for s with the given panel width.
func NewHUD(s core.Sim, width int) *HUD {
	h := &HUD{sim: s, width: max(width, 0)}
	if h.width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	if p, ok := s.(core.ParameterControlsProvider); ok {
		for i, ctrl := range p.ParameterControls() {
			top := controlsTop + i*lineHeight
			y := top + (lineHeight-buttonSize)/2
			plus := image.Rect(h.width-panelPadding-buttonSize, y, h.width-panelPadding, y+buttonSize)
			minus := plus.Sub(image.Pt(buttonSize+buttonGap, 0))
			h.controls = append(h.controls, hudControl{control: ctrl, top: top, minus: minus, plus: plus})
		}
	}
	h.intSetter, _ = s.(core.IntParameterSetter)
	h.floatSetter, _ = s.(core.FloatParameterSetter)
	return h
}

// Height is the panel height needed to show every control.
func (h *HUD) Height() int {
	if h == nil {
		return 0
	}
	return controlsTop + len(h.controls)*lineHeight + panelPadding
}

// Update refreshes cached values and handles clicks on the +/- buttons.
func (h *HUD) Update(offsetX int) {
	if h == nil {
		return
	}
	h.offsetX = offsetX
	if w, ok := h.sim.(walker); ok {
		h.frame = w.Frame()
		h.enc = w.Encounter()
	}
	h.refresh()
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	pt := image.Pt(mx-h.offsetX, my)
	for i := range h.controls {
		c := &h.controls[i]
		switch {
		case !c.hasValue:
		case pt.In(c.minus):
			h.adjust(c, -1)
			return
		case pt.In(c.plus):
			h.adjust(c, 1)
			return
		}
	}
}

func (h *HUD) refresh() {
	p, ok := h.sim.(interface{ Parameters() core.ParameterSnapshot })
	if !ok {
		return
	}
	snap := p.Parameters()
	for i := range h.controls {
		c := &h.controls[i]
		param, found := snap.Lookup(c.control.Key)
		v, err := strconv.ParseFloat(param.Value, 64)
		c.value, c.hasValue = v, found && err == nil
	}
}

func (h *HUD) adjust(c *hudControl, dir int) {
	target, ok := nextValue(c.control, c.value, dir)
	if !ok {
		return
	}
	switch c.control.Type {
	case core.ParamTypeInt:
		ok = h.intSetter != nil && h.intSetter.SetIntParameter(c.control.Key, int(target))
	case core.ParamTypeFloat:
		ok = h.floatSetter != nil && h.floatSetter.SetFloatParameter(c.control.Key, target)
	}
	if ok {
		c.value = target
	}
}

// Draw paints the panel at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int) {
	if h == nil || h.width <= 0 {
		return
	}
	height := max(screen.Bounds().Dy(), h.Height())
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(panelBG)
	h.drawStatus()
	h.drawControls()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawStatus() {
	face := basicfont.Face7x13
	f := h.frame
	y := panelPadding + headerBaseline
	text.Draw(h.panel, "Night Walk", face, panelPadding, y, textColor)

	y += 22
	text.Draw(h.panel, fmt.Sprintf("focus  %3.0f%%", f.Focus*100), face, panelPadding, y, textColor)
	h.bar(y+4, f.Focus, focusColor)

	y += 26
	text.Draw(h.panel, fmt.Sprintf("threat %3.0f%%", f.Threat*100), face, panelPadding, y, textColor)
	h.bar(y+4, f.Threat, threatColor)

	y += 26
	light := "off"
	if f.Player.FlashlightOn {
		light = "on"
	}
	line := fmt.Sprintf("%s  %.0fm  light %s  seen %d", h.enc.Phase, f.Player.TotalDistanceMeters, light, h.enc.Activations)
	text.Draw(h.panel, line, face, panelPadding, y, mutedColor)
}

func (h *HUD) bar(y int, v float64, col color.RGBA) {
	w := h.width - 2*panelPadding
	h.fill(image.Rect(panelPadding, y, panelPadding+w, y+barHeight), color.RGBA{R: 36, G: 38, B: 44, A: 255})
	fill := int(float64(w) * min(max(v, 0), 1))
	h.fill(image.Rect(panelPadding, y, panelPadding+fill, y+barHeight), col)
}

func (h *HUD) drawControls() {
	face := basicfont.Face7x13
	if len(h.controls) == 0 {
		text.Draw(h.panel, "No adjustable parameters", face, panelPadding, controlsTop+headerBaseline, mutedColor)
		return
	}
	for i := range h.controls {
		c := &h.controls[i]
		baseline := c.top + lineHeight/2 + 4
		text.Draw(h.panel, c.control.Label, face, panelPadding, baseline, textColor)

		value, col := "--", mutedColor
		if c.hasValue {
			value, col = formatValue(c.control, c.value), textColor
		}
		w := text.BoundString(face, value).Dx()
		text.Draw(h.panel, value, face, c.minus.Min.X-buttonGap-w, baseline, col)

		_, canDown := nextValue(c.control, c.value, -1)
		_, canUp := nextValue(c.control, c.value, 1)
		h.button(c.minus, "-", c.hasValue && canDown)
		h.button(c.plus, "+", c.hasValue && canUp)
	}
}

func (h *HUD) button(r image.Rectangle, label string, enabled bool) {
	bg, fg := color.RGBA{R: 54, G: 56, B: 64, A: 255}, textColor
	if !enabled {
		bg, fg = color.RGBA{R: 30, G: 32, B: 38, A: 255}, mutedColor
	}
	h.fill(r, bg)
	face := basicfont.Face7x13
	b := text.BoundString(face, label)
	text.Draw(h.panel, label, face, r.Min.X+(r.Dx()-b.Dx())/2, r.Min.Y+(r.Dy()+b.Dy())/2, fg)
}

func (h *HUD) fill(r image.Rectangle, col color.RGBA) {
	if h.pixel == nil || r.Empty() {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(r.Dx()), float64(r.Dy()))
	op.GeoM.Translate(float64(r.Min.X), float64(r.Min.Y))
	op.ColorScale.ScaleWithColor(col)
	h.panel.DrawImage(h.pixel, op)
}
