//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"nightwalk/internal/core"
	"nightwalk/internal/sim"
)

// Overlay draws the whisper, a threat vignette and optional debugging rings
// on top of the radar.
type Overlay struct {
	sim   core.Sim
	scale int
	pixel *ebiten.Image

	showThreat bool
	showCatch  bool
}

// NewOverlay constructs an overlay for s drawn at the given pixel scale.
func NewOverlay(s core.Sim, scale int) *Overlay {
	o := &Overlay{sim: s, scale: max(scale, 1)}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles the debugging rings.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showThreat = !o.showThreat
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showCatch = !o.showCatch
	}
}

// Draw renders the overlay onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	w, ok := o.sim.(interface {
		Frame() sim.Frame
		Config() sim.Config
	})
	if !ok {
		return
	}
	f, cfg := w.Frame(), w.Config()
	size := o.sim.Size()
	cx := (float64(size.W/2) + 0.5) * float64(o.scale)
	cy := (float64(size.H/2) + 0.5) * float64(o.scale)

	if f.Threat > 0 {
		o.vignette(screen, size, f.Threat)
	}
	if o.showThreat {
		r := ringRadius(cfg.Encounter.ThreatRadius, cfg.Radar.CellSize, o.scale)
		o.ring(screen, cx, cy, r, color.RGBA{R: 200, G: 120, B: 40, A: 160})
	}
	if o.showCatch {
		r := ringRadius(cfg.Encounter.CatchRadius, cfg.Radar.CellSize, o.scale)
		o.ring(screen, cx, cy, r, color.RGBA{R: 220, G: 40, B: 40, A: 200})
	}
	if f.Whisper != "" {
		face := basicfont.Face7x13
		b := text.BoundString(face, f.Whisper)
		x := (size.W*o.scale - b.Dx()) / 2
		y := size.H*o.scale - 24
		text.Draw(screen, f.Whisper, face, x, y, color.RGBA{R: 205, G: 92, B: 92, A: 255})
	}
}

// vignette frames the radar in red as threat rises.
func (o *Overlay) vignette(screen *ebiten.Image, size core.Size, threat float64) {
	w := float64(size.W * o.scale)
	h := float64(size.H * o.scale)
	band := math.Min(w, h) * 0.12 * threat
	if band < 1 {
		return
	}
	col := color.RGBA{R: 120, G: 0, B: 0, A: uint8(110 * math.Min(threat, 1))}
	o.rect(screen, 0, 0, w, band, col)
	o.rect(screen, 0, h-band, w, band, col)
	o.rect(screen, 0, band, band, h-2*band, col)
	o.rect(screen, w-band, band, band, h-2*band, col)
}

func (o *Overlay) ring(screen *ebiten.Image, cx, cy, r float64, col color.RGBA) {
	if r <= 0 {
		return
	}
	const segments = 48
	for i := 0; i < segments; i++ {
		a0 := 2 * math.Pi * float64(i) / segments
		a1 := 2 * math.Pi * float64(i+1) / segments
		o.line(screen, cx+r*math.Cos(a0), cy+r*math.Sin(a0), cx+r*math.Cos(a1), cy+r*math.Sin(a1), col)
	}
}

func (o *Overlay) line(screen *ebiten.Image, x1, y1, x2, y2 float64, col color.RGBA) {
	length := math.Hypot(x2-x1, y2-y1)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, 1)
	op.GeoM.Translate(0, -0.5)
	op.GeoM.Rotate(math.Atan2(y2-y1, x2-x1))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) rect(screen *ebiten.Image, x, y, w, h float64, col color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
