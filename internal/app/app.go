//go:build ebiten

package app

import (
	"errors"
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	eaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"nightwalk/internal/audio"
	"nightwalk/internal/mathx"
	"nightwalk/internal/render"
	"nightwalk/internal/save"
	"nightwalk/internal/sim"
	"nightwalk/internal/ui"
)

const (
	hudWidth    = 300
	turnSpeed   = 1.8
	mouseTurn   = 0.006
	pitchSpeed  = 1.2
	sessionSlot = "quick"
)

// Options configures a Game.
type Options struct {
	Scale  int
	TPS    int
	Volume float64
	Mute   bool
	Store  *save.Store
	Logger *slog.Logger
}

// Game adapts a walking simulation to the ebiten.Game interface.
type Game struct {
	sim     *sim.Simulation
	painter *render.Painter
	palette []color.RGBA
	hud     *ui.HUD
	overlay *ui.Overlay

	ambience *audio.Ambience
	player   *eaudio.Player
	store    *save.Store
	logger   *slog.Logger

	scale  int
	dt     float64
	paused bool

	yaw, pitch float64
	dragging   bool
	lastX      int
	lastY      int
}

// New constructs a Game for s and starts the ambience unless muted.
func New(s *sim.Simulation, opts Options) (*Game, error) {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.TPS <= 0 {
		opts.TPS = 60
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	size := s.Size()
	g := &Game{
		sim:     s,
		painter: render.NewPainter(size.W, size.H),
		palette: render.DefaultPalette(),
		hud:     ui.NewHUD(s, hudWidth),
		overlay: ui.NewOverlay(s, opts.Scale),
		store:   opts.Store,
		logger:  opts.Logger,
		scale:   opts.Scale,
		dt:      1 / float64(opts.TPS),
	}
	g.syncLook()
	if !opts.Mute {
		g.ambience = audio.NewAmbience(audio.SampleRate, s.Seed())
		g.ambience.SetLevels(s.Frame().Audio)
		ctx := eaudio.NewContext(int(audio.SampleRate))
		p, err := ctx.NewPlayer(audio.NewPCMReader(audio.WithVolume(g.ambience, opts.Volume)))
		if err != nil {
			return nil, err
		}
		p.Play()
		g.player = p
	}
	return g, nil
}

func (g *Game) syncLook() {
	p := g.sim.Player()
	g.yaw, g.pitch = p.Yaw, p.Pitch
}

// Update handles per-frame input and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.sim.Reset(g.sim.Seed())
		g.syncLook()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.sim.TriggerEncounter()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyX) {
		g.sim.DismissEncounter()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.save()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		g.load()
	}

	radarW := g.sim.Size().W * g.scale
	g.hud.Update(radarW)
	g.overlay.Update()

	if g.paused {
		return nil
	}
	in := g.input(radarW)
	f := g.sim.Tick(g.dt, in)
	if g.ambience != nil {
		g.ambience.SetLevels(f.Audio)
	}
	return nil
}

func (g *Game) input(radarW int) sim.Input {
	var in sim.Input
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		in.Move.Z++
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		in.Move.Z--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		in.Move.X++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		in.Move.X--
	}
	in.Sprint = ebiten.IsKeyPressed(ebiten.KeyShift)
	in.ToggleFlashlight = inpututil.IsKeyJustPressed(ebiten.KeyF)

	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyQ) {
		g.yaw += turnSpeed * g.dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyE) {
		g.yaw -= turnSpeed * g.dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.pitch += pitchSpeed * g.dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.pitch -= pitchSpeed * g.dt
	}

	// Dragging on the radar looks around.
	mx, my := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && (g.dragging || mx < radarW) {
		if g.dragging {
			g.yaw -= float64(mx-g.lastX) * mouseTurn
			g.pitch -= float64(my-g.lastY) * mouseTurn
		}
		g.dragging = true
		g.lastX, g.lastY = mx, my
	} else {
		g.dragging = false
	}

	g.yaw = mathx.WrapAngle(g.yaw)
	g.pitch = mathx.Clamp(g.pitch, -1.45, 1.45)
	in.Yaw, in.Pitch = g.yaw, g.pitch
	return in
}

func (g *Game) save() {
	if g.store == nil {
		return
	}
	if err := g.store.Save(sessionSlot, g.sim.Session()); err != nil {
		g.logger.Warn("save failed", "err", err)
		return
	}
	g.logger.Info("session saved", "slot", sessionSlot)
}

func (g *Game) load() {
	if g.store == nil {
		return
	}
	var sess sim.Session
	if err := g.store.Load(sessionSlot, &sess); err != nil {
		if !errors.Is(err, save.ErrNotFound) {
			g.logger.Warn("load failed", "err", err)
		}
		return
	}
	g.sim.Restore(sess)
	g.syncLook()
	g.logger.Info("session restored", "slot", sessionSlot)
}

// Draw renders the radar, overlay and HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	f := g.sim.Frame()
	g.painter.Blit(screen, g.sim.Cells(), render.Shade(g.palette, f.Atmosphere, f.Focus), g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.sim.Size().W*g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + hudWidth, max(s.H*g.scale, g.hud.Height())
}

// Close stops the ambience.
func (g *Game) Close() error {
	if g.player == nil {
		return nil
	}
	return g.player.Close()
}
