//go:build !ebiten

package app

import (
	"errors"
	"log/slog"

	"nightwalk/internal/save"
	"nightwalk/internal/sim"
)

// ErrNoGUI is returned by New when built without the ebiten tag.
var ErrNoGUI = errors.New("app: GUI requires building with the 'ebiten' tag")

// Options mirrors the GUI build's options.
type Options struct {
	Scale  int
	TPS    int
	Volume float64
	Mute   bool
	Store  *save.Store
	Logger *slog.Logger
}

// Game is a placeholder that satisfies the API expected by the GUI build.
type Game struct{}

// New always fails in the headless build.
func New(*sim.Simulation, Options) (*Game, error) { return nil, ErrNoGUI }

// Update always reports that the GUI build tag is missing.
func (g *Game) Update() error { return ErrNoGUI }

// Draw is a no-op placeholder to satisfy the interface shape.
func (g *Game) Draw(any) {}

// Layout returns zeros in the headless build.
func (g *Game) Layout(int, int) (int, int) { return 0, 0 }

// Close is a no-op.
func (g *Game) Close() error { return nil }
