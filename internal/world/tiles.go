package world

import (
	"math"

	"nightwalk/internal/mathx"
)

// TileConfig describes the ground lattice that follows the player.
type TileConfig struct {
	Size float64 `yaml:"size"`
	// N is the lattice edge length; N*N tiles are allocated.
	N int `yaml:"n"`
}

// DefaultTileConfig returns a 3x3 lattice of 24-unit tiles.
func DefaultTileConfig() TileConfig {
	return TileConfig{Size: 24, N: 3}
}

// TileGrid keeps N*N ground tiles snapped to the lattice around the player.
// A degenerate config yields an empty grid whose Layout is a no-op.
type TileGrid struct {
	cfg   TileConfig
	tiles []mathx.Vec2
}

// NewTileGrid allocates the lattice.
func NewTileGrid(cfg TileConfig) *TileGrid {
	g := &TileGrid{cfg: cfg}
	if cfg.N > 0 && cfg.Size > 0 && mathx.Finite(cfg.Size) {
		g.tiles = make([]mathx.Vec2, cfg.N*cfg.N)
	}
	return g
}

// Tiles returns the current tile positions.
func (g *TileGrid) Tiles() []mathx.Vec2 { return g.tiles }

// Config returns the lattice configuration.
func (g *TileGrid) Config() TileConfig { return g.cfg }

// Layout snaps every tile to floor(player/size)*size plus its lattice offset.
func (g *TileGrid) Layout(player mathx.Vec2) []mathx.Vec2 {
	if len(g.tiles) == 0 {
		return g.tiles
	}
	size := g.cfg.Size
	n := g.cfg.N
	cx := math.Floor(player.X/size) * size
	cz := math.Floor(player.Z/size) * size
	half := n / 2
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			g.tiles[row*n+col] = mathx.Vec2{
				X: cx + float64(col-half)*size,
				Z: cz + float64(row-half)*size,
			}
		}
	}
	return g.tiles
}
