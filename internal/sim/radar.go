package sim

import (
	"math"

	"nightwalk/internal/mathx"
)

// Radar palette indices written into Cells.
const (
	CellGround uint8 = iota
	CellTileEdge
	CellMist
	CellSapling
	CellTree
	CellHeading
	CellPlayer
	CellPresence

	CellCount
)

// saplingScale is the spawn scale below which a tree is drawn as a sapling.
const saplingScale = 0.6

// rasterize draws a top-down window centred on the player. Screen x follows
// world x and screen y follows world z, so facing yaw 0 points up.
func (s *Simulation) rasterize() {
	g := s.radar
	g.Clear()
	cell := s.cfg.Radar.CellSize
	center := s.player.Planar()
	cx, cy := g.W/2, g.H/2

	toCell := func(p mathx.Vec2) (int, int, bool) {
		x := cx + int(math.Floor((p.X-center.X)/cell))
		y := cy + int(math.Floor((p.Z-center.Z)/cell))
		return x, y, g.InBounds(x, y)
	}

	if size := s.cfg.Tiles.Size; size > 0 && len(s.frame.Tiles) > 0 {
		for x := 0; x < g.W; x++ {
			for y := 0; y < g.H; y++ {
				wx := center.X + (float64(x-cx)+0.5)*cell
				wz := center.Z + (float64(y-cy)+0.5)*cell
				if onTileEdge(wx, size, cell) || onTileEdge(wz, size, cell) {
					g.Set(x, y, CellTileEdge)
				}
			}
		}
	}

	for _, m := range s.frame.Mist {
		if m.Opacity < 0.5 {
			continue
		}
		if x, y, ok := toCell(mathx.Vec2{X: m.Position.X, Z: m.Position.Z}); ok {
			g.Set(x, y, CellMist)
		}
	}

	insts := s.pool.Instances()
	for i := range insts {
		t := insts[i].Transform
		if x, y, ok := toCell(mathx.Vec2{X: t.Position.X, Z: t.Position.Z}); ok {
			v := CellTree
			if insts[i].BaseScale > 0 && t.Scale < saplingScale*insts[i].BaseScale {
				v = CellSapling
			}
			g.Set(x, y, v)
		}
	}

	yaw := s.player.Yaw
	ahead := center.Add(mathx.Vec2{X: -math.Sin(yaw), Z: -math.Cos(yaw)}.Scale(2 * cell))
	if x, y, ok := toCell(ahead); ok {
		g.Set(x, y, CellHeading)
	}
	g.Set(cx, cy, CellPlayer)

	if p := s.frame.Presence; p.Visible {
		if x, y, ok := toCell(mathx.Vec2{X: p.Position.X, Z: p.Position.Z}); ok {
			g.Set(x, y, CellPresence)
		}
	}
}

func onTileEdge(v, size, cell float64) bool {
	r := math.Mod(v, size)
	if r < 0 {
		r += size
	}
	return r < cell/2 || size-r <= cell/2
}
