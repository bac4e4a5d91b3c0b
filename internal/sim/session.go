package sim

import (
	"time"

	"github.com/golang/geo/r3"

	"nightwalk/internal/mathx"
)

// Session is the small state blob a persistence collaborator stores.
type Session struct {
	Position            r3.Vector `yaml:"position" json:"position"`
	Yaw                 float64   `yaml:"yaw" json:"yaw"`
	Pitch               float64   `yaml:"pitch" json:"pitch"`
	FlashlightOn        bool      `yaml:"flashlight_on" json:"flashlightOn"`
	TotalDistanceMeters float64   `yaml:"total_distance_meters" json:"totalDistanceMeters"`
	Focus               float64   `yaml:"focus" json:"focus"`
	SavedAt             time.Time `yaml:"saved_at" json:"savedAt"`
}

// Session snapshots the persistable state.
func (s *Simulation) Session() Session {
	return Session{
		Position:            s.player.Position,
		Yaw:                 s.player.Yaw,
		Pitch:               s.player.Pitch,
		FlashlightOn:        s.player.FlashlightOn,
		TotalDistanceMeters: s.player.TotalDistanceMeters,
		Focus:               s.loop.Focus(),
		SavedAt:             s.opts.Now(),
	}
}

// Restore moves the player to a saved session. Corrupt values are repaired
// rather than rejected, the forest is laid out again around the new position
// and the encounter goes back to its initial dormant state.
func (s *Simulation) Restore(sess Session) {
	pos := sess.Position
	if !mathx.Finite(pos.X) || !mathx.Finite(pos.Z) {
		pos = r3.Vector{}
	}
	pos.Y = s.cfg.Player.EyeHeight

	yaw := 0.0
	if mathx.Finite(sess.Yaw) {
		yaw = mathx.WrapAngle(sess.Yaw)
	}
	pitch := 0.0
	if mathx.Finite(sess.Pitch) {
		pitch = mathx.Clamp(sess.Pitch, -maxPitch, maxPitch)
	}
	dist := sess.TotalDistanceMeters
	if !mathx.Finite(dist) || dist < 0 {
		dist = 0
	}

	s.player = Player{
		Position:            pos,
		Yaw:                 yaw,
		Pitch:               pitch,
		FlashlightOn:        sess.FlashlightOn,
		TotalDistanceMeters: dist,
	}
	s.loop.SetFocus(sess.Focus)
	s.machine.Reset()
	s.pendingWhisper = ""
	s.pool.Scatter(s.player.Planar(), s.rng)

	s.input = Input{Yaw: yaw, Pitch: pitch}
	s.Tick(0, s.input)
}
