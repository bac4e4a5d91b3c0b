// Package stream fans simulation frames out to websocket clients so an
// external renderer can draw them.
package stream

import (
	"encoding/json"
	"fmt"

	"nightwalk/internal/sim"
)

// ProtocolVersion is bumped whenever Message changes incompatibly.
const ProtocolVersion = 1

// Message is the JSON form of one frame.
type Message struct {
	Ver  int     `json:"ver"`
	Type string  `json:"type"`
	Time float64 `json:"t"`

	Player   PlayerState    `json:"player"`
	Presence *PresenceState `json:"presence,omitempty"`
	Trees    []Tree         `json:"trees"`
	Tiles    [][2]float64   `json:"tiles"`

	Focus   float64 `json:"focus"`
	Threat  float64 `json:"threat"`
	Whisper string  `json:"whisper,omitempty"`

	Sky        float64    `json:"sky"`
	Fog        [3]float64 `json:"fog"`
	Background [3]float64 `json:"background"`
	Bob        float64    `json:"bob"`
	Audio      Audio      `json:"audio"`
}

// PlayerState is the camera.
type PlayerState struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Yaw        float64 `json:"yaw"`
	Pitch      float64 `json:"pitch"`
	Flashlight bool    `json:"flashlight"`
	Distance   float64 `json:"distance"`
}

// PresenceState is present only while the entity is visible.
type PresenceState struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	Yaw       float64 `json:"yaw"`
	Attention float64 `json:"attention"`
}

// Tree is one resolved scenery transform.
type Tree struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Scale float64 `json:"s"`
	Yaw   float64 `json:"yaw"`
	Roll  float64 `json:"roll"`
	Tint  float64 `json:"tint"`
}

// Audio mirrors the ambience levels.
type Audio struct {
	Rumble float64 `json:"rumble"`
	Hiss   float64 `json:"hiss"`
	Hz     float64 `json:"hz"`
}

// FromFrame converts a frame into its wire form. It copies everything it
// keeps, so the frame's buffers may be reused afterwards.
func FromFrame(f sim.Frame) Message {
	p := f.Player
	msg := Message{
		Ver:  ProtocolVersion,
		Type: "frame",
		Time: f.Time,
		Player: PlayerState{
			X: p.Position.X, Y: p.Position.Y + f.Bob.Offset, Z: p.Position.Z,
			Yaw: p.Yaw, Pitch: p.Pitch,
			Flashlight: p.FlashlightOn,
			Distance:   p.TotalDistanceMeters,
		},
		Trees:   make([]Tree, len(f.Trees)),
		Tiles:   make([][2]float64, len(f.Tiles)),
		Focus:   f.Focus,
		Threat:  f.Threat,
		Whisper: f.Whisper,
		Sky:     f.Atmosphere.SkyRotation,
		Fog:     [3]float64{f.Atmosphere.Fog.R, f.Atmosphere.Fog.G, f.Atmosphere.Fog.B},
		Background: [3]float64{
			f.Atmosphere.Background.R, f.Atmosphere.Background.G, f.Atmosphere.Background.B,
		},
		Bob:   f.Bob.Offset,
		Audio: Audio{Rumble: f.Audio.Rumble, Hiss: f.Audio.Hiss, Hz: f.Audio.OscillatorHz},
	}
	for i, t := range f.Trees {
		msg.Trees[i] = Tree{
			X: t.Position.X, Y: t.Position.Y, Z: t.Position.Z,
			Scale: t.Scale, Yaw: t.Yaw, Roll: t.Roll, Tint: t.Tint,
		}
	}
	for i, t := range f.Tiles {
		msg.Tiles[i] = [2]float64{t.X, t.Z}
	}
	if pr := f.Presence; pr.Visible {
		msg.Presence = &PresenceState{
			X: pr.Position.X, Y: pr.Position.Y, Z: pr.Position.Z,
			Yaw: pr.Yaw, Attention: pr.Attention,
		}
	}
	return msg
}

// Encode marshals a frame for the wire.
func Encode(f sim.Frame) ([]byte, error) {
	data, err := json.Marshal(FromFrame(f))
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return data, nil
}
