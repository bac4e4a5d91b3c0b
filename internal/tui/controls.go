package tui

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"nightwalk/internal/mathx"
	"nightwalk/internal/sim"
)

// Action is a decoded key press.
type Action int

const (
	ActionNone Action = iota
	ActionForward
	ActionBack
	ActionLeft
	ActionRight
	ActionTurnLeft
	ActionTurnRight
	ActionSprint
	ActionFlashlight
	ActionTrigger
	ActionDismiss
	ActionSave
	ActionQuit
)

const (
	turnStep = 0.12
	// Terminals report presses but not releases, so a press keeps the
	// walker moving for a short while.
	holdTime = 0.28
)

// ActionFor maps a key event onto an action.
func ActionFor(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyUp:
		return ActionForward
	case tcell.KeyDown:
		return ActionBack
	case tcell.KeyLeft:
		return ActionTurnLeft
	case tcell.KeyRight:
		return ActionTurnRight
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w':
			return ActionForward
		case 'W':
			return ActionSprint
		case 's', 'S':
			return ActionBack
		case 'a', 'A':
			return ActionLeft
		case 'd', 'D':
			return ActionRight
		case 'q':
			return ActionTurnLeft
		case 'e':
			return ActionTurnRight
		case 'f':
			return ActionFlashlight
		case 't':
			return ActionTrigger
		case 'x':
			return ActionDismiss
		case 'p':
			return ActionSave
		case 'Q':
			return ActionQuit
		}
	}
	return ActionNone
}

// Controls turns discrete presses into the per-tick input the simulation
// wants.
type Controls struct {
	yaw    float64
	pitch  float64
	move   mathx.Vec2
	sprint bool
	hold   float64
	toggle bool
}

// Sync adopts the player's look angles, e.g. after a restore.
func (c *Controls) Sync(p sim.Player) {
	c.yaw = p.Yaw
	c.pitch = p.Pitch
}

// Apply records an action. Actions that are not movement are ignored.
func (c *Controls) Apply(a Action) {
	switch a {
	case ActionForward:
		c.press(mathx.Vec2{Z: 1}, false)
	case ActionSprint:
		c.press(mathx.Vec2{Z: 1}, true)
	case ActionBack:
		c.press(mathx.Vec2{Z: -1}, false)
	case ActionLeft:
		c.press(mathx.Vec2{X: -1}, false)
	case ActionRight:
		c.press(mathx.Vec2{X: 1}, false)
	case ActionTurnLeft:
		c.yaw = mathx.WrapAngle(c.yaw + turnStep)
	case ActionTurnRight:
		c.yaw = mathx.WrapAngle(c.yaw - turnStep)
	case ActionFlashlight:
		c.toggle = true
	}
}

func (c *Controls) press(dir mathx.Vec2, sprint bool) {
	c.move = dir
	c.sprint = sprint
	c.hold = holdTime
}

// Input produces this tick's input and ages held movement by dt.
func (c *Controls) Input(dt float64) sim.Input {
	in := sim.Input{Yaw: c.yaw, Pitch: c.pitch, ToggleFlashlight: c.toggle}
	c.toggle = false
	if c.hold > 0 {
		in.Move = c.move
		in.Sprint = c.sprint
		c.hold = math.Max(0, c.hold-dt)
	}
	return in
}
