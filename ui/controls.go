package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tinsel/camera"
)

// ControlsLegend lists the keyboard and mouse bindings.
const ControlsLegend = "SPACE: Assemble/Disperse | P: Pause | Drag/Arrows: Orbit | Wheel: Zoom | +/-: Speed | Home: Reset view"

const (
	orbitKeyRate   = 1.5   // radians per second
	orbitDragRate  = 0.005 // radians per pixel
	zoomWheelStep  = 1.1
	speedKeyFactor = 1.25
)

// Scene is the part of the game the controls drive.
type Scene interface {
	ToggleMode()
	TogglePause()
	Speed() float32
	SetSpeed(float32)
	Camera() *camera.Camera
}

// Controls translates keyboard and mouse input into scene commands.
type Controls struct {
	dragging bool
	// Mouse drags inside this rectangle belong to the HUD
	blocked rl.Rectangle
}

// NewControls creates the input handler. Drags starting inside hud are
// left to the GUI widgets.
func NewControls(hud rl.Rectangle) *Controls {
	return &Controls{blocked: hud}
}

// Handle processes one frame of input.
func (c *Controls) Handle(s Scene, dt float32) {
	if rl.IsKeyPressed(rl.KeySpace) {
		s.ToggleMode()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		s.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		s.SetSpeed(s.Speed() * speedKeyFactor)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		s.SetSpeed(s.Speed() / speedKeyFactor)
	}

	cam := s.Camera()
	if rl.IsKeyPressed(rl.KeyHome) {
		cam.Reset()
	}

	var dAz, dPolar float32
	if rl.IsKeyDown(rl.KeyLeft) {
		dAz -= orbitKeyRate * dt
	}
	if rl.IsKeyDown(rl.KeyRight) {
		dAz += orbitKeyRate * dt
	}
	if rl.IsKeyDown(rl.KeyUp) {
		dPolar -= orbitKeyRate * dt
	}
	if rl.IsKeyDown(rl.KeyDown) {
		dPolar += orbitKeyRate * dt
	}

	mouse := rl.GetMousePosition()
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		c.dragging = !rl.CheckCollisionPointRec(mouse, c.blocked)
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
		c.dragging = false
	}
	if c.dragging {
		delta := rl.GetMouseDelta()
		dAz -= delta.X * orbitDragRate
		dPolar -= delta.Y * orbitDragRate
	}
	if dAz != 0 || dPolar != 0 {
		cam.Orbit(dAz, dPolar)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		if wheel > 0 {
			cam.ZoomBy(zoomWheelStep)
		} else {
			cam.ZoomBy(1 / zoomWheelStep)
		}
	}
}

// HUDBounds returns the screen area covered by the HUD panel.
func HUDBounds() rl.Rectangle {
	return rl.Rectangle{X: 10, Y: 10, Width: hudWidth, Height: hudHeight}
}
