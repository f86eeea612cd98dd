package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tinsel/components"
)

const (
	hudWidth  = 280
	hudHeight = 232
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Mode         components.TargetMode
	State        components.ProgressState
	Instances    int
	Snowflakes   int
	Tick         int32
	Elapsed      float64
	Speed        float32
	FPS          int32
	Paused       bool
	ScreenWidth  int32
	ScreenHeight int32
}

// HUDActions reports what the user changed through the HUD this frame.
type HUDActions struct {
	ToggleMode  bool
	TogglePause bool
	Speed       float32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	x, y     int32
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
		x:        10,
		y:        10,
	}
}

// Draw renders the HUD and returns the actions taken on its controls.
func (h *HUD) Draw(data HUDData) HUDActions {
	r := h.renderer
	padding := r.Theme.Padding
	width := int32(hudWidth) - padding*2

	r.DrawPanel(h.x, h.y, hudWidth, hudHeight)
	x := h.x + padding
	y := h.y + padding

	rl.DrawText(data.Title, x, y, 20, rl.RayWhite)
	y += 26

	y = r.DrawLabelValue(x, y, "Target", data.Mode.String())
	y = r.DrawBar(x, y, "Linear", data.State.Linear, width)
	y = r.DrawBar(x, y, "Eased", data.State.Eased, width)
	y = r.DrawCenteredBar(x, y, "Velocity", data.State.AngularVelocity, 3, width)
	y = r.DrawLabelValue(x, y, "Ornaments", fmt.Sprintf("%d", data.Instances))
	y = r.DrawLabelValue(x, y, "Snow", fmt.Sprintf("%d", data.Snowflakes))
	y = r.DrawLabelValue(x, y, "Time", fmt.Sprintf("%.1fs  tick %d  %d fps", data.Elapsed, data.Tick, data.FPS))
	y += 4

	actions := HUDActions{Speed: data.Speed}

	label := "Assemble"
	if data.Mode == components.ModeAssembled {
		label = "Disperse"
	}
	fx, fy := float32(x), float32(y)
	if gui.Button(rl.Rectangle{X: fx, Y: fy, Width: 120, Height: 26}, label) {
		actions.ToggleMode = true
	}
	pauseLabel := "Pause"
	if data.Paused {
		pauseLabel = "Resume"
	}
	if gui.Button(rl.Rectangle{X: fx + 130, Y: fy, Width: 120, Height: 26}, pauseLabel) {
		actions.TogglePause = true
	}
	fy += 34

	actions.Speed = gui.SliderBar(
		rl.Rectangle{X: fx + 40, Y: fy, Width: float32(width) - 90, Height: 16},
		"Speed", fmt.Sprintf("%.2fx", data.Speed),
		data.Speed, 0, 4,
	)

	return actions
}

// DrawLegend renders the palette swatches down the right edge.
func (h *HUD) DrawLegend(screenWidth int32, pal components.Palette) {
	r := h.renderer
	entries := []struct {
		name string
		c    components.Color
	}{
		{"Red velvet", pal.RedVelvet},
		{"Gold metallic", pal.GoldMetallic},
		{"Gold bright", pal.GoldBright},
		{"Emerald deep", pal.EmeraldDeep},
		{"Silver mist", pal.SilverMist},
		{"Royal blue", pal.RoyalBlue},
		{"Ribbon red", pal.RibbonRed},
		{"White glow", pal.WhiteGlow},
	}

	x := screenWidth - 140
	y := int32(10)
	for _, e := range entries {
		y = r.DrawColorSwatch(x, y, e.name, rl.Color{R: e.c.R, G: e.c.G, B: e.c.B, A: 255})
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32) {
	rl.DrawText(ControlsLegend, 10, screenHeight-25, 14, rl.Gray)
}
