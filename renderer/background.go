package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tinsel/components"
)

// Default night sky, top to bottom.
var (
	SkyTop    = components.Color{R: 4, G: 10, B: 28}
	SkyBottom = components.Color{R: 1, G: 20, B: 12}
)

// BackgroundRenderer fills the screen with a vertical sky gradient.
type BackgroundRenderer struct {
	screenW, screenH int32
	top, bottom      rl.Color
}

// NewBackgroundRenderer creates a new background renderer.
func NewBackgroundRenderer(screenW, screenH int32, top, bottom components.Color) *BackgroundRenderer {
	return &BackgroundRenderer{
		screenW: screenW,
		screenH: screenH,
		top:     toColor(top, 255),
		bottom:  toColor(bottom, 255),
	}
}

// Resize updates the fill area after a window resize.
func (b *BackgroundRenderer) Resize(screenW, screenH int32) {
	b.screenW, b.screenH = screenW, screenH
}

// Draw renders the gradient. Call before the 3D pass.
func (b *BackgroundRenderer) Draw() {
	rl.DrawRectangleGradientV(0, 0, b.screenW, b.screenH, b.top, b.bottom)
}
