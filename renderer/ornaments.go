package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/tinsel/camera"
	"github.com/pthm-cable/tinsel/components"
	"github.com/pthm-cable/tinsel/systems"
)

// glowScale enlarges the additive halo drawn around lights.
const glowScale = 2.5

// SceneRenderer draws every layer and the snow field in 3D.
type SceneRenderer struct {
	models      [numShapes]rl.Model
	initialized bool
}

// NewSceneRenderer creates a new scene renderer.
func NewSceneRenderer() *SceneRenderer {
	return &SceneRenderer{}
}

// Init loads the unit meshes (must be called after raylib window is created).
func (r *SceneRenderer) Init() {
	if r.initialized {
		return
	}
	for s := Shape(0); s < numShapes; s++ {
		r.models[s] = rl.LoadModelFromMesh(genMesh(s))
	}
	r.initialized = true
}

// Draw renders the layers and snow from the camera's point of view.
func (r *SceneRenderer) Draw(cam *camera.Camera, layers []*systems.Layer, snow *systems.SnowField, snowColor components.Color) {
	if !r.initialized {
		r.Init()
	}

	rl.BeginMode3D(toCamera3D(cam))

	for _, l := range layers {
		r.drawLayer(l)
	}
	if snow != nil {
		r.drawInstances(ShapeSnowflake, snow.Buffer().Matrices(), nil, toColor(snowColor, 230))
	}

	// Halos last so they blend over the solid pass
	rl.BeginBlendMode(rl.BlendAdditive)
	for _, l := range layers {
		if shape, ok := l.Geometry.(Shape); ok && shape == ShapeGlow {
			r.drawGlow(l)
		}
	}
	rl.EndBlendMode()

	rl.EndMode3D()
}

func (r *SceneRenderer) drawLayer(l *systems.Layer) {
	shape, ok := l.Geometry.(Shape)
	if !ok {
		shape = ShapeSphere
	}
	r.drawInstances(shape, l.Matrices(), l.Colors(), rl.White)
}

// drawInstances draws one model per matrix. colors may be nil, in which
// case tint is used for every instance.
func (r *SceneRenderer) drawInstances(shape Shape, mats []mgl32.Mat4, colors []components.Color, tint rl.Color) {
	model := r.models[shape]
	for i, m := range mats {
		if m[0] == 0 && m[5] == 0 && m[10] == 0 {
			continue // collapsed to zero scale
		}
		c := tint
		if colors != nil {
			c = toColor(colors[i], 255)
		}
		model.Transform = toMatrix(m)
		rl.DrawModel(model, rl.Vector3{}, 1, c)
	}
}

func (r *SceneRenderer) drawGlow(l *systems.Layer) {
	model := r.models[ShapeGlow]
	halo := mgl32.Scale3D(glowScale, glowScale, glowScale)
	colors := l.Colors()
	for i, m := range l.Matrices() {
		model.Transform = toMatrix(m.Mul4(halo))
		rl.DrawModel(model, rl.Vector3{}, 1, toColor(colors[i], 40))
	}
}

// Unload frees resources.
func (r *SceneRenderer) Unload() {
	if !r.initialized {
		return
	}
	for s := range r.models {
		rl.UnloadModel(r.models[s])
	}
	r.initialized = false
}

func toCamera3D(cam *camera.Camera) rl.Camera3D {
	pos := cam.Position()
	return rl.Camera3D{
		Position:   rl.NewVector3(pos[0], pos[1], pos[2]),
		Target:     rl.NewVector3(cam.Target[0], cam.Target[1], cam.Target[2]),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       cam.FovY,
		Projection: rl.CameraPerspective,
	}
}

// toMatrix converts a column-major mgl32 matrix to raylib's layout.
// Both index element (row, col) as col*4+row.
func toMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M4: m[4], M8: m[8], M12: m[12],
		M1: m[1], M5: m[5], M9: m[9], M13: m[13],
		M2: m[2], M6: m[6], M10: m[10], M14: m[14],
		M3: m[3], M7: m[7], M11: m[11], M15: m[15],
	}
}

func toColor(c components.Color, alpha uint8) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: alpha}
}
