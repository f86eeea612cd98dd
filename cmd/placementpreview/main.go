// Placement preview tool - scrub one ornament population between its
// dispersed and assembled anchors with sliders.
//
// Usage: go run ./cmd/placementpreview [-config path]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tinsel/camera"
	"github.com/pthm-cable/tinsel/components"
	"github.com/pthm-cable/tinsel/config"
	"github.com/pthm-cable/tinsel/renderer"
	"github.com/pthm-cable/tinsel/systems"
)

const (
	windowWidth  = 1200
	windowHeight = 760
	panelWidth   = 320
)

// previewParams holds the slider state.
type previewParams struct {
	TypeIndex int
	Count     int
	Seed      int64
	Progress  float32
	Animate   bool
}

type preview struct {
	cfg     *config.Config
	palette components.Palette
	motion  systems.MotionConfig

	pop    *systems.Population
	layers []*systems.Layer
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	palette, err := systems.PaletteFromConfig(cfg)
	if err != nil {
		slog.Error("invalid palette", "error", err)
		os.Exit(1)
	}

	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(windowWidth, windowHeight, "Placement Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	scene := renderer.NewSceneRenderer()
	scene.Init()
	defer scene.Unload()

	cam := camera.New(cfg.Camera)
	types := cfg.Derived.OrnamentNames

	params := previewParams{Count: 40, Seed: 12345, Progress: 1}
	p := &preview{cfg: cfg, palette: palette, motion: systems.MotionConfigFrom(cfg)}
	if err := p.rebuild(types[params.TypeIndex], params); err != nil {
		slog.Error("failed to build population", "error", err)
		os.Exit(1)
	}

	var elapsed float32
	needsRebuild := false

	for !rl.WindowShouldClose() {
		dt := rl.GetFrameTime()
		elapsed += dt

		if needsRebuild {
			if err := p.rebuild(types[params.TypeIndex], params); err != nil {
				slog.Error("failed to build population", "error", err)
			}
			needsRebuild = false
		}

		if params.Animate {
			params.Progress += dt * 0.25
			if params.Progress > 1 {
				params.Progress = 0
			}
		}
		if rl.IsKeyDown(rl.KeyLeft) {
			cam.Orbit(-1.5*dt, 0)
		}
		if rl.IsKeyDown(rl.KeyRight) {
			cam.Orbit(1.5*dt, 0)
		}
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			cam.ZoomBy(1 + wheel*0.1)
		}

		// The slider drives eased progress directly; linear is shown for reference
		ps := components.ProgressState{Linear: params.Progress, Eased: systems.EaseInOutCubic(params.Progress)}
		p.pop.Evaluate(ps, elapsed, dt, p.motion)
		p.pop.Flush()

		rl.BeginDrawing()
		rl.ClearBackground(rl.Color{R: 6, G: 12, B: 24, A: 255})

		scene.Draw(cam, p.layers, nil, palette.SnowWhite)

		panelX := float32(windowWidth - panelWidth)
		panelY := float32(10)
		rl.DrawRectangle(int32(panelX)-10, 0, panelWidth+10, windowHeight, rl.Color{R: 245, G: 245, B: 245, A: 255})

		rl.DrawText("Placement Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		// Type selector
		rl.DrawText(fmt.Sprintf("Type: %s", types[params.TypeIndex]), int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 22
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 26}, "Prev") {
			params.TypeIndex = (params.TypeIndex + len(types) - 1) % len(types)
			needsRebuild = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 26}, "Next") {
			params.TypeIndex = (params.TypeIndex + 1) % len(types)
			needsRebuild = true
		}
		panelY += 40

		// Count slider
		rl.DrawText("Count", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newCount := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth - 80, Height: 20},
			"", "",
			float32(params.Count), 0, 500,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Count), int32(panelX+panelWidth-70), int32(panelY+2), 16, rl.DarkGray)
		if int(newCount) != params.Count {
			params.Count = int(newCount)
			needsRebuild = true
		}
		panelY += 35

		// Seed slider
		rl.DrawText("Seed", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth - 80, Height: 20},
			"", "",
			float32(params.Seed), 0, 99999,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Seed), int32(panelX+panelWidth-70), int32(panelY+2), 16, rl.DarkGray)
		if int64(newSeed) != params.Seed {
			params.Seed = int64(newSeed)
			needsRebuild = true
		}
		panelY += 35

		// Progress slider
		rl.DrawText("Progress (0 = dispersed, 1 = assembled)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		params.Progress = gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth - 80, Height: 20},
			"", "",
			params.Progress, 0, 1,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.Progress), int32(panelX+panelWidth-70), int32(panelY+2), 16, rl.DarkGray)
		panelY += 40

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(params.Animate, "Stop", "Animate")) {
			params.Animate = !params.Animate
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
			needsRebuild = true
		}
		panelY += 50

		rl.DrawText(fmt.Sprintf("Eased: %.3f", ps.Eased), int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 22
		rl.DrawText(fmt.Sprintf("Instances: %d  Layers: %d", p.pop.Len(), len(p.layers)), int32(panelX), int32(panelY), 16, rl.DarkGray)

		rl.DrawText("Arrows: orbit | Wheel: zoom", 10, windowHeight-25, 14, rl.LightGray)

		rl.EndDrawing()
	}
}

// rebuild regenerates the population for the current slider state.
func (p *preview) rebuild(typeName string, params previewParams) error {
	spec, err := systems.ResolveTypeSpec(p.cfg, typeName)
	if err != nil {
		return err
	}
	pop, err := systems.NewPopulation(params.Count, spec, rand.New(rand.NewSource(params.Seed)))
	if err != nil {
		return err
	}

	roles := []components.LayerRole{components.RoleDefault}
	if spec.Type == components.Gift || spec.Type == components.CandyCane {
		roles = []components.LayerRole{components.RoleBody, components.RoleDecoration}
	}
	specs := make([]systems.LayerSpec, len(roles))
	for i, role := range roles {
		specs[i] = systems.LayerSpec{Role: role, Geometry: renderer.Geometry(spec.Type, role)}
	}
	layers, err := systems.BindLayers(pop, specs, p.palette)
	if err != nil {
		return err
	}

	p.pop, p.layers = pop, layers
	return nil
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
