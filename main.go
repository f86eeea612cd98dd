package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tinsel/config"
	"github.com/pthm-cable/tinsel/game"
	"github.com/pthm-cable/tinsel/renderer"
	"github.com/pthm-cable/tinsel/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Ticks per headless update call")
	mode := flag.String("mode", "", "Initial target mode: assembled or dispersed (empty = use config)")
	toggleEvery := flag.Float64("toggle-every", 0, "Flip the target mode every N seconds (0 = never)")
	serial := flag.Bool("serial", false, "Evaluate instances on one goroutine")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Build game options
	opts := game.Options{
		Config:         cfg,
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
		ToggleEvery:    *toggleEvery,
		InitialMode:    *mode,
		Serial:         *serial,
	}

	if *headless {
		runHeadless(opts, *maxTicks)
		return
	}
	runGraphical(cfg, opts, *maxTicks)
}

// runHeadless steps the scene on the fixed timestep, no raylib needed.
func runHeadless(opts game.Options, maxTicks int) {
	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to create scene", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	slog.Info("starting headless run",
		"seed", opts.Seed,
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
		"toggle_every", opts.ToggleEvery,
	)

	for {
		g.UpdateHeadless()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick(), "mode", g.Mode().String())
			return
		}
	}
}

func runGraphical(cfg *config.Config, opts game.Options, maxTicks int) {
	width, height := int32(cfg.Screen.Width), int32(cfg.Screen.Height)

	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(width, height, "Tinsel")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	opts.Geometry = renderer.Geometry
	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to create scene", "error", err)
		return
	}
	defer g.Unload()

	background := renderer.NewBackgroundRenderer(width, height, renderer.SkyTop, renderer.SkyBottom)
	scene := renderer.NewSceneRenderer()
	scene.Init()
	defer scene.Unload()

	hud := ui.NewHUD()
	controls := ui.NewControls(ui.HUDBounds())

	for !rl.WindowShouldClose() {
		dt := rl.GetFrameTime()
		controls.Handle(g, dt)
		g.Update(dt)

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		background.Draw()
		scene.Draw(g.Camera(), g.Layers(), g.Snow(), g.Palette().SnowWhite)

		snowCount := 0
		if s := g.Snow(); s != nil {
			snowCount = s.Len()
		}
		actions := hud.Draw(ui.HUDData{
			Title:        "Tinsel",
			Mode:         g.Mode(),
			State:        g.State(),
			Instances:    g.Instances(),
			Snowflakes:   snowCount,
			Tick:         g.Tick(),
			Elapsed:      g.Elapsed(),
			Speed:        g.Speed(),
			FPS:          rl.GetFPS(),
			Paused:       g.Paused(),
			ScreenWidth:  width,
			ScreenHeight: height,
		})
		hud.DrawLegend(width, g.Palette())
		hud.DrawControls(height)
		rl.EndDrawing()

		if actions.ToggleMode {
			g.ToggleMode()
		}
		if actions.TogglePause {
			g.TogglePause()
		}
		if actions.Speed != g.Speed() {
			g.SetSpeed(actions.Speed)
		}

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			break
		}
	}
}
