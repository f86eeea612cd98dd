package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/tinsel/camera"
	"github.com/pthm-cable/tinsel/components"
	"github.com/pthm-cable/tinsel/config"
	"github.com/pthm-cable/tinsel/systems"
	"github.com/pthm-cable/tinsel/telemetry"
)

// DT is the fixed step used by headless runs.
const DT = 1.0 / 60.0

// GeometryFunc resolves the opaque geometry handle for one layer of a type.
type GeometryFunc func(t components.OrnamentType, role components.LayerRole) any

// Options configures a new Game.
type Options struct {
	Config         *config.Config // nil = config.Cfg()
	Seed           int64
	Headless       bool
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	OutputDir      string
	StepsPerUpdate int
	ToggleEvery    float64 // seconds between automatic mode flips, 0 = never
	InitialMode    string  // "" = config transition.initial_mode
	Serial         bool    // evaluate on the calling goroutine only
	Geometry       GeometryFunc
}

// PopulationRef is the ECS component that registers a population.
type PopulationRef struct {
	Pop *systems.Population
}

// LayerRef is the ECS component that registers a rendered layer.
type LayerRef struct {
	Layer *systems.Layer
}

// SceneIndex is the scene position of an entity. Queries sort by it.
type SceneIndex struct {
	Index int
}

// Game holds the complete scene state.
type Game struct {
	cfg   *config.Config
	world *ecs.World
	rng   *rand.Rand

	popMapper   *ecs.Map2[PopulationRef, SceneIndex]
	popFilter   *ecs.Filter2[PopulationRef, SceneIndex]
	layerMapper *ecs.Map2[LayerRef, SceneIndex]
	layerFilter *ecs.Filter2[LayerRef, SceneIndex]

	// Scratch filled from the ECS once per tick
	pops       []*systems.Population
	popScratch []popEntry

	controller *systems.TransitionController
	motion     systems.MotionConfig
	palette    components.Palette
	snow       *systems.SnowField
	camera     *camera.Camera
	parallel   *parallelState
	serial     bool

	// State
	tick        int32
	elapsed     float64
	state       components.ProgressState
	lastDirty   int
	paused      bool
	speed       float32
	instances   int
	toggleEvery float64
	nextToggle  float64

	stepsPerUpdate int

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	statsCallback StatsCallback
	logStats      bool
}

// NewGameWithOptions builds the scene. Every population's type and layer
// roles are resolved before any instance is generated, so a bad scene fails
// without partial state.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	modeName := cfg.Transition.InitialMode
	if opts.InitialMode != "" {
		modeName = opts.InitialMode
	}
	mode, err := components.ParseTargetMode(modeName)
	if err != nil {
		return nil, err
	}

	controller, err := systems.NewTransitionController(systems.TransitionConfigFrom(cfg), mode)
	if err != nil {
		return nil, err
	}

	palette, err := systems.PaletteFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	plans, err := planScene(cfg)
	if err != nil {
		return nil, err
	}

	world := ecs.NewWorld()
	g := &Game{
		cfg:         cfg,
		world:       world,
		rng:         rand.New(rand.NewSource(opts.Seed)),
		popMapper:   ecs.NewMap2[PopulationRef, SceneIndex](world),
		popFilter:   ecs.NewFilter2[PopulationRef, SceneIndex](world),
		layerMapper: ecs.NewMap2[LayerRef, SceneIndex](world),
		layerFilter: ecs.NewFilter2[LayerRef, SceneIndex](world),
		controller:  controller,
		motion:      systems.MotionConfigFrom(cfg),
		palette:     palette,
		camera:      camera.New(cfg.Camera),
		parallel:    newParallelState(cfg.Parallel.Threshold),
		serial:      opts.Serial,
		state:       controller.State(),
		speed:       1,
		toggleEvery: opts.ToggleEvery,
		nextToggle:  opts.ToggleEvery,
		logStats:    opts.LogStats,

		stepsPerUpdate: max(opts.StepsPerUpdate, 1),
	}

	if err := g.spawnScene(plans, opts.Geometry); err != nil {
		return nil, err
	}

	if cfg.Snow.Enabled {
		g.snow = systems.NewSnowField(systems.SnowConfigFrom(cfg), g.rng)
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}
	g.collector = telemetry.NewCollector(statsWindow)
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	slog.Info("scene created",
		"seed", opts.Seed,
		"populations", len(plans),
		"instances", g.instances,
		"mode", mode.String(),
	)
	return g, nil
}

type populationPlan struct {
	count int
	spec  systems.TypeSpec
	roles []components.LayerRole
}

func planScene(cfg *config.Config) ([]populationPlan, error) {
	plans := make([]populationPlan, 0, len(cfg.Scene.Populations))
	for i, pc := range cfg.Scene.Populations {
		spec, err := systems.ResolveTypeSpec(cfg, pc.Type)
		if err != nil {
			return nil, fmt.Errorf("scene population %d: %w", i, err)
		}
		if pc.Count < 0 {
			return nil, fmt.Errorf("scene population %d (%s): negative count %d", i, pc.Type, pc.Count)
		}
		roles := []components.LayerRole{components.RoleDefault}
		if len(pc.Layers) > 0 {
			roles = roles[:0]
			for _, name := range pc.Layers {
				role, err := components.ParseLayerRole(name)
				if err != nil {
					return nil, fmt.Errorf("scene population %d (%s): %w", i, pc.Type, err)
				}
				roles = append(roles, role)
			}
		}
		plans = append(plans, populationPlan{count: pc.Count, spec: spec, roles: roles})
	}
	return plans, nil
}

// spawnScene generates each planned population and registers it and its
// layers in the ECS world.
func (g *Game) spawnScene(plans []populationPlan, geometry GeometryFunc) error {
	layerIndex := 0
	for i, plan := range plans {
		pop, err := systems.NewPopulation(plan.count, plan.spec, g.rng)
		if err != nil {
			return err
		}

		specs := make([]systems.LayerSpec, len(plan.roles))
		for j, role := range plan.roles {
			specs[j] = systems.LayerSpec{Role: role}
			if geometry != nil {
				specs[j].Geometry = geometry(plan.spec.Type, role)
			}
		}
		layers, err := systems.BindLayers(pop, specs, g.palette)
		if err != nil {
			return fmt.Errorf("population %s: %w", plan.spec.Type, err)
		}

		g.popMapper.NewEntity(&PopulationRef{Pop: pop}, &SceneIndex{Index: i})
		for _, l := range layers {
			g.layerMapper.NewEntity(&LayerRef{Layer: l}, &SceneIndex{Index: layerIndex})
			layerIndex++
		}
		g.instances += pop.Len()

		slog.Debug("population created",
			"type", plan.spec.Type.String(),
			"count", pop.Len(),
			"layers", len(layers),
		)
	}
	return nil
}

// Populations returns the registered populations in scene order.
func (g *Game) Populations() []*systems.Population {
	return g.collectPopulations(nil)
}

// Layers returns the registered layers in draw order.
func (g *Game) Layers() []*systems.Layer {
	type entry struct {
		idx   int
		layer *systems.Layer
	}
	var entries []entry
	query := g.layerFilter.Query()
	for query.Next() {
		ref, idx := query.Get()
		entries = append(entries, entry{idx.Index, ref.Layer})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].idx < entries[j].idx })

	out := make([]*systems.Layer, len(entries))
	for i, e := range entries {
		out[i] = e.layer
	}
	return out
}

// SetTargetMode changes the direction of the shared transition.
func (g *Game) SetTargetMode(mode components.TargetMode) {
	if mode == g.controller.Mode() {
		return
	}
	g.controller.SetTargetMode(mode)
	g.collector.RecordToggle()
	slog.Debug("target mode changed", "mode", mode.String(), "tick", g.tick)
}

// ToggleMode flips between dispersed and assembled.
func (g *Game) ToggleMode() {
	g.SetTargetMode(g.controller.Mode().Toggle())
}

// Mode returns the current target mode.
func (g *Game) Mode() components.TargetMode {
	return g.controller.Mode()
}

// State returns the progress snapshot of the last tick.
func (g *Game) State() components.ProgressState {
	return g.state
}

// Update advances one rendered frame of dt seconds.
func (g *Game) Update(dt float32) {
	g.perfCollector.RecordFrame()
	if g.paused {
		return
	}
	g.Step(dt * g.speed)
}

// UpdateHeadless runs StepsPerUpdate fixed-size steps.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step(DT)
	}
}

// Step runs one tick: the shared transition advances once, then every
// population is evaluated against the same snapshot and flushed.
func (g *Game) Step(dt float32) components.ProgressState {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseTransition)
	g.applySchedule()
	ps := g.controller.Tick(dt)
	g.state = ps
	if dt > 0 {
		g.elapsed += float64(dt)
	}
	elapsed := float32(g.elapsed)

	g.perfCollector.StartPhase(telemetry.PhaseEvaluate)
	g.pops = g.collectPopulations(g.pops[:0])
	g.evaluate(frame{ps: ps, elapsed: elapsed, dt: dt})

	g.perfCollector.StartPhase(telemetry.PhaseBufferWrite)
	dirty := 0
	for _, pop := range g.pops {
		if pop.Flush() {
			dirty++
		}
	}
	g.lastDirty = dirty

	g.perfCollector.StartPhase(telemetry.PhaseSnow)
	respawned := 0
	if g.snow != nil {
		before := g.snow.Respawns()
		g.snow.Update(elapsed, dt)
		respawned = g.snow.Respawns() - before
	}
	g.camera.Update(dt, g.controller.Mode() == components.ModeAssembled)

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.RecordTick(ps.Linear, ps.Eased, ps.AngularVelocity, dirty)
	g.collector.RecordRespawns(respawned)
	g.tick++
	g.flushTelemetry()

	g.perfCollector.EndTick()
	return ps
}

type popEntry struct {
	idx int
	pop *systems.Population
}

// collectPopulations appends the registered populations to dst, sorted by
// SceneIndex.
func (g *Game) collectPopulations(dst []*systems.Population) []*systems.Population {
	g.popScratch = g.popScratch[:0]
	query := g.popFilter.Query()
	for query.Next() {
		ref, idx := query.Get()
		g.popScratch = append(g.popScratch, popEntry{idx.Index, ref.Pop})
	}
	sort.Slice(g.popScratch, func(i, j int) bool { return g.popScratch[i].idx < g.popScratch[j].idx })

	for _, e := range g.popScratch {
		dst = append(dst, e.pop)
	}
	return dst
}

// applySchedule flips the mode on the automatic toggle schedule.
func (g *Game) applySchedule() {
	if g.toggleEvery <= 0 || g.elapsed < g.nextToggle {
		return
	}
	g.ToggleMode()
	g.nextToggle += g.toggleEvery
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int32 {
	return g.tick
}

// Elapsed returns the scene clock in seconds.
func (g *Game) Elapsed() float64 {
	return g.elapsed
}

// LastDirty returns how many population buffers the last tick changed.
func (g *Game) LastDirty() int {
	return g.lastDirty
}

// Instances returns the total ornament count.
func (g *Game) Instances() int {
	return g.instances
}

// Snow returns the snow field, or nil when snow is disabled.
func (g *Game) Snow() *systems.SnowField {
	return g.snow
}

// Camera returns the orbit camera.
func (g *Game) Camera() *camera.Camera {
	return g.camera
}

// Palette returns the resolved palette.
func (g *Game) Palette() components.Palette {
	return g.palette
}

// Paused reports whether the scene clock is stopped.
func (g *Game) Paused() bool {
	return g.paused
}

// TogglePause stops or resumes the scene clock.
func (g *Game) TogglePause() {
	g.paused = !g.paused
}

// Speed returns the time scale applied by Update.
func (g *Game) Speed() float32 {
	return g.speed
}

// SetSpeed sets the time scale applied by Update, clamped to [0, 4].
func (g *Game) SetSpeed(s float32) {
	g.speed = min(max(s, 0), 4)
}

// Unload releases resources.
func (g *Game) Unload() {
	g.stopParallelWorkers()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
