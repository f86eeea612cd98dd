package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/tinsel/components"
	"github.com/pthm-cable/tinsel/config"
)

func TestScenario_GiftsAssemble(t *testing.T) {
	m := MotionConfigFrom(config.Cfg())
	pop, err := NewPopulation(20, mustSpec(t, "gift"), rand.New(rand.NewSource(99)))
	if err != nil {
		t.Fatal(err)
	}
	c := newController(t, components.ModeDispersed)
	c.SetTargetMode(components.ModeAssembled)

	const dt = float32(1.0 / 60)
	var ps components.ProgressState
	for i := 0; i < 500; i++ {
		ps = c.Tick(dt)
		pop.Evaluate(ps, float32(i)*dt, dt, m)
		pop.Flush()
	}

	if math.Abs(float64(ps.Linear-1)) > 1e-3 {
		t.Errorf("linear progress %v, want ~1", ps.Linear)
	}
	for i := 0; i < pop.Len(); i++ {
		got := pop.Transform(i).Position
		if !vecNear(got, pop.Records[i].Assembled, 0.6) {
			t.Errorf("gift %d at %v, want near %v", i, got, pop.Records[i].Assembled)
		}
	}
}

func TestScenario_ApexWaitsAtOrigin(t *testing.T) {
	m := MotionConfigFrom(config.Cfg())
	pop, err := NewPopulation(1, mustSpec(t, "star"), rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatal(err)
	}
	c := newController(t, components.ModeDispersed)
	c.SetTargetMode(components.ModeAssembled)

	const dt = float32(1.0 / 60)
	var ps components.ProgressState
	for i := 0; ps.Eased < 0.5; i++ {
		if i > 10000 {
			t.Fatal("progress never reached 0.5")
		}
		ps = c.Tick(dt)
		pop.Evaluate(ps, float32(i)*dt, dt, m)
	}
	if got := pop.Transform(0).Position; got != (mgl32.Vec3{}) {
		t.Errorf("apex at eased=%v is at %v, want origin", ps.Eased, got)
	}
}

func TestScenario_RapidToggle(t *testing.T) {
	m := MotionConfigFrom(config.Cfg())
	pop, err := NewPopulation(20, mustSpec(t, "ribbon"), rand.New(rand.NewSource(8)))
	if err != nil {
		t.Fatal(err)
	}
	c := newController(t, components.ModeDispersed)

	modes := []components.TargetMode{components.ModeDispersed, components.ModeAssembled, components.ModeDispersed}
	const dt = float32(1.0 / 60)
	for i, mode := range modes {
		c.SetTargetMode(mode)
		ps := c.Tick(dt)
		pop.Evaluate(ps, float32(i)*dt, dt, m)

		before := pop.Buffer().Version()
		changed := pop.Flush()
		after := pop.Buffer().Version()

		for j := 0; j < pop.Len(); j++ {
			tr := pop.Transform(j)
			if hasNaN(tr.Position) || hasNaN(tr.Rotation) || math.IsNaN(float64(tr.Scale)) {
				t.Fatalf("tick %d instance %d: non-finite transform %+v", i, j, tr)
			}
		}
		// Idle spin moves every instance every tick.
		if !changed || after != before+1 {
			t.Errorf("tick %d: changed=%v version %d -> %d, want one bump", i, changed, before, after)
		}
		pop.Buffer().Consume()
	}
}

func TestScenario_ParallelRangesMatchSerial(t *testing.T) {
	m := MotionConfigFrom(config.Cfg())
	spec := mustSpec(t, "bauble")
	serial, _ := NewPopulation(300, spec, rand.New(rand.NewSource(3)))
	split, _ := NewPopulation(300, spec, rand.New(rand.NewSource(3)))

	ps := components.ProgressState{Linear: 0.5, Eased: 0.5, AngularVelocity: 2}
	for tick := 0; tick < 5; tick++ {
		serial.Evaluate(ps, float32(tick), 0.1, m)
		for start := 0; start < split.Len(); start += 64 {
			end := min(start+64, split.Len())
			split.EvaluateRange(start, end, ps, float32(tick), 0.1, m)
		}
	}
	serial.Flush()
	split.Flush()
	for i, mat := range serial.Buffer().Matrices() {
		if mat != split.Buffer().Matrices()[i] {
			t.Fatalf("instance %d differs between serial and chunked evaluation", i)
		}
	}
}
