package systems

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/tinsel/components"
	"github.com/pthm-cable/tinsel/config"
)

func TestInstanceBuffer_DirtyOncePerChange(t *testing.T) {
	b := NewInstanceBuffer(3)
	ts := []components.Transform{
		{Scale: 1},
		{Position: mgl32.Vec3{1, 0, 0}, Scale: 1},
		{Position: mgl32.Vec3{0, 2, 0}, Scale: 0.5},
	}

	if !b.Write(ts) {
		t.Fatal("first write should change the buffer")
	}
	if !b.Dirty() || b.Version() != 1 {
		t.Fatalf("after first write: dirty=%v version=%d", b.Dirty(), b.Version())
	}
	if !b.Consume() || b.Dirty() {
		t.Fatal("Consume should report and clear the dirty flag")
	}

	if b.Write(ts) {
		t.Error("identical write should not change the buffer")
	}
	if b.Dirty() || b.Version() != 1 {
		t.Errorf("identical write: dirty=%v version=%d", b.Dirty(), b.Version())
	}

	ts[1].Position[0] = 5
	ts[2].Scale = 2
	b.Write(ts)
	if b.Version() != 2 {
		t.Errorf("two changed slots must bump the version once, got %d", b.Version())
	}
}

func TestInstanceBuffer_NeverReallocates(t *testing.T) {
	b := NewInstanceBuffer(4)
	first := &b.Matrices()[0]
	for i := 0; i < 10; i++ {
		b.Write(make([]components.Transform, 4))
	}
	if &b.Matrices()[0] != first || b.Len() != 4 {
		t.Error("buffer storage moved or resized")
	}
}

func TestInstanceBuffer_LengthMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on length mismatch")
		}
	}()
	NewInstanceBuffer(2).Write(make([]components.Transform, 3))
}

func TestBindLayers_ShareOneBuffer(t *testing.T) {
	spec := mustSpec(t, "gift")
	pop, err := NewPopulation(20, spec, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	pal, err := PaletteFromConfig(config.Cfg())
	if err != nil {
		t.Fatal(err)
	}
	layers, err := BindLayers(pop, []LayerSpec{
		{Role: components.RoleBody, Geometry: "box"},
		{Role: components.RoleDecoration, Geometry: "ribbon"},
	}, pal)
	if err != nil {
		t.Fatal(err)
	}

	ps := components.ProgressState{Linear: 0.4, Eased: 0.35, AngularVelocity: 1.2}
	pop.Evaluate(ps, 2, 1.0/60, MotionConfigFrom(config.Cfg()))
	pop.Flush()

	body, deco := layers[0].Matrices(), layers[1].Matrices()
	if len(body) != 20 || &body[0] != &deco[0] {
		t.Fatal("layers must share the population's matrices")
	}
	for i := range body {
		if body[i] != deco[i] {
			t.Fatalf("instance %d: layer matrices differ", i)
		}
	}
	if layers[0].Geometry != "box" || layers[1].Role != components.RoleDecoration {
		t.Error("layer metadata not preserved")
	}
}

func TestBindLayers_RequiresLayer(t *testing.T) {
	pop, err := NewPopulation(1, mustSpec(t, "bauble"), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := BindLayers(pop, nil, components.Palette{}); err == nil {
		t.Error("expected error for zero layers")
	}
}

func TestLayerColor_GiftContrast(t *testing.T) {
	pal, err := PaletteFromConfig(config.Cfg())
	if err != nil {
		t.Fatal(err)
	}
	for _, wc := range mustSpec(t, "gift").Colors {
		body := LayerColor(components.Gift, wc.Color, components.RoleBody, pal)
		deco := LayerColor(components.Gift, wc.Color, components.RoleDecoration, pal)
		if body != wc.Color {
			t.Errorf("body %06x recolored to %06x", wc.Color.Hex(), body.Hex())
		}
		want := pal.GoldMetallic
		if wc.Color == pal.GoldMetallic {
			want = pal.RedVelvet
		}
		if deco != want {
			t.Errorf("body %06x: decoration %06x, want %06x", wc.Color.Hex(), deco.Hex(), want.Hex())
		}
		if deco == body {
			t.Errorf("body %06x: decoration does not contrast", wc.Color.Hex())
		}
	}

	// Gold body always pairs with red, a red body with gold.
	if LayerColor(components.Gift, pal.GoldMetallic, components.RoleDecoration, pal) != pal.RedVelvet {
		t.Error("gold body must get red decoration")
	}
	if LayerColor(components.Gift, pal.RedVelvet, components.RoleDecoration, pal) != pal.GoldMetallic {
		t.Error("red body must get gold decoration")
	}
}

func TestLayerColor_CandyCaneAndDefault(t *testing.T) {
	pal, err := PaletteFromConfig(config.Cfg())
	if err != nil {
		t.Fatal(err)
	}
	base := pal.CandyWhite
	if got := LayerColor(components.CandyCane, base, components.RoleBody, pal); got != components.White {
		t.Errorf("cane body = %06x, want white", got.Hex())
	}
	if got := LayerColor(components.CandyCane, base, components.RoleDecoration, pal); got != pal.RedVelvet {
		t.Errorf("cane stripes = %06x, want red", got.Hex())
	}
	if got := LayerColor(components.Bauble, pal.RoyalBlue, components.RoleDefault, pal); got != pal.RoyalBlue {
		t.Errorf("plain layer recolored to %06x", got.Hex())
	}
}

func TestNewPopulation_NegativeCount(t *testing.T) {
	if _, err := NewPopulation(-1, mustSpec(t, "light"), rand.New(rand.NewSource(1))); err == nil {
		t.Error("expected error for negative count")
	}
}

func TestNewPopulation_EmptyTicks(t *testing.T) {
	pop, err := NewPopulation(0, mustSpec(t, "light"), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	pop.Evaluate(components.ProgressState{Eased: 0.5}, 1, 1.0/60, MotionConfigFrom(config.Cfg()))
	if pop.Flush() || pop.Buffer().Dirty() {
		t.Error("empty population should never be dirty")
	}
}
