package systems

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/tinsel/components"
	"github.com/pthm-cable/tinsel/config"
)

// WeightedColor is one entry of a type's color choice.
type WeightedColor struct {
	Color  components.Color
	Weight float32
}

// TypeSpec is the resolved placement rule set for one ornament type.
type TypeSpec struct {
	Type components.OrnamentType
	Rule components.PlacementRule

	Cone    Cone    // formation the volume/surface rules sample from, insets applied
	YOffset float32 // added to the assembled anchor's height
	PushOut float32 // multiplies the assembled anchor (1 = unchanged)

	RingRadiusMin, RingRadiusMax float32
	RingHeightMin, RingHeightMax float32

	ApexPoint mgl32.Vec3

	ScatterRadius float32
	ViewerBias    float32

	ScaleMin, ScaleMax float32

	Orientation components.OrientationPolicy
	TiltX       float32
	TiltZ       float32
	WiggleZ     float32

	Colors []WeightedColor

	SpeedMin, SpeedSpan float32
}

// ResolveTypeSpec builds the TypeSpec for a named ornament type from the config.
// Unknown names fail before anything is generated.
func ResolveTypeSpec(cfg *config.Config, name string) (TypeSpec, error) {
	typ, err := components.ParseOrnamentType(name)
	if err != nil {
		return TypeSpec{}, err
	}
	oc, ok := cfg.Ornaments[name]
	if !ok {
		return TypeSpec{}, fmt.Errorf("%w: %q has no ornament definition", components.ErrUnknownType, name)
	}

	rule, err := components.ParsePlacementRule(oc.Placement)
	if err != nil {
		return TypeSpec{}, fmt.Errorf("ornament %s: %w", name, err)
	}
	orient, err := components.ParseOrientationPolicy(oc.Orientation)
	if err != nil {
		return TypeSpec{}, fmt.Errorf("ornament %s: %w", name, err)
	}
	if typ.IsApex() != (rule == components.RuleApex) {
		return TypeSpec{}, fmt.Errorf("ornament %s: apex placement is reserved for the apex type", name)
	}

	pal, err := PaletteFromConfig(cfg)
	if err != nil {
		return TypeSpec{}, err
	}
	colors := make([]WeightedColor, 0, len(oc.Palette))
	for _, pw := range oc.Palette {
		c, ok := pal.Lookup(pw.Color)
		if !ok {
			return TypeSpec{}, fmt.Errorf("ornament %s: undefined palette color %q", name, pw.Color)
		}
		colors = append(colors, WeightedColor{Color: c, Weight: float32(pw.Weight)})
	}

	pushOut := float32(oc.PushOut)
	if pushOut == 0 {
		pushOut = 1
	}

	treeH := float32(cfg.Tree.Height)
	return TypeSpec{
		Type: typ,
		Rule: rule,
		Cone: Cone{
			Height: treeH - float32(oc.HeightInset),
			Radius: float32(cfg.Tree.Radius - oc.RadiusInset),
		},
		YOffset:       float32(oc.YOffset),
		PushOut:       pushOut,
		RingRadiusMin: float32(oc.RingRadiusMin),
		RingRadiusMax: float32(oc.RingRadiusMax),
		RingHeightMin: float32(oc.HeightMin),
		RingHeightMax: float32(oc.HeightMax),
		ApexPoint:     mgl32.Vec3{0, treeH/2 + float32(oc.ApexLift), 0},
		ScatterRadius: float32(cfg.Tree.ScatterRadius),
		ViewerBias:    float32(cfg.Tree.ViewerBias),
		ScaleMin:      float32(oc.ScaleMin),
		ScaleMax:      float32(oc.ScaleMax),
		Orientation:   orient,
		TiltX:         float32(oc.TiltX),
		TiltZ:         float32(oc.TiltZ),
		WiggleZ:       float32(oc.WiggleZ),
		Colors:        colors,
		SpeedMin:      float32(cfg.Idle.SpeedMin),
		SpeedSpan:     float32(cfg.Idle.SpeedSpan),
	}, nil
}

// PaletteFromConfig resolves every named palette color.
func PaletteFromConfig(cfg *config.Config) (components.Palette, error) {
	named := make(map[string]components.Color, len(cfg.Palette))
	for name := range cfg.Palette {
		r, g, b, err := cfg.PaletteRGB(name)
		if err != nil {
			return components.Palette{}, fmt.Errorf("palette %s: %w", name, err)
		}
		named[name] = components.Color{R: r, G: g, B: b}
	}
	return components.NewPalette(named), nil
}

// GeneratePlacements builds count placement records for spec. The rng is the
// only source of randomness, so a fixed seed reproduces the population.
// count <= 0 yields an empty population.
func GeneratePlacements(count int, spec TypeSpec, rng *rand.Rand) []components.PlacementRecord {
	if count <= 0 {
		return []components.PlacementRecord{}
	}
	records := make([]components.PlacementRecord, count)
	for i := range records {
		records[i] = generateRecord(spec, rng)
	}
	return records
}

func generateRecord(spec TypeSpec, rng *rand.Rand) components.PlacementRecord {
	assembled := assembledAnchor(spec, rng)

	// Draw order is fixed: anchor, scale, color, orientation, scatter, motion.
	scale := spec.ScaleMin + rng.Float32()*(spec.ScaleMax-spec.ScaleMin)
	color := pickColor(spec.Colors, rng)
	orientation := targetOrientation(spec, assembled, rng)

	var dispersed mgl32.Vec3
	if spec.Rule != components.RuleApex {
		// The apex rises out of the formation's centre instead of flying in.
		dispersed = ExplosionPoint(spec.ScatterRadius, spec.ViewerBias, rng)
	}

	return components.PlacementRecord{
		Dispersed:   dispersed,
		Assembled:   assembled,
		Orientation: orientation,
		Scale:       scale,
		Color:       color,
		Motion: components.Motion{
			Speed: spec.SpeedMin + rng.Float32()*spec.SpeedSpan,
			Phase: rng.Float32() * 2 * math.Pi,
		},
	}
}

func assembledAnchor(spec TypeSpec, rng *rand.Rand) mgl32.Vec3 {
	var p mgl32.Vec3
	switch spec.Rule {
	case components.RuleVolume:
		p = spec.Cone.VolumePoint(rng)
	case components.RuleSurface:
		p = spec.Cone.SurfacePoint(rng)
	case components.RuleBaseRing:
		return RingPoint(spec.RingRadiusMin, spec.RingRadiusMax, spec.RingHeightMin, spec.RingHeightMax, rng)
	case components.RuleApex:
		return spec.ApexPoint
	}
	p[1] += spec.YOffset
	if spec.PushOut != 1 {
		p = p.Mul(spec.PushOut)
	}
	return p
}

func targetOrientation(spec TypeSpec, anchor mgl32.Vec3, rng *rand.Rand) mgl32.Vec3 {
	switch spec.Orientation {
	case components.OrientRandomYaw:
		return mgl32.Vec3{0, rng.Float32() * 2 * math.Pi, 0}
	case components.OrientFaceAxis:
		yaw := FacingYaw(anchor)
		tiltX := (rng.Float32() - 0.5) * spec.TiltX
		tiltZ := (rng.Float32() - 0.5) * spec.TiltZ
		return mgl32.Vec3{tiltX, yaw, tiltZ}
	case components.OrientFaceOutward:
		yaw := FacingYaw(anchor) + math.Pi
		wiggle := (rng.Float32() - 0.5) * spec.WiggleZ
		return mgl32.Vec3{0, yaw, wiggle}
	}
	return mgl32.Vec3{}
}

// pickColor does a cumulative weighted choice. Weights need not sum to one.
func pickColor(colors []WeightedColor, rng *rand.Rand) components.Color {
	var total float32
	for _, wc := range colors {
		total += wc.Weight
	}
	roll := rng.Float32() * total
	for _, wc := range colors {
		if roll < wc.Weight {
			return wc.Color
		}
		roll -= wc.Weight
	}
	// Rounding can leave roll just past the last bucket.
	for i := len(colors) - 1; i >= 0; i-- {
		if colors[i].Weight > 0 {
			return colors[i].Color
		}
	}
	return components.Color{}
}
