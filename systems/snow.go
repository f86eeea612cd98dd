package systems

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/tinsel/components"
	"github.com/pthm-cable/tinsel/config"
)

// SnowConfig holds the snow field parameters.
type SnowConfig struct {
	Count            int
	SpreadX, SpreadZ float32
	Floor, Ceiling   float32
	SpawnMin         float32
	SpawnMax         float32
	FallScale        float32
	WobbleMax        float32
	WobbleSpeedMax   float32
	SpeedMin         float32
	SpeedSpan        float32
	ScaleMin         float32
	ScaleSpan        float32
}

// SnowConfigFrom extracts the snow parameters from the scene config.
func SnowConfigFrom(cfg *config.Config) SnowConfig {
	s := cfg.Snow
	return SnowConfig{
		Count:          s.Count,
		SpreadX:        float32(s.SpreadX),
		SpreadZ:        float32(s.SpreadZ),
		Floor:          float32(s.Floor),
		Ceiling:        float32(s.Ceiling),
		SpawnMin:       float32(s.SpawnMin),
		SpawnMax:       float32(s.SpawnMax),
		FallScale:      float32(s.FallScale),
		WobbleMax:      float32(s.WobbleMax),
		WobbleSpeedMax: float32(s.WobbleSpeedMax),
		SpeedMin:       float32(s.SpeedMin),
		SpeedSpan:      float32(s.SpeedSpan),
		ScaleMin:       float32(s.ScaleMin),
		ScaleSpan:      float32(s.ScaleSpan),
	}
}

type flake struct {
	pos         mgl32.Vec3
	home        mgl32.Vec2 // column the wobble sways around (x, z)
	speed       float32
	wobble      float32
	wobbleSpeed float32
	scale       float32
	seed        float32 // noise row
}

// SnowField is a fixed set of falling flakes. Flakes that fall below the floor
// are moved back to the ceiling in place; the field never grows or shrinks.
type SnowField struct {
	cfg        SnowConfig
	flakes     []flake
	transforms []components.Transform
	buffer     *InstanceBuffer
	noise      opensimplex.Noise32
	rng        *rand.Rand
	respawns   int
}

// NewSnowField scatters cfg.Count flakes through the spawn band.
func NewSnowField(cfg SnowConfig, rng *rand.Rand) *SnowField {
	n := cfg.Count
	if n < 0 {
		n = 0
	}
	s := &SnowField{
		cfg:        cfg,
		flakes:     make([]flake, n),
		transforms: make([]components.Transform, n),
		buffer:     NewInstanceBuffer(n),
		noise:      opensimplex.New32(rng.Int63()),
		rng:        rng,
	}
	for i := range s.flakes {
		f := &s.flakes[i]
		s.placeColumn(f)
		f.pos = mgl32.Vec3{f.home[0], cfg.SpawnMin + rng.Float32()*(cfg.SpawnMax-cfg.SpawnMin), f.home[1]}
		f.speed = cfg.SpeedMin + rng.Float32()*cfg.SpeedSpan
		f.wobble = rng.Float32() * cfg.WobbleMax
		f.wobbleSpeed = rng.Float32() * cfg.WobbleSpeedMax
		f.scale = cfg.ScaleMin + rng.Float32()*cfg.ScaleSpan
		f.seed = float32(i) * 0.37
	}
	return s
}

// Len returns the flake count.
func (s *SnowField) Len() int {
	return len(s.flakes)
}

// Respawns returns how many flakes have wrapped back to the ceiling.
func (s *SnowField) Respawns() int {
	return s.respawns
}

// Update advances the flakes by dt and writes their matrices.
func (s *SnowField) Update(elapsed, dt float32) bool {
	if dt < 0 {
		dt = 0
	}
	for i := range s.flakes {
		f := &s.flakes[i]
		f.pos[1] -= f.speed * s.cfg.FallScale * dt

		if f.pos[1] < s.cfg.Floor {
			f.pos[1] = s.cfg.Ceiling
			s.placeColumn(f)
			s.respawns++
		}

		// Noise in [-1,1] keeps the sway within wobble of the column
		t := elapsed * f.wobbleSpeed
		f.pos[0] = f.home[0] + s.noise.Eval2(t, f.seed)*f.wobble
		f.pos[2] = f.home[1] + s.noise.Eval2(t, f.seed+100)*f.wobble

		s.transforms[i] = components.Transform{
			Position: f.pos,
			Rotation: mgl32.Vec3{elapsed * f.speed, elapsed * f.speed, 0},
			Scale:    f.scale,
		}
	}
	return s.buffer.Write(s.transforms)
}

// placeColumn picks a new random column within the spread.
func (s *SnowField) placeColumn(f *flake) {
	f.home = mgl32.Vec2{
		(s.rng.Float32() - 0.5) * s.cfg.SpreadX,
		(s.rng.Float32() - 0.5) * s.cfg.SpreadZ,
	}
}

// Buffer returns the flakes' instance buffer.
func (s *SnowField) Buffer() *InstanceBuffer {
	return s.buffer
}

// Position returns the position of flake i.
func (s *SnowField) Position(i int) mgl32.Vec3 {
	return s.flakes[i].pos
}
