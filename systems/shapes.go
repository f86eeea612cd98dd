package systems

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// Cone describes the assembled formation: apex up, centred on the origin,
// spanning y in [-Height/2, Height/2].
type Cone struct {
	Height float32
	Radius float32
}

// RadiusAt returns the cone's radius at height y, zero outside the cone.
func (c Cone) RadiusAt(y float32) float32 {
	if c.Height <= 0 {
		return 0
	}
	t := (y + c.Height/2) / c.Height // 0 at the base, 1 at the tip
	if t < 0 || t > 1 {
		return 0
	}
	return c.Radius * (1 - t)
}

// VolumePoint samples a point inside the cone. The radial term uses sqrt so
// that slices are filled uniformly by area rather than clumping at the axis.
func (c Cone) VolumePoint(rng *rand.Rand) mgl32.Vec3 {
	y := (rng.Float32() - 0.5) * c.Height
	r := c.RadiusAt(y) * float32(math.Sqrt(rng.Float64()))
	return ringPoint(r, rng.Float64()*2*math.Pi, y)
}

// SurfacePoint samples a point on the cone's lateral surface.
func (c Cone) SurfacePoint(rng *rand.Rand) mgl32.Vec3 {
	y := (rng.Float32() - 0.5) * c.Height
	return ringPoint(c.RadiusAt(y), rng.Float64()*2*math.Pi, y)
}

// RingPoint samples a point on an annulus at a random height.
func RingPoint(rMin, rMax, yMin, yMax float32, rng *rand.Rand) mgl32.Vec3 {
	r := rMin + rng.Float32()*(rMax-rMin)
	angle := rng.Float64() * 2 * math.Pi
	y := yMin + rng.Float32()*(yMax-yMin)
	return ringPoint(r, angle, y)
}

// ExplosionPoint samples a dispersed anchor within radius. Directions are
// uniform on the sphere, then mirrored into the +Z (camera) hemisphere with
// probability viewerBias, so the cloud reads as bursting toward the viewer.
// The radial distance never falls below 30% of radius to keep the core clear.
func ExplosionPoint(radius, viewerBias float32, rng *rand.Rand) mgl32.Vec3 {
	z := 2*rng.Float64() - 1
	theta := rng.Float64() * 2 * math.Pi
	s := math.Sqrt(1 - z*z)
	dir := mgl32.Vec3{float32(s * math.Cos(theta)), float32(s * math.Sin(theta)), float32(z)}

	if dir[2] < 0 && rng.Float32() < viewerBias {
		dir[2] = -dir[2]
	}

	dist := radius * (0.3 + 0.7*rng.Float32())
	return dir.Mul(dist)
}

// FacingYaw returns the Y rotation that points local +Z from p toward the
// vertical axis at p's height.
func FacingYaw(p mgl32.Vec3) float32 {
	if p[0] == 0 && p[2] == 0 {
		return 0
	}
	return float32(math.Atan2(float64(-p[0]), float64(-p[2])))
}

func ringPoint(r float32, angle float64, y float32) mgl32.Vec3 {
	return mgl32.Vec3{
		r * float32(math.Cos(angle)),
		y,
		r * float32(math.Sin(angle)),
	}
}
