// Package camera provides an orbit camera around the ornament formation.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/tinsel/config"
)

// Camera orbits a fixed target on a sphere. Polar is measured from +Y, so
// pi/2 looks at the target horizontally.
type Camera struct {
	Target mgl32.Vec3

	Azimuth  float32 // radians about Y, 0 = on +Z
	Polar    float32
	Distance float32

	// FovY in degrees
	FovY float32

	// Orbit constraints
	MinPolar, MaxPolar       float32
	MinDistance, MaxDistance float32

	// AutoRotateSpeed is the azimuth rate applied while auto-rotation is on.
	AutoRotateSpeed float32

	home struct{ azimuth, polar, distance float32 }
}

// New creates a camera from the camera config, looking horizontally at the origin.
func New(cfg config.CameraConfig) *Camera {
	c := &Camera{
		Azimuth:         0,
		Polar:           math.Pi / 2,
		Distance:        float32(cfg.Distance),
		FovY:            float32(cfg.FovY),
		MinPolar:        float32(cfg.MinPolar),
		MaxPolar:        float32(cfg.MaxPolar),
		MinDistance:     float32(cfg.MinDistance),
		MaxDistance:     float32(cfg.MaxDistance),
		AutoRotateSpeed: float32(cfg.AutoRotateSpeed),
	}
	c.clamp()
	c.home.azimuth, c.home.polar, c.home.distance = c.Azimuth, c.Polar, c.Distance
	return c
}

// Orbit rotates the camera around the target.
func (c *Camera) Orbit(dAzimuth, dPolar float32) {
	c.Azimuth = wrapAngle(c.Azimuth + dAzimuth)
	c.Polar += dPolar
	c.clamp()
}

// ZoomBy scales the orbit distance. Factors above 1 move closer.
func (c *Camera) ZoomBy(factor float32) {
	if factor <= 0 {
		return
	}
	c.Distance /= factor
	c.clamp()
}

// Update applies auto-rotation for dt seconds.
func (c *Camera) Update(dt float32, autoRotate bool) {
	if autoRotate && dt > 0 {
		c.Orbit(c.AutoRotateSpeed*dt, 0)
	}
}

// Reset returns to the initial orbit.
func (c *Camera) Reset() {
	c.Azimuth, c.Polar, c.Distance = c.home.azimuth, c.home.polar, c.home.distance
}

// Position returns the camera's world position.
func (c *Camera) Position() mgl32.Vec3 {
	sp := float32(math.Sin(float64(c.Polar)))
	offset := mgl32.Vec3{
		c.Distance * sp * float32(math.Sin(float64(c.Azimuth))),
		c.Distance * float32(math.Cos(float64(c.Polar))),
		c.Distance * sp * float32(math.Cos(float64(c.Azimuth))),
	}
	return c.Target.Add(offset)
}

// View returns the view matrix.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

// Projection returns the perspective matrix for the given aspect ratio.
func (c *Camera) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), aspect, 0.1, 500)
}

func (c *Camera) clamp() {
	c.Polar = clamp(c.Polar, c.MinPolar, c.MaxPolar)
	c.Distance = clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

func wrapAngle(a float32) float32 {
	const twoPi = 2 * math.Pi
	for a > math.Pi {
		a -= twoPi
	}
	for a < -math.Pi {
		a += twoPi
	}
	return a
}

func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
