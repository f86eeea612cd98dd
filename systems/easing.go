package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Easing and interpolation helpers. Progress math runs in float64 so that the
// damped trajectory does not depend on how a second is split into ticks.

const (
	backC1 = 1.70158
	backC2 = backC1 * 1.525
)

// EaseInOutCubic is a monotonic ease with no overshoot.
func EaseInOutCubic(x float64) float64 {
	if x < 0.5 {
		return 4 * x * x * x
	}
	f := -2*x + 2
	return 1 - f*f*f/2
}

// EaseInOutBack overshoots below 0 and above 1 before settling.
// It maps 0 to 0 and 1 to 1 exactly.
func EaseInOutBack(x float64) float64 {
	if x < 0.5 {
		f := 2 * x
		return f * f * ((backC2+1)*f - backC2) / 2
	}
	f := 2*x - 2
	return (f*f*((backC2+1)*f+backC2) + 2) / 2
}

// Damp moves current toward target by exponential decay at the given rate.
// Applying it twice with dt/2 equals applying it once with dt. A zero rate
// returns current unchanged.
func Damp(current, target, rate, dt float64) float64 {
	return current + (target-current)*(1-math.Exp(-rate*dt))
}

// Smoothstep is the Hermite ramp of x over [edge0, edge1], clamped to [0,1].
func Smoothstep(x, edge0, edge1 float32) float32 {
	if x <= edge0 {
		return 0
	}
	if x >= edge1 {
		return 1
	}
	t := (x - edge0) / (edge1 - edge0)
	return t * t * (3 - 2*t)
}

// Lerp interpolates between a and b. The endpoints are reproduced exactly.
func Lerp(a, b, t float32) float32 {
	return a*(1-t) + b*t
}

// LerpVec3 interpolates component-wise with exact endpoints.
func LerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return mgl32.Vec3{Lerp(a[0], b[0], t), Lerp(a[1], b[1], t), Lerp(a[2], b[2], t)}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
