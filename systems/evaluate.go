package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/tinsel/components"
	"github.com/pthm-cable/tinsel/config"
)

// MotionConfig holds the per-instance evaluation constants.
type MotionConfig struct {
	FloatAmp     float32 // idle bob amplitude
	BaseIdleRate float32 // chaos spin with no transition in progress
	SpinGain     float32 // chaos spin per unit of angular velocity
	AlignPower   float32 // exponent on eased progress for orientation lock-in

	ApexRiseStart float32
	ApexSpinStart float32
	ApexScaleEnd  float32
	ApexBobStart  float32
	ApexBobAmp    float32
	ApexBobSpeed  float32
	ApexSpinRate  float32
}

// MotionConfigFrom extracts the motion constants from the scene config.
func MotionConfigFrom(cfg *config.Config) MotionConfig {
	m := cfg.Motion
	return MotionConfig{
		FloatAmp:      float32(m.FloatAmp),
		BaseIdleRate:  float32(m.BaseIdleRate),
		SpinGain:      float32(m.SpinGain),
		AlignPower:    float32(m.AlignPower),
		ApexRiseStart: float32(m.ApexRiseStart),
		ApexSpinStart: float32(m.ApexSpinStart),
		ApexScaleEnd:  float32(m.ApexScaleEnd),
		ApexBobStart:  float32(m.ApexBobStart),
		ApexBobAmp:    float32(m.ApexBobAmp),
		ApexBobSpeed:  float32(m.ApexBobSpeed),
		ApexSpinRate:  float32(m.ApexSpinRate),
	}
}

// Evaluate computes one instance's transform for this tick and advances its
// accumulator. rec is never modified. ps must be the same snapshot for every
// instance evaluated in a tick.
func Evaluate(rec *components.PlacementRecord, acc *components.Accumulator, apex bool, ps components.ProgressState, elapsed, dt float32, m MotionConfig) components.Transform {
	if apex {
		return evaluateApex(rec, acc, ps, elapsed, dt, m)
	}

	eased := ps.Eased
	pos := LerpVec3(rec.Dispersed, rec.Assembled, eased)
	pos[1] += sin32(elapsed*rec.Motion.Speed+rec.Motion.Phase) * m.FloatAmp

	if dt > 0 {
		spin := (m.BaseIdleRate + ps.AngularVelocity*m.SpinGain) * dt
		acc.Chaos[0] += spin
		acc.Chaos[1] += spin
		acc.Chaos[2] += spin * 0.5
	}

	align := pow32(eased, m.AlignPower)
	rot := LerpVec3(acc.Chaos, rec.Orientation, align)

	return components.Transform{Position: pos, Rotation: rot, Scale: rec.Scale}
}

// evaluateApex pins the topper to the central axis. It waits at the origin,
// rises to its anchor height late in the assembly, then spins slowly about Y.
func evaluateApex(rec *components.PlacementRecord, acc *components.Accumulator, ps components.ProgressState, elapsed, dt float32, m MotionConfig) components.Transform {
	eased := ps.Eased

	var pos mgl32.Vec3
	if eased >= m.ApexRiseStart {
		pos[1] = Lerp(0, rec.Assembled[1], Smoothstep(eased, m.ApexRiseStart, 1))
	}
	if eased > m.ApexBobStart {
		pos[1] += sin32(elapsed*m.ApexBobSpeed) * m.ApexBobAmp
	}

	var rot mgl32.Vec3
	if eased > m.ApexSpinStart {
		if dt > 0 {
			acc.ApexSpin += m.ApexSpinRate * dt
		}
		rot[1] = acc.ApexSpin
	}

	scale := rec.Scale * Smoothstep(eased, m.ApexRiseStart, m.ApexScaleEnd)
	return components.Transform{Position: pos, Rotation: rot, Scale: scale}
}

// ComposeMatrix builds T * Rx * Ry * Rz * S.
func ComposeMatrix(t components.Transform) mgl32.Mat4 {
	r := t.Rotation
	return mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2]).
		Mul4(mgl32.HomogRotate3DX(r[0])).
		Mul4(mgl32.HomogRotate3DY(r[1])).
		Mul4(mgl32.HomogRotate3DZ(r[2])).
		Mul4(mgl32.Scale3D(t.Scale, t.Scale, t.Scale))
}

func sin32(x float32) float32 {
	return float32(math.Sin(float64(x)))
}

// pow32 returns |x|^p. Overshoot can push x below zero, where a fractional p
// would otherwise give NaN.
func pow32(x, p float32) float32 {
	return float32(math.Pow(math.Abs(float64(x)), float64(p)))
}
