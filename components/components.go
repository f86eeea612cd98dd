// Package components defines the plain data types shared by the placement,
// transition and evaluation systems.
package components

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// TargetMode is the two-valued external control.
type TargetMode uint8

const (
	ModeDispersed TargetMode = iota
	ModeAssembled
)

// Target returns the progress value the mode drives toward.
func (m TargetMode) Target() float64 {
	if m == ModeAssembled {
		return 1
	}
	return 0
}

// Toggle returns the opposite mode.
func (m TargetMode) Toggle() TargetMode {
	if m == ModeAssembled {
		return ModeDispersed
	}
	return ModeAssembled
}

func (m TargetMode) String() string {
	if m == ModeAssembled {
		return "assembled"
	}
	return "dispersed"
}

// ParseTargetMode parses "assembled" or "dispersed".
func ParseTargetMode(s string) (TargetMode, error) {
	switch s {
	case "assembled":
		return ModeAssembled, nil
	case "dispersed":
		return ModeDispersed, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// Motion holds the idle oscillation parameters of one instance.
type Motion struct {
	Speed float32
	Phase float32
}

// PlacementRecord is the immutable per-instance dataset.
type PlacementRecord struct {
	Dispersed   mgl32.Vec3 // anchor at progress 0
	Assembled   mgl32.Vec3 // anchor at progress 1
	Orientation mgl32.Vec3 // Euler XYZ, radians
	Scale       float32
	Color       Color
	Motion      Motion
}

// Accumulator is the per-instance mutable state owned by the evaluator.
type Accumulator struct {
	Chaos    mgl32.Vec3 // running tumble angles, only ever increase
	ApexSpin float32    // steady yaw of the apex instance
}

// Transform is the evaluated pose of one instance.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3 // Euler XYZ, radians
	Scale    float32
}

// ProgressState is the per-tick snapshot every instance evaluation reads.
// It is passed by value so that all instances in a tick observe the same pair.
type ProgressState struct {
	Linear          float32
	Eased           float32
	AngularVelocity float32
}
