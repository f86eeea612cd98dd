package systems

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/tinsel/components"
)

// InstanceBuffer is the contiguous, index-aligned matrix array a population
// hands to the renderer. It is allocated once and never resized.
type InstanceBuffer struct {
	matrices []mgl32.Mat4
	dirty    bool
	version  uint64
}

// NewInstanceBuffer allocates a buffer of n identity matrices.
func NewInstanceBuffer(n int) *InstanceBuffer {
	if n < 0 {
		n = 0
	}
	m := make([]mgl32.Mat4, n)
	for i := range m {
		m[i] = mgl32.Ident4()
	}
	return &InstanceBuffer{matrices: m}
}

// Len returns the number of slots.
func (b *InstanceBuffer) Len() int {
	return len(b.matrices)
}

// Write composes every transform into its slot. The dirty flag is raised and
// the version bumped once if any slot changed. Reports whether it did.
func (b *InstanceBuffer) Write(transforms []components.Transform) bool {
	if len(transforms) != len(b.matrices) {
		panic(fmt.Sprintf("instance buffer: write of %d transforms into %d slots", len(transforms), len(b.matrices)))
	}
	changed := false
	for i := range transforms {
		m := ComposeMatrix(transforms[i])
		if m != b.matrices[i] {
			b.matrices[i] = m
			changed = true
		}
	}
	if changed {
		b.dirty = true
		b.version++
	}
	return changed
}

// Matrices returns the backing slice. Callers must not append to it.
func (b *InstanceBuffer) Matrices() []mgl32.Mat4 {
	return b.matrices
}

// Dirty reports whether the buffer changed since the last Consume.
func (b *InstanceBuffer) Dirty() bool {
	return b.dirty
}

// Consume clears the dirty flag, returning its previous value.
func (b *InstanceBuffer) Consume() bool {
	d := b.dirty
	b.dirty = false
	return d
}

// Version counts the writes that changed at least one slot.
func (b *InstanceBuffer) Version() uint64 {
	return b.version
}
