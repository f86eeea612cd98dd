package systems

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/tinsel/components"
)

// LayerSpec requests one rendered layer of a population.
type LayerSpec struct {
	Role     components.LayerRole
	Geometry any // opaque to the core; the renderer's shape handle
}

// Layer is one rendered view of a population. It shares the population's
// instance buffer, so every layer sees the same matrices for an index.
type Layer struct {
	Role     components.LayerRole
	Geometry any

	pop    *Population
	colors []components.Color
}

// BindLayers attaches layers to pop. Colors are resolved once here.
func BindLayers(pop *Population, specs []LayerSpec, pal components.Palette) ([]*Layer, error) {
	if len(specs) == 0 {
		return nil, errors.New("bind layers: at least one layer is required")
	}
	layers := make([]*Layer, len(specs))
	for li, s := range specs {
		colors := make([]components.Color, pop.Len())
		for i := range pop.Records {
			colors[i] = LayerColor(pop.Type, pop.Records[i].Color, s.Role, pal)
		}
		layers[li] = &Layer{Role: s.Role, Geometry: s.Geometry, pop: pop, colors: colors}
	}
	return layers, nil
}

// Population returns the population the layer draws.
func (l *Layer) Population() *Population {
	return l.pop
}

// Buffer returns the shared instance buffer.
func (l *Layer) Buffer() *InstanceBuffer {
	return l.pop.buffer
}

// Matrices returns the shared instance matrices.
func (l *Layer) Matrices() []mgl32.Mat4 {
	return l.pop.buffer.Matrices()
}

// Colors returns the per-instance colors of this layer.
func (l *Layer) Colors() []components.Color {
	return l.colors
}

// LayerColor resolves the color a layer draws an instance in. Composite types
// derive decoration colors from the body color by exact palette comparison.
func LayerColor(t components.OrnamentType, base components.Color, role components.LayerRole, pal components.Palette) components.Color {
	switch t {
	case components.Gift:
		if role == components.RoleDecoration {
			if base == pal.GoldMetallic {
				return pal.RedVelvet
			}
			return pal.GoldMetallic
		}
	case components.CandyCane:
		switch role {
		case components.RoleBody:
			return components.White
		case components.RoleDecoration:
			return pal.RedVelvet
		}
	}
	return base
}
