// Package renderer draws the ornament scene with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tinsel/components"
)

// Shape identifies a unit mesh. It is the geometry handle stored on layers.
type Shape uint8

const (
	ShapeSphere     Shape = iota // baubles
	ShapeGlow                    // lights
	ShapeBox                     // gift body
	ShapeGiftBand                // gift ribbon band, shares the box's center
	ShapeCaneShaft               // candy cane body
	ShapeCaneStripe              // candy cane stripe ring
	ShapeBow                     // ribbon loop
	ShapeStar                    // apex
	ShapeSnowflake
	numShapes
)

var shapeNames = [numShapes]string{
	ShapeSphere:     "sphere",
	ShapeGlow:       "glow",
	ShapeBox:        "box",
	ShapeGiftBand:   "gift_band",
	ShapeCaneShaft:  "cane_shaft",
	ShapeCaneStripe: "cane_stripe",
	ShapeBow:        "bow",
	ShapeStar:       "star",
	ShapeSnowflake:  "snowflake",
}

func (s Shape) String() string {
	if s < numShapes {
		return shapeNames[s]
	}
	return "unknown"
}

// ShapeFor returns the mesh for one layer of an ornament type.
func ShapeFor(t components.OrnamentType, role components.LayerRole) Shape {
	switch t {
	case components.Gift:
		if role == components.RoleDecoration {
			return ShapeGiftBand
		}
		return ShapeBox
	case components.CandyCane:
		if role == components.RoleDecoration {
			return ShapeCaneStripe
		}
		return ShapeCaneShaft
	case components.Ribbon:
		return ShapeBow
	case components.Star:
		return ShapeStar
	case components.Light:
		return ShapeGlow
	default:
		return ShapeSphere
	}
}

// Geometry adapts ShapeFor to the layer geometry resolver signature.
func Geometry(t components.OrnamentType, role components.LayerRole) any {
	return ShapeFor(t, role)
}

// genMesh builds the unit mesh for a shape. Requires a GL context.
func genMesh(s Shape) rl.Mesh {
	switch s {
	case ShapeGlow:
		return rl.GenMeshSphere(1, 6, 8)
	case ShapeBox:
		return rl.GenMeshCube(1, 1, 1)
	case ShapeGiftBand:
		return rl.GenMeshCube(1.04, 1.04, 0.22)
	case ShapeCaneShaft:
		return rl.GenMeshCylinder(0.12, 1.6, 12)
	case ShapeCaneStripe:
		return rl.GenMeshTorus(0.16, 0.5, 8, 12)
	case ShapeBow:
		return rl.GenMeshTorus(0.35, 0.6, 8, 16)
	case ShapeStar:
		return rl.GenMeshSphere(1, 3, 5)
	case ShapeSnowflake:
		return rl.GenMeshCube(1, 1, 1)
	default:
		return rl.GenMeshSphere(1, 16, 16)
	}
}
