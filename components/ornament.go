package components

import (
	"errors"
	"fmt"
)

// ErrUnknownType is returned when an ornament type name is not in the closed set.
var ErrUnknownType = errors.New("unknown ornament type")

// OrnamentType is the closed set of ornament kinds. Star is the apex type.
type OrnamentType uint8

const (
	Bauble OrnamentType = iota
	BaubleBlue
	Gift
	Light
	Ribbon
	Star
	CandyCane
	numOrnamentTypes
)

var ornamentNames = [numOrnamentTypes]string{
	Bauble:     "bauble",
	BaubleBlue: "bauble_blue",
	Gift:       "gift",
	Light:      "light",
	Ribbon:     "ribbon",
	Star:       "star",
	CandyCane:  "candy_cane",
}

func (t OrnamentType) String() string {
	if t < numOrnamentTypes {
		return ornamentNames[t]
	}
	return fmt.Sprintf("OrnamentType(%d)", uint8(t))
}

// IsApex reports whether instances of this type follow the apex override policy.
func (t OrnamentType) IsApex() bool {
	return t == Star
}

// ParseOrnamentType maps a config name to its type.
func ParseOrnamentType(s string) (OrnamentType, error) {
	for i, name := range ornamentNames {
		if name == s {
			return OrnamentType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// OrnamentTypes returns every type in declaration order.
func OrnamentTypes() []OrnamentType {
	out := make([]OrnamentType, numOrnamentTypes)
	for i := range out {
		out[i] = OrnamentType(i)
	}
	return out
}

// PlacementRule selects how the assembled anchor is generated.
type PlacementRule uint8

const (
	RuleVolume   PlacementRule = iota // inside the cone
	RuleSurface                       // on the cone's lateral surface
	RuleBaseRing                      // ring around the cone's base
	RuleApex                          // single point above the tip
)

// ParsePlacementRule maps a config name to its rule.
func ParsePlacementRule(s string) (PlacementRule, error) {
	switch s {
	case "volume":
		return RuleVolume, nil
	case "surface":
		return RuleSurface, nil
	case "base_ring":
		return RuleBaseRing, nil
	case "apex":
		return RuleApex, nil
	}
	return 0, fmt.Errorf("unknown placement rule %q", s)
}

// OrientationPolicy selects how the target orientation is generated.
type OrientationPolicy uint8

const (
	OrientNone        OrientationPolicy = iota
	OrientRandomYaw                     // random rotation about Y
	OrientFaceAxis                      // look at the central axis, with tilt
	OrientFaceOutward                   // look away from the central axis, with wiggle
)

// ParseOrientationPolicy maps a config name to its policy. Empty means none.
func ParseOrientationPolicy(s string) (OrientationPolicy, error) {
	switch s {
	case "", "none":
		return OrientNone, nil
	case "random_yaw":
		return OrientRandomYaw, nil
	case "face_axis":
		return OrientFaceAxis, nil
	case "face_outward":
		return OrientFaceOutward, nil
	}
	return 0, fmt.Errorf("unknown orientation %q", s)
}

// LayerRole distinguishes the rendered layers of a composite ornament.
type LayerRole uint8

const (
	RoleDefault LayerRole = iota
	RoleBody
	RoleDecoration
)

func (r LayerRole) String() string {
	switch r {
	case RoleBody:
		return "body"
	case RoleDecoration:
		return "decoration"
	}
	return "default"
}

// ParseLayerRole maps a config name to its role.
func ParseLayerRole(s string) (LayerRole, error) {
	switch s {
	case "", "default":
		return RoleDefault, nil
	case "body":
		return RoleBody, nil
	case "decoration":
		return RoleDecoration, nil
	}
	return 0, fmt.Errorf("unknown layer role %q", s)
}
