package components

import (
	"errors"
	"testing"
)

func TestParseOrnamentTypeRoundtrip(t *testing.T) {
	for _, typ := range OrnamentTypes() {
		got, err := ParseOrnamentType(typ.String())
		if err != nil {
			t.Errorf("ParseOrnamentType(%q): %v", typ.String(), err)
			continue
		}
		if got != typ {
			t.Errorf("ParseOrnamentType(%q) = %v, want %v", typ.String(), got, typ)
		}
	}
}

func TestParseOrnamentTypeUnknown(t *testing.T) {
	_, err := ParseOrnamentType("wreath")
	if !errors.Is(err, ErrUnknownType) {
		t.Errorf("expected ErrUnknownType, got %v", err)
	}
}

func TestOnlyStarIsApex(t *testing.T) {
	for _, typ := range OrnamentTypes() {
		if typ.IsApex() != (typ == Star) {
			t.Errorf("%v.IsApex() = %v", typ, typ.IsApex())
		}
	}
}

func TestTargetMode(t *testing.T) {
	if ModeAssembled.Target() != 1 || ModeDispersed.Target() != 0 {
		t.Error("unexpected mode targets")
	}
	if ModeAssembled.Toggle() != ModeDispersed || ModeDispersed.Toggle() != ModeAssembled {
		t.Error("toggle is not an involution")
	}
	m, err := ParseTargetMode("dispersed")
	if err != nil || m != ModeDispersed {
		t.Errorf("ParseTargetMode(dispersed) = %v, %v", m, err)
	}
	if _, err := ParseTargetMode("tree"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestParseEnums(t *testing.T) {
	if r, err := ParsePlacementRule("base_ring"); err != nil || r != RuleBaseRing {
		t.Errorf("ParsePlacementRule(base_ring) = %v, %v", r, err)
	}
	if _, err := ParsePlacementRule("helix"); err == nil {
		t.Error("expected error for unknown rule")
	}
	if o, err := ParseOrientationPolicy(""); err != nil || o != OrientNone {
		t.Errorf("ParseOrientationPolicy(\"\") = %v, %v", o, err)
	}
	if r, err := ParseLayerRole("decoration"); err != nil || r != RoleDecoration {
		t.Errorf("ParseLayerRole(decoration) = %v, %v", r, err)
	}
	if _, err := ParseLayerRole("ghost"); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestPaletteLookup(t *testing.T) {
	gold := Color{R: 0xD4, G: 0xAF, B: 0x37}
	p := NewPalette(map[string]Color{"gold_metallic": gold, "mauve": {R: 1, G: 2, B: 3}})
	if p.GoldMetallic != gold {
		t.Errorf("GoldMetallic = %v, want %v", p.GoldMetallic, gold)
	}
	if c, ok := p.Lookup("mauve"); !ok || c.Hex() != 0x010203 {
		t.Errorf("Lookup(mauve) = %v, %v", c, ok)
	}
}
