package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Tree.Height != 14 || cfg.Tree.Radius != 5 {
		t.Errorf("tree = %vx%v, want 14x5", cfg.Tree.Height, cfg.Tree.Radius)
	}
	if cfg.Transition.AssembleRate >= cfg.Transition.DisperseRate {
		t.Errorf("assemble rate %v should be slower than disperse rate %v",
			cfg.Transition.AssembleRate, cfg.Transition.DisperseRate)
	}
	if cfg.Transition.InitialMode != "assembled" {
		t.Errorf("initial mode = %q, want assembled", cfg.Transition.InitialMode)
	}

	want := []string{"bauble", "bauble_blue", "candy_cane", "gift", "light", "ribbon", "star"}
	if len(cfg.Derived.OrnamentNames) != len(want) {
		t.Fatalf("ornament names = %v, want %v", cfg.Derived.OrnamentNames, want)
	}
	for i, name := range want {
		if cfg.Derived.OrnamentNames[i] != name {
			t.Errorf("ornament[%d] = %q, want %q", i, cfg.Derived.OrnamentNames[i], name)
		}
	}
}

func TestDefaultSceneMatchesOrnaments(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range cfg.Scene.Populations {
		if _, ok := cfg.Ornaments[p.Type]; !ok {
			t.Errorf("scene population %q has no ornament definition", p.Type)
		}
	}
}

func TestParseOverlay(t *testing.T) {
	cfg, err := Parse([]byte("transition:\n  disperse_rate: 5.5\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Transition.DisperseRate != 5.5 {
		t.Errorf("disperse rate = %v, want 5.5", cfg.Transition.DisperseRate)
	}
	// Untouched fields keep their defaults.
	if cfg.Transition.AssembleRate != 1.0 {
		t.Errorf("assemble rate = %v, want default 1.0", cfg.Transition.AssembleRate)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative assemble rate", "transition:\n  assemble_rate: -1\n"},
		{"negative disperse rate", "transition:\n  disperse_rate: -0.1\n"},
		{"bad initial mode", "transition:\n  initial_mode: sideways\n"},
		{"bad viewer bias", "tree:\n  viewer_bias: 1.5\n"},
		{"bad palette hex", "palette:\n  red_velvet: \"red\"\n"},
		{"unknown placement", "ornaments:\n  bauble:\n    placement: spiral\n    palette: [{color: red_velvet, weight: 1}]\n"},
		{"undefined palette color", "ornaments:\n  bauble:\n    placement: volume\n    palette: [{color: mauve, weight: 1}]\n"},
		{"zero weights", "ornaments:\n  bauble:\n    placement: volume\n    palette: [{color: red_velvet, weight: 0}]\n"},
		{"negative count", "scene:\n  populations:\n    - {type: bauble, count: -3}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error %v does not wrap ErrInvalidConfig", err)
			}
		})
	}
}

func TestPaletteRGB(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, err := cfg.PaletteRGB("gold_metallic")
	if err != nil {
		t.Fatal(err)
	}
	if r != 0xD4 || g != 0xAF || b != 0x37 {
		t.Errorf("gold_metallic = %02x%02x%02x, want d4af37", r, g, b)
	}
	if _, _, _, err := cfg.PaletteRGB("nope"); err == nil {
		t.Error("expected error for undefined color")
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if reloaded.Tree.ScatterRadius != cfg.Tree.ScatterRadius {
		t.Errorf("scatter radius = %v, want %v", reloaded.Tree.ScatterRadius, cfg.Tree.ScatterRadius)
	}
	if len(reloaded.Scene.Populations) != len(cfg.Scene.Populations) {
		t.Errorf("populations = %d, want %d", len(reloaded.Scene.Populations), len(cfg.Scene.Populations))
	}
}
