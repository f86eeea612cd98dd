package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/tinsel/config"
)

func TestSnowField_RespawnsInPlace(t *testing.T) {
	cfg := SnowConfigFrom(config.Cfg())
	cfg.Count = 50
	s := NewSnowField(cfg, rand.New(rand.NewSource(1)))
	first := &s.Buffer().Matrices()[0]

	for i := 0; i < 30; i++ {
		s.Update(float32(i), 1)
		if s.Len() != 50 || s.Buffer().Len() != 50 {
			t.Fatalf("tick %d: field resized to %d", i, s.Len())
		}
		for j := 0; j < s.Len(); j++ {
			y := s.Position(j)[1]
			if y < cfg.Floor || y > cfg.Ceiling {
				t.Fatalf("tick %d flake %d: y %v outside [%v,%v]", i, j, y, cfg.Floor, cfg.Ceiling)
			}
		}
	}
	if s.Respawns() < 50 {
		t.Errorf("expected every flake to respawn at least once, got %d respawns", s.Respawns())
	}
	if &s.Buffer().Matrices()[0] != first {
		t.Error("snow buffer was reallocated")
	}
}

func TestSnowField_Empty(t *testing.T) {
	cfg := SnowConfigFrom(config.Cfg())
	cfg.Count = 0
	s := NewSnowField(cfg, rand.New(rand.NewSource(1)))
	if s.Update(1, 1.0/60) {
		t.Error("empty field should not report changes")
	}
}

func TestSnowField_WobbleStaysNearColumn(t *testing.T) {
	cfg := SnowConfigFrom(config.Cfg())
	cfg.Count = 20
	cfg.FallScale = 0
	cfg.WobbleMax = 0.5
	cfg.WobbleSpeedMax = 2
	s := NewSnowField(cfg, rand.New(rand.NewSource(4)))

	halfX := cfg.SpreadX/2 + cfg.WobbleMax + 1e-4
	halfZ := cfg.SpreadZ/2 + cfg.WobbleMax + 1e-4
	for i := 0; i < 2000; i++ {
		s.Update(float32(i)*0.05, 0.05)
		for j := 0; j < s.Len(); j++ {
			p := s.Position(j)
			home := s.flakes[j].home
			if abs32(p[0]-home[0]) > cfg.WobbleMax+1e-4 || abs32(p[2]-home[1]) > cfg.WobbleMax+1e-4 {
				t.Fatalf("tick %d flake %d: %v drifted from column %v", i, j, p, home)
			}
			if abs32(p[0]) > halfX || abs32(p[2]) > halfZ {
				t.Fatalf("tick %d flake %d: %v left the spread", i, j, p)
			}
		}
	}
	if s.Respawns() != 0 {
		t.Errorf("flakes respawned without falling: %d", s.Respawns())
	}
}

func TestSnowField_RespawnMovesColumn(t *testing.T) {
	cfg := SnowConfigFrom(config.Cfg())
	cfg.Count = 30
	cfg.WobbleMax = 0
	s := NewSnowField(cfg, rand.New(rand.NewSource(8)))

	zs := make([]float32, s.Len())
	for j := range zs {
		zs[j] = s.Position(j)[2]
	}

	moved := 0
	for i := 0; i < 30; i++ {
		before := s.Respawns()
		s.Update(float32(i), 1)
		if s.Respawns() == before {
			continue
		}
		for j := range zs {
			if z := s.Position(j)[2]; z != zs[j] {
				moved++
				zs[j] = z
			}
		}
	}
	if moved == 0 {
		t.Error("respawned flakes kept their old z")
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
