package telemetry

import (
	"math"
	"testing"
	"time"
)

// runTicks records n ticks where each phase sleeps for its given duration.
func runTicks(pc *PerfCollector, n int, phases map[Phase]time.Duration) {
	for i := 0; i < n; i++ {
		pc.StartTick()
		for ph := Phase(0); ph < numPhases; ph++ {
			d, ok := phases[ph]
			if !ok {
				continue
			}
			pc.StartPhase(ph)
			time.Sleep(d)
		}
		pc.EndTick()
	}
}

func TestPerfCollector_PhaseShares(t *testing.T) {
	pc := NewPerfCollector(10)
	runTicks(pc, 5, map[Phase]time.Duration{
		PhaseTransition: 20 * time.Microsecond,
		PhaseEvaluate:   400 * time.Microsecond,
	})

	stats := pc.Stats()
	if stats.Ticks != 5 {
		t.Errorf("expected 5 ticks, got %d", stats.Ticks)
	}
	if stats.TickAvg <= 0 || stats.TicksPerSecond <= 0 {
		t.Fatalf("expected positive timing, got avg %v tps %v", stats.TickAvg, stats.TicksPerSecond)
	}
	if stats.Share(PhaseEvaluate) <= stats.Share(PhaseTransition) {
		t.Errorf("evaluate share %v%% should exceed transition %v%%",
			stats.Share(PhaseEvaluate), stats.Share(PhaseTransition))
	}
	if stats.Share(PhaseSnow) != 0 {
		t.Errorf("untimed snow phase has share %v%%", stats.Share(PhaseSnow))
	}

	var sum float64
	for _, s := range stats.PhaseShare {
		sum += s
	}
	if sum > 100+1e-6 {
		t.Errorf("phase shares sum to %v%%", sum)
	}
}

func TestPerfCollector_WindowWraps(t *testing.T) {
	pc := NewPerfCollector(5)
	runTicks(pc, 12, map[Phase]time.Duration{PhaseBufferWrite: 0})

	stats := pc.Stats()
	if stats.Ticks != 5 {
		t.Errorf("window should hold 5 ticks, got %d", stats.Ticks)
	}
	if stats.TickMin > stats.TickP95 || stats.TickP95 > stats.TickMax {
		t.Errorf("expected min %v <= p95 %v <= max %v", stats.TickMin, stats.TickP95, stats.TickMax)
	}
}

func TestPerfCollector_EmptyWindow(t *testing.T) {
	stats := NewPerfCollector(0).Stats()
	if stats.Ticks != 0 || stats.TickAvg != 0 || stats.TicksPerSecond != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
	if math.IsNaN(stats.Share(PhaseEvaluate)) {
		t.Error("empty window produced NaN share")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)
	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.Frame < 15*time.Millisecond {
		t.Errorf("expected frame >= 15ms, got %v", stats.Frame)
	}
	if stats.FPS < 10 || stats.FPS > 70 {
		t.Errorf("expected FPS near 60, got %v", stats.FPS)
	}
}

func TestPhase_String(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseTransition, "transition"},
		{PhaseBufferWrite, "buffer_write"},
		{PhaseTelemetry, "telemetry"},
		{numPhases, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	pc := NewPerfCollector(20)
	runTicks(pc, 10, map[Phase]time.Duration{
		PhaseEvaluate:    300 * time.Microsecond,
		PhaseBufferWrite: 0,
	})

	row := pc.Stats().ToCSV(42)
	if row.WindowEnd != 42 {
		t.Errorf("window end = %d, want 42", row.WindowEnd)
	}
	if row.EvaluatePct <= row.BufferWritePct {
		t.Errorf("expected evaluate (%v%%) to dominate buffer write (%v%%)", row.EvaluatePct, row.BufferWritePct)
	}
	if row.AvgTickUS < 300 {
		t.Errorf("avg tick %dus shorter than the evaluate sleep", row.AvgTickUS)
	}
}
