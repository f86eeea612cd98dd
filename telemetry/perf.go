package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Phase is one stage of a scene tick, in execution order.
type Phase int

const (
	PhaseTransition Phase = iota
	PhaseEvaluate
	PhaseBufferWrite
	PhaseSnow
	PhaseTelemetry

	numPhases
)

var phaseNames = [numPhases]string{"transition", "evaluate", "buffer_write", "snow", "telemetry"}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// tickTiming is the measured cost of one tick.
type tickTiming struct {
	total  time.Duration
	phases [numPhases]time.Duration
}

// PerfCollector keeps the last windowSize tick timings in a ring.
// Phases are fixed, so recording a tick never allocates.
type PerfCollector struct {
	ring  []tickTiming
	next  int
	count int

	cur        tickTiming
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector over windowSize ticks (60 if < 1).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{ring: make([]tickTiming, windowSize)}
}

// StartTick begins timing a scene tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.cur = tickTiming{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and opens phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phase, p.phaseStart, p.inPhase = phase, now, true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase && p.phase >= 0 && p.phase < numPhases {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
	p.inPhase = false
}

// EndTick closes the running phase and stores the tick in the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
}

// RecordFrame marks a rendered frame; paused frames count even without ticks.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats summarises the tick timings in the window.
type PerfStats struct {
	Ticks   int
	TickAvg time.Duration
	TickMin time.Duration
	TickMax time.Duration
	TickP95 time.Duration
	TickStd time.Duration

	// Share of the average tick spent in each phase, in percent
	PhaseShare [numPhases]float64

	TicksPerSecond float64
	Frame          time.Duration
	FPS            float64
}

// Share returns the percentage of tick time spent in phase.
func (s PerfStats) Share(phase Phase) float64 {
	if phase < 0 || phase >= numPhases {
		return 0
	}
	return s.PhaseShare[phase]
}

// Stats computes the window summary.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{Ticks: p.count, Frame: p.frame}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return s
	}

	totals := make([]float64, p.count)
	var phaseSum [numPhases]float64
	for i, t := range p.ring[:p.count] {
		totals[i] = float64(t.total)
		for ph, d := range t.phases {
			phaseSum[ph] += float64(d)
		}
	}

	mean := stat.Mean(totals, nil)
	s.TickAvg = time.Duration(mean)
	s.TickMin = time.Duration(floats.Min(totals))
	s.TickMax = time.Duration(floats.Max(totals))
	if p.count > 1 {
		s.TickStd = time.Duration(stat.StdDev(totals, nil))
	}
	sort.Float64s(totals)
	s.TickP95 = time.Duration(Percentile(totals, 0.95))

	if mean > 0 {
		s.TicksPerSecond = float64(time.Second) / mean
		total := mean * float64(p.count)
		for ph := range phaseSum {
			s.PhaseShare[ph] = phaseSum[ph] / total * 100
		}
	}
	return s
}

// LogStats logs the summary at info level.
func (s PerfStats) LogStats() {
	attrs := []any{
		"ticks", s.Ticks,
		"avg_tick_us", s.TickAvg.Microseconds(),
		"p95_tick_us", s.TickP95.Microseconds(),
		"max_tick_us", s.TickMax.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for ph := Phase(0); ph < numPhases; ph++ {
		if share := s.PhaseShare[ph]; share >= 0.1 {
			attrs = append(attrs, ph.String()+"_pct", float64(int(share*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd      int32   `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MinTickUS      int64   `csv:"min_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	P95TickUS      int64   `csv:"p95_tick_us"`
	StdTickUS      int64   `csv:"std_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	FPS            float64 `csv:"fps"`
	TransitionPct  float64 `csv:"transition_pct"`
	EvaluatePct    float64 `csv:"evaluate_pct"`
	BufferWritePct float64 `csv:"buffer_write_pct"`
	SnowPct        float64 `csv:"snow_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the summary for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.TickAvg.Microseconds(),
		MinTickUS:      s.TickMin.Microseconds(),
		MaxTickUS:      s.TickMax.Microseconds(),
		P95TickUS:      s.TickP95.Microseconds(),
		StdTickUS:      s.TickStd.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		FPS:            s.FPS,
		TransitionPct:  s.PhaseShare[PhaseTransition],
		EvaluatePct:    s.PhaseShare[PhaseEvaluate],
		BufferWritePct: s.PhaseShare[PhaseBufferWrite],
		SnowPct:        s.PhaseShare[PhaseSnow],
		TelemetryPct:   s.PhaseShare[PhaseTelemetry],
	}
}
