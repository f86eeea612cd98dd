package telemetry

// Collector accumulates per-tick progress samples within time windows and
// produces WindowStats.
type Collector struct {
	windowDurationSec float64

	// Current window tracking
	windowStartTick int32
	windowStartTime float64

	linear   []float64
	eased    []float64
	velocity []float64

	toggles     int
	dirtyWrites int
	respawns    int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds.
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 1
	}
	return &Collector{
		windowDurationSec: windowDurationSec,
		linear:            make([]float64, 0, 256),
		eased:             make([]float64, 0, 256),
		velocity:          make([]float64, 0, 256),
	}
}

// RecordTick records one tick's progress snapshot and how many population
// buffers it dirtied.
func (c *Collector) RecordTick(linear, eased, velocity float32, dirty int) {
	c.linear = append(c.linear, float64(linear))
	c.eased = append(c.eased, float64(eased))
	c.velocity = append(c.velocity, float64(velocity))
	c.dirtyWrites += dirty
}

// RecordToggle records a target mode change.
func (c *Collector) RecordToggle() {
	c.toggles++
}

// RecordRespawns adds snow flakes that wrapped this tick.
func (c *Collector) RecordRespawns(n int) {
	c.respawns += n
}

// ShouldFlush returns true once the window has covered its duration.
func (c *Collector) ShouldFlush(simTime float64) bool {
	return simTime-c.windowStartTime >= c.windowDurationSec
}

// Flush produces a WindowStats and resets the window.
func (c *Collector) Flush(currentTick int32, simTime float64, mode string, instances int) WindowStats {
	lin := Summarize(c.linear)
	eased := Summarize(c.eased)
	vel := Summarize(c.velocity)

	var last float64
	if n := len(c.linear); n > 0 {
		last = c.linear[n-1]
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      simTime,

		Mode:    mode,
		Toggles: c.toggles,

		LinearMin:  lin.Min,
		LinearMax:  lin.Max,
		LinearLast: last,
		EasedMin:   eased.Min,
		EasedMax:   eased.Max,
		EasedMean:  eased.Mean,

		VelocityMean: vel.Mean,
		VelocityStd:  vel.Std,
		VelocityP50:  vel.P50,
		VelocityP90:  vel.P90,
		VelocityMax:  vel.Max,

		Instances:   instances,
		DirtyWrites: c.dirtyWrites,
		SnowRespawn: c.respawns,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.windowStartTime = simTime
	c.linear = c.linear[:0]
	c.eased = c.eased[:0]
	c.velocity = c.velocity[:0]
	c.toggles = 0
	c.dirtyWrites = 0
	c.respawns = 0

	return stats
}

// WindowDurationSec returns the window length in simulation seconds.
func (c *Collector) WindowDurationSec() float64 {
	return c.windowDurationSec
}
