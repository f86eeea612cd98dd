package game

import (
	"log/slog"

	"github.com/pthm-cable/tinsel/telemetry"
)

// StatsCallback receives every flushed stats window.
type StatsCallback func(telemetry.WindowStats)

// SetStatsCallback registers a function called on every window flush.
func (g *Game) SetStatsCallback(cb StatsCallback) {
	g.statsCallback = cb
}

// flushTelemetry checks if the stats window should be flushed and writes it.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.elapsed) {
		return
	}

	stats := g.collector.Flush(g.tick, g.elapsed, g.controller.Mode().String(), g.instances)
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteProgress(stats); err != nil {
			slog.Error("failed to write progress", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}
