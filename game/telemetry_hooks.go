package game

import (
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brine/telemetry"
)

// flushTelemetry closes the stats window when it is due.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.snapshot())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		g.logPerf(perfStats)
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// snapshot samples the world state at the end of a window.
func (g *Game) snapshot() telemetry.Snapshot {
	var snap telemetry.Snapshot

	query := g.agentFilter.Query()
	for query.Next() {
		_, vel, _, _, _, agent := query.Get()
		if !agent.Alive() {
			continue
		}
		snap.Counts[agent.Kind]++
		snap.Speeds = append(snap.Speeds, r2.Norm(vel.Vec()))
		if agent.Kind.Hostile() {
			snap.HostileHealth = append(snap.HostileHealth, agent.Health)
		}
	}

	projQuery := g.projFilter.Query()
	snap.Projectiles = projQuery.Count()
	projQuery.Close()

	lootQuery := g.lootFilter.Query()
	snap.Loot = lootQuery.Count()
	lootQuery.Close()

	if g.world.Alive(g.player) {
		ps := g.PlayerState()
		snap.PlayerHealth = ps.Health
		snap.PlayerGold = ps.Gold
		snap.PlayerDeaths = ps.Deaths
	}
	snap.WindDir = g.wind.Dir
	snap.WindStrength = g.wind.Strength

	return snap
}
