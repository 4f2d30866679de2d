package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/brine/components"
	"github.com/pthm-cable/brine/telemetry"
)

// logPerf logs performance statistics for the last window.
func (g *Game) logPerf(stats telemetry.PerfStats) {
	attrs := []any{
		"tick", g.tick,
		"speed", g.stepsPerUpdate,
		"stats", stats,
	}
	if !g.headless {
		attrs = append(attrs, "fps", rl.GetFPS())
	}
	slog.Info("perf", attrs...)
}

// LogWorldState logs a one-line census of the world.
func (g *Game) LogWorldState() {
	var counts [components.NumKinds]int
	var hostileHealth float64

	query := g.agentFilter.Query()
	for query.Next() {
		_, _, _, _, _, agent := query.Get()
		if !agent.Alive() {
			continue
		}
		counts[agent.Kind]++
		if agent.Kind.Hostile() {
			hostileHealth += agent.Health
		}
	}

	attrs := []any{"tick", g.tick}
	for k := components.Kind(0); k < components.NumKinds; k++ {
		attrs = append(attrs, k.String(), counts[k])
	}
	attrs = append(attrs,
		"hostile_health", hostileHealth,
		"lattice", g.lattice.Count(),
		"wind_dir", g.wind.Dir,
		"wind_strength", g.wind.Strength,
		"flagship_defeated", g.flagshipDefeated,
	)
	slog.Info("world", attrs...)
}
