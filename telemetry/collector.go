package telemetry

import (
	"math"

	"github.com/pthm-cable/brine/components"
)

// Snapshot is the world state sampled when a window closes.
type Snapshot struct {
	Counts      [components.NumKinds]int
	Projectiles int
	Loot        int

	HostileHealth []float64
	Speeds        []float64

	PlayerHealth float64
	PlayerGold   int
	PlayerDeaths int

	WindDir      float64
	WindStrength float64
}

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float64

	windowStartTick int32

	// Event counters for current window
	spawned       int
	deaths        int
	despawns      int
	volleys       int
	ballsFired    int
	impacts       int
	kills         int
	damageDealt   float64
	lootCollected int
	goldCollected int
	respawns      int
	regenerations int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(math.Round(windowDurationSec / dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Record counts an event into the current window.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventAgentRemoved:
		switch ev.Reason {
		case ReasonDeath:
			c.deaths++
		case ReasonDespawn:
			c.despawns++
		}
	case EventProjectileImpact:
		c.impacts++
		c.damageDealt += ev.Amount
		if ev.Killed {
			c.kills++
		}
	case EventVolleyFired:
		c.volleys++
		c.ballsFired += int(ev.Amount)
	case EventTerrainRegenerated:
		c.regenerations++
	case EventSpawned:
		c.spawned++
	case EventLootCollected:
		c.lootCollected++
		c.goldCollected += int(ev.Amount)
	case EventPlayerRespawned:
		c.respawns++
	}
}

// RecordAll counts a batch of events.
func (c *Collector) RecordAll(events []Event) {
	for i := range events {
		c.Record(events[i])
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, snap Snapshot) WindowStats {
	var hitRate float64
	if c.ballsFired > 0 {
		hitRate = float64(c.impacts) / float64(c.ballsFired)
	}

	health := Summarize(snap.HostileHealth)
	speed := Summarize(snap.Speeds)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		EnemyShips:  snap.Counts[components.KindEnemyShip],
		Flagships:   snap.Counts[components.KindFlagship],
		Sharks:      snap.Counts[components.KindShark],
		Sirens:      snap.Counts[components.KindSiren],
		Forts:       snap.Counts[components.KindFort],
		FortBosses:  snap.Counts[components.KindFortBoss],
		Projectiles: snap.Projectiles,
		Loot:        snap.Loot,

		Spawned:       c.spawned,
		Deaths:        c.deaths,
		Despawns:      c.despawns,
		Volleys:       c.volleys,
		BallsFired:    c.ballsFired,
		Impacts:       c.impacts,
		Kills:         c.kills,
		DamageDealt:   c.damageDealt,
		HitRate:       hitRate,
		LootCollected: c.lootCollected,
		GoldCollected: c.goldCollected,
		Respawns:      c.respawns,
		Regenerations: c.regenerations,

		HealthMean: health.Mean,
		HealthStd:  health.Std,
		HealthP10:  health.P10,
		HealthP50:  health.P50,
		HealthP90:  health.P90,

		SpeedMean: speed.Mean,
		SpeedP90:  speed.P90,

		PlayerHealth: snap.PlayerHealth,
		PlayerGold:   snap.PlayerGold,
		PlayerDeaths: snap.PlayerDeaths,

		WindDir:      snap.WindDir,
		WindStrength: snap.WindStrength,
	}

	c.windowStartTick = currentTick
	c.spawned = 0
	c.deaths = 0
	c.despawns = 0
	c.volleys = 0
	c.ballsFired = 0
	c.impacts = 0
	c.kills = 0
	c.damageDealt = 0
	c.lootCollected = 0
	c.goldCollected = 0
	c.respawns = 0
	c.regenerations = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
