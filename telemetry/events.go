// Package telemetry provides event recording, windowed statistics and CSV
// output for the simulation.
package telemetry

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/brine/components"
)

// EventType identifies telemetry events.
type EventType uint8

const (
	EventAgentRemoved EventType = iota
	EventProjectileImpact
	EventVolleyFired
	EventTerrainRegenerated
	EventSpawned
	EventLootCollected
	EventPlayerRespawned
)

// String returns the event name used in logs and CSV.
func (t EventType) String() string {
	switch t {
	case EventAgentRemoved:
		return "agent_removed"
	case EventProjectileImpact:
		return "projectile_impact"
	case EventVolleyFired:
		return "volley_fired"
	case EventTerrainRegenerated:
		return "terrain_regenerated"
	case EventSpawned:
		return "spawned"
	case EventLootCollected:
		return "loot_collected"
	case EventPlayerRespawned:
		return "player_respawned"
	}
	return "unknown"
}

// RemovalReason says why an agent left the world.
type RemovalReason uint8

const (
	ReasonNone RemovalReason = iota
	ReasonDeath
	ReasonDespawn
)

// String returns the reason name.
func (r RemovalReason) String() string {
	switch r {
	case ReasonDeath:
		return "death"
	case ReasonDespawn:
		return "despawn"
	}
	return ""
}

// Event represents a single telemetry event.
type Event struct {
	Type   EventType
	Tick   int32
	Entity ecs.Entity
	Kind   components.Kind

	// Optional fields depending on event type
	Target ecs.Entity    // struck agent (impact)
	Reason RemovalReason // removal
	Amount float64       // damage (impact), balls (volley), gold (loot)
	Killed bool          // impact was lethal
	X, Y   float64       // where it happened; tile offset for regeneration
}

// NewRemovedEvent creates an agent removal event at the agent's last
// position.
func NewRemovedEvent(tick int32, e ecs.Entity, kind components.Kind, reason RemovalReason, x, y float64) Event {
	return Event{
		Type:   EventAgentRemoved,
		Tick:   tick,
		Entity: e,
		Kind:   kind,
		Reason: reason,
		X:      x,
		Y:      y,
	}
}

// NewImpactEvent creates a projectile impact event. Entity is the shooter.
func NewImpactEvent(tick int32, owner, target ecs.Entity, targetKind components.Kind, damage float64, killed bool, x, y float64) Event {
	return Event{
		Type:   EventProjectileImpact,
		Tick:   tick,
		Entity: owner,
		Kind:   targetKind,
		Target: target,
		Amount: damage,
		Killed: killed,
		X:      x,
		Y:      y,
	}
}

// NewVolleyEvent creates a volley event.
func NewVolleyEvent(tick int32, owner ecs.Entity, kind components.Kind, balls int, x, y float64) Event {
	return Event{
		Type:   EventVolleyFired,
		Tick:   tick,
		Entity: owner,
		Kind:   kind,
		Amount: float64(balls),
		X:      x,
		Y:      y,
	}
}

// NewRegeneratedEvent records a terrain regeneration at a tile offset.
func NewRegeneratedEvent(tick int32, tileX, tileY int) Event {
	return Event{
		Type: EventTerrainRegenerated,
		Tick: tick,
		X:    float64(tileX),
		Y:    float64(tileY),
	}
}

// NewSpawnedEvent creates a spawn event.
func NewSpawnedEvent(tick int32, e ecs.Entity, kind components.Kind, x, y float64) Event {
	return Event{
		Type:   EventSpawned,
		Tick:   tick,
		Entity: e,
		Kind:   kind,
		X:      x,
		Y:      y,
	}
}

// NewLootEvent records the player picking up loot.
func NewLootEvent(tick int32, player ecs.Entity, gold int) Event {
	return Event{
		Type:   EventLootCollected,
		Tick:   tick,
		Entity: player,
		Kind:   components.KindPlayer,
		Amount: float64(gold),
	}
}

// NewRespawnEvent records the player respawning after death.
func NewRespawnEvent(tick int32, player ecs.Entity, x, y float64) Event {
	return Event{
		Type:   EventPlayerRespawned,
		Tick:   tick,
		Entity: player,
		Kind:   components.KindPlayer,
		X:      x,
		Y:      y,
	}
}

// EventCSV is a flat record for events.csv.
type EventCSV struct {
	Tick   int32   `csv:"tick"`
	Type   string  `csv:"type"`
	Entity uint32  `csv:"entity"`
	Kind   string  `csv:"kind"`
	Target uint32  `csv:"target"`
	Reason string  `csv:"reason"`
	Amount float64 `csv:"amount"`
	Killed bool    `csv:"killed"`
	X      float64 `csv:"x"`
	Y      float64 `csv:"y"`
}

// ToCSV flattens the event. Entity columns hold ECS entity ids, zero when
// unset.
func (e Event) ToCSV() EventCSV {
	rec := EventCSV{
		Tick:   e.Tick,
		Type:   e.Type.String(),
		Entity: e.Entity.ID(),
		Target: e.Target.ID(),
		Reason: e.Reason.String(),
		Amount: e.Amount,
		Killed: e.Killed,
		X:      e.X,
		Y:      e.Y,
	}
	if e.Type != EventTerrainRegenerated {
		rec.Kind = e.Kind.String()
	}
	return rec
}
