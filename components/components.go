// Package components defines ECS components for the simulation.
package components

import "github.com/mlange-42/ark/ecs"

// Kind selects the behaviour strategy of an agent.
type Kind uint8

const (
	KindPlayer Kind = iota
	KindEnemyShip
	KindFlagship
	KindShark
	KindSiren
	KindFort
	KindFortBoss

	NumKinds // number of agent kinds
)

// Category determines which terrain an agent treats as passable.
type Category uint8

const (
	CategoryLand     Category = iota // Forts: water blocks, shallow water is avoided
	CategoryWater                    // Creatures: land blocks, sand is avoided
	CategoryMaritime                 // Ships: land blocks, sand is avoided
)

// Agent holds identity, allegiance and health for every actor in the world.
type Agent struct {
	Kind     Kind
	Category Category

	// Alliance groups agents that never damage each other. Zero means none.
	Alliance uint32

	Health     float64 `inspect:"bar,maxfield:BaseHealth"`
	BaseHealth float64

	Despawnable   bool // removed after lingering off-field
	TerrainExempt bool // never avoids or collides with terrain
	OffFieldTicks int
	Dead          bool
}

// Alive reports whether the agent still takes part in the simulation.
func (a *Agent) Alive() bool {
	return !a.Dead && a.Health > 0
}

// Allied reports whether two agents share a declared alliance group.
func (a *Agent) Allied(other *Agent) bool {
	return a.Alliance != 0 && a.Alliance == other.Alliance
}

// Cannon is a single gun mounted on an agent. Offsets are relative to the
// owner's position.
type Cannon struct {
	OffsetX, OffsetY float64 `inspect:"skip"`
	Orientation      float64 `inspect:"angle"`
	Diameter         float64

	Ammo           int // remaining volleys, -1 = unlimited
	BallsPerVolley int
	Range          float64
	Damage         float64
	CooldownTime   int // ticks between volleys
	Cooldown       int `inspect:"bar,maxfield:CooldownTime"` // ticks remaining until the next volley
}

// Unlimited reports whether the cannon never runs out of ammo.
func (c *Cannon) Unlimited() bool { return c.Ammo < 0 }

// Armament lists the cannons owned by an agent. Ships carry a left and a
// right cannon; forts carry up to four.
type Armament struct {
	Cannons []Cannon
}

// Ship side cannon indices.
const (
	CannonLeft  = 0
	CannonRight = 1
)

// Sail holds the sail normal used to compute wind alignment.
type Sail struct {
	Angle float64 `inspect:"angle"`
}

// Contact is damage dealt to the player on touch (sharks, sirens).
type Contact struct {
	Damage float64
}

// Projectile is a cannonball in flight.
type Projectile struct {
	Owner         ecs.Entity
	Alliance      uint32
	Damage        float64
	OffFieldTicks int
	Spent         bool
}

// Loot is a floating treasure the player can collect.
type Loot struct {
	Gold          int
	OffFieldTicks int
	Collected     bool
}

// Player holds state only the player-controlled ship has.
type Player struct {
	SeekX, SeekY float64 `inspect:"label,fmt:%.0f"`
	Seeking      bool
	Gold         int
	Deaths       int
}

// Parent owns child agents that live and die alongside it.
type Parent struct {
	Children []ecs.Entity
}

// Child is a non-owning back-reference to an owning agent.
type Child struct {
	Parent ecs.Entity
}
