// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Terrain    TerrainConfig    `yaml:"terrain"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Lattice    LatticeConfig    `yaml:"lattice"`
	Steering   SteeringConfig   `yaml:"steering"`
	Movement   MovementConfig   `yaml:"movement"`
	Ballistics BallisticsConfig `yaml:"ballistics"`
	Wind       WindConfig       `yaml:"wind"`
	Camera     CameraConfig     `yaml:"camera"`
	Player     PlayerConfig     `yaml:"player"`
	Flagship   ShipConfig       `yaml:"flagship"`
	FortBoss   FortBossConfig   `yaml:"fort_boss"`
	Enemy      EnemyConfig      `yaml:"enemy"`
	Loot       LootConfig       `yaml:"loot"`
	Upgrades   UpgradesConfig   `yaml:"upgrades"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings. The viewport size also fixes the
// terrain grid size.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds the fixed tick rate. Durations elsewhere in the config
// are given in seconds and converted to ticks with this rate.
type PhysicsConfig struct {
	TicksPerSecond int   `yaml:"ticks_per_second"`
	Seed           int64 `yaml:"seed"` // Random source seed (spawns, wander, wind)
}

// TerrainConfig holds procedural terrain parameters.
type TerrainConfig struct {
	TileSize     int     `yaml:"tile_size"`     // Pixels per tile
	Scale        float64 `yaml:"scale"`         // Noise frequency per tile
	Seed         int64   `yaml:"seed"`          // Noise seed
	Buffer       int     `yaml:"buffer"`        // Off-screen tiles kept around the viewport
	Octaves      int     `yaml:"octaves"`       // fBm octaves
	Falloff      float64 `yaml:"falloff"`       // Amplitude falloff per octave
	DeepWater    float64 `yaml:"deep_water"`    // Noise below this is deep water
	ShallowWater float64 `yaml:"shallow_water"` // Noise below this is shallow water
	Sand         float64 `yaml:"sand"`          // Noise below this is sand, above is grass
}

// SpawnConfig holds per-tile spawn probabilities for newly revealed tiles.
type SpawnConfig struct {
	Shark     float64 `yaml:"shark"`
	EnemyShip float64 `yaml:"enemy_ship"`
	Siren     float64 `yaml:"siren"`
	Fort      float64 `yaml:"fort"`
	Loot      float64 `yaml:"loot"`
}

// LatticeConfig holds spatial lattice parameters.
type LatticeConfig struct {
	Resolution int `yaml:"resolution"` // Tiles per bin along each axis
}

// SteeringConfig holds steering behaviour multipliers.
type SteeringConfig struct {
	ArriveMult      float64 `yaml:"arrive_mult"`      // Arrival radius = diameter * this
	LungeMult       float64 `yaml:"lunge_mult"`       // Lunge speed = max speed * this
	PredictDistance float64 `yaml:"predict_distance"` // Pursuit look-ahead along target orientation
	AwareMult       float64 `yaml:"aware_mult"`       // Awareness radius = diameter * this
	SeparationMult  float64 `yaml:"separation_mult"`  // Separation band = diameter * this
	NeighborMult    float64 `yaml:"neighbor_mult"`    // Alignment/cohesion band = diameter * this
	SeparationW     float64 `yaml:"separation_weight"`
	AlignmentW      float64 `yaml:"alignment_weight"`
	CohesionW       float64 `yaml:"cohesion_weight"`
}

// MovementConfig holds integrator and terrain avoidance parameters.
type MovementConfig struct {
	AvoidSamples    int     `yaml:"avoid_samples"`     // Samples along each side ray
	AvoidProbeAngle float64 `yaml:"avoid_probe_angle"` // Side ray angle (radians)
	AvoidTurnAngle  float64 `yaml:"avoid_turn_angle"`  // Velocity rotation per tick (radians)
	AvoidReachMult  float64 `yaml:"avoid_reach_mult"`  // Ray length = aware radius * this
	MinAvoidSpeed   float64 `yaml:"min_avoid_speed"`   // Skip avoidance at or below this speed
	DespawnSeconds  float64 `yaml:"despawn_seconds"`   // Off-field time before despawn
	WaterDrag       float64 `yaml:"water_drag"`        // Drag coefficient for ships and sharks
}

// BallisticsConfig holds cannon and projectile parameters.
type BallisticsConfig struct {
	Spread          float64 `yaml:"spread"`            // Angle increment between balls (radians)
	ProjectileSpeed float64 `yaml:"projectile_speed"`  // Default projectile speed per unit range
	Drag            float64 `yaml:"drag"`              // Drag coefficient (negative)
	CarrierMult     float64 `yaml:"carrier_mult"`      // Firing vessel velocity inherited by shots
	RangeRadiusMult float64 `yaml:"range_radius_mult"` // Range radius = range * this
	ShipCannonMult  float64 `yaml:"ship_cannon_mult"`  // Ship cannon diameter = ship diameter * this
	FortCannonMult  float64 `yaml:"fort_cannon_mult"`  // Fort cannon diameter = fort diameter * this
	BallSizeMult    float64 `yaml:"ball_size_mult"`    // Ball diameter = cannon diameter * this
}

// WindConfig holds weather parameters.
type WindConfig struct {
	ChangeProb     float64 `yaml:"change_prob"`      // Per-tick probability of a new wind
	Scale          float64 `yaml:"scale"`            // Wind force scale on ships
	SteerForceMult float64 `yaml:"steer_force_mult"` // Ship steering force = max speed * this
	SailTurnSecs   float64 `yaml:"sail_turn_secs"`   // Seconds for a sail to turn a full circle
}

// CameraConfig holds panning parameters.
type CameraConfig struct {
	PanSpeed float64 `yaml:"pan_speed"` // Pixels per tick
	Border   int     `yaml:"border"`    // Tiles from the grid edge that trigger panning
}

// CannonConfig describes a cannon loadout.
type CannonConfig struct {
	Ammo           int     `yaml:"ammo"` // -1 = unlimited
	BallsPerVolley int     `yaml:"balls_per_volley"`
	Range          float64 `yaml:"range"`
	Damage         float64 `yaml:"damage"`
	CooldownSecs   float64 `yaml:"cooldown_secs"`
}

// ShipConfig describes a vessel.
type ShipConfig struct {
	StartX   float64      `yaml:"start_x"`
	StartY   float64      `yaml:"start_y"`
	MaxSpeed float64      `yaml:"max_speed"`
	Diameter float64      `yaml:"diameter"`
	Health   float64      `yaml:"health"`
	Cannon   CannonConfig `yaml:"cannon"`
}

// PlayerConfig extends ShipConfig with player-only settings.
type PlayerConfig struct {
	ShipConfig       `yaml:",inline"`
	StartGold        int     `yaml:"start_gold"`
	DeathGoldPenalty float64 `yaml:"death_gold_penalty"` // Fraction of gold lost on death
	RespawnAttempts  int     `yaml:"respawn_attempts"`   // Bounded retries for a respawn tile
}

// FortBossConfig describes the multi-part fortress.
type FortBossConfig struct {
	StartX      float64      `yaml:"start_x"`
	StartY      float64      `yaml:"start_y"`
	Diameter    float64      `yaml:"diameter"`
	Health      float64      `yaml:"health"`
	NumCannons  int          `yaml:"num_cannons"`
	Cannon      CannonConfig `yaml:"cannon"`
	CornerInset float64      `yaml:"corner_inset"` // Corner fort inset from the boss edge
}

// EnemyConfig holds spawned enemy parameters, scaled from the player.
type EnemyConfig struct {
	ShipScale    float64 `yaml:"ship_scale"`
	ShipDiameter float64 `yaml:"ship_diameter"`
	ShipWander   float64 `yaml:"ship_wander"`

	FortScale      float64 `yaml:"fort_scale"`
	FortDiameter   float64 `yaml:"fort_diameter"`
	FortCannonsMin int     `yaml:"fort_cannons_min"`
	FortCannonsMax int     `yaml:"fort_cannons_max"`

	SharkScale     float64 `yaml:"shark_scale"`
	SharkDiameter  float64 `yaml:"shark_diameter"`
	SharkMaxSpeed  float64 `yaml:"shark_max_speed"`
	SharkForceMult float64 `yaml:"shark_force_mult"`
	SharkWander    float64 `yaml:"shark_wander"`
	SharkDmgScale  float64 `yaml:"shark_damage_scale"`

	SirenScale     float64 `yaml:"siren_scale"`
	SirenDiameter  float64 `yaml:"siren_diameter"`
	SirenAwareMult float64 `yaml:"siren_aware_mult"`
	SirenHaltProb  float64 `yaml:"siren_halt_prob"`
	SirenPull      float64 `yaml:"siren_pull"`
}

// LootConfig holds loot parameters.
type LootConfig struct {
	Diameter float64 `yaml:"diameter"`
	GoldMin  int     `yaml:"gold_min"`
	GoldMax  int     `yaml:"gold_max"` // Exclusive
}

// UpgradesConfig holds the amounts granted by each upgrade.
type UpgradesConfig struct {
	Health float64 `yaml:"health"`
	Ammo   int     `yaml:"ammo"`
	Range  float64 `yaml:"range"`
	Balls  int     `yaml:"balls"`
	Damage float64 `yaml:"damage"`
}

// TelemetryConfig holds telemetry and logging parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Seconds per stats window
	PerfWindow  int     `yaml:"perf_window"`  // Ticks averaged for perf stats
}

// DerivedConfig holds values computed from the loaded configuration.
type DerivedConfig struct {
	GridW, GridH       int     // Terrain grid size in tiles
	DespawnTicks       int     // Off-field ticks before despawn
	MinProjectileSpeed float64 // Projectiles below this speed are removed
	SailTurnPerTick    float64 // Radians per tick a sail can turn
	DT                 float64 // Seconds per tick
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only fields present in the file overwrite the defaults
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values that would break grid, tick or spawn arithmetic.
func (c *Config) validate() error {
	if c.Terrain.TileSize <= 0 {
		return fmt.Errorf("terrain.tile_size must be positive, got %d", c.Terrain.TileSize)
	}
	if c.Lattice.Resolution <= 0 {
		return fmt.Errorf("lattice.resolution must be positive, got %d", c.Lattice.Resolution)
	}
	if c.Physics.TicksPerSecond <= 0 {
		return fmt.Errorf("physics.ticks_per_second must be positive, got %d", c.Physics.TicksPerSecond)
	}
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if c.Terrain.Buffer < 0 || c.Terrain.Buffer%2 != 0 {
		return fmt.Errorf("terrain.buffer must be a non-negative even number, got %d", c.Terrain.Buffer)
	}
	if c.Movement.AvoidSamples <= 0 {
		return fmt.Errorf("movement.avoid_samples must be positive, got %d", c.Movement.AvoidSamples)
	}
	if c.Enemy.FortCannonsMin < 0 || c.Enemy.FortCannonsMin > c.Enemy.FortCannonsMax {
		return fmt.Errorf("enemy.fort_cannons_min must lie in [0, fort_cannons_max], got %d..%d",
			c.Enemy.FortCannonsMin, c.Enemy.FortCannonsMax)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	tps := float64(c.Physics.TicksPerSecond)

	c.Derived.GridW = c.Screen.Width/c.Terrain.TileSize + c.Terrain.Buffer
	c.Derived.GridH = c.Screen.Height/c.Terrain.TileSize + c.Terrain.Buffer
	c.Derived.DespawnTicks = int(c.Movement.DespawnSeconds * tps)
	c.Derived.MinProjectileSpeed = c.Ballistics.ProjectileSpeed / 10
	c.Derived.DT = 1 / tps
	if c.Wind.SailTurnSecs > 0 {
		c.Derived.SailTurnPerTick = 2 * math.Pi / (c.Wind.SailTurnSecs * tps)
	}
}

// Ticks converts a duration in seconds to whole simulation ticks.
func (c *Config) Ticks(seconds float64) int {
	return int(math.Round(seconds * float64(c.Physics.TicksPerSecond)))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
