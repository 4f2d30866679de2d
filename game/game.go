// Package game wires the simulation systems into a tick loop and exposes the
// queries and commands the presentation layer drives it with.
package game

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brine/camera"
	"github.com/pthm-cable/brine/components"
	"github.com/pthm-cable/brine/config"
	"github.com/pthm-cable/brine/inspector"
	"github.com/pthm-cable/brine/renderer"
	"github.com/pthm-cable/brine/systems"
	"github.com/pthm-cable/brine/telemetry"
	"github.com/pthm-cable/brine/ui"
)

// Options configures game behavior.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	Headless       bool
	StepsPerUpdate int  // Simulation ticks per Update call
	Autopilot      bool // Drive the player automatically
}

// Game holds the complete game state.
type Game struct {
	cfg     *config.Config
	world   *ecs.World
	rng     *rand.Rand
	rngSeed int64

	// Entity mappers by archetype
	armedMapper *ecs.Map7[
		components.Position,
		components.Velocity,
		components.Force,
		components.Body,
		components.Motion,
		components.Agent,
		components.Armament,
	]
	creatureMapper *ecs.Map7[
		components.Position,
		components.Velocity,
		components.Force,
		components.Body,
		components.Motion,
		components.Agent,
		components.Contact,
	]
	lootMapper *ecs.Map3[components.Position, components.Body, components.Loot]

	agentFilter *ecs.Filter6[
		components.Position,
		components.Velocity,
		components.Force,
		components.Body,
		components.Motion,
		components.Agent,
	]
	posFilter  *ecs.Filter1[components.Position]
	lootFilter *ecs.Filter3[components.Position, components.Body, components.Loot]
	projFilter *ecs.Filter2[components.Position, components.Projectile]

	// Component mappers for lookups
	posMap     *ecs.Map[components.Position]
	velMap     *ecs.Map[components.Velocity]
	forceMap   *ecs.Map[components.Force]
	bodyMap    *ecs.Map[components.Body]
	motionMap  *ecs.Map[components.Motion]
	agentMap   *ecs.Map[components.Agent]
	armMap     *ecs.Map[components.Armament]
	sailMap    *ecs.Map[components.Sail]
	contactMap *ecs.Map[components.Contact]
	playerMap  *ecs.Map[components.Player]
	parentMap  *ecs.Map[components.Parent]
	childMap   *ecs.Map[components.Child]

	// Systems
	terrain    *systems.TerrainField
	lattice    *systems.Lattice
	steering   *systems.SteeringEngine
	movement   *systems.MovementSystem
	ballistics *systems.BallisticsSystem
	router     *systems.RoutePlanner
	camera     *camera.Camera
	wind       Wind

	// Key entities
	player   ecs.Entity
	flagship ecs.Entity
	fortBoss ecs.Entity

	flagshipDefeated bool
	lastAlliance     uint32

	// Input state (viewport coordinates)
	aim        r2.Vec
	autopilot  *Autopilot
	sailEngage bool
	fireEngage bool

	// Spawn candidates collected during a terrain update
	pendingSpawns []systems.SpawnCandidate

	// Per-tick scratch
	events    []telemetry.Event
	neighbors []ecs.Entity
	flockKin  []systems.Kinematics
	doomed    []doomed
	spentLoot []ecs.Entity

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)

	// Rendering (nil when headless)
	renderer  *renderer.Renderer
	hud       *ui.HUD
	inspector *inspector.Inspector

	// State
	tick           int32
	paused         bool
	showLattice    bool
	headless       bool
	stepsPerUpdate int
}

// NewGame creates a graphical game with default options.
func NewGame() *Game {
	return NewGameWithOptions(Options{Seed: config.Cfg().Physics.Seed})
}

// NewGameWithOptions creates a game with the given options.
// config.Init must have been called.
func NewGameWithOptions(opts Options) *Game {
	cfg := config.Cfg()
	world := ecs.NewWorld()

	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Physics.Seed
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	g := &Game{
		cfg:     cfg,
		world:   world,
		rng:     rand.New(rand.NewSource(seed)),
		rngSeed: seed,
		armedMapper: ecs.NewMap7[
			components.Position,
			components.Velocity,
			components.Force,
			components.Body,
			components.Motion,
			components.Agent,
			components.Armament,
		](world),
		creatureMapper: ecs.NewMap7[
			components.Position,
			components.Velocity,
			components.Force,
			components.Body,
			components.Motion,
			components.Agent,
			components.Contact,
		](world),
		lootMapper: ecs.NewMap3[components.Position, components.Body, components.Loot](world),
		agentFilter: ecs.NewFilter6[
			components.Position,
			components.Velocity,
			components.Force,
			components.Body,
			components.Motion,
			components.Agent,
		](world),
		posFilter:      ecs.NewFilter1[components.Position](world),
		lootFilter:     ecs.NewFilter3[components.Position, components.Body, components.Loot](world),
		projFilter:     ecs.NewFilter2[components.Position, components.Projectile](world),
		posMap:         ecs.NewMap[components.Position](world),
		velMap:         ecs.NewMap[components.Velocity](world),
		forceMap:       ecs.NewMap[components.Force](world),
		bodyMap:        ecs.NewMap[components.Body](world),
		motionMap:      ecs.NewMap[components.Motion](world),
		agentMap:       ecs.NewMap[components.Agent](world),
		armMap:         ecs.NewMap[components.Armament](world),
		sailMap:        ecs.NewMap[components.Sail](world),
		contactMap:     ecs.NewMap[components.Contact](world),
		playerMap:      ecs.NewMap[components.Player](world),
		parentMap:      ecs.NewMap[components.Parent](world),
		childMap:       ecs.NewMap[components.Child](world),
		aim:            r2.Vec{X: float64(cfg.Screen.Width) / 2, Y: float64(cfg.Screen.Height) / 2},
		collector:      telemetry.NewCollector(statsWindow, cfg.Derived.DT),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		logStats:       opts.LogStats,
		headless:       opts.Headless,
		stepsPerUpdate: steps,
	}

	// Terrain, lattice and systems
	noise := systems.NewNoise(cfg.Terrain.Seed, cfg.Terrain.Octaves, cfg.Terrain.Falloff)
	g.terrain = systems.NewTerrainField(cfg.Terrain, cfg.Spawn, cfg.Derived.GridW, cfg.Derived.GridH, noise, g.rng)
	g.terrain.SetSpawnHandler(g.queueSpawn)
	g.lattice = systems.NewLattice(cfg.Derived.GridW, cfg.Derived.GridH, cfg.Lattice.Resolution)
	g.steering = systems.NewSteeringEngine(cfg.Steering)
	g.movement = systems.NewMovementSystem(world, g.terrain, cfg.Movement, cfg.Derived.DespawnTicks)
	g.ballistics = systems.NewBallisticsSystem(world, g.terrain, g.lattice, cfg.Ballistics, cfg.Derived.MinProjectileSpeed, cfg.Derived.DespawnTicks)
	g.router = systems.NewRoutePlanner(g.terrain)
	g.camera = camera.New(cfg.Derived.GridW, cfg.Derived.GridH, cfg.Camera.Border, cfg.Camera.PanSpeed)
	g.wind.Reroll(g.rng)

	// Output manager
	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config", "error", err)
			}
		}
	}

	if opts.Autopilot {
		g.autopilot = NewAutopilot(cfg.Ticks(autopilotRetargetSecs))
	}

	// Fixed cast, then whatever the initial view spawns
	g.player = g.spawnPlayer()
	g.flagship = g.spawnFlagship()
	g.fortBoss = g.spawnFortBoss()
	g.terrain.SpawnAll()
	g.flushSpawns()
	g.collector.RecordAll(g.events)

	if !opts.Headless {
		g.renderer = renderer.New(cfg.Screen.Width, cfg.Screen.Height)
		g.hud = ui.NewHUD(int32(cfg.Screen.Width), int32(cfg.Screen.Height))
		g.inspector = inspector.NewInspector(int32(cfg.Screen.Width), int32(cfg.Screen.Height))
	}

	return g
}

// Update runs one or more simulation steps and handles input.
// Graphical mode only.
func (g *Game) Update() {
	g.perfCollector.RecordFrame()
	g.handleInput()

	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		if g.autopilot != nil {
			g.autopilot.Drive(g)
		}
		g.Tick()
	}
}

// UpdateHeadless runs simulation steps without reading input.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		if g.autopilot != nil {
			g.autopilot.Drive(g)
		}
		g.Tick()
	}
}

// Tick advances the simulation by exactly one step.
func (g *Game) Tick() {
	g.events = g.events[:0]
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseCamera)
	g.updateCamera()

	g.perfCollector.StartPhase(telemetry.PhaseTerrain)
	if g.terrain.Update(g.camera.Origin()) {
		tx, ty := g.terrain.TileOffset()
		g.events = append(g.events, telemetry.NewRegeneratedEvent(g.tick, tx, ty))
	}
	g.flushSpawns()

	g.perfCollector.StartPhase(telemetry.PhaseLattice)
	g.updateLattice()

	g.perfCollector.StartPhase(telemetry.PhaseBehavior)
	g.wind.Update(g.rng, g.cfg.Wind.ChangeProb)
	g.updateBehaviors()
	g.collectLoot()

	g.perfCollector.StartPhase(telemetry.PhaseMovement)
	removals := g.movement.Update(g.world)

	g.perfCollector.StartPhase(telemetry.PhaseBallistics)
	result := g.ballistics.Update(g.world)
	g.recordBallistics(result)

	g.perfCollector.StartPhase(telemetry.PhaseCompaction)
	g.compact(removals, result.Spent)

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.RecordAll(g.events)
	g.emitEffects()
	if g.outputManager != nil {
		if err := g.outputManager.WriteEvents(g.events); err != nil {
			slog.Error("failed to write events", "error", err)
		}
	}
	g.tick++
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// updateCamera pans toward the aim point and shifts every position so that
// coordinates stay viewport-relative.
func (g *Game) updateCamera() {
	col, row := g.terrain.WorldToTile(g.aim.X, g.aim.Y)
	dx, dy := g.camera.Update(col, row)
	if dx == 0 && dy == 0 {
		return
	}
	g.shift(dx, dy)
}

// shift moves every positioned entity and the player's seek point by the
// negative pan delta.
func (g *Game) shift(dx, dy float64) {
	query := g.posFilter.Query()
	for query.Next() {
		pos := query.Get()
		pos.X -= dx
		pos.Y -= dy
	}
	if g.playerMap.Has(g.player) {
		p := g.playerMap.Get(g.player)
		p.SeekX -= dx
		p.SeekY -= dy
	}
	if g.autopilot != nil {
		g.autopilot.shift(dx, dy)
	}
	if g.renderer != nil {
		g.renderer.Particles().Shift(float32(dx), float32(dy))
	}
}

// updateLattice rebuilds the spatial index from live agents.
func (g *Game) updateLattice() {
	g.lattice.Reset()

	query := g.agentFilter.Query()
	for query.Next() {
		pos, _, _, _, _, agent := query.Get()
		if !agent.Alive() {
			continue
		}
		col, row := g.terrain.WorldToTile(pos.X, pos.Y)
		g.lattice.Register(query.Entity(), col, row)
	}
}

// recordBallistics turns volleys and impacts into events.
func (g *Game) recordBallistics(result *systems.BallisticsResult) {
	for _, v := range result.Volleys {
		kind := components.KindPlayer
		if g.agentMap.Has(v.Owner) {
			kind = g.agentMap.Get(v.Owner).Kind
		}
		g.events = append(g.events, telemetry.NewVolleyEvent(g.tick, v.Owner, kind, v.Balls, v.X, v.Y))
	}
	for _, im := range result.Impacts {
		kind := g.agentMap.Get(im.Target).Kind
		g.events = append(g.events, telemetry.NewImpactEvent(g.tick, im.Owner, im.Target, kind, im.Damage, im.Killed, im.X, im.Y))
	}
}

// Unload releases rendering resources and closes output files.
func (g *Game) Unload() {
	if g.renderer != nil {
		g.renderer.Unload()
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// Ticks returns the number of completed simulation ticks.
func (g *Game) Ticks() int32 {
	return g.tick
}

// SetStatsCallback sets a function called with every flushed stats window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// Events returns the telemetry events of the last tick. The slice is reused.
func (g *Game) Events() []telemetry.Event {
	return g.events
}

// World exposes the ECS world for read-only inspection.
func (g *Game) World() *ecs.World {
	return g.world
}

// Terrain returns the terrain field.
func (g *Game) Terrain() *systems.TerrainField {
	return g.terrain
}
