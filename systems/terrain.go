package systems

import (
	"errors"
	"math"
	"math/rand"

	"github.com/pthm-cable/brine/config"
)

// Terrain is the category of a map tile.
type Terrain uint8

const (
	DeepWater Terrain = iota
	ShallowWater
	Sand
	Grass
)

// String returns the display name of a terrain category.
func (t Terrain) String() string {
	switch t {
	case DeepWater:
		return "DeepWater"
	case ShallowWater:
		return "ShallowWater"
	case Sand:
		return "Sand"
	case Grass:
		return "Grass"
	}
	return "Unknown"
}

// IsLand reports whether the tile is sand or grass.
func (t Terrain) IsLand() bool { return t == Sand || t == Grass }

// IsWater reports whether the tile is deep or shallow water.
func (t Terrain) IsWater() bool { return t == DeepWater || t == ShallowWater }

// SpawnKind identifies what a newly revealed tile asks to spawn.
type SpawnKind uint8

const (
	SpawnShark SpawnKind = iota
	SpawnEnemyShip
	SpawnSiren
	SpawnFort
	SpawnLoot
)

// String returns the display name of a spawn kind.
func (k SpawnKind) String() string {
	switch k {
	case SpawnShark:
		return "Shark"
	case SpawnEnemyShip:
		return "EnemyShip"
	case SpawnSiren:
		return "Siren"
	case SpawnFort:
		return "Fort"
	case SpawnLoot:
		return "Loot"
	}
	return "Unknown"
}

// SpawnCandidate is emitted for a revealed tile that won a spawn draw.
// X, Y is the tile centre.
type SpawnCandidate struct {
	Kind SpawnKind
	X, Y float64
}

// ErrNoValidPosition is returned when a bounded search for a tile fails.
var ErrNoValidPosition = errors.New("no valid position found")

// TerrainField is the tile map around the viewport. Tiles are generated from
// coherent noise at their absolute tile coordinate, so panning reveals a
// continuous world. Positions handed to the field are viewport-relative.
type TerrainField struct {
	cfg   config.TerrainConfig
	spawn config.SpawnConfig
	noise NoiseSource
	rng   *rand.Rand

	width, height int
	tileSize      float64
	half          int // buffer/2, tiles hidden beyond each viewport edge

	grid []Terrain // row-major, width*height
	back []Terrain // regeneration target, swapped with grid

	renderOffX, renderOffY float64 // sub-tile pan remainder in [0, tileSize)
	tileOffX, tileOffY     int
	prevTileOffX           int
	prevTileOffY           int

	onSpawn func(SpawnCandidate)
	gen     uint64 // incremented on every regeneration
}

// NewTerrainField creates a field of gridW x gridH tiles and generates it at
// tile offset (0, 0). Call SpawnAll once the spawn handler is set to populate
// the initial view.
func NewTerrainField(cfg config.TerrainConfig, spawn config.SpawnConfig, gridW, gridH int, noise NoiseSource, rng *rand.Rand) *TerrainField {
	t := &TerrainField{
		cfg:      cfg,
		spawn:    spawn,
		noise:    noise,
		rng:      rng,
		width:    gridW,
		height:   gridH,
		tileSize: float64(cfg.TileSize),
		half:     cfg.Buffer / 2,
		grid:     make([]Terrain, gridW*gridH),
		back:     make([]Terrain, gridW*gridH),
	}
	t.Generate()
	return t
}

// SetSpawnHandler sets the callback receiving spawn candidates.
func (t *TerrainField) SetSpawnHandler(fn func(SpawnCandidate)) {
	t.onSpawn = fn
}

// Generate recomputes every tile at the current tile offset. The new grid is
// built in a back buffer and swapped in one step.
func (t *TerrainField) Generate() {
	for row := 0; row < t.height; row++ {
		for col := 0; col < t.width; col++ {
			t.back[row*t.width+col] = t.classify(t.tileOffX+col, t.tileOffY+row)
		}
	}
	t.grid, t.back = t.back, t.grid
	t.gen++
}

// classify samples the noise at an absolute tile coordinate.
func (t *TerrainField) classify(tx, ty int) Terrain {
	v := t.noise.Eval2(float64(tx)*t.cfg.Scale, float64(ty)*t.cfg.Scale)
	switch {
	case v < t.cfg.DeepWater:
		return DeepWater
	case v < t.cfg.ShallowWater:
		return ShallowWater
	case v < t.cfg.Sand:
		return Sand
	default:
		return Grass
	}
}

// Update applies the viewport origin for this tick. When the origin crosses a
// tile boundary the grid is regenerated and only the newly exposed edges are
// offered for spawning. Returns true if the grid was regenerated.
func (t *TerrainField) Update(originX, originY float64) bool {
	tx := math.Floor(originX / t.tileSize)
	ty := math.Floor(originY / t.tileSize)
	t.renderOffX = originX - tx*t.tileSize
	t.renderOffY = originY - ty*t.tileSize
	t.tileOffX = int(tx)
	t.tileOffY = int(ty)

	dx := t.tileOffX - t.prevTileOffX
	dy := t.tileOffY - t.prevTileOffY
	t.prevTileOffX = t.tileOffX
	t.prevTileOffY = t.tileOffY

	if dx == 0 && dy == 0 {
		return false
	}

	t.Generate()

	switch {
	case dx < 0:
		t.spawnColumn(0)
	case dx > 0:
		t.spawnColumn(t.width - 1)
	}
	switch {
	case dy < 0:
		t.spawnRow(0)
	case dy > 0:
		t.spawnRow(t.height - 1)
	}
	return true
}

// SpawnAll runs the spawn pass over every tile.
func (t *TerrainField) SpawnAll() {
	for row := 0; row < t.height; row++ {
		for col := 0; col < t.width; col++ {
			t.spawnAt(col, row)
		}
	}
}

func (t *TerrainField) spawnColumn(col int) {
	for row := 0; row < t.height; row++ {
		t.spawnAt(col, row)
	}
}

func (t *TerrainField) spawnRow(row int) {
	for col := 0; col < t.width; col++ {
		t.spawnAt(col, row)
	}
}

// spawnAt draws independently against each probability for the tile's
// category and emits at most one candidate.
func (t *TerrainField) spawnAt(col, row int) {
	if t.onSpawn == nil {
		return
	}
	x, y := t.TileCentre(col, row)

	var kind SpawnKind
	switch t.grid[row*t.width+col] {
	case DeepWater:
		switch {
		case t.rng.Float64() < t.spawn.Shark:
			kind = SpawnShark
		case t.rng.Float64() < t.spawn.EnemyShip:
			kind = SpawnEnemyShip
		case t.rng.Float64() < t.spawn.Siren:
			kind = SpawnSiren
		default:
			return
		}
	case ShallowWater:
		switch {
		case t.rng.Float64() < t.spawn.Loot:
			kind = SpawnLoot
		case t.rng.Float64() < t.spawn.Siren:
			kind = SpawnSiren
		default:
			return
		}
	case Sand:
		if t.rng.Float64() >= t.spawn.Fort {
			return
		}
		kind = SpawnFort
	default:
		return
	}

	t.onSpawn(SpawnCandidate{Kind: kind, X: x, Y: y})
}

// WorldToTile converts a viewport-relative position to grid coordinates.
// The result may lie outside the grid; use InBounds before indexing.
func (t *TerrainField) WorldToTile(x, y float64) (col, row int) {
	col = int(math.Floor((x+t.renderOffX)/t.tileSize)) + t.half
	row = int(math.Floor((y+t.renderOffY)/t.tileSize)) + t.half
	return col, row
}

// TileToWorld returns the top-left corner of a tile in viewport-relative
// coordinates.
func (t *TerrainField) TileToWorld(col, row int) (x, y float64) {
	x = float64(col-t.half)*t.tileSize - t.renderOffX
	y = float64(row-t.half)*t.tileSize - t.renderOffY
	return x, y
}

// TileCentre returns the centre of a tile in viewport-relative coordinates.
func (t *TerrainField) TileCentre(col, row int) (x, y float64) {
	x, y = t.TileToWorld(col, row)
	return x + t.tileSize/2, y + t.tileSize/2
}

// InBounds reports whether grid coordinates index a tile.
func (t *TerrainField) InBounds(col, row int) bool {
	return col >= 0 && col < t.width && row >= 0 && row < t.height
}

// OnField reports whether a position lies over the tile grid.
func (t *TerrainField) OnField(x, y float64) bool {
	return t.InBounds(t.WorldToTile(x, y))
}

// At returns the terrain at grid coordinates. Out-of-range coordinates are
// clamped to the nearest edge tile.
func (t *TerrainField) At(col, row int) Terrain {
	col = clampInt(col, 0, t.width-1)
	row = clampInt(row, 0, t.height-1)
	return t.grid[row*t.width+col]
}

// TerrainAt returns the terrain under a position, or false when the position
// is off-field.
func (t *TerrainField) TerrainAt(x, y float64) (Terrain, bool) {
	col, row := t.WorldToTile(x, y)
	if !t.InBounds(col, row) {
		return 0, false
	}
	return t.grid[row*t.width+col], true
}

// RandomTile samples tiles uniformly until one of the wanted category whose
// centre passes accept is found. accept may be nil. After maxAttempts draws
// it gives up with ErrNoValidPosition.
func (t *TerrainField) RandomTile(want Terrain, accept func(x, y float64) bool, maxAttempts int) (float64, float64, error) {
	for i := 0; i < maxAttempts; i++ {
		col := t.rng.Intn(t.width)
		row := t.rng.Intn(t.height)
		if t.grid[row*t.width+col] != want {
			continue
		}
		x, y := t.TileCentre(col, row)
		if accept == nil || accept(x, y) {
			return x, y, nil
		}
	}
	return 0, 0, ErrNoValidPosition
}

// Width returns the grid width in tiles.
func (t *TerrainField) Width() int { return t.width }

// Height returns the grid height in tiles.
func (t *TerrainField) Height() int { return t.height }

// TileSize returns the tile edge length in pixels.
func (t *TerrainField) TileSize() float64 { return t.tileSize }

// TileOffset returns the integer tile offset of the viewport origin.
func (t *TerrainField) TileOffset() (int, int) { return t.tileOffX, t.tileOffY }

// RenderOffset returns the sub-tile pan remainder.
func (t *TerrainField) RenderOffset() (float64, float64) { return t.renderOffX, t.renderOffY }

// Generation returns a counter incremented on every regeneration.
func (t *TerrainField) Generation() uint64 { return t.gen }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
