package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/brine/systems"
)

// TerrainColor returns the base colour of a terrain class.
func TerrainColor(t systems.Terrain) rl.Color {
	switch t {
	case systems.DeepWater:
		return rl.Color{R: 22, G: 58, B: 110, A: 255}
	case systems.ShallowWater:
		return rl.Color{R: 48, G: 118, B: 168, A: 255}
	case systems.Sand:
		return rl.Color{R: 214, G: 192, B: 130, A: 255}
	default:
		return rl.Color{R: 78, G: 140, B: 70, A: 255}
	}
}

// TerrainRenderer draws the tile grid. Tiles are baked into a texture that
// is rebuilt only when the field regenerates; sub-tile panning just shifts
// the texture.
type TerrainRenderer struct {
	texture     rl.RenderTexture2D
	texW, texH  int32
	generation  uint64
	initialized bool

	// Shading varies with the absolute tile so it scrolls with the world
	shade opensimplex.Noise
}

// NewTerrainRenderer creates a new terrain renderer.
func NewTerrainRenderer() *TerrainRenderer {
	return &TerrainRenderer{shade: opensimplex.New(7)}
}

func (r *TerrainRenderer) init(t *systems.TerrainField) {
	ts := t.TileSize()
	r.texW = int32(float64(t.Width()) * ts)
	r.texH = int32(float64(t.Height()) * ts)
	r.texture = rl.LoadRenderTexture(r.texW, r.texH)
	r.initialized = true
	r.bake(t)
}

// bake redraws every tile into the cached texture.
func (r *TerrainRenderer) bake(t *systems.TerrainField) {
	ts := float32(t.TileSize())
	offX, offY := t.TileOffset()

	rl.BeginTextureMode(r.texture)
	rl.ClearBackground(rl.Black)
	for row := 0; row < t.Height(); row++ {
		for col := 0; col < t.Width(); col++ {
			terrain := t.At(col, row)
			base := TerrainColor(terrain)

			n := r.shade.Eval2(float64(col+offX)*0.35, float64(row+offY)*0.35)
			c := shadeColor(base, float32(1+n*0.08))

			// Render textures are flipped vertically
			y := float32(t.Height()-1-row) * ts
			rl.DrawRectangleRec(rl.Rectangle{X: float32(col) * ts, Y: y, Width: ts, Height: ts}, c)

			if terrain.IsLand() && t.At(col, row+1).IsWater() {
				// Surf line along the shore
				rl.DrawRectangleRec(rl.Rectangle{X: float32(col) * ts, Y: y, Width: ts, Height: ts * 0.15}, shadeColor(base, 0.7))
			}
		}
	}
	rl.EndTextureMode()
	r.generation = t.Generation()
}

// Draw renders the terrain at its current pan offset.
func (r *TerrainRenderer) Draw(t *systems.TerrainField) {
	if t == nil {
		return
	}
	if !r.initialized {
		r.init(t)
	} else if t.Generation() != r.generation {
		r.bake(t)
	}

	x, y := t.TileToWorld(0, 0)
	rl.DrawTexture(r.texture.Texture, int32(math.Round(x)), int32(math.Round(y)), rl.White)
}

// Unload frees resources.
func (r *TerrainRenderer) Unload() {
	if r.initialized {
		rl.UnloadRenderTexture(r.texture)
		r.initialized = false
	}
}

func shadeColor(c rl.Color, f float32) rl.Color {
	scale := func(v uint8) uint8 {
		s := float32(v) * f
		if s > 255 {
			return 255
		}
		if s < 0 {
			return 0
		}
		return uint8(s)
	}
	return rl.Color{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}
