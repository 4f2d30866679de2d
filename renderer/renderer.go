// Package renderer draws the world with raylib.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/brine/components"
)

var kindColors = [components.NumKinds]rl.Color{
	components.KindPlayer:    {R: 240, G: 240, B: 230, A: 255},
	components.KindEnemyShip: {R: 150, G: 60, B: 50, A: 255},
	components.KindFlagship:  {R: 40, G: 30, B: 30, A: 255},
	components.KindShark:     {R: 120, G: 130, B: 140, A: 255},
	components.KindSiren:     {R: 190, G: 90, B: 200, A: 255},
	components.KindFort:      {R: 110, G: 100, B: 90, A: 255},
	components.KindFortBoss:  {R: 80, G: 70, B: 65, A: 255},
}

// KindColor returns the hull colour of an agent kind.
func KindColor(k components.Kind) rl.Color {
	if k >= components.NumKinds {
		return rl.Magenta
	}
	return kindColors[k]
}

// Renderer draws terrain, agents, projectiles and effects.
type Renderer struct {
	width, height int32

	terrain   *TerrainRenderer
	particles *ParticleRenderer
}

// New creates a renderer for a screen of the given size. The raylib window
// must already be open.
func New(width, height int) *Renderer {
	return &Renderer{
		width:     int32(width),
		height:    int32(height),
		terrain:   NewTerrainRenderer(),
		particles: NewParticleRenderer(),
	}
}

// Terrain returns the terrain renderer.
func (r *Renderer) Terrain() *TerrainRenderer { return r.terrain }

// Particles returns the effect particles.
func (r *Renderer) Particles() *ParticleRenderer { return r.particles }

func toScreen(x, y float64) rl.Vector2 {
	return rl.Vector2{X: float32(x), Y: float32(y)}
}

func along(x, y, angle, length float64) rl.Vector2 {
	return toScreen(x+math.Cos(angle)*length, y+math.Sin(angle)*length)
}

// DrawShip draws a hull pointed along orientation with its sail.
func (r *Renderer) DrawShip(kind components.Kind, x, y, diameter, orientation, sail float64) {
	half := diameter / 2
	bow := along(x, y, orientation, half)
	port := along(x, y, orientation+2.5, half*0.8)
	starboard := along(x, y, orientation-2.5, half*0.8)
	// raylib culls clockwise triangles
	rl.DrawTriangle(bow, starboard, port, KindColor(kind))
	rl.DrawTriangleLines(bow, starboard, port, rl.Black)

	// Sail as a yard across the mast
	a := along(x, y, sail+math.Pi/2, half*0.6)
	b := along(x, y, sail-math.Pi/2, half*0.6)
	rl.DrawLineEx(a, b, 2, rl.RayWhite)
}

// DrawCreature draws a shark or siren.
func (r *Renderer) DrawCreature(kind components.Kind, x, y, diameter, orientation float64) {
	c := toScreen(x, y)
	rl.DrawCircleV(c, float32(diameter/2), KindColor(kind))
	rl.DrawLineEx(c, along(x, y, orientation, diameter/2), 2, rl.Black)
}

// DrawFort draws a fort body.
func (r *Renderer) DrawFort(kind components.Kind, x, y, diameter float64) {
	rec := rl.Rectangle{
		X:      float32(x - diameter/2),
		Y:      float32(y - diameter/2),
		Width:  float32(diameter),
		Height: float32(diameter),
	}
	rl.DrawRectangleRec(rec, KindColor(kind))
	rl.DrawRectangleLinesEx(rec, 1, rl.Black)
}

// DrawCannon draws a barrel from (x, y) along orientation.
func (r *Renderer) DrawCannon(x, y, orientation, diameter float64) {
	rl.DrawLineEx(toScreen(x, y), along(x, y, orientation, diameter), float32(math.Max(diameter/3, 1)), rl.DarkGray)
}

// DrawHealth draws a small health bar above an agent.
func (r *Renderer) DrawHealth(x, y, diameter, ratio float64) {
	if ratio >= 1 {
		return
	}
	ratio = math.Max(0, ratio)
	w := float32(diameter)
	left := float32(x) - w/2
	top := float32(y-diameter/2) - 6
	rl.DrawRectangleV(rl.Vector2{X: left, Y: top}, rl.Vector2{X: w, Y: 3}, rl.Maroon)
	rl.DrawRectangleV(rl.Vector2{X: left, Y: top}, rl.Vector2{X: w * float32(ratio), Y: 3}, rl.Lime)
}

// DrawProjectile draws a cannonball.
func (r *Renderer) DrawProjectile(x, y, diameter float64) {
	rl.DrawCircleV(toScreen(x, y), float32(math.Max(diameter/2, 1)), rl.Black)
}

// DrawLoot draws a floating chest.
func (r *Renderer) DrawLoot(x, y, diameter float64) {
	rl.DrawCircleV(toScreen(x, y), float32(diameter/2), rl.Gold)
	rl.DrawCircleLines(int32(x), int32(y), float32(diameter/2), rl.Brown)
}

// DrawRange outlines a cannon's reach.
func (r *Renderer) DrawRange(x, y, radius float64) {
	rl.DrawCircleLines(int32(x), int32(y), float32(radius), rl.Color{R: 255, G: 255, B: 255, A: 60})
}

// DrawSeekMarker marks the player's destination.
func (r *Renderer) DrawSeekMarker(x, y float64) {
	rl.DrawCircleLines(int32(x), int32(y), 6, rl.Yellow)
}

// DrawWind draws the wind arrow near the bottom-right corner.
func (r *Renderer) DrawWind(dir, strength float64) {
	cx, cy := float64(r.width-50), float64(r.height-80)
	length := 10 + 30*strength
	tail := along(cx, cy, dir+math.Pi, length/2)
	head := along(cx, cy, dir, length/2)
	rl.DrawLineEx(tail, head, 3, rl.RayWhite)
	rl.DrawCircleV(head, 4, rl.RayWhite)
}

// Unload frees resources.
func (r *Renderer) Unload() {
	r.terrain.Unload()
}
