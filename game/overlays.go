package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// binLoad is one occupied lattice bin.
type binLoad struct {
	col, row int // bin coordinates
	n        int
}

// latticeLoad lists the non-empty lattice bins.
func (g *Game) latticeLoad() []binLoad {
	cols, rows := g.lattice.Size()
	var out []binLoad
	for row := range rows {
		for col := range cols {
			if n := len(g.lattice.Bin(col, row)); n > 0 {
				out = append(out, binLoad{col: col, row: row, n: n})
			}
		}
	}
	return out
}

// drawLatticeOverlay shades occupied lattice bins with their entity count.
func (g *Game) drawLatticeOverlay() {
	res := g.cfg.Lattice.Resolution
	side := float32(float64(res) * g.terrain.TileSize())
	fill := rl.Color{R: 255, G: 80, B: 200, A: 40}
	edge := rl.Color{R: 255, G: 80, B: 200, A: 160}

	for _, b := range g.latticeLoad() {
		x, y := g.terrain.TileToWorld(b.col*res, b.row*res)
		rect := rl.Rectangle{X: float32(x), Y: float32(y), Width: side, Height: side}
		rl.DrawRectangleRec(rect, fill)
		rl.DrawRectangleLinesEx(rect, 1, edge)
		rl.DrawText(fmt.Sprint(b.n), int32(x)+3, int32(y)+3, 10, rl.White)
	}
}
