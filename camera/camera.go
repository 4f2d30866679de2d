// Package camera tracks the viewport origin over an unbounded world.
//
// Entity positions are stored relative to the viewport, so the camera never
// transforms them at draw time. Instead each pan returns a delta that the
// caller subtracts from every position.
package camera

// Camera pans the viewport when the aim point nears the edge of the
// terrain grid.
type Camera struct {
	// X, Y is the accumulated pan in pixels. The terrain field uses it as
	// the noise-space origin of the viewport.
	X, Y float64

	gridW, gridH int
	border       int
	speed        float64
}

// New creates a camera at the origin for a terrain grid of gridW by gridH
// tiles. Aiming within border tiles of an edge pans by speed pixels per tick.
func New(gridW, gridH, border int, speed float64) *Camera {
	return &Camera{
		gridW:  gridW,
		gridH:  gridH,
		border: border,
		speed:  speed,
	}
}

// Update pans toward the aim tile if it lies inside the border band.
// Each axis is handled independently. Returns the pan applied this tick.
func (c *Camera) Update(aimCol, aimRow int) (dx, dy float64) {
	dx = c.axis(aimCol, c.gridW)
	dy = c.axis(aimRow, c.gridH)
	c.Pan(dx, dy)
	return dx, dy
}

func (c *Camera) axis(tile, size int) float64 {
	switch {
	case tile <= c.border:
		return -c.speed
	case tile >= size-c.border:
		return c.speed
	}
	return 0
}

// Pan moves the camera by the given delta in pixels.
func (c *Camera) Pan(dx, dy float64) {
	c.X += dx
	c.Y += dy
}

// Origin returns the accumulated pan.
func (c *Camera) Origin() (x, y float64) {
	return c.X, c.Y
}

// Reset returns the camera to the origin.
func (c *Camera) Reset() {
	c.X, c.Y = 0, 0
}

// Border returns the edge band width in tiles.
func (c *Camera) Border() int { return c.border }
