package game

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes mouse and keyboard input.
func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyL) {
		g.showLattice = !g.showLattice
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	mouse := rl.GetMousePosition()

	// The HUD and inspector swallow clicks on their own panels
	if g.hud != nil && g.hud.Captures(mouse) {
		return
	}
	if g.inspector != nil && g.inspector.Captures(mouse) {
		return
	}

	mx, my := float64(mouse.X), float64(mouse.Y)
	g.SetAim(mx, my)

	// Middle click inspects the agent under the cursor
	if g.inspector != nil && rl.IsMouseButtonPressed(rl.MouseButtonMiddle) {
		if e, ok := g.AgentAt(mx, my); ok {
			g.inspector.Select(e)
		} else {
			g.inspector.Deselect()
		}
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		g.SetSeekPoint(mx, my)
	}

	// Hold S to work the sail toward the cursor, F or left mouse to fire
	g.sailEngage = rl.IsKeyDown(rl.KeyS)
	g.fireEngage = rl.IsKeyDown(rl.KeyF) || rl.IsMouseButtonDown(rl.MouseButtonLeft)
	if g.sailEngage {
		g.TrimSail(mx, my)
	}
	if g.fireEngage {
		g.FirePlayer()
	}

	// Shop hotkeys
	switch {
	case rl.IsKeyPressed(rl.KeyOne):
		g.UpgradeHealth()
	case rl.IsKeyPressed(rl.KeyTwo):
		g.UpgradeAmmo()
	case rl.IsKeyPressed(rl.KeyThree):
		g.UpgradeRange()
	case rl.IsKeyPressed(rl.KeyFour):
		g.UpgradeBalls()
	case rl.IsKeyPressed(rl.KeyFive):
		g.UpgradeDamage()
	}
}
