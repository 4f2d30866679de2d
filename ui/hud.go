package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// CannonData is the HUD view of one cannon.
type CannonData struct {
	Ammo         int // -1 = unlimited
	Balls        int
	Range        float64
	Damage       float64
	Cooldown     int
	CooldownTime int
}

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Tick   int32
	Speed  int
	FPS    int32
	Paused bool

	Health     float64
	BaseHealth float64
	Gold       int
	Deaths     int
	Cannons    []CannonData

	WindDir       float64
	WindStrength  float64
	SailAlignment float64

	Hostiles         int
	FlagshipDefeated bool
}

// ShopAction is an upgrade bought through the HUD.
type ShopAction uint8

const (
	ShopNone ShopAction = iota
	ShopHealth
	ShopAmmo
	ShopRange
	ShopBalls
	ShopDamage
)

var shopLabels = [...]string{
	ShopHealth: "1 Hull",
	ShopAmmo:   "2 Shot",
	ShopRange:  "3 Range",
	ShopBalls:  "4 Balls",
	ShopDamage: "5 Powder",
}

const (
	panelWidth    = 240
	shopButtonW   = 84
	shopButtonH   = 24
	shopButtonGap = 6
)

// HUD renders the heads-up display and the upgrade shop.
type HUD struct {
	theme        Theme
	screenWidth  int32
	screenHeight int32
}

// NewHUD creates a HUD for a screen of the given size.
func NewHUD(screenWidth, screenHeight int32) *HUD {
	return &HUD{
		theme:        DefaultTheme(),
		screenWidth:  screenWidth,
		screenHeight: screenHeight,
	}
}

// shopRect is the area covered by the shop buttons.
func (h *HUD) shopRect() rl.Rectangle {
	n := float32(len(shopLabels) - 1)
	w := n*shopButtonW + (n-1)*shopButtonGap
	return rl.Rectangle{
		X:      float32(h.screenWidth) - w - 10,
		Y:      float32(h.screenHeight) - shopButtonH - 10,
		Width:  w,
		Height: shopButtonH,
	}
}

// Captures reports whether the point lies on a HUD widget, so that clicks
// there do not reach the world.
func (h *HUD) Captures(p rl.Vector2) bool {
	return rl.CheckCollisionPointRec(p, h.shopRect())
}

// Draw renders the HUD and returns the upgrade clicked this frame, if any.
func (h *HUD) Draw(data HUDData) ShopAction {
	pad := h.theme.Padding
	drawPanel(h.theme, pad, pad, panelWidth, int32(150+54*len(data.Cannons)))

	col := NewColumn(h.theme, pad+6, pad+6, panelWidth-12)
	col.Header("Ship")
	col.Hull("Hull", data.Health, data.BaseHealth)
	col.Row("Gold", fmt.Sprint(data.Gold))
	col.Row("Sunk", fmt.Sprint(data.Deaths))

	for i, c := range data.Cannons {
		side := "Port"
		if i == 1 {
			side = "Starboard"
		}
		col.Gap(2)
		col.Header(side)
		ammo := "inf"
		if c.Ammo >= 0 {
			ammo = fmt.Sprint(c.Ammo)
		}
		col.Row("Shot", fmt.Sprintf("%s  x%d  %.0f dmg  %.0f rng", ammo, c.Balls, c.Damage, c.Range))
		col.Reload("Reload", c.Cooldown, c.CooldownTime)
	}

	col.Gap(2)
	col.Header("Weather")
	col.Row("Wind", fmt.Sprintf("%3.0f deg", data.WindDir*180/math.Pi))
	col.Fraction("Strength", data.WindStrength)
	col.Fraction("Sail", data.SailAlignment)

	h.drawStatus(data)
	return h.drawShop()
}

func (h *HUD) drawStatus(data HUDData) {
	status := fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d | Hostiles: %d", data.Tick, data.Speed, data.FPS, data.Hostiles)
	rl.DrawText(status, h.screenWidth-int32(rl.MeasureText(status, 14))-10, 10, 14, rl.LightGray)

	switch {
	case data.Paused:
		rl.DrawText("PAUSED", h.screenWidth/2-40, 10, 20, rl.Yellow)
	case data.FlagshipDefeated:
		rl.DrawText("Flagship sunk", h.screenWidth/2-70, 10, 20, rl.Gold)
	}

	controls := "RMB: sail to | LMB/F: fire | S: trim sail | Space: pause | </>: speed | L: lattice"
	rl.DrawText(controls, 10, h.screenHeight-22, 12, rl.Gray)
}

func (h *HUD) drawShop() ShopAction {
	rect := h.shopRect()
	action := ShopNone
	for a := ShopHealth; a <= ShopDamage; a++ {
		b := rl.Rectangle{
			X:      rect.X + float32(a-ShopHealth)*(shopButtonW+shopButtonGap),
			Y:      rect.Y,
			Width:  shopButtonW,
			Height: shopButtonH,
		}
		if gui.Button(b, shopLabels[a]) {
			action = a
		}
	}
	return action
}
