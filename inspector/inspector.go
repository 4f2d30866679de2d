// Package inspector shows the components of a selected agent in a side
// panel. Fields are read by reflection and drawn according to their
// inspect struct tags.
package inspector

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/brine/ui"
)

// Panel dimensions
const (
	PanelWidth    = 300
	PanelPadding  = 10
	HeaderHeight  = 28
	SectionHeight = 20
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 12, G: 24, B: 38, A: 235}
	ColorPanelHeader = rl.Color{R: 30, G: 48, B: 66, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 90, B: 110, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorSection     = rl.Color{R: 36, G: 56, B: 76, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 210, B: 225, A: 255}
	ColorHighlight   = rl.Color{R: 255, G: 220, B: 120, A: 200}
)

// Section is a titled component to display.
type Section struct {
	Title     string
	Component any
}

// Inspector tracks the selected agent and draws its panel.
type Inspector struct {
	selected     ecs.Entity
	hasSelected  bool
	panelX       int32
	panelY       int32
	panelHeight  int32
	screenHeight int32
	theme        ui.Theme
}

// NewInspector creates an inspector whose panel sits at the right edge.
func NewInspector(screenWidth, screenHeight int32) *Inspector {
	return &Inspector{
		panelX:       screenWidth - PanelWidth - 10,
		panelY:       10,
		screenHeight: screenHeight,
		theme:        ui.DefaultTheme(),
	}
}

// Select makes e the inspected entity.
func (ins *Inspector) Select(e ecs.Entity) {
	ins.selected = e
	ins.hasSelected = true
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
	ins.panelHeight = 0
}

// Selected returns the currently selected entity.
func (ins *Inspector) Selected() (ecs.Entity, bool) {
	return ins.selected, ins.hasSelected
}

// Captures reports whether a screen point lies on the open panel.
func (ins *Inspector) Captures(p rl.Vector2) bool {
	if !ins.hasSelected || ins.panelHeight == 0 {
		return false
	}
	return rl.CheckCollisionPointRec(p, rl.Rectangle{
		X:      float32(ins.panelX),
		Y:      float32(ins.panelY),
		Width:  PanelWidth,
		Height: float32(ins.panelHeight),
	})
}

// PanelHeight computes the height needed for the sections, capped to the
// screen.
func PanelHeight(sections []Section, screenHeight int32) int32 {
	h := int32(HeaderHeight + PanelPadding)
	for _, s := range sections {
		h += SectionHeight
		for _, f := range ExtractFields(s.Component) {
			h += fieldHeight(f)
		}
		h += 4
	}
	h += PanelPadding
	if limit := screenHeight - 20; h > limit {
		h = limit
	}
	return h
}

// Draw renders the panel for the selected entity.
func (ins *Inspector) Draw(title string, sections []Section) {
	if !ins.hasSelected {
		return
	}
	ins.panelHeight = PanelHeight(sections, ins.screenHeight)
	bottom := ins.panelY + ins.panelHeight - PanelPadding

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, ins.panelHeight, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(ins.panelHeight)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(title, ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding
	for _, s := range sections {
		if y+SectionHeight > bottom {
			return
		}
		rl.DrawRectangle(x-2, y-2, PanelWidth-2*PanelPadding+4, 18, ColorSection)
		rl.DrawText(s.Title, x+2, y, 14, ColorSectionText)
		y += SectionHeight

		for _, f := range ExtractFields(s.Component) {
			if y+fieldHeight(f) > bottom {
				return
			}
			y += DrawField(x, y, f, ins.theme)
		}
		y += 4
	}
}

// DrawSelectionHighlight rings the selected entity.
func (ins *Inspector) DrawSelectionHighlight(x, y, radius float64) {
	if !ins.hasSelected {
		return
	}
	rl.DrawCircleLines(int32(x), int32(y), float32(radius+4), ColorHighlight)
	rl.DrawCircleLines(int32(x), int32(y), float32(radius+6), ColorHighlight)
}
