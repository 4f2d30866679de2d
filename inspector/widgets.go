package inspector

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/brine/ui"
)

// Widget colors
var (
	ColorText        = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim     = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorAngleBg     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorAngleNeedle = rl.Color{R: 255, G: 200, B: 100, A: 255}
	ColorBoolOn      = rl.Color{R: 100, G: 200, B: 100, A: 255}
	ColorBoolOff     = rl.Color{R: 80, G: 80, B: 80, A: 255}
)

const (
	labelHeight = 18
	angleSize   = 32
	valueX      = 110
)

// fieldHeight returns the vertical space a field's widget takes.
func fieldHeight(f Field) int32 {
	if f.Widget == WidgetAngle {
		return angleSize + 4
	}
	return labelHeight
}

// DrawLabel renders a text value.
func DrawLabel(x, y int32, name string, value any, format string) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)
	rl.DrawText(FormatValue(value, format), x+valueX, y, 14, ColorText)
	return labelHeight
}

// DrawBar renders value against max as a horizontal bar coloured by fill.
func DrawBar(x, y int32, name string, value, max float64, theme ui.Theme) int32 {
	ratio := float32(value / max)
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}

	barWidth := int32(100)
	barHeight := int32(12)

	rl.DrawText(name, x, y, 14, ColorTextDim)
	barX := x + valueX
	rl.DrawRectangle(barX, y+1, barWidth, barHeight, theme.BarBg)
	rl.DrawRectangle(barX, y+1, int32(float32(barWidth)*ratio), barHeight, theme.HealthColor(ratio))
	rl.DrawText(fmt.Sprintf("%.0f/%.0f", value, max), barX+barWidth+5, y, 14, ColorTextDim)

	return labelHeight
}

// DrawAngle renders a compass-style angle indicator. Screen y points down,
// so the needle follows the simulation's orientation directly.
func DrawAngle(x, y int32, name string, radians float64) int32 {
	centerX := x + valueX + angleSize/2
	centerY := y + angleSize/2

	rl.DrawText(name, x, centerY-7, 14, ColorTextDim)

	rl.DrawCircle(centerX, centerY, angleSize/2, ColorAngleBg)
	rl.DrawCircleLines(centerX, centerY, angleSize/2, ColorTextDim)

	needle := float64(angleSize/2 - 3)
	rl.DrawLineEx(
		rl.Vector2{X: float32(centerX), Y: float32(centerY)},
		rl.Vector2{
			X: float32(centerX) + float32(needle*math.Cos(radians)),
			Y: float32(centerY) + float32(needle*math.Sin(radians)),
		},
		2,
		ColorAngleNeedle,
	)

	degrees := radians * 180 / math.Pi
	rl.DrawText(fmt.Sprintf("%.0f deg", degrees), x+valueX+angleSize+6, centerY-7, 14, ColorTextDim)

	return angleSize + 4
}

// DrawBool renders an on/off indicator.
func DrawBool(x, y int32, name string, value bool) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)

	color, text := ColorBoolOff, "no"
	if value {
		color, text = ColorBoolOn, "yes"
	}
	rl.DrawRectangle(x+valueX, y+1, 12, 12, color)
	rl.DrawText(text, x+valueX+17, y, 14, color)

	return labelHeight
}

// DrawField renders a field using its widget type.
func DrawField(x, y int32, f Field, theme ui.Theme) int32 {
	switch f.Widget {
	case WidgetBar:
		if v, ok := FloatValue(f.Value); ok {
			return DrawBar(x, y, f.Name, v, f.Max, theme)
		}
	case WidgetAngle:
		if v, ok := FloatValue(f.Value); ok {
			return DrawAngle(x, y, f.Name, v)
		}
	case WidgetBool:
		if v, ok := f.Value.(bool); ok {
			return DrawBool(x, y, f.Name, v)
		}
	}
	return DrawLabel(x, y, f.Name, f.Value, f.Format)
}
