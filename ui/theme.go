// Package ui draws the heads-up display and the upgrade shop.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	BarFillLow     rl.Color
	BarFillMedium  rl.Color
	BarFillHigh    rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 12, G: 24, B: 38, A: 230},
		PanelBorder:    rl.Color{R: 70, G: 90, B: 110, A: 255},
		SectionHeader:  rl.Gold,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:        rl.Color{R: 100, G: 150, B: 200, A: 255},
		BarFillLow:     rl.Color{R: 200, G: 90, B: 80, A: 255},
		BarFillMedium:  rl.Color{R: 210, G: 180, B: 90, A: 255},
		BarFillHigh:    rl.Color{R: 90, G: 190, B: 110, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     64,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

// HealthColor picks the bar colour for a fill ratio.
func (t Theme) HealthColor(ratio float32) rl.Color {
	switch {
	case ratio < 0.3:
		return t.BarFillLow
	case ratio < 0.6:
		return t.BarFillMedium
	default:
		return t.BarFillHigh
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
