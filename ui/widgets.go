package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Column lays out HUD rows top to bottom inside a fixed-width panel.
type Column struct {
	theme Theme
	x, y  int32
	width int32
}

// NewColumn starts a column whose first row sits at (x, y).
func NewColumn(theme Theme, x, y, width int32) *Column {
	return &Column{theme: theme, x: x, y: y, width: width}
}

// Gap adds vertical space.
func (c *Column) Gap(px int32) { c.y += px }

// Header writes a section title.
func (c *Column) Header(title string) {
	rl.DrawText(title, c.x, c.y, c.theme.HeaderFontSize, c.theme.SectionHeader)
	c.y += c.theme.LineHeight
}

// Row writes "label: value".
func (c *Column) Row(label, value string) {
	c.label(label)
	rl.DrawText(value, c.x+c.theme.LabelWidth, c.y, c.theme.FontSize, c.theme.ValueColor)
	c.y += c.theme.LineHeight
}

// Gauge draws a horizontal bar filled to ratio, with caption to its right.
func (c *Column) Gauge(label string, ratio float32, fill rl.Color, caption string) {
	const captionWidth = 56
	left := c.x + c.theme.LabelWidth
	span := c.width - c.theme.LabelWidth - captionWidth
	top := c.y + 2

	c.label(label)
	rl.DrawRectangle(left, top, span, c.theme.BarHeight, c.theme.BarBg)
	rl.DrawRectangle(left, top, int32(float32(span)*clamp01(ratio)), c.theme.BarHeight, fill)
	rl.DrawText(caption, left+span+4, c.y, c.theme.FontSize, c.theme.ValueColor)
	c.y += c.theme.LineHeight + 2
}

// Fraction is a gauge of v over [0, 1] in the plain fill colour.
func (c *Column) Fraction(label string, v float64) {
	c.Gauge(label, float32(v), c.theme.BarFill, fmt.Sprintf("%.2f", v))
}

// Hull is a gauge of current over max coloured by how full it is.
func (c *Column) Hull(label string, current, max float64) {
	var ratio float32
	if max > 0 {
		ratio = clamp01(float32(current / max))
	}
	c.Gauge(label, ratio, c.theme.HealthColor(ratio), fmt.Sprintf("%.0f/%.0f", current, max))
}

// Reload fills as a cannon cools down; a full bar is ready to fire.
func (c *Column) Reload(label string, remaining, total int) {
	ready := float32(1)
	if total > 0 {
		ready = clamp01(1 - float32(remaining)/float32(total))
	}
	caption := "ready"
	if ready < 1 {
		caption = fmt.Sprintf("%d", remaining)
	}
	c.Gauge(label, ready, c.theme.BarFill, caption)
}

func (c *Column) label(s string) {
	rl.DrawText(s+":", c.x, c.y, c.theme.FontSize, c.theme.LabelColor)
}

// drawPanel fills a framed background.
func drawPanel(theme Theme, x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, theme.PanelBorder)
}
