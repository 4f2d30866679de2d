// Terrain preview tool - interactive tuning of the terrain noise with sliders.
//
// Usage: go run ./cmd/terrainpreview [-config path]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/brine/config"
	"github.com/pthm-cable/brine/renderer"
	"github.com/pthm-cable/brine/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	gridSize     = 128
	cellSize     = previewSize / gridSize
	panelWidth   = windowWidth - previewSize - 30
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	defaults := config.Cfg().Terrain
	params := defaults

	rl.InitWindow(windowWidth, windowHeight, "Terrain Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	var originX, originY float64
	field := buildField(params)

	for !rl.WindowShouldClose() {
		// Arrow keys pan a tile at a time
		step := float64(params.TileSize)
		if rl.IsKeyDown(rl.KeyLeft) {
			originX -= step
		}
		if rl.IsKeyDown(rl.KeyRight) {
			originX += step
		}
		if rl.IsKeyDown(rl.KeyUp) {
			originY -= step
		}
		if rl.IsKeyDown(rl.KeyDown) {
			originY += step
		}
		field.Update(originX, originY)

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		counts := drawField(field)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		total := float32(gridSize * gridSize)
		rl.DrawText(fmt.Sprintf("Deep: %.0f%%  Shallow: %.0f%%  Sand: %.0f%%  Grass: %.0f%%",
			100*float32(counts[systems.DeepWater])/total,
			100*float32(counts[systems.ShallowWater])/total,
			100*float32(counts[systems.Sand])/total,
			100*float32(counts[systems.Grass])/total,
		), 15, statsY, 16, rl.DarkGray)
		tx, ty := field.TileOffset()
		rl.DrawText(fmt.Sprintf("Tile offset: (%d, %d)  Generation: %d", tx, ty, field.Generation()), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Terrain Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		changed := false
		slider := func(label, format string, value *float64, lo, hi float32) {
			rl.DrawText(label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			v := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				fmt.Sprint(lo), fmt.Sprint(hi),
				float32(*value), lo, hi,
			)
			rl.DrawText(fmt.Sprintf(format, *value), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if v != float32(*value) {
				*value = float64(v)
				changed = true
			}
			panelY += 35
		}

		slider("Scale (noise frequency per tile)", "%.3f", &params.Scale, 0.01, 0.5)

		octaves := float64(params.Octaves)
		slider("Octaves", "%.0f", &octaves, 1, 8)
		params.Octaves = int(octaves)

		slider("Falloff (amplitude per octave)", "%.2f", &params.Falloff, 0.1, 0.9)

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15

		slider("Deep water below", "%.2f", &params.DeepWater, 0, 1)
		slider("Shallow water below", "%.2f", &params.ShallowWater, 0, 1)
		slider("Sand below", "%.2f", &params.Sand, 0, 1)

		seed := float64(params.Seed)
		slider("Seed", "%.0f", &seed, 0, 99999)
		params.Seed = int64(seed)

		// Thresholds stay ordered
		params.ShallowWater = max(params.ShallowWater, params.DeepWater)
		params.Sand = max(params.Sand, params.ShallowWater)

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
			changed = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaults
			originX, originY = 0, 0
			changed = true
		}
		panelY += 45

		if changed {
			field = buildField(params)
			field.Update(originX, originY)
		}

		// Output YAML
		block := terrainYAML(params)
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range strings.Split(strings.TrimRight(block, "\n"), "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Arrows pan, C copies YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(block)
		}

		rl.EndDrawing()
	}
}

// buildField generates a preview field with spawning disabled.
func buildField(tc config.TerrainConfig) *systems.TerrainField {
	noise := systems.NewNoise(tc.Seed, tc.Octaves, tc.Falloff)
	return systems.NewTerrainField(tc, config.SpawnConfig{}, gridSize, gridSize, noise, rand.New(rand.NewSource(1)))
}

// drawField paints every tile and returns the per-type tile counts.
func drawField(f *systems.TerrainField) map[systems.Terrain]int {
	counts := make(map[systems.Terrain]int, 4)
	for row := 0; row < f.Height(); row++ {
		for col := 0; col < f.Width(); col++ {
			t := f.At(col, row)
			counts[t]++
			rl.DrawRectangle(int32(10+col*cellSize), int32(10+row*cellSize), cellSize, cellSize, renderer.TerrainColor(t))
		}
	}
	return counts
}

// terrainYAML renders the parameters as a terrain: block for config.yaml.
func terrainYAML(tc config.TerrainConfig) string {
	out, err := yaml.Marshal(map[string]config.TerrainConfig{"terrain": tc})
	if err != nil {
		return fmt.Sprintf("# %v\n", err)
	}
	return string(out)
}
