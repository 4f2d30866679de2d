package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/brine/config"
	"github.com/pthm-cable/brine/game"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config overriding the built-in defaults")
		headless   = flag.Bool("headless", false, "Simulate without opening a window")
		logStats   = flag.Bool("log-stats", false, "Log per-window battle stats")
		window     = flag.Float64("stats-window", 0, "Stats window in seconds; 0 takes telemetry.stats_window")
		outputDir  = flag.String("output-dir", "", "Directory for CSV stats and the config snapshot")
		seed       = flag.Int64("seed", 0, "World seed; 0 takes physics.seed")
		maxTicks   = flag.Int("max-ticks", 0, "Quit after this many ticks; 0 runs forever")
		steps      = flag.Int("steps-per-update", 1, "Ticks advanced per update")
		autopilot  = flag.Bool("autopilot", false, "Hand the player's ship to the autopilot")
	)
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := config.Init(*configPath); err != nil {
		slog.Error("config", "path", *configPath, "error", err)
		os.Exit(1)
	}
	if *seed == 0 {
		*seed = config.Cfg().Physics.Seed
	}

	opts := game.Options{
		Seed:           *seed,
		LogStats:       *logStats,
		StatsWindowSec: *window,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *steps,
		Autopilot:      *autopilot,
	}

	if *headless {
		runHeadless(opts, *maxTicks)
		return
	}
	runWindow(opts, *maxTicks)
}

func done(g *game.Game, maxTicks int) bool {
	return maxTicks > 0 && int(g.Ticks()) >= maxTicks
}

func runHeadless(opts game.Options, maxTicks int) {
	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	slog.Info("headless run",
		"seed", opts.Seed,
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
		"autopilot", opts.Autopilot,
	)
	for !done(g, maxTicks) {
		g.UpdateHeadless()
	}
	g.LogWorldState()
}

func runWindow(opts game.Options, maxTicks int) {
	screen := config.Cfg().Screen
	rl.InitWindow(int32(screen.Width), int32(screen.Height), "Brine")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(screen.TargetFPS))

	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	for !rl.WindowShouldClose() && !done(g, maxTicks) {
		g.Update()
		g.Draw()
	}
	g.LogWorldState()
}
