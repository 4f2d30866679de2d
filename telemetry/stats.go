package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary describes a sample distribution.
type Summary struct {
	N    int
	Mean float64
	Std  float64
	P10  float64
	P50  float64
	P90  float64
}

// Summarize computes mean, sample standard deviation and empirical
// quantiles. values is not modified. An empty sample summarises to zeros.
func Summarize(values []float64) Summary {
	n := len(values)
	if n == 0 {
		return Summary{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	s := Summary{N: n}
	if n > 1 {
		s.Mean, s.Std = stat.MeanStdDev(sorted, nil)
	} else {
		s.Mean = sorted[0]
	}
	s.P10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	s.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	s.P90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return s
}

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	EnemyShips  int `csv:"enemy_ships"`
	Flagships   int `csv:"flagships"`
	Sharks      int `csv:"sharks"`
	Sirens      int `csv:"sirens"`
	Forts       int `csv:"forts"`
	FortBosses  int `csv:"fort_bosses"`
	Projectiles int `csv:"projectiles"`
	Loot        int `csv:"loot"`

	// Events during window
	Spawned       int     `csv:"spawned"`
	Deaths        int     `csv:"deaths"`
	Despawns      int     `csv:"despawns"`
	Volleys       int     `csv:"volleys"`
	BallsFired    int     `csv:"balls_fired"`
	Impacts       int     `csv:"impacts"`
	Kills         int     `csv:"kills"`
	DamageDealt   float64 `csv:"damage_dealt"`
	HitRate       float64 `csv:"hit_rate"`
	LootCollected int     `csv:"loot_collected"`
	GoldCollected int     `csv:"gold_collected"`
	Respawns      int     `csv:"respawns"`
	Regenerations int     `csv:"regenerations"`

	// Hostile health distribution (sampled at window end)
	HealthMean float64 `csv:"health_mean"`
	HealthStd  float64 `csv:"health_std"`
	HealthP10  float64 `csv:"health_p10"`
	HealthP50  float64 `csv:"health_p50"`
	HealthP90  float64 `csv:"health_p90"`

	// Agent speed distribution
	SpeedMean float64 `csv:"speed_mean"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Player
	PlayerHealth float64 `csv:"player_health"`
	PlayerGold   int     `csv:"player_gold"`
	PlayerDeaths int     `csv:"player_deaths"`

	// Weather
	WindDir      float64 `csv:"wind_dir"`
	WindStrength float64 `csv:"wind_strength"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("enemy_ships", s.EnemyShips),
		slog.Int("sharks", s.Sharks),
		slog.Int("sirens", s.Sirens),
		slog.Int("forts", s.Forts),
		slog.Int("projectiles", s.Projectiles),
		slog.Int("loot", s.Loot),
		slog.Int("deaths", s.Deaths),
		slog.Int("despawns", s.Despawns),
		slog.Int("volleys", s.Volleys),
		slog.Int("impacts", s.Impacts),
		slog.Int("kills", s.Kills),
		slog.Float64("hit_rate", s.HitRate),
		slog.Float64("health_mean", s.HealthMean),
		slog.Float64("player_health", s.PlayerHealth),
		slog.Int("player_gold", s.PlayerGold),
		slog.Int("player_deaths", s.PlayerDeaths),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"enemy_ships", s.EnemyShips,
		"flagships", s.Flagships,
		"sharks", s.Sharks,
		"sirens", s.Sirens,
		"forts", s.Forts,
		"fort_bosses", s.FortBosses,
		"projectiles", s.Projectiles,
		"loot", s.Loot,
		"spawned", s.Spawned,
		"deaths", s.Deaths,
		"despawns", s.Despawns,
		"volleys", s.Volleys,
		"balls_fired", s.BallsFired,
		"impacts", s.Impacts,
		"kills", s.Kills,
		"damage_dealt", s.DamageDealt,
		"hit_rate", s.HitRate,
		"loot_collected", s.LootCollected,
		"gold_collected", s.GoldCollected,
		"respawns", s.Respawns,
		"regenerations", s.Regenerations,
		"health_mean", s.HealthMean,
		"health_p50", s.HealthP50,
		"speed_mean", s.SpeedMean,
		"player_health", s.PlayerHealth,
		"player_gold", s.PlayerGold,
		"player_deaths", s.PlayerDeaths,
		"wind_dir", s.WindDir,
		"wind_strength", s.WindStrength,
	)
}
