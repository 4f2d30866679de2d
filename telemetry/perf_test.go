package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseLattice)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseMovement)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if stats.Avg(PhaseLattice) <= 0 || stats.Avg(PhaseMovement) <= 0 {
		t.Error("expected timed phases to be tracked")
	}
	if stats.Avg(PhaseBallistics) != 0 {
		t.Error("untimed phase should average zero")
	}
	if stats.MinTickDuration > stats.MaxTickDuration {
		t.Errorf("min %v > max %v", stats.MinTickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseTerrain)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseCamera)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseBehavior)
		time.Sleep(2 * time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.PhasePct[PhaseBehavior] <= stats.PhasePct[PhaseCamera] {
		t.Errorf("expected behavior (%v%%) > camera (%v%%)",
			stats.PhasePct[PhaseBehavior], stats.PhasePct[PhaseCamera])
	}

	rec := stats.ToCSV(600)
	if rec.WindowEnd != 600 || rec.BehaviorPct != stats.PhasePct[PhaseBehavior] {
		t.Errorf("ToCSV = %+v", rec)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()
	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Errorf("expected zero stats for empty collector, got %+v", stats)
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseCompaction.String() != "compaction" {
		t.Errorf("PhaseCompaction = %q", PhaseCompaction.String())
	}
	if Phase(99).String() != "unknown" {
		t.Errorf("Phase(99) = %q", Phase(99).String())
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("expected FPS in (0,70] with 16ms frame time, got %v", stats.FPS)
	}
}
