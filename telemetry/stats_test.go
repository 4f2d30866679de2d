package telemetry

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		wantMean float64
		wantStd  float64
		wantP50  float64
	}{
		{"empty", nil, 0, 0, 0},
		{"single", []float64{5}, 5, 0, 5},
		{"odd", []float64{5, 1, 3, 2, 4}, 3, math.Sqrt(2.5), 3},
		{"constant", []float64{2, 2, 2, 2}, 2, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summarize(tt.values)
			if s.N != len(tt.values) {
				t.Errorf("N = %d, want %d", s.N, len(tt.values))
			}
			if math.Abs(s.Mean-tt.wantMean) > 1e-9 {
				t.Errorf("Mean = %v, want %v", s.Mean, tt.wantMean)
			}
			if math.Abs(s.Std-tt.wantStd) > 1e-9 {
				t.Errorf("Std = %v, want %v", s.Std, tt.wantStd)
			}
			if math.Abs(s.P50-tt.wantP50) > 1e-9 {
				t.Errorf("P50 = %v, want %v", s.P50, tt.wantP50)
			}
		})
	}
}

func TestSummarizeQuantileOrder(t *testing.T) {
	values := []float64{9, 1, 7, 3, 5, 2, 8, 4, 6, 10, 11, 0}
	s := Summarize(values)

	if !(s.P10 <= s.P50 && s.P50 <= s.P90) {
		t.Errorf("quantiles out of order: %v %v %v", s.P10, s.P50, s.P90)
	}
	if values[0] != 9 {
		t.Error("Summarize modified its input")
	}
}
