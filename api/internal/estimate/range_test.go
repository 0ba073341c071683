package estimate

import "testing"

func TestConfidenceRange(t *testing.T) {
	tests := []struct {
		name  string
		total int
		level string
		want  Range
	}{
		{"very high", 600, "very-high", Range{540, 660, 0.10}},
		{"high", 600, "high", Range{510, 690, 0.15}},
		{"medium", 600, "medium", Range{450, 750, 0.25}},
		{"low", 600, "low", Range{390, 810, 0.35}},
		{"very low", 600, "very-low", Range{360, 840, 0.40}},
		{"case insensitive", 600, "HIGH", Range{510, 690, 0.15}},
		{"rounds delta", 333, "high", Range{283, 383, 0.15}}, // 333*0.15 = 49.95 -> 50
		{"zero total", 0, "low", Range{0, 0, 0.35}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConfidenceRange(tt.total, tt.level)
			if err != nil {
				t.Fatalf("ConfidenceRange: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestConfidenceRangeErrors(t *testing.T) {
	if _, err := ConfidenceRange(-1, "high"); err == nil {
		t.Error("negative total accepted")
	}
	if _, err := ConfidenceRange(100, "certain"); err == nil {
		t.Error("unknown level accepted")
	}
}

func TestConfidenceRangeLowerNeverNegative(t *testing.T) {
	for _, level := range []string{"very-low", "low", "medium", "high", "very-high"} {
		for total := 0; total <= 50; total++ {
			rng, err := ConfidenceRange(total, level)
			if err != nil {
				t.Fatalf("ConfidenceRange(%d, %s): %v", total, level, err)
			}
			if rng.Lower < 0 {
				t.Fatalf("lower %d for total=%d level=%s", rng.Lower, total, level)
			}
			if rng.Lower > total || rng.Upper < total {
				t.Fatalf("band %+v excludes total %d", rng, total)
			}
		}
	}
}
