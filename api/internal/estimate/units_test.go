package estimate

import (
	"math"
	"testing"
)

func TestConvertEnergy(t *testing.T) {
	tests := []struct {
		kcal  float64
		units string
		want  int
	}{
		{500, "kcal", 500},
		{500.4, "kcal", 500},
		{500.5, "kcal", 501},
		{100, "kJ", 418},  // 418.4
		{250, "kJ", 1046}, // 1046.0
		{0, "kJ", 0},
	}
	for _, tt := range tests {
		got, err := ConvertEnergy(tt.kcal, tt.units)
		if err != nil {
			t.Fatalf("ConvertEnergy(%v, %s): %v", tt.kcal, tt.units, err)
		}
		if got != tt.want {
			t.Errorf("ConvertEnergy(%v, %s) = %d, want %d", tt.kcal, tt.units, got, tt.want)
		}
	}
}

func TestConvertEnergyErrors(t *testing.T) {
	if _, err := ConvertEnergy(100, "cal"); err == nil {
		t.Error("unknown unit accepted")
	}
	if _, err := ConvertEnergy(math.NaN(), "kcal"); err == nil {
		t.Error("NaN accepted")
	}
}

func TestFormatEnergy(t *testing.T) {
	got, err := FormatEnergy(100, "kJ")
	if err != nil {
		t.Fatalf("FormatEnergy: %v", err)
	}
	if got != "418 kJ" {
		t.Errorf("got %q", got)
	}
}
