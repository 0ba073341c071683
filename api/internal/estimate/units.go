package estimate

import (
	"fmt"
	"math"
)

const kcalToKJ = 4.184

// ConvertEnergy converts a kcal value into the requested display unit,
// rounded to the nearest integer. Supported units: "kcal", "kJ".
func ConvertEnergy(kcal float64, units string) (int, error) {
	if math.IsNaN(kcal) || math.IsInf(kcal, 0) {
		return 0, fmt.Errorf("kcal must be finite")
	}
	switch units {
	case "kcal":
		return int(math.Round(kcal)), nil
	case "kJ":
		return int(math.Round(kcal * kcalToKJ)), nil
	}
	return 0, fmt.Errorf("unsupported units: %q", units)
}

// FormatEnergy renders a kcal value with its unit suffix.
func FormatEnergy(kcal float64, units string) (string, error) {
	v, err := ConvertEnergy(kcal, units)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d %s", v, units), nil
}
