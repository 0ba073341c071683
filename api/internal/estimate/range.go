package estimate

import (
	"fmt"
	"math"
	"strings"
)

// rangePct maps a meal confidence level to the half-width of the displayed
// calorie range, as a fraction of the total.
var rangePct = map[Confidence]float64{
	ConfidenceVeryHigh: 0.10,
	ConfidenceHigh:     0.15,
	ConfidenceMedium:   0.25,
	ConfidenceLow:      0.35,
	ConfidenceVeryLow:  0.40,
}

// Range is the uncertainty band around a calorie total.
type Range struct {
	Lower      int     `json:"lower"`
	Upper      int     `json:"upper"`
	Percentage float64 `json:"percentage"`
}

// ConfidenceRange turns a qualitative confidence level into a numeric kcal
// band around totalKcal. The level is matched case-insensitively.
func ConfidenceRange(totalKcal int, level string) (Range, error) {
	if totalKcal < 0 {
		return Range{}, fmt.Errorf("total kcal must be non-negative, got %d", totalKcal)
	}
	pct, ok := rangePct[Confidence(strings.ToLower(level))]
	if !ok {
		return Range{}, fmt.Errorf("unsupported confidence level: %q", level)
	}
	delta := int(math.Round(float64(totalKcal) * pct))
	lower := totalKcal - delta
	if lower < 0 {
		lower = 0
	}
	return Range{Lower: lower, Upper: totalKcal + delta, Percentage: pct}, nil
}
