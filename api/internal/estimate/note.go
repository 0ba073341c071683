package estimate

import "fmt"

// TotalsNote tells the UI whether to explain a divergence between the item
// sum and the model-reported total.
type TotalsNote struct {
	ShowNote bool   `json:"showNote"`
	Message  string `json:"message,omitempty"`
}

// BuildTotalsNote compares the (possibly edited) item sum against the model
// total. Within 10% relative difference the note stays hidden; beyond that
// both numbers are surfaced verbatim so users see why the displayed total
// differs from the model's.
func BuildTotalsNote(itemTotal, modelTotal int) (TotalsNote, error) {
	if itemTotal < 0 {
		return TotalsNote{}, fmt.Errorf("item total must be non-negative, got %d", itemTotal)
	}
	if modelTotal < 0 {
		return TotalsNote{}, fmt.Errorf("model total must be non-negative, got %d", modelTotal)
	}
	if modelTotal == 0 {
		return TotalsNote{}, nil
	}
	diff := float64(abs(itemTotal-modelTotal)) / float64(modelTotal)
	if diff <= 0.1 {
		return TotalsNote{}, nil
	}
	return TotalsNote{
		ShowNote: true,
		Message:  fmt.Sprintf("Using item sum (%d kcal); model total was %d kcal.", itemTotal, modelTotal),
	}, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
