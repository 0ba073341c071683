package estimate

// DisplayItem is a FoodItem augmented with per-session editing state. Its
// lifecycle is bound to one estimation session; a new estimate or a capture
// reset replaces the whole collection.
type DisplayItem struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	OriginalKcal   int       `json:"originalKcal"`
	EditedKcal     *int      `json:"editedKcal"`
	Included       bool      `json:"included"`
	Confidence     float64   `json:"confidence"`
	EstimatedGrams *int      `json:"estimatedGrams"`
	UsedScaleRef   bool      `json:"usedScaleRef"`
	ScaleRef       *ScaleRef `json:"scaleRef"`
	BBox           *Rect     `json:"bbox"`
	Notes          *string   `json:"notes"`
}

// KcalValue returns the user override when present, the model value otherwise.
func (it DisplayItem) KcalValue() int {
	if it.EditedKcal != nil {
		return *it.EditedKcal
	}
	return it.OriginalKcal
}

// Derived is the always-consistent summary shown to the user. It is
// recomputed in full whenever items or the inclusion threshold change; no
// field of it is ever patched in isolation.
type Derived struct {
	MealConfidence Confidence    `json:"mealConfidence"`
	Items          []DisplayItem `json:"items"`
	ItemTotal      int           `json:"itemTotal"`
	ModelTotal     int           `json:"modelTotal"`
	Range          Range         `json:"range"`
	TotalsNote     TotalsNote    `json:"totalsNote"`
}

// PrepareItems builds the editable item collection from a validated estimate.
// Inclusion defaults from the confidence threshold gate; newID supplies the
// per-session identity.
func PrepareItems(items []FoodItem, threshold float64, newID func() string) []DisplayItem {
	out := make([]DisplayItem, 0, len(items))
	for _, item := range items {
		out = append(out, DisplayItem{
			ID:             newID(),
			Name:           item.Name,
			OriginalKcal:   item.Kcal,
			Included:       item.Confidence >= threshold,
			Confidence:     item.Confidence,
			EstimatedGrams: item.EstimatedGrams,
			UsedScaleRef:   item.UsedScaleRef,
			ScaleRef:       item.ScaleRef,
			BBox:           item.BBox,
			Notes:          item.Notes,
		})
	}
	return out
}

// ItemTotal sums the effective kcal of all included items.
func ItemTotal(items []DisplayItem) int {
	total := 0
	for _, item := range items {
		if item.Included {
			total += item.KcalValue()
		}
	}
	return total
}

// Derive recomputes the displayed summary from scratch. The range is based on
// the sum of the (possibly edited) included items, not on the model total.
func Derive(items []DisplayItem, modelTotal int, mealConfidence Confidence) (Derived, error) {
	itemTotal := ItemTotal(items)
	if modelTotal < 0 {
		modelTotal = itemTotal
	}
	rng, err := ConfidenceRange(itemTotal, string(mealConfidence))
	if err != nil {
		return Derived{}, err
	}
	note, err := BuildTotalsNote(itemTotal, modelTotal)
	if err != nil {
		return Derived{}, err
	}
	return Derived{
		MealConfidence: mealConfidence,
		Items:          items,
		ItemTotal:      itemTotal,
		ModelTotal:     modelTotal,
		Range:          rng,
		TotalsNote:     note,
	}, nil
}
