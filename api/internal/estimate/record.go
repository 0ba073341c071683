package estimate

// MealRecord is the persisted shape of one reviewed meal. It round-trips the
// derived estimation losslessly: inclusion flags and edits are authoritative
// when a record is rehydrated, with no threshold re-gating.
type MealRecord struct {
	ID             string        `json:"id"`
	CreatedAt      int64         `json:"createdAt"` // unix milliseconds
	MealConfidence Confidence    `json:"mealConfidence"`
	Items          []DisplayItem `json:"items"`
	ItemTotal      int           `json:"itemTotal"`
	ModelTotal     int           `json:"modelTotal"`
	ShowBoxes      bool          `json:"showBoxes"`
}
