package estimate

// Version is the only response schema revision this build understands.
const Version = "1.1"

// Confidence — qualitative certainty of the whole-meal estimate.
type Confidence string

const (
	ConfidenceVeryLow  Confidence = "very-low"
	ConfidenceLow      Confidence = "low"
	ConfidenceMedium   Confidence = "medium"
	ConfidenceHigh     Confidence = "high"
	ConfidenceVeryHigh Confidence = "very-high"
)

func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceVeryLow, ConfidenceLow, ConfidenceMedium, ConfidenceHigh, ConfidenceVeryHigh:
		return true
	}
	return false
}

// ScaleRef — real-world object the model used to judge portion size.
type ScaleRef string

const (
	ScaleFork       ScaleRef = "fork"
	ScaleSpoon      ScaleRef = "spoon"
	ScaleCreditCard ScaleRef = "credit_card"
	ScalePlate      ScaleRef = "plate"
	ScaleChopsticks ScaleRef = "chopsticks"
	ScaleOther      ScaleRef = "other"
)

func (s ScaleRef) Valid() bool {
	switch s {
	case ScaleFork, ScaleSpoon, ScaleCreditCard, ScalePlate, ScaleChopsticks, ScaleOther:
		return true
	}
	return false
}

// Rect is a bounding box in the normalized 0..1000 coordinate space.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// FoodItem is one detected food item of a validated estimate.
type FoodItem struct {
	Name           string    `json:"name"`
	Kcal           int       `json:"kcal"`
	Confidence     float64   `json:"confidence"`
	EstimatedGrams *int      `json:"estimated_grams"`
	UsedScaleRef   bool      `json:"used_scale_ref"`
	ScaleRef       *ScaleRef `json:"scale_ref"`
	BBox           *Rect     `json:"bbox_1000"`
	Notes          *string   `json:"notes"`
}

// Estimate is the canonical calorie estimate for one meal photo.
// Instances only come out of Parse and are fully validated.
type Estimate struct {
	Version        string     `json:"version"`
	ModelID        string     `json:"model_id"`
	MealConfidence Confidence `json:"meal_confidence"`
	TotalKcal      int        `json:"total_kcal"`
	Items          []FoodItem `json:"items"`
}
