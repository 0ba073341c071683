package estimate

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Parse validates raw provider JSON and returns the canonical estimate.
// Validation is atomic: the first offending field aborts the whole parse and
// no partially populated Estimate is ever returned.
func Parse(raw []byte) (Estimate, error) {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Estimate{}, &ValidationError{Msg: fmt.Sprintf("response is not valid JSON: %v", err)}
	}
	return ParseObject(payload)
}

// ParseObject validates an already decoded JSON value.
func ParseObject(payload any) (Estimate, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return Estimate{}, &ValidationError{Msg: "response must be an object"}
	}

	version, ok := obj["version"].(string)
	if !ok || version != Version {
		return Estimate{}, invalid("version", "must be %q", Version)
	}

	modelID, ok := obj["model_id"].(string)
	if !ok || strings.TrimSpace(modelID) == "" {
		return Estimate{}, invalid("model_id", "must be a non-empty string")
	}

	rawConf, _ := obj["meal_confidence"].(string)
	mealConfidence := Confidence(strings.ToLower(rawConf))
	if !mealConfidence.Valid() {
		return Estimate{}, invalid("meal_confidence", "must be one of very-low|low|medium|high|very-high")
	}

	totalKcal, ok := nonNegativeInt(obj["total_kcal"])
	if !ok {
		return Estimate{}, invalid("total_kcal", "must be a non-negative integer")
	}

	rawItems, ok := obj["items"].([]any)
	if !ok || len(rawItems) == 0 {
		return Estimate{}, invalid("items", "must be a non-empty array")
	}

	items := make([]FoodItem, 0, len(rawItems))
	for i, rawItem := range rawItems {
		item, err := parseItem(rawItem)
		if err != nil {
			return Estimate{}, fmt.Errorf("items[%d]: %w", i, err)
		}
		items = append(items, item)
	}

	return Estimate{
		Version:        version,
		ModelID:        modelID,
		MealConfidence: mealConfidence,
		TotalKcal:      totalKcal,
		Items:          items,
	}, nil
}

func parseItem(raw any) (FoodItem, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return FoodItem{}, &ValidationError{Msg: "must be an object"}
	}

	name, _ := obj["name"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return FoodItem{}, invalid("name", "must be a non-empty string")
	}

	kcal, ok := nonNegativeInt(obj["kcal"])
	if !ok {
		return FoodItem{}, invalid("kcal", "must be a non-negative integer")
	}

	confidence, ok := obj["confidence"].(float64)
	if !ok || confidence < 0 || confidence > 1 {
		return FoodItem{}, invalid("confidence", "must be a number between 0 and 1")
	}

	var estimatedGrams *int
	if v, present := obj["estimated_grams"]; present && v != nil {
		g, ok := nonNegativeInt(v)
		if !ok {
			return FoodItem{}, invalid("estimated_grams", "must be a non-negative integer")
		}
		estimatedGrams = &g
	}

	usedScaleRef := truthy(obj["used_scale_ref"])
	var scaleRef *ScaleRef
	if usedScaleRef {
		s, _ := obj["scale_ref"].(string)
		ref := ScaleRef(s)
		if !ref.Valid() {
			return FoodItem{}, invalid("scale_ref", "must be known when used_scale_ref is true")
		}
		scaleRef = &ref
	}
	// A stray scale_ref with used_scale_ref=false is dropped on purpose: the
	// flag is authoritative.

	bbox, err := NormalizeBox(obj["bbox_1000"])
	if err != nil {
		return FoodItem{}, err
	}

	var notes *string
	if v, present := obj["notes"]; present && v != nil {
		s := fmt.Sprint(v)
		notes = &s
	}

	return FoodItem{
		Name:           name,
		Kcal:           kcal,
		Confidence:     confidence,
		EstimatedGrams: estimatedGrams,
		UsedScaleRef:   usedScaleRef,
		ScaleRef:       scaleRef,
		BBox:           bbox,
		Notes:          notes,
	}, nil
}

func nonNegativeInt(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) || f < 0 {
		return 0, false
	}
	return int(f), true
}

func truthy(v any) bool {
	b, ok := v.(bool)
	return ok && b
}
