package gemini

import "github.com/google/generative-ai-go/genai"

// responseSchema mirrors the validated estimate shape. The model is forced to
// emit JSON matching it; the validator in the estimate package stays the
// authority on what is actually accepted.
var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"version": {Type: genai.TypeString, Enum: []string{"1.1"}},
		// Any non-empty id is fine; the engine runs several model variants.
		"model_id": {Type: genai.TypeString},
		"meal_confidence": {
			Type: genai.TypeString,
			Enum: []string{"very-low", "low", "medium", "high", "very-high"},
		},
		"total_kcal": {Type: genai.TypeInteger},
		"items": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":            {Type: genai.TypeString},
					"kcal":            {Type: genai.TypeInteger},
					"confidence":      {Type: genai.TypeNumber},
					"estimated_grams": {Type: genai.TypeInteger},
					"used_scale_ref":  {Type: genai.TypeBoolean},
					"scale_ref": {
						Type: genai.TypeString,
						Enum: []string{"fork", "spoon", "credit_card", "plate", "chopsticks", "other"},
					},
					"bbox_1000": {
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"x": {Type: genai.TypeInteger},
							"y": {Type: genai.TypeInteger},
							"w": {Type: genai.TypeInteger},
							"h": {Type: genai.TypeInteger},
						},
					},
					"notes": {Type: genai.TypeString},
				},
				Required: []string{"name", "kcal", "confidence"},
			},
		},
	},
	Required: []string{"version", "model_id", "meal_confidence", "total_kcal", "items"},
}
