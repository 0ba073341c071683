package estimate

import (
	"errors"
	"strings"
	"testing"
)

func TestParseValid(t *testing.T) {
	raw := []byte(`{
		"version": "1.1",
		"model_id": "gemini-2.5-flash",
		"meal_confidence": "HIGH",
		"total_kcal": 500,
		"items": [
			{"name": "Pasta", "kcal": 400, "confidence": 0.8},
			{
				"name": "Salad",
				"kcal": 100,
				"confidence": 0.6,
				"estimated_grams": 150,
				"used_scale_ref": true,
				"scale_ref": "fork",
				"bbox_1000": {"x": 10, "y": 20, "w": 100, "h": 200},
				"notes": "dressing on the side"
			}
		]
	}`)

	est, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if est.Version != "1.1" || est.ModelID != "gemini-2.5-flash" {
		t.Errorf("header fields: %+v", est)
	}
	if est.MealConfidence != ConfidenceHigh {
		t.Errorf("meal_confidence not lowered: %q", est.MealConfidence)
	}
	if est.TotalKcal != 500 || len(est.Items) != 2 {
		t.Fatalf("total=%d items=%d", est.TotalKcal, len(est.Items))
	}

	pasta := est.Items[0]
	if pasta.Name != "Pasta" || pasta.Kcal != 400 || pasta.Confidence != 0.8 {
		t.Errorf("pasta: %+v", pasta)
	}
	if pasta.EstimatedGrams != nil || pasta.UsedScaleRef || pasta.ScaleRef != nil || pasta.BBox != nil || pasta.Notes != nil {
		t.Errorf("pasta optionals should be absent: %+v", pasta)
	}

	salad := est.Items[1]
	if salad.EstimatedGrams == nil || *salad.EstimatedGrams != 150 {
		t.Errorf("salad grams: %+v", salad.EstimatedGrams)
	}
	if !salad.UsedScaleRef || salad.ScaleRef == nil || *salad.ScaleRef != ScaleFork {
		t.Errorf("salad scale ref: %+v", salad)
	}
	if salad.BBox == nil || *salad.BBox != (Rect{X: 10, Y: 20, W: 100, H: 200}) {
		t.Errorf("salad bbox: %+v", salad.BBox)
	}
	if salad.Notes == nil || *salad.Notes != "dressing on the side" {
		t.Errorf("salad notes: %+v", salad.Notes)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"not json", `{`, "not valid JSON"},
		{"not an object", `[1,2]`, "must be an object"},
		{"wrong version", `{"version":"1.0","model_id":"m","meal_confidence":"high","total_kcal":1,"items":[{"name":"a","kcal":1,"confidence":0.5}]}`, "version"},
		{"missing model id", `{"version":"1.1","meal_confidence":"high","total_kcal":1,"items":[{"name":"a","kcal":1,"confidence":0.5}]}`, "model_id"},
		{"blank model id", `{"version":"1.1","model_id":"  ","meal_confidence":"high","total_kcal":1,"items":[{"name":"a","kcal":1,"confidence":0.5}]}`, "model_id"},
		{"bad confidence level", `{"version":"1.1","model_id":"m","meal_confidence":"certain","total_kcal":1,"items":[{"name":"a","kcal":1,"confidence":0.5}]}`, "meal_confidence"},
		{"fractional total", `{"version":"1.1","model_id":"m","meal_confidence":"high","total_kcal":1.5,"items":[{"name":"a","kcal":1,"confidence":0.5}]}`, "total_kcal"},
		{"negative total", `{"version":"1.1","model_id":"m","meal_confidence":"high","total_kcal":-1,"items":[{"name":"a","kcal":1,"confidence":0.5}]}`, "total_kcal"},
		{"missing items", `{"version":"1.1","model_id":"m","meal_confidence":"high","total_kcal":1}`, "items"},
		{"empty items", `{"version":"1.1","model_id":"m","meal_confidence":"high","total_kcal":1,"items":[]}`, "items"},
		{"item not object", `{"version":"1.1","model_id":"m","meal_confidence":"high","total_kcal":1,"items":[5]}`, "items[0]"},
		{"item blank name", `{"version":"1.1","model_id":"m","meal_confidence":"high","total_kcal":1,"items":[{"name":" ","kcal":1,"confidence":0.5}]}`, "name"},
		{"item kcal string", `{"version":"1.1","model_id":"m","meal_confidence":"high","total_kcal":1,"items":[{"name":"a","kcal":"1","confidence":0.5}]}`, "kcal"},
		{"item confidence above one", `{"version":"1.1","model_id":"m","meal_confidence":"high","total_kcal":1,"items":[{"name":"a","kcal":1,"confidence":1.2}]}`, "confidence"},
		{"item grams fractional", `{"version":"1.1","model_id":"m","meal_confidence":"high","total_kcal":1,"items":[{"name":"a","kcal":1,"confidence":0.5,"estimated_grams":1.5}]}`, "estimated_grams"},
		{"scale ref missing when used", `{"version":"1.1","model_id":"m","meal_confidence":"high","total_kcal":1,"items":[{"name":"a","kcal":1,"confidence":0.5,"used_scale_ref":true}]}`, "scale_ref"},
		{"scale ref unknown", `{"version":"1.1","model_id":"m","meal_confidence":"high","total_kcal":1,"items":[{"name":"a","kcal":1,"confidence":0.5,"used_scale_ref":true,"scale_ref":"ruler"}]}`, "scale_ref"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestParseSecondItemErrorIsIndexed(t *testing.T) {
	raw := `{"version":"1.1","model_id":"m","meal_confidence":"high","total_kcal":1,
		"items":[{"name":"a","kcal":1,"confidence":0.5},{"name":"b","kcal":-2,"confidence":0.5}]}`
	_, err := Parse([]byte(raw))
	if err == nil || !strings.Contains(err.Error(), "items[1]") {
		t.Fatalf("want items[1] in error, got %v", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want ValidationError in chain, got %T", err)
	}
	if ve.Field != "kcal" {
		t.Errorf("field = %q, want kcal", ve.Field)
	}
}

func TestParseDropsStrayScaleRef(t *testing.T) {
	raw := `{"version":"1.1","model_id":"m","meal_confidence":"high","total_kcal":1,
		"items":[{"name":"a","kcal":1,"confidence":0.5,"used_scale_ref":false,"scale_ref":"fork"}]}`
	est, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if est.Items[0].UsedScaleRef || est.Items[0].ScaleRef != nil {
		t.Errorf("stray scale_ref kept: %+v", est.Items[0])
	}
}
