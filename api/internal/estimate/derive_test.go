package estimate

import (
	"fmt"
	"testing"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("item-%d", n)
	}
}

func TestPrepareItemsThresholdGate(t *testing.T) {
	items := []FoodItem{
		{Name: "Soup", Kcal: 150, Confidence: 0.35},
		{Name: "Garnish", Kcal: 20, Confidence: 0.34},
		{Name: "Bread", Kcal: 120, Confidence: 0.9},
	}
	got := PrepareItems(items, 0.35, sequentialIDs())
	if len(got) != 3 {
		t.Fatalf("len = %d", len(got))
	}
	if !got[0].Included { // exactly at threshold counts as included
		t.Error("soup at threshold should be included")
	}
	if got[1].Included {
		t.Error("garnish below threshold should be excluded")
	}
	if !got[2].Included {
		t.Error("bread above threshold should be included")
	}
	if got[0].ID == got[1].ID || got[0].ID == "" {
		t.Errorf("ids not unique: %q %q", got[0].ID, got[1].ID)
	}
	if got[0].EditedKcal != nil || got[0].OriginalKcal != 150 {
		t.Errorf("fresh item state: %+v", got[0])
	}
}

func TestItemTotal(t *testing.T) {
	edited := 250
	items := []DisplayItem{
		{OriginalKcal: 100, Included: true},
		{OriginalKcal: 400, EditedKcal: &edited, Included: true},
		{OriginalKcal: 999, Included: false},
	}
	if got := ItemTotal(items); got != 350 {
		t.Errorf("ItemTotal = %d, want 350", got)
	}
	if got := ItemTotal(nil); got != 0 {
		t.Errorf("ItemTotal(nil) = %d, want 0", got)
	}
}

func TestDeriveUsesItemSumForRange(t *testing.T) {
	items := []DisplayItem{
		{OriginalKcal: 300, Included: true},
		{OriginalKcal: 100, Included: true},
	}
	d, err := Derive(items, 500, ConfidenceHigh)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if d.ItemTotal != 400 || d.ModelTotal != 500 {
		t.Errorf("totals: %+v", d)
	}
	// Range is anchored on the item sum, not the model total.
	if d.Range != (Range{340, 460, 0.15}) {
		t.Errorf("range: %+v", d.Range)
	}
	if !d.TotalsNote.ShowNote {
		t.Error("20%% divergence should surface a note")
	}
}

func TestDeriveModelTotalFallback(t *testing.T) {
	items := []DisplayItem{{OriginalKcal: 200, Included: true}}
	d, err := Derive(items, -1, ConfidenceMedium)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if d.ModelTotal != 200 {
		t.Errorf("model total fallback: %d", d.ModelTotal)
	}
	if d.TotalsNote.ShowNote {
		t.Error("fallback total should never diverge from item sum")
	}
}

func TestDeriveRejectsBadConfidence(t *testing.T) {
	if _, err := Derive(nil, 0, Confidence("certain")); err == nil {
		t.Error("unknown confidence accepted")
	}
}
