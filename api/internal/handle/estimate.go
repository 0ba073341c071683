package handle

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"caloriecam/api/internal/estimate"
	"caloriecam/api/internal/util"

	"github.com/google/uuid"
)

type EstimateRequest struct {
	Engine   string `json:"engine"`
	Variant  string `json:"variant"`
	ImageB64 string `json:"image_b64"`
	MIMEType string `json:"mime_type"`
}

type EstimateResponse struct {
	Estimate estimate.Estimate `json:"estimate"`
	Derived  estimate.Derived  `json:"derived"`
}

// Estimate runs one photo through the selected engine and returns the
// validated estimate together with the initially derived view (items gated
// by the confidence threshold, range, totals note).
func (h *Handle) Estimate(w http.ResponseWriter, r *http.Request) {
	var req EstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
		return
	}

	img, hintMIME, err := util.DecodeBase64MaybeDataURL(req.ImageB64)
	if err != nil || len(img) == 0 {
		http.Error(w, "bad image_b64", http.StatusBadRequest)
		return
	}
	mime := util.PickMIME(req.MIMEType, hintMIME, img)

	engine, err := h.engs.GetEngine(req.Engine)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 120*time.Second)
	defer cancel()

	est, err := engine.Estimate(ctx, img, mime, req.Variant)
	if err != nil {
		writeEstimationError(w, err)
		return
	}

	items := estimate.PrepareItems(est.Items, h.threshold, uuid.NewString)
	derived, err := estimate.Derive(items, est.TotalKcal, est.MealConfidence)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, EstimateResponse{Estimate: est, Derived: derived})
}
