package handle

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"caloriecam/api/internal/estimate"
	"caloriecam/api/internal/store"
	"caloriecam/api/internal/util"
)

type SaveMealRequest struct {
	Record        estimate.MealRecord `json:"record"`
	NormalizedB64 string              `json:"normalized_b64,omitempty"`
	ThumbB64      string              `json:"thumb_b64,omitempty"`
	MIMEType      string              `json:"mime_type,omitempty"`
}

func (h *Handle) SaveMeal(w http.ResponseWriter, r *http.Request) {
	var req SaveMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
		return
	}

	var imgs *store.Images
	if req.NormalizedB64 != "" || req.ThumbB64 != "" {
		normalized, hint, err := decodeOptional(req.NormalizedB64)
		if err != nil {
			http.Error(w, "bad normalized_b64", http.StatusBadRequest)
			return
		}
		thumb, _, err := decodeOptional(req.ThumbB64)
		if err != nil {
			http.Error(w, "bad thumb_b64", http.StatusBadRequest)
			return
		}
		imgs = &store.Images{
			Normalized: normalized,
			Thumb:      thumb,
			MIME:       util.PickMIME(req.MIMEType, hint, normalized),
		}
	}

	id, err := h.repo.Save(r.Context(), req.Record, imgs)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handle) ListMeals(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.List(r.Context())
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if records == nil {
		records = []estimate.MealRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

type MealResponse struct {
	Record        estimate.MealRecord `json:"record"`
	NormalizedB64 string              `json:"normalized_b64,omitempty"`
	ThumbB64      string              `json:"thumb_b64,omitempty"`
	MIMEType      string              `json:"mime_type,omitempty"`
}

func (h *Handle) GetMeal(w http.ResponseWriter, r *http.Request) {
	rec, imgs, err := h.repo.Load(r.Context(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	resp := MealResponse{Record: *rec}
	if imgs != nil {
		resp.NormalizedB64 = base64.StdEncoding.EncodeToString(imgs.Normalized)
		resp.ThumbB64 = base64.StdEncoding.EncodeToString(imgs.Thumb)
		resp.MIMEType = imgs.MIME
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handle) DeleteMeal(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MealCSV exports one saved meal as CSV for download.
func (h *Handle) MealCSV(w http.ResponseWriter, r *http.Request) {
	rec, _, err := h.repo.Load(r.Context(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	csv, err := estimate.MealCSV(*rec)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="meal-`+rec.ID+`.csv"`)
	_, _ = w.Write([]byte(csv))
}

func decodeOptional(b64 string) ([]byte, string, error) {
	if b64 == "" {
		return nil, "", nil
	}
	return util.DecodeBase64MaybeDataURL(b64)
}
