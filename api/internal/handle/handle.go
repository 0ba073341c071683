package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"caloriecam/api/internal/store"
	"caloriecam/api/internal/vision"
)

type Handle struct {
	engs      *vision.Engines
	repo      *store.MealRepo
	threshold float64
}

func New(engs *vision.Engines, repo *store.MealRepo, threshold float64) *Handle {
	return &Handle{
		engs:      engs,
		repo:      repo,
		threshold: threshold,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeEstimationError maps the engine error taxonomy onto HTTP statuses and
// a stable machine-readable code, with a user-safe message.
func writeEstimationError(w http.ResponseWriter, err error) {
	code := vision.CodeOf(err)
	status := http.StatusBadGateway
	switch code {
	case vision.CodeMissingImage, vision.CodeMissingKey:
		status = http.StatusBadRequest
	case vision.CodeTimeout:
		status = http.StatusGatewayTimeout
	case "":
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, map[string]string{
		"code":    string(code),
		"message": vision.UserMessage(err),
	})
}

func writeRepoError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "meal not found"})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
