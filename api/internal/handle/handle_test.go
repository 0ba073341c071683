package handle

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"caloriecam/api/internal/estimate"
	"caloriecam/api/internal/vision"
)

type fakeEngine struct {
	est estimate.Estimate
	err error
}

func (f *fakeEngine) Name() string     { return "fake" }
func (f *fakeEngine) GetModel() string { return "fake-model" }
func (f *fakeEngine) Estimate(ctx context.Context, image []byte, mime, variant string) (estimate.Estimate, error) {
	return f.est, f.err
}

func estimateBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(EstimateRequest{
		Engine:   "gemini",
		Variant:  "flash",
		ImageB64: base64.StdEncoding.EncodeToString([]byte{0xFF, 0xD8, 0xFF, 0x01}),
	})
	if err != nil {
		t.Fatal(err)
	}
	return bytes.NewBuffer(body)
}

func TestEstimateHandler(t *testing.T) {
	eng := &fakeEngine{est: estimate.Estimate{
		Version:        estimate.Version,
		ModelID:        "fake-model",
		MealConfidence: estimate.ConfidenceHigh,
		TotalKcal:      500,
		Items: []estimate.FoodItem{
			{Name: "Pasta", Kcal: 400, Confidence: 0.8},
			{Name: "Crumbs", Kcal: 100, Confidence: 0.1},
		},
	}}
	h := New(&vision.Engines{Gemini: eng}, nil, 0.35)

	req := httptest.NewRequest(http.MethodPost, "/v1/estimate", estimateBody(t))
	rec := httptest.NewRecorder()
	h.Estimate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp EstimateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Estimate.TotalKcal != 500 || len(resp.Derived.Items) != 2 {
		t.Errorf("response: %+v", resp)
	}
	if resp.Derived.Items[1].Included {
		t.Error("low-confidence item should start excluded")
	}
	if resp.Derived.ItemTotal != 400 {
		t.Errorf("item total: %d", resp.Derived.ItemTotal)
	}
}

func TestEstimateHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"timeout", vision.NewError(vision.CodeTimeout, errors.New("deadline")), http.StatusGatewayTimeout, "TIMEOUT"},
		{"missing key", &vision.Error{Code: vision.CodeMissingKey}, http.StatusBadRequest, "MISSING_API_KEY"},
		{"schema", vision.NewError(vision.CodeSchema, errors.New("bad json")), http.StatusBadGateway, "SCHEMA"},
		{"http", &vision.Error{Code: vision.CodeHTTP, Status: 503}, http.StatusBadGateway, "HTTP"},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(&vision.Engines{Gemini: &fakeEngine{err: tt.err}}, nil, 0.35)
			req := httptest.NewRequest(http.MethodPost, "/v1/estimate", estimateBody(t))
			rec := httptest.NewRecorder()
			h.Estimate(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status %d, want %d", rec.Code, tt.wantStatus)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("body: %s", rec.Body.String())
			}
			if body["code"] != tt.wantCode {
				t.Errorf("code %q, want %q", body["code"], tt.wantCode)
			}
			if body["message"] == "" {
				t.Error("empty user message")
			}
		})
	}
}

func TestEstimateHandlerBadRequests(t *testing.T) {
	h := New(&vision.Engines{Gemini: &fakeEngine{}}, nil, 0.35)

	req := httptest.NewRequest(http.MethodPost, "/v1/estimate", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	h.Estimate(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad json: status %d", rec.Code)
	}

	body, _ := json.Marshal(EstimateRequest{Engine: "gemini", ImageB64: "!!"})
	req = httptest.NewRequest(http.MethodPost, "/v1/estimate", bytes.NewBuffer(body))
	rec = httptest.NewRecorder()
	h.Estimate(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad image: status %d", rec.Code)
	}

	body, _ = json.Marshal(EstimateRequest{Engine: "deepseek", ImageB64: base64.StdEncoding.EncodeToString([]byte{1})})
	req = httptest.NewRequest(http.MethodPost, "/v1/estimate", bytes.NewBuffer(body))
	rec = httptest.NewRecorder()
	h.Estimate(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown engine: status %d", rec.Code)
	}
}
