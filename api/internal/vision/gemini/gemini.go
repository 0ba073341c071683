package gemini

import (
	"context"
	"errors"
	"strings"
	"time"

	"caloriecam/api/internal/estimate"
	"caloriecam/api/internal/util"
	"caloriecam/api/internal/vision"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const defaultTimeout = 15 * time.Second

// Output budgets for the two attempt phases. The retry gets a larger budget
// so a truncated JSON body can complete.
const (
	firstAttemptTokens    = 3072
	truncationRetryTokens = 4096
)

var modelIDs = map[string]string{
	"flash": "gemini-2.5-flash",
	"pro":   "gemini-2.5-pro",
}

type Engine struct {
	APIKey  string
	Model   string
	Timeout time.Duration

	// clientOpts are appended to the API client options; tests use them to
	// point the client at a local server.
	clientOpts []option.ClientOption
}

func New(apiKey, model string) *Engine {
	return &Engine{
		APIKey:  strings.TrimSpace(apiKey),
		Model:   strings.TrimSpace(model),
		Timeout: defaultTimeout,
	}
}

func (e *Engine) Name() string     { return "gemini" }
func (e *Engine) GetModel() string { return e.Model }

func (e *Engine) modelFor(variant string) string {
	if id, ok := modelIDs[strings.ToLower(strings.TrimSpace(variant))]; ok {
		return id
	}
	if e.Model != "" {
		return e.Model
	}
	return modelIDs["flash"]
}

// Estimate submits one meal photo and returns the validated estimate.
// Retry policy: exactly one automatic retry, and only for the truncation
// symptom (no usable text plus MAX_TOKENS or no finish reason at all). Every
// other failure propagates immediately with its classification.
func (e *Engine) Estimate(ctx context.Context, image []byte, mime string, variant string) (estimate.Estimate, error) {
	if len(image) == 0 {
		return estimate.Estimate{}, &vision.Error{Code: vision.CodeMissingImage}
	}
	if e.APIKey == "" {
		return estimate.Estimate{}, &vision.Error{Code: vision.CodeMissingKey}
	}

	opts := append([]option.ClientOption{option.WithAPIKey(e.APIKey)}, e.clientOpts...)
	cl, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return estimate.Estimate{}, vision.NewError(vision.CodeNetwork, err)
	}
	defer cl.Close()

	model := e.modelFor(variant)
	mime = util.PickMIME(mime, "", image)

	phase := phaseFirstAttempt
	budget := int32(firstAttemptTokens)
	for {
		est, fail := e.attempt(ctx, cl, model, image, mime, budget)
		if fail == nil {
			return est, nil
		}
		if shouldRetryTruncation(phase, fail) {
			phase = phaseTruncationRetry
			budget = truncationRetryTokens
			continue
		}
		return estimate.Estimate{}, fail.err
	}
}

type phase int

const (
	phaseFirstAttempt phase = iota
	phaseTruncationRetry
)

// attemptFailure carries the classification plus the finish reason needed
// for the retry decision.
type attemptFailure struct {
	err    *vision.Error
	finish genai.FinishReason
}

// shouldRetryTruncation is the whole retry policy: eligible only out of the
// first attempt, only when the reply was empty because the output budget ran
// out (or the provider gave no reason).
func shouldRetryTruncation(p phase, fail *attemptFailure) bool {
	if p != phaseFirstAttempt || fail == nil || fail.err == nil {
		return false
	}
	if fail.err.Code != vision.CodeEmpty {
		return false
	}
	return fail.finish == genai.FinishReasonMaxTokens || fail.finish == genai.FinishReasonUnspecified
}

func (e *Engine) attempt(ctx context.Context, cl *genai.Client, model string, image []byte, mime string, maxTokens int32) (estimate.Estimate, *attemptFailure) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	m := cl.GenerativeModel(model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0.2),
		TopP:             ptrFloat32(0.9),
		MaxOutputTokens:  ptrInt32(maxTokens),
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
	}

	// No prompt text: the strict response schema alone pins the output shape.
	resp, err := m.GenerateContent(ctx, &genai.Blob{MIMEType: mime, Data: image})
	if err != nil {
		return estimate.Estimate{}, &attemptFailure{err: classifyTransportError(err)}
	}

	txt := firstText(resp)
	if txt == "" {
		return estimate.Estimate{}, &attemptFailure{
			err:    &vision.Error{Code: vision.CodeEmpty, Details: "no text in reply"},
			finish: finishReason(resp),
		}
	}

	est, err := estimate.Parse([]byte(util.StripCodeFences(txt)))
	if err != nil {
		return estimate.Estimate{}, &attemptFailure{err: vision.NewError(vision.CodeSchema, err)}
	}
	return est, nil
}

// classifyTransportError maps provider/transport failures onto the stable
// taxonomy: deadline -> TIMEOUT, HTTP status -> HTTP, the rest -> NETWORK.
func classifyTransportError(err error) *vision.Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return vision.NewError(vision.CodeTimeout, err)
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &vision.Error{Code: vision.CodeHTTP, Status: gerr.Code, Details: gerr.Message}
	}
	return vision.NewError(vision.CodeNetwork, err)
}

// firstText returns the first text part across candidates, empty when the
// reply carries none regardless of HTTP status.
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok && strings.TrimSpace(string(t)) != "" {
				return strings.TrimSpace(string(t))
			}
		}
	}
	return ""
}

func finishReason(resp *genai.GenerateContentResponse) genai.FinishReason {
	if resp == nil || len(resp.Candidates) == 0 {
		return genai.FinishReasonUnspecified
	}
	return resp.Candidates[0].FinishReason
}

func ptrFloat32(v float32) *float32 { return &v }
func ptrInt32(v int32) *int32       { return &v }
