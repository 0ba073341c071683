package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"caloriecam/api/internal/estimate"
	"caloriecam/api/internal/util"
	"caloriecam/api/internal/vision"

	"github.com/ollama/ollama/api"
)

// Local vision models are slow on CPU; give them room.
const defaultTimeout = 300 * time.Second

const estimationPrompt = `Estimate the calories of the meal in this photo.
Reply with a single JSON object and nothing else, shaped exactly like:
{"version":"1.1","model_id":"<model>","meal_confidence":"very-low|low|medium|high|very-high",
"total_kcal":<int>,"items":[{"name":"<food>","kcal":<int>,"confidence":<0..1>,
"estimated_grams":<int, optional>,"used_scale_ref":<bool>,"scale_ref":"fork|spoon|credit_card|plate|chopsticks|other",
"bbox_1000":{"x":<0..1000>,"y":<0..1000>,"w":<0..1000>,"h":<0..1000>},"notes":"<optional>"}]}
List every distinct food item. Use integers for calories.`

// Engine runs estimation against a local Ollama instance. It shares the
// validation path with the remote client but has no truncation retry: a local
// model either answers or it does not.
type Engine struct {
	client *api.Client
	Model  string
}

func New(ollamaURL, model string) (*Engine, error) {
	parsed, err := url.Parse(ollamaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama URL: %w", err)
	}
	base := &url.URL{Scheme: parsed.Scheme, Host: parsed.Host}
	return &Engine{
		client: api.NewClient(base, http.DefaultClient),
		Model:  strings.TrimSpace(model),
	}, nil
}

func (e *Engine) Name() string     { return "ollama" }
func (e *Engine) GetModel() string { return e.Model }

func (e *Engine) Estimate(ctx context.Context, image []byte, mime string, variant string) (estimate.Estimate, error) {
	if len(image) == 0 {
		return estimate.Estimate{}, &vision.Error{Code: vision.CodeMissingImage}
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}

	stream := false
	req := &api.ChatRequest{
		Model: e.Model,
		Messages: []api.Message{
			{
				Role:    "user",
				Content: estimationPrompt,
				Images:  []api.ImageData{api.ImageData(image)},
			},
		},
		Stream: &stream,
		Format: json.RawMessage(`"json"`),
	}

	var reply string
	err := e.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		reply += resp.Message.Content
		return nil
	})
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return estimate.Estimate{}, vision.NewError(vision.CodeTimeout, err)
		}
		return estimate.Estimate{}, vision.NewError(vision.CodeNetwork, err)
	}
	if strings.TrimSpace(reply) == "" {
		return estimate.Estimate{}, &vision.Error{Code: vision.CodeEmpty, Details: "no text in reply"}
	}

	est, err := estimate.Parse([]byte(util.StripCodeFences(reply)))
	if err != nil {
		return estimate.Estimate{}, vision.NewError(vision.CodeSchema, err)
	}
	return est, nil
}
