package vision

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"caloriecam/api/internal/estimate"
)

// Engine turns one meal photo into a validated estimate.
type Engine interface {
	Name() string
	GetModel() string
	Estimate(ctx context.Context, image []byte, mime string, variant string) (estimate.Estimate, error)
}

// Engines groups the configured backends for lookup by name.
type Engines struct {
	Gemini Engine
	Ollama Engine
}

func (e *Engines) GetEngine(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "gemini":
		if e.Gemini == nil {
			return nil, fmt.Errorf("gemini engine is not configured")
		}
		return e.Gemini, nil
	case "ollama":
		if e.Ollama == nil {
			return nil, fmt.Errorf("ollama engine is not configured")
		}
		return e.Ollama, nil
	}
	return nil, fmt.Errorf("unknown engine: %s", name)
}

// Manager keeps a per-chat engine selection with a shared default.
type Manager struct {
	def Engine
	m   sync.Map // chatID -> Engine
}

func NewManager(defaultEngine Engine) *Manager {
	return &Manager{def: defaultEngine}
}

func (m *Manager) Get(chatID int64) Engine {
	if v, ok := m.m.Load(chatID); ok {
		return v.(Engine)
	}
	return m.def
}

func (m *Manager) Set(chatID int64, e Engine) {
	m.m.Store(chatID, e)
}
