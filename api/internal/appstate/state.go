package appstate

import (
	"strings"

	"caloriecam/api/internal/estimate"
)

// Status of the capture and estimation sub-states.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusError      Status = "error"
)

// Context of a ready estimation: fresh capture or rehydrated history record.
const (
	ContextCapture = "capture"
	ContextHistory = "history"
)

type Capture struct {
	Status     Status
	Err        string
	Original   []byte
	Normalized []byte
	Thumb      []byte
	Width      int
	Height     int
}

type Estimation struct {
	Status    Status
	Data      *estimate.Derived
	Err       string
	ShowBoxes bool
	Context   string
	SourceID  string
	CreatedAt int64 // unix milliseconds

	// Token of the most recent EstimationStart. Success/failure events with
	// any other token are stale and get dropped.
	Token string
}

type History struct {
	Entries    []estimate.MealRecord
	Search     string
	SelectedID string
}

type Settings struct {
	APIKey              string
	ModelVariant        string
	PreprocessSize      int
	Units               string
	DefaultShowBoxes    bool
	ConfidenceThreshold float64
	DemoUnlocked        bool
}

type LogEntry struct {
	Timestamp int64
	Message   string
	Level     string
}

type Notification struct {
	ID      string
	Message string
	Level   string
}

// State is one immutable snapshot of everything the UI can observe. Readers
// must treat the contained slices as read-only; the reducer never mutates
// them in place.
type State struct {
	ActiveTab     string
	Capture       Capture
	Estimation    Estimation
	History       History
	Settings      Settings
	Logs          []LogEntry
	Notifications []Notification
}

func initialState() State {
	return State{
		ActiveTab: "camera",
		Capture:   Capture{Status: StatusIdle},
		Estimation: Estimation{
			Status:    StatusIdle,
			ShowBoxes: true,
		},
		Settings: Settings{
			ModelVariant:        "flash",
			PreprocessSize:      1536,
			Units:               "kcal",
			DefaultShowBoxes:    true,
			ConfidenceThreshold: 0.35,
		},
	}
}

// FilteredHistory returns the entries whose item names match the search
// query, newest first (entries are stored newest first already).
func (s State) FilteredHistory() []estimate.MealRecord {
	query := strings.ToLower(strings.TrimSpace(s.History.Search))
	if query == "" {
		return s.History.Entries
	}
	var out []estimate.MealRecord
	for _, entry := range s.History.Entries {
		for _, item := range entry.Items {
			if strings.Contains(strings.ToLower(item.Name), query) {
				out = append(out, entry)
				break
			}
		}
	}
	return out
}
