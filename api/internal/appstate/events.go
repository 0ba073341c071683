package appstate

import "caloriecam/api/internal/estimate"

// Event is the closed set of state transitions. Anything else dispatched at
// the store is ignored.
type Event interface{ event() }

// --- capture lifecycle ---

type CaptureStart struct{ Source []byte }

type CaptureFailure struct{ Reason string }

type CaptureDone struct {
	Normalized []byte
	Thumb      []byte
	Width      int
	Height     int
}

type CaptureReset struct{}

// --- estimation lifecycle ---

// EstimationStart moves estimation to processing and arms the fencing token.
// Use Store.BeginEstimation to mint the token.
type EstimationStart struct{ Token string }

type EstimationSuccess struct {
	Token    string
	Estimate estimate.Estimate
}

type EstimationFailure struct {
	Token  string
	Reason string
}

// LoadSavedMeal rehydrates a persisted record. Saved inclusion flags are
// authoritative; no threshold re-gating happens.
type LoadSavedMeal struct{ Record estimate.MealRecord }

// --- result editing ---

type ToggleItem struct{ ID string }

type RenameItem struct {
	ID   string
	Name string
}

type UpdateKcal struct {
	ID   string
	Kcal int
}

type ResetKcal struct{ ID string }

type RemoveItem struct{ ID string }

type AddManualItem struct {
	Name           string
	Kcal           int
	Confidence     *float64 // nil -> 1.0
	EstimatedGrams *int
}

type SetShowBoxes struct{ Value bool }

// --- shell state ---

type SetActiveTab struct{ Tab string }

type SetHistoryEntries struct{ Entries []estimate.MealRecord }

type AddHistoryEntry struct{ Entry estimate.MealRecord }

type DeleteHistoryEntry struct{ ID string }

type SetHistorySearch struct{ Query string }

type SelectHistoryEntry struct{ ID string }

type SetSettings struct{ Settings Settings }

type AddLog struct {
	Message string
	Level   string
}

type ClearLogs struct{}

type PushNotification struct {
	Message string
	Level   string
}

type DismissNotification struct{ ID string }

func (CaptureStart) event()        {}
func (CaptureFailure) event()      {}
func (CaptureDone) event()         {}
func (CaptureReset) event()        {}
func (EstimationStart) event()     {}
func (EstimationSuccess) event()   {}
func (EstimationFailure) event()   {}
func (LoadSavedMeal) event()       {}
func (ToggleItem) event()          {}
func (RenameItem) event()          {}
func (UpdateKcal) event()          {}
func (ResetKcal) event()           {}
func (RemoveItem) event()          {}
func (AddManualItem) event()       {}
func (SetShowBoxes) event()        {}
func (SetActiveTab) event()        {}
func (SetHistoryEntries) event()   {}
func (AddHistoryEntry) event()     {}
func (DeleteHistoryEntry) event()  {}
func (SetHistorySearch) event()    {}
func (SelectHistoryEntry) event()  {}
func (SetSettings) event()         {}
func (AddLog) event()              {}
func (ClearLogs) event()           {}
func (PushNotification) event()    {}
func (DismissNotification) event() {}
