package appstate

import "caloriecam/api/internal/estimate"

const maxLogEntries = 50

// reduce applies one event to a snapshot and returns the next snapshot. It is
// total: unrecognized events and events that cannot be applied leave the
// state unchanged, never an error. Every event that touches items recomputes
// the derived estimation in full.
func reduce(s State, ev Event, now int64, newID func() string) State {
	switch e := ev.(type) {
	case CaptureStart:
		s.Capture = Capture{Status: StatusProcessing, Original: e.Source}
		s.Estimation = resetEstimation(s.Estimation)
		return s

	case CaptureFailure:
		s.Capture.Status = StatusError
		s.Capture.Err = e.Reason
		return s

	case CaptureDone:
		s.Capture = Capture{
			Status:     StatusReady,
			Original:   s.Capture.Original,
			Normalized: e.Normalized,
			Thumb:      e.Thumb,
			Width:      e.Width,
			Height:     e.Height,
		}
		return s

	case CaptureReset:
		s.Capture = Capture{Status: StatusIdle}
		s.Estimation = resetEstimation(s.Estimation)
		return s

	case EstimationStart:
		s.Estimation.Status = StatusProcessing
		s.Estimation.Err = ""
		s.Estimation.Token = e.Token
		return s

	case EstimationSuccess:
		if e.Token != s.Estimation.Token {
			return s // stale response, a newer capture superseded it
		}
		items := estimate.PrepareItems(e.Estimate.Items, s.Settings.ConfidenceThreshold, newID)
		data, err := estimate.Derive(items, e.Estimate.TotalKcal, e.Estimate.MealConfidence)
		if err != nil {
			return s
		}
		s.Estimation = Estimation{
			Status:    StatusReady,
			Data:      &data,
			ShowBoxes: s.Settings.DefaultShowBoxes,
			Context:   ContextCapture,
			CreatedAt: now,
			Token:     e.Token,
		}
		return s

	case EstimationFailure:
		if e.Token != s.Estimation.Token {
			return s
		}
		s.Estimation.Status = StatusError
		s.Estimation.Err = e.Reason
		s.Estimation.Data = nil
		s.Estimation.Context = ""
		s.Estimation.SourceID = ""
		s.Estimation.CreatedAt = 0
		return s

	case LoadSavedMeal:
		items := append([]estimate.DisplayItem(nil), e.Record.Items...)
		data, err := estimate.Derive(items, e.Record.ModelTotal, e.Record.MealConfidence)
		if err != nil {
			return s
		}
		createdAt := e.Record.CreatedAt
		if createdAt == 0 {
			createdAt = now
		}
		s.Estimation = Estimation{
			Status:    StatusReady,
			Data:      &data,
			ShowBoxes: e.Record.ShowBoxes,
			Context:   ContextHistory,
			SourceID:  e.Record.ID,
			CreatedAt: createdAt,
			Token:     s.Estimation.Token,
		}
		return s

	case ToggleItem:
		return withItems(s, updateItem(s, e.ID, func(it *estimate.DisplayItem) {
			it.Included = !it.Included
		}))

	case RenameItem:
		// Rename does not affect totals; skip the recompute.
		items := updateItem(s, e.ID, func(it *estimate.DisplayItem) {
			it.Name = e.Name
		})
		if items == nil {
			return s
		}
		data := *s.Estimation.Data
		data.Items = items
		s.Estimation.Data = &data
		return s

	case UpdateKcal:
		kcal := e.Kcal
		return withItems(s, updateItem(s, e.ID, func(it *estimate.DisplayItem) {
			it.EditedKcal = &kcal
		}))

	case ResetKcal:
		return withItems(s, updateItem(s, e.ID, func(it *estimate.DisplayItem) {
			it.EditedKcal = nil
		}))

	case RemoveItem:
		if s.Estimation.Data == nil {
			return s
		}
		items := make([]estimate.DisplayItem, 0, len(s.Estimation.Data.Items))
		for _, it := range s.Estimation.Data.Items {
			if it.ID != e.ID {
				items = append(items, it)
			}
		}
		return withItems(s, items)

	case AddManualItem:
		if s.Estimation.Data == nil {
			return s
		}
		confidence := 1.0
		if e.Confidence != nil {
			confidence = *e.Confidence
		}
		item := estimate.DisplayItem{
			ID:             newID(),
			Name:           e.Name,
			OriginalKcal:   e.Kcal,
			Included:       true,
			Confidence:     confidence,
			EstimatedGrams: e.EstimatedGrams,
		}
		items := append(append([]estimate.DisplayItem(nil), s.Estimation.Data.Items...), item)
		return withItems(s, items)

	case SetShowBoxes:
		s.Estimation.ShowBoxes = e.Value
		return s

	case SetActiveTab:
		s.ActiveTab = e.Tab
		return s

	case SetHistoryEntries:
		s.History.Entries = append([]estimate.MealRecord(nil), e.Entries...)
		return s

	case AddHistoryEntry:
		s.History.Entries = append([]estimate.MealRecord{e.Entry}, s.History.Entries...)
		return s

	case DeleteHistoryEntry:
		var entries []estimate.MealRecord
		for _, entry := range s.History.Entries {
			if entry.ID != e.ID {
				entries = append(entries, entry)
			}
		}
		s.History.Entries = entries
		return s

	case SetHistorySearch:
		s.History.Search = e.Query
		return s

	case SelectHistoryEntry:
		s.History.SelectedID = e.ID
		return s

	case SetSettings:
		s.Settings = e.Settings
		return s

	case AddLog:
		level := e.Level
		if level == "" {
			level = "info"
		}
		logs := append([]LogEntry{{Timestamp: now, Message: e.Message, Level: level}}, s.Logs...)
		if len(logs) > maxLogEntries {
			logs = logs[:maxLogEntries]
		}
		s.Logs = logs
		return s

	case ClearLogs:
		s.Logs = nil
		return s

	case PushNotification:
		s.Notifications = append(append([]Notification(nil), s.Notifications...), Notification{
			ID:      newID(),
			Message: e.Message,
			Level:   e.Level,
		})
		return s

	case DismissNotification:
		var notes []Notification
		for _, n := range s.Notifications {
			if n.ID != e.ID {
				notes = append(notes, n)
			}
		}
		s.Notifications = notes
		return s
	}

	return s
}

// resetEstimation clears everything but the box preference. The token is
// dropped too: a new capture supersedes any in-flight request, so its late
// success or failure must not match and get applied.
func resetEstimation(prev Estimation) Estimation {
	return Estimation{
		Status:    StatusIdle,
		ShowBoxes: prev.ShowBoxes,
	}
}

// updateItem returns a fresh item slice with fn applied to the matching
// item, or nil when there is no data or no such item.
func updateItem(s State, id string, fn func(*estimate.DisplayItem)) []estimate.DisplayItem {
	if s.Estimation.Data == nil {
		return nil
	}
	found := false
	items := make([]estimate.DisplayItem, len(s.Estimation.Data.Items))
	for i, it := range s.Estimation.Data.Items {
		if it.ID == id {
			fn(&it)
			found = true
		}
		items[i] = it
	}
	if !found {
		return nil
	}
	return items
}

// withItems swaps in a new item collection and recomputes the derived
// estimation from scratch. A derive failure leaves the state untouched, which
// also rejects edits that would make totals negative.
func withItems(s State, items []estimate.DisplayItem) State {
	if s.Estimation.Data == nil || items == nil {
		return s
	}
	data, err := estimate.Derive(items, s.Estimation.Data.ModelTotal, s.Estimation.Data.MealConfidence)
	if err != nil {
		return s
	}
	s.Estimation.Data = &data
	return s
}
