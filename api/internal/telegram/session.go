package telegram

import (
	"sync"

	"caloriecam/api/internal/appstate"
)

// Per-chat estimation sessions. Each chat gets its own state container, so
// two users editing their meals never share anything.
var (
	sessions   sync.Map // chatID -> *appstate.Store
	resultMsgs sync.Map // chatID -> int (message id of the rendered result)
)

func session(chatID int64) *appstate.Store {
	if v, ok := sessions.Load(chatID); ok {
		return v.(*appstate.Store)
	}
	s := appstate.NewStore()
	actual, _ := sessions.LoadOrStore(chatID, s)
	return actual.(*appstate.Store)
}

func setResultMsg(chatID int64, messageID int) { resultMsgs.Store(chatID, messageID) }

func resultMsg(chatID int64) (int, bool) {
	if v, ok := resultMsgs.Load(chatID); ok {
		return v.(int), true
	}
	return 0, false
}
