package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"caloriecam/api/internal/appstate"
	"caloriecam/api/internal/estimate"
	"caloriecam/api/internal/store"
)

func (r *Router) sendResult(cid int64) {
	st := session(cid).State()
	if st.Estimation.Data == nil {
		return
	}
	msg := tgbotapi.NewMessage(cid, resultText(st))
	msg.ReplyMarkup = resultKeyboard(st.Estimation.Data.Items)
	sent, err := r.Bot.Send(msg)
	if err != nil {
		log.Printf("telegram: send result: %v", err)
		return
	}
	setResultMsg(cid, sent.MessageID)
}

func (r *Router) refreshResult(cid int64) {
	st := session(cid).State()
	if st.Estimation.Data == nil {
		return
	}
	messageID, ok := resultMsg(cid)
	if !ok {
		r.sendResult(cid)
		return
	}
	edit := tgbotapi.NewEditMessageText(cid, messageID, resultText(st))
	markup := resultKeyboard(st.Estimation.Data.Items)
	edit.ReplyMarkup = &markup
	if _, err := r.Bot.Send(edit); err != nil {
		log.Printf("telegram: edit result: %v", err)
	}
}

func resultText(st appstate.State) string {
	data := st.Estimation.Data
	var b strings.Builder
	fmt.Fprintf(&b, "🍽 Estimated %d–%d kcal (±%.0f%%, %s confidence)\n\n",
		data.Range.Lower, data.Range.Upper, data.Range.Percentage*100, data.MealConfidence)
	for _, item := range data.Items {
		mark := "✅"
		if !item.Included {
			mark = "⬜"
		}
		fmt.Fprintf(&b, "%s %s — %d kcal", mark, item.Name, item.KcalValue())
		if item.EstimatedGrams != nil {
			fmt.Fprintf(&b, " (~%dg)", *item.EstimatedGrams)
		}
		b.WriteString("\n")
	}
	if data.TotalsNote.ShowNote {
		b.WriteString("\nℹ️ " + data.TotalsNote.Message + "\n")
	}
	b.WriteString("\nTap an item to include/exclude it.")
	return b.String()
}

func resultKeyboard(items []estimate.DisplayItem) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, item := range items {
		label := "Exclude " + item.Name
		if !item.Included {
			label = "Include " + item.Name
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "toggle:"+item.ID),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("💾 Save meal", "save"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (r *Router) handleCallback(cb tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	cid := cb.Message.Chat.ID
	data := cb.Data

	// Ack first so the button stops spinning even when the action fails.
	if _, err := r.Bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("telegram: callback ack: %v", err)
	}

	switch {
	case strings.HasPrefix(data, "toggle:"):
		session(cid).Dispatch(appstate.ToggleItem{ID: strings.TrimPrefix(data, "toggle:")})
		r.refreshResult(cid)

	case data == "save":
		r.saveCurrent(cid)

	case strings.HasPrefix(data, "open:"):
		r.openSaved(cid, strings.TrimPrefix(data, "open:"))
	}
}

func (r *Router) saveCurrent(cid int64) {
	sess := session(cid)
	st := sess.State()
	data := st.Estimation.Data
	if data == nil {
		r.send(cid, "Nothing to save yet — send a meal photo first.")
		return
	}

	rec := estimate.MealRecord{
		ID:             st.Estimation.SourceID,
		CreatedAt:      st.Estimation.CreatedAt,
		MealConfidence: data.MealConfidence,
		Items:          data.Items,
		ItemTotal:      data.ItemTotal,
		ModelTotal:     data.ModelTotal,
		ShowBoxes:      st.Estimation.ShowBoxes,
	}
	var imgs *store.Images
	if st.Capture.Normalized != nil {
		imgs = &store.Images{
			Normalized: st.Capture.Normalized,
			Thumb:      st.Capture.Thumb,
			MIME:       "image/webp",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := r.Repo.Save(ctx, rec, imgs)
	if err != nil {
		log.Printf("telegram: save meal: %v", err)
		r.send(cid, "Could not save the meal. Try again.")
		return
	}
	rec.ID = id
	sess.Dispatch(appstate.AddHistoryEntry{Entry: rec})
	r.pruneHistory(ctx)
	r.send(cid, fmt.Sprintf("Saved: %d kcal, %d items.", rec.ItemTotal, len(rec.Items)))
}

func (r *Router) pruneHistory(ctx context.Context) {
	if r.HistoryLimit <= 0 {
		return
	}
	n, err := r.Repo.Count(ctx)
	if err != nil || n <= r.HistoryLimit {
		return
	}
	if ids, err := r.Repo.DeleteOldest(ctx, n-r.HistoryLimit); err != nil {
		log.Printf("telegram: prune history: %v", err)
	} else if len(ids) > 0 {
		log.Printf("telegram: pruned %d old meals", len(ids))
	}
}

func (r *Router) openSaved(cid int64, id string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rec, _, err := r.Repo.Load(ctx, id)
	if err != nil {
		r.send(cid, "That meal is gone from history.")
		return
	}
	session(cid).Dispatch(appstate.LoadSavedMeal{Record: *rec})
	r.sendResult(cid)
}
