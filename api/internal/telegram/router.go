package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"caloriecam/api/internal/preprocess"
	"caloriecam/api/internal/store"
	"caloriecam/api/internal/vision"
)

type Router struct {
	Bot        *tgbotapi.BotAPI
	Engines    *vision.Engines
	EngManager *vision.Manager
	Repo       *store.MealRepo
	Preprocess preprocess.Config

	// HistoryLimit caps stored meals; the oldest are pruned after each save.
	// Zero means unlimited.
	HistoryLimit int
}

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		r.handleCallback(*upd.CallbackQuery)
		return
	}
	if upd.Message == nil {
		return
	}
	if len(upd.Message.Photo) > 0 {
		r.acceptPhoto(*upd.Message)
		return
	}
	if upd.Message.IsCommand() {
		r.HandleCommand(upd)
		return
	}
	r.send(upd.Message.Chat.ID, "Send a photo of your meal and I'll estimate the calories.")
}

func (r *Router) HandleCommand(upd tgbotapi.Update) {
	cid := upd.Message.Chat.ID
	switch upd.Message.Command() {
	case "start":
		r.send(cid, "Send a meal photo to get a calorie estimate.\nCommands: /engine, /history, /health")
	case "health":
		r.send(cid, "✅ OK")
	case "engine":
		r.switchEngine(cid, upd.Message.CommandArguments())
	case "history":
		r.showHistory(cid)
	default:
		r.send(cid, "Unknown command")
	}
}

func (r *Router) switchEngine(cid int64, args string) {
	name := strings.ToLower(strings.TrimSpace(args))
	if name == "" {
		cur := r.EngManager.Get(cid)
		r.send(cid, fmt.Sprintf("Current engine: %s (%s)\nUsage: /engine gemini | ollama", cur.Name(), cur.GetModel()))
		return
	}
	engine, err := r.Engines.GetEngine(name)
	if err != nil {
		r.send(cid, "Unknown engine. Available: gemini | ollama")
		return
	}
	r.EngManager.Set(cid, engine)
	r.send(cid, "Switched to "+engine.Name())
}

func (r *Router) showHistory(cid int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	records, err := r.Repo.List(ctx)
	if err != nil {
		r.send(cid, "Could not load history.")
		log.Printf("telegram: list meals: %v", err)
		return
	}
	if len(records) == 0 {
		r.send(cid, "No saved meals yet.")
		return
	}

	var b strings.Builder
	b.WriteString("Saved meals (newest first):\n")
	limit := len(records)
	if limit > 10 {
		limit = 10
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, rec := range records[:limit] {
		when := time.UnixMilli(rec.CreatedAt).Format("Jan 2 15:04")
		fmt.Fprintf(&b, "• %s — %d kcal, %d items\n", when, rec.ItemTotal, len(rec.Items))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("Open %s (%d kcal)", when, rec.ItemTotal),
				"open:"+rec.ID,
			),
		))
	}
	msg := tgbotapi.NewMessage(cid, b.String())
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := r.Bot.Send(msg); err != nil {
		log.Printf("telegram: send history: %v", err)
	}
}

func (r *Router) send(chatID int64, text string) {
	if _, err := r.Bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("telegram: send: %v", err)
	}
}

// SendError renders the user-facing message for a classified failure; raw
// provider details stay in the logs only.
func (r *Router) SendError(chatID int64, err error) {
	log.Printf("telegram: chat %d: %v", chatID, err)
	r.send(chatID, vision.UserMessage(err))
}
