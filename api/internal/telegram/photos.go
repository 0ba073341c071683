package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"caloriecam/api/internal/appstate"
	"caloriecam/api/internal/preprocess"
)

// acceptPhoto drives one full estimation round: download, preprocess,
// estimate, render. Every stage reports through the chat's state container,
// and the completion events carry the fencing token so a photo sent while an
// older one is still in flight cannot resurrect the stale result.
func (r *Router) acceptPhoto(msg tgbotapi.Message) {
	cid := msg.Chat.ID
	sess := session(cid)

	ph := msg.Photo[len(msg.Photo)-1]
	file, err := r.Bot.GetFile(tgbotapi.FileConfig{FileID: ph.FileID})
	if err != nil {
		r.SendError(cid, err)
		return
	}
	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", r.Bot.Token, file.FilePath)
	raw, err := download(url)
	if err != nil {
		r.SendError(cid, err)
		return
	}

	sess.Dispatch(appstate.CaptureStart{Source: raw})

	pre, err := preprocess.Preprocess(raw, r.Preprocess)
	if err != nil {
		sess.Dispatch(appstate.CaptureFailure{Reason: err.Error()})
		r.send(cid, "Could not read that photo. Try another one.")
		return
	}
	sess.Dispatch(appstate.CaptureDone{
		Normalized: pre.Normalized,
		Thumb:      pre.Thumb,
		Width:      pre.Width,
		Height:     pre.Height,
	})

	r.send(cid, "Got it, estimating...")
	token := sess.BeginEstimation()

	engine := r.EngManager.Get(cid)
	variant := sess.State().Settings.ModelVariant

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	est, err := engine.Estimate(ctx, pre.Normalized, "image/webp", variant)
	if err != nil {
		sess.Dispatch(appstate.EstimationFailure{Token: token, Reason: err.Error()})
		r.SendError(cid, err)
		return
	}
	sess.Dispatch(appstate.EstimationSuccess{Token: token, Estimate: est})

	r.sendResult(cid)
}

func download(url string) ([]byte, error) {
	cl := &http.Client{Timeout: 30 * time.Second}
	resp, err := cl.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download photo: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
