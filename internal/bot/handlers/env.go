// Package handlers contains the bot's FSM flows. Every flow keeps per-chat
// state in a package map, mirrors its prompts as inline keyboards and ends
// by clearing its state; the dispatcher routes text and callbacks to the
// flow that owns the chat.
package handlers

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sojokerto/absensi-bot/internal/attendance"
	"github.com/sojokerto/absensi-bot/internal/storage"
	"go.uber.org/zap"
)

// Env bundles what every handler needs.
type Env struct {
	Bot    *tgbotapi.BotAPI
	Store  storage.Store
	Svc    *attendance.Service
	Log    *zap.SugaredLogger
	School string
	Loc    *time.Location
}

func (e *Env) today() string {
	return time.Now().In(e.Loc).Format("2006-01-02")
}

func (e *Env) now() time.Time {
	return time.Now().In(e.Loc)
}
