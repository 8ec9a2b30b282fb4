package handlers

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sojokerto/absensi-bot/internal/auth"
	"github.com/sojokerto/absensi-bot/internal/bot/menu"
	"github.com/sojokerto/absensi-bot/internal/metrics"
	"github.com/sojokerto/absensi-bot/internal/tg"
)

type loginState struct {
	Step  int // 1 = waiting for email, 2 = waiting for password
	Email string
}

var loginStates = make(map[int64]*loginState)

func GetLoginState(chatID int64) bool {
	_, ok := loginStates[chatID]
	return ok
}

func StartLogin(env *Env, chatID int64) {
	loginStates[chatID] = &loginState{Step: 1}
	msg := tgbotapi.NewMessage(chatID, "Masuk ke Sistem Absensi.\nKetik email Anda:")
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	_, _ = tg.Send(env.Bot, msg)
}

func HandleLoginText(ctx context.Context, env *Env, m *tgbotapi.Message) {
	chatID := m.Chat.ID
	state := loginStates[chatID]
	if state == nil {
		return
	}

	switch state.Step {
	case 1:
		state.Email = m.Text
		state.Step = 2
		_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "Ketik password Anda:"))
	case 2:
		user, err := auth.Login(ctx, env.Store, chatID, state.Email, m.Text)
		if err != nil {
			delete(loginStates, chatID)
			if errors.Is(err, auth.ErrInvalidCredentials) {
				// One generic message for unknown email and wrong password.
				_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "❌ Email atau password salah. Ketik /start untuk coba lagi."))
				return
			}
			metrics.HandlerErrors.Inc()
			env.Log.Errorw("login", "err", err)
			_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "⚠️ Terjadi kesalahan saat login. Coba lagi."))
			return
		}
		delete(loginStates, chatID)
		msg := tgbotapi.NewMessage(chatID, "Selamat datang, "+user.Name+"! Pilih menu:")
		msg.ReplyMarkup = menu.ForRole(user.Role)
		_, _ = tg.Send(env.Bot, msg)
	}
}

// Logout clears the session slot unconditionally and removes the keyboard.
func Logout(ctx context.Context, env *Env, chatID int64) {
	if err := auth.Logout(ctx, env.Store, chatID); err != nil {
		metrics.HandlerErrors.Inc()
		env.Log.Errorw("logout", "err", err)
	}
	msg := tgbotapi.NewMessage(chatID, "Anda telah keluar. Ketik /start untuk masuk kembali.")
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	_, _ = tg.Send(env.Bot, msg)
}
