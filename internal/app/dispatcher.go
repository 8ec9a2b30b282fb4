package app

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sojokerto/absensi-bot/internal/auth"
	"github.com/sojokerto/absensi-bot/internal/bot/handlers"
	"github.com/sojokerto/absensi-bot/internal/bot/menu"
	"github.com/sojokerto/absensi-bot/internal/ctxutil"
	"github.com/sojokerto/absensi-bot/internal/metrics"
	"github.com/sojokerto/absensi-bot/internal/models"
	"github.com/sojokerto/absensi-bot/internal/observability"
	"github.com/sojokerto/absensi-bot/internal/tg"
)

// Dispatcher routes incoming updates to the FSM flows. The limiter keeps a
// chat's updates strictly ordered even if a caller dispatches concurrently.
type Dispatcher struct {
	Env     *handlers.Env
	limiter *ChatLimiter
}

func NewDispatcher(env *handlers.Env) *Dispatcher {
	return &Dispatcher{Env: env, limiter: NewChatLimiter()}
}

// HandleUpdate is the update-loop entry point. Panics in a flow are reported
// and never take the loop down.
func (d *Dispatcher) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	metrics.BotUpdates.Inc()

	chatID := updateChatID(upd)
	if chatID == 0 {
		return
	}
	ctx = ctxutil.WithChatID(ctx, chatID)

	defer func() {
		if r := recover(); r != nil {
			metrics.HandlerErrors.Inc()
			observability.CapturePanic(r)
			d.Env.Log.Errorw("handler panic", "chat_id", chatID, "panic", r)
		}
	}()

	unlock := d.limiter.lock(chatID)
	defer unlock()

	switch {
	case upd.CallbackQuery != nil:
		d.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil:
		d.handleMessage(ctx, upd.Message)
	}
}

func updateChatID(upd tgbotapi.Update) int64 {
	if upd.Message != nil {
		return upd.Message.Chat.ID
	}
	if upd.CallbackQuery != nil && upd.CallbackQuery.Message != nil {
		return upd.CallbackQuery.Message.Chat.ID
	}
	return 0
}

func (d *Dispatcher) handleMessage(ctx context.Context, m *tgbotapi.Message) {
	env := d.Env
	chatID := m.Chat.ID
	text := m.Text

	if text == "/start" {
		user := d.sessionUser(ctx, chatID)
		if user == nil {
			handlers.StartLogin(env, chatID)
			return
		}
		msg := tgbotapi.NewMessage(chatID, "Selamat datang kembali, "+user.Name+"! Pilih menu:")
		msg.ReplyMarkup = menu.ForRole(user.Role)
		_, _ = tg.Send(env.Bot, msg)
		return
	}

	// The login dialog runs before any session exists.
	if handlers.GetLoginState(chatID) {
		handlers.HandleLoginText(ctx, env, m)
		return
	}

	user := d.sessionUser(ctx, chatID)
	if user == nil {
		_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID,
			"⚠️ Anda belum masuk. Ketik /start untuk login."))
		return
	}

	if m.Document != nil && handlers.GetBackupState(chatID) && user.Role == models.RoleAdmin {
		handlers.HandleBackupDocument(ctx, env, m)
		return
	}

	// A flow that owns the chat gets the text first.
	switch {
	case handlers.GetAbsensiState(chatID):
		handlers.HandleAbsensiText(ctx, env, m)
		return
	case handlers.GetReportState(chatID):
		handlers.HandleReportText(ctx, env, m)
		return
	case handlers.GetCatalogState(chatID):
		handlers.HandleCatalogText(ctx, env, m)
		return
	}

	switch text {
	case menu.BtnAbsensi:
		if !requireRole(env, chatID, user, models.RoleGuru) {
			return
		}
		handlers.StartAbsensi(ctx, env, chatID, user.ID)
	case menu.BtnHistory:
		handlers.StartHistory(ctx, env, chatID, user)
	case menu.BtnDashboard:
		handlers.ShowDashboard(ctx, env, chatID, user)
	case menu.BtnReports:
		if !requireRole(env, chatID, user, models.RoleAdmin) {
			return
		}
		handlers.StartReports(env, chatID, user.ID)
	case menu.BtnCatalog:
		if !requireRole(env, chatID, user, models.RoleAdmin) {
			return
		}
		handlers.StartCatalog(env, chatID)
	case menu.BtnBackup:
		if !requireRole(env, chatID, user, models.RoleAdmin) {
			return
		}
		handlers.StartBackup(env, chatID)
	case menu.BtnLogout, "/logout":
		handlers.Logout(ctx, env, chatID)
	default:
		_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "Gunakan tombol menu di bawah."))
	}
}

func (d *Dispatcher) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	env := d.Env
	// Ack first so the client stops the spinner even if the flow errors out.
	_, _ = tg.Request(env.Bot, tgbotapi.NewCallback(cq.ID, ""))
	if cq.Message == nil {
		return
	}

	switch {
	case strings.HasPrefix(cq.Data, "absen_"):
		handlers.HandleAbsensiCallback(ctx, env, cq)
	case strings.HasPrefix(cq.Data, "report_"):
		handlers.HandleReportCallback(ctx, env, cq)
	case strings.HasPrefix(cq.Data, "catalog_"):
		handlers.HandleCatalogCallback(ctx, env, cq)
	case strings.HasPrefix(cq.Data, "backup_"):
		handlers.HandleBackupCallback(ctx, env, cq)
	}
}

func (d *Dispatcher) sessionUser(ctx context.Context, chatID int64) *models.User {
	user, err := auth.CurrentUser(ctx, d.Env.Store, chatID)
	if err != nil {
		metrics.HandlerErrors.Inc()
		d.Env.Log.Errorw("session lookup", "chat_id", chatID, "err", err)
		return nil
	}
	return user
}

func requireRole(env *handlers.Env, chatID int64, user *models.User, role models.Role) bool {
	if user.Role == role {
		return true
	}
	_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "🚫 Menu ini tidak tersedia untuk akun Anda."))
	return false
}
