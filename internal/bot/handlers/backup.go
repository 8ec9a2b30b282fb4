package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sojokerto/absensi-bot/internal/backup"
	"github.com/sojokerto/absensi-bot/internal/metrics"
	"github.com/sojokerto/absensi-bot/internal/tg"
)

const maxBackupSize = 20 << 20 // telegram bot file download limit

type backupState struct {
	AwaitFile bool
	Pending   *backup.Snapshot
}

var backupStates = make(map[int64]*backupState)

func GetBackupState(chatID int64) bool {
	_, ok := backupStates[chatID]
	return ok
}

// StartBackup shows the admin backup menu.
func StartBackup(env *Env, chatID int64) {
	backupStates[chatID] = &backupState{}
	msg := tgbotapi.NewMessage(chatID, "💾 Backup Data")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬇️ Unduh backup", "backup_dump"),
			tgbotapi.NewInlineKeyboardButtonData("⬆️ Pulihkan dari file", "backup_restore"),
		),
		cancelRow("backup_cancel"),
	)
	_, _ = tg.Send(env.Bot, msg)
}

func HandleBackupCallback(ctx context.Context, env *Env, cq *tgbotapi.CallbackQuery) {
	chatID := cq.Message.Chat.ID
	state := backupStates[chatID]
	if state == nil {
		return
	}

	switch cq.Data {
	case "backup_cancel":
		delete(backupStates, chatID)
		_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "Dibatalkan."))

	case "backup_dump":
		delete(backupStates, chatID)
		data, err := backup.Dump(ctx, env.Store, env.now())
		if err != nil {
			metrics.HandlerErrors.Inc()
			env.Log.Errorw("backup dump", "err", err)
			_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "❌ Backup gagal dibuat."))
			return
		}
		name := "backup-absensi_" + env.now().Format("2006-01-02") + ".json"
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
		_, _ = tg.Send(env.Bot, doc)

	case "backup_restore":
		state.AwaitFile = true
		_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID,
			"Kirim file backup (.json) sebagai dokumen."))

	case "backup_restore_yes":
		if state.Pending == nil {
			return
		}
		snap := state.Pending
		delete(backupStates, chatID)
		if err := backup.Restore(ctx, env.Store, snap); err != nil {
			metrics.HandlerErrors.Inc()
			env.Log.Errorw("backup restore", "err", err)
			_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "❌ Pemulihan gagal. Data tidak berubah seluruhnya, periksa log."))
			return
		}
		_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "✅ Data berhasil dipulihkan."))
	}
}

// HandleBackupDocument reads an uploaded snapshot, validates it and asks for
// confirmation before anything is written.
func HandleBackupDocument(ctx context.Context, env *Env, m *tgbotapi.Message) {
	chatID := m.Chat.ID
	state := backupStates[chatID]
	if state == nil || !state.AwaitFile || m.Document == nil {
		return
	}
	state.AwaitFile = false

	url, err := env.Bot.GetFileDirectURL(m.Document.FileID)
	if err != nil {
		backupReadFail(env, chatID, err)
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		backupReadFail(env, chatID, err)
		return
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		backupReadFail(env, chatID, err)
		return
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBackupSize))
	if err != nil {
		backupReadFail(env, chatID, err)
		return
	}

	snap, err := backup.Parse(data)
	if err != nil {
		delete(backupStates, chatID)
		_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "❌ File backup tidak valid."))
		return
	}
	state.Pending = snap

	text := fmt.Sprintf(
		"File backup dari %s:\n👥 Siswa: %d\n👩‍🏫 Guru: %d\n🏫 Kelas: %d\n🗒 Absensi: %d\n\nPulihkan data ini? Data dengan id yang sama akan ditimpa.",
		snap.ExportedAt, len(snap.Students), len(snap.Teachers), len(snap.Classes), len(snap.Attendance))
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Pulihkan", "backup_restore_yes"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Batal", "backup_cancel"),
		),
	)
	_, _ = tg.Send(env.Bot, msg)
}

func backupReadFail(env *Env, chatID int64, err error) {
	metrics.HandlerErrors.Inc()
	env.Log.Errorw("backup read", "err", err)
	delete(backupStates, chatID)
	_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "❌ File backup tidak dapat diunduh."))
}
