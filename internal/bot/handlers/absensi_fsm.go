package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sojokerto/absensi-bot/internal/attendance"
	"github.com/sojokerto/absensi-bot/internal/metrics"
	"github.com/sojokerto/absensi-bot/internal/models"
	"github.com/sojokerto/absensi-bot/internal/tg"
)

// Roster flow: class -> date -> one prompt per student -> confirm. The
// submission replaces whatever was recorded for that class and date before.
type absensiState struct {
	Step      int // 1 class, 2 date, 3 students, 4 confirm
	UserID    string
	ClassID   string
	ClassName string
	Date      string
	Students  []models.Student
	Index     int
	Data      map[string]attendance.SubmittedStatus
	AwaitNote bool
	AwaitDate bool
}

var absensiStates = make(map[int64]*absensiState)

func GetAbsensiState(chatID int64) bool {
	_, ok := absensiStates[chatID]
	return ok
}

func StartAbsensi(ctx context.Context, env *Env, chatID int64, userID string) {
	classes, err := env.Store.ListClasses(ctx)
	if err != nil || len(classes) == 0 {
		metrics.HandlerErrors.Inc()
		_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "❌ Tidak dapat memuat daftar kelas."))
		return
	}
	absensiStates[chatID] = &absensiState{Step: 1, UserID: userID, Data: make(map[string]attendance.SubmittedStatus)}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, c := range classes {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(c.Name, "absen_class_"+c.ID)))
	}
	rows = append(rows, cancelRow("absen_cancel"))
	msg := tgbotapi.NewMessage(chatID, "📝 Input Absensi\nPilih kelas:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, _ = tg.Send(env.Bot, msg)
}

func HandleAbsensiCallback(ctx context.Context, env *Env, cq *tgbotapi.CallbackQuery) {
	chatID := cq.Message.Chat.ID
	state := absensiStates[chatID]
	if state == nil {
		return
	}
	data := cq.Data

	switch {
	case data == "absen_cancel":
		delete(absensiStates, chatID)
		_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "Input absensi dibatalkan."))

	case strings.HasPrefix(data, "absen_class_") && state.Step == 1:
		classID := strings.TrimPrefix(data, "absen_class_")
		cls, err := env.Store.GetClass(ctx, classID)
		if err != nil {
			delete(absensiStates, chatID)
			_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "❌ Kelas tidak ditemukan."))
			return
		}
		state.ClassID = classID
		state.ClassName = cls.Name
		state.Step = 2
		askDate(env, chatID)

	case data == "absen_date_today" && state.Step == 2:
		startRoster(ctx, env, chatID, state, env.today())

	case data == "absen_date_yesterday" && state.Step == 2:
		startRoster(ctx, env, chatID, state, env.now().AddDate(0, 0, -1).Format(models.DateLayout))

	case data == "absen_date_manual" && state.Step == 2:
		state.AwaitDate = true
		_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "Ketik tanggal (format 2024-09-01):"))

	case strings.HasPrefix(data, "absen_st_") && state.Step == 3:
		handleStatusPick(ctx, env, chatID, state, strings.TrimPrefix(data, "absen_st_"))

	case data == "absen_note_skip" && state.Step == 3 && state.AwaitNote:
		state.AwaitNote = false
		state.Index++
		promptStudent(ctx, env, chatID, state)

	case data == "absen_save" && state.Step == 4:
		saveRoster(ctx, env, chatID, state)
	}
}

func HandleAbsensiText(ctx context.Context, env *Env, m *tgbotapi.Message) {
	chatID := m.Chat.ID
	state := absensiStates[chatID]
	if state == nil {
		return
	}

	switch {
	case state.Step == 2 && state.AwaitDate:
		date := strings.TrimSpace(m.Text)
		if !models.ValidDate(date) {
			_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "⚠️ Tanggal tidak valid. Gunakan format 2024-09-01."))
			return
		}
		state.AwaitDate = false
		startRoster(ctx, env, chatID, state, date)

	case state.Step == 3 && state.AwaitNote:
		st := state.Students[state.Index]
		row := state.Data[st.ID]
		row.Note = strings.TrimSpace(m.Text)
		state.Data[st.ID] = row
		state.AwaitNote = false
		state.Index++
		promptStudent(ctx, env, chatID, state)
	}
}

func askDate(env *Env, chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "Pilih tanggal:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Hari ini", "absen_date_today"),
			tgbotapi.NewInlineKeyboardButtonData("Kemarin", "absen_date_yesterday"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Tanggal lain", "absen_date_manual"),
		),
		cancelRow("absen_cancel"),
	)
	_, _ = tg.Send(env.Bot, msg)
}

func startRoster(ctx context.Context, env *Env, chatID int64, state *absensiState, date string) {
	students, err := env.Store.ListStudentsByClass(ctx, state.ClassID)
	if err != nil {
		metrics.HandlerErrors.Inc()
		delete(absensiStates, chatID)
		_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "❌ Tidak dapat memuat daftar siswa."))
		return
	}
	if len(students) == 0 {
		delete(absensiStates, chatID)
		_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "Tidak ada siswa di kelas ini."))
		return
	}

	state.Date = date
	state.Students = students
	state.Index = 0
	state.Step = 3

	// Prefill with what was already recorded so a resubmission starts from
	// the previous roster.
	if prev, err := env.Svc.DayForClass(ctx, date, state.ClassID); err == nil {
		for id, row := range prev {
			state.Data[id] = row
		}
	}

	_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"Daftar Siswa %s (%d siswa), tanggal %s.", state.ClassName, len(students), date)))
	promptStudent(ctx, env, chatID, state)
}

func promptStudent(ctx context.Context, env *Env, chatID int64, state *absensiState) {
	if state.Index >= len(state.Students) {
		confirmRoster(env, chatID, state)
		return
	}
	st := state.Students[state.Index]
	text := fmt.Sprintf("%d/%d %s (NIS: %s)", state.Index+1, len(state.Students), st.Name, st.NIS)
	if row, ok := state.Data[st.ID]; ok && row.Status != "" {
		text += "\nSebelumnya: " + row.Status.Label()
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Hadir", "absen_st_hadir"),
			tgbotapi.NewInlineKeyboardButtonData("Sakit", "absen_st_sakit"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Izin", "absen_st_izin"),
			tgbotapi.NewInlineKeyboardButtonData("Alpha", "absen_st_alpha"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Lewati", "absen_st_skip"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Batal", "absen_cancel"),
		),
	)
	_, _ = tg.Send(env.Bot, msg)
}

func handleStatusPick(ctx context.Context, env *Env, chatID int64, state *absensiState, pick string) {
	st := state.Students[state.Index]
	if pick == "skip" {
		// Skipped means "not yet recorded": no entry for this student-date.
		delete(state.Data, st.ID)
		state.Index++
		promptStudent(ctx, env, chatID, state)
		return
	}

	status := models.Status(pick)
	if !status.Valid() {
		return
	}
	state.Data[st.ID] = attendance.SubmittedStatus{Status: status}

	if status == models.StatusSakit || status == models.StatusIzin {
		state.AwaitNote = true
		msg := tgbotapi.NewMessage(chatID, "Keterangan (opsional): ketik teks atau lewati.")
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Lewati", "absen_note_skip")))
		_, _ = tg.Send(env.Bot, msg)
		return
	}
	state.Index++
	promptStudent(ctx, env, chatID, state)
}

func confirmRoster(env *Env, chatID int64, state *absensiState) {
	state.Step = 4
	var entries []models.Attendance
	for _, row := range state.Data {
		entries = append(entries, models.Attendance{Status: row.Status})
	}
	c := attendance.CountByStatus(entries)
	text := fmt.Sprintf("Ringkasan %s, %s:\nHadir: %d  Sakit: %d  Izin: %d  Alpha: %d\nBelum diisi: %d",
		state.ClassName, state.Date, c.Hadir, c.Sakit, c.Izin, c.Alpha, len(state.Students)-c.Total())

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Simpan", "absen_save"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Batal", "absen_cancel"),
		),
	)
	_, _ = tg.Send(env.Bot, msg)
}

func saveRoster(ctx context.Context, env *Env, chatID int64, state *absensiState) {
	defer delete(absensiStates, chatID)

	_, err := env.Svc.SubmitDay(ctx, state.Date, state.ClassID, state.Data, state.UserID)
	if err != nil {
		metrics.HandlerErrors.Inc()
		env.Log.Errorw("submit roster", "date", state.Date, "class", state.ClassID, "err", err)
		_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "❌ Terjadi kesalahan saat menyimpan data."))
		return
	}
	_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "✅ Data absensi berhasil disimpan!"))
}

func cancelRow(cancelData string) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Batal", cancelData))
}
