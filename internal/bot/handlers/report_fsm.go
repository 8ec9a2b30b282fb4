package handlers

import (
	"context"
	"regexp"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sojokerto/absensi-bot/internal/export"
	"github.com/sojokerto/absensi-bot/internal/metrics"
	"github.com/sojokerto/absensi-bot/internal/models"
	"github.com/sojokerto/absensi-bot/internal/report"
	"github.com/sojokerto/absensi-bot/internal/tg"
)

// Report flow: kind -> class scope -> date scope -> document. PDF for the
// three printable variants, Excel for the history download.
type reportState struct {
	Step      int    // 1 kind, 2 class, 3 dates
	Kind      string // harian | bulanan | rentang | riwayat
	UserID    string
	GuruOnly  bool // history restricted to the requesting teacher's entries
	ClassID   string
	ClassName string
	Date      string
	Month     string
	DateFrom  string
	DateTo    string
	AwaitFrom bool
	AwaitTo   bool
	AwaitText bool
}

var reportStates = make(map[int64]*reportState)

var monthRe = regexp.MustCompile(`^\d{4}-\d{2}$`)

func GetReportState(chatID int64) bool {
	_, ok := reportStates[chatID]
	return ok
}

// StartReports opens the printable-report picker (admin).
func StartReports(env *Env, chatID int64, userID string) {
	reportStates[chatID] = &reportState{Step: 1, UserID: userID}
	msg := tgbotapi.NewMessage(chatID, "📄 Laporan Absensi\nPilih jenis laporan:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Harian", "report_kind_harian"),
			tgbotapi.NewInlineKeyboardButtonData("Bulanan", "report_kind_bulanan"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Rentang tanggal", "report_kind_rentang"),
		),
		cancelRow("report_cancel"),
	)
	_, _ = tg.Send(env.Bot, msg)
}

// StartHistory opens the Excel history download. For a guru the result only
// contains entries that teacher recorded.
func StartHistory(ctx context.Context, env *Env, chatID int64, user *models.User) {
	reportStates[chatID] = &reportState{
		Step:     2,
		Kind:     "riwayat",
		UserID:   user.ID,
		GuruOnly: user.Role == models.RoleGuru,
	}
	askReportClass(ctx, env, chatID)
}

func HandleReportCallback(ctx context.Context, env *Env, cq *tgbotapi.CallbackQuery) {
	chatID := cq.Message.Chat.ID
	state := reportStates[chatID]
	if state == nil {
		return
	}
	data := cq.Data

	switch {
	case data == "report_cancel":
		delete(reportStates, chatID)
		_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "Dibatalkan."))

	case strings.HasPrefix(data, "report_kind_") && state.Step == 1:
		state.Kind = strings.TrimPrefix(data, "report_kind_")
		state.Step = 2
		askReportClass(ctx, env, chatID)

	case strings.HasPrefix(data, "report_class_") && state.Step == 2:
		id := strings.TrimPrefix(data, "report_class_")
		if id != "all" {
			cls, err := env.Store.GetClass(ctx, id)
			if err != nil {
				delete(reportStates, chatID)
				_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "❌ Kelas tidak ditemukan."))
				return
			}
			state.ClassID = id
			state.ClassName = cls.Name
		}
		state.Step = 3
		askReportDates(env, chatID, state)

	case data == "report_date_today" && state.Step == 3:
		state.Date = env.today()
		generateReport(ctx, env, chatID, state)

	case data == "report_month_now" && state.Step == 3:
		state.Month = env.now().Format("2006-01")
		generateReport(ctx, env, chatID, state)

	case data == "report_month_all" && state.Step == 3:
		generateReport(ctx, env, chatID, state)

	case data == "report_manual" && state.Step == 3:
		state.AwaitText = true
		switch state.Kind {
		case "harian":
			_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "Ketik tanggal (format 2024-09-01):"))
		default:
			_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "Ketik bulan (format 2024-09):"))
		}
	}
}

func HandleReportText(ctx context.Context, env *Env, m *tgbotapi.Message) {
	chatID := m.Chat.ID
	state := reportStates[chatID]
	if state == nil {
		return
	}
	text := strings.TrimSpace(m.Text)

	switch {
	case state.AwaitFrom:
		if text != "-" {
			if !models.ValidDate(text) {
				_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "⚠️ Tanggal tidak valid. Gunakan format 2024-09-01, atau - untuk tanpa batas."))
				return
			}
			state.DateFrom = text
		}
		state.AwaitFrom = false
		state.AwaitTo = true
		_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "Sampai tanggal (format 2024-09-30, atau - untuk tanpa batas):"))

	case state.AwaitTo:
		if text != "-" {
			if !models.ValidDate(text) {
				_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "⚠️ Tanggal tidak valid. Gunakan format 2024-09-30, atau - untuk tanpa batas."))
				return
			}
			state.DateTo = text
		}
		state.AwaitTo = false
		generateReport(ctx, env, chatID, state)

	case state.AwaitText && state.Kind == "harian":
		if !models.ValidDate(text) {
			_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "⚠️ Tanggal tidak valid. Gunakan format 2024-09-01."))
			return
		}
		state.Date = text
		generateReport(ctx, env, chatID, state)

	case state.AwaitText:
		if !monthRe.MatchString(text) {
			_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "⚠️ Bulan tidak valid. Gunakan format 2024-09."))
			return
		}
		state.Month = text
		generateReport(ctx, env, chatID, state)
	}
}

func askReportClass(ctx context.Context, env *Env, chatID int64) {
	classes, err := env.Store.ListClasses(ctx)
	if err != nil {
		metrics.HandlerErrors.Inc()
		delete(reportStates, chatID)
		_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "❌ Tidak dapat memuat daftar kelas."))
		return
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Semua kelas", "report_class_all")))
	for _, c := range classes {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(c.Name, "report_class_"+c.ID)))
	}
	rows = append(rows, cancelRow("report_cancel"))
	msg := tgbotapi.NewMessage(chatID, "Pilih kelas:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, _ = tg.Send(env.Bot, msg)
}

func askReportDates(env *Env, chatID int64, state *reportState) {
	switch state.Kind {
	case "harian":
		msg := tgbotapi.NewMessage(chatID, "Pilih tanggal:")
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Hari ini", "report_date_today"),
				tgbotapi.NewInlineKeyboardButtonData("Tanggal lain", "report_manual"),
			),
			cancelRow("report_cancel"),
		)
		_, _ = tg.Send(env.Bot, msg)
	case "bulanan", "riwayat":
		msg := tgbotapi.NewMessage(chatID, "Pilih bulan:")
		rows := [][]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Bulan ini", "report_month_now"),
				tgbotapi.NewInlineKeyboardButtonData("Bulan lain", "report_manual"),
			),
		}
		if state.Kind == "riwayat" {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Semua bulan", "report_month_all")))
		}
		rows = append(rows, cancelRow("report_cancel"))
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
		_, _ = tg.Send(env.Bot, msg)
	case "rentang":
		state.AwaitFrom = true
		_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "Dari tanggal (format 2024-09-01, atau - untuk tanpa batas):"))
	}
}

func generateReport(ctx context.Context, env *Env, chatID int64, state *reportState) {
	defer delete(reportStates, chatID)

	entries, err := env.Store.ListAttendance(ctx)
	if err == nil && state.GuruOnly {
		own := entries[:0]
		for _, e := range entries {
			if e.TeacherID == state.UserID {
				own = append(own, e)
			}
		}
		entries = own
	}
	var students []models.Student
	var classes []models.Class
	if err == nil {
		students, err = env.Store.ListStudents(ctx)
	}
	if err == nil {
		classes, err = env.Store.ListClasses(ctx)
	}
	if err != nil {
		metrics.HandlerErrors.Inc()
		env.Log.Errorw("report load", "err", err)
		_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "❌ Terjadi kesalahan saat menyusun laporan."))
		return
	}

	var (
		doc      []byte
		filename string
	)
	now := env.now()

	switch state.Kind {
	case "harian":
		recs, sum := report.Daily(entries, students, classes, state.Date, state.ClassID)
		doc, err = report.RenderDaily(recs, sum, env.School, state.Date, state.ClassName, now)
		filename = "laporan-absensi-harian-" + state.Date + ".pdf"
	case "bulanan":
		recs, sum := report.Monthly(entries, students, classes, state.Month, state.ClassID)
		doc, err = report.RenderMonthly(recs, sum, env.School, state.Month, state.ClassName, now)
		filename = "laporan-absensi-bulanan-" + state.Month + ".pdf"
	case "rentang":
		opts := report.Options{DateFrom: state.DateFrom, DateTo: state.DateTo, ClassID: state.ClassID}
		recs := report.Filter(entries, students, classes, opts)
		doc, err = report.RenderFiltered(recs, report.Summarize(recs), env.School, opts, state.ClassName, now)
		filename = "laporan-absensi-siswa.pdf"
	case "riwayat":
		var recs []report.Record
		if state.Month == "" {
			recs = report.Filter(entries, students, classes, report.Options{ClassID: state.ClassID})
		} else {
			recs, _ = report.Monthly(entries, students, classes, state.Month, state.ClassID)
		}
		var wb *export.HistoryWorkbook
		wb, err = export.NewHistoryWorkbook(recs)
		if err == nil {
			doc, err = wb.Bytes()
			filename = wb.Filename(now)
		}
	}
	if err != nil {
		metrics.HandlerErrors.Inc()
		env.Log.Errorw("report render", "kind", state.Kind, "err", err)
		_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "❌ Terjadi kesalahan saat menyusun laporan."))
		return
	}

	metrics.Reports.WithLabelValues(state.Kind).Inc()
	docMsg := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: doc})
	if _, err := tg.Send(env.Bot, docMsg); err != nil {
		metrics.HandlerErrors.Inc()
		env.Log.Errorw("report send", "err", err)
	}
}
