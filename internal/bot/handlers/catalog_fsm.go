package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/sojokerto/absensi-bot/internal/metrics"
	"github.com/sojokerto/absensi-bot/internal/models"
	"github.com/sojokerto/absensi-bot/internal/tg"
)

// Catalog flow: admin-only maintenance of the school master data. Entity ->
// action -> either a listing, a field-by-field add dialog, or a delete picker
// with confirmation.
type catalogState struct {
	Entity  string // siswa | guru | kelas | mapel
	Action  string // add | del
	Step    int
	Fields  map[string]string
	DelID   string
	DelName string
}

var catalogStates = make(map[int64]*catalogState)

func GetCatalogState(chatID int64) bool {
	_, ok := catalogStates[chatID]
	return ok
}

func StartCatalog(env *Env, chatID int64) {
	catalogStates[chatID] = &catalogState{}
	msg := tgbotapi.NewMessage(chatID, "🗂 Data Sekolah\nPilih data yang ingin dikelola:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Siswa", "catalog_ent_siswa"),
			tgbotapi.NewInlineKeyboardButtonData("Guru", "catalog_ent_guru"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Kelas", "catalog_ent_kelas"),
			tgbotapi.NewInlineKeyboardButtonData("Mata Pelajaran", "catalog_ent_mapel"),
		),
		cancelRow("catalog_cancel"),
	)
	_, _ = tg.Send(env.Bot, msg)
}

func HandleCatalogCallback(ctx context.Context, env *Env, cq *tgbotapi.CallbackQuery) {
	chatID := cq.Message.Chat.ID
	state := catalogStates[chatID]
	if state == nil {
		return
	}
	data := cq.Data

	switch {
	case data == "catalog_cancel":
		delete(catalogStates, chatID)
		_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "Dibatalkan."))

	case strings.HasPrefix(data, "catalog_ent_"):
		state.Entity = strings.TrimPrefix(data, "catalog_ent_")
		msg := tgbotapi.NewMessage(chatID, "Pilih aksi:")
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("📋 Lihat daftar", "catalog_list"),
				tgbotapi.NewInlineKeyboardButtonData("➕ Tambah", "catalog_add"),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🗑 Hapus", "catalog_del"),
			),
			cancelRow("catalog_cancel"),
		)
		_, _ = tg.Send(env.Bot, msg)

	case data == "catalog_list":
		listCatalog(ctx, env, chatID, state)

	case data == "catalog_add":
		state.Action = "add"
		state.Step = 1
		state.Fields = make(map[string]string)
		askNextField(ctx, env, chatID, state)

	case data == "catalog_del":
		state.Action = "del"
		askDeleteTarget(ctx, env, chatID, state)

	case strings.HasPrefix(data, "catalog_pick_"):
		// add dialog: class / gender choice made by button
		handleCatalogPick(ctx, env, chatID, state, strings.TrimPrefix(data, "catalog_pick_"))

	case strings.HasPrefix(data, "catalog_delid_"):
		state.DelID = strings.TrimPrefix(data, "catalog_delid_")
		confirmDelete(ctx, env, chatID, state)

	case data == "catalog_del_yes":
		doDelete(ctx, env, chatID, state)
	}
}

func HandleCatalogText(ctx context.Context, env *Env, m *tgbotapi.Message) {
	chatID := m.Chat.ID
	state := catalogStates[chatID]
	if state == nil || state.Action != "add" {
		return
	}
	text := strings.TrimSpace(m.Text)
	if text == "" {
		return
	}
	fields := catalogFields[state.Entity]
	if state.Step < 1 || state.Step > len(fields) || fields[state.Step-1].Prompt == "" {
		return // waiting for a button pick, not text
	}
	captureField(state, text)
	state.Step++
	askNextField(ctx, env, chatID, state)
}

// Field order per entity; "-" means skip an optional field.
var catalogFields = map[string][]struct {
	Key, Prompt string
	Optional    bool
}{
	"siswa": {
		{Key: "nis", Prompt: "NIS siswa:"},
		{Key: "name", Prompt: "Nama lengkap siswa:"},
		{Key: "class", Prompt: ""}, // picked by button
		{Key: "gender", Prompt: ""},
		{Key: "email", Prompt: "Email siswa (atau - untuk kosong):", Optional: true},
		{Key: "phone", Prompt: "No. telepon siswa (atau - untuk kosong):", Optional: true},
	},
	"guru": {
		{Key: "nip", Prompt: "NIP guru:"},
		{Key: "name", Prompt: "Nama lengkap guru:"},
		{Key: "email", Prompt: "Email guru (dipakai untuk login):"},
		{Key: "password", Prompt: "Password akun guru:"},
		{Key: "subject", Prompt: "Jabatan / mata pelajaran (contoh: Guru Kelas 1):"},
		{Key: "phone", Prompt: "No. telepon guru (atau - untuk kosong):", Optional: true},
		{Key: "class", Prompt: ""},
	},
	"kelas": {
		{Key: "name", Prompt: "Nama kelas (contoh: Kelas 1):"},
		{Key: "level", Prompt: "Tingkat (contoh: 1):"},
		{Key: "year", Prompt: "Tahun ajaran (contoh: 2024/2025):"},
	},
	"mapel": {
		{Key: "code", Prompt: "Kode mata pelajaran (contoh: MTK):"},
		{Key: "name", Prompt: "Nama mata pelajaran:"},
		{Key: "desc", Prompt: "Deskripsi (atau - untuk kosong):", Optional: true},
	},
}

func captureField(state *catalogState, text string) {
	fields := catalogFields[state.Entity]
	if state.Step < 1 || state.Step > len(fields) {
		return
	}
	f := fields[state.Step-1]
	if f.Optional && text == "-" {
		text = ""
	}
	state.Fields[f.Key] = text
}

func askNextField(ctx context.Context, env *Env, chatID int64, state *catalogState) {
	fields := catalogFields[state.Entity]
	if state.Step > len(fields) {
		saveCatalogEntry(ctx, env, chatID, state)
		return
	}
	f := fields[state.Step-1]
	switch f.Key {
	case "class":
		askClassPick(ctx, env, chatID, state.Entity == "guru")
	case "gender":
		msg := tgbotapi.NewMessage(chatID, "Jenis kelamin:")
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Laki-laki", "catalog_pick_L"),
				tgbotapi.NewInlineKeyboardButtonData("Perempuan", "catalog_pick_P"),
			),
			cancelRow("catalog_cancel"),
		)
		_, _ = tg.Send(env.Bot, msg)
	default:
		_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, f.Prompt))
	}
}

func askClassPick(ctx context.Context, env *Env, chatID int64, optional bool) {
	classes, err := env.Store.ListClasses(ctx)
	if err != nil {
		metrics.HandlerErrors.Inc()
		delete(catalogStates, chatID)
		_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "❌ Tidak dapat memuat daftar kelas."))
		return
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, c := range classes {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(c.Name, "catalog_pick_"+c.ID)))
	}
	if optional {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Tanpa kelas (bukan wali kelas)", "catalog_pick_none")))
	}
	rows = append(rows, cancelRow("catalog_cancel"))
	msg := tgbotapi.NewMessage(chatID, "Pilih kelas:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, _ = tg.Send(env.Bot, msg)
}

func handleCatalogPick(ctx context.Context, env *Env, chatID int64, state *catalogState, pick string) {
	fields := catalogFields[state.Entity]
	if state.Step < 1 || state.Step > len(fields) {
		return
	}
	key := fields[state.Step-1].Key
	if pick == "none" {
		pick = ""
	}
	state.Fields[key] = pick
	state.Step++
	askNextField(ctx, env, chatID, state)
}

func saveCatalogEntry(ctx context.Context, env *Env, chatID int64, state *catalogState) {
	defer delete(catalogStates, chatID)
	f := state.Fields
	var err error
	switch state.Entity {
	case "siswa":
		err = env.Store.SaveStudent(ctx, models.Student{
			ID:      uuid.NewString(),
			NIS:     f["nis"],
			Name:    f["name"],
			ClassID: f["class"],
			Gender:  f["gender"],
			Email:   f["email"],
			Phone:   f["phone"],
		})
	case "guru":
		// A teacher always gets a login account; deleting the teacher later
		// removes the account too.
		user := models.User{
			ID:       uuid.NewString(),
			Email:    f["email"],
			Password: f["password"],
			Role:     models.RoleGuru,
			Name:     f["name"],
		}
		if err = env.Store.SaveUser(ctx, user); err == nil {
			var classID *string
			if f["class"] != "" {
				v := f["class"]
				classID = &v
			}
			err = env.Store.SaveTeacher(ctx, models.Teacher{
				ID:           uuid.NewString(),
				NIP:          f["nip"],
				Name:         f["name"],
				Email:        f["email"],
				Phone:        f["phone"],
				SubjectLabel: f["subject"],
				UserID:       user.ID,
				ClassID:      classID,
			})
		}
	case "kelas":
		err = env.Store.SaveClass(ctx, models.Class{
			ID:           uuid.NewString(),
			Name:         f["name"],
			Level:        f["level"],
			AcademicYear: f["year"],
		})
	case "mapel":
		err = env.Store.SaveSubject(ctx, models.Subject{
			ID:          uuid.NewString(),
			Code:        f["code"],
			Name:        f["name"],
			Description: f["desc"],
		})
	}
	if err != nil {
		metrics.HandlerErrors.Inc()
		env.Log.Errorw("catalog save", "entity", state.Entity, "err", err)
		_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "❌ Data gagal disimpan."))
		return
	}
	_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "✅ Data berhasil disimpan."))
}

func listCatalog(ctx context.Context, env *Env, chatID int64, state *catalogState) {
	defer delete(catalogStates, chatID)
	var b strings.Builder
	switch state.Entity {
	case "siswa":
		students, err := env.Store.ListStudents(ctx)
		if err != nil {
			catalogLoadFail(env, chatID, err)
			return
		}
		classes, _ := env.Store.ListClasses(ctx)
		names := classNames(classes)
		b.WriteString(fmt.Sprintf("👥 Siswa (%d):\n", len(students)))
		for _, s := range students {
			b.WriteString(fmt.Sprintf("• %s (%s) %s\n", s.Name, s.NIS, names[s.ClassID]))
		}
	case "guru":
		teachers, err := env.Store.ListTeachers(ctx)
		if err != nil {
			catalogLoadFail(env, chatID, err)
			return
		}
		b.WriteString(fmt.Sprintf("👩‍🏫 Guru (%d):\n", len(teachers)))
		for _, t := range teachers {
			b.WriteString(fmt.Sprintf("• %s (%s) %s\n", t.Name, t.NIP, t.SubjectLabel))
		}
	case "kelas":
		classes, err := env.Store.ListClasses(ctx)
		if err != nil {
			catalogLoadFail(env, chatID, err)
			return
		}
		b.WriteString(fmt.Sprintf("🏫 Kelas (%d):\n", len(classes)))
		for _, c := range classes {
			b.WriteString(fmt.Sprintf("• %s (%s)\n", c.Name, c.AcademicYear))
		}
	case "mapel":
		subjects, err := env.Store.ListSubjects(ctx)
		if err != nil {
			catalogLoadFail(env, chatID, err)
			return
		}
		b.WriteString(fmt.Sprintf("📚 Mata Pelajaran (%d):\n", len(subjects)))
		for _, s := range subjects {
			b.WriteString(fmt.Sprintf("• %s - %s\n", s.Code, s.Name))
		}
	}
	_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, b.String()))
}

func askDeleteTarget(ctx context.Context, env *Env, chatID int64, state *catalogState) {
	type item struct{ ID, Label string }
	var items []item
	var err error
	switch state.Entity {
	case "siswa":
		var students []models.Student
		students, err = env.Store.ListStudents(ctx)
		for _, s := range students {
			items = append(items, item{s.ID, fmt.Sprintf("%s (%s)", s.Name, s.NIS)})
		}
	case "guru":
		var teachers []models.Teacher
		teachers, err = env.Store.ListTeachers(ctx)
		for _, t := range teachers {
			items = append(items, item{t.ID, t.Name})
		}
	case "kelas":
		var classes []models.Class
		classes, err = env.Store.ListClasses(ctx)
		for _, c := range classes {
			items = append(items, item{c.ID, c.Name})
		}
	case "mapel":
		var subjects []models.Subject
		subjects, err = env.Store.ListSubjects(ctx)
		for _, s := range subjects {
			items = append(items, item{s.ID, s.Name})
		}
	}
	if err != nil {
		catalogLoadFail(env, chatID, err)
		delete(catalogStates, chatID)
		return
	}
	if len(items) == 0 {
		delete(catalogStates, chatID)
		_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "Tidak ada data untuk dihapus."))
		return
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, it := range items {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(it.Label, "catalog_delid_"+it.ID)))
	}
	rows = append(rows, cancelRow("catalog_cancel"))
	msg := tgbotapi.NewMessage(chatID, "Pilih data yang akan dihapus:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, _ = tg.Send(env.Bot, msg)
}

func confirmDelete(ctx context.Context, env *Env, chatID int64, state *catalogState) {
	label := state.DelID
	switch state.Entity {
	case "siswa":
		if s, err := env.Store.GetStudent(ctx, state.DelID); err == nil {
			label = s.Name
		}
	case "guru":
		if t, err := env.Store.GetTeacher(ctx, state.DelID); err == nil {
			label = t.Name
		}
	case "kelas":
		if c, err := env.Store.GetClass(ctx, state.DelID); err == nil {
			label = c.Name
		}
	}
	state.DelName = label
	text := fmt.Sprintf("Hapus %q?", label)
	if state.Entity == "guru" {
		text += "\nAkun login guru ini ikut terhapus."
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Hapus", "catalog_del_yes"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Batal", "catalog_cancel"),
		),
	)
	_, _ = tg.Send(env.Bot, msg)
}

func doDelete(ctx context.Context, env *Env, chatID int64, state *catalogState) {
	defer delete(catalogStates, chatID)
	var err error
	switch state.Entity {
	case "siswa":
		err = env.Store.DeleteStudent(ctx, state.DelID)
	case "guru":
		err = env.Store.DeleteTeacher(ctx, state.DelID)
	case "kelas":
		err = env.Store.DeleteClass(ctx, state.DelID)
	case "mapel":
		err = env.Store.DeleteSubject(ctx, state.DelID)
	}
	if err != nil {
		metrics.HandlerErrors.Inc()
		env.Log.Errorw("catalog delete", "entity", state.Entity, "err", err)
		_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "❌ Data gagal dihapus."))
		return
	}
	_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ %q dihapus.", state.DelName)))
}

func catalogLoadFail(env *Env, chatID int64, err error) {
	metrics.HandlerErrors.Inc()
	env.Log.Errorw("catalog load", "err", err)
	_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "❌ Tidak dapat memuat data."))
}

func classNames(classes []models.Class) map[string]string {
	m := make(map[string]string, len(classes))
	for _, c := range classes {
		m[c.ID] = c.Name
	}
	return m
}
