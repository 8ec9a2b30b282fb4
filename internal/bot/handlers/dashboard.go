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

// ShowDashboard renders today's snapshot. A guru sees their own class, an
// admin sees the whole school plus the master-data counts.
func ShowDashboard(ctx context.Context, env *Env, chatID int64, user *models.User) {
	if user.Role == models.RoleAdmin {
		showAdminDashboard(ctx, env, chatID)
		return
	}
	showGuruDashboard(ctx, env, chatID, user)
}

func showGuruDashboard(ctx context.Context, env *Env, chatID int64, user *models.User) {
	teacher := teacherForUser(ctx, env, user.ID)
	if teacher == nil || teacher.ClassID == nil {
		_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID,
			"Anda belum terhubung dengan kelas. Hubungi admin sekolah."))
		return
	}
	cls, err := env.Store.GetClass(ctx, *teacher.ClassID)
	if err != nil {
		dashboardFail(env, chatID, err)
		return
	}
	students, err := env.Store.ListStudentsByClass(ctx, cls.ID)
	if err != nil {
		dashboardFail(env, chatID, err)
		return
	}
	day, err := env.Svc.DayForClass(ctx, env.today(), cls.ID)
	if err != nil {
		dashboardFail(env, chatID, err)
		return
	}
	var counts attendance.Counts
	for _, sub := range day {
		counts.Add(sub.Status)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Dashboard %s\n\n", cls.Name)
	fmt.Fprintf(&b, "Jumlah siswa: %d\n", len(students))
	fmt.Fprintf(&b, "Absensi hari ini (%s):\n", env.today())
	if counts.Total() == 0 {
		b.WriteString("Belum ada absensi yang tercatat hari ini.\n")
	} else {
		fmt.Fprintf(&b, "✅ Hadir: %d\n🤒 Sakit: %d\n📝 Izin: %d\n❌ Alpha: %d\n",
			counts.Hadir, counts.Sakit, counts.Izin, counts.Alpha)
		if missing := len(students) - counts.Total(); missing > 0 {
			fmt.Fprintf(&b, "Belum tercatat: %d siswa\n", missing)
		}
	}
	_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, b.String()))
}

func showAdminDashboard(ctx context.Context, env *Env, chatID int64) {
	students, err := env.Store.ListStudents(ctx)
	if err != nil {
		dashboardFail(env, chatID, err)
		return
	}
	teachers, err := env.Store.ListTeachers(ctx)
	if err != nil {
		dashboardFail(env, chatID, err)
		return
	}
	classes, err := env.Store.ListClasses(ctx)
	if err != nil {
		dashboardFail(env, chatID, err)
		return
	}
	subjects, err := env.Store.ListSubjects(ctx)
	if err != nil {
		dashboardFail(env, chatID, err)
		return
	}
	entries, err := env.Store.ListAttendance(ctx)
	if err != nil {
		dashboardFail(env, chatID, err)
		return
	}

	today := env.today()
	var counts attendance.Counts
	for _, e := range entries {
		if e.Date == today {
			counts.Add(e.Status)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Dashboard %s\n\n", env.School)
	fmt.Fprintf(&b, "👥 Siswa: %d\n👩‍🏫 Guru: %d\n🏫 Kelas: %d\n📚 Mata pelajaran: %d\n\n",
		len(students), len(teachers), len(classes), len(subjects))
	fmt.Fprintf(&b, "Absensi hari ini (%s):\n", today)
	if counts.Total() == 0 {
		b.WriteString("Belum ada absensi yang tercatat hari ini.\n")
	} else {
		fmt.Fprintf(&b, "✅ Hadir: %d\n🤒 Sakit: %d\n📝 Izin: %d\n❌ Alpha: %d\n",
			counts.Hadir, counts.Sakit, counts.Izin, counts.Alpha)
	}
	_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, b.String()))
}

func teacherForUser(ctx context.Context, env *Env, userID string) *models.Teacher {
	teachers, err := env.Store.ListTeachers(ctx)
	if err != nil {
		return nil
	}
	for i := range teachers {
		if teachers[i].UserID == userID {
			return &teachers[i]
		}
	}
	return nil
}

func dashboardFail(env *Env, chatID int64, err error) {
	metrics.HandlerErrors.Inc()
	env.Log.Errorw("dashboard", "err", err)
	_, _ = tg.Send(env.Bot, tgbotapi.NewMessage(chatID, "❌ Tidak dapat memuat dashboard."))
}
