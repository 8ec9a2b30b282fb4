package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sojokerto/absensi-bot/internal/models"
	"github.com/sojokerto/absensi-bot/internal/storage"
	"github.com/sojokerto/absensi-bot/internal/tg"
	"go.uber.org/zap"
)

// AbsensiReminder pings signed-in homeroom teachers whose class has no
// attendance recorded for today. It fires once per chat per day, on the
// first tick at or after Hour local time.
type AbsensiReminder struct {
	Bot   *tgbotapi.BotAPI
	Store storage.Store
	Log   *zap.SugaredLogger
	Loc   *time.Location
	Hour  int

	mu   sync.Mutex
	sent map[string]bool // date + chat id
}

func (r *AbsensiReminder) Run(ctx context.Context) error {
	now := time.Now().In(r.Loc)
	if now.Hour() < r.Hour {
		return nil
	}
	today := now.Format(models.DateLayout)

	sessions, err := r.Store.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	if len(sessions) == 0 {
		return nil
	}
	teachers, err := r.Store.ListTeachers(ctx)
	if err != nil {
		return fmt.Errorf("list teachers: %w", err)
	}
	byUser := make(map[string]models.Teacher, len(teachers))
	for _, t := range teachers {
		byUser[t.UserID] = t
	}
	entries, err := r.Store.ListAttendance(ctx)
	if err != nil {
		return fmt.Errorf("list attendance: %w", err)
	}
	students, err := r.Store.ListStudents(ctx)
	if err != nil {
		return fmt.Errorf("list students: %w", err)
	}
	classOf := make(map[string]string, len(students))
	for _, s := range students {
		classOf[s.ID] = s.ClassID
	}
	recorded := make(map[string]bool)
	for _, e := range entries {
		if e.Date == today {
			recorded[classOf[e.StudentID]] = true
		}
	}

	for _, se := range sessions {
		t, ok := byUser[se.UserID]
		if !ok || t.ClassID == nil || recorded[*t.ClassID] {
			continue
		}
		key := today + "/" + fmt.Sprint(se.ChatID)
		r.mu.Lock()
		if r.sent == nil {
			r.sent = make(map[string]bool)
		}
		dup := r.sent[key]
		r.sent[key] = true
		r.mu.Unlock()
		if dup {
			continue
		}

		cls, err := r.Store.GetClass(ctx, *t.ClassID)
		name := *t.ClassID
		if err == nil {
			name = cls.Name
		}
		msg := tgbotapi.NewMessage(se.ChatID, fmt.Sprintf(
			"🔔 Pengingat: absensi %s untuk hari ini belum diisi.", name))
		if _, err := tg.Send(r.Bot, msg); err != nil {
			r.Log.Errorw("reminder send", "chat_id", se.ChatID, "err", err)
		}
	}

	// keep the dedupe map from growing across days
	r.mu.Lock()
	for key := range r.sent {
		if len(key) >= len(today) && key[:len(today)] != today {
			delete(r.sent, key)
		}
	}
	r.mu.Unlock()
	return nil
}
