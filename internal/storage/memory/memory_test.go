package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/sojokerto/absensi-bot/internal/models"
	"github.com/sojokerto/absensi-bot/internal/storage"
)

func TestGetUnknownReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.GetStudent(ctx, "nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if _, err := s.GetSession(ctx, 42); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("want ErrNotFound for missing session, got %v", err)
	}
}

func TestSaveIsUpsert(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.SaveClass(ctx, models.Class{ID: "c1", Name: "Kelas 1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.SaveClass(ctx, models.Class{ID: "c1", Name: "Kelas 1A"}); err != nil {
		t.Fatalf("resave: %v", err)
	}
	classes, _ := s.ListClasses(ctx)
	if len(classes) != 1 || classes[0].Name != "Kelas 1A" {
		t.Fatalf("save must overwrite by id, got %+v", classes)
	}
}

func TestDeleteTeacherCascadesToUser(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded()

	teacher, err := s.GetTeacher(ctx, "1")
	if err != nil {
		t.Fatalf("get teacher: %v", err)
	}
	if err := s.DeleteTeacher(ctx, teacher.ID); err != nil {
		t.Fatalf("delete teacher: %v", err)
	}
	if _, err := s.GetTeacher(ctx, teacher.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatal("teacher still present")
	}
	if _, err := s.GetUser(ctx, teacher.UserID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatal("linked user must be deleted with the teacher")
	}
}

func TestListStudentsByClass(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded()

	students, err := s.ListStudentsByClass(ctx, "1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("seed puts 2 students in class 1, got %d", len(students))
	}
	for _, st := range students {
		if st.ClassID != "1" {
			t.Fatalf("student %s from class %s leaked in", st.ID, st.ClassID)
		}
	}
}

func TestReplaceDayClassScoping(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded()

	// one entry in class 1, one in class 2, same date
	if err := s.ReplaceAttendance(ctx, []models.Attendance{
		{ID: "a1", StudentID: "1", Date: "2024-09-02", Status: models.StatusHadir},
		{ID: "a2", StudentID: "3", Date: "2024-09-02", Status: models.StatusSakit},
	}); err != nil {
		t.Fatalf("seed entries: %v", err)
	}

	if err := s.ReplaceDayClass(ctx, "2024-09-02", "1", []models.Attendance{
		{ID: "a3", StudentID: "1", Date: "2024-09-02", Status: models.StatusAlpha},
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	all, _ := s.ListAttendance(ctx)
	if len(all) != 2 {
		t.Fatalf("want 2 entries after replace, got %d", len(all))
	}
	ids := map[string]bool{}
	for _, a := range all {
		ids[a.ID] = true
	}
	if ids["a1"] {
		t.Fatal("in-scope entry a1 must be gone")
	}
	if !ids["a2"] || !ids["a3"] {
		t.Fatalf("want a2 kept and a3 inserted, got %v", ids)
	}
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded()

	if err := s.SetSession(ctx, 7, "1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	u, err := s.GetSession(ctx, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.ID != "1" {
		t.Fatalf("wrong session user: %s", u.ID)
	}

	sessions, err := s.ListSessions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ChatID != 7 || sessions[0].UserID != "1" {
		t.Fatalf("wrong session list: %+v", sessions)
	}

	if err := s.ClearSession(ctx, 7); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := s.GetSession(ctx, 7); !errors.Is(err, storage.ErrNotFound) {
		t.Fatal("session survived clear")
	}
}
