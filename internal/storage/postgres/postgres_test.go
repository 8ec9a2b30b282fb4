//go:build testutil
// +build testutil

package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sojokerto/absensi-bot/internal/models"
	"github.com/sojokerto/absensi-bot/internal/storage"
	"github.com/sojokerto/absensi-bot/internal/storage/postgres"
	"github.com/sojokerto/absensi-bot/internal/testutil/testdb"
)

func startStore(t *testing.T) *postgres.Store {
	t.Helper()
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(h.Close)

	store := postgres.New(h.DB)
	if err := store.SeedIfEmpty(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return store
}

func TestSeedIfEmptyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := startStore(t)

	if err := store.SeedIfEmpty(ctx); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	users, err := store.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 4 {
		t.Fatalf("want 4 seeded users, got %d", len(users))
	}
}

func TestCRUDRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := startStore(t)

	cls := models.Class{ID: "c-new", Name: "Kelas 7", Level: "7", AcademicYear: "2024/2025"}
	if err := store.SaveClass(ctx, cls); err != nil {
		t.Fatalf("save class: %v", err)
	}
	got, err := store.GetClass(ctx, cls.ID)
	if err != nil {
		t.Fatalf("get class: %v", err)
	}
	if got.Name != cls.Name || got.AcademicYear != cls.AcademicYear {
		t.Fatalf("class round trip mismatch: %+v", got)
	}

	if err := store.DeleteClass(ctx, cls.ID); err != nil {
		t.Fatalf("delete class: %v", err)
	}
	if _, err := store.GetClass(ctx, cls.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
}

func TestDeleteTeacherCascades(t *testing.T) {
	ctx := context.Background()
	store := startStore(t)

	teacher, err := store.GetTeacher(ctx, "1")
	if err != nil {
		t.Fatalf("get teacher: %v", err)
	}
	if err := store.DeleteTeacher(ctx, teacher.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetUser(ctx, teacher.UserID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatal("linked user must go with the teacher")
	}
}

func TestReplaceDayClassAgainstCurrentMembership(t *testing.T) {
	ctx := context.Background()
	store := startStore(t)

	// class 1 holds students 1 and 2, class 2 holds 3 and 4
	if err := store.ReplaceAttendance(ctx, []models.Attendance{
		{ID: "a1", StudentID: "1", Date: "2024-09-02", Status: models.StatusHadir, TeacherID: "2"},
		{ID: "a2", StudentID: "3", Date: "2024-09-02", Status: models.StatusHadir, TeacherID: "3"},
		{ID: "a3", StudentID: "1", Date: "2024-09-01", Status: models.StatusAlpha, TeacherID: "2"},
	}); err != nil {
		t.Fatalf("seed attendance: %v", err)
	}

	if err := store.ReplaceDayClass(ctx, "2024-09-02", "1", []models.Attendance{
		{ID: "a4", StudentID: "1", Date: "2024-09-02", Status: models.StatusSakit, Note: "demam", TeacherID: "2"},
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	all, err := store.ListAttendance(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	ids := map[string]models.Attendance{}
	for _, a := range all {
		ids[a.ID] = a
	}
	if _, ok := ids["a1"]; ok {
		t.Fatal("in-scope entry a1 must be replaced")
	}
	if _, ok := ids["a2"]; !ok {
		t.Fatal("other-class entry a2 must survive")
	}
	if _, ok := ids["a3"]; !ok {
		t.Fatal("other-day entry a3 must survive")
	}
	if got := ids["a4"]; got.Status != models.StatusSakit || got.Note != "demam" {
		t.Fatalf("inserted entry mismatch: %+v", got)
	}
}

func TestSessionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := startStore(t)

	if err := store.SetSession(ctx, 7, "1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	// same chat logs in as someone else
	if err := store.SetSession(ctx, 7, "2"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	u, err := store.GetSession(ctx, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.ID != "2" {
		t.Fatalf("session must hold the latest login, got %s", u.ID)
	}
	if err := store.ClearSession(ctx, 7); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := store.GetSession(ctx, 7); !errors.Is(err, storage.ErrNotFound) {
		t.Fatal("session survived clear")
	}
}
