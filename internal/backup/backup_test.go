package backup_test

import (
	"context"
	"testing"
	"time"

	"github.com/sojokerto/absensi-bot/internal/backup"
	"github.com/sojokerto/absensi-bot/internal/models"
	"github.com/sojokerto/absensi-bot/internal/storage/memory"
)

func TestDumpRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := memory.NewSeeded()
	if err := src.ReplaceAttendance(ctx, []models.Attendance{
		{ID: "a1", StudentID: "1", Date: "2024-09-02", Status: models.StatusHadir, TeacherID: "2"},
	}); err != nil {
		t.Fatalf("seed attendance: %v", err)
	}

	data, err := backup.Dump(ctx, src, time.Date(2024, 9, 2, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("dump: %v", err)
	}

	snap, err := backup.Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if snap.Version != backup.SnapshotVersion {
		t.Fatalf("wrong version: %d", snap.Version)
	}
	if len(snap.Students) != 12 || len(snap.Teachers) != 3 || len(snap.Attendance) != 1 {
		t.Fatalf("wrong snapshot counts: students=%d teachers=%d attendance=%d",
			len(snap.Students), len(snap.Teachers), len(snap.Attendance))
	}

	dst := memory.New()
	if err := backup.Restore(ctx, dst, snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	students, _ := dst.ListStudents(ctx)
	if len(students) != 12 {
		t.Fatalf("restored %d students, want 12", len(students))
	}
	entries, _ := dst.ListAttendance(ctx)
	if len(entries) != 1 || entries[0].ID != "a1" {
		t.Fatalf("attendance not restored: %+v", entries)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := backup.Parse([]byte("not json")); err == nil {
		t.Fatal("want error for malformed document")
	}
	if _, err := backup.Parse([]byte(`{"version": 99}`)); err == nil {
		t.Fatal("want error for unsupported version")
	}
}

func TestRestoreOverwritesById(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSeeded()

	snap := &backup.Snapshot{
		Version: backup.SnapshotVersion,
		Users:   []models.User{{ID: "1", Email: "admin@sekolah.edu", Password: "rotated", Role: models.RoleAdmin, Name: "Administrator"}},
	}
	if err := backup.Restore(ctx, store, snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	u, err := store.GetUser(ctx, "1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.Password != "rotated" {
		t.Fatalf("user not overwritten, password %q", u.Password)
	}
	// untouched records survive a partial snapshot
	teachers, _ := store.ListTeachers(ctx)
	if len(teachers) != 3 {
		t.Fatalf("teachers clobbered: %d", len(teachers))
	}
}
