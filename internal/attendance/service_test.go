package attendance_test

import (
	"context"
	"testing"

	"github.com/sojokerto/absensi-bot/internal/attendance"
	"github.com/sojokerto/absensi-bot/internal/models"
	"github.com/sojokerto/absensi-bot/internal/storage/memory"
)

func seededService(t *testing.T) (*attendance.Service, *memory.Store) {
	t.Helper()
	store := memory.NewSeeded()
	return attendance.NewService(store), store
}

func TestSubmitDayPersistsRoster(t *testing.T) {
	ctx := context.Background()
	svc, store := seededService(t)

	students, err := store.ListStudentsByClass(ctx, "1")
	if err != nil {
		t.Fatalf("list students: %v", err)
	}
	if len(students) == 0 {
		t.Fatal("seed dataset has no students in class 1")
	}

	sub := map[string]attendance.SubmittedStatus{}
	for _, s := range students {
		sub[s.ID] = attendance.SubmittedStatus{Status: models.StatusHadir}
	}

	entries, err := svc.SubmitDay(ctx, "2024-09-02", "1", sub, "2")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(entries) != len(students) {
		t.Fatalf("want %d entries, got %d", len(students), len(entries))
	}

	all, err := store.ListAttendance(ctx)
	if err != nil {
		t.Fatalf("list attendance: %v", err)
	}
	if len(all) != len(students) {
		t.Fatalf("store holds %d entries, want %d", len(all), len(students))
	}
}

func TestSubmitDayResubmissionReplaces(t *testing.T) {
	ctx := context.Background()
	svc, store := seededService(t)

	students, _ := store.ListStudentsByClass(ctx, "1")
	first := map[string]attendance.SubmittedStatus{
		students[0].ID: {Status: models.StatusAlpha},
	}
	if _, err := svc.SubmitDay(ctx, "2024-09-02", "1", first, "2"); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	second := map[string]attendance.SubmittedStatus{
		students[0].ID: {Status: models.StatusHadir},
	}
	if _, err := svc.SubmitDay(ctx, "2024-09-02", "1", second, "2"); err != nil {
		t.Fatalf("second submit: %v", err)
	}

	all, _ := store.ListAttendance(ctx)
	if len(all) != 1 {
		t.Fatalf("want 1 entry after resubmission, got %d", len(all))
	}
	if all[0].Status != models.StatusHadir {
		t.Fatalf("want corrected status hadir, got %s", all[0].Status)
	}
}

func TestSubmitDayLeavesOtherClassAlone(t *testing.T) {
	ctx := context.Background()
	svc, store := seededService(t)

	c1, _ := store.ListStudentsByClass(ctx, "1")
	c2, _ := store.ListStudentsByClass(ctx, "2")
	if len(c1) == 0 || len(c2) == 0 {
		t.Fatal("seed classes 1 and 2 must both have students")
	}

	if _, err := svc.SubmitDay(ctx, "2024-09-02", "2", map[string]attendance.SubmittedStatus{
		c2[0].ID: {Status: models.StatusSakit, Note: "demam"},
	}, "3"); err != nil {
		t.Fatalf("class 2 submit: %v", err)
	}
	if _, err := svc.SubmitDay(ctx, "2024-09-02", "1", map[string]attendance.SubmittedStatus{
		c1[0].ID: {Status: models.StatusHadir},
	}, "2"); err != nil {
		t.Fatalf("class 1 submit: %v", err)
	}

	all, _ := store.ListAttendance(ctx)
	var sick int
	for _, a := range all {
		if a.StudentID == c2[0].ID && a.Status == models.StatusSakit {
			sick++
		}
	}
	if sick != 1 {
		t.Fatalf("class 2 entry must survive a class 1 submission, got %d", sick)
	}
}

func TestSubmitDayValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := seededService(t)

	if _, err := svc.SubmitDay(ctx, "2024-09-02", "", nil, "2"); err != attendance.ErrNoClassSelected {
		t.Fatalf("want ErrNoClassSelected, got %v", err)
	}
	if _, err := svc.SubmitDay(ctx, "not-a-date", "1", nil, "2"); err != attendance.ErrBadDate {
		t.Fatalf("want ErrBadDate, got %v", err)
	}
}

func TestDayForClassPrefillsOnlyThatScope(t *testing.T) {
	ctx := context.Background()
	svc, store := seededService(t)

	c1, _ := store.ListStudentsByClass(ctx, "1")
	if _, err := svc.SubmitDay(ctx, "2024-09-02", "1", map[string]attendance.SubmittedStatus{
		c1[0].ID: {Status: models.StatusIzin, Note: "acara keluarga"},
	}, "2"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	day, err := svc.DayForClass(ctx, "2024-09-02", "1")
	if err != nil {
		t.Fatalf("day for class: %v", err)
	}
	got, ok := day[c1[0].ID]
	if !ok {
		t.Fatal("recorded student missing from prefill")
	}
	if got.Status != models.StatusIzin || got.Note != "acara keluarga" {
		t.Fatalf("wrong prefill row: %+v", got)
	}

	other, err := svc.DayForClass(ctx, "2024-09-03", "1")
	if err != nil {
		t.Fatalf("day for class: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("other day must be empty, got %d rows", len(other))
	}
}
