package attendance

import (
	"testing"

	"github.com/sojokerto/absensi-bot/internal/models"
)

func twoClasses() []models.Student {
	return []models.Student{
		{ID: "s1", NIS: "001", Name: "Ahmad", ClassID: "c1"},
		{ID: "s2", NIS: "002", Name: "Siti", ClassID: "c1"},
		{ID: "s3", NIS: "003", Name: "Budi", ClassID: "c2"},
	}
}

func entry(id, studentID, date string, st models.Status) models.Attendance {
	return models.Attendance{ID: id, StudentID: studentID, Date: date, Status: st, TeacherID: "t1"}
}

func TestReconcileReplacesOnlyDayClassScope(t *testing.T) {
	students := twoClasses()
	all := []models.Attendance{
		entry("a1", "s1", "2024-09-02", models.StatusHadir), // same day, same class: replaced
		entry("a2", "s3", "2024-09-02", models.StatusSakit), // same day, other class: kept
		entry("a3", "s1", "2024-09-01", models.StatusAlpha), // other day: kept
	}

	got, err := Reconcile(all, students, "2024-09-02", "c1", map[string]SubmittedStatus{
		"s1": {Status: models.StatusIzin, Note: "acara keluarga"},
		"s2": {Status: models.StatusHadir},
	}, "t9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 4 {
		t.Fatalf("want 4 entries, got %d", len(got))
	}
	for _, a := range got {
		if a.ID == "a1" {
			t.Fatal("in-scope entry a1 should have been replaced")
		}
	}
	kept := map[string]bool{}
	for _, a := range got {
		kept[a.ID] = true
	}
	if !kept["a2"] || !kept["a3"] {
		t.Fatalf("out-of-scope entries must survive, got %v", kept)
	}

	var s1 *models.Attendance
	for i := range got {
		if got[i].StudentID == "s1" && got[i].Date == "2024-09-02" {
			s1 = &got[i]
		}
	}
	if s1 == nil {
		t.Fatal("no new entry for s1")
	}
	if s1.Status != models.StatusIzin || s1.Note != "acara keluarga" || s1.TeacherID != "t9" {
		t.Fatalf("wrong replacement entry: %+v", *s1)
	}
}

func TestReconcileKeepsEntriesOfUnknownStudents(t *testing.T) {
	// s9 was deleted from the roster; their history must not be clobbered.
	all := []models.Attendance{entry("a1", "s9", "2024-09-02", models.StatusHadir)}

	got, err := Reconcile(all, twoClasses(), "2024-09-02", "c1", nil, "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a1" {
		t.Fatalf("orphaned entry must be kept, got %+v", got)
	}
}

func TestReconcileEmptyStatusMeansNoEntry(t *testing.T) {
	got, err := Reconcile(nil, twoClasses(), "2024-09-02", "c1", map[string]SubmittedStatus{
		"s1": {Status: models.StatusHadir},
		"s2": {}, // left blank on the form
	}, "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 entry, got %d", len(got))
	}
	if got[0].StudentID != "s1" {
		t.Fatalf("want entry for s1, got %s", got[0].StudentID)
	}
}

func TestReconcileResubmissionDoesNotDuplicate(t *testing.T) {
	students := twoClasses()
	sub := map[string]SubmittedStatus{
		"s1": {Status: models.StatusHadir},
		"s2": {Status: models.StatusSakit, Note: "demam"},
	}

	first, err := Reconcile(nil, students, "2024-09-02", "c1", sub, "t1")
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	second, err := Reconcile(first, students, "2024-09-02", "c1", sub, "t1")
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}

	if len(second) != len(first) {
		t.Fatalf("resubmission grew the set: %d -> %d", len(first), len(second))
	}
	// ids are minted fresh on every save
	firstIDs := map[string]bool{}
	for _, a := range first {
		firstIDs[a.ID] = true
	}
	for _, a := range second {
		if firstIDs[a.ID] {
			t.Fatalf("entry id %s reused across submissions", a.ID)
		}
	}
}

func TestReconcileValidation(t *testing.T) {
	if _, err := Reconcile(nil, nil, "2024-09-02", "", nil, "t1"); err != ErrNoClassSelected {
		t.Fatalf("want ErrNoClassSelected, got %v", err)
	}
	if _, err := Reconcile(nil, nil, "02-09-2024", "c1", nil, "t1"); err != ErrBadDate {
		t.Fatalf("want ErrBadDate, got %v", err)
	}
	if _, err := Reconcile(nil, nil, "2024-02-30", "c1", nil, "t1"); err != ErrBadDate {
		t.Fatalf("want ErrBadDate for impossible date, got %v", err)
	}
}

func TestBuildWalksRosterOrder(t *testing.T) {
	students := twoClasses()
	sub := map[string]SubmittedStatus{
		"s2": {Status: models.StatusAlpha},
		"s1": {Status: models.StatusHadir},
	}
	got := Build(students, sub, "2024-09-02", "t1")
	if len(got) != 2 {
		t.Fatalf("want 2 entries, got %d", len(got))
	}
	if got[0].StudentID != "s1" || got[1].StudentID != "s2" {
		t.Fatalf("entries must follow roster order, got %s then %s", got[0].StudentID, got[1].StudentID)
	}
	for _, a := range got {
		if a.ID == "" {
			t.Fatal("entry minted without id")
		}
	}
}

func TestCountByStatus(t *testing.T) {
	c := CountByStatus([]models.Attendance{
		{Status: models.StatusHadir},
		{Status: models.StatusHadir},
		{Status: models.StatusSakit},
		{Status: models.StatusIzin},
		{Status: models.StatusAlpha},
		{Status: "unknown"},
	})
	if c.Hadir != 2 || c.Sakit != 1 || c.Izin != 1 || c.Alpha != 1 {
		t.Fatalf("wrong counts: %+v", c)
	}
	if c.Total() != 5 {
		t.Fatalf("want total 5, got %d", c.Total())
	}
}
