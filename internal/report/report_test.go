package report

import (
	"testing"

	"github.com/sojokerto/absensi-bot/internal/models"
)

func fixture() ([]models.Attendance, []models.Student, []models.Class) {
	students := []models.Student{
		{ID: "s1", NIS: "001", Name: "Ahmad", ClassID: "c1"},
		{ID: "s2", NIS: "002", Name: "Siti", ClassID: "c2"},
		{ID: "s3", NIS: "003", Name: "Budi", ClassID: "ghost"}, // class deleted
	}
	classes := []models.Class{
		{ID: "c1", Name: "Kelas 1"},
		{ID: "c2", Name: "Kelas 2"},
	}
	entries := []models.Attendance{
		{ID: "a1", StudentID: "s1", Date: "2024-09-01", Status: models.StatusHadir},
		{ID: "a2", StudentID: "s1", Date: "2024-09-02", Status: models.StatusSakit, Note: "demam"},
		{ID: "a3", StudentID: "s2", Date: "2024-09-02", Status: models.StatusAlpha},
		{ID: "a4", StudentID: "s3", Date: "2024-10-01", Status: models.StatusIzin},
		{ID: "a5", StudentID: "gone", Date: "2024-09-02", Status: models.StatusHadir}, // student deleted
	}
	return entries, students, classes
}

func TestFilterJoinsAndSorts(t *testing.T) {
	entries, students, classes := fixture()

	got := Filter(entries, students, classes, Options{})
	if len(got) != 4 {
		t.Fatalf("want 4 records (orphaned entry dropped), got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Date < got[i].Date {
			t.Fatalf("records not sorted date descending: %s before %s", got[i-1].Date, got[i].Date)
		}
	}
	for _, r := range got {
		if r.ID == "a5" {
			t.Fatal("entry of a deleted student must be dropped")
		}
	}
}

func TestFilterInclusiveBounds(t *testing.T) {
	entries, students, classes := fixture()

	got := Filter(entries, students, classes, Options{DateFrom: "2024-09-02", DateTo: "2024-09-02"})
	if len(got) != 2 {
		t.Fatalf("want 2 records on the boundary date, got %d", len(got))
	}
	for _, r := range got {
		if r.Date != "2024-09-02" {
			t.Fatalf("record outside bounds: %s", r.Date)
		}
	}
}

func TestFilterByClassExcludesUnresolvable(t *testing.T) {
	entries, students, classes := fixture()

	got := Filter(entries, students, classes, Options{ClassID: "c1"})
	if len(got) != 2 {
		t.Fatalf("want 2 class c1 records, got %d", len(got))
	}

	// s3's class is gone; the record never matches a class filter but still
	// appears unfiltered, with the placeholder name.
	all := Filter(entries, students, classes, Options{})
	var ghost *Record
	for i := range all {
		if all[i].StudentID == "s3" {
			ghost = &all[i]
		}
	}
	if ghost == nil {
		t.Fatal("record with deleted class missing from unfiltered set")
	}
	if ghost.ClassName() != ClassNotFound {
		t.Fatalf("want placeholder %q, got %q", ClassNotFound, ghost.ClassName())
	}
}

func TestFilterIdempotent(t *testing.T) {
	entries, students, classes := fixture()
	opts := Options{DateFrom: "2024-09-01", DateTo: "2024-09-30"}

	once := Filter(entries, students, classes, opts)

	var again []models.Attendance
	for _, r := range once {
		again = append(again, r.Attendance)
	}
	twice := Filter(again, students, classes, opts)

	if len(once) != len(twice) {
		t.Fatalf("re-filtering changed the set: %d -> %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Fatalf("re-filtering reordered records at %d: %s vs %s", i, once[i].ID, twice[i].ID)
		}
	}
}

func TestSummarize(t *testing.T) {
	entries, students, classes := fixture()
	_, sum := Daily(entries, students, classes, "2024-09-02", "")
	if sum.Total != 2 || sum.Sakit != 1 || sum.Alpha != 1 || sum.Hadir != 0 {
		t.Fatalf("wrong daily summary: %+v", sum)
	}
}

func TestMonthlyEmptyMonth(t *testing.T) {
	entries, students, classes := fixture()
	recs, sum := Monthly(entries, students, classes, "2024-12", "")
	if len(recs) != 0 {
		t.Fatalf("want no records, got %d", len(recs))
	}
	if sum.Total != 0 || sum.Hadir != 0 {
		t.Fatalf("empty month must summarize to zero: %+v", sum)
	}
}

func TestMonthlyPrefixDoesNotCrossMonths(t *testing.T) {
	entries, students, classes := fixture()
	recs, _ := Monthly(entries, students, classes, "2024-09", "")
	for _, r := range recs {
		if r.Date >= "2024-10-01" {
			t.Fatalf("october entry leaked into september report: %s", r.Date)
		}
	}
	if len(recs) != 3 {
		t.Fatalf("want 3 september records, got %d", len(recs))
	}
}

func TestNoteOrDash(t *testing.T) {
	r := Record{Attendance: models.Attendance{Note: "  "}}
	if r.NoteOrDash() != "-" {
		t.Fatalf("blank note must render as dash, got %q", r.NoteOrDash())
	}
	r.Note = "demam"
	if r.NoteOrDash() != "demam" {
		t.Fatalf("non-empty note must pass through, got %q", r.NoteOrDash())
	}
}
