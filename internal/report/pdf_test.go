package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/sojokerto/absensi-bot/internal/models"
)

var stamp = time.Date(2024, 9, 2, 10, 30, 0, 0, time.UTC)

func TestRenderDailyEmptySetStillProducesDocument(t *testing.T) {
	doc, err := RenderDaily(nil, Summary{}, "SDN 2 SOJOKERTO", "2024-09-02", "", stamp)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(doc, []byte("%PDF")) {
		t.Fatal("output is not a PDF document")
	}
}

func TestRenderMonthlyWithRecords(t *testing.T) {
	entries, students, classes := fixture()
	recs, sum := Monthly(entries, students, classes, "2024-09", "")
	doc, err := RenderMonthly(recs, sum, "SDN 2 SOJOKERTO", "2024-09", "", stamp)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(doc) == 0 {
		t.Fatal("empty document")
	}
}

func TestRenderFilteredManyPages(t *testing.T) {
	// enough rows to force page breaks and repeated table headers
	students := []models.Student{{ID: "s1", NIS: "001", Name: "Ahmad", ClassID: "c1"}}
	classes := []models.Class{{ID: "c1", Name: "Kelas 1"}}
	var entries []models.Attendance
	for day := 1; day <= 28; day++ {
		for rep := 0; rep < 4; rep++ {
			entries = append(entries, models.Attendance{
				ID:        "a",
				StudentID: "s1",
				Date:      time.Date(2024, 9, day, 0, 0, 0, 0, time.UTC).Format(models.DateLayout),
				Status:    models.StatusHadir,
			})
		}
	}
	recs := Filter(entries, students, classes, Options{})
	doc, err := RenderFiltered(recs, Summarize(recs), "SDN 2 SOJOKERTO", Options{}, "", stamp)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(doc, []byte("%PDF")) {
		t.Fatal("output is not a PDF document")
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("2024-09-02"); got != "02/09/2024" {
		t.Fatalf("want 02/09/2024, got %q", got)
	}
	// malformed input passes through rather than panicking
	if got := FormatDate("bogus"); got != "bogus" {
		t.Fatalf("want passthrough, got %q", got)
	}
}

func TestFormatMonth(t *testing.T) {
	if got := FormatMonth("2024-09"); got != "September 2024" {
		t.Fatalf("want September 2024, got %q", got)
	}
}

func TestFilterDescription(t *testing.T) {
	cases := []struct {
		opts      Options
		className string
		want      string
	}{
		{Options{DateFrom: "2024-09-01", DateTo: "2024-09-30"}, "Kelas 1", "Filter: 2024-09-01 s/d 2024-09-30 | Kelas: Kelas 1"},
		{Options{DateFrom: "2024-09-01"}, "", "Filter: Dari 2024-09-01 | Semua kelas"},
		{Options{DateTo: "2024-09-30"}, "", "Filter: Sampai 2024-09-30 | Semua kelas"},
		{Options{}, "", "Filter: Semua tanggal | Semua kelas"},
	}
	for _, c := range cases {
		if got := FilterDescription(c.opts, c.className); got != c.want {
			t.Fatalf("want %q, got %q", c.want, got)
		}
	}
}
