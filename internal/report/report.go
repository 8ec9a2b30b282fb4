// Package report derives read-only views and printable documents from the
// attendance collection. Nothing here mutates state.
package report

import (
	"sort"
	"strings"

	"github.com/sojokerto/absensi-bot/internal/models"
)

// ClassNotFound is the placeholder rendered when a record's class can no
// longer be resolved.
const ClassNotFound = "Kelas tidak ditemukan"

// Record is one attendance entry joined to its student and, when still
// resolvable, the student's class.
type Record struct {
	models.Attendance
	Student models.Student
	Class   *models.Class
}

// ClassName returns the class display name or the placeholder.
func (r Record) ClassName() string {
	if r.Class == nil {
		return ClassNotFound
	}
	return r.Class.Name
}

// NoteOrDash returns the note or "-" when empty.
func (r Record) NoteOrDash() string {
	if strings.TrimSpace(r.Note) == "" {
		return "-"
	}
	return r.Note
}

// Options bounds a filter run. Empty fields mean "no bound". Date bounds are
// inclusive and compared as strings, which is exact for ISO calendar dates.
type Options struct {
	DateFrom string
	DateTo   string
	ClassID  string
}

// Filter joins entries against students and classes, drops entries whose
// student no longer exists, applies the bounds and returns records sorted by
// date descending; ties keep the original collection order.
func Filter(entries []models.Attendance, students []models.Student, classes []models.Class, opts Options) []Record {
	studentByID := make(map[string]models.Student, len(students))
	for _, s := range students {
		studentByID[s.ID] = s
	}
	classByID := make(map[string]models.Class, len(classes))
	for _, c := range classes {
		classByID[c.ID] = c
	}

	out := make([]Record, 0, len(entries))
	for _, a := range entries {
		st, ok := studentByID[a.StudentID]
		if !ok {
			continue
		}
		rec := Record{Attendance: a, Student: st}
		if c, ok := classByID[st.ClassID]; ok {
			rec.Class = &c
		}

		if opts.DateFrom != "" && a.Date < opts.DateFrom {
			continue
		}
		if opts.DateTo != "" && a.Date > opts.DateTo {
			continue
		}
		if opts.ClassID != "" && (rec.Class == nil || rec.Class.ID != opts.ClassID) {
			continue
		}
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// Summary is the labeled count block printed on every report.
type Summary struct {
	Total int
	Hadir int
	Sakit int
	Izin  int
	Alpha int
}

// Summarize is a pure reduction over a filtered record set.
func Summarize(records []Record) Summary {
	var s Summary
	s.Total = len(records)
	for _, r := range records {
		switch r.Status {
		case models.StatusHadir:
			s.Hadir++
		case models.StatusSakit:
			s.Sakit++
		case models.StatusIzin:
			s.Izin++
		case models.StatusAlpha:
			s.Alpha++
		}
	}
	return s
}

// Daily scopes the collection to exactly one date.
func Daily(entries []models.Attendance, students []models.Student, classes []models.Class, date, classID string) ([]Record, Summary) {
	recs := Filter(entries, students, classes, Options{DateFrom: date, DateTo: date, ClassID: classID})
	return recs, Summarize(recs)
}

// Monthly scopes the collection to one calendar month ("2006-01"), matched
// by string prefix on the ISO date.
func Monthly(entries []models.Attendance, students []models.Student, classes []models.Class, yearMonth, classID string) ([]Record, Summary) {
	recs := Filter(entries, students, classes, Options{ClassID: classID})
	out := recs[:0]
	for _, r := range recs {
		if strings.HasPrefix(r.Date, yearMonth) {
			out = append(out, r)
		}
	}
	return out, Summarize(out)
}
