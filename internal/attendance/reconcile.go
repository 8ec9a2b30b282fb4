// Package attendance implements the reconciliation rules for daily roster
// submissions: a submission for one date and one class replaces exactly the
// entries inside that scope and nothing else.
package attendance

import (
	"errors"

	"github.com/google/uuid"
	"github.com/sojokerto/absensi-bot/internal/models"
)

// ErrNoClassSelected is returned when a submission arrives without a class;
// the caller surfaces it as a validation message and nothing is persisted.
var ErrNoClassSelected = errors.New("kelas belum dipilih")

var ErrBadDate = errors.New("tanggal tidak valid")

// SubmittedStatus is one student's row in a roster submission. An empty
// Status means "not yet recorded" and produces no entry.
type SubmittedStatus struct {
	Status models.Status
	Note   string
}

// Untouched returns the entries that lie outside the (date, classID) scope:
// everything whose date differs, plus entries whose student does not
// currently belong to classID. Class membership is evaluated against the
// students slice as it is now, so an entry for a student who has since moved
// to another class is kept, not replaced.
func Untouched(all []models.Attendance, students []models.Student, date, classID string) []models.Attendance {
	byID := make(map[string]string, len(students))
	for _, s := range students {
		byID[s.ID] = s.ClassID
	}
	out := make([]models.Attendance, 0, len(all))
	for _, a := range all {
		if a.Date == date && byID[a.StudentID] == classID {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Build mints the new entries for one submission. Students are walked in
// slice order so the result is deterministic; students with an empty status
// are skipped. Every entry gets a fresh id even when the content repeats an
// earlier submission.
func Build(students []models.Student, sub map[string]SubmittedStatus, date, teacherID string) []models.Attendance {
	out := make([]models.Attendance, 0, len(sub))
	for _, s := range students {
		row, ok := sub[s.ID]
		if !ok || row.Status == "" {
			continue
		}
		out = append(out, models.Attendance{
			ID:        uuid.NewString(),
			StudentID: s.ID,
			Date:      date,
			Status:    row.Status,
			Note:      row.Note,
			TeacherID: teacherID,
		})
	}
	return out
}

// Reconcile merges a roster submission into the full attendance collection:
// the untouched set plus the rebuilt set for (date, classID). The result is
// the complete new collection, written back as one unit.
func Reconcile(all []models.Attendance, students []models.Student, date, classID string, sub map[string]SubmittedStatus, teacherID string) ([]models.Attendance, error) {
	if classID == "" {
		return nil, ErrNoClassSelected
	}
	if !models.ValidDate(date) {
		return nil, ErrBadDate
	}

	kept := Untouched(all, students, date, classID)

	inClass := make([]models.Student, 0, len(students))
	for _, s := range students {
		if s.ClassID == classID {
			inClass = append(inClass, s)
		}
	}
	return append(kept, Build(inClass, sub, date, teacherID)...), nil
}

// Counts holds per-status totals over an arbitrary entry set.
type Counts struct {
	Hadir int
	Sakit int
	Izin  int
	Alpha int
}

func (c Counts) Total() int { return c.Hadir + c.Sakit + c.Izin + c.Alpha }

// Add bumps the bucket for s; unknown statuses are ignored.
func (c *Counts) Add(s models.Status) {
	switch s {
	case models.StatusHadir:
		c.Hadir++
	case models.StatusSakit:
		c.Sakit++
	case models.StatusIzin:
		c.Izin++
	case models.StatusAlpha:
		c.Alpha++
	}
}

// CountByStatus is a pure reduction used both by the live form summary and
// by reports.
func CountByStatus(entries []models.Attendance) Counts {
	var c Counts
	for _, a := range entries {
		c.Add(a.Status)
	}
	return c
}
