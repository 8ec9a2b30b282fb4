package models

import "time"

type Status string

const (
	StatusHadir Status = "hadir"
	StatusSakit Status = "sakit"
	StatusIzin  Status = "izin"
	StatusAlpha Status = "alpha"
)

// Statuses in the order used everywhere: forms, summaries, reports.
var Statuses = []Status{StatusHadir, StatusSakit, StatusIzin, StatusAlpha}

// Label returns the capitalized display form ("hadir" -> "Hadir").
func (s Status) Label() string {
	switch s {
	case StatusHadir:
		return "Hadir"
	case StatusSakit:
		return "Sakit"
	case StatusIzin:
		return "Izin"
	case StatusAlpha:
		return "Alpha"
	}
	return string(s)
}

func (s Status) Valid() bool {
	switch s {
	case StatusHadir, StatusSakit, StatusIzin, StatusAlpha:
		return true
	}
	return false
}

// DateLayout is the calendar-date form used for Attendance.Date. ISO dates
// sort lexicographically, so range filters compare strings directly.
const DateLayout = "2006-01-02"

// Attendance is one observation for one student on one date. SubjectID is
// kept in the schema but attendance is recorded per student-day; nothing
// reads it back.
type Attendance struct {
	ID        string
	StudentID string
	Date      string
	Status    Status
	Note      string
	TeacherID string
	SubjectID *string
}

// ValidDate reports whether s is a well-formed calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
