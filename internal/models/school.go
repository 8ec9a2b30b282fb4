package models

// Teacher carries an explicit UserID link to its login account and an
// optional ClassID assignment. The old deployment matched teachers to users
// by email and encoded the class in the free-text subject label; both links
// are stored as ids here.
type Teacher struct {
	ID           string
	NIP          string
	Name         string
	Email        string
	Phone        string
	SubjectLabel string
	UserID       string
	ClassID      *string
}

type Class struct {
	ID           string
	Name         string
	Level        string
	Major        string
	AcademicYear string
}

type Student struct {
	ID      string
	NIS     string
	Name    string
	ClassID string
	Gender  string // "L" | "P"
	Email   string
	Phone   string
}

type Subject struct {
	ID          string
	Code        string
	Name        string
	Description string
}
