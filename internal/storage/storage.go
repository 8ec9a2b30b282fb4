// Package storage defines the persistence port shared by the Postgres
// backend and the in-memory implementation used in tests.
package storage

import (
	"context"
	"errors"

	"github.com/sojokerto/absensi-bot/internal/models"
)

var ErrNotFound = errors.New("not found")

// Store is the persistence surface of the application. Lookups for ids that
// no longer exist return ErrNotFound; callers render a placeholder instead
// of failing the surrounding operation.
type Store interface {
	// Users.
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	SaveUser(ctx context.Context, u models.User) error
	DeleteUser(ctx context.Context, id string) error

	// Teachers. DeleteTeacher cascades to the linked user account; attendance
	// rows recorded under that user id stay behind.
	ListTeachers(ctx context.Context) ([]models.Teacher, error)
	GetTeacher(ctx context.Context, id string) (*models.Teacher, error)
	SaveTeacher(ctx context.Context, t models.Teacher) error
	DeleteTeacher(ctx context.Context, id string) error

	// Classes.
	ListClasses(ctx context.Context) ([]models.Class, error)
	GetClass(ctx context.Context, id string) (*models.Class, error)
	SaveClass(ctx context.Context, c models.Class) error
	DeleteClass(ctx context.Context, id string) error

	// Students.
	ListStudents(ctx context.Context) ([]models.Student, error)
	ListStudentsByClass(ctx context.Context, classID string) ([]models.Student, error)
	GetStudent(ctx context.Context, id string) (*models.Student, error)
	SaveStudent(ctx context.Context, s models.Student) error
	DeleteStudent(ctx context.Context, id string) error

	// Subjects.
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	SaveSubject(ctx context.Context, s models.Subject) error
	DeleteSubject(ctx context.Context, id string) error

	// Attendance. ReplaceDayClass atomically removes every entry whose date
	// matches and whose student currently belongs to classID, then inserts
	// the given entries. Entries outside that scope are never touched.
	ListAttendance(ctx context.Context) ([]models.Attendance, error)
	ReplaceDayClass(ctx context.Context, date, classID string, entries []models.Attendance) error
	ReplaceAttendance(ctx context.Context, entries []models.Attendance) error

	// Session slot, one per chat.
	ListSessions(ctx context.Context) ([]models.Session, error)
	GetSession(ctx context.Context, chatID int64) (*models.User, error)
	SetSession(ctx context.Context, chatID int64, userID string) error
	ClearSession(ctx context.Context, chatID int64) error
}
