// Package memory implements the storage port in process memory. It backs
// the unit tests and any run that needs a throwaway store.
package memory

import (
	"context"
	"sync"

	"github.com/sojokerto/absensi-bot/internal/attendance"
	"github.com/sojokerto/absensi-bot/internal/models"
	"github.com/sojokerto/absensi-bot/internal/seed"
	"github.com/sojokerto/absensi-bot/internal/storage"
)

type Store struct {
	mu         sync.Mutex
	users      []models.User
	teachers   []models.Teacher
	classes    []models.Class
	students   []models.Student
	subjects   []models.Subject
	attendance []models.Attendance
	sessions   map[int64]string
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{sessions: make(map[int64]string)}
}

// NewSeeded returns a store preloaded with the bundled dataset, the same one
// the Postgres backend seeds on first run.
func NewSeeded() *Store {
	s := New()
	s.users = seed.Users()
	s.teachers = seed.Teachers()
	s.classes = seed.Classes()
	s.students = seed.Students()
	s.subjects = seed.Subjects()
	return s
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.User(nil), s.users...), nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) SaveUser(ctx context.Context, u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == u.ID {
			s.users[i] = u
			return nil
		}
	}
	s.users = append(s.users, u)
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = deleteByID(s.users, id, func(u models.User) string { return u.ID })
	return nil
}

func (s *Store) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Teacher(nil), s.teachers...), nil
}

func (s *Store) GetTeacher(ctx context.Context, id string) (*models.Teacher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.teachers {
		if t.ID == id {
			t := t
			return &t, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) SaveTeacher(ctx context.Context, t models.Teacher) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.teachers {
		if s.teachers[i].ID == t.ID {
			s.teachers[i] = t
			return nil
		}
	}
	s.teachers = append(s.teachers, t)
	return nil
}

// DeleteTeacher removes the teacher and its linked user account. Attendance
// rows recorded under that user id stay, orphaned.
func (s *Store) DeleteTeacher(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var userID string
	for _, t := range s.teachers {
		if t.ID == id {
			userID = t.UserID
		}
	}
	s.teachers = deleteByID(s.teachers, id, func(t models.Teacher) string { return t.ID })
	if userID != "" {
		s.users = deleteByID(s.users, userID, func(u models.User) string { return u.ID })
	}
	return nil
}

func (s *Store) ListClasses(ctx context.Context) ([]models.Class, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Class(nil), s.classes...), nil
}

func (s *Store) GetClass(ctx context.Context, id string) (*models.Class, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.classes {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) SaveClass(ctx context.Context, c models.Class) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.classes {
		if s.classes[i].ID == c.ID {
			s.classes[i] = c
			return nil
		}
	}
	s.classes = append(s.classes, c)
	return nil
}

func (s *Store) DeleteClass(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classes = deleteByID(s.classes, id, func(c models.Class) string { return c.ID })
	return nil
}

func (s *Store) ListStudents(ctx context.Context) ([]models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Student(nil), s.students...), nil
}

func (s *Store) ListStudentsByClass(ctx context.Context, classID string) ([]models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Student{}
	for _, st := range s.students {
		if st.ClassID == classID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *Store) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.students {
		if st.ID == id {
			st := st
			return &st, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) SaveStudent(ctx context.Context, st models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.students {
		if s.students[i].ID == st.ID {
			s.students[i] = st
			return nil
		}
	}
	s.students = append(s.students, st)
	return nil
}

func (s *Store) DeleteStudent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.students = deleteByID(s.students, id, func(st models.Student) string { return st.ID })
	return nil
}

func (s *Store) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Subject(nil), s.subjects...), nil
}

func (s *Store) SaveSubject(ctx context.Context, sub models.Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.subjects {
		if s.subjects[i].ID == sub.ID {
			s.subjects[i] = sub
			return nil
		}
	}
	s.subjects = append(s.subjects, sub)
	return nil
}

func (s *Store) DeleteSubject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subjects = deleteByID(s.subjects, id, func(sub models.Subject) string { return sub.ID })
	return nil
}

func (s *Store) ListAttendance(ctx context.Context) ([]models.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Attendance(nil), s.attendance...), nil
}

func (s *Store) ReplaceDayClass(ctx context.Context, date, classID string, entries []models.Attendance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := attendance.Untouched(s.attendance, s.students, date, classID)
	s.attendance = append(kept, entries...)
	return nil
}

func (s *Store) ReplaceAttendance(ctx context.Context, entries []models.Attendance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attendance = append([]models.Attendance(nil), entries...)
	return nil
}

func (s *Store) ListSessions(ctx context.Context) ([]models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Session, 0, len(s.sessions))
	for chatID, userID := range s.sessions {
		out = append(out, models.Session{ChatID: chatID, UserID: userID})
	}
	return out, nil
}

func (s *Store) GetSession(ctx context.Context, chatID int64) (*models.User, error) {
	s.mu.Lock()
	userID, ok := s.sessions[chatID]
	s.mu.Unlock()
	if !ok {
		return nil, storage.ErrNotFound
	}
	return s.GetUser(ctx, userID)
}

func (s *Store) SetSession(ctx context.Context, chatID int64, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chatID] = userID
	return nil
}

func (s *Store) ClearSession(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
	return nil
}

func deleteByID[T any](in []T, id string, key func(T) string) []T {
	out := in[:0]
	for _, v := range in {
		if key(v) != id {
			out = append(out, v)
		}
	}
	return out
}
