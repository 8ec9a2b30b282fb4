package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sojokerto/absensi-bot/internal/models"
	"github.com/sojokerto/absensi-bot/internal/storage"
)

func (s *Store) ListClasses(ctx context.Context) ([]models.Class, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, level, major, academic_year FROM classes ORDER BY level, name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Class
	for rows.Next() {
		var c models.Class
		if err := rows.Scan(&c.ID, &c.Name, &c.Level, &c.Major, &c.AcademicYear); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetClass(ctx context.Context, id string) (*models.Class, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, level, major, academic_year FROM classes WHERE id = $1`, id)
	var c models.Class
	if err := row.Scan(&c.ID, &c.Name, &c.Level, &c.Major, &c.AcademicYear); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *Store) SaveClass(ctx context.Context, c models.Class) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO classes (id, name, level, major, academic_year)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET
    name = excluded.name, level = excluded.level,
    major = excluded.major, academic_year = excluded.academic_year
`, c.ID, c.Name, c.Level, c.Major, c.AcademicYear)
	return err
}

// DeleteClass leaves student class references dangling on purpose; readers
// render a placeholder for them.
func (s *Store) DeleteClass(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id)
	return err
}

func (s *Store) ListStudents(ctx context.Context) ([]models.Student, error) {
	return s.queryStudents(ctx, `SELECT id, nis, name, class_id, gender, email, phone FROM students ORDER BY name`)
}

func (s *Store) ListStudentsByClass(ctx context.Context, classID string) ([]models.Student, error) {
	return s.queryStudents(ctx, `SELECT id, nis, name, class_id, gender, email, phone FROM students WHERE class_id = $1 ORDER BY name`, classID)
}

func (s *Store) queryStudents(ctx context.Context, query string, args ...any) ([]models.Student, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Student
	for rows.Next() {
		var st models.Student
		if err := rows.Scan(&st.ID, &st.NIS, &st.Name, &st.ClassID, &st.Gender, &st.Email, &st.Phone); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *Store) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, nis, name, class_id, gender, email, phone FROM students WHERE id = $1`, id)
	var st models.Student
	if err := row.Scan(&st.ID, &st.NIS, &st.Name, &st.ClassID, &st.Gender, &st.Email, &st.Phone); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

func (s *Store) SaveStudent(ctx context.Context, st models.Student) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO students (id, nis, name, class_id, gender, email, phone)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
    nis = excluded.nis, name = excluded.name, class_id = excluded.class_id,
    gender = excluded.gender, email = excluded.email, phone = excluded.phone
`, st.ID, st.NIS, st.Name, st.ClassID, st.Gender, st.Email, st.Phone)
	return err
}

// DeleteStudent does not cascade to attendance; orphaned entries are skipped
// by the report join but stay in the collection.
func (s *Store) DeleteStudent(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	return err
}

func (s *Store) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, code, name, description FROM subjects ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Subject
	for rows.Next() {
		var sub models.Subject
		if err := rows.Scan(&sub.ID, &sub.Code, &sub.Name, &sub.Description); err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *Store) SaveSubject(ctx context.Context, sub models.Subject) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO subjects (id, code, name, description)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET
    code = excluded.code, name = excluded.name, description = excluded.description
`, sub.ID, sub.Code, sub.Name, sub.Description)
	return err
}

func (s *Store) DeleteSubject(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	return err
}
