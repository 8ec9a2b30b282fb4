package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sojokerto/absensi-bot/internal/models"
	"github.com/sojokerto/absensi-bot/internal/storage"
)

const teacherColumns = `id, nip, name, email, phone, subject_label, user_id, class_id`

func scanTeacher(scan func(...any) error) (models.Teacher, error) {
	var t models.Teacher
	var classID sql.NullString
	err := scan(&t.ID, &t.NIP, &t.Name, &t.Email, &t.Phone, &t.SubjectLabel, &t.UserID, &classID)
	if classID.Valid {
		t.ClassID = &classID.String
	}
	return t, err
}

func (s *Store) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+teacherColumns+` FROM teachers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Teacher
	for rows.Next() {
		t, err := scanTeacher(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) GetTeacher(ctx context.Context, id string) (*models.Teacher, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+teacherColumns+` FROM teachers WHERE id = $1`, id)
	t, err := scanTeacher(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *Store) SaveTeacher(ctx context.Context, t models.Teacher) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO teachers (id, nip, name, email, phone, subject_label, user_id, class_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE SET
    nip = excluded.nip, name = excluded.name, email = excluded.email,
    phone = excluded.phone, subject_label = excluded.subject_label,
    user_id = excluded.user_id, class_id = excluded.class_id
`, t.ID, t.NIP, t.Name, t.Email, t.Phone, t.SubjectLabel, t.UserID, t.ClassID)
	return err
}

// DeleteTeacher removes the teacher together with its login account in one
// transaction. Attendance recorded under that account stays behind.
func (s *Store) DeleteTeacher(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var userID string
	err = tx.QueryRowContext(ctx, `SELECT user_id FROM teachers WHERE id = $1`, id).Scan(&userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM teachers WHERE id = $1`, id); err != nil {
		return err
	}
	if userID != "" {
		if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
			return err
		}
	}
	return tx.Commit()
}
