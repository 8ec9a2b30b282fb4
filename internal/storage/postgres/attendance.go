package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sojokerto/absensi-bot/internal/models"
	"github.com/sojokerto/absensi-bot/internal/storage"
)

func (s *Store) ListAttendance(ctx context.Context) ([]models.Attendance, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, student_id, date, status, note, teacher_id, subject_id
FROM attendance ORDER BY date, id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Attendance
	for rows.Next() {
		var a models.Attendance
		var subjectID sql.NullString
		if err := rows.Scan(&a.ID, &a.StudentID, &a.Date, &a.Status, &a.Note, &a.TeacherID, &subjectID); err != nil {
			return nil, err
		}
		if subjectID.Valid {
			a.SubjectID = &subjectID.String
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ReplaceDayClass deletes the entries for one date whose student currently
// belongs to classID and inserts the replacement set, all in one
// transaction. The membership join runs against students as they are now, so
// entries of students moved to another class since are left alone.
func (s *Store) ReplaceDayClass(ctx context.Context, date, classID string, entries []models.Attendance) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
DELETE FROM attendance a
USING students s
WHERE a.student_id = s.id AND a.date = $1 AND s.class_id = $2
`, date, classID)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := insertEntry(ctx, tx, e); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ReplaceAttendance overwrites the whole collection (restore path).
func (s *Store) ReplaceAttendance(ctx context.Context, entries []models.Attendance) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM attendance`); err != nil {
		return err
	}
	for _, e := range entries {
		if err := insertEntry(ctx, tx, e); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertEntry(ctx context.Context, tx *sql.Tx, e models.Attendance) error {
	_, err := tx.ExecContext(ctx, `
INSERT INTO attendance (id, student_id, date, status, note, teacher_id, subject_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`, e.ID, e.StudentID, e.Date, string(e.Status), e.Note, e.TeacherID, e.SubjectID)
	return err
}

func (s *Store) ListSessions(ctx context.Context) ([]models.Session, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT chat_id, user_id FROM sessions`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Session
	for rows.Next() {
		var se models.Session
		if err := rows.Scan(&se.ChatID, &se.UserID); err != nil {
			return nil, err
		}
		out = append(out, se)
	}
	return out, rows.Err()
}

func (s *Store) GetSession(ctx context.Context, chatID int64) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT u.id, u.email, u.password, u.role, u.name
FROM sessions se JOIN users u ON u.id = se.user_id
WHERE se.chat_id = $1`, chatID)
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Role, &u.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) SetSession(ctx context.Context, chatID int64, userID string) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO sessions (chat_id, user_id) VALUES ($1, $2)
ON CONFLICT (chat_id) DO UPDATE SET user_id = excluded.user_id
`, chatID, userID)
	return err
}

func (s *Store) ClearSession(ctx context.Context, chatID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE chat_id = $1`, chatID)
	return err
}
