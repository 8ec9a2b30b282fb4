// Package backup serializes the whole school dataset to a JSON document and
// loads such a document back, so an admin can move the data between
// deployments or keep an offline copy.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sojokerto/absensi-bot/internal/models"
	"github.com/sojokerto/absensi-bot/internal/storage"
)

// Snapshot is the backup file layout. Version guards against loading a file
// from an incompatible build.
type Snapshot struct {
	Version    int                 `json:"version"`
	ExportedAt string              `json:"exportedAt"`
	Users      []models.User       `json:"users"`
	Teachers   []models.Teacher    `json:"teachers"`
	Classes    []models.Class      `json:"classes"`
	Students   []models.Student    `json:"students"`
	Subjects   []models.Subject    `json:"subjects"`
	Attendance []models.Attendance `json:"attendance"`
}

const SnapshotVersion = 1

// Dump reads every table and returns the snapshot as indented JSON.
func Dump(ctx context.Context, store storage.Store, now time.Time) ([]byte, error) {
	snap := Snapshot{Version: SnapshotVersion, ExportedAt: now.Format(time.RFC3339)}
	var err error
	if snap.Users, err = store.ListUsers(ctx); err != nil {
		return nil, fmt.Errorf("dump users: %w", err)
	}
	if snap.Teachers, err = store.ListTeachers(ctx); err != nil {
		return nil, fmt.Errorf("dump teachers: %w", err)
	}
	if snap.Classes, err = store.ListClasses(ctx); err != nil {
		return nil, fmt.Errorf("dump classes: %w", err)
	}
	if snap.Students, err = store.ListStudents(ctx); err != nil {
		return nil, fmt.Errorf("dump students: %w", err)
	}
	if snap.Subjects, err = store.ListSubjects(ctx); err != nil {
		return nil, fmt.Errorf("dump subjects: %w", err)
	}
	if snap.Attendance, err = store.ListAttendance(ctx); err != nil {
		return nil, fmt.Errorf("dump attendance: %w", err)
	}
	return json.MarshalIndent(snap, "", "  ")
}

// Parse decodes and validates a snapshot document without touching the store.
func Parse(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	return &snap, nil
}

// Restore writes the snapshot into the store. Records are upserted by id and
// the attendance table is replaced wholesale; records present in the store
// but absent from the snapshot are left alone.
func Restore(ctx context.Context, store storage.Store, snap *Snapshot) error {
	for _, u := range snap.Users {
		if err := store.SaveUser(ctx, u); err != nil {
			return fmt.Errorf("restore user %s: %w", u.ID, err)
		}
	}
	for _, c := range snap.Classes {
		if err := store.SaveClass(ctx, c); err != nil {
			return fmt.Errorf("restore class %s: %w", c.ID, err)
		}
	}
	for _, t := range snap.Teachers {
		if err := store.SaveTeacher(ctx, t); err != nil {
			return fmt.Errorf("restore teacher %s: %w", t.ID, err)
		}
	}
	for _, s := range snap.Students {
		if err := store.SaveStudent(ctx, s); err != nil {
			return fmt.Errorf("restore student %s: %w", s.ID, err)
		}
	}
	for _, s := range snap.Subjects {
		if err := store.SaveSubject(ctx, s); err != nil {
			return fmt.Errorf("restore subject %s: %w", s.ID, err)
		}
	}
	if err := store.ReplaceAttendance(ctx, snap.Attendance); err != nil {
		return fmt.Errorf("restore attendance: %w", err)
	}
	return nil
}
