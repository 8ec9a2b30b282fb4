// Package postgres implements the storage port on PostgreSQL via the pgx
// stdlib driver, with goose-managed schema and seed-on-empty startup.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/sojokerto/absensi-bot/internal/seed"
	"github.com/sojokerto/absensi-bot/internal/storage"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Store struct {
	db *sql.DB
}

var _ storage.Store = (*Store)(nil)

func New(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) DB() *sql.DB { return s.db }

// Open connects and pings.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// Migrate applies the embedded goose migrations.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, "migrations")
}

// SeedIfEmpty loads the bundled dataset the first time the service runs
// against an empty database; a non-empty users table means an initialized
// deployment and nothing is touched.
func (s *Store) SeedIfEmpty(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, u := range seed.Users() {
		if err := s.SaveUser(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}
	for _, t := range seed.Teachers() {
		if err := s.SaveTeacher(ctx, t); err != nil {
			return fmt.Errorf("seed teacher %s: %w", t.Name, err)
		}
	}
	for _, c := range seed.Classes() {
		if err := s.SaveClass(ctx, c); err != nil {
			return fmt.Errorf("seed class %s: %w", c.Name, err)
		}
	}
	for _, st := range seed.Students() {
		if err := s.SaveStudent(ctx, st); err != nil {
			return fmt.Errorf("seed student %s: %w", st.Name, err)
		}
	}
	for _, sub := range seed.Subjects() {
		if err := s.SaveSubject(ctx, sub); err != nil {
			return fmt.Errorf("seed subject %s: %w", sub.Code, err)
		}
	}
	return nil
}
