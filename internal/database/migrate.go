package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"
	"time"

	"psychoreport/internal/logger"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// MigrationsFS holds the versioned schema files.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS

// MigrationsDir is the directory inside MigrationsFS.
const MigrationsDir = "migrations"

// MigrationStatus describes one migration file and whether it ran.
type MigrationStatus struct {
	Version   uint
	Name      string
	Applied   bool
	AppliedAt *time.Time
}

// Migrator applies and reverts golang-migrate style
// "<version>_<name>.up.sql" / ".down.sql" files.
// golang-migrate ships no Oracle database driver, so only its source side
// is used and the statements are executed here.
type Migrator struct {
	db  *sql.DB
	src source.Driver
}

// NewMigrator reads migrations from dir inside fsys.
func NewMigrator(db *sql.DB, fsys fs.FS, dir string) (*Migrator, error) {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("could not open migration source: %w", err)
	}
	return &Migrator{db: db, src: src}, nil
}

// Close releases the migration source.
func (m *Migrator) Close() error {
	return m.src.Close()
}

// Up applies every pending migration in version order and returns how many ran.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.ensureVersionTable(ctx); err != nil {
		return 0, err
	}
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	err = m.each(func(version uint) error {
		if _, ok := applied[version]; ok {
			return nil
		}
		body, name, err := m.read(version, true)
		if err != nil {
			return err
		}
		for _, stmt := range SplitStatements(body) {
			if _, err := m.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("could not execute migration %d_%s: %w", version, name, err)
			}
		}
		if _, err := m.db.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, name, applied_at) VALUES (:1, :2, :3)`,
			int64(version), name, time.Now()); err != nil {
			return fmt.Errorf("could not record migration %d: %w", version, err)
		}
		logger.Get().Info("Executed migration", zap.Uint("version", version), zap.String("name", name))
		count++
		return nil
	})
	if err != nil {
		return count, err
	}
	logger.Get().Info("Migrations completed successfully", zap.Int("applied", count))
	return count, nil
}

// Status lists every known migration with its applied state.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	if err := m.ensureVersionTable(ctx); err != nil {
		return nil, err
	}
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return nil, err
	}

	var out []MigrationStatus
	err = m.each(func(version uint) error {
		_, name, err := m.read(version, true)
		if err != nil {
			return err
		}
		st := MigrationStatus{Version: version, Name: name}
		if at, ok := applied[version]; ok {
			st.Applied = true
			st.AppliedAt = &at
		}
		out = append(out, st)
		return nil
	})
	return out, err
}

// Down rolls back the last steps applied migrations, newest first, and
// returns how many were reverted. steps <= 0 reverts all of them.
func (m *Migrator) Down(ctx context.Context, steps int) (int, error) {
	if err := m.ensureVersionTable(ctx); err != nil {
		return 0, err
	}
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}

	versions := make([]uint, 0, len(applied))
	for v := range applied {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] > versions[j] })
	if steps > 0 && steps < len(versions) {
		versions = versions[:steps]
	}

	count := 0
	for _, version := range versions {
		body, name, err := m.read(version, false)
		if err != nil {
			return count, err
		}
		for _, stmt := range SplitStatements(body) {
			if _, err := m.db.ExecContext(ctx, stmt); err != nil {
				return count, fmt.Errorf("could not revert migration %d_%s: %w", version, name, err)
			}
		}
		if _, err := m.db.ExecContext(ctx, `DELETE FROM schema_migrations WHERE version = :1`, int64(version)); err != nil {
			return count, fmt.Errorf("could not unrecord migration %d: %w", version, err)
		}
		logger.Get().Info("Reverted migration", zap.Uint("version", version), zap.String("name", name))
		count++
	}
	logger.Get().Info("Rollback completed", zap.Int("reverted", count))
	return count, nil
}

func (m *Migrator) each(fn func(version uint) error) error {
	version, err := m.src.First()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not read first migration: %w", err)
	}
	for {
		if err := fn(version); err != nil {
			return err
		}
		version, err = m.src.Next(version)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not read next migration: %w", err)
		}
	}
}

func (m *Migrator) read(version uint, up bool) (string, string, error) {
	var (
		r    io.ReadCloser
		name string
		err  error
	)
	if up {
		r, name, err = m.src.ReadUp(version)
	} else {
		r, name, err = m.src.ReadDown(version)
	}
	if err != nil {
		return "", "", fmt.Errorf("could not read migration %d: %w", version, err)
	}
	defer r.Close()
	b, err := io.ReadAll(r)
	if err != nil {
		return "", "", fmt.Errorf("could not read migration %d: %w", version, err)
	}
	return string(b), name, nil
}

func (m *Migrator) ensureVersionTable(ctx context.Context) error {
	var n int
	row := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_tables WHERE table_name = 'SCHEMA_MIGRATIONS'`)
	if err := row.Scan(&n); err != nil {
		return fmt.Errorf("could not check schema_migrations: %w", err)
	}
	if n > 0 {
		return nil
	}
	_, err := m.db.ExecContext(ctx, `CREATE TABLE schema_migrations (
		version    NUMBER(19) PRIMARY KEY,
		name       VARCHAR2(255) NOT NULL,
		applied_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("could not create schema_migrations: %w", err)
	}
	return nil
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[uint]time.Time, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT version, applied_at FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("could not read schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[uint]time.Time)
	for rows.Next() {
		var (
			v  int64
			at time.Time
		)
		if err := rows.Scan(&v, &at); err != nil {
			return nil, fmt.Errorf("could not scan schema_migrations: %w", err)
		}
		applied[uint(v)] = at
	}
	return applied, rows.Err()
}

// SplitStatements breaks a migration into single statements. go-ora
// executes one statement per call and rejects the trailing semicolon.
func SplitStatements(body string) []string {
	var stmts []string
	for _, part := range strings.Split(body, ";") {
		var lines []string
		for _, line := range strings.Split(part, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "--") {
				continue
			}
			lines = append(lines, line)
		}
		stmt := strings.TrimSpace(strings.Join(lines, "\n"))
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
