package migration

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// SQLiteExecutor applies migrations against a SQLite handle, one transaction
// per step, and tracks them in the schema_migrations table.
type SQLiteExecutor struct {
	db *sql.DB
}

func NewSQLiteExecutor(db *sql.DB) *SQLiteExecutor {
	return &SQLiteExecutor{db: db}
}

// InitializeVersionTable creates the tracking table. Safe to call repeatedly.
func (e *SQLiteExecutor) InitializeVersionTable(ctx context.Context) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TEXT NOT NULL,
		checksum TEXT NOT NULL DEFAULT '',
		execution_time_ms INTEGER NOT NULL DEFAULT 0
	)`
	if _, err := e.db.ExecContext(ctx, ddl); err != nil {
		return newError("", "create schema_migrations", err)
	}
	return nil
}

// ExecuteMigration runs every statement of m inside one transaction; a failed
// statement rolls the whole step back so a version is never half applied.
func (e *SQLiteExecutor) ExecuteMigration(ctx context.Context, m Migration) error {
	statements := splitStatements(m.SQL)
	if len(statements) == 0 {
		return newError(m.Version, "parse SQL", ErrEmptyMigration)
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return newError(m.Version, "begin transaction", err)
	}

	for i, statement := range statements {
		if _, err := tx.ExecContext(ctx, statement); err != nil {
			_ = tx.Rollback()
			return newError(m.Version, fmt.Sprintf("execute statement %d", i+1), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return newError(m.Version, "commit transaction", err)
	}
	return nil
}

// RecordMigration inserts the tracking row for a successfully applied step.
func (e *SQLiteExecutor) RecordMigration(ctx context.Context, m Migration, executionTime time.Duration) error {
	_, err := e.db.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, applied_at, checksum, execution_time_ms) VALUES (?, ?, ?, ?)",
		m.Version,
		time.Now().UTC().Format(time.RFC3339),
		Checksum(m),
		executionTime.Milliseconds(),
	)
	if err != nil {
		return newError(m.Version, "record migration", err)
	}
	return nil
}

// AppliedMigrations returns the tracking rows in version order.
func (e *SQLiteExecutor) AppliedMigrations(ctx context.Context) ([]AppliedMigration, error) {
	rows, err := e.db.QueryContext(ctx,
		"SELECT version, applied_at, checksum, execution_time_ms FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, newError("", "query schema_migrations", err)
	}
	defer rows.Close()

	var applied []AppliedMigration
	for rows.Next() {
		var record AppliedMigration
		var appliedAt string
		var executionMs int64
		if err := rows.Scan(&record.Version, &appliedAt, &record.Checksum, &executionMs); err != nil {
			return nil, newError("", "scan schema_migrations", err)
		}
		record.AppliedAt, _ = time.Parse(time.RFC3339, appliedAt)
		record.ExecutionTime = time.Duration(executionMs) * time.Millisecond
		applied = append(applied, record)
	}
	if err := rows.Err(); err != nil {
		return nil, newError("", "iterate schema_migrations", err)
	}
	return applied, nil
}

// Checksum fingerprints a step's SQL so audits can detect edits to shipped
// migrations.
func Checksum(m Migration) string {
	sum := sha256.Sum256([]byte(m.SQL))
	return fmt.Sprintf("%x", sum)
}

// splitStatements breaks a SQL script on semicolons, dropping comment lines
// and blanks.
func splitStatements(script string) []string {
	var statements []string
	for _, chunk := range strings.Split(script, ";") {
		var lines []string
		for _, line := range strings.Split(chunk, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "--") {
				continue
			}
			lines = append(lines, line)
		}
		if len(lines) > 0 {
			statements = append(statements, strings.Join(lines, "\n"))
		}
	}
	return statements
}
