package migration

import (
	"context"
	"time"
)

// Migration is one versioned schema step. SQL may hold several statements
// separated by semicolons; the executor applies them in a single transaction.
type Migration struct {
	Version     string
	Description string
	SQL         string
}

// AppliedMigration is one row of the schema_migrations tracking table.
type AppliedMigration struct {
	Version       string
	AppliedAt     time.Time
	ExecutionTime time.Duration
	Checksum      string
}

// Status describes where a database stands relative to the known migrations.
type Status struct {
	CurrentVersion string
	Applied        []AppliedMigration
	Pending        []Migration
}

// Source lists the migrations a database can be brought up to, sorted by
// version, with no duplicates or gaps.
type Source interface {
	Migrations() ([]Migration, error)
}

// Executor applies single migrations and tracks them in the database.
type Executor interface {
	InitializeVersionTable(ctx context.Context) error
	ExecuteMigration(ctx context.Context, m Migration) error
	RecordMigration(ctx context.Context, m Migration, executionTime time.Duration) error
	AppliedMigrations(ctx context.Context) ([]AppliedMigration, error)
}
