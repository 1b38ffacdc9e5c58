package migration

import (
	"context"
	"log/slog"
	"time"
)

// Manager drives the migration run: it reads the registered steps, skips the
// ones the database already has and executes the remainder in version order.
type Manager struct {
	source   Source
	executor Executor
	logger   *slog.Logger
}

func NewManager(source Source, executor Executor, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{source: source, executor: executor, logger: logger}
}

// Run brings the database up to the latest registered version. Running with
// nothing pending is a no-op.
func (m *Manager) Run(ctx context.Context) error {
	if err := m.executor.InitializeVersionTable(ctx); err != nil {
		return err
	}

	pending, err := m.Pending(ctx)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		m.logger.DebugContext(ctx, "database schema up to date")
		return nil
	}

	for _, step := range pending {
		started := time.Now()
		m.logger.InfoContext(ctx, "applying migration",
			"version", step.Version, "description", step.Description)

		if err := m.executor.ExecuteMigration(ctx, step); err != nil {
			m.logger.ErrorContext(ctx, "migration failed", "version", step.Version, "error", err)
			return err
		}
		if err := m.executor.RecordMigration(ctx, step, time.Since(started)); err != nil {
			return err
		}
	}

	m.logger.InfoContext(ctx, "migrations applied", "count", len(pending))
	return nil
}

// Pending returns the registered migrations the database has not applied
// yet, in execution order. Every applied version must exist in the registry;
// a mismatch means the binary is older than the database.
func (m *Manager) Pending(ctx context.Context) ([]Migration, error) {
	registered, err := m.source.Migrations()
	if err != nil {
		return nil, err
	}

	applied, err := m.executor.AppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(registered))
	for _, step := range registered {
		known[step.Version] = true
	}

	appliedSet := make(map[string]bool, len(applied))
	for _, record := range applied {
		if !known[record.Version] {
			return nil, newError(record.Version, "reconcile versions", ErrUnknownApplied)
		}
		appliedSet[record.Version] = true
	}

	var pending []Migration
	for _, step := range registered {
		if !appliedSet[step.Version] {
			pending = append(pending, step)
		}
	}
	return pending, nil
}

// Status reports the applied and pending versions, for startup logging and
// operational checks.
func (m *Manager) Status(ctx context.Context) (*Status, error) {
	if err := m.executor.InitializeVersionTable(ctx); err != nil {
		return nil, err
	}

	applied, err := m.executor.AppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := m.Pending(ctx)
	if err != nil {
		return nil, err
	}

	status := &Status{Applied: applied, Pending: pending}
	if len(applied) > 0 {
		status.CurrentVersion = applied[len(applied)-1].Version
	}
	return status, nil
}
