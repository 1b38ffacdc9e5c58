package testfixtures

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/metodoleandrolobo/nexquadra-sub000/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Pool     *sqlite.ConnectionPool
	Agendas  *sqlite.AgendaRepository
	Lessons  *sqlite.LessonRepository
	People   *sqlite.PeopleRepository
	Catalog  *sqlite.CatalogRepository
	Sessions *sqlite.SessionRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness over a temporary migrated
// database file. now feeds the session repository's expiry checks; pass nil
// for time.Now.
func NewSQLiteHarness(tb testing.TB, now func() time.Time) *SQLiteHarness {
	tb.Helper()

	if now == nil {
		now = time.Now
	}

	path := filepath.Join(tb.TempDir(), "nexquadra.db")

	pool, err := sqlite.Open(path)
	if err != nil {
		tb.Fatalf("failed to open database: %v", err)
	}

	if err := pool.Migrate(context.Background()); err != nil {
		_ = pool.Close()
		tb.Fatalf("failed to migrate database: %v", err)
	}

	harness := &SQLiteHarness{
		Pool:     pool,
		Agendas:  sqlite.NewAgendaRepository(pool),
		Lessons:  sqlite.NewLessonRepository(pool),
		People:   sqlite.NewPeopleRepository(pool),
		Catalog:  sqlite.NewCatalogRepository(pool),
		Sessions: sqlite.NewSessionRepository(pool, now),
		cleanup: func() {
			_ = pool.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
