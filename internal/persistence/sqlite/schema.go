package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/metodoleandrolobo/nexquadra-sub000/internal/persistence/sqlite/migration"
)

// Migrate brings the schema up to the latest registered version. Safe to
// call on every startup; already-applied versions are skipped.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	manager := migration.NewManager(migration.Registered(), migration.NewSQLiteExecutor(cp.db), nil)
	return manager.Run(ctx)
}

// identityKey builds the reservation key for a logical field. Keys are
// case-insensitive and namespaced so an email and a CPF never collide.
func identityKey(namespace, value string) string {
	return namespace + ":" + strings.ToLower(strings.TrimSpace(value))
}

// reserveKey inserts an identity key for ownerID. A UNIQUE failure means the
// value is already taken and surfaces as DuplicateError{Field: field}.
func reserveKey(tx *sql.Tx, namespace, value, ownerID, field string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	_, err := tx.Exec(
		"INSERT INTO identity_keys (chave, dono_id) VALUES (?, ?)",
		identityKey(namespace, value), ownerID,
	)
	return mapKeyError(err, field)
}

// releaseKey removes a single identity key owned by ownerID.
func releaseKey(tx *sql.Tx, namespace, value, ownerID string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	_, err := tx.Exec(
		"DELETE FROM identity_keys WHERE chave = ? AND dono_id = ?",
		identityKey(namespace, value), ownerID,
	)
	return err
}

// releaseAllKeys removes every identity key owned by ownerID.
func releaseAllKeys(tx *sql.Tx, ownerID string) error {
	_, err := tx.Exec("DELETE FROM identity_keys WHERE dono_id = ?", ownerID)
	return err
}

// swapKey moves a reservation from the old value to the new one when they
// differ, keeping the uniqueness check and the entity update in one
// transaction.
func swapKey(tx *sql.Tx, namespace, oldValue, newValue, ownerID, field string) error {
	oldKey := identityKey(namespace, oldValue)
	newKey := identityKey(namespace, newValue)
	if oldKey == newKey {
		return nil
	}
	if err := releaseKey(tx, namespace, oldValue, ownerID); err != nil {
		return err
	}
	return reserveKey(tx, namespace, newValue, ownerID, field)
}
