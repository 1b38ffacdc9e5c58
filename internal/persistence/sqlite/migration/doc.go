// Package migration versions the academy's SQLite schema. Migration steps
// are compiled into the binary and tracked in a schema_migrations table;
// each step runs in its own transaction and is applied exactly once, in
// version order.
package migration
