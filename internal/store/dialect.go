// ABOUTME: SQL dialect seam between the SQLite and PostgreSQL backends
// ABOUTME: Isolates placeholder style, identity retrieval, and upsert syntax

package store

import (
	"context"
	"database/sql"
)

// dialect abstracts the differences between the two supported backends.
// Queries throughout the store are written with `?` ordinal placeholders;
// each dialect rewrites them into its native form. Both dialects must
// produce identical observable results over equivalent schemas.
type dialect interface {
	// name identifies the dialect ("sqlite" or "postgres").
	name() string

	// rebind converts `?` ordinal placeholders to the dialect's native style.
	rebind(query string) string

	// insertReturningID runs an INSERT and returns the generated row id.
	// The query is written without any RETURNING clause; the dialect
	// decides how the identity comes back.
	insertReturningID(ctx context.Context, db *sql.DB, query string, args ...any) (int64, error)

	// insertIgnore rewrites a plain INSERT so that a conflict on the given
	// column is a silent no-op instead of an error.
	insertIgnore(query, conflictColumn string) string

	// nowExpr is the SQL expression for the current timestamp.
	nowExpr() string

	// schema returns idempotent DDL statements creating the four tables.
	schema() []string
}
