// ABOUTME: SQLite dialect for the store using modernc.org/sqlite
// ABOUTME: Ordinal placeholders, last-insert-rowid identity, INSERT OR IGNORE upserts

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

type sqliteDialect struct{}

func (sqliteDialect) name() string { return "sqlite" }

// rebind is a no-op: `?` is SQLite's native placeholder.
func (sqliteDialect) rebind(query string) string { return query }

func (sqliteDialect) insertReturningID(ctx context.Context, db *sql.DB, query string, args ...any) (int64, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading last insert id: %w", err)
	}
	return id, nil
}

func (sqliteDialect) insertIgnore(query, conflictColumn string) string {
	_ = conflictColumn // the OR IGNORE form covers any unique constraint
	return strings.Replace(query, "INSERT ", "INSERT OR IGNORE ", 1)
}

func (sqliteDialect) nowExpr() string { return "datetime('now','localtime')" }

func (sqliteDialect) schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chat_id INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT (datetime('now','localtime')),
			updated_at TIMESTAMP DEFAULT (datetime('now','localtime'))
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id INTEGER NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			timestamp TIMESTAMP DEFAULT (datetime('now','localtime')),
			FOREIGN KEY (session_id) REFERENCES sessions(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session_timestamp
			ON messages(session_id, timestamp)`,
		`CREATE TABLE IF NOT EXISTS whitelist_users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL UNIQUE,
			username TEXT,
			added_by INTEGER NOT NULL,
			added_at TIMESTAMP DEFAULT (datetime('now','localtime')),
			notes TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS admins (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL UNIQUE,
			username TEXT,
			is_super INTEGER DEFAULT 0,
			added_at TIMESTAMP DEFAULT (datetime('now','localtime'))
		)`,
	}
}
