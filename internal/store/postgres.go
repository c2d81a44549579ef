// ABOUTME: PostgreSQL dialect for the store using the pgx stdlib driver
// ABOUTME: Numbered placeholders, RETURNING-id identity, ON CONFLICT DO NOTHING upserts

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type postgresDialect struct{}

func (postgresDialect) name() string { return "postgres" }

// rebind rewrites `?` ordinals into PostgreSQL's numbered `$n` placeholders.
// Store queries never contain a literal question mark, so a plain scan is enough.
func (postgresDialect) rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func (d postgresDialect) insertReturningID(ctx context.Context, db *sql.DB, query string, args ...any) (int64, error) {
	var id int64
	err := db.QueryRowContext(ctx, d.rebind(query)+" RETURNING id", args...).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting with returning id: %w", err)
	}
	return id, nil
}

func (postgresDialect) insertIgnore(query, conflictColumn string) string {
	return query + " ON CONFLICT (" + conflictColumn + ") DO NOTHING"
}

func (postgresDialect) nowExpr() string { return "CURRENT_TIMESTAMP" }

func (postgresDialect) schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id SERIAL PRIMARY KEY,
			chat_id BIGINT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id SERIAL PRIMARY KEY,
			session_id INTEGER NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES sessions(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session_timestamp
			ON messages(session_id, timestamp)`,
		`CREATE TABLE IF NOT EXISTS whitelist_users (
			id SERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL UNIQUE,
			username TEXT,
			added_by BIGINT NOT NULL,
			added_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			notes TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS admins (
			id SERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL UNIQUE,
			username TEXT,
			is_super BOOLEAN DEFAULT FALSE,
			added_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}
}
