// ABOUTME: Database opening, backend selection, pooling, and schema initialization
// ABOUTME: Picks the dialect from the database URL prefix and creates tables on startup

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// maxOpenConns caps the shared connection pool. Concurrent handlers queue
// for a connection rather than failing outright.
const maxOpenConns = 5

// DB implements Store over either backend through a dialect.
type DB struct {
	db      *sql.DB
	dialect dialect
	logger  *slog.Logger
}

var _ Store = (*DB)(nil)

// Open connects to the database described by databaseURL and initializes the
// schema. A `postgres:` or `postgresql:` prefix selects the networked backend;
// anything else is treated as a SQLite file path (an optional `sqlite:` prefix
// is stripped). The schema setup is idempotent and runs on every start.
func Open(databaseURL string) (*DB, error) {
	logger := slog.Default().With("component", "store")

	var db *sql.DB
	var d dialect
	var err error

	if strings.HasPrefix(databaseURL, "postgres:") || strings.HasPrefix(databaseURL, "postgresql:") {
		d = postgresDialect{}
		db, err = sql.Open("pgx", databaseURL)
		if err != nil {
			return nil, fmt.Errorf("opening postgres database: %w", err)
		}
	} else {
		d = sqliteDialect{}
		path := strings.TrimPrefix(databaseURL, "sqlite:")

		// Ensure parent directory exists
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}

		db, err = sql.Open("sqlite", path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite database: %w", err)
		}

		// Enable WAL mode for better concurrent performance
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enabling WAL mode: %w", err)
		}

		// Enable foreign keys
		if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enabling foreign keys: %w", err)
		}
	}

	db.SetMaxOpenConns(maxOpenConns)

	s := &DB{
		db:      db,
		dialect: d,
		logger:  logger,
	}

	if err := s.createSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("store initialized", "backend", d.name())
	return s, nil
}

// createSchema creates the four tables if they don't exist.
func (s *DB) createSchema(ctx context.Context) error {
	for _, stmt := range s.dialect.schema() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *DB) Close() error {
	s.logger.Info("closing store", "backend", s.dialect.name())
	return s.db.Close()
}

// Backend reports which dialect the store was opened with.
func (s *DB) Backend() string {
	return s.dialect.name()
}

// exec runs a statement after rebinding placeholders for the active dialect.
func (s *DB) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.dialect.rebind(query), args...)
}

// queryRow fetches a single row after rebinding placeholders.
func (s *DB) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.dialect.rebind(query), args...)
}

// query fetches many rows after rebinding placeholders.
func (s *DB) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
}

// timestampLayouts covers the textual forms the two backends hand back for
// their default-timestamp columns.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// parseTimestamp coerces a scanned timestamp value into time.Time. The pgx
// driver yields time.Time directly; the sqlite driver yields the stored text.
func parseTimestamp(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case []byte:
		return parseTimestamp(string(t))
	case string:
		for _, layout := range timestampLayouts {
			if ts, err := time.ParseInLocation(layout, t, time.Local); err == nil {
				return ts, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized timestamp %q", t)
	case nil:
		return time.Time{}, nil
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
}
