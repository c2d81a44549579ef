package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a temporary SQLite-backed store for testing.
func setupTestStore(t *testing.T) *DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

// sessionTimestamps reads a session's created_at/updated_at directly.
func sessionTimestamps(t *testing.T, s *DB, sessionID int64) (created, updated time.Time) {
	t.Helper()
	var createdRaw, updatedRaw any
	err := s.queryRow(context.Background(),
		`SELECT created_at, updated_at FROM sessions WHERE id = ?`, sessionID).
		Scan(&createdRaw, &updatedRaw)
	require.NoError(t, err)

	created, err = parseTimestamp(createdRaw)
	require.NoError(t, err)
	updated, err = parseTimestamp(updatedRaw)
	require.NoError(t, err)
	return created, updated
}

func TestOpen_SchemaIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopening the same file must not fail on existing tables
	s, err = Open(dbPath)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", s.Backend())
	require.NoError(t, s.Close())
}

func TestOpen_StripsSQLitePrefix(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := Open("sqlite:" + dbPath)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "sqlite", s.Backend())
	assert.FileExists(t, dbPath)
}

func TestFindOrCreateSession_CreatesOnFirstContact(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	id, err := s.FindOrCreateSession(ctx, 42)
	require.NoError(t, err)
	assert.Positive(t, id)
}

func TestFindOrCreateSession_ReturnsSameSession(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first, err := s.FindOrCreateSession(ctx, 42)
	require.NoError(t, err)

	second, err := s.FindOrCreateSession(ctx, 42)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFindOrCreateSession_RefreshesActivity(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	id, err := s.FindOrCreateSession(ctx, 42)
	require.NoError(t, err)
	_, firstUpdated := sessionTimestamps(t, s, id)

	_, err = s.FindOrCreateSession(ctx, 42)
	require.NoError(t, err)
	_, secondUpdated := sessionTimestamps(t, s, id)

	assert.False(t, secondUpdated.Before(firstUpdated),
		"updated_at must not move backwards on repeat contact")
}

func TestFindOrCreateSession_DistinctChatsAreIndependent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	a, err := s.FindOrCreateSession(ctx, 1)
	require.NoError(t, err)
	b, err := s.FindOrCreateSession(ctx, 2)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestClearHistory_RemovesSessionAndMessages(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	id, err := s.FindOrCreateSession(ctx, 42)
	require.NoError(t, err)
	require.NoError(t, s.AppendMessage(ctx, id, RoleUser, "hello"))
	require.NoError(t, s.AppendMessage(ctx, id, RoleAssistant, "hi"))

	require.NoError(t, s.ClearHistory(ctx, 42))

	// A fresh contact gets a new session with no prior messages
	fresh, err := s.FindOrCreateSession(ctx, 42)
	require.NoError(t, err)
	assert.NotEqual(t, id, fresh, "a cleared session must not be reused")

	turns, err := s.RecentMessages(ctx, fresh, 10)
	require.NoError(t, err)
	assert.Empty(t, turns)

	// No orphan messages survive the clear
	var orphans int
	err = s.queryRow(ctx, `SELECT COUNT(*) FROM messages WHERE session_id = ?`, id).Scan(&orphans)
	require.NoError(t, err)
	assert.Zero(t, orphans)
}

func TestClearHistory_NoSessionIsNoop(t *testing.T) {
	s := setupTestStore(t)

	err := s.ClearHistory(context.Background(), 99999)
	assert.NoError(t, err)
}
