// ABOUTME: Session persistence mapping Telegram chat ids to conversation sessions
// ABOUTME: Find-or-create with activity refresh, and transactional-order history clearing

package store

import (
	"context"
	"database/sql"
	"fmt"
)

// FindOrCreateSession returns the session id for a chat, creating a session on
// first contact. An existing session has its updated_at refreshed.
//
// This is an unguarded read-then-write: two concurrent first contacts for the
// same chat can each create a session. With one human per chat the window is
// negligible, so it is left open rather than closed with a unique constraint.
func (s *DB) FindOrCreateSession(ctx context.Context, chatID int64) (int64, error) {
	var id int64
	err := s.queryRow(ctx, `SELECT id FROM sessions WHERE chat_id = ?`, chatID).Scan(&id)

	switch {
	case err == nil:
		touch := fmt.Sprintf(`UPDATE sessions SET updated_at = %s WHERE id = ?`, s.dialect.nowExpr())
		if _, err := s.exec(ctx, touch, id); err != nil {
			return 0, fmt.Errorf("refreshing session activity: %w", err)
		}
		return id, nil

	case err == sql.ErrNoRows:
		id, err := s.dialect.insertReturningID(ctx, s.db,
			`INSERT INTO sessions (chat_id) VALUES (?)`, chatID)
		if err != nil {
			return 0, fmt.Errorf("creating session: %w", err)
		}
		s.logger.Debug("created session", "session_id", id, "chat_id", chatID)
		return id, nil

	default:
		return 0, fmt.Errorf("looking up session: %w", err)
	}
}

// ClearHistory deletes all messages and sessions belonging to a chat. Messages
// go first so no orphan ever references a deleted session. Clearing a chat
// with no session is a no-op.
func (s *DB) ClearHistory(ctx context.Context, chatID int64) error {
	rows, err := s.query(ctx, `SELECT id FROM sessions WHERE chat_id = ?`, chatID)
	if err != nil {
		return fmt.Errorf("listing sessions for chat: %w", err)
	}
	defer rows.Close()

	var sessionIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scanning session id: %w", err)
		}
		sessionIDs = append(sessionIDs, id)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating sessions: %w", err)
	}

	for _, id := range sessionIDs {
		if _, err := s.exec(ctx, `DELETE FROM messages WHERE session_id = ?`, id); err != nil {
			return fmt.Errorf("deleting messages for session %d: %w", id, err)
		}
	}

	if _, err := s.exec(ctx, `DELETE FROM sessions WHERE chat_id = ?`, chatID); err != nil {
		return fmt.Errorf("deleting sessions for chat: %w", err)
	}

	s.logger.Debug("cleared history", "chat_id", chatID, "sessions", len(sessionIDs))
	return nil
}
