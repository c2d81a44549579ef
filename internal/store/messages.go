// ABOUTME: Append-only message log with a bounded recent-context window
// ABOUTME: Turns are never mutated; the window is a suffix of the append history

package store

import (
	"context"
	"fmt"
)

// AppendMessage inserts one turn into a session's transcript. The role must be
// RoleUser or RoleAssistant; content is stored verbatim.
func (s *DB) AppendMessage(ctx context.Context, sessionID int64, role, content string) error {
	if role != RoleUser && role != RoleAssistant {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	_, err := s.exec(ctx,
		`INSERT INTO messages (session_id, role, content) VALUES (?, ?, ?)`,
		sessionID, role, content)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}
	return nil
}

// RecentMessages returns the newest limit turns of a session, oldest first.
// The ordering is load-bearing: the slice is handed to the model verbatim as
// conversational context. A limit of 0 returns an empty slice.
func (s *DB) RecentMessages(ctx context.Context, sessionID int64, limit int) ([]ChatMessage, error) {
	if limit <= 0 {
		return nil, nil
	}

	// Newest-first with id as tie-breaker for same-second appends, then
	// reversed so the caller sees chronological order.
	rows, err := s.query(ctx,
		`SELECT role, content FROM messages
		 WHERE session_id = ?
		 ORDER BY timestamp DESC, id DESC
		 LIMIT ?`,
		sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent messages: %w", err)
	}
	defer rows.Close()

	var turns []ChatMessage
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.Role, &m.Content); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		turns = append(turns, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}

	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}
