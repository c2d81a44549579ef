// ABOUTME: Whitelist and admin registry backing the bot's access control
// ABOUTME: Membership probes, idempotent grants, and startup super-admin seeding

package store

import (
	"context"
	"database/sql"
	"fmt"
)

// IsAdmin reports whether a row exists in the admin table, regardless of tier.
func (s *DB) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	return s.rowExists(ctx, `SELECT 1 FROM admins WHERE user_id = ?`, userID)
}

// IsSuperAdmin reports whether the user is an admin with the super flag set.
func (s *DB) IsSuperAdmin(ctx context.Context, userID int64) (bool, error) {
	// is_super is INTEGER on sqlite and BOOLEAN on postgres; comparing the
	// tier inside Go keeps the query dialect-neutral.
	var isSuper bool
	err := s.queryRow(ctx, `SELECT is_super FROM admins WHERE user_id = ?`, userID).Scan(&isSuper)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking super admin: %w", err)
	}
	return isSuper, nil
}

// IsWhitelisted reports whether the user has been granted access by an admin.
func (s *DB) IsWhitelisted(ctx context.Context, userID int64) (bool, error) {
	return s.rowExists(ctx, `SELECT 1 FROM whitelist_users WHERE user_id = ?`, userID)
}

func (s *DB) rowExists(ctx context.Context, query string, args ...any) (bool, error) {
	var one int
	err := s.queryRow(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking membership: %w", err)
	}
	return true, nil
}

// AddWhitelist grants a user access. Adding an already-present user is a
// silent no-op. username and notes may be empty and are stored as NULL.
func (s *DB) AddWhitelist(ctx context.Context, userID int64, username string, addedBy int64, notes string) error {
	query := s.dialect.insertIgnore(
		`INSERT INTO whitelist_users (user_id, username, added_by, notes) VALUES (?, ?, ?, ?)`,
		"user_id")
	_, err := s.exec(ctx, query, userID, nullable(username), addedBy, nullable(notes))
	if err != nil {
		return fmt.Errorf("adding whitelist user: %w", err)
	}
	s.logger.Info("whitelisted user", "user_id", userID, "added_by", addedBy)
	return nil
}

// RemoveWhitelist revokes a user's access. The boolean reports whether a row
// was actually deleted, so callers can tell "removed now" from "wasn't there".
func (s *DB) RemoveWhitelist(ctx context.Context, userID int64) (bool, error) {
	res, err := s.exec(ctx, `DELETE FROM whitelist_users WHERE user_id = ?`, userID)
	if err != nil {
		return false, fmt.Errorf("removing whitelist user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading affected rows: %w", err)
	}
	if n > 0 {
		s.logger.Info("removed whitelisted user", "user_id", userID)
	}
	return n > 0, nil
}

// AddAdmin creates an admin row. Adding an existing admin is a silent no-op;
// in particular it never demotes a super-admin.
func (s *DB) AddAdmin(ctx context.Context, userID int64, username string, isSuper bool) error {
	query := s.dialect.insertIgnore(
		`INSERT INTO admins (user_id, username, is_super) VALUES (?, ?, ?)`,
		"user_id")
	_, err := s.exec(ctx, query, userID, nullable(username), isSuper)
	if err != nil {
		return fmt.Errorf("adding admin: %w", err)
	}
	s.logger.Info("added admin", "user_id", userID, "is_super", isSuper)
	return nil
}

// ListWhitelist returns all whitelisted users, most recently granted first.
func (s *DB) ListWhitelist(ctx context.Context) ([]*WhitelistEntry, error) {
	rows, err := s.query(ctx,
		`SELECT id, user_id, username, added_by, added_at, notes
		 FROM whitelist_users
		 ORDER BY added_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing whitelist: %w", err)
	}
	defer rows.Close()

	var entries []*WhitelistEntry
	for rows.Next() {
		var e WhitelistEntry
		var username, notes sql.NullString
		var addedAt any
		if err := rows.Scan(&e.ID, &e.UserID, &username, &e.AddedBy, &addedAt, &notes); err != nil {
			return nil, fmt.Errorf("scanning whitelist entry: %w", err)
		}
		e.Username = username.String
		e.Notes = notes.String
		if e.AddedAt, err = parseTimestamp(addedAt); err != nil {
			return nil, fmt.Errorf("parsing added_at: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating whitelist: %w", err)
	}
	return entries, nil
}

// ListAdmins returns all admins, super-admins first, oldest grant first
// within each tier.
func (s *DB) ListAdmins(ctx context.Context) ([]*AdminEntry, error) {
	rows, err := s.query(ctx,
		`SELECT id, user_id, username, is_super, added_at
		 FROM admins
		 ORDER BY is_super DESC, added_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing admins: %w", err)
	}
	defer rows.Close()

	var entries []*AdminEntry
	for rows.Next() {
		var e AdminEntry
		var username sql.NullString
		var addedAt any
		if err := rows.Scan(&e.ID, &e.UserID, &username, &e.IsSuper, &addedAt); err != nil {
			return nil, fmt.Errorf("scanning admin entry: %w", err)
		}
		e.Username = username.String
		if e.AddedAt, err = parseTimestamp(addedAt); err != nil {
			return nil, fmt.Errorf("parsing added_at: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating admins: %w", err)
	}
	return entries, nil
}

// SeedAdmins idempotently inserts each id as a super-admin. Run on every
// start so the configured operators always exist.
func (s *DB) SeedAdmins(ctx context.Context, userIDs []int64) error {
	if len(userIDs) == 0 {
		s.logger.Warn("no initial admins configured; the bot is unmanageable until an admin row exists")
		return nil
	}

	query := s.dialect.insertIgnore(
		`INSERT INTO admins (user_id, is_super) VALUES (?, ?)`,
		"user_id")
	for _, id := range userIDs {
		if _, err := s.exec(ctx, query, id, true); err != nil {
			return fmt.Errorf("seeding admin %d: %w", id, err)
		}
		s.logger.Info("ensured initial super admin", "user_id", id)
	}
	return nil
}

// nullable maps an empty string to NULL for optional text columns.
func nullable(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
