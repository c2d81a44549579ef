// ABOUTME: Store interface and data types for chatrelay persistence
// ABOUTME: Defines Session, Message, whitelist/admin entries and the Store interface

package store

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidRole is returned when a message role is not "user" or "assistant".
var ErrInvalidRole = errors.New("invalid message role")

// Message role constants. These are the only roles the message log accepts;
// they map directly onto the chat-completion API's role tags.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Session links a Telegram chat to its stored conversation history.
type Session struct {
	ID        int64
	ChatID    int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChatMessage is a single role-tagged turn of a conversation, in the shape
// the chat-completion API consumes.
type ChatMessage struct {
	Role    string
	Content string
}

// WhitelistEntry represents a user granted access by an admin.
type WhitelistEntry struct {
	ID       int64
	UserID   int64
	Username string // empty if unknown
	AddedBy  int64
	AddedAt  time.Time
	Notes    string // empty if none
}

// AdminEntry represents an admin. Super-admins are seeded from configuration
// at startup; regular admins are created by a super-admin.
type AdminEntry struct {
	ID       int64
	UserID   int64
	Username string // empty if unknown
	IsSuper  bool
	AddedAt  time.Time
}

// Store defines the interface for session, message, and access-control persistence.
type Store interface {
	// Sessions
	FindOrCreateSession(ctx context.Context, chatID int64) (int64, error)
	ClearHistory(ctx context.Context, chatID int64) error

	// Messages
	AppendMessage(ctx context.Context, sessionID int64, role, content string) error
	RecentMessages(ctx context.Context, sessionID int64, limit int) ([]ChatMessage, error)

	// Access control
	IsAdmin(ctx context.Context, userID int64) (bool, error)
	IsSuperAdmin(ctx context.Context, userID int64) (bool, error)
	IsWhitelisted(ctx context.Context, userID int64) (bool, error)
	AddWhitelist(ctx context.Context, userID int64, username string, addedBy int64, notes string) error
	RemoveWhitelist(ctx context.Context, userID int64) (bool, error)
	AddAdmin(ctx context.Context, userID int64, username string, isSuper bool) error
	ListWhitelist(ctx context.Context) ([]*WhitelistEntry, error)
	ListAdmins(ctx context.Context) ([]*AdminEntry, error)
	SeedAdmins(ctx context.Context, userIDs []int64) error

	Close() error
}
