// ABOUTME: Tests for the command surface and its per-command authorization
// ABOUTME: Covers whitelist management, admin grants, clear, and open commands

package bot

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatrelay/chatrelay/internal/store"
)

func TestCommand_PingIsOpenToEveryone(t *testing.T) {
	tb := setupTestBot(t)

	tb.bot.handleUpdate(context.Background(), tgbotapi.Update{Message: commandMessage(9, 42, "/ping")})

	sent := tb.api.sentTexts()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "online")
}

func TestCommand_HelpListsCommands(t *testing.T) {
	tb := setupTestBot(t)

	tb.bot.handleUpdate(context.Background(), tgbotapi.Update{Message: commandMessage(9, 42, "/help")})

	sent := tb.api.sentTexts()
	require.Len(t, sent, 1)
	for _, c := range commandMenu {
		assert.Contains(t, sent[0], "/"+c.Command)
	}
}

func TestCommand_AddUserByAdmin(t *testing.T) {
	tb := setupTestBot(t)
	ctx := context.Background()

	require.NoError(t, tb.store.AddAdmin(ctx, 1001, "", false))

	tb.bot.handleUpdate(ctx, tgbotapi.Update{Message: commandMessage(1001, 42, "/adduser 55 friend")})

	sent := tb.api.sentTexts()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "Added user 55")

	entries, err := tb.store.ListWhitelist(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(55), entries[0].UserID)
	assert.Equal(t, "friend", entries[0].Notes)
	assert.Equal(t, int64(1001), entries[0].AddedBy)

	// A second add must not duplicate the entry
	tb.bot.handleUpdate(ctx, tgbotapi.Update{Message: commandMessage(1001, 42, "/adduser 55")})
	entries, err = tb.store.ListWhitelist(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCommand_AddUserByNonAdminIsRejected(t *testing.T) {
	tb := setupTestBot(t)
	ctx := context.Background()

	tb.bot.handleUpdate(ctx, tgbotapi.Update{Message: commandMessage(9, 42, "/adduser 55")})

	sent := tb.api.sentTexts()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "admin")

	entries, err := tb.store.ListWhitelist(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries, "a rejected mutation must not create a row")
}

func TestCommand_AddUserRejectsBadArgument(t *testing.T) {
	tb := setupTestBot(t)
	ctx := context.Background()

	require.NoError(t, tb.store.AddAdmin(ctx, 1001, "", false))

	tb.bot.handleUpdate(ctx, tgbotapi.Update{Message: commandMessage(1001, 42, "/adduser bogus")})

	sent := tb.api.sentTexts()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "numeric user id")
}

func TestCommand_RemoveUserReportsAbsent(t *testing.T) {
	tb := setupTestBot(t)
	ctx := context.Background()

	require.NoError(t, tb.store.AddAdmin(ctx, 1001, "", false))

	tb.bot.handleUpdate(ctx, tgbotapi.Update{Message: commandMessage(1001, 42, "/removeuser 55")})

	sent := tb.api.sentTexts()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "not on the whitelist")

	require.NoError(t, tb.store.AddWhitelist(ctx, 55, "", 1001, ""))
	tb.bot.handleUpdate(ctx, tgbotapi.Update{Message: commandMessage(1001, 42, "/removeuser 55")})

	sent = tb.api.sentTexts()
	require.Len(t, sent, 2)
	assert.Contains(t, sent[1], "Removed user 55")
}

func TestCommand_AddAdminRequiresSuperAdmin(t *testing.T) {
	tb := setupTestBot(t)
	ctx := context.Background()

	// A regular admin may not grant admin rights
	require.NoError(t, tb.store.AddAdmin(ctx, 1002, "", false))

	tb.bot.handleUpdate(ctx, tgbotapi.Update{Message: commandMessage(1002, 42, "/addadmin 77")})

	sent := tb.api.sentTexts()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "super-admin")

	isAdmin, err := tb.store.IsAdmin(ctx, 77)
	require.NoError(t, err)
	assert.False(t, isAdmin, "rejected grant must not create a row")
}

func TestCommand_AddAdminBySuperAdmin(t *testing.T) {
	tb := setupTestBot(t)
	ctx := context.Background()

	require.NoError(t, tb.store.AddAdmin(ctx, 1001, "", true))

	tb.bot.handleUpdate(ctx, tgbotapi.Update{Message: commandMessage(1001, 42, "/addadmin 77")})

	sent := tb.api.sentTexts()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "Added admin 77")

	isAdmin, err := tb.store.IsAdmin(ctx, 77)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	isSuper, err := tb.store.IsSuperAdmin(ctx, 77)
	require.NoError(t, err)
	assert.False(t, isSuper, "granted admins are regular admins")
}

func TestCommand_ListUsersRequiresAdmin(t *testing.T) {
	tb := setupTestBot(t)
	ctx := context.Background()

	tb.bot.handleUpdate(ctx, tgbotapi.Update{Message: commandMessage(9, 42, "/listusers")})

	sent := tb.api.sentTexts()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "admin")
}

func TestCommand_ListAdminsShowsTiers(t *testing.T) {
	tb := setupTestBot(t)
	ctx := context.Background()

	require.NoError(t, tb.store.AddAdmin(ctx, 1001, "", true))
	require.NoError(t, tb.store.AddAdmin(ctx, 1002, "", false))

	tb.bot.handleUpdate(ctx, tgbotapi.Update{Message: commandMessage(1001, 42, "/listadmins")})

	sent := tb.api.sentTexts()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "1001 (super)")
	assert.Contains(t, sent[0], "1002")
}

func TestCommand_ClearRequiresAccess(t *testing.T) {
	tb := setupTestBot(t)
	ctx := context.Background()

	tb.bot.handleUpdate(ctx, tgbotapi.Update{Message: commandMessage(9, 42, "/clear")})

	sent := tb.api.sentTexts()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "not authorized")
}

func TestCommand_ClearWipesHistory(t *testing.T) {
	tb := setupTestBot(t)
	ctx := context.Background()

	require.NoError(t, tb.store.AddWhitelist(ctx, 9, "", 1001, ""))

	sessionID, err := tb.store.FindOrCreateSession(ctx, 42)
	require.NoError(t, err)
	require.NoError(t, tb.store.AppendMessage(ctx, sessionID, store.RoleUser, "hello"))

	tb.bot.handleUpdate(ctx, tgbotapi.Update{Message: commandMessage(9, 42, "/clear")})

	sent := tb.api.sentTexts()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "cleared")

	fresh, err := tb.store.FindOrCreateSession(ctx, 42)
	require.NoError(t, err)
	assert.NotEqual(t, sessionID, fresh)
	turns, err := tb.store.RecentMessages(ctx, fresh, 10)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestCommand_UnknownCommand(t *testing.T) {
	tb := setupTestBot(t)

	tb.bot.handleUpdate(context.Background(), tgbotapi.Update{Message: commandMessage(9, 42, "/frobnicate")})

	sent := tb.api.sentTexts()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "Unknown command")
}

func TestParseUserArg(t *testing.T) {
	tests := []struct {
		name     string
		args     string
		wantID   int64
		wantNote string
		wantOK   bool
	}{
		{name: "id only", args: "55", wantID: 55, wantOK: true},
		{name: "id with notes", args: "55 my friend", wantID: 55, wantNote: "my friend", wantOK: true},
		{name: "padded", args: "  55  ", wantID: 55, wantOK: true},
		{name: "empty", args: ""},
		{name: "non numeric", args: "bogus"},
		{name: "negative", args: "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, notes, ok := parseUserArg(tt.args)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantID, id)
				assert.Equal(t, tt.wantNote, notes)
			}
		})
	}
}
