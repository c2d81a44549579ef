// ABOUTME: Command surface of the bot and its per-command authorization
// ABOUTME: Whitelist management needs admin rights, admin grants need super-admin

package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var commandMenu = []tgbotapi.BotCommand{
	{Command: "help", Description: "Show available commands"},
	{Command: "start", Description: "Start talking to the bot"},
	{Command: "ping", Description: "Check that the bot is online"},
	{Command: "clear", Description: "Clear your chat history"},
	{Command: "adduser", Description: "Add a user to the whitelist (admins only)"},
	{Command: "removeuser", Description: "Remove a user from the whitelist (admins only)"},
	{Command: "listusers", Description: "List whitelisted users (admins only)"},
	{Command: "addadmin", Description: "Add an admin (super-admins only)"},
	{Command: "listadmins", Description: "List admins (admins only)"},
}

// registerCommands publishes the command menu to Telegram.
func (b *Bot) registerCommands() error {
	if _, err := b.api.Request(tgbotapi.NewSetMyCommands(commandMenu...)); err != nil {
		return fmt.Errorf("setting bot commands: %w", err)
	}
	return nil
}

func helpText() string {
	var sb strings.Builder
	sb.WriteString("Supported commands:\n")
	for _, c := range commandMenu {
		fmt.Fprintf(&sb, "/%s — %s\n", c.Command, c.Description)
	}
	return sb.String()
}

// handleCommand dispatches a slash command. help/start/ping are open to
// everyone; /clear needs access; the management commands check their own tier.
func (b *Bot) handleCommand(ctx context.Context, logger *slog.Logger, msg *tgbotapi.Message) {
	logger = logger.With("command", msg.Command())

	switch msg.Command() {
	case "help":
		b.reply(msg.Chat.ID, helpText())

	case "start":
		b.reply(msg.Chat.ID, "👋 Welcome! Send me a text message to chat, or a voice note to have it transcribed.\nUse /help to see all commands.")

	case "ping":
		b.reply(msg.Chat.ID, "I'm online!")

	case "clear":
		if !b.checkAccess(ctx, logger, msg) {
			return
		}
		if err := b.store.ClearHistory(ctx, msg.Chat.ID); err != nil {
			logger.Error("clearing history failed", "error", err)
			b.reply(msg.Chat.ID, "Something went wrong while clearing your chat history.")
			return
		}
		b.reply(msg.Chat.ID, "Chat history cleared!")

	case "adduser":
		b.cmdAddUser(ctx, logger, msg)

	case "removeuser":
		b.cmdRemoveUser(ctx, logger, msg)

	case "listusers":
		b.cmdListUsers(ctx, logger, msg)

	case "addadmin":
		b.cmdAddAdmin(ctx, logger, msg)

	case "listadmins":
		b.cmdListAdmins(ctx, logger, msg)

	default:
		logger.Debug("unknown command")
		b.reply(msg.Chat.ID, "Unknown command. Use /help to see what I understand.")
	}
}

func (b *Bot) cmdAddUser(ctx context.Context, logger *slog.Logger, msg *tgbotapi.Message) {
	if !b.requireAdmin(ctx, logger, msg) {
		return
	}

	userID, notes, ok := parseUserArg(msg.CommandArguments())
	if !ok {
		b.reply(msg.Chat.ID, "Please provide a numeric user id: /adduser <user id> [notes]")
		return
	}

	if err := b.store.AddWhitelist(ctx, userID, "", msg.From.ID, notes); err != nil {
		logger.Error("adding whitelist user failed", "user_id", userID, "error", err)
		b.reply(msg.Chat.ID, "Something went wrong while adding the user to the whitelist.")
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("✅ Added user %d to the whitelist", userID))
}

func (b *Bot) cmdRemoveUser(ctx context.Context, logger *slog.Logger, msg *tgbotapi.Message) {
	if !b.requireAdmin(ctx, logger, msg) {
		return
	}

	userID, _, ok := parseUserArg(msg.CommandArguments())
	if !ok {
		b.reply(msg.Chat.ID, "Please provide a numeric user id: /removeuser <user id>")
		return
	}

	removed, err := b.store.RemoveWhitelist(ctx, userID)
	if err != nil {
		logger.Error("removing whitelist user failed", "user_id", userID, "error", err)
		b.reply(msg.Chat.ID, "Something went wrong while removing the user.")
		return
	}
	if !removed {
		b.reply(msg.Chat.ID, fmt.Sprintf("⚠️ User %d is not on the whitelist", userID))
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("✅ Removed user %d from the whitelist", userID))
}

func (b *Bot) cmdListUsers(ctx context.Context, logger *slog.Logger, msg *tgbotapi.Message) {
	if !b.requireAdmin(ctx, logger, msg) {
		return
	}

	entries, err := b.store.ListWhitelist(ctx)
	if err != nil {
		logger.Error("listing whitelist failed", "error", err)
		b.reply(msg.Chat.ID, "Something went wrong while listing whitelisted users.")
		return
	}
	if len(entries) == 0 {
		b.reply(msg.Chat.ID, "The whitelist is empty.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Whitelisted users:\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "ID: %d", e.UserID)
		if e.Notes != "" {
			fmt.Fprintf(&sb, ", notes: %s", e.Notes)
		}
		sb.WriteByte('\n')
	}
	b.reply(msg.Chat.ID, sb.String())
}

func (b *Bot) cmdAddAdmin(ctx context.Context, logger *slog.Logger, msg *tgbotapi.Message) {
	if !b.requireSuperAdmin(ctx, logger, msg) {
		return
	}

	userID, _, ok := parseUserArg(msg.CommandArguments())
	if !ok {
		b.reply(msg.Chat.ID, "Please provide a numeric user id: /addadmin <user id>")
		return
	}

	if err := b.store.AddAdmin(ctx, userID, "", false); err != nil {
		logger.Error("adding admin failed", "user_id", userID, "error", err)
		b.reply(msg.Chat.ID, "Something went wrong while adding the admin.")
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("✅ Added admin %d", userID))
}

func (b *Bot) cmdListAdmins(ctx context.Context, logger *slog.Logger, msg *tgbotapi.Message) {
	if !b.requireAdmin(ctx, logger, msg) {
		return
	}

	entries, err := b.store.ListAdmins(ctx)
	if err != nil {
		logger.Error("listing admins failed", "error", err)
		b.reply(msg.Chat.ID, "Something went wrong while listing admins.")
		return
	}
	if len(entries) == 0 {
		b.reply(msg.Chat.ID, "There are no admins.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Admins:\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "ID: %d", e.UserID)
		if e.IsSuper {
			sb.WriteString(" (super)")
		}
		sb.WriteByte('\n')
	}
	b.reply(msg.Chat.ID, sb.String())
}

// parseUserArg extracts a numeric user id from command arguments, with any
// remaining words joined as free-form notes.
func parseUserArg(args string) (userID int64, notes string, ok bool) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return 0, "", false
	}
	userID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil || userID <= 0 {
		return 0, "", false
	}
	return userID, strings.Join(fields[1:], " "), true
}
