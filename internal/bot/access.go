// ABOUTME: Composed access policy gating who may talk to the bot
// ABOUTME: Admin status or whitelist membership grants access; errors deny

package bot

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const deniedText = "⚠️ You are not authorized to use this bot. Ask an admin to add you to the whitelist."

// checkAccess decides whether the sender may use the bot: admins always may,
// whitelisted users may, everyone else is told how to get access. A failed
// check counts as a denial.
func (b *Bot) checkAccess(ctx context.Context, logger *slog.Logger, msg *tgbotapi.Message) bool {
	if msg.From == nil {
		logger.Warn("message has no sender")
		b.reply(msg.Chat.ID, "Could not identify the sender of this message.")
		return false
	}

	userID := msg.From.ID

	isAdmin, err := b.store.IsAdmin(ctx, userID)
	if err != nil {
		logger.Error("admin check failed", "user_id", userID, "error", err)
		b.reply(msg.Chat.ID, "Something went wrong while checking your access. Please try again later.")
		return false
	}
	if isAdmin {
		return true
	}

	whitelisted, err := b.store.IsWhitelisted(ctx, userID)
	if err != nil {
		logger.Error("whitelist check failed", "user_id", userID, "error", err)
		b.reply(msg.Chat.ID, "Something went wrong while checking your access. Please try again later.")
		return false
	}
	if !whitelisted {
		logger.Info("denied access", "user_id", userID)
		b.reply(msg.Chat.ID, deniedText)
		return false
	}

	return true
}

// requireAdmin gates an admin-only command, replying with the denial reason
// when the sender does not qualify.
func (b *Bot) requireAdmin(ctx context.Context, logger *slog.Logger, msg *tgbotapi.Message) bool {
	if msg.From == nil {
		return false
	}

	isAdmin, err := b.store.IsAdmin(ctx, msg.From.ID)
	if err != nil {
		logger.Error("admin check failed", "user_id", msg.From.ID, "error", err)
		b.reply(msg.Chat.ID, "Something went wrong while checking admin rights.")
		return false
	}
	if !isAdmin {
		b.reply(msg.Chat.ID, "⚠️ This command requires admin rights.")
		return false
	}
	return true
}

// requireSuperAdmin gates commands that grant admin rights.
func (b *Bot) requireSuperAdmin(ctx context.Context, logger *slog.Logger, msg *tgbotapi.Message) bool {
	if msg.From == nil {
		return false
	}

	isSuper, err := b.store.IsSuperAdmin(ctx, msg.From.ID)
	if err != nil {
		logger.Error("super admin check failed", "user_id", msg.From.ID, "error", err)
		b.reply(msg.Chat.ID, "Something went wrong while checking admin rights.")
		return false
	}
	if !isSuper {
		b.reply(msg.Chat.ID, "⚠️ This command requires super-admin rights.")
		return false
	}
	return true
}
