// ABOUTME: Conversational flows: text relay with placeholder UX, and voice notes
// ABOUTME: Appends turns, builds the recent window, calls the model, relays the reply

package bot

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/chatrelay/chatrelay/internal/store"
)

// handleText runs the full relay flow for a plain text message, showing a
// "thinking" placeholder that is deleted on success or edited on failure.
func (b *Bot) handleText(ctx context.Context, logger *slog.Logger, msg *tgbotapi.Message) {
	placeholder, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "🤔 Thinking..."))
	if err != nil {
		logger.Error("sending placeholder failed", "error", err)
		return
	}

	reply, err := b.processChat(ctx, msg.Chat.ID, msg.Text)
	if err != nil {
		logger.Error("chat processing failed", "error", err)
		b.editMessage(msg.Chat.ID, placeholder.MessageID, "Something went wrong while handling your message. Please try again later.")
		return
	}

	b.deleteMessage(msg.Chat.ID, placeholder.MessageID)
	b.reply(msg.Chat.ID, reply)
}

// handleVoice downloads and transcribes a voice note, echoes the transcript,
// then runs the same flow as a text message.
func (b *Bot) handleVoice(ctx context.Context, logger *slog.Logger, msg *tgbotapi.Message) error {
	placeholder, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "Processing your voice message..."))
	if err != nil {
		return fmt.Errorf("sending placeholder: %w", err)
	}

	audio, err := b.downloadFile(ctx, msg.Voice.FileID)
	if err != nil {
		b.editMessage(msg.Chat.ID, placeholder.MessageID, "Could not download your voice message.")
		return fmt.Errorf("downloading voice note: %w", err)
	}

	mimeType := msg.Voice.MimeType
	if mimeType == "" {
		mimeType = "audio/ogg"
	}

	text, err := b.transcriber.Transcribe(ctx, audio, "audio.oga", mimeType)
	if err != nil {
		// Surface the upstream diagnostic to the user, as the API contract asks.
		b.editMessage(msg.Chat.ID, placeholder.MessageID, fmt.Sprintf("Transcription failed: %v", err))
		return fmt.Errorf("transcribing voice note: %w", err)
	}

	b.editMessage(msg.Chat.ID, placeholder.MessageID, "Voice message: "+text)

	thinking, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "🤔 Thinking..."))
	if err != nil {
		return fmt.Errorf("sending placeholder: %w", err)
	}

	reply, err := b.processChat(ctx, msg.Chat.ID, text)
	if err != nil {
		b.editMessage(msg.Chat.ID, thinking.MessageID, "Something went wrong while handling your message. Please try again later.")
		return fmt.Errorf("processing transcribed chat: %w", err)
	}

	b.deleteMessage(msg.Chat.ID, thinking.MessageID)
	b.reply(msg.Chat.ID, reply)
	return nil
}

// processChat is the core relay sequence: resolve the session, append the
// user turn, hand the recent window to the model, and append its reply. No
// transaction spans the steps; a failure leaves the turns committed so far.
func (b *Bot) processChat(ctx context.Context, chatID int64, text string) (string, error) {
	sessionID, err := b.store.FindOrCreateSession(ctx, chatID)
	if err != nil {
		return "", fmt.Errorf("resolving session: %w", err)
	}

	if err := b.store.AppendMessage(ctx, sessionID, store.RoleUser, text); err != nil {
		return "", fmt.Errorf("appending user turn: %w", err)
	}

	turns, err := b.store.RecentMessages(ctx, sessionID, b.historyLimit)
	if err != nil {
		return "", fmt.Errorf("loading context window: %w", err)
	}

	reply, err := b.completer.Complete(ctx, turns)
	if err != nil {
		return "", fmt.Errorf("completing chat: %w", err)
	}

	if err := b.store.AppendMessage(ctx, sessionID, store.RoleAssistant, reply); err != nil {
		return "", fmt.Errorf("appending assistant turn: %w", err)
	}

	return reply, nil
}

func (b *Bot) editMessage(chatID int64, messageID int, text string) {
	if _, err := b.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text)); err != nil {
		b.logger.Error("editing message failed", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) deleteMessage(chatID int64, messageID int) {
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		b.logger.Error("deleting message failed", "chat_id", chatID, "error", err)
	}
}
