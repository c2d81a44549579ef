// ABOUTME: Telegram bot core wiring transport, store, and LLM together
// ABOUTME: Long-poll update loop dispatching each update to its own goroutine

package bot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/chatrelay/chatrelay/internal/llm"
	"github.com/chatrelay/chatrelay/internal/store"
)

// telegramAPI is the slice of the Telegram client the bot uses. Narrowed to
// an interface so handler tests can run against a fake transport.
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot relays Telegram conversations to the language model and back.
type Bot struct {
	api         telegramAPI
	store       store.Store
	completer   llm.Completer
	transcriber llm.Transcriber
	logger      *slog.Logger

	historyLimit int
	httpClient   *http.Client
}

// Options configures a Bot.
type Options struct {
	Store        store.Store
	Completer    llm.Completer
	Transcriber  llm.Transcriber
	Logger       *slog.Logger
	HistoryLimit int
}

// New creates a Bot connected to the Telegram API with the given token.
func New(token string, opts Options) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connecting to telegram: %w", err)
	}

	b := newWithAPI(api, opts)
	b.logger.Info("connected to telegram", "bot_username", api.Self.UserName)
	return b, nil
}

// newWithAPI wires a Bot over an already-constructed transport. Split out
// from New so tests can inject a fake.
func newWithAPI(api telegramAPI, opts Options) *Bot {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Bot{
		api:          api,
		store:        opts.Store,
		completer:    opts.Completer,
		transcriber:  opts.Transcriber,
		logger:       logger.With("component", "bot"),
		historyLimit: opts.HistoryLimit,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
	}
}

// Run registers the command menu and consumes updates until the context is
// cancelled. Each update is handled in its own goroutine; in-flight handlers
// are abandoned on shutdown, not rolled back.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("registering bot commands: %w", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("bot running")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("shutting down bot")
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

// handleUpdate routes one update to the voice, command, or text handler.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil {
		b.logger.Debug("ignoring non-message update", "update_id", update.UpdateID)
		return
	}

	logger := b.logger.With("correlation_id", uuid.NewString(), "chat_id", msg.Chat.ID)

	switch {
	case msg.Voice != nil:
		if !b.checkAccess(ctx, logger, msg) {
			return
		}
		if err := b.handleVoice(ctx, logger, msg); err != nil {
			logger.Error("voice handling failed", "error", err)
			b.reply(msg.Chat.ID, "Something went wrong while handling your voice message.")
		}
	case msg.IsCommand():
		b.handleCommand(ctx, logger, msg)
	case msg.Text != "":
		if !b.checkAccess(ctx, logger, msg) {
			return
		}
		b.handleText(ctx, logger, msg)
	default:
		logger.Debug("ignoring unsupported message type")
	}
}

// reply sends plain text to a chat, logging instead of failing the handler
// when Telegram rejects it.
func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error("sending reply failed", "chat_id", chatID, "error", err)
	}
}

// downloadFile fetches a Telegram-hosted file into memory.
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolving file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building download request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading file: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading file body: %w", err)
	}
	return data, nil
}
