// Package bot is the Telegram front end: it dispatches updates to the
// conversational flows and commands, backed by the service layer.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"finbot/internal/config"
	"finbot/internal/core"
	"finbot/internal/services"
	"finbot/internal/session"
	"finbot/internal/storage"
)

const genericErrorText = "❌ Произошла ошибка. Попробуйте позже."

// Session bounds: a chat's pending flow survives half an hour of silence.
const (
	sessionCapacity = 10000
	sessionTTL      = 30 * time.Minute
)

type Bot struct {
	api      *tgbotapi.BotAPI
	cfg      *config.Config
	storage  *storage.SQLiteRepository
	tx       *services.TransactionService
	reports  *services.ReportService
	goals    *services.GoalService
	sessions *session.Store
	loc      *time.Location
}

func New(cfg *config.Config, repo *storage.SQLiteRepository, tx *services.TransactionService, reports *services.ReportService, goals *services.GoalService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	loc, err := time.LoadLocation(cfg.DefaultTimezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.DefaultTimezone, err)
	}

	return &Bot{
		api:      api,
		cfg:      cfg,
		storage:  repo,
		tx:       tx,
		reports:  reports,
		goals:    goals,
		sessions: session.NewStore(sessionCapacity, sessionTTL),
		loc:      loc,
	}, nil
}

// Run polls for updates until ctx is done. Handler failures are logged and
// answered with a generic error; they never stop the loop.
func (b *Bot) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "Bot started", "username", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			slog.InfoContext(ctx, "Bot stopped", "reason", ctx.Err())
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return fmt.Errorf("update channel closed")
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
			slog.ErrorContext(ctx, "Callback handler failed",
				"chat_id", update.CallbackQuery.Message.Chat.ID,
				"data", update.CallbackQuery.Data,
				"error", err)
			b.answerCallbackAlert(update.CallbackQuery.ID, "❌ Произошла ошибка")
		}
	case update.Message != nil:
		if err := b.handleMessage(ctx, update.Message); err != nil {
			slog.ErrorContext(ctx, "Message handler failed",
				"chat_id", update.Message.Chat.ID,
				"text", update.Message.Text,
				"error", err)
			b.sendText(update.Message.Chat.ID, genericErrorText)
		}
	}
}

// resolveUser loads the ledger user for a Telegram sender without creating
// one. Unregistered senders come back with ID 0.
func (b *Bot) resolveUser(ctx context.Context, from *tgbotapi.User) (core.User, error) {
	return b.storage.UpsertUser(ctx, from.ID, "")
}

// mirrorYesterday queues yesterday's report for the user's journal file.
// Called on entry points so the mirror catches up lazily, one day behind.
func (b *Bot) mirrorYesterday(ctx context.Context, user core.User) {
	if !user.Registered() || user.Name == "" {
		return
	}
	yesterday := time.Now().In(b.loc).AddDate(0, 0, -1)
	b.tx.PublishDailyReport(ctx, user.ID, yesterday)
}

// CleanSessions drops expired flow states and reports how many were
// removed.
func (b *Bot) CleanSessions() int {
	return b.sessions.CleanExpired()
}

func (b *Bot) send(msg tgbotapi.MessageConfig) error {
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func (b *Bot) sendText(chatID int64, text string) error {
	return b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) sendHTML(chatID int64, text string, markup any) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	return b.send(msg)
}

func (b *Bot) answerCallback(id string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, "")); err != nil {
		slog.Error("Failed to answer callback", "error", err)
	}
}

func (b *Bot) answerCallbackAlert(id, text string) {
	cb := tgbotapi.NewCallbackWithAlert(id, text)
	if _, err := b.api.Request(cb); err != nil {
		slog.Error("Failed to answer callback", "error", err)
	}
}

func (b *Bot) editHTML(chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.ReplyMarkup = markup
	if _, err := b.api.Send(edit); err != nil {
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}
