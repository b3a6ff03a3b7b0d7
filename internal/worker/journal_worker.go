// Package worker runs the journal mirror consumer: it turns queued
// journal messages into appends on per-user text files.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finbot/internal/amqp"
	"finbot/internal/core"
	"finbot/internal/journal"
	"finbot/internal/render"
	"finbot/internal/services"
	"finbot/internal/storage"
)

// JournalWorker consumes journal messages and writes the per-user mirror
// files. Handler errors requeue the message, so transient storage or
// filesystem failures retry; messages referring to rows that no longer
// exist are dropped.
type JournalWorker struct {
	storage *storage.SQLiteRepository
	reports *services.ReportService
	journal *journal.Journal
	client  *amqp.Client
}

func NewJournalWorker(storage *storage.SQLiteRepository, reports *services.ReportService, journal *journal.Journal, client *amqp.Client) *JournalWorker {
	return &JournalWorker{
		storage: storage,
		reports: reports,
		journal: journal,
		client:  client,
	}
}

// Run consumes until ctx is done.
func (w *JournalWorker) Run(ctx context.Context) error {
	return w.client.ConsumeJournal(ctx, func(msg *amqp.JournalMessage) error {
		switch msg.Type {
		case amqp.TypeTransaction:
			return w.handleTransaction(ctx, msg)
		case amqp.TypeDailyReport:
			return w.handleDailyReport(ctx, msg)
		default:
			slog.WarnContext(ctx, "Unknown journal message type", "type", msg.Type)
			return nil
		}
	})
}

func (w *JournalWorker) handleTransaction(ctx context.Context, msg *amqp.JournalMessage) error {
	t, err := w.storage.GetTransaction(ctx, msg.TransactionID)
	if errors.Is(err, core.ErrNotFound) {
		// Undone before the mirror caught up.
		slog.InfoContext(ctx, "Transaction gone, skipping journal append",
			"transaction_id", msg.TransactionID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load transaction: %w", err)
	}

	user, err := w.storage.GetUserByID(ctx, t.UserID)
	if errors.Is(err, core.ErrNotFound) {
		slog.WarnContext(ctx, "User gone, skipping journal append", "user_id", t.UserID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	if err := w.journal.EnsureHeader(user.Name); err != nil {
		return fmt.Errorf("ensure journal header: %w", err)
	}
	if err := w.journal.AppendLine(user.Name, render.JournalLine(t)); err != nil {
		return fmt.Errorf("append journal line: %w", err)
	}

	slog.DebugContext(ctx, "Journal line appended",
		"user_id", user.ID,
		"transaction_id", t.ID)
	return nil
}

func (w *JournalWorker) handleDailyReport(ctx context.Context, msg *amqp.JournalMessage) error {
	day, err := time.Parse("2006-01-02", msg.Date)
	if err != nil {
		slog.ErrorContext(ctx, "Bad daily report date, dropping", "date", msg.Date)
		return nil
	}

	user, err := w.storage.GetUserByID(ctx, msg.UserID)
	if errors.Is(err, core.ErrNotFound) {
		slog.WarnContext(ctx, "User gone, skipping daily report", "user_id", msg.UserID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	text, err := w.reports.DailyReportText(ctx, user.ID, day)
	if err != nil {
		return fmt.Errorf("build daily report: %w", err)
	}

	if err := w.journal.EnsureHeader(user.Name); err != nil {
		return fmt.Errorf("ensure journal header: %w", err)
	}
	if err := w.journal.AppendDailyReport(user.Name, day, text); err != nil {
		return fmt.Errorf("append daily report: %w", err)
	}

	slog.DebugContext(ctx, "Daily report mirrored",
		"user_id", user.ID,
		"date", msg.Date)
	return nil
}
