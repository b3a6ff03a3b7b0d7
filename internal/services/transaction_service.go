// Package services orchestrates ledger writes, report assembly and goal
// math on top of storage, publishing journal mirror messages as a side
// effect.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finbot/internal/amqp"
	"finbot/internal/core"
	"finbot/internal/storage"
)

// TransactionService handles income and expense recording across SQLite
// and AMQP. The SQLite write is authoritative; the journal mirror message
// is best effort and never fails the operation.
type TransactionService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewTransactionService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// Record validates and appends one ledger entry, then publishes a journal
// mirror message for it.
func (s *TransactionService) Record(ctx context.Context, userID int64, amount float64, kind core.Kind, method core.Method, category, description string) (core.Transaction, error) {
	if amount <= 0 {
		return core.Transaction{}, core.ErrInvalidAmount
	}

	id, err := s.storage.RecordTransaction(ctx, userID, amount, kind, method, category, description)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("record transaction: %w", err)
	}

	t, err := s.storage.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load recorded transaction: %w", err)
	}

	s.publishJournal(ctx, amqp.NewTransactionMessage(userID, id))
	return t, nil
}

// UndoLast deletes the user's most recent transaction and returns its
// snapshot, or nil when there is nothing to undo.
func (s *TransactionService) UndoLast(ctx context.Context, userID int64) (*core.Transaction, error) {
	t, err := s.storage.DeleteMostRecentTransaction(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("undo last transaction: %w", err)
	}
	return t, nil
}

// PublishDailyReport asks the journal worker to append one day's report to
// the user's journal file.
func (s *TransactionService) PublishDailyReport(ctx context.Context, userID int64, date time.Time) {
	s.publishJournal(ctx, amqp.NewDailyReportMessage(userID, date))
}

func (s *TransactionService) publishJournal(ctx context.Context, msg *amqp.JournalMessage) {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping journal message")
		return
	}
	if err := s.amqpClient.PublishJournal(ctx, msg); err != nil {
		// Ledger write already committed, the mirror can lag.
		slog.ErrorContext(ctx, "Failed to publish journal message",
			"type", msg.Type,
			"user_id", msg.UserID,
			"error", err)
	}
}
