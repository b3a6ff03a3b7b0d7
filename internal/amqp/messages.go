package amqp

import (
	"encoding/json"
	"time"
)

// Message types carried on the journal queue.
const (
	TypeTransaction = "transaction"
	TypeDailyReport = "daily_report"
)

// JournalMessage asks the journal worker to mirror something into a user's
// text file. It is intentionally light: the worker fetches the full rows
// from the ledger, which stays authoritative.
type JournalMessage struct {
	Type          string    `json:"type"`
	UserID        int64     `json:"user_id"`
	TransactionID int64     `json:"transaction_id,omitempty"`
	Date          string    `json:"date,omitempty"` // YYYY-MM-DD, daily reports only
	Timestamp     time.Time `json:"timestamp"`
}

// NewTransactionMessage builds a mirror request for one ledger entry.
func NewTransactionMessage(userID, transactionID int64) *JournalMessage {
	return &JournalMessage{
		Type:          TypeTransaction,
		UserID:        userID,
		TransactionID: transactionID,
		Timestamp:     time.Now(),
	}
}

// NewDailyReportMessage builds a mirror request for one day's report.
func NewDailyReportMessage(userID int64, date time.Time) *JournalMessage {
	return &JournalMessage{
		Type:      TypeDailyReport,
		UserID:    userID,
		Date:      date.Format("2006-01-02"),
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *JournalMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// JournalMessageFromJSON creates a message from JSON bytes.
func JournalMessageFromJSON(data []byte) (*JournalMessage, error) {
	var msg JournalMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
