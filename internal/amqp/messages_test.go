package amqp

import (
	"testing"
	"time"
)

func TestNewTransactionMessage(t *testing.T) {
	msg := NewTransactionMessage(7, 42)
	if msg.Type != TypeTransaction || msg.UserID != 7 || msg.TransactionID != 42 {
		t.Errorf("got %+v", msg)
	}
	if msg.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestNewDailyReportMessage(t *testing.T) {
	day := time.Date(2026, time.August, 31, 15, 4, 5, 0, time.UTC)
	msg := NewDailyReportMessage(7, day)
	if msg.Type != TypeDailyReport || msg.Date != "2026-08-31" {
		t.Errorf("got %+v", msg)
	}
}

func TestJournalMessageRoundTrip(t *testing.T) {
	data, err := NewTransactionMessage(7, 42).ToJSON()
	if err != nil {
		t.Fatal(err)
	}

	got, err := JournalMessageFromJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != TypeTransaction || got.UserID != 7 || got.TransactionID != 42 {
		t.Errorf("got %+v", got)
	}

	if _, err := JournalMessageFromJSON([]byte("not json")); err == nil {
		t.Error("malformed payload must fail")
	}
}
