package core

import (
	"errors"
	"time"
)

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"

	MethodCash Method = "cash"
	MethodCard Method = "card"
)

// DefaultCategory is assigned when a transaction is recorded without one.
const DefaultCategory = "Другое"

type (
	// Kind is the transaction polarity.
	Kind string

	// Method is the payment channel.
	Method string

	// User is a registered (or sentinel unregistered) chat user.
	User struct {
		ID            int64
		ExternalID    int64
		Name          string
		Timezone      string
		MonthlyBudget float64
		CreatedAt     time.Time
	}

	// Transaction is a single immutable ledger entry.
	Transaction struct {
		ID          int64
		UserID      int64
		Amount      float64
		Kind        Kind
		Method      Method
		Category    string
		Description string
		CreatedAt   time.Time
	}

	// Goal is a named savings target. Deadline is optional.
	Goal struct {
		ID            int64
		UserID        int64
		Name          string
		TargetAmount  float64
		CurrentAmount float64
		Deadline      *time.Time
		CreatedAt     time.Time
	}

	// CategoryTotal is an amount and row count aggregated by category.
	CategoryTotal struct {
		Name   string
		Amount float64
		Count  int64
	}

	// DailyTotal is an expense sum for one calendar date.
	DailyTotal struct {
		Date  time.Time
		Total float64
	}

	// MonthTotal is an expense sum for one (month, year) pair.
	MonthTotal struct {
		Month int
		Year  int
		Total float64
	}

	// SearchFilter narrows a transaction search. Zero fields are ignored;
	// Kind "" matches both kinds.
	SearchFilter struct {
		Text      string
		MinAmount *float64
		MaxAmount *float64
		Kind      Kind
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidName   = errors.New("invalid name")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidKind   = errors.New("invalid transaction kind")
	ErrInvalidMethod = errors.New("invalid payment method")
	ErrNotFound      = errors.New("not found")
)

// Registered reports whether the user has a ledger row. UpsertUser returns
// a sentinel user with ID 0 when no name was ever supplied.
func (u User) Registered() bool {
	return u.ID != 0
}

func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

func (m Method) Valid() bool {
	return m == MethodCash || m == MethodCard
}

// Signed returns the amount with expense polarity applied.
func (t Transaction) Signed() float64 {
	if t.Kind == KindExpense {
		return -t.Amount
	}
	return t.Amount
}
