package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"finbot/internal/core"

	_ "modernc.org/sqlite"
)

// timeLayout is the canonical created_at representation. RFC 3339 in UTC
// sorts lexicographically, so window filters compare strings directly.
const timeLayout = time.RFC3339

// SQLiteRepository is the ledger store: durable CRUD and aggregate queries
// over users, transactions and goals. Every method opens no transaction of
// its own; each statement is a single logical unit of work.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// UpsertUser looks up a user by external id. With an empty name it never
// creates a row: unknown users get the sentinel unregistered User (ID 0).
// With a name it creates the row or renames the existing one; renaming to
// the current name is a no-op.
func (r *SQLiteRepository) UpsertUser(ctx context.Context, externalID int64, name string) (core.User, error) {
	var (
		u         core.User
		createdAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, external_id, name, timezone, monthly_budget, created_at
		 FROM users WHERE external_id = ?`, externalID).
		Scan(&u.ID, &u.ExternalID, &u.Name, &u.Timezone, &u.MonthlyBudget, &createdAt)
	switch {
	case err == nil:
		u.CreatedAt = parseTime(createdAt)
		if name != "" && name != u.Name {
			if _, err := r.db.ExecContext(ctx,
				`UPDATE users SET name = ? WHERE external_id = ?`, name, externalID); err != nil {
				return core.User{}, fmt.Errorf("rename user: %w", err)
			}
			u.Name = name
		}
		return u, nil
	case errors.Is(err, sql.ErrNoRows):
		if name == "" {
			return core.User{ExternalID: externalID}, nil
		}
		now := time.Now().UTC()
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO users (external_id, name, created_at) VALUES (?, ?, ?)`,
			externalID, name, now.Format(timeLayout))
		if err != nil {
			return core.User{}, fmt.Errorf("insert user: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return core.User{}, fmt.Errorf("user insert id: %w", err)
		}
		slog.InfoContext(ctx, "User registered", "user_id", id, "external_id", externalID)
		return core.User{
			ID:         id,
			ExternalID: externalID,
			Name:       name,
			Timezone:   "UTC",
			CreatedAt:  now,
		}, nil
	default:
		return core.User{}, fmt.Errorf("select user: %w", err)
	}
}

// GetUserByID returns the user with the given ledger id.
func (r *SQLiteRepository) GetUserByID(ctx context.Context, id int64) (core.User, error) {
	var (
		u         core.User
		createdAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, external_id, name, timezone, monthly_budget, created_at
		 FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.ExternalID, &u.Name, &u.Timezone, &u.MonthlyBudget, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("select user by id: %w", err)
	}
	u.CreatedAt = parseTime(createdAt)
	return u, nil
}

// SetBudget stores the monthly budget for a user.
func (r *SQLiteRepository) SetBudget(ctx context.Context, userID int64, amount float64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE users SET monthly_budget = ? WHERE id = ?`, amount, userID); err != nil {
		return fmt.Errorf("set budget: %w", err)
	}
	return nil
}

// GetBudget returns the monthly budget, 0 when unset or the user is unknown.
func (r *SQLiteRepository) GetBudget(ctx context.Context, userID int64) (float64, error) {
	var budget float64
	err := r.db.QueryRowContext(ctx,
		`SELECT monthly_budget FROM users WHERE id = ?`, userID).Scan(&budget)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get budget: %w", err)
	}
	return budget, nil
}

// RecordTransaction appends one ledger entry and returns its id. The row is
// durably committed before the method returns.
func (r *SQLiteRepository) RecordTransaction(ctx context.Context, userID int64, amount float64, kind core.Kind, method core.Method, category, description string) (int64, error) {
	if !kind.Valid() {
		return 0, core.ErrInvalidKind
	}
	if !method.Valid() {
		return 0, core.ErrInvalidMethod
	}
	if category == "" {
		category = core.DefaultCategory
	}

	var desc any
	if description != "" {
		desc = description
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, amount, type, method, category, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, amount, string(kind), string(method), category, desc,
		time.Now().UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction recorded",
		"id", id,
		"user_id", userID,
		"amount", amount,
		"kind", string(kind),
		"category", category)
	return id, nil
}

// GetTransaction returns a single transaction by id.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, amount, type, method, category, description, created_at
		 FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("select transaction: %w", err)
	}
	return t, nil
}

// DeleteMostRecentTransaction removes the user's newest transaction and
// returns its pre-deletion snapshot, or nil when the user has none. The
// select-and-delete is one conditional statement; ties on created_at break
// deterministically toward the highest id.
func (r *SQLiteRepository) DeleteMostRecentTransaction(ctx context.Context, userID int64) (*core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`DELETE FROM transactions
		 WHERE id = (
		     SELECT id FROM transactions
		     WHERE user_id = ?
		     ORDER BY created_at DESC, id DESC
		     LIMIT 1
		 )
		 RETURNING id, user_id, amount, type, method, category, description, created_at`,
		userID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete most recent transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction deleted",
		"id", t.ID,
		"user_id", userID,
		"amount", t.Amount,
		"kind", string(t.Kind))
	return &t, nil
}

// ListTransactions returns all transactions in [from, to), oldest first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID int64, from, to time.Time) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, amount, type, method, category, description, created_at
		 FROM transactions
		 WHERE user_id = ? AND created_at >= ? AND created_at < ?
		 ORDER BY created_at ASC, id ASC`,
		userID, from.UTC().Format(timeLayout), to.UTC().Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// LastTransactions returns the newest transactions, capped at limit.
func (r *SQLiteRepository) LastTransactions(ctx context.Context, userID int64, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, amount, type, method, category, description, created_at
		 FROM transactions
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("last transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// SearchTransactions filters by the optional criteria in f, newest first,
// capped at 50 rows. Text matches category or description via LIKE, whose
// case folding is ASCII-only in SQLite: "food" matches "Food", but Cyrillic
// text matches only its exact case.
func (r *SQLiteRepository) SearchTransactions(ctx context.Context, userID int64, f core.SearchFilter) ([]core.Transaction, error) {
	query := `SELECT id, user_id, amount, type, method, category, description, created_at
	          FROM transactions WHERE user_id = ?`
	args := []any{userID}

	if f.Kind != "" {
		query += ` AND type = ?`
		args = append(args, string(f.Kind))
	}
	if f.MinAmount != nil {
		query += ` AND amount >= ?`
		args = append(args, *f.MinAmount)
	}
	if f.MaxAmount != nil {
		query += ` AND amount <= ?`
		args = append(args, *f.MaxAmount)
	}
	if f.Text != "" {
		query += ` AND (category LIKE ? OR description LIKE ?)`
		pattern := "%" + f.Text + "%"
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT 50`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t         core.Transaction
		kind      string
		method    string
		desc      sql.NullString
		createdAt string
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Amount, &kind, &method, &t.Category, &desc, &createdAt); err != nil {
		return core.Transaction{}, err
	}
	t.Kind = core.Kind(kind)
	t.Method = core.Method(method)
	t.Description = desc.String
	t.CreatedAt = parseTime(createdAt)
	return t, nil
}

func collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
