package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"finbot/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "finbot.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustUser(t *testing.T, repo *SQLiteRepository, externalID int64, name string) core.User {
	t.Helper()
	u, err := repo.UpsertUser(context.Background(), externalID, name)
	if err != nil {
		t.Fatalf("upsert user: %v", err)
	}
	return u
}

func record(t *testing.T, repo *SQLiteRepository, userID int64, amount float64, kind core.Kind, category string) int64 {
	t.Helper()
	id, err := repo.RecordTransaction(context.Background(), userID, amount, kind, core.MethodCash, category, "")
	if err != nil {
		t.Fatalf("record transaction: %v", err)
	}
	return id
}

func TestUpsertUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// lookup with empty name never creates a row
	u, err := repo.UpsertUser(ctx, 111, "")
	if err != nil {
		t.Fatal(err)
	}
	if u.ID != 0 || u.ExternalID != 111 {
		t.Errorf("unknown user sentinel = %+v", u)
	}

	created := mustUser(t, repo, 111, "Иван")
	if created.ID == 0 || created.Name != "Иван" || created.Timezone != "UTC" {
		t.Errorf("created = %+v", created)
	}

	// repeat lookup now finds the row
	found := mustUser(t, repo, 111, "")
	if found.ID != created.ID || found.Name != "Иван" {
		t.Errorf("found = %+v", found)
	}

	// a new name renames in place
	renamed := mustUser(t, repo, 111, "Ваня")
	if renamed.ID != created.ID || renamed.Name != "Ваня" {
		t.Errorf("renamed = %+v", renamed)
	}

	byID, err := repo.GetUserByID(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if byID.Name != "Ваня" {
		t.Errorf("byID = %+v", byID)
	}
}

func TestGetUserByIDNotFound(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.GetUserByID(context.Background(), 999); err != core.ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestBudget(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := mustUser(t, repo, 111, "Иван")

	got, err := repo.GetBudget(ctx, u.ID)
	if err != nil || got != 0 {
		t.Fatalf("unset budget = %v, %v", got, err)
	}

	if err := repo.SetBudget(ctx, u.ID, 50000); err != nil {
		t.Fatal(err)
	}
	got, err = repo.GetBudget(ctx, u.ID)
	if err != nil || got != 50000 {
		t.Errorf("budget = %v, %v", got, err)
	}

	// unknown user reads as zero, not as an error
	got, err = repo.GetBudget(ctx, 999)
	if err != nil || got != 0 {
		t.Errorf("unknown user budget = %v, %v", got, err)
	}
}

func TestRecordAndGetTransaction(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := mustUser(t, repo, 111, "Иван")

	id, err := repo.RecordTransaction(ctx, u.ID, 299.90, core.KindExpense, core.MethodCard, "🍔 Еда", "обед")
	if err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetTransaction(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Amount != 299.90 || got.Kind != core.KindExpense || got.Method != core.MethodCard {
		t.Errorf("got %+v", got)
	}
	if got.Category != "🍔 Еда" || got.Description != "обед" {
		t.Errorf("got %+v", got)
	}
	if got.CreatedAt.IsZero() || got.CreatedAt.Location() != time.UTC {
		t.Errorf("created_at = %v", got.CreatedAt)
	}

	if _, err := repo.GetTransaction(ctx, id+1); err != core.ErrNotFound {
		t.Errorf("missing transaction err = %v", err)
	}
}

func TestRecordTransactionValidation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := mustUser(t, repo, 111, "Иван")

	if _, err := repo.RecordTransaction(ctx, u.ID, 100, "loan", core.MethodCash, "", ""); err != core.ErrInvalidKind {
		t.Errorf("bad kind err = %v", err)
	}
	if _, err := repo.RecordTransaction(ctx, u.ID, 100, core.KindExpense, "crypto", "", ""); err != core.ErrInvalidMethod {
		t.Errorf("bad method err = %v", err)
	}

	// empty category falls back to the default
	id := record(t, repo, u.ID, 100, core.KindExpense, "")
	got, err := repo.GetTransaction(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Category != core.DefaultCategory {
		t.Errorf("category = %q", got.Category)
	}
}

func TestDeleteMostRecentTransaction(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := mustUser(t, repo, 111, "Иван")

	// same-second timestamps tie on created_at; the highest id must win
	first := record(t, repo, u.ID, 100, core.KindExpense, "🍔 Еда")
	second := record(t, repo, u.ID, 200, core.KindExpense, "🚗 Транспорт")

	deleted, err := repo.DeleteMostRecentTransaction(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if deleted == nil || deleted.ID != second {
		t.Fatalf("deleted = %+v, want id %d", deleted, second)
	}

	deleted, err = repo.DeleteMostRecentTransaction(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if deleted == nil || deleted.ID != first {
		t.Fatalf("deleted = %+v, want id %d", deleted, first)
	}

	// empty ledger yields nil, nil
	deleted, err = repo.DeleteMostRecentTransaction(ctx, u.ID)
	if err != nil || deleted != nil {
		t.Errorf("empty ledger = %+v, %v", deleted, err)
	}
}

func TestListAndLastTransactions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := mustUser(t, repo, 111, "Иван")
	other := mustUser(t, repo, 222, "Анна")

	a := record(t, repo, u.ID, 100, core.KindExpense, "🍔 Еда")
	b := record(t, repo, u.ID, 200, core.KindIncome, "💼 Зарплата")
	record(t, repo, other.ID, 999, core.KindExpense, "🍔 Еда")

	from := time.Now().UTC().Add(-time.Hour)
	to := time.Now().UTC().Add(time.Hour)

	list, err := repo.ListTransactions(ctx, u.ID, from, to)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != a || list[1].ID != b {
		t.Errorf("list = %+v", list)
	}

	// a window in the past excludes everything
	empty, err := repo.ListTransactions(ctx, u.ID, from.Add(-48*time.Hour), from)
	if err != nil || len(empty) != 0 {
		t.Errorf("past window = %+v, %v", empty, err)
	}

	last, err := repo.LastTransactions(ctx, u.ID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(last) != 1 || last[0].ID != b {
		t.Errorf("last = %+v", last)
	}
}

func TestSearchTransactions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := mustUser(t, repo, 111, "Иван")

	record(t, repo, u.ID, 250, core.KindExpense, "🍔 Еда")
	record(t, repo, u.ID, 800, core.KindExpense, "🚗 Транспорт")
	salary := record(t, repo, u.ID, 50000, core.KindIncome, "💼 Зарплата")
	lunch, err := repo.RecordTransaction(ctx, u.ID, 450, core.KindExpense, core.MethodCard, "🍔 Еда", "Lunch")
	if err != nil {
		t.Fatal(err)
	}

	byText, err := repo.SearchTransactions(ctx, u.ID, core.SearchFilter{Text: "Еда"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byText) != 2 || byText[0].Category != "🍔 Еда" {
		t.Errorf("byText = %+v", byText)
	}

	// LIKE folds case for ASCII only; Cyrillic matches its exact case
	byDesc, err := repo.SearchTransactions(ctx, u.ID, core.SearchFilter{Text: "lunch"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byDesc) != 1 || byDesc[0].ID != lunch {
		t.Errorf("byDesc = %+v", byDesc)
	}

	byKind, err := repo.SearchTransactions(ctx, u.ID, core.SearchFilter{Kind: core.KindIncome})
	if err != nil {
		t.Fatal(err)
	}
	if len(byKind) != 1 || byKind[0].ID != salary {
		t.Errorf("byKind = %+v", byKind)
	}

	min, max := 200.0, 1000.0
	byAmount, err := repo.SearchTransactions(ctx, u.ID, core.SearchFilter{MinAmount: &min, MaxAmount: &max})
	if err != nil {
		t.Fatal(err)
	}
	if len(byAmount) != 3 {
		t.Errorf("byAmount = %+v", byAmount)
	}

	none, err := repo.SearchTransactions(ctx, u.ID, core.SearchFilter{Text: "кино"})
	if err != nil || len(none) != 0 {
		t.Errorf("no-match search = %+v, %v", none, err)
	}
}

func TestAggregates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := mustUser(t, repo, 111, "Иван")

	record(t, repo, u.ID, 50000, core.KindIncome, "💼 Зарплата")
	record(t, repo, u.ID, 300, core.KindExpense, "🍔 Еда")
	record(t, repo, u.ID, 700, core.KindExpense, "🍔 Еда")
	record(t, repo, u.ID, 400, core.KindExpense, "🚗 Транспорт")

	totals, err := repo.UserTotals(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if totals.Income != 50000 || totals.Expense != 1400 || totals.Count != 4 {
		t.Errorf("totals = %+v", totals)
	}

	from := time.Now().UTC().Add(-time.Hour)
	to := time.Now().UTC().Add(time.Hour)

	spent, err := repo.SumKind(ctx, u.ID, core.KindExpense, from, to)
	if err != nil || spent != 1400 {
		t.Errorf("SumKind = %v, %v", spent, err)
	}

	cats, err := repo.CategoryTotals(ctx, u.ID, core.KindExpense, from, to)
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != 2 || cats[0].Name != "🍔 Еда" || cats[0].Amount != 1000 || cats[0].Count != 2 {
		t.Errorf("category totals = %+v", cats)
	}

	dist, err := repo.CategoryDistribution(ctx, u.ID, core.KindIncome)
	if err != nil {
		t.Fatal(err)
	}
	if len(dist) != 1 || dist[0].Name != "💼 Зарплата" || dist[0].Amount != 50000 {
		t.Errorf("distribution = %+v", dist)
	}

	daily, err := repo.DailyExpenseTotals(ctx, u.ID, from, to)
	if err != nil {
		t.Fatal(err)
	}
	if len(daily) != 1 || daily[0].Total != 1400 {
		t.Errorf("daily = %+v", daily)
	}

	monthly, err := repo.MonthlyExpenseTotals(ctx, u.ID, 6)
	if err != nil {
		t.Fatal(err)
	}
	if len(monthly) != 1 || monthly[0].Total != 1400 {
		t.Errorf("monthly = %+v", monthly)
	}
}

func TestGoals(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := mustUser(t, repo, 111, "Иван")
	other := mustUser(t, repo, 222, "Анна")

	deadline := time.Date(2027, time.June, 1, 0, 0, 0, 0, time.UTC)
	id, err := repo.CreateGoal(ctx, u.ID, "Отпуск", 90000, &deadline)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := repo.CreateGoal(ctx, u.ID, "Ноутбук", 120000, nil); err != nil {
		t.Fatal(err)
	}

	goals, err := repo.ListGoals(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(goals) != 2 {
		t.Fatalf("goals = %+v", goals)
	}
	// same-second created_at ties break toward the newest id
	if goals[0].Name != "Ноутбук" || goals[0].Deadline != nil {
		t.Errorf("goals[0] = %+v", goals[0])
	}
	if goals[1].Deadline == nil || !goals[1].Deadline.Equal(deadline) {
		t.Errorf("goals[1] deadline = %v", goals[1].Deadline)
	}

	ok, err := repo.ContributeToGoal(ctx, u.ID, id, 15000)
	if err != nil || !ok {
		t.Fatalf("contribute = %v, %v", ok, err)
	}
	// someone else's goal is untouchable
	ok, err = repo.ContributeToGoal(ctx, other.ID, id, 15000)
	if err != nil || ok {
		t.Fatalf("foreign contribute = %v, %v", ok, err)
	}

	goals, err = repo.ListGoals(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if goals[1].CurrentAmount != 15000 {
		t.Errorf("current = %v", goals[1].CurrentAmount)
	}

	ok, err = repo.DeleteGoal(ctx, other.ID, id)
	if err != nil || ok {
		t.Fatalf("foreign delete = %v, %v", ok, err)
	}
	ok, err = repo.DeleteGoal(ctx, u.ID, id)
	if err != nil || !ok {
		t.Fatalf("delete = %v, %v", ok, err)
	}

	goals, err = repo.ListGoals(ctx, u.ID)
	if err != nil || len(goals) != 1 {
		t.Errorf("after delete = %+v, %v", goals, err)
	}
}
