package render

import (
	"fmt"
	"strings"
	"time"

	"finbot/internal/core"
)

// NoOperationsMarker is the substring every empty-window report carries.
// The journal mirror scans for it to skip empty daily reports, so it must
// stay byte-identical across call sites.
const NoOperationsMarker = "ещё нет операций"

// NoDataLine is the shared empty-chart placeholder.
const NoDataLine = "Нет данных для отображения."

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "Пн",
	time.Tuesday:   "Вт",
	time.Wednesday: "Ср",
	time.Thursday:  "Чт",
	time.Friday:    "Пт",
	time.Saturday:  "Сб",
	time.Sunday:    "Вс",
}

// Weekday returns the localized two-letter weekday abbreviation.
func Weekday(d time.Time) string {
	return weekdayNames[d.Weekday()]
}

func kindMarker(k core.Kind) string {
	if k == core.KindIncome {
		return "🟢"
	}
	return "🔴"
}

func methodMarker(m core.Method) string {
	if m == core.MethodCash {
		return "💵"
	}
	return "💳"
}

// MethodLabel returns the localized payment method name.
func MethodLabel(m core.Method) string {
	if m == core.MethodCash {
		return "наличные"
	}
	return "карта"
}

// DetailedReport renders transactions grouped by calendar date, oldest date
// first, with per-day and grand totals. Transactions keep the order they
// arrived in within a date; the caller passes them creation-time ascending.
// Callers must short-circuit empty windows to their sentinel text before
// calling; an empty slice here renders only the totals skeleton.
func DetailedReport(title string, txs []core.Transaction) string {
	type dayGroup struct {
		date time.Time
		txs  []core.Transaction
	}

	var (
		days         []*dayGroup
		byDate       = make(map[string]*dayGroup)
		totalIncome  float64
		totalExpense float64
	)
	for _, t := range txs {
		key := t.CreatedAt.Format("2006-01-02")
		g, ok := byDate[key]
		if !ok {
			day, _ := time.Parse("2006-01-02", key)
			g = &dayGroup{date: day}
			byDate[key] = g
			days = append(days, g)
		}
		g.txs = append(g.txs, t)
		if t.Kind == core.KindIncome {
			totalIncome += t.Amount
		} else {
			totalExpense += t.Amount
		}
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(title)
	b.WriteString("\n\n")

	for _, g := range days {
		fmt.Fprintf(&b, "📅 %s (%s)\n", g.date.Format("02.01.2006"), Weekday(g.date))

		var dayIncome, dayExpense float64
		for _, t := range g.txs {
			fmt.Fprintf(&b, "  %s %s  •  %-18s  •  %s  (%s)\n",
				kindMarker(t.Kind),
				t.CreatedAt.Format("15:04"),
				Money(t.Amount),
				t.Category,
				methodMarker(t.Method))
			if t.Kind == core.KindIncome {
				dayIncome += t.Amount
			} else {
				dayExpense += t.Amount
			}
		}

		b.WriteString("\n")
		if dayIncome > 0 {
			fmt.Fprintf(&b, "  🟢 Доход:  %s\n", Money(dayIncome))
		}
		if dayExpense > 0 {
			fmt.Fprintf(&b, "  🔴 Расход:  %s\n", Money(dayExpense))
		}
		dayBalance := dayIncome - dayExpense
		if dayBalance >= 0 {
			fmt.Fprintf(&b, "  🟢 Баланс:  %s\n", Money(dayBalance))
		} else {
			fmt.Fprintf(&b, "  🔴 Дефицит:  %s\n", Money(-dayBalance))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n📊 Итоговая статистика\n\n")
	if totalIncome > 0 {
		fmt.Fprintf(&b, "  🟢 Всего доходов:     %s\n", Money(totalIncome))
	}
	if totalExpense > 0 {
		fmt.Fprintf(&b, "  🔴 Всего расходов:    %s\n", Money(totalExpense))
	}
	totalBalance := totalIncome - totalExpense
	if totalBalance >= 0 {
		fmt.Fprintf(&b, "  🟢 Прибыль: %s\n", Money(totalBalance))
	} else {
		fmt.Fprintf(&b, "  🔴 Дефицит: %s\n", Money(-totalBalance))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "  📈 Дней в отчете: %d\n", len(days))
	fmt.Fprintf(&b, "  💵 Всего операций: %d\n", len(txs))
	b.WriteString("\n")

	return b.String()
}

// TransactionLine renders one history/search row with its ordinal.
func TransactionLine(i int, t core.Transaction) string {
	return fmt.Sprintf("%d. %s <b>%s %s</b>\n   💰 %s\n   📁 %s %s\n",
		i,
		kindMarker(t.Kind),
		t.CreatedAt.Format("02.01.2006"),
		t.CreatedAt.Format("15:04"),
		Money(t.Amount),
		t.Category,
		methodMarker(t.Method))
}

// JournalLine renders the append-only journal mirror entry for one
// transaction.
func JournalLine(t core.Transaction) string {
	category := t.Category
	if category == "" {
		category = "без категории"
	}
	return fmt.Sprintf("%s %s | %.2f ₽ | %s | %s",
		kindMarker(t.Kind),
		t.CreatedAt.Format("2006-01-02 15:04"),
		t.Amount,
		MethodLabel(t.Method),
		category)
}
