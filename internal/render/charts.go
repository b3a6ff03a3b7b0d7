package render

import (
	"fmt"
	"sort"
	"strings"
)

const (
	barFilled = "█"
	barEmpty  = "░"

	barChartWidth     = 30
	dailyChartWidth   = 25
	compareChartWidth = 30
	trendChartHeight  = 10
	insufficientTrend = "Недостаточно данных для отображения тренда."
)

// Entry is one labeled value in a chart.
type Entry struct {
	Label string
	Value float64
}

// pie marker palette, cycled by rank
var pieGlyphs = [...]string{"🟤", "🟡", "🟢", "🔵", "🟣", "🟠", "🔴", "⚫"}

// barWidth scales value against max into [0, maxWidth] columns, rounding
// down but never below one column for a positive value.
func barWidth(value, max float64, maxWidth int) int {
	if max <= 0 {
		return 0
	}
	w := int(value / max * float64(maxWidth))
	if w < 1 && value > 0 {
		w = 1
	}
	if w > maxWidth {
		w = maxWidth
	}
	return w
}

func bar(value, max float64, maxWidth int) string {
	w := barWidth(value, max, maxWidth)
	return strings.Repeat(barFilled, w) + strings.Repeat(barEmpty, maxWidth-w)
}

func maxValue(entries []Entry) float64 {
	var max float64
	for _, e := range entries {
		if e.Value > max {
			max = e.Value
		}
	}
	return max
}

// BarChart renders horizontal bars, largest value first.
func BarChart(title string, entries []Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n📊 %s\n\n", title)

	if len(entries) == 0 {
		b.WriteString(NoDataLine)
		return b.String()
	}

	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Value > sorted[j].Value })

	max := maxValue(sorted)
	for _, e := range sorted {
		fmt.Fprintf(&b, "%-20s %s %s\n", e.Label, bar(e.Value, max, barChartWidth), Money(e.Value))
	}
	return b.String()
}

// PieChart renders a percentage breakdown, cycling through a fixed palette
// of eight marker glyphs by rank, largest value first.
func PieChart(title string, entries []Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n📈 %s\n\n", title)

	var total float64
	for _, e := range entries {
		total += e.Value
	}
	if len(entries) == 0 || total == 0 {
		b.WriteString(NoDataLine)
		return b.String()
	}

	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Value > sorted[j].Value })

	for i, e := range sorted {
		glyph := pieGlyphs[i%len(pieGlyphs)]
		fmt.Fprintf(&b, "%s %-20s %5.1f%% (%s)\n", glyph, e.Label, e.Value/total*100, Money(e.Value))
	}
	return b.String()
}

// DailyBarChart renders per-date bars in date order.
func DailyBarChart(title string, entries []Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n📅 %s\n\n", title)

	if len(entries) == 0 {
		b.WriteString(NoDataLine)
		return b.String()
	}

	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Label < sorted[j].Label })

	max := maxValue(sorted)
	for _, e := range sorted {
		fmt.Fprintf(&b, "%s %s %s\n", e.Label, bar(e.Value, max, dailyChartWidth), Money(e.Value))
	}
	b.WriteString("\n")
	return b.String()
}

// TrendChart renders a fixed-height vertical bar grid over the value
// sequence, one column per point. Fewer than two points cannot show a
// trend.
func TrendChart(title string, values []float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n📈 %s\n\n", title)

	if len(values) < 2 {
		b.WriteString(insufficientTrend)
		return b.String()
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	spread := max - min
	if spread == 0 {
		spread = 1
	}

	for h := trendChartHeight; h >= 1; h-- {
		threshold := (float64(h) - 0.5) / trendChartHeight
		for _, v := range values {
			if (v-min)/spread >= threshold {
				b.WriteString(barFilled)
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat("─", len(values)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Min: %s | Max: %s\n", Money(min), Money(max))
	b.WriteString("\n")
	return b.String()
}

// ComparisonChart renders two bars on a shared scale with a balance line,
// used for the month's income against its expenses.
func ComparisonChart(income, expense float64) string {
	var b strings.Builder
	b.WriteString("\n🔄 ДОХОД vs РАСХОД (Текущий месяц)\n")
	b.WriteString(strings.Repeat("─", 40))
	b.WriteString("\n")

	max := income
	if expense > max {
		max = expense
	}
	fmt.Fprintf(&b, "💰 Доход:  %s %s\n", bar(income, max, compareChartWidth), Money(income))
	fmt.Fprintf(&b, "🔴 Расход: %s %s\n", bar(expense, max, compareChartWidth), Money(expense))

	balance := income - expense
	marker := "🟢"
	if balance < 0 {
		marker = "🔴"
		balance = -balance
	}
	fmt.Fprintf(&b, "%s Баланс: %s\n", marker, Money(balance))
	return b.String()
}

// ProgressBar renders a twenty-column progress bar for a percentage.
func ProgressBar(percentage float64) string {
	filled := int(percentage / 5)
	if filled < 0 {
		filled = 0
	}
	if filled > 20 {
		filled = 20
	}
	return strings.Repeat(barFilled, filled) + strings.Repeat(barEmpty, 20-filled)
}
