package render

import "testing"

func TestMoney(t *testing.T) {
	// Group separators are non-breaking spaces.
	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{"zero", 0, "0,00 ₽"},
		{"no grouping", 999, "999,00 ₽"},
		{"one group", 1234.5, "1\u00a0234,50 ₽"},
		{"two groups", 1234567.5, "1\u00a0234\u00a0567,50 ₽"},
		{"exact thousands", 50000, "50\u00a0000,00 ₽"},
		{"cents", 299.9, "299,90 ₽"},
		{"negative", -1500.25, "-1\u00a0500,25 ₽"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Money(tt.value); got != tt.want {
				t.Errorf("Money(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}
