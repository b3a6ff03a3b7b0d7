package report

import (
	"testing"

	"finbot/internal/core"
)

func TestParseQueryKindSuffix(t *testing.T) {
	tests := []struct {
		query    string
		wantText string
		wantKind core.Kind
	}{
		{"еда:expense", "еда", core.KindExpense},
		{"еда:расход", "еда", core.KindExpense},
		{"зарплата:income", "зарплата", core.KindIncome},
		{"зарплата:что-угодно", "зарплата", core.KindIncome},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			f := ParseQuery(tt.query)
			if f.Text != tt.wantText || f.Kind != tt.wantKind {
				t.Errorf("ParseQuery(%q) = {Text: %q, Kind: %q}", tt.query, f.Text, f.Kind)
			}
			if f.MinAmount != nil || f.MaxAmount != nil {
				t.Errorf("kind query must not set amount bounds")
			}
		})
	}
}

func TestParseQueryAmountRange(t *testing.T) {
	f := ParseQuery("5000-10000")
	if f.MinAmount == nil || f.MaxAmount == nil {
		t.Fatal("range bounds not set")
	}
	if *f.MinAmount != 5000 || *f.MaxAmount != 10000 {
		t.Errorf("range = [%v, %v]", *f.MinAmount, *f.MaxAmount)
	}
	if f.Text != "" || f.Kind != "" {
		t.Errorf("range query must not set text or kind")
	}
}

func TestParseQueryExactAmount(t *testing.T) {
	f := ParseQuery("50000")
	if f.MinAmount == nil || f.MaxAmount == nil {
		t.Fatal("exact amount bounds not set")
	}
	// widened to ±1%
	if *f.MinAmount != 49500 || *f.MaxAmount != 50500 {
		t.Errorf("bounds = [%v, %v], want [49500, 50500]", *f.MinAmount, *f.MaxAmount)
	}
}

func TestParseQueryText(t *testing.T) {
	tests := []string{"еда", "такси до дома", "кофе-брейк"}
	for _, q := range tests {
		f := ParseQuery(q)
		if f.Text != q {
			t.Errorf("ParseQuery(%q).Text = %q", q, f.Text)
		}
		if f.Kind != "" || f.MinAmount != nil || f.MaxAmount != nil {
			t.Errorf("plain text query %q must set only Text", q)
		}
	}
}
