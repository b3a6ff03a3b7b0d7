package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{"integer", "500", 500, false},
		{"dot decimal", "1500.50", 1500.5, false},
		{"comma decimal", "1500,50", 1500.5, false},
		{"surrounding spaces", "  299.90  ", 299.9, false},
		{"minimum bound", "0.01", 0.01, false},
		{"maximum bound", "10000000", 10_000_000, false},
		{"zero", "0", 0, true},
		{"negative", "-100", 0, true},
		{"above maximum", "10000001", 0, true},
		{"empty", "", 0, true},
		{"not a number", "пятьсот", 0, true},
		{"two separators", "1.500,50", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input, MinTransactionAmount, MaxTransactionAmount)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("ParseAmount(%q) error = %v, want ErrInvalidAmount", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseAmountCustomBounds(t *testing.T) {
	if _, err := ParseAmount("5", 10, 100); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("amount below narrowed minimum should be rejected, got %v", err)
	}
	if got, err := ParseAmount("50", 10, 100); err != nil || got != 50 {
		t.Errorf("ParseAmount(50, 10, 100) = %v, %v", got, err)
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Анна", false},
		{"latin with space", "John Smith", false},
		{"fifty runes", string(make50()), false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too long", string(make50()) + "x", true},
		{"http link", "see http://spam.example", true},
		{"https link", "https://spam.example", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr && !errors.Is(err, ErrInvalidName) {
				t.Errorf("ValidateName(%q) = %v, want ErrInvalidName", tt.input, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateName(%q) unexpected error: %v", tt.input, err)
			}
		})
	}
}

func make50() []rune {
	runes := make([]rune, 50)
	for i := range runes {
		runes[i] = 'я'
	}
	return runes
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("01.09.2027", time.UTC)
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	want := time.Date(2027, time.September, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseDate = %v, want %v", got, want)
	}

	for _, bad := range []string{"", "2027-09-01", "32.01.2027", "пропустить"} {
		if _, err := ParseDate(bad, time.UTC); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDate(%q) = %v, want ErrInvalidDate", bad, err)
		}
	}
}

func TestTransactionSigned(t *testing.T) {
	income := Transaction{Amount: 100, Kind: KindIncome}
	expense := Transaction{Amount: 40, Kind: KindExpense}
	if income.Signed() != 100 {
		t.Errorf("income Signed = %v, want 100", income.Signed())
	}
	if expense.Signed() != -40 {
		t.Errorf("expense Signed = %v, want -40", expense.Signed())
	}
}
